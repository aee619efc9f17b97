package testing

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sort"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/madihg/singulars/storage"
)

// PerformRequest Helper for performing requests in tests.
func PerformRequest(router *gin.Engine, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, err := json.Marshal(body)
		if err != nil {
			panic("failed to marshal request body: " + err.Error())
		}
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	return res
}

// In-memory storage implementations mirroring the DynamoDB semantics the
// controllers rely on, most importantly the (fingerprint, pair key) uniqueness
// of the Votes table and the all-or-nothing cast.

type MemoryPerformanceStorage struct {
	mu           sync.RWMutex
	performances map[string]*storage.Performance
}

func NewMemoryPerformanceStorage() *MemoryPerformanceStorage {
	return &MemoryPerformanceStorage{performances: make(map[string]*storage.Performance)}
}

func (s *MemoryPerformanceStorage) Get(_ context.Context, id string) (*storage.Performance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.performances[id]
	if !ok {
		return nil, storage.ErrPerformanceNotFound
	}
	clone := *p
	return &clone, nil
}

func (s *MemoryPerformanceStorage) GetBySlug(_ context.Context, slug string) (*storage.Performance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.performances {
		if p.Slug == slug {
			clone := *p
			return &clone, nil
		}
	}
	return nil, storage.ErrPerformanceNotFound
}

func (s *MemoryPerformanceStorage) GetAll(_ context.Context) ([]*storage.Performance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]*storage.Performance, 0, len(s.performances))
	for _, p := range s.performances {
		clone := *p
		all = append(all, &clone)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Slug < all[j].Slug })
	return all, nil
}

func (s *MemoryPerformanceStorage) Put(_ context.Context, performance *storage.Performance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *performance
	s.performances[performance.ID] = &clone
	return nil
}

func (s *MemoryPerformanceStorage) UpdateStatus(_ context.Context, id string, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.performances[id]
	if !ok {
		return storage.ErrPerformanceNotFound
	}
	p.Status = status
	return nil
}

type MemoryPoemStorage struct {
	mu    sync.RWMutex
	poems map[string]*storage.Poem
}

func NewMemoryPoemStorage() *MemoryPoemStorage {
	return &MemoryPoemStorage{poems: make(map[string]*storage.Poem)}
}

func (s *MemoryPoemStorage) Get(_ context.Context, id string) (*storage.Poem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.poems[id]
	if !ok {
		return nil, storage.ErrPoemNotFound
	}
	clone := *p
	return &clone, nil
}

func (s *MemoryPoemStorage) GetByIDs(_ context.Context, ids []string) ([]*storage.Poem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	poems := make([]*storage.Poem, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.poems[id]; ok {
			clone := *p
			poems = append(poems, &clone)
		}
	}
	return poems, nil
}

func (s *MemoryPoemStorage) GetPair(_ context.Context, performanceID, themeSlug string) ([]*storage.Poem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var pair []*storage.Poem
	for _, p := range s.poems {
		if p.PerformanceID == performanceID && p.ThemeSlug == themeSlug {
			clone := *p
			pair = append(pair, &clone)
		}
	}
	sort.Slice(pair, func(i, j int) bool { return pair[i].ID < pair[j].ID })
	return pair, nil
}

func (s *MemoryPoemStorage) GetByPerformance(_ context.Context, performanceID string) ([]*storage.Poem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var poems []*storage.Poem
	for _, p := range s.poems {
		if p.PerformanceID == performanceID {
			clone := *p
			poems = append(poems, &clone)
		}
	}
	sort.Slice(poems, func(i, j int) bool { return poems[i].ID < poems[j].ID })
	return poems, nil
}

func (s *MemoryPoemStorage) Put(_ context.Context, poem *storage.Poem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *poem
	s.poems[poem.ID] = &clone
	return nil
}

func (s *MemoryPoemStorage) ResetCount(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.poems[id]
	if !ok {
		return storage.ErrPoemNotFound
	}
	p.VoteCount = 0
	return nil
}

func (s *MemoryPoemStorage) addCount(id string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.poems[id]
	if !ok {
		return storage.ErrPoemNotFound
	}
	p.VoteCount += delta
	return nil
}

type MemoryVoteStorage struct {
	mu    sync.Mutex
	votes map[string]*storage.Vote
	poems *MemoryPoemStorage

	// FailWith, when set, makes every operation return that error.
	FailWith error
}

func NewMemoryVoteStorage(poems *MemoryPoemStorage) *MemoryVoteStorage {
	return &MemoryVoteStorage{votes: make(map[string]*storage.Vote), poems: poems}
}

func (s *MemoryVoteStorage) GetAll(_ context.Context) ([]*storage.Vote, error) {
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]*storage.Vote, 0, len(s.votes))
	for _, v := range s.votes {
		clone := *v
		all = append(all, &clone)
	}
	return all, nil
}

func (s *MemoryVoteStorage) GetByFingerprint(_ context.Context, fingerprint string) ([]*storage.Vote, error) {
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var votes []*storage.Vote
	for _, v := range s.votes {
		if v.Fingerprint == fingerprint {
			clone := *v
			votes = append(votes, &clone)
		}
	}
	return votes, nil
}

// Cast enforces the pair-key uniqueness and only increments the counter when
// the vote row is actually inserted, like the DynamoDB transaction does.
func (s *MemoryVoteStorage) Cast(_ context.Context, vote *storage.Vote) error {
	if s.FailWith != nil {
		return s.FailWith
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := vote.Fingerprint + "|" + vote.PairKey
	if _, exists := s.votes[key]; exists {
		return storage.ErrDuplicateVote
	}
	if err := s.poems.addCount(vote.PoemID, 1); err != nil {
		return err
	}
	clone := *vote
	s.votes[key] = &clone
	return nil
}

func (s *MemoryVoteStorage) DeleteAll(_ context.Context) error {
	if s.FailWith != nil {
		return s.FailWith
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.votes = make(map[string]*storage.Vote)
	return nil
}
