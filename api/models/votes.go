package models

import (
	"time"

	"github.com/madihg/singulars/storage"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type CastVoteRequest struct {
	PoemID      string `json:"poem_id"`
	Fingerprint string `json:"fingerprint"`
}

// CastVoteResponse is returned for every 200 outcome of a vote submission,
// including "already voted" and "voting closed". VoteCounts always carries the
// current count for every poem in the pair, so clients never need a follow-up
// fetch.
type CastVoteResponse struct {
	Success     bool           `json:"success"`
	Duplicate   bool           `json:"duplicate"`
	Status      string         `json:"status"`
	Message     string         `json:"message"`
	VoteCounts  map[string]int `json:"vote_counts"`
	VotedPoemID *string        `json:"voted_poem_id"`
}

type CheckVotesResponse struct {
	Fingerprint string         `json:"fingerprint"`
	VotedPoemID *string        `json:"voted_poem_id"`
	VoteCounts  map[string]int `json:"vote_counts"`
	HasVoted    bool           `json:"has_voted"`
}

type VoterVotesResponse struct {
	Fingerprint string      `json:"fingerprint"`
	Count       int         `json:"count"`
	Votes       []VoteEntry `json:"votes"`
}

type VoteEntry struct {
	PoemID        string    `json:"poem_id"`
	PerformanceID string    `json:"performance_id"`
	ThemeSlug     string    `json:"theme_slug"`
	CreatedAt     time.Time `json:"created_at"`
}

type FingerprintResponse struct {
	Fingerprint string `json:"fingerprint"`
	Generated   bool   `json:"generated"`
}

func TransformVoteFromStorage(v *storage.Vote) VoteEntry {
	return VoteEntry{
		PoemID:        v.PoemID,
		PerformanceID: v.PerformanceID,
		ThemeSlug:     v.ThemeSlug,
		CreatedAt:     v.CreatedAt,
	}
}

// PairVoteCounts flattens a poem pair into the poem-id to counter mapping the
// vote endpoints return.
func PairVoteCounts(poems []*storage.Poem) map[string]int {
	counts := make(map[string]int, len(poems))
	for _, p := range poems {
		counts[p.ID] = p.VoteCount
	}
	return counts
}
