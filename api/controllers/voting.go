package controllers

import (
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/madihg/singulars/api/models"
	"github.com/madihg/singulars/fingerprint"
	"github.com/madihg/singulars/logging"
	"github.com/madihg/singulars/ratelimit"
	"github.com/madihg/singulars/storage"
)

// markupPattern matches HTML-tag shaped substrings. Fingerprints containing
// them are rejected outright: sanitizing would silently change an identifier
// that another request submits verbatim.
var markupPattern = regexp.MustCompile(`<[^>]*>`)

type VotingController struct {
	votesStorage        storage.VoteStorage
	poemsStorage        storage.PoemStorage
	performancesStorage storage.PerformanceStorage
	limiter             *ratelimit.Limiter
}

func NewVotingController(voteStorage storage.VoteStorage, poemStorage storage.PoemStorage, performanceStorage storage.PerformanceStorage, limiter *ratelimit.Limiter) *VotingController {
	return &VotingController{
		votesStorage:        voteStorage,
		poemsStorage:        poemStorage,
		performancesStorage: performanceStorage,
		limiter:             limiter,
	}
}

func (c *VotingController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api")

	group.POST("/vote", c.castVote)
	group.GET("/check-votes", c.checkVotes)
	group.GET("/fingerprint", c.getFingerprint)
}

// castVote godoc
// @Summary Cast an anonymous vote for a poem
// @Description Records one vote per fingerprint per poem pair and returns current pair counts
// @Tags voting
// @Accept json
// @Produce json
// @Param vote body models.CastVoteRequest true "Vote submission"
// @Success 200 {object} models.CastVoteResponse
// @Failure 400 {object} models.ErrorResponse "Invalid poem id or fingerprint"
// @Failure 404 {object} models.ErrorResponse "Poem or performance not found"
// @Failure 409 {object} models.ErrorResponse "Poem pair not eligible for voting"
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Failure 503 {object} models.ErrorResponse "Storage unavailable"
// @Failure 500 {object} models.ErrorResponse "Unexpected internal error"
// @Router /api/vote [post]
func (c *VotingController) castVote(g *gin.Context) {
	var req models.CastVoteRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid request format"})
		return
	}

	if req.PoemID == "" {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "missing required fields: poem_id and fingerprint"})
		return
	}
	if _, err := uuid.Parse(req.PoemID); err != nil || len(req.PoemID) != 36 {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid poem_id format: must be a valid UUID"})
		return
	}

	// Validate the submitted value before Resolve mirrors it into the cookie.
	if msg, valid := validateFingerprint(req.Fingerprint); !valid {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: msg})
		return
	}
	fp, ok := fingerprint.Resolve(g, req.Fingerprint)
	if !ok {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "missing required fields: poem_id and fingerprint"})
		return
	}
	if msg, valid := validateFingerprint(fp); !valid {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: msg})
		return
	}

	if !c.limiter.Allow(fp) {
		logging.Log.Warnf("VOTE: rate limit exceeded for fingerprint %.12s...", fp)
		g.JSON(http.StatusTooManyRequests, &models.ErrorResponse{Error: "rate limit exceeded, please wait before voting again"})
		return
	}

	ctx := g.Request.Context()

	poem, err := c.poemsStorage.Get(ctx, req.PoemID)
	if err != nil {
		c.renderStorageError(g, err, "poem not found")
		return
	}

	performance, err := c.performancesStorage.Get(ctx, poem.PerformanceID)
	if err != nil {
		c.renderStorageError(g, err, "performance not found")
		return
	}

	pair, err := c.poemsStorage.GetPair(ctx, poem.PerformanceID, poem.ThemeSlug)
	if err != nil {
		c.renderStorageError(g, err, "")
		return
	}
	// A theme with anything but two poems is a seeding defect; refuse to
	// operate on it rather than count votes against half a pair.
	if len(pair) != 2 {
		logging.Log.Warnf("VOTE: pair %s/%s has %d poems, refusing vote", poem.PerformanceID, poem.ThemeSlug, len(pair))
		g.JSON(http.StatusConflict, &models.ErrorResponse{Error: "poem pair is not eligible for voting"})
		return
	}

	existing, err := c.findPairVote(g, fp, poem.PerformanceID, poem.ThemeSlug)
	if err != nil {
		c.renderStorageError(g, err, "")
		return
	}

	// Closed performances accept no votes even from first-time voters, and a
	// prior vote wins over everything; both answer 200 with current counts.
	if existing != nil || performance.Status != storage.StatusTraining {
		resp := &models.CastVoteResponse{
			Success:    false,
			Duplicate:  existing != nil,
			Status:     performance.Status,
			Message:    "Training is " + performance.Status,
			VoteCounts: models.PairVoteCounts(pair),
		}
		if existing != nil {
			resp.Message = "Already voted on this poem pair"
			resp.VotedPoemID = &existing.PoemID
		}
		g.JSON(http.StatusOK, resp)
		return
	}

	vote := &storage.Vote{
		Fingerprint:   fp,
		PairKey:       storage.PairKey(poem.PerformanceID, poem.ThemeSlug),
		PoemID:        poem.ID,
		PerformanceID: poem.PerformanceID,
		ThemeSlug:     poem.ThemeSlug,
		CreatedAt:     time.Now().UTC(),
	}
	if err := c.votesStorage.Cast(ctx, vote); err != nil {
		if errors.Is(err, storage.ErrDuplicateVote) {
			// Lost the race to a concurrent request from the same voter.
			// Resolve exactly like a pre-detected duplicate.
			c.renderLostRace(g, fp, poem, pair)
			return
		}
		c.renderStorageError(g, err, "poem not found")
		return
	}

	// Re-read the pair so the response reflects the committed increment.
	updatedPair, err := c.poemsStorage.GetPair(ctx, poem.PerformanceID, poem.ThemeSlug)
	if err != nil {
		logging.Log.Errorf("VOTE: vote committed but count refresh failed: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "vote recorded but failed to fetch updated counts, please refresh"})
		return
	}

	g.JSON(http.StatusOK, &models.CastVoteResponse{
		Success:     true,
		Duplicate:   false,
		Status:      storage.StatusTraining,
		Message:     "Vote recorded successfully",
		VoteCounts:  models.PairVoteCounts(updatedPair),
		VotedPoemID: &poem.ID,
	})
}

// renderLostRace answers a cast that hit the store-level uniqueness constraint.
// The winning vote is fetched so the response still names the voter's choice.
func (c *VotingController) renderLostRace(g *gin.Context, fp string, poem *storage.Poem, pair []*storage.Poem) {
	resp := &models.CastVoteResponse{
		Success:   false,
		Duplicate: true,
		Status:    storage.StatusTraining,
		Message:   "Already voted on this poem pair",
	}

	if existing, err := c.findPairVote(g, fp, poem.PerformanceID, poem.ThemeSlug); err == nil && existing != nil {
		resp.VotedPoemID = &existing.PoemID
	}
	if fresh, err := c.poemsStorage.GetPair(g.Request.Context(), poem.PerformanceID, poem.ThemeSlug); err == nil && len(fresh) > 0 {
		resp.VoteCounts = models.PairVoteCounts(fresh)
	} else {
		resp.VoteCounts = models.PairVoteCounts(pair)
	}

	g.JSON(http.StatusOK, resp)
}

// checkVotes godoc
// @Summary Check a voter's existing vote and current counts
// @Description With poem_ids, reports the voter's choice among them plus per-poem counts; without, lists all of the voter's votes
// @Tags voting
// @Produce json
// @Param fingerprint query string false "Voter fingerprint (falls back to cookie)"
// @Param poem_ids query string false "Comma-separated poem IDs"
// @Success 200 {object} models.CheckVotesResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/check-votes [get]
func (c *VotingController) checkVotes(g *gin.Context) {
	if msg, valid := validateFingerprint(g.Query("fingerprint")); !valid {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: msg})
		return
	}
	fp, ok := fingerprint.Resolve(g, g.Query("fingerprint"))
	if !ok {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "fingerprint query param required"})
		return
	}
	if msg, valid := validateFingerprint(fp); !valid {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: msg})
		return
	}

	votes, err := c.votesStorage.GetByFingerprint(g.Request.Context(), fp)
	if err != nil {
		c.renderStorageError(g, err, "")
		return
	}

	poemIDsParam := g.Query("poem_ids")
	if poemIDsParam == "" {
		resp := models.VoterVotesResponse{
			Fingerprint: fp,
			Count:       len(votes),
			Votes:       make([]models.VoteEntry, 0, len(votes)),
		}
		for _, v := range votes {
			resp.Votes = append(resp.Votes, models.TransformVoteFromStorage(v))
		}
		g.JSON(http.StatusOK, resp)
		return
	}

	poemIDs := make([]string, 0)
	for _, id := range strings.Split(poemIDsParam, ",") {
		if id = strings.TrimSpace(id); id != "" {
			poemIDs = append(poemIDs, id)
		}
	}

	var votedPoemID *string
	for _, v := range votes {
		for _, id := range poemIDs {
			if v.PoemID == id {
				votedPoemID = &v.PoemID
				break
			}
		}
		if votedPoemID != nil {
			break
		}
	}

	poems, err := c.poemsStorage.GetByIDs(g.Request.Context(), poemIDs)
	if err != nil {
		c.renderStorageError(g, err, "")
		return
	}

	g.JSON(http.StatusOK, models.CheckVotesResponse{
		Fingerprint: fp,
		VotedPoemID: votedPoemID,
		VoteCounts:  models.PairVoteCounts(poems),
		HasVoted:    votedPoemID != nil,
	})
}

// getFingerprint godoc
// @Summary Resolve or mint the voter fingerprint
// @Description Returns the identifier from either client store, repairing both; mints a fallback from request signals when neither has one
// @Tags voting
// @Produce json
// @Success 200 {object} models.FingerprintResponse
// @Router /api/fingerprint [get]
func (c *VotingController) getFingerprint(g *gin.Context) {
	if fp, ok := fingerprint.Resolve(g, g.Query("fingerprint")); ok {
		g.JSON(http.StatusOK, models.FingerprintResponse{Fingerprint: fp, Generated: false})
		return
	}

	fp := fingerprint.Mint(g)
	logging.Log.Infof("VOTE: minted fallback fingerprint %.12s...", fp)
	g.JSON(http.StatusOK, models.FingerprintResponse{Fingerprint: fp, Generated: true})
}

func (c *VotingController) findPairVote(g *gin.Context, fp, performanceID, themeSlug string) (*storage.Vote, error) {
	votes, err := c.votesStorage.GetByFingerprint(g.Request.Context(), fp)
	if err != nil {
		return nil, err
	}

	pairKey := storage.PairKey(performanceID, themeSlug)
	for _, v := range votes {
		if v.PairKey == pairKey {
			return v, nil
		}
	}
	return nil, nil
}

func validateFingerprint(fp string) (string, bool) {
	if len(fp) > fingerprint.MaxLength {
		return "invalid fingerprint: exceeds maximum length", false
	}
	if markupPattern.MatchString(fp) {
		return "invalid fingerprint: contains disallowed characters", false
	}
	return "", true
}

// renderStorageError maps sentinel storage errors onto HTTP statuses. Internal
// detail stays in the server log; clients only see the generic message.
func (c *VotingController) renderStorageError(g *gin.Context, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, storage.ErrPoemNotFound), errors.Is(err, storage.ErrPerformanceNotFound):
		if notFoundMsg == "" {
			notFoundMsg = "not found"
		}
		g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: notFoundMsg})
	case errors.Is(err, storage.ErrStoreUnavailable):
		logging.Log.Errorf("VOTE: storage unavailable: %v", err)
		g.JSON(http.StatusServiceUnavailable, &models.ErrorResponse{Error: "service temporarily unavailable, please try again later"})
	default:
		logging.Log.Errorf("VOTE: unexpected storage error: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "something went wrong, please try again later"})
	}
}
