package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	testutils "github.com/madihg/singulars/api/controllers/testing"
	"github.com/madihg/singulars/api/models"
	"github.com/madihg/singulars/logging"
	"github.com/madihg/singulars/ratelimit"
	"github.com/madihg/singulars/storage"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAdminToken = "test-admin-token"

type adminFixture struct {
	performances *testutils.MemoryPerformanceStorage
	poems        *testutils.MemoryPoemStorage
	votes        *testutils.MemoryVoteStorage
	router       *gin.Engine
}

func setupAdminController(t *testing.T) *adminFixture {
	t.Helper()
	logging.Log = logrus.New()
	t.Setenv("ADMIN_TOKEN", testAdminToken)

	performances := testutils.NewMemoryPerformanceStorage()
	poems := testutils.NewMemoryPoemStorage()
	votes := testutils.NewMemoryVoteStorage(poems)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewAdminController(performances, poems, votes).RegisterRoutes(r)
	NewVotingController(votes, poems, performances, ratelimit.NewLimiter(time.Minute, 30)).RegisterRoutes(r)

	return &adminFixture{performances: performances, poems: poems, votes: votes, router: r}
}

func adminHeaders() map[string]string {
	return map[string]string{"x-admin-token": testAdminToken}
}

func seedPayload(status string) models.SeedRequest {
	return models.SeedRequest{
		Performances: []models.SeedPerformance{
			{
				Slug:   "hard-exe",
				Name:   "Hard.exe",
				Color:  "#ff2d55",
				Status: status,
				Date:   "2026-03-14",
				Poets:  []string{"A. Poet"},
				Themes: []models.SeedTheme{
					{
						Slug: "memory",
						Poems: []models.SeedPoem{
							{AuthorType: storage.AuthorHuman, AuthorName: "A. Poet", Text: "a poem"},
							{AuthorType: storage.AuthorMachine, AuthorName: "Model", Text: "a generated poem"},
						},
					},
				},
			},
		},
	}
}

func TestSeedPerformances(t *testing.T) {
	t.Run("Happy path - seeds performance and poem pair", func(t *testing.T) {
		f := setupAdminController(t)

		res := testutils.PerformRequest(f.router, http.MethodPost, "/api/admin/performances", seedPayload(storage.StatusTraining), adminHeaders())
		require.Equal(t, http.StatusOK, res.Code)

		var resp models.SeedResponse
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.PerformancesUpserted)
		assert.Equal(t, 2, resp.PoemsUpserted)

		performance, err := f.performances.GetBySlug(context.TODO(), "hard-exe")
		require.NoError(t, err)
		poems, err := f.poems.GetByPerformance(context.TODO(), performance.ID)
		require.NoError(t, err)
		assert.Len(t, poems, 2)
	})

	t.Run("Reseeding preserves IDs and vote counts", func(t *testing.T) {
		f := setupAdminController(t)

		first := testutils.PerformRequest(f.router, http.MethodPost, "/api/admin/performances", seedPayload(storage.StatusTraining), adminHeaders())
		require.Equal(t, http.StatusOK, first.Code)

		performance, err := f.performances.GetBySlug(context.TODO(), "hard-exe")
		require.NoError(t, err)
		poemsBefore, err := f.poems.GetByPerformance(context.TODO(), performance.ID)
		require.NoError(t, err)
		require.Len(t, poemsBefore, 2)

		// Record a vote so we can tell whether reseeding clobbers the counter
		castRes := testutils.PerformRequest(f.router, http.MethodPost, "/api/vote",
			models.CastVoteRequest{PoemID: poemsBefore[0].ID, Fingerprint: "fp1"}, nil)
		require.Equal(t, http.StatusOK, castRes.Code)

		second := testutils.PerformRequest(f.router, http.MethodPost, "/api/admin/performances", seedPayload(storage.StatusTraining), adminHeaders())
		require.Equal(t, http.StatusOK, second.Code)

		performanceAfter, err := f.performances.GetBySlug(context.TODO(), "hard-exe")
		require.NoError(t, err)
		assert.Equal(t, performance.ID, performanceAfter.ID)

		poemsAfter, err := f.poems.GetByPerformance(context.TODO(), performance.ID)
		require.NoError(t, err)
		require.Len(t, poemsAfter, 2, "reseeding must not duplicate poems")

		voted, err := f.poems.Get(context.TODO(), poemsBefore[0].ID)
		require.NoError(t, err)
		assert.Equal(t, 1, voted.VoteCount, "reseeding must not reset counters")
	})

	t.Run("Invalid status is rejected", func(t *testing.T) {
		f := setupAdminController(t)

		res := testutils.PerformRequest(f.router, http.MethodPost, "/api/admin/performances", seedPayload("live"), adminHeaders())
		assert.Equal(t, http.StatusBadRequest, res.Code)
	})

	t.Run("Missing admin token is unauthorized", func(t *testing.T) {
		f := setupAdminController(t)

		res := testutils.PerformRequest(f.router, http.MethodPost, "/api/admin/performances", seedPayload(storage.StatusTraining), nil)
		assert.Equal(t, http.StatusUnauthorized, res.Code)
	})
}

func TestUpdatePerformanceStatus(t *testing.T) {
	t.Run("Forward transition succeeds", func(t *testing.T) {
		f := setupAdminController(t)
		seedRes := testutils.PerformRequest(f.router, http.MethodPost, "/api/admin/performances", seedPayload(storage.StatusUpcoming), adminHeaders())
		require.Equal(t, http.StatusOK, seedRes.Code)

		res := testutils.PerformRequest(f.router, http.MethodPut, "/api/admin/performances/hard-exe/status",
			models.UpdateStatusRequest{Status: storage.StatusTraining}, adminHeaders())
		require.Equal(t, http.StatusOK, res.Code)

		performance, err := f.performances.GetBySlug(context.TODO(), "hard-exe")
		require.NoError(t, err)
		assert.Equal(t, storage.StatusTraining, performance.Status)
	})

	t.Run("Backward transition is rejected", func(t *testing.T) {
		f := setupAdminController(t)
		seedRes := testutils.PerformRequest(f.router, http.MethodPost, "/api/admin/performances", seedPayload(storage.StatusTrained), adminHeaders())
		require.Equal(t, http.StatusOK, seedRes.Code)

		res := testutils.PerformRequest(f.router, http.MethodPut, "/api/admin/performances/hard-exe/status",
			models.UpdateStatusRequest{Status: storage.StatusTraining}, adminHeaders())
		assert.Equal(t, http.StatusConflict, res.Code)
	})

	t.Run("Unknown slug is a 404", func(t *testing.T) {
		f := setupAdminController(t)

		res := testutils.PerformRequest(f.router, http.MethodPut, "/api/admin/performances/missing/status",
			models.UpdateStatusRequest{Status: storage.StatusTraining}, adminHeaders())
		assert.Equal(t, http.StatusNotFound, res.Code)
	})
}

func TestResetVotes(t *testing.T) {
	f := setupAdminController(t)
	seedRes := testutils.PerformRequest(f.router, http.MethodPost, "/api/admin/performances", seedPayload(storage.StatusTraining), adminHeaders())
	require.Equal(t, http.StatusOK, seedRes.Code)

	performance, err := f.performances.GetBySlug(context.TODO(), "hard-exe")
	require.NoError(t, err)
	poems, err := f.poems.GetByPerformance(context.TODO(), performance.ID)
	require.NoError(t, err)
	require.Len(t, poems, 2)

	castRes := testutils.PerformRequest(f.router, http.MethodPost, "/api/vote",
		models.CastVoteRequest{PoemID: poems[0].ID, Fingerprint: "fp1"}, nil)
	require.Equal(t, http.StatusOK, castRes.Code)

	res := testutils.PerformRequest(f.router, http.MethodPost, "/api/admin/votes/reset", nil, adminHeaders())
	require.Equal(t, http.StatusOK, res.Code)

	votes, err := f.votes.GetAll(context.TODO())
	require.NoError(t, err)
	assert.Empty(t, votes)

	for _, p := range poems {
		fresh, err := f.poems.Get(context.TODO(), p.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, fresh.VoteCount)
	}
}

func TestListVotes(t *testing.T) {
	f := setupAdminController(t)
	seedRes := testutils.PerformRequest(f.router, http.MethodPost, "/api/admin/performances", seedPayload(storage.StatusTraining), adminHeaders())
	require.Equal(t, http.StatusOK, seedRes.Code)

	performance, err := f.performances.GetBySlug(context.TODO(), "hard-exe")
	require.NoError(t, err)
	poems, err := f.poems.GetByPerformance(context.TODO(), performance.ID)
	require.NoError(t, err)

	castRes := testutils.PerformRequest(f.router, http.MethodPost, "/api/vote",
		models.CastVoteRequest{PoemID: poems[0].ID, Fingerprint: "fp1"}, nil)
	require.Equal(t, http.StatusOK, castRes.Code)

	res := testutils.PerformRequest(f.router, http.MethodGet, "/api/admin/votes", nil, adminHeaders())
	require.Equal(t, http.StatusOK, res.Code)

	var votes []storage.Vote
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &votes))
	require.Len(t, votes, 1)
	assert.Equal(t, "fp1", votes[0].Fingerprint)
	assert.Equal(t, poems[0].ID, votes[0].PoemID)
}
