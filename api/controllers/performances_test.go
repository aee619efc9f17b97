package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	testutils "github.com/madihg/singulars/api/controllers/testing"
	"github.com/madihg/singulars/api/models"
	"github.com/madihg/singulars/logging"
	"github.com/madihg/singulars/storage"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupPerformanceController(t *testing.T) (*testutils.MemoryPerformanceStorage, *testutils.MemoryPoemStorage, *gin.Engine) {
	t.Helper()
	logging.Log = logrus.New()

	performances := testutils.NewMemoryPerformanceStorage()
	poems := testutils.NewMemoryPoemStorage()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewPerformanceController(performances, poems).RegisterRoutes(r)

	return performances, poems, r
}

func seedTwoPerformances(t *testing.T, performances *testutils.MemoryPerformanceStorage, poems *testutils.MemoryPoemStorage) {
	t.Helper()
	ctx := context.TODO()

	require.NoError(t, performances.Put(ctx, &storage.Performance{
		ID:     performanceID,
		Slug:   "hard-exe",
		Name:   "Hard.exe",
		Status: storage.StatusTraining,
		Date:   "2026-03-14",
	}))
	require.NoError(t, performances.Put(ctx, &storage.Performance{
		ID:     "8d0f7780-8536-41ef-a55c-f18fd2f01bf8",
		Slug:   "soft-exe",
		Name:   "Soft.exe",
		Status: storage.StatusUpcoming,
		Date:   "2026-06-01",
	}))
	require.NoError(t, poems.Put(ctx, &storage.Poem{
		ID:            humanPoemID,
		PerformanceID: performanceID,
		ThemeSlug:     "memory",
		AuthorType:    storage.AuthorHuman,
		VoteCount:     3,
	}))
	require.NoError(t, poems.Put(ctx, &storage.Poem{
		ID:            machinePoemID,
		PerformanceID: performanceID,
		ThemeSlug:     "memory",
		AuthorType:    storage.AuthorMachine,
		VoteCount:     5,
	}))
}

func TestListPerformances(t *testing.T) {
	performances, poems, router := setupPerformanceController(t)
	seedTwoPerformances(t, performances, poems)

	res := testutils.PerformRequest(router, http.MethodGet, "/api/performances", nil, nil)
	require.Equal(t, http.StatusOK, res.Code)

	var resp []models.PerformanceResponse
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "soft-exe", resp[0].Slug, "newest performance first")
	assert.Equal(t, "hard-exe", resp[1].Slug)
}

func TestGetPerformanceBySlug(t *testing.T) {
	performances, poems, router := setupPerformanceController(t)
	seedTwoPerformances(t, performances, poems)

	t.Run("Happy path - performance with poems", func(t *testing.T) {
		res := testutils.PerformRequest(router, http.MethodGet, "/api/performances/hard-exe", nil, nil)
		require.Equal(t, http.StatusOK, res.Code)

		var resp models.PerformanceWithPoemsResponse
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &resp))
		assert.Equal(t, "Hard.exe", resp.Name)
		assert.Len(t, resp.Poems, 2)
	})

	t.Run("Unknown slug is a 404", func(t *testing.T) {
		res := testutils.PerformRequest(router, http.MethodGet, "/api/performances/missing", nil, nil)
		assert.Equal(t, http.StatusNotFound, res.Code)
	})
}

func TestGetPoemPair(t *testing.T) {
	performances, poems, router := setupPerformanceController(t)
	seedTwoPerformances(t, performances, poems)

	t.Run("Happy path - pair for a theme", func(t *testing.T) {
		res := testutils.PerformRequest(router, http.MethodGet, "/api/poems/hard-exe/memory", nil, nil)
		require.Equal(t, http.StatusOK, res.Code)

		var resp models.PoemPairResponse
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &resp))
		assert.Equal(t, "hard-exe", resp.Performance.Slug)
		require.Len(t, resp.Poems, 2)
	})

	t.Run("Unknown theme is a 404", func(t *testing.T) {
		res := testutils.PerformRequest(router, http.MethodGet, "/api/poems/hard-exe/unknown-theme", nil, nil)
		assert.Equal(t, http.StatusNotFound, res.Code)
	})
}

func TestGetVoteCounts(t *testing.T) {
	performances, poems, router := setupPerformanceController(t)
	seedTwoPerformances(t, performances, poems)

	t.Run("Happy path - counts per poem", func(t *testing.T) {
		res := testutils.PerformRequest(router, http.MethodGet, "/api/vote-counts/memory?performance=hard-exe", nil, nil)
		require.Equal(t, http.StatusOK, res.Code)

		var resp models.ThemeVoteCountsResponse
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &resp))
		assert.Equal(t, "memory", resp.ThemeSlug)
		require.Len(t, resp.Counts, 2)

		total := 0
		for _, c := range resp.Counts {
			total += c.VoteCount
		}
		assert.Equal(t, 8, total)
	})

	t.Run("Missing performance param is a 400", func(t *testing.T) {
		res := testutils.PerformRequest(router, http.MethodGet, "/api/vote-counts/memory", nil, nil)
		assert.Equal(t, http.StatusBadRequest, res.Code)
	})
}

func TestHealth(t *testing.T) {
	_, _, router := setupPerformanceController(t)

	res := testutils.PerformRequest(router, http.MethodGet, "/api/health", nil, nil)
	assert.Equal(t, http.StatusOK, res.Code)
}
