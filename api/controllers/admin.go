package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/madihg/singulars/api/models"
	"github.com/madihg/singulars/api/transport"
	"github.com/madihg/singulars/logging"
	"github.com/madihg/singulars/storage"
)

type AdminController struct {
	performancesStorage storage.PerformanceStorage
	poemsStorage        storage.PoemStorage
	votesStorage        storage.VoteStorage
}

func NewAdminController(performanceStorage storage.PerformanceStorage, poemStorage storage.PoemStorage, voteStorage storage.VoteStorage) *AdminController {
	return &AdminController{
		performancesStorage: performanceStorage,
		poemsStorage:        poemStorage,
		votesStorage:        voteStorage,
	}
}

func (c *AdminController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api/admin", transport.AdminAuthMiddleware())

	group.POST("/performances", c.seedPerformances)
	group.PUT("/performances/:slug/status", c.updateStatus)
	group.POST("/votes/reset", c.resetVotes)
	group.GET("/votes", c.listVotes)
}

// @Security AdminToken
// seedPerformances godoc
// @Summary Bulk upsert performances and their poems
// @Description Idempotent seed keyed on performance slug and (theme, author type); existing IDs and vote counts are preserved
// @Tags admin
// @Accept json
// @Produce json
// @Param request body models.SeedRequest true "Seed payload"
// @Success 200 {object} models.SeedResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/admin/performances [post]
func (c *AdminController) seedPerformances(g *gin.Context) {
	var req models.SeedRequest
	if err := g.ShouldBindJSON(&req); err != nil || len(req.Performances) == 0 {
		g.JSON(http.StatusBadRequest, gin.H{"error": "invalid request, missing performances"})
		return
	}

	for _, p := range req.Performances {
		if p.Slug == "" {
			g.JSON(http.StatusBadRequest, gin.H{"error": "performance slug is required"})
			return
		}
		if !models.ValidStatuses[p.Status] {
			logging.Log.Warnf("ADMIN: seed with invalid status %q for %s", p.Status, p.Slug)
			g.JSON(http.StatusBadRequest, gin.H{"error": "invalid performance status"})
			return
		}
		for _, theme := range p.Themes {
			if theme.Slug == "" {
				g.JSON(http.StatusBadRequest, gin.H{"error": "theme slug is required"})
				return
			}
			for _, poem := range theme.Poems {
				if !models.ValidAuthorTypes[poem.AuthorType] {
					g.JSON(http.StatusBadRequest, gin.H{"error": "invalid poem author type"})
					return
				}
			}
		}
	}

	ctx := g.Request.Context()
	resp := models.SeedResponse{}

	for _, p := range req.Performances {
		performance := &storage.Performance{
			ID:        uuid.NewString(),
			Slug:      p.Slug,
			Name:      p.Name,
			Color:     p.Color,
			Status:    p.Status,
			Location:  p.Location,
			Date:      p.Date,
			Poets:     p.Poets,
			CreatedAt: time.Now().UTC(),
		}

		// Upsert by slug: an existing performance keeps its ID so poems and
		// votes stay attached across reseeds.
		existing, err := c.performancesStorage.GetBySlug(ctx, p.Slug)
		if err != nil && !errors.Is(err, storage.ErrPerformanceNotFound) {
			logging.Log.Errorf("ADMIN: seed lookup for %s failed: %v", p.Slug, err)
			g.JSON(http.StatusInternalServerError, gin.H{"error": "could not seed performances"})
			return
		}
		if existing != nil {
			performance.ID = existing.ID
			performance.CreatedAt = existing.CreatedAt
		}

		if err := c.performancesStorage.Put(ctx, performance); err != nil {
			logging.Log.Errorf("ADMIN: failed to seed performance %s: %v", p.Slug, err)
			g.JSON(http.StatusInternalServerError, gin.H{"error": "could not seed performances"})
			return
		}
		resp.PerformancesUpserted++

		currentPoems, err := c.poemsStorage.GetByPerformance(ctx, performance.ID)
		if err != nil {
			logging.Log.Errorf("ADMIN: failed to load poems for %s: %v", p.Slug, err)
			g.JSON(http.StatusInternalServerError, gin.H{"error": "could not seed performances"})
			return
		}
		byNaturalKey := make(map[string]*storage.Poem, len(currentPoems))
		for _, poem := range currentPoems {
			byNaturalKey[poem.ThemeSlug+"#"+poem.AuthorType] = poem
		}

		for _, theme := range p.Themes {
			for _, seedPoem := range theme.Poems {
				poem := &storage.Poem{
					ID:            uuid.NewString(),
					PerformanceID: performance.ID,
					ThemeSlug:     theme.Slug,
					AuthorType:    seedPoem.AuthorType,
					AuthorName:    seedPoem.AuthorName,
					Text:          seedPoem.Text,
					VoteCount:     0,
				}
				if prev, ok := byNaturalKey[theme.Slug+"#"+seedPoem.AuthorType]; ok {
					poem.ID = prev.ID
					poem.VoteCount = prev.VoteCount
				}
				if err := c.poemsStorage.Put(ctx, poem); err != nil {
					logging.Log.Errorf("ADMIN: failed to seed poem %s/%s: %v", theme.Slug, seedPoem.AuthorType, err)
					g.JSON(http.StatusInternalServerError, gin.H{"error": "could not seed performances"})
					return
				}
				resp.PoemsUpserted++
			}
		}

		logging.Log.Infof("ADMIN: seeded performance %s with %d themes", p.Slug, len(p.Themes))
	}

	g.JSON(http.StatusOK, resp)
}

// @Security AdminToken
// updateStatus godoc
// @Summary Transition a performance's lifecycle status
// @Description Forward-only: upcoming to training to trained
// @Tags admin
// @Accept json
// @Produce json
// @Param slug path string true "Performance slug"
// @Param request body models.UpdateStatusRequest true "Target status"
// @Success 200 {object} models.PerformanceResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/admin/performances/{slug}/status [put]
func (c *AdminController) updateStatus(g *gin.Context) {
	var req models.UpdateStatusRequest
	if err := g.ShouldBindJSON(&req); err != nil || !models.ValidStatuses[req.Status] {
		g.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	performance, err := c.performancesStorage.GetBySlug(g.Request.Context(), g.Param("slug"))
	if err != nil {
		if errors.Is(err, storage.ErrPerformanceNotFound) {
			g.JSON(http.StatusNotFound, gin.H{"error": "performance not found"})
			return
		}
		logging.Log.Errorf("ADMIN: failed to load performance for status update: %v", err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": "could not update status"})
		return
	}

	if !models.IsForwardTransition(performance.Status, req.Status) {
		logging.Log.Warnf("ADMIN: rejected status transition %s -> %s for %s", performance.Status, req.Status, performance.Slug)
		g.JSON(http.StatusConflict, gin.H{"error": "status can only move forward through the lifecycle"})
		return
	}

	if err := c.performancesStorage.UpdateStatus(g.Request.Context(), performance.ID, req.Status); err != nil {
		logging.Log.Errorf("ADMIN: failed to update status for %s: %v", performance.Slug, err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": "could not update status"})
		return
	}

	performance.Status = req.Status
	logging.Log.Infof("ADMIN: performance %s is now %s", performance.Slug, req.Status)
	g.JSON(http.StatusOK, models.TransformPerformanceFromStorage(performance))
}

// @Security AdminToken
// resetVotes godoc
// @Summary Delete all votes and zero all poem counters
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 500 {object} models.ErrorResponse
// @Router /api/admin/votes/reset [post]
func (c *AdminController) resetVotes(g *gin.Context) {
	ctx := g.Request.Context()

	if err := c.votesStorage.DeleteAll(ctx); err != nil {
		logging.Log.Errorf("ADMIN: failed to delete votes: %v", err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": "could not reset votes"})
		return
	}

	performances, err := c.performancesStorage.GetAll(ctx)
	if err != nil {
		logging.Log.Errorf("ADMIN: failed to list performances for reset: %v", err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": "could not reset votes"})
		return
	}

	reset := 0
	for _, p := range performances {
		poems, err := c.poemsStorage.GetByPerformance(ctx, p.ID)
		if err != nil {
			logging.Log.Errorf("ADMIN: failed to list poems for reset: %v", err)
			g.JSON(http.StatusInternalServerError, gin.H{"error": "could not reset votes"})
			return
		}
		for _, poem := range poems {
			if err := c.poemsStorage.ResetCount(ctx, poem.ID); err != nil {
				logging.Log.Errorf("ADMIN: failed to reset count for poem %s: %v", poem.ID, err)
			} else {
				reset++
			}
		}
	}

	logging.Log.Infof("ADMIN: reset votes, zeroed %d counters", reset)
	g.JSON(http.StatusOK, gin.H{"message": "all votes reset"})
}

// @Security AdminToken
// listVotes godoc
// @Summary Dump all votes
// @Description Backs the CSV export tooling
// @Tags admin
// @Produce json
// @Success 200 {array} storage.Vote
// @Failure 500 {object} models.ErrorResponse
// @Router /api/admin/votes [get]
func (c *AdminController) listVotes(g *gin.Context) {
	votes, err := c.votesStorage.GetAll(g.Request.Context())
	if err != nil {
		logging.Log.Errorf("ADMIN: failed to list votes: %v", err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": "could not retrieve votes"})
		return
	}

	logging.Log.Infof("ADMIN: listed %d votes", len(votes))
	g.JSON(http.StatusOK, votes)
}
