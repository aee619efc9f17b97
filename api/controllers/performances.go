package controllers

import (
	"errors"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/madihg/singulars/api/models"
	"github.com/madihg/singulars/logging"
	"github.com/madihg/singulars/storage"
)

// PerformanceController serves the read-only endpoints the site renders from.
type PerformanceController struct {
	performancesStorage storage.PerformanceStorage
	poemsStorage        storage.PoemStorage
}

func NewPerformanceController(performanceStorage storage.PerformanceStorage, poemStorage storage.PoemStorage) *PerformanceController {
	return &PerformanceController{
		performancesStorage: performanceStorage,
		poemsStorage:        poemStorage,
	}
}

func (c *PerformanceController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api")

	group.GET("/health", c.health)
	group.GET("/performances", c.list)
	group.GET("/performances/:slug", c.get)
	group.GET("/poems/:performanceSlug/:themeSlug", c.getPair)
	group.GET("/vote-counts/:themeSlug", c.getVoteCounts)
}

// health godoc
// @Summary Storage reachability probe
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} models.ErrorResponse
// @Router /api/health [get]
func (c *PerformanceController) health(g *gin.Context) {
	if _, err := c.performancesStorage.GetAll(g.Request.Context()); err != nil {
		logging.Log.Errorf("HEALTH: storage probe failed: %v", err)
		g.JSON(http.StatusServiceUnavailable, &models.ErrorResponse{Error: "storage unreachable"})
		return
	}
	g.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// list godoc
// @Summary List all performances
// @Tags performances
// @Produce json
// @Success 200 {array} models.PerformanceResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/performances [get]
func (c *PerformanceController) list(g *gin.Context) {
	performances, err := c.performancesStorage.GetAll(g.Request.Context())
	if err != nil {
		c.renderError(g, err)
		return
	}

	// Newest first, matching the site's landing order
	sort.SliceStable(performances, func(i, j int) bool {
		return performances[i].Date > performances[j].Date
	})

	responses := make([]models.PerformanceResponse, 0, len(performances))
	for _, p := range performances {
		responses = append(responses, models.TransformPerformanceFromStorage(p))
	}
	g.JSON(http.StatusOK, responses)
}

// get godoc
// @Summary Get a performance with its poems by slug
// @Tags performances
// @Produce json
// @Param slug path string true "Performance slug"
// @Success 200 {object} models.PerformanceWithPoemsResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/performances/{slug} [get]
func (c *PerformanceController) get(g *gin.Context) {
	performance, err := c.performancesStorage.GetBySlug(g.Request.Context(), g.Param("slug"))
	if err != nil {
		c.renderError(g, err)
		return
	}

	poems, err := c.poemsStorage.GetByPerformance(g.Request.Context(), performance.ID)
	if err != nil {
		c.renderError(g, err)
		return
	}

	sort.SliceStable(poems, func(i, j int) bool {
		return poems[i].ThemeSlug < poems[j].ThemeSlug
	})

	g.JSON(http.StatusOK, models.PerformanceWithPoemsResponse{
		PerformanceResponse: models.TransformPerformanceFromStorage(performance),
		Poems:               models.TransformPoemsFromStorage(poems),
	})
}

// getPair godoc
// @Summary Get the poem pair for a performance theme
// @Tags performances
// @Produce json
// @Param performanceSlug path string true "Performance slug"
// @Param themeSlug path string true "Theme slug"
// @Success 200 {object} models.PoemPairResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/poems/{performanceSlug}/{themeSlug} [get]
func (c *PerformanceController) getPair(g *gin.Context) {
	performance, err := c.performancesStorage.GetBySlug(g.Request.Context(), g.Param("performanceSlug"))
	if err != nil {
		c.renderError(g, err)
		return
	}

	poems, err := c.poemsStorage.GetPair(g.Request.Context(), performance.ID, g.Param("themeSlug"))
	if err != nil {
		c.renderError(g, err)
		return
	}
	if len(poems) == 0 {
		g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: "poem pair not found"})
		return
	}

	g.JSON(http.StatusOK, models.PoemPairResponse{
		Performance: models.TransformPerformanceFromStorage(performance),
		Poems:       models.TransformPoemsFromStorage(poems),
	})
}

// getVoteCounts godoc
// @Summary Get vote counts for a theme
// @Tags performances
// @Produce json
// @Param themeSlug path string true "Theme slug"
// @Param performance query string false "Performance slug for disambiguation"
// @Success 200 {object} models.ThemeVoteCountsResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/vote-counts/{themeSlug} [get]
func (c *PerformanceController) getVoteCounts(g *gin.Context) {
	themeSlug := g.Param("themeSlug")

	performanceSlug := g.Query("performance")
	if performanceSlug == "" {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "performance query param required"})
		return
	}

	performance, err := c.performancesStorage.GetBySlug(g.Request.Context(), performanceSlug)
	if err != nil {
		c.renderError(g, err)
		return
	}

	poems, err := c.poemsStorage.GetPair(g.Request.Context(), performance.ID, themeSlug)
	if err != nil {
		c.renderError(g, err)
		return
	}
	if len(poems) == 0 {
		g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: "no poems found for this theme"})
		return
	}

	resp := models.ThemeVoteCountsResponse{
		ThemeSlug: themeSlug,
		Counts:    make([]models.VoteCountEntry, 0, len(poems)),
	}
	for _, p := range poems {
		resp.Counts = append(resp.Counts, models.VoteCountEntry{
			PoemID:     p.ID,
			AuthorType: p.AuthorType,
			VoteCount:  p.VoteCount,
		})
	}
	g.JSON(http.StatusOK, resp)
}

func (c *PerformanceController) renderError(g *gin.Context, err error) {
	switch {
	case errors.Is(err, storage.ErrPerformanceNotFound):
		g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: "performance not found"})
	case errors.Is(err, storage.ErrPoemNotFound):
		g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: "poem not found"})
	case errors.Is(err, storage.ErrStoreUnavailable):
		logging.Log.Errorf("PERFORMANCE: storage unavailable: %v", err)
		g.JSON(http.StatusServiceUnavailable, &models.ErrorResponse{Error: "service temporarily unavailable, please try again later"})
	default:
		logging.Log.Errorf("PERFORMANCE: unexpected storage error: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "something went wrong, please try again later"})
	}
}
