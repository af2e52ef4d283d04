package server

import (
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/buddyapp/buddyd/internal/search"
	"github.com/buddyapp/buddyd/internal/search/models"
)

// SearchHandler exposes the search pipeline over HTTP. Pipeline failures
// still answer 200 with the degraded response; only malformed requests
// get an error status.
type SearchHandler struct {
	Service *search.Service
	Cache   *ResponseCache
	Logger  *log.Logger
}

func (h *SearchHandler) Register(g *echo.Group) {
	g.POST("", h.perform)
	g.POST("/feedback", h.feedback)
}

func (h *SearchHandler) perform(c echo.Context) error {
	var req models.SearchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if strings.TrimSpace(req.Query) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query must not be empty")
	}

	ctx := c.Request().Context()
	searchesTotal.Inc()

	if cached, ok := h.Cache.Get(ctx, req); ok {
		searchCacheHitsTotal.Inc()
		return c.JSON(http.StatusOK, cached)
	}

	resp := h.Service.Perform(ctx, req)
	if search.IsFallback(resp) {
		searchFallbacksTotal.Inc()
	} else {
		searchSourcesReturned.Observe(float64(resp.TotalSources))
		h.Cache.Set(ctx, req, resp)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *SearchHandler) feedback(c echo.Context) error {
	var req models.FeedbackRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	// TODO: persist feedback once a learning loop exists; for now it is
	// logged and counted.
	if h.Logger != nil {
		h.Logger.Printf("feedback %q (helpful=%t) for query %q from profile %d",
			req.Rating, req.WasHelpful, req.Query, req.ProfileID)
	}
	feedbackTotal.WithLabelValues(req.Rating).Inc()
	return c.NoContent(http.StatusOK)
}
