package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/buddyapp/buddyd/internal/search/models"
)

// PreferencesHandler serves the preset preference sets consumed by the
// frontend plus the filtering vocabularies.
type PreferencesHandler struct{}

func (h *PreferencesHandler) Register(g *echo.Group) {
	g.GET("/default", h.defaults)
	g.GET("/academic", h.academic)
	g.GET("/news", h.news)
	g.GET("/technical", h.technical)
	g.POST("/custom", h.custom)
	g.GET("/content-types", h.contentTypes)
	g.GET("/sort-options", h.sortOptions)
}

func (h *PreferencesHandler) defaults(c echo.Context) error {
	return c.JSON(http.StatusOK, models.DefaultPreferences())
}

func (h *PreferencesHandler) academic(c echo.Context) error {
	return c.JSON(http.StatusOK, models.AcademicPreferences())
}

func (h *PreferencesHandler) news(c echo.Context) error {
	return c.JSON(http.StatusOK, models.NewsPreferences())
}

func (h *PreferencesHandler) technical(c echo.Context) error {
	return c.JSON(http.StatusOK, models.TechnicalPreferences())
}

// custom validates caller-supplied preferences: scores and result counts
// are clamped and blank fields defaulted before echoing back.
func (h *PreferencesHandler) custom(c echo.Context) error {
	var prefs models.Preferences
	if err := c.Bind(&prefs); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, prefs.Normalize())
}

func (h *PreferencesHandler) contentTypes(c echo.Context) error {
	return c.JSON(http.StatusOK, models.ContentTypeVocabulary())
}

func (h *PreferencesHandler) sortOptions(c echo.Context) error {
	return c.JSON(http.StatusOK, models.SortOrderVocabulary())
}
