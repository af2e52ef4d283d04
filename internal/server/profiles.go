package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/buddyapp/buddyd/internal/store"
)

// ProfilesHandler manages buddy profiles.
type ProfilesHandler struct {
	Store *store.Store
}

func (h *ProfilesHandler) Register(g *echo.Group) {
	g.POST("", h.create)
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.DELETE("/:id", h.delete)
}

type createProfileRequest struct {
	Email            string `json:"email"`
	DeviceID         string `json:"deviceId"`
	BuddyName        string `json:"buddyName"`
	BuddyPersonality string `json:"buddyPersonality"`
	BuddyRules       string `json:"buddyRules,omitempty"`
}

func (h *ProfilesHandler) create(c echo.Context) error {
	var req createProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Email == "" || req.DeviceID == "" || req.BuddyName == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email, deviceId and buddyName are required")
	}
	profile, err := h.Store.CreateProfile(c.Request().Context(), store.Profile{
		Email:            req.Email,
		DeviceID:         req.DeviceID,
		BuddyName:        req.BuddyName,
		BuddyPersonality: req.BuddyPersonality,
		BuddyRules:       req.BuddyRules,
	})
	if errors.Is(err, store.ErrProfileExists) || errors.Is(err, store.ErrProfileLimit) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, profile)
}

func (h *ProfilesHandler) list(c echo.Context) error {
	email := c.QueryParam("email")
	deviceID := c.QueryParam("deviceId")
	if email == "" || deviceID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and deviceId are required")
	}
	profiles, err := h.Store.ProfilesByEmailAndDevice(c.Request().Context(), email, deviceID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if profiles == nil {
		profiles = []store.Profile{}
	}
	return c.JSON(http.StatusOK, profiles)
}

func (h *ProfilesHandler) get(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid profile id")
	}
	profile, err := h.Store.ProfileByID(c.Request().Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "profile not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, profile)
}

func (h *ProfilesHandler) delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid profile id")
	}
	err = h.Store.DeleteProfile(c.Request().Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "profile not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
