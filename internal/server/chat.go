package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/buddyapp/buddyd/internal/llm"
	"github.com/buddyapp/buddyd/internal/store"
)

// ChatHandler runs buddy conversations: user messages and LLM replies are
// both persisted to the profile's history.
type ChatHandler struct {
	Store *store.Store
	LLM   llm.Client // nil when no completion backend is configured
}

func (h *ChatHandler) Register(g *echo.Group) {
	g.POST("/send", h.send)
	g.GET("/history/:profileId", h.history)
	g.DELETE("/history/:profileId", h.clear)
}

type chatRequest struct {
	ProfileID int64  `json:"profileId"`
	Message   string `json:"message"`
}

type chatResponse struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

func (h *ChatHandler) send(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Message == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "message must not be empty")
	}
	if h.LLM == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "chat backend not configured")
	}

	ctx := c.Request().Context()
	profile, err := h.Store.ProfileByID(ctx, req.ProfileID)
	if errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "profile not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if _, err := h.Store.SaveChatMessage(ctx, store.ChatMessage{
		ProfileID:     req.ProfileID,
		Message:       req.Message,
		IsUserMessage: true,
	}); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	history, err := h.Store.ChatHistory(ctx, req.ProfileID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	messages := make([]string, 0, len(history))
	for _, m := range history {
		messages = append(messages, m.Message)
	}

	reply, err := llm.ChatReply(ctx, h.LLM, profile.BuddyName, profile.BuddyPersonality, profile.BuddyRules, req.Message, messages)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}

	saved, err := h.Store.SaveChatMessage(ctx, store.ChatMessage{
		ProfileID:     req.ProfileID,
		Message:       reply,
		IsUserMessage: false,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, chatResponse{
		Message:   reply,
		Timestamp: saved.CreatedAt.Format("2006-01-02T15:04:05"),
	})
}

func (h *ChatHandler) history(c echo.Context) error {
	profileID, err := strconv.ParseInt(c.Param("profileId"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid profile id")
	}
	messages, err := h.Store.ChatHistory(c.Request().Context(), profileID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if messages == nil {
		messages = []store.ChatMessage{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"messages": messages})
}

func (h *ChatHandler) clear(c echo.Context) error {
	profileID, err := strconv.ParseInt(c.Param("profileId"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid profile id")
	}
	if err := h.Store.ClearChatHistory(c.Request().Context(), profileID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
