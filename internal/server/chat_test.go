package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"

	"github.com/buddyapp/buddyd/internal/store"
)

type stubLLM struct {
	reply string
}

func (s stubLLM) Complete(ctx context.Context, system, user string) (string, error) {
	return s.reply, nil
}

func newMockChat(t *testing.T) (*ChatHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return &ChatHandler{Store: &store.Store{DB: db}, LLM: stubLLM{reply: "Hello friend!"}}, mock
}

func TestSendChatMessage(t *testing.T) {
	h, mock := newMockChat(t)
	now := time.Date(2024, 7, 1, 9, 30, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT id, email`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "device_id", "buddy_name", "buddy_personality", "buddy_rules", "created_at", "updated_at"}).
			AddRow(int64(7), "a@b.com", "dev-1", "Max", "cheerful", "", now, now))
	mock.ExpectQuery(`INSERT INTO chat_history`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))
	mock.ExpectQuery(`SELECT id, profile_id`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "profile_id", "message", "is_user_message", "created_at"}).
			AddRow("m1", int64(7), "hi", true, now))
	mock.ExpectQuery(`INSERT INTO chat_history`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/chat/send",
		strings.NewReader(`{"profileId": 7, "message": "hi"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.send(e.NewContext(req, rec)); err != nil {
		t.Fatalf("send: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp chatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Message != "Hello friend!" {
		t.Errorf("message = %q", resp.Message)
	}
	if resp.Timestamp != "2024-07-01T09:30:00" {
		t.Errorf("timestamp = %q", resp.Timestamp)
	}
}

func TestSendChatEmptyMessage(t *testing.T) {
	h, _ := newMockChat(t)
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/chat/send",
		strings.NewReader(`{"profileId": 7, "message": ""}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	err := h.send(e.NewContext(req, rec))
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("err = %v, want 400", err)
	}
}

func TestSendChatNoBackend(t *testing.T) {
	h, _ := newMockChat(t)
	h.LLM = nil
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/chat/send",
		strings.NewReader(`{"profileId": 7, "message": "hi"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	err := h.send(e.NewContext(req, rec))
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusServiceUnavailable {
		t.Fatalf("err = %v, want 503", err)
	}
}

func TestSendChatUnknownProfile(t *testing.T) {
	h, mock := newMockChat(t)

	mock.ExpectQuery(`SELECT id, email`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/chat/send",
		strings.NewReader(`{"profileId": 99, "message": "hi"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	err := h.send(e.NewContext(req, rec))
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusNotFound {
		t.Fatalf("err = %v, want 404", err)
	}
}

func TestChatHistoryEndpoint(t *testing.T) {
	h, mock := newMockChat(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT id, profile_id`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "profile_id", "message", "is_user_message", "created_at"}).
			AddRow("m1", int64(7), "hi", true, now).
			AddRow("m2", int64(7), "Hello friend!", false, now))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("profileId")
	c.SetParamValues("7")

	if err := h.history(c); err != nil {
		t.Fatalf("history: %v", err)
	}
	var body struct {
		Messages []store.ChatMessage `json:"messages"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Messages) != 2 || body.Messages[0].Message != "hi" {
		t.Fatalf("got %+v", body.Messages)
	}
}

func TestClearChatHistoryEndpoint(t *testing.T) {
	h, mock := newMockChat(t)

	mock.ExpectExec(`DELETE FROM chat_history`).
		WillReturnResult(sqlmock.NewResult(0, 2))

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("profileId")
	c.SetParamValues("7")

	if err := h.clear(c); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
}

func TestChatHistoryInvalidID(t *testing.T) {
	h, _ := newMockChat(t)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("profileId")
	c.SetParamValues("not-a-number")

	err := h.history(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("err = %v, want 400", err)
	}
}
