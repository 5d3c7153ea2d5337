package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"

	httpctrl "github.com/jari1882/simkb/pkg/controller/http"
	"github.com/jari1882/simkb/pkg/domain/model"
	"github.com/jari1882/simkb/pkg/usecase"
)

type mockChatUseCase struct {
	chatFn  func(ctx context.Context, sessionID, message string) (string, error)
	resetFn func(sessionID string) bool
	statsFn func(ctx context.Context) (*model.Stats, error)
}

func (m *mockChatUseCase) Chat(ctx context.Context, sessionID, message string) (string, error) {
	if m.chatFn != nil {
		return m.chatFn(ctx, sessionID, message)
	}
	return "an answer", nil
}

func (m *mockChatUseCase) Reset(sessionID string) bool {
	if m.resetFn != nil {
		return m.resetFn(sessionID)
	}
	return true
}

func (m *mockChatUseCase) Stats(ctx context.Context) (*model.Stats, error) {
	if m.statsFn != nil {
		return m.statsFn(ctx)
	}
	return &model.Stats{Organizations: 2, Documents: 4}, nil
}

func (m *mockChatUseCase) Help() string {
	return "help text"
}

func postJSON(t *testing.T, server *httpctrl.Server, path string, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	gt.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestChatEndpoint(t *testing.T) {
	t.Run("returns the navigator's answer", func(t *testing.T) {
		var gotSession, gotMessage string
		server := httpctrl.New(&mockChatUseCase{
			chatFn: func(ctx context.Context, sessionID, message string) (string, error) {
				gotSession = sessionID
				gotMessage = message
				return "Carrier A ranked first", nil
			},
		})

		rec := postJSON(t, server, "/api/chat", map[string]any{
			"session_id": "s1",
			"message":    "How did Carrier A do?",
		})

		gt.Value(t, rec.Code).Equal(http.StatusOK)
		body := decodeBody(t, rec)
		gt.Value(t, body["success"]).Equal(true)
		gt.Value(t, body["response"]).Equal("Carrier A ranked first")
		gt.Value(t, gotSession).Equal("s1")
		gt.Value(t, gotMessage).Equal("How did Carrier A do?")
	})

	t.Run("missing session_id is a bad request", func(t *testing.T) {
		server := httpctrl.New(&mockChatUseCase{})
		rec := postJSON(t, server, "/api/chat", map[string]any{"message": "hello"})
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("blank message is a bad request", func(t *testing.T) {
		server := httpctrl.New(&mockChatUseCase{})
		rec := postJSON(t, server, "/api/chat", map[string]any{"session_id": "s1", "message": "   "})
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("assistant outage maps to 503", func(t *testing.T) {
		server := httpctrl.New(&mockChatUseCase{
			chatFn: func(ctx context.Context, sessionID, message string) (string, error) {
				return "", usecase.ErrAssistantUnavailable
			},
		})

		rec := postJSON(t, server, "/api/chat", map[string]any{"session_id": "s1", "message": "hello"})
		gt.Value(t, rec.Code).Equal(http.StatusServiceUnavailable)

		body := decodeBody(t, rec)
		gt.Value(t, body["success"]).Equal(false)
	})
}

func TestChatCommands(t *testing.T) {
	t.Run("clear resets the session without calling the model", func(t *testing.T) {
		chatCalled := false
		var resetSession string
		server := httpctrl.New(&mockChatUseCase{
			chatFn: func(ctx context.Context, sessionID, message string) (string, error) {
				chatCalled = true
				return "", nil
			},
			resetFn: func(sessionID string) bool {
				resetSession = sessionID
				return true
			},
		})

		rec := postJSON(t, server, "/api/chat", map[string]any{"session_id": "s1", "message": "  Clear  "})
		gt.Value(t, rec.Code).Equal(http.StatusOK)
		gt.Value(t, chatCalled).Equal(false)
		gt.Value(t, resetSession).Equal("s1")
	})

	t.Run("stats command returns formatted counts", func(t *testing.T) {
		server := httpctrl.New(&mockChatUseCase{})
		rec := postJSON(t, server, "/api/chat", map[string]any{"session_id": "s1", "message": "stats"})

		body := decodeBody(t, rec)
		response := body["response"].(string)
		gt.Value(t, response != "").Equal(true)
	})

	t.Run("help command returns the help text", func(t *testing.T) {
		server := httpctrl.New(&mockChatUseCase{})
		rec := postJSON(t, server, "/api/chat", map[string]any{"session_id": "s1", "message": "help"})

		body := decodeBody(t, rec)
		gt.Value(t, body["response"]).Equal("help text")
	})

	t.Run("a question containing a command word reaches the model", func(t *testing.T) {
		chatCalled := false
		server := httpctrl.New(&mockChatUseCase{
			chatFn: func(ctx context.Context, sessionID, message string) (string, error) {
				chatCalled = true
				return "answer", nil
			},
		})

		postJSON(t, server, "/api/chat", map[string]any{"session_id": "s1", "message": "help me compare carriers"})
		gt.Value(t, chatCalled).Equal(true)
	})
}

func TestResetEndpoint(t *testing.T) {
	server := httpctrl.New(&mockChatUseCase{
		resetFn: func(sessionID string) bool { return sessionID == "known" },
	})

	rec := postJSON(t, server, "/api/reset", map[string]any{"session_id": "known"})
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	gt.Value(t, decodeBody(t, rec)["cleared"]).Equal(true)

	rec = postJSON(t, server, "/api/reset", map[string]any{"session_id": "unknown"})
	gt.Value(t, decodeBody(t, rec)["cleared"]).Equal(false)
}

func TestStatsEndpoint(t *testing.T) {
	server := httpctrl.New(&mockChatUseCase{})

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	gt.Value(t, rec.Code).Equal(http.StatusOK)
	body := decodeBody(t, rec)
	stats := body["stats"].(map[string]any)
	gt.Value(t, stats["organizations"]).Equal(float64(2))
	gt.Value(t, stats["documents"]).Equal(float64(4))
}

func TestHealthEndpoint(t *testing.T) {
	server := httpctrl.New(&mockChatUseCase{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	gt.Value(t, rec.Code).Equal(http.StatusOK)
	gt.Value(t, rec.Body.String()).Equal("OK")
}
