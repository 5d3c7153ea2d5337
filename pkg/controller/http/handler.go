package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/jari1882/simkb/pkg/domain/model"
	"github.com/jari1882/simkb/pkg/usecase"
	"github.com/jari1882/simkb/pkg/utils/errutil"
)

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type chatResponse struct {
	Success  bool   `json:"success"`
	Response string `json:"response"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to decode chat request"), http.StatusBadRequest)
		return
	}
	if req.SessionID == "" {
		errutil.HandleHTTP(ctx, w, goerr.New("session_id is required"), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		errutil.HandleHTTP(ctx, w, goerr.New("message is required"), http.StatusBadRequest)
		return
	}

	// Control commands never reach the language model.
	if text, handled := s.handleCommand(r, req); handled {
		writeJSON(w, http.StatusOK, chatResponse{Success: true, Response: text})
		return
	}

	answer, err := s.uc.Chat(ctx, req.SessionID, req.Message)
	if err != nil {
		if errors.Is(err, usecase.ErrAssistantUnavailable) {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{
				"success": false,
				"error":   "The assistant is temporarily unavailable. Your question was not recorded; please try again shortly.",
			})
			return
		}
		errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Success: true, Response: answer})
}

// handleCommand intercepts the textual control commands. Matching is
// exact on the trimmed, lowercased message so that questions which merely
// contain a command word still reach the model.
func (s *Server) handleCommand(r *http.Request, req chatRequest) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(req.Message)) {
	case "clear", "reset":
		s.uc.Reset(req.SessionID)
		return "Conversation history cleared.", true
	case "stats":
		stats, err := s.uc.Stats(r.Context())
		if err != nil {
			return "Failed to read knowledge base stats.", true
		}
		return formatStats(stats), true
	case "help":
		return s.uc.Help(), true
	case "exit", "quit":
		s.uc.Reset(req.SessionID)
		return "Goodbye! Conversation history cleared.", true
	}
	return "", false
}

func formatStats(stats *model.Stats) string {
	return fmt.Sprintf(`Knowledge base contents:
- Organizations: %d
- Products: %d
- Roles: %d
- Documents: %d
- Offers: %d
- Embedded chunks: %d`,
		stats.Organizations,
		stats.Products,
		stats.Roles,
		stats.Documents,
		stats.Offers,
		stats.Embeddings,
	)
}

type resetRequest struct {
	SessionID string `json:"session_id"`
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req resetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to decode reset request"), http.StatusBadRequest)
		return
	}
	if req.SessionID == "" {
		errutil.HandleHTTP(ctx, w, goerr.New("session_id is required"), http.StatusBadRequest)
		return
	}

	cleared := s.uc.Reset(req.SessionID)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"cleared": cleared,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := s.uc.Stats(ctx)
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to collect stats"), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"stats":   stats,
	})
}

func (s *Server) handleHelp(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, chatResponse{Success: true, Response: s.uc.Help()})
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body) //nolint:errcheck // header already committed
}
