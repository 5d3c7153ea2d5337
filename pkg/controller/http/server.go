package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jari1882/simkb/pkg/domain/model"
	"github.com/jari1882/simkb/pkg/utils/logging"
	"github.com/jari1882/simkb/pkg/utils/safe"
)

// ChatUseCase is what the HTTP layer needs from the navigator.
type ChatUseCase interface {
	Chat(ctx context.Context, sessionID, message string) (string, error)
	Reset(sessionID string) bool
	Stats(ctx context.Context) (*model.Stats, error)
	Help() string
}

type Server struct {
	router *chi.Mux
	uc     ChatUseCase
}

type Options func(*Server)

func New(uc ChatUseCase, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}

	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", s.handleChat)
		r.Post("/reset", s.handleReset)
		r.Get("/stats", s.handleStats)
		r.Get("/help", s.handleHelp)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		safe.Write(r.Context(), w, []byte("OK"))
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
