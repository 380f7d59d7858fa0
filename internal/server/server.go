package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"reelintake/internal/admin"
	"reelintake/internal/auth"
	"reelintake/internal/config"
	"reelintake/internal/draft"
	"reelintake/internal/intake"
	"reelintake/internal/logging"
	"reelintake/internal/notifications"
	"reelintake/internal/preflight"
	"reelintake/internal/store"
	"reelintake/internal/submission"
)

// Server is the HTTP surface for intake sessions and the admin review API.
type Server struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *store.Store
	drafts   *draft.Store
	auth     *auth.Service
	admin    *admin.Service
	notifier notifications.Service
	machines *registry

	listener net.Listener
	server   *http.Server
}

// New wires the server from its collaborators.
func New(cfg *config.Config, st *store.Store, logger *slog.Logger) (*Server, error) {
	if cfg == nil || st == nil {
		return nil, errors.New("server requires config and store")
	}

	kv, err := draft.NewFileKV(cfg.Paths.DraftDir)
	if err != nil {
		return nil, fmt.Errorf("open draft store: %w", err)
	}
	drafts := draft.NewStore(kv, logger)
	submitter := submission.NewSubmitter(st, logger)

	timeout := time.Duration(cfg.SubmitTimeoutSecondsOrDefault()) * time.Second
	machines := newRegistry(func(key string) *intake.Machine {
		return intake.NewMachine(key, drafts, submitter, logger,
			intake.WithSubmitTimeout(timeout),
			intake.WithMaxReelExamples(cfg.Intake.MaxReelExamples))
	})

	srv := &Server{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "server"),
		store:    st,
		drafts:   drafts,
		auth:     auth.NewService(cfg.Auth, logger),
		admin:    admin.NewService(st, cfg.Paths.UploadDir, logger),
		notifier: notifications.NewService(cfg),
		machines: machines,
	}
	srv.server = &http.Server{
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

// Router builds the chi routing tree. Exposed separately so tests can drive
// the handlers without a listener.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(s.recovery)
	r.Use(s.requestLog)

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", s.handleStatus)

		r.Route("/intake", func(r chi.Router) {
			r.Post("/session", s.handleSession)
			r.Group(func(r chi.Router) {
				r.Use(s.requireDraftToken)
				r.Get("/state", s.handleState)
				r.Put("/form", s.handleUpdateForm)
				r.Post("/next", s.handleNextStep)
				r.Post("/prev", s.handlePrevStep)
				r.Post("/draft/restore", s.handleRestoreDraft)
				r.Delete("/draft", s.handleDiscardDraft)
				r.Post("/submit", s.handleSubmit)
			})
			r.Post("/upload", s.handleUpload)
		})

		r.Post("/auth/login", s.handleLogin)
		r.Group(func(r chi.Router) {
			r.Use(s.auth.Middleware)
			r.Post("/auth/logout", s.handleLogout)
			r.Get("/auth/me", s.handleMe)

			r.Route("/admin/submissions", func(r chi.Router) {
				r.Get("/", s.handleListSubmissions)
				r.Get("/{id}", s.handleDescribeSubmission)
				r.Patch("/{id}/status", s.handleSetStatus)
				r.Post("/{id}/notes", s.handleAddNote)
				r.Delete("/{id}", s.handleDeleteSubmission)
			})
		})
	})

	return r
}

// Start binds the configured address and serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	bind := strings.TrimSpace(s.cfg.Paths.APIBind)
	if bind == "" {
		return errors.New("api bind address is empty")
	}

	if results := preflight.RunAll(s.cfg); !preflight.AllPassed(results) {
		for _, result := range results {
			if !result.Passed {
				s.logger.Error("preflight check failed",
					logging.String("check", result.Name),
					logging.String("detail", result.Detail))
			}
		}
		return errors.New("preflight checks failed")
	}

	listener, err := net.Listen("tcp", bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop() {
	if s == nil {
		return
	}
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

// Addr returns the bound listener address, or empty before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("handler panicked",
					logging.String("path", r.URL.Path),
					logging.Any("panic", rec))
				s.writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		s.logger.Debug("request",
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.Int("status", sw.status),
			logging.Duration("elapsed", time.Since(start)))
	})
}
