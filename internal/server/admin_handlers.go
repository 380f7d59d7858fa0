package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"reelintake/internal/admin"
	"reelintake/internal/auth"
	"reelintake/internal/logging"
	"reelintake/internal/preflight"
	"reelintake/internal/store"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := readJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := s.auth.SignIn(req.Email, req.Password)
	switch {
	case errors.Is(err, auth.ErrNotConfigured):
		s.writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	case errors.Is(err, auth.ErrInvalidCredentials):
		s.writeError(w, http.StatusUnauthorized, err.Error())
		return
	case err != nil:
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, loginResponse{
		Token:     session.Token,
		Email:     session.Email,
		ExpiresAt: session.ExpiresAt,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	if session == nil {
		s.writeError(w, http.StatusUnauthorized, "no session")
		return
	}
	if err := s.auth.SignOut(session.Token); err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	if session == nil {
		s.writeError(w, http.StatusUnauthorized, "no session")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"email":      session.Email,
		"expires_at": session.ExpiresAt,
	})
}

type statusResponse struct {
	Checks []checkView    `json:"checks"`
	Stats  map[string]int `json:"stats"`
}

type checkView struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	results := preflight.RunAll(s.cfg)
	checks := make([]checkView, 0, len(results))
	for _, result := range results {
		checks = append(checks, checkView(result))
	}

	stats, err := s.store.Stats(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, statusResponse{Checks: checks, Stats: stats})
}

func (s *Server) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	opts := store.ListOptions{
		Status: strings.TrimSpace(r.URL.Query().Get("status")),
		Search: strings.TrimSpace(r.URL.Query().Get("search")),
	}
	submissions, err := s.admin.List(r.Context(), opts)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	views := make([]submissionView, 0, len(submissions))
	for _, sub := range submissions {
		views = append(views, newSubmissionView(sub))
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"submissions": views})
}

func (s *Server) handleDescribeSubmission(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	detail, err := s.admin.Describe(r.Context(), id)
	if errors.Is(err, admin.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, newDetailView(detail))
}

type statusRequest struct {
	Status string `json:"status"`
}

func (s *Server) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req statusRequest
	if err := readJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := s.admin.SetStatus(r.Context(), id, req.Status)
	switch {
	case errors.Is(err, admin.ErrNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	case err != nil:
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.notifier.NotifyStatusChanged(context.WithoutCancel(r.Context()), id, req.Status); err != nil {
		s.logger.Warn("status notification failed", logging.Error(err))
	}
	w.WriteHeader(http.StatusNoContent)
}

type noteRequest struct {
	Body string `json:"body"`
}

func (s *Server) handleAddNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	session := auth.SessionFromContext(r.Context())

	var req noteRequest
	if err := readJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	author := ""
	if session != nil {
		author = session.Email
	}
	noteID, err := s.admin.AddNote(r.Context(), id, author, req.Body)
	switch {
	case errors.Is(err, admin.ErrNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	case err != nil:
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]string{"note_id": noteID})
}

func (s *Server) handleDeleteSubmission(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := s.admin.Delete(r.Context(), id)
	switch {
	case errors.Is(err, admin.ErrNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	case err != nil:
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
