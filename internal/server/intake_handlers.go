package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"reelintake/internal/draft"
	"reelintake/internal/form"
	"reelintake/internal/intake"
	"reelintake/internal/logging"
	"reelintake/internal/submission"
)

// draftTokenHeader carries the per-device draft key that scopes an intake
// session.
const draftTokenHeader = "X-Draft-Token"

type draftTokenKey struct{}

func (s *Server) requireDraftToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimSpace(r.Header.Get(draftTokenHeader))
		if token == "" {
			s.writeError(w, http.StatusBadRequest, "missing "+draftTokenHeader+" header")
			return
		}
		ctx := context.WithValue(r.Context(), draftTokenKey{}, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func draftToken(r *http.Request) string {
	token, _ := r.Context().Value(draftTokenKey{}).(string)
	return token
}

type draftMeta struct {
	Status  draft.Status `json:"status"`
	SavedAt time.Time    `json:"saved_at"`
	Step    int          `json:"step"`
}

type sessionResponse struct {
	Token string     `json:"token"`
	Draft *draftMeta `json:"draft,omitempty"`
}

// handleSession issues (or echoes) a draft token and reports whether a
// stored draft exists for it, so the client can offer restore-or-discard.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(r.Header.Get(draftTokenHeader))
	if token == "" {
		token = uuid.NewString()
	}

	stored, err := s.drafts.Load(token)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	response := sessionResponse{Token: token}
	if stored != nil {
		response.Draft = &draftMeta{
			Status:  stored.Status,
			SavedAt: stored.Timestamp,
			Step:    stored.Data.Step,
		}
	}
	s.writeJSON(w, http.StatusOK, response)
}

type stateResponse struct {
	Step       int               `json:"step"`
	Submitting bool              `json:"submitting"`
	Form       form.FormSnapshot `json:"form"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	machine := s.machines.get(draftToken(r))
	s.writeJSON(w, http.StatusOK, stateResponse{
		Step:       machine.Step(),
		Submitting: machine.IsSubmitting(),
		Form:       machine.Snapshot(),
	})
}

// handleUpdateForm replaces the form fields with the submitted snapshot. The
// step cursor is machine-owned and ignored on input.
func (s *Server) handleUpdateForm(w http.ResponseWriter, r *http.Request) {
	var incoming form.FormSnapshot
	if err := readJSON(r, &incoming); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid form payload: "+err.Error())
		return
	}

	machine := s.machines.get(draftToken(r))
	err := machine.Apply(func(snapshot *form.FormSnapshot) {
		*snapshot = incoming.Clone()
	})
	if errors.Is(err, intake.ErrBusy) {
		s.writeError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, stateResponse{
		Step:       machine.Step(),
		Submitting: machine.IsSubmitting(),
		Form:       machine.Snapshot(),
	})
}

type stepResponse struct {
	IsValid      bool   `json:"is_valid"`
	ErrorMessage string `json:"error_message,omitempty"`
	Step         int    `json:"step"`
}

func (s *Server) handleNextStep(w http.ResponseWriter, r *http.Request) {
	machine := s.machines.get(draftToken(r))
	result := machine.NextStep()
	s.writeJSON(w, http.StatusOK, stepResponse{
		IsValid:      result.IsValid,
		ErrorMessage: result.ErrorMessage,
		Step:         machine.Step(),
	})
}

func (s *Server) handlePrevStep(w http.ResponseWriter, r *http.Request) {
	machine := s.machines.get(draftToken(r))
	machine.PrevStep()
	s.writeJSON(w, http.StatusOK, stepResponse{IsValid: true, Step: machine.Step()})
}

type restoreResponse struct {
	Restored bool              `json:"restored"`
	Step     int               `json:"step"`
	Form     form.FormSnapshot `json:"form"`
}

func (s *Server) handleRestoreDraft(w http.ResponseWriter, r *http.Request) {
	machine := s.machines.get(draftToken(r))
	restored, err := machine.RestoreDraft()
	if errors.Is(err, intake.ErrBusy) {
		s.writeError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, restoreResponse{
		Restored: restored,
		Step:     machine.Step(),
		Form:     machine.Snapshot(),
	})
}

func (s *Server) handleDiscardDraft(w http.ResponseWriter, r *http.Request) {
	machine := s.machines.get(draftToken(r))
	if err := machine.DiscardDraft(); err != nil {
		if errors.Is(err, intake.ErrBusy) {
			s.writeError(w, http.StatusConflict, err.Error())
			return
		}
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	token := draftToken(r)
	machine := s.machines.get(token)
	snapshot := machine.Snapshot()

	response, err := machine.Submit(r.Context())
	switch {
	case errors.Is(err, intake.ErrSubmitInFlight), errors.Is(err, intake.ErrNotOnFinalStep):
		s.writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		var validationErr *intake.ValidationError
		if errors.As(err, &validationErr) {
			s.writeError(w, http.StatusUnprocessableEntity, validationErr.Message)
			return
		}
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.notifySubmission(r.Context(), snapshot, response)
	if response.Success {
		s.machines.remove(token)
	}
	s.writeJSON(w, http.StatusOK, response)
}

// notifySubmission publishes the outcome. Notification failures never affect
// the response the client sees.
func (s *Server) notifySubmission(ctx context.Context, snapshot form.FormSnapshot, response *submission.SubmissionResponse) {
	ctx = context.WithoutCancel(ctx)
	switch {
	case response.Success && response.Error == nil:
		if err := s.notifier.NotifySubmissionReceived(ctx, snapshot.Name, snapshot.Email, response.SubmissionID); err != nil {
			s.logger.Warn("submission notification failed", logging.Error(err))
		}
	case response.Success:
		if err := s.notifier.NotifyPartialFailure(ctx, response.SubmissionID, response.Error.Message); err != nil {
			s.logger.Warn("partial-failure notification failed", logging.Error(err))
		}
	default:
		detail := errors.New("submission failed")
		if response.Error != nil {
			detail = errors.New(response.Error.Message)
		}
		if err := s.notifier.NotifyError(ctx, detail, "submit"); err != nil {
			s.logger.Warn("error notification failed", logging.Error(err))
		}
	}
}

type uploadResponse struct {
	FileID    string `json:"file_id"`
	FileName  string `json:"file_name"`
	SizeBytes int64  `json:"size_bytes"`
}

// handleUpload stores a supporting file for an existing submission.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	maxBytes := s.cfg.Intake.MaxUploadBytes
	if maxBytes <= 0 {
		maxBytes = 25 << 20
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		s.writeError(w, http.StatusRequestEntityTooLarge, "upload too large or malformed")
		return
	}

	submissionID := strings.TrimSpace(r.FormValue("submission_id"))
	if submissionID == "" {
		s.writeError(w, http.StatusBadRequest, "missing submission_id")
		return
	}
	sub, err := s.store.GetSubmission(r.Context(), submissionID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if sub == nil {
		s.writeError(w, http.StatusNotFound, "submission not found")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	storedName := uuid.NewString() + filepath.Ext(header.Filename)
	target := filepath.Join(s.cfg.Paths.UploadDir, storedName)
	out, err := os.Create(target)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "store upload: "+err.Error())
		return
	}
	size, err := io.Copy(out, file)
	closeErr := out.Close()
	if err != nil || closeErr != nil {
		_ = os.Remove(target)
		s.writeError(w, http.StatusInternalServerError, "store upload failed")
		return
	}

	fileID, err := s.store.Insert(r.Context(), submission.CollectionFiles, &submission.FileRecord{
		SubmissionID: submissionID,
		FileName:     filepath.Base(header.Filename),
		ContentType:  header.Header.Get("Content-Type"),
		SizeBytes:    size,
		StoragePath:  storedName,
	})
	if err != nil {
		_ = os.Remove(target)
		s.writeError(w, http.StatusInternalServerError, "record upload: "+err.Error())
		return
	}

	s.writeJSON(w, http.StatusCreated, uploadResponse{
		FileID:    fileID,
		FileName:  filepath.Base(header.Filename),
		SizeBytes: size,
	})
}
