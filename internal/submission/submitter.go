package submission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"reelintake/internal/form"
	"reelintake/internal/logging"
)

// ResponseError describes a classified submission failure.
type ResponseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// SubmissionResponse is the single structured outcome of Submit. Three
// shapes occur: full success (no Error), partial success (Success with an
// Error describing the failed child write), and hard failure (!Success).
type SubmissionResponse struct {
	Success      bool           `json:"success"`
	SubmissionID string         `json:"submission_id,omitempty"`
	Error        *ResponseError `json:"error,omitempty"`
}

// Submitter executes the submission write sequence against the external
// datastore. It mutates no local state; callers act on the returned result.
type Submitter struct {
	store  Datastore
	logger *slog.Logger
}

// NewSubmitter builds a Submitter around the injected datastore handle.
func NewSubmitter(store Datastore, logger *slog.Logger) *Submitter {
	return &Submitter{
		store:  store,
		logger: logging.NewComponentLogger(logger, "submitter"),
	}
}

// Submit normalizes the snapshot, writes the primary record, then writes
// reel example child rows referencing it. A child-write failure does not
// roll back the primary insert: the main record surviving is preferred over
// losing the whole submission, at the cost of possibly missing child rows.
// No error ever escapes as a raw failure; every path returns a structured
// response.
func (s *Submitter) Submit(ctx context.Context, snapshot form.FormSnapshot) (response SubmissionResponse) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("submission panicked", logging.Any("panic", r))
			response = SubmissionResponse{
				Success: false,
				Error: &ResponseError{
					Code:    CodeUnknown,
					Message: "Something went wrong saving your submission. Please try again.",
					Details: fmt.Sprint(r),
				},
			}
		}
	}()

	if missing := missingRequiredFields(snapshot); len(missing) > 0 {
		return SubmissionResponse{
			Success: false,
			Error: &ResponseError{
				Code:    CodeMissingFields,
				Message: "Required fields are missing: " + strings.Join(missing, ", ") + ".",
			},
		}
	}

	record := NewRecord(snapshot)
	id, err := s.store.Insert(ctx, CollectionSubmissions, &record)
	if err != nil {
		classified := classify(err)
		s.logger.Error("primary submission insert failed",
			logging.String(logging.FieldErrorCode, classified.Code),
			logging.Error(err))
		return SubmissionResponse{Success: false, Error: classified}
	}
	if id == "" {
		s.logger.Error("insert reported success without an identifier")
		return SubmissionResponse{
			Success: false,
			Error: &ResponseError{
				Code:    CodeNoDataReturned,
				Message: "The submission was not confirmed by the datastore. Please try again.",
			},
		}
	}

	for position, example := range snapshot.ReelExamples {
		child := ReelExampleRecord{
			SubmissionID: id,
			Link:         strings.TrimSpace(example.Link),
			Comment:      strings.TrimSpace(example.Comment),
			Position:     position + 1,
		}
		if _, err := s.store.Insert(ctx, CollectionReelExamples, &child); err != nil {
			code, details := errorCode(err)
			s.logger.Warn("reel example insert failed; primary record kept",
				logging.String(logging.FieldSubmissionID, id),
				logging.String(logging.FieldErrorCode, code),
				logging.Error(err))
			return SubmissionResponse{
				Success:      true,
				SubmissionID: id,
				Error: &ResponseError{
					Code:    code,
					Message: "Your submission was saved, but the reel examples could not be stored.",
					Details: details,
				},
			}
		}
	}

	s.logger.Info("submission stored",
		logging.String(logging.FieldSubmissionID, id),
		logging.Int("reel_examples", len(snapshot.ReelExamples)))
	return SubmissionResponse{Success: true, SubmissionID: id}
}

// classify maps a primary-insert failure onto a user-facing response error.
func classify(err error) *ResponseError {
	code, details := errorCode(err)
	switch code {
	case CodePermissionDenied:
		return &ResponseError{
			Code:    code,
			Message: "The datastore rejected this submission. Please contact the studio directly.",
			Details: details,
		}
	case CodeUniqueViolation:
		return &ResponseError{
			Code:    code,
			Message: "A submission with this email address already exists.",
			Details: details,
		}
	default:
		return &ResponseError{
			Code:    code,
			Message: "Something went wrong saving your submission: " + details,
			Details: details,
		}
	}
}

func errorCode(err error) (code, details string) {
	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		detail := storeErr.Message
		if storeErr.Details != "" {
			detail = storeErr.Details
		}
		return storeErr.Code, detail
	}
	return CodeUnknown, err.Error()
}
