package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"reelintake/internal/logging"
	"reelintake/internal/store"
	"reelintake/internal/submission"
)

// ErrNotFound is returned when no submission matches the requested
// identifier.
var ErrNotFound = errors.New("submission not found")

// Detail is a submission together with all of its child rows.
type Detail struct {
	Submission   *store.Submission
	ReelExamples []*store.ReelExample
	Files        []*store.SubmissionFile
	Notes        []*store.SubmissionNote
}

// Service exposes the review operations the admin surface needs. All reads
// and writes go through the submission store.
type Service struct {
	store     *store.Store
	uploadDir string
	logger    *slog.Logger
}

// NewService builds the review service. uploadDir anchors relative storage
// paths when attachments are removed during a cascade delete.
func NewService(st *store.Store, uploadDir string, logger *slog.Logger) *Service {
	return &Service{
		store:     st,
		uploadDir: uploadDir,
		logger:    logging.NewComponentLogger(logger, "admin"),
	}
}

// List returns submissions newest first, optionally narrowed by review
// status and a free-text search over name and email.
func (s *Service) List(ctx context.Context, opts store.ListOptions) ([]*store.Submission, error) {
	if opts.Status != "" && !store.KnownStatus(opts.Status) {
		return nil, fmt.Errorf("unknown status %q", opts.Status)
	}
	return s.store.ListSubmissions(ctx, opts)
}

// Describe returns a submission with its reel examples, attachments, and
// review notes.
func (s *Service) Describe(ctx context.Context, id string) (*Detail, error) {
	sub, err := s.store.GetSubmission(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, ErrNotFound
	}

	examples, err := s.store.ReelExamplesFor(ctx, id)
	if err != nil {
		return nil, err
	}
	files, err := s.store.FilesFor(ctx, id)
	if err != nil {
		return nil, err
	}
	notes, err := s.store.NotesFor(ctx, id)
	if err != nil {
		return nil, err
	}

	return &Detail{
		Submission:   sub,
		ReelExamples: examples,
		Files:        files,
		Notes:        notes,
	}, nil
}

// SetStatus moves a submission to a new review status.
func (s *Service) SetStatus(ctx context.Context, id, status string) error {
	updated, err := s.store.UpdateStatus(ctx, id, status)
	if err != nil {
		return err
	}
	if !updated {
		return ErrNotFound
	}
	s.logger.Info("submission status updated",
		logging.String(logging.FieldSubmissionID, id),
		logging.String("status", status))
	return nil
}

// AddNote attaches an internal review note to a submission and returns the
// note identifier.
func (s *Service) AddNote(ctx context.Context, id, author, body string) (string, error) {
	if strings.TrimSpace(body) == "" {
		return "", errors.New("note body is empty")
	}
	sub, err := s.store.GetSubmission(ctx, id)
	if err != nil {
		return "", err
	}
	if sub == nil {
		return "", ErrNotFound
	}

	noteID, err := s.store.Insert(ctx, submission.CollectionNotes, &submission.NoteRecord{
		SubmissionID: id,
		Author:       strings.TrimSpace(author),
		Body:         strings.TrimSpace(body),
	})
	if err != nil {
		return "", fmt.Errorf("insert note: %w", err)
	}
	return noteID, nil
}

// Delete removes a submission and its child rows. Child cleanup failures are
// logged and skipped so one stuck table does not block the rest of the
// cascade; the parent delete still fails if rows referencing it remain.
func (s *Service) Delete(ctx context.Context, id string) error {
	sub, err := s.store.GetSubmission(ctx, id)
	if err != nil {
		return err
	}
	if sub == nil {
		return ErrNotFound
	}

	s.removeAttachments(ctx, id)

	childCollections := []string{
		submission.CollectionReelExamples,
		submission.CollectionFiles,
		submission.CollectionNotes,
	}
	filter := submission.Filter{"submission_id": id}
	for _, collection := range childCollections {
		if err := s.store.Delete(ctx, collection, filter); err != nil {
			s.logger.Warn("failed to delete child rows",
				logging.String(logging.FieldSubmissionID, id),
				logging.String("collection", collection),
				logging.Error(err))
		}
	}

	if err := s.store.Delete(ctx, submission.CollectionSubmissions, submission.Filter{"id": id}); err != nil {
		return fmt.Errorf("delete submission: %w", err)
	}
	s.logger.Info("submission deleted", logging.String(logging.FieldSubmissionID, id))
	return nil
}

// removeAttachments deletes the on-disk files behind submission_files rows.
// Failures are logged; the rows are removed regardless.
func (s *Service) removeAttachments(ctx context.Context, id string) {
	files, err := s.store.FilesFor(ctx, id)
	if err != nil {
		s.logger.Warn("failed to list attachments for cleanup",
			logging.String(logging.FieldSubmissionID, id),
			logging.Error(err))
		return
	}
	for _, file := range files {
		path := file.StoragePath
		if !filepath.IsAbs(path) {
			path = filepath.Join(s.uploadDir, path)
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("failed to remove attachment",
				logging.String(logging.FieldSubmissionID, id),
				logging.String("path", path),
				logging.Error(err))
		}
	}
}
