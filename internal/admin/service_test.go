package admin_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"reelintake/internal/admin"
	"reelintake/internal/logging"
	"reelintake/internal/store"
	"reelintake/internal/submission"
	"reelintake/internal/testsupport"
)

func newService(t *testing.T) (*admin.Service, *store.Store, string) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	svc := admin.NewService(st, cfg.Paths.UploadDir, logging.NewNop())
	return svc, st, cfg.Paths.UploadDir
}

func TestListRejectsUnknownStatus(t *testing.T) {
	svc, _, _ := newService(t)
	if _, err := svc.List(context.Background(), store.ListOptions{Status: "archived"}); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestDescribeReturnsChildren(t *testing.T) {
	svc, st, _ := newService(t)
	ctx := context.Background()

	id := testsupport.InsertSubmission(t, st, testsupport.CompleteRecord("describe"))
	if _, err := st.Insert(ctx, submission.CollectionReelExamples, &submission.ReelExampleRecord{
		SubmissionID: id, Link: "https://vimeo.com/9", Comment: "grade", Position: 1,
	}); err != nil {
		t.Fatalf("insert child failed: %v", err)
	}
	if _, err := svc.AddNote(ctx, id, "reviewer@example.com", "call scheduled"); err != nil {
		t.Fatalf("AddNote failed: %v", err)
	}

	detail, err := svc.Describe(ctx, id)
	if err != nil {
		t.Fatalf("Describe failed: %v", err)
	}
	if detail.Submission.ID != id {
		t.Fatalf("unexpected submission %+v", detail.Submission)
	}
	if len(detail.ReelExamples) != 1 || len(detail.Notes) != 1 {
		t.Fatalf("unexpected children: %d examples, %d notes", len(detail.ReelExamples), len(detail.Notes))
	}

	if _, err := svc.Describe(ctx, "no-such-id"); !errors.Is(err, admin.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSetStatus(t *testing.T) {
	svc, st, _ := newService(t)
	ctx := context.Background()

	id := testsupport.InsertSubmission(t, st, testsupport.CompleteRecord("status"))
	if err := svc.SetStatus(ctx, id, store.StatusInReview); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	sub, err := st.GetSubmission(ctx, id)
	if err != nil {
		t.Fatalf("GetSubmission failed: %v", err)
	}
	if sub.Status != store.StatusInReview {
		t.Fatalf("expected in-review, got %q", sub.Status)
	}

	if err := svc.SetStatus(ctx, "no-such-id", store.StatusComplete); !errors.Is(err, admin.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := svc.SetStatus(ctx, id, "archived"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestAddNoteValidation(t *testing.T) {
	svc, st, _ := newService(t)
	ctx := context.Background()

	id := testsupport.InsertSubmission(t, st, testsupport.CompleteRecord("note"))
	if _, err := svc.AddNote(ctx, id, "reviewer@example.com", "   "); err == nil {
		t.Fatal("expected error for empty note body")
	}
	if _, err := svc.AddNote(ctx, "no-such-id", "reviewer@example.com", "text"); !errors.Is(err, admin.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteCascadesChildrenAndAttachments(t *testing.T) {
	svc, st, uploadDir := newService(t)
	ctx := context.Background()

	id := testsupport.InsertSubmission(t, st, testsupport.CompleteRecord("delete"))
	if _, err := st.Insert(ctx, submission.CollectionReelExamples, &submission.ReelExampleRecord{
		SubmissionID: id, Link: "https://vimeo.com/3", Comment: "pacing", Position: 1,
	}); err != nil {
		t.Fatalf("insert child failed: %v", err)
	}

	attachment := filepath.Join(uploadDir, "brief.pdf")
	if err := os.WriteFile(attachment, []byte("pdf"), 0o644); err != nil {
		t.Fatalf("write attachment: %v", err)
	}
	if _, err := st.Insert(ctx, submission.CollectionFiles, &submission.FileRecord{
		SubmissionID: id, FileName: "brief.pdf", SizeBytes: 3, StoragePath: "brief.pdf",
	}); err != nil {
		t.Fatalf("insert file failed: %v", err)
	}

	if err := svc.Delete(ctx, id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	sub, err := st.GetSubmission(ctx, id)
	if err != nil {
		t.Fatalf("GetSubmission failed: %v", err)
	}
	if sub != nil {
		t.Fatal("expected submission removed")
	}
	examples, err := st.ReelExamplesFor(ctx, id)
	if err != nil {
		t.Fatalf("ReelExamplesFor failed: %v", err)
	}
	if len(examples) != 0 {
		t.Fatalf("expected children removed, got %d", len(examples))
	}
	if _, err := os.Stat(attachment); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("expected attachment removed from disk")
	}

	if err := svc.Delete(ctx, id); !errors.Is(err, admin.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
