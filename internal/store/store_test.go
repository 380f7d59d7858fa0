package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"reelintake/internal/store"
	"reelintake/internal/submission"
	"reelintake/internal/testsupport"
)

func TestInsertAndGetSubmission(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	record := testsupport.CompleteRecord("alpha")
	id, err := st.Insert(ctx, submission.CollectionSubmissions, &record)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if id == "" {
		t.Fatal("expected non-empty identifier")
	}

	sub, err := st.GetSubmission(ctx, id)
	if err != nil {
		t.Fatalf("GetSubmission failed: %v", err)
	}
	if sub == nil {
		t.Fatal("expected stored submission")
	}
	if sub.Name != record.Name || sub.Email != record.Email {
		t.Fatalf("unexpected submission %+v", sub)
	}
	if sub.Status != store.StatusNew {
		t.Fatalf("expected status new, got %q", sub.Status)
	}
	if len(sub.Tones) != 1 || sub.Tones[0] != "energetic" {
		t.Fatalf("unexpected tones %v", sub.Tones)
	}
	if sub.CreatedAt.IsZero() || sub.UpdatedAt.IsZero() {
		t.Fatal("expected timestamps to be set")
	}

	missing, err := st.GetSubmission(ctx, "no-such-id")
	if err != nil {
		t.Fatalf("GetSubmission failed: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown id, got %+v", missing)
	}
}

func TestInsertDuplicateEmailClassifiedAsUniqueViolation(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	record := testsupport.CompleteRecord("dup")
	if _, err := st.Insert(ctx, submission.CollectionSubmissions, &record); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}

	_, err := st.Insert(ctx, submission.CollectionSubmissions, &record)
	var storeErr *submission.StoreError
	if !errors.As(err, &storeErr) {
		t.Fatalf("expected StoreError, got %v", err)
	}
	if storeErr.Code != submission.CodeUniqueViolation {
		t.Fatalf("expected code 23505, got %q", storeErr.Code)
	}
}

func TestGenericQueryAndDelete(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	record := testsupport.CompleteRecord("query")
	id, err := st.Insert(ctx, submission.CollectionSubmissions, &record)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	for position := 1; position <= 2; position++ {
		child := &submission.ReelExampleRecord{
			SubmissionID: id,
			Link:         "https://vimeo.com/1",
			Comment:      "pacing",
			Position:     position,
		}
		if _, err := st.Insert(ctx, submission.CollectionReelExamples, child); err != nil {
			t.Fatalf("insert child failed: %v", err)
		}
	}

	rows, err := st.Query(ctx, submission.CollectionReelExamples,
		submission.Filter{"submission_id": id},
		submission.Order{Field: "position"})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	if err := st.Delete(ctx, submission.CollectionReelExamples, nil); err == nil {
		t.Fatal("expected error for unfiltered delete")
	}

	if err := st.Delete(ctx, submission.CollectionReelExamples, submission.Filter{"submission_id": id}); err != nil {
		t.Fatalf("Delete children failed: %v", err)
	}
	if err := st.Delete(ctx, submission.CollectionSubmissions, submission.Filter{"id": id}); err != nil {
		t.Fatalf("Delete parent failed: %v", err)
	}

	sub, err := st.GetSubmission(ctx, id)
	if err != nil {
		t.Fatalf("GetSubmission failed: %v", err)
	}
	if sub != nil {
		t.Fatal("expected submission removed")
	}
}

func TestQueryRejectsUnknownFilterField(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))

	_, err := st.Query(context.Background(), submission.CollectionSubmissions,
		submission.Filter{"phone; DROP TABLE submissions": "x"}, submission.Order{})
	if err == nil {
		t.Fatal("expected error for unknown filter field")
	}
}

func TestListSubmissionsFiltersAndSearch(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	firstID := testsupport.InsertSubmission(t, st, testsupport.CompleteRecord("anna"))
	secondID := testsupport.InsertSubmission(t, st, testsupport.CompleteRecord("bjorn"))

	if _, err := st.UpdateStatus(ctx, secondID, store.StatusInReview); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}

	all, err := st.ListSubmissions(ctx, store.ListOptions{})
	if err != nil {
		t.Fatalf("ListSubmissions failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 submissions, got %d", len(all))
	}

	inReview, err := st.ListSubmissions(ctx, store.ListOptions{Status: store.StatusInReview})
	if err != nil {
		t.Fatalf("ListSubmissions failed: %v", err)
	}
	if len(inReview) != 1 || inReview[0].ID != secondID {
		t.Fatalf("unexpected in-review results %v", inReview)
	}

	// Search is case-insensitive over both name and email.
	byName, err := st.ListSubmissions(ctx, store.ListOptions{Search: "ANNA"})
	if err != nil {
		t.Fatalf("ListSubmissions failed: %v", err)
	}
	if len(byName) != 1 || byName[0].ID != firstID {
		t.Fatalf("unexpected search results %v", byName)
	}
	byEmail, err := st.ListSubmissions(ctx, store.ListOptions{Search: "client-bjorn@"})
	if err != nil {
		t.Fatalf("ListSubmissions failed: %v", err)
	}
	if len(byEmail) != 1 || byEmail[0].ID != secondID {
		t.Fatalf("unexpected search results %v", byEmail)
	}
}

func TestUpdateStatus(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	id := testsupport.InsertSubmission(t, st, testsupport.CompleteRecord("status"))

	updated, err := st.UpdateStatus(ctx, id, store.StatusComplete)
	if err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if !updated {
		t.Fatal("expected a row to be updated")
	}

	sub, err := st.GetSubmission(ctx, id)
	if err != nil {
		t.Fatalf("GetSubmission failed: %v", err)
	}
	if sub.Status != store.StatusComplete {
		t.Fatalf("expected status complete, got %q", sub.Status)
	}
	if !sub.UpdatedAt.After(sub.CreatedAt.Add(-time.Second)) {
		t.Fatal("expected updated_at to be refreshed")
	}

	if _, err := st.UpdateStatus(ctx, id, "archived"); err == nil {
		t.Fatal("expected error for unknown status")
	}

	updated, err = st.UpdateStatus(ctx, "no-such-id", store.StatusInReview)
	if err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if updated {
		t.Fatal("expected no rows updated for unknown id")
	}
}

func TestChildRowsRoundTrip(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	id := testsupport.InsertSubmission(t, st, testsupport.CompleteRecord("children"))

	if _, err := st.Insert(ctx, submission.CollectionReelExamples, &submission.ReelExampleRecord{
		SubmissionID: id, Link: "https://vimeo.com/2", Comment: "grade", Position: 1,
	}); err != nil {
		t.Fatalf("insert reel example failed: %v", err)
	}
	if _, err := st.Insert(ctx, submission.CollectionFiles, &submission.FileRecord{
		SubmissionID: id, FileName: "brief.pdf", ContentType: "application/pdf", SizeBytes: 1024, StoragePath: "uploads/brief.pdf",
	}); err != nil {
		t.Fatalf("insert file failed: %v", err)
	}
	if _, err := st.Insert(ctx, submission.CollectionNotes, &submission.NoteRecord{
		SubmissionID: id, Author: "reviewer@example.com", Body: "strong brief",
	}); err != nil {
		t.Fatalf("insert note failed: %v", err)
	}

	examples, err := st.ReelExamplesFor(ctx, id)
	if err != nil {
		t.Fatalf("ReelExamplesFor failed: %v", err)
	}
	if len(examples) != 1 || examples[0].Comment != "grade" {
		t.Fatalf("unexpected examples %v", examples)
	}

	files, err := st.FilesFor(ctx, id)
	if err != nil {
		t.Fatalf("FilesFor failed: %v", err)
	}
	if len(files) != 1 || files[0].FileName != "brief.pdf" || files[0].SizeBytes != 1024 {
		t.Fatalf("unexpected files %v", files)
	}

	notes, err := st.NotesFor(ctx, id)
	if err != nil {
		t.Fatalf("NotesFor failed: %v", err)
	}
	if len(notes) != 1 || notes[0].Body != "strong brief" {
		t.Fatalf("unexpected notes %v", notes)
	}
}

func TestStatsGroupsByStatus(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	testsupport.InsertSubmission(t, st, testsupport.CompleteRecord("one"))
	id := testsupport.InsertSubmission(t, st, testsupport.CompleteRecord("two"))
	if _, err := st.UpdateStatus(ctx, id, store.StatusInReview); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}

	stats, err := st.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats[store.StatusNew] != 1 || stats[store.StatusInReview] != 1 {
		t.Fatalf("unexpected stats %v", stats)
	}
}
