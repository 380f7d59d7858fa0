package submission_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"reelintake/internal/form"
	"reelintake/internal/logging"
	"reelintake/internal/submission"
)

type fakeDatastore struct {
	primaryID    string
	primaryErr   error
	childErr     error
	inserted     map[string][]any
	childInserts int
}

func (f *fakeDatastore) Insert(_ context.Context, collection string, record any) (string, error) {
	if f.inserted == nil {
		f.inserted = make(map[string][]any)
	}
	switch collection {
	case submission.CollectionSubmissions:
		if f.primaryErr != nil {
			return "", f.primaryErr
		}
		f.inserted[collection] = append(f.inserted[collection], record)
		return f.primaryID, nil
	case submission.CollectionReelExamples:
		f.childInserts++
		if f.childErr != nil {
			return "", f.childErr
		}
		f.inserted[collection] = append(f.inserted[collection], record)
		return "", nil
	default:
		return "", errors.New("unexpected collection " + collection)
	}
}

func (f *fakeDatastore) Delete(context.Context, string, submission.Filter) error {
	return errors.New("not implemented")
}

func (f *fakeDatastore) Query(context.Context, string, submission.Filter, submission.Order) ([]map[string]any, error) {
	return nil, errors.New("not implemented")
}

func completeSnapshot() form.FormSnapshot {
	return form.FormSnapshot{
		Step:               form.StepCount,
		Name:               "Ada Example",
		Email:              "ada@example.com",
		Phone:              "5558675309",
		Website:            "https://example.com",
		Brief:              "Launch video.",
		Audience:           "Editors.",
		Tones:              []string{"energetic"},
		FootageTypes:       []string{"screen capture"},
		CredibilityMarkers: []string{"client logos"},
		ReelExamples: []form.ReelExample{
			{Link: "https://vimeo.com/1", Comment: "pacing"},
			{Link: "https://vimeo.com/2", Comment: "grade"},
		},
		AdditionalInfo: "N/A",
	}
}

func TestSubmitFullSuccessWithoutExamples(t *testing.T) {
	store := &fakeDatastore{primaryID: "xyz-789"}
	submitter := submission.NewSubmitter(store, logging.NewNop())

	snapshot := completeSnapshot()
	snapshot.ReelExamples = nil

	response := submitter.Submit(context.Background(), snapshot)
	if !response.Success {
		t.Fatalf("expected success, got %+v", response)
	}
	if response.SubmissionID != "xyz-789" {
		t.Fatalf("expected submission id xyz-789, got %q", response.SubmissionID)
	}
	if response.Error != nil {
		t.Fatalf("expected no error, got %+v", response.Error)
	}
	if store.childInserts != 0 {
		t.Fatalf("expected no child inserts, got %d", store.childInserts)
	}
}

func TestSubmitPartialSuccessOnChildFailure(t *testing.T) {
	store := &fakeDatastore{
		primaryID: "abc-123",
		childErr: &submission.StoreError{
			Code:    submission.CodePermissionDenied,
			Message: "permission denied for table reel_examples",
		},
	}
	submitter := submission.NewSubmitter(store, logging.NewNop())

	response := submitter.Submit(context.Background(), completeSnapshot())
	if !response.Success {
		t.Fatalf("expected partial success, got %+v", response)
	}
	if response.SubmissionID != "abc-123" {
		t.Fatalf("expected submission id abc-123, got %q", response.SubmissionID)
	}
	if response.Error == nil {
		t.Fatal("expected error describing the child-write failure")
	}
	if response.Error.Code != "42501" {
		t.Fatalf("expected code 42501, got %q", response.Error.Code)
	}
	if !strings.Contains(response.Error.Message, "reel examples") {
		t.Fatalf("expected message to mention reel examples, got %q", response.Error.Message)
	}
}

func TestSubmitHardFailureOnNotNullViolation(t *testing.T) {
	store := &fakeDatastore{
		primaryErr: &submission.StoreError{
			Code:    submission.CodeNotNullViolation,
			Message: "null value in column violates not-null constraint",
		},
	}
	submitter := submission.NewSubmitter(store, logging.NewNop())

	response := submitter.Submit(context.Background(), completeSnapshot())
	if response.Success {
		t.Fatalf("expected failure, got %+v", response)
	}
	if response.Error == nil || response.Error.Code != "23502" {
		t.Fatalf("expected code 23502, got %+v", response.Error)
	}
}

func TestSubmitClassifiesUniqueViolation(t *testing.T) {
	store := &fakeDatastore{
		primaryErr: &submission.StoreError{
			Code:    submission.CodeUniqueViolation,
			Message: "duplicate key value violates unique constraint",
		},
	}
	submitter := submission.NewSubmitter(store, logging.NewNop())

	response := submitter.Submit(context.Background(), completeSnapshot())
	if response.Success {
		t.Fatal("expected failure")
	}
	if response.Error.Code != "23505" {
		t.Fatalf("expected code 23505, got %q", response.Error.Code)
	}
	if !strings.Contains(response.Error.Message, "already exists") {
		t.Fatalf("unexpected message %q", response.Error.Message)
	}
}

func TestSubmitMissingIdentifierIsHardFailure(t *testing.T) {
	store := &fakeDatastore{primaryID: ""}
	submitter := submission.NewSubmitter(store, logging.NewNop())

	response := submitter.Submit(context.Background(), completeSnapshot())
	if response.Success {
		t.Fatal("expected failure when no identifier is returned")
	}
	if response.Error == nil || response.Error.Code != submission.CodeNoDataReturned {
		t.Fatalf("expected NO_DATA_RETURNED, got %+v", response.Error)
	}
}

func TestSubmitDefensiveRequiredFieldCheck(t *testing.T) {
	store := &fakeDatastore{primaryID: "never-used"}
	submitter := submission.NewSubmitter(store, logging.NewNop())

	snapshot := completeSnapshot()
	snapshot.Email = "  "

	response := submitter.Submit(context.Background(), snapshot)
	if response.Success {
		t.Fatal("expected failure for missing required field")
	}
	if response.Error.Code != submission.CodeMissingFields {
		t.Fatalf("expected MISSING_REQUIRED_FIELDS, got %q", response.Error.Code)
	}
	if len(store.inserted) != 0 {
		t.Fatal("expected no writes when required fields are missing")
	}
}

func TestSubmitNormalizesUnknownErrors(t *testing.T) {
	store := &fakeDatastore{primaryErr: errors.New("connection reset by peer")}
	submitter := submission.NewSubmitter(store, logging.NewNop())

	response := submitter.Submit(context.Background(), completeSnapshot())
	if response.Success {
		t.Fatal("expected failure")
	}
	if response.Error.Code != submission.CodeUnknown {
		t.Fatalf("expected UNKNOWN_ERROR, got %q", response.Error.Code)
	}
	if !strings.Contains(response.Error.Message, "connection reset by peer") {
		t.Fatalf("expected raw error text in message, got %q", response.Error.Message)
	}
}

func TestSubmitWritesChildRowsWithPositions(t *testing.T) {
	store := &fakeDatastore{primaryID: "abc-123"}
	submitter := submission.NewSubmitter(store, logging.NewNop())

	response := submitter.Submit(context.Background(), completeSnapshot())
	if !response.Success || response.Error != nil {
		t.Fatalf("expected full success, got %+v", response)
	}
	children := store.inserted[submission.CollectionReelExamples]
	if len(children) != 2 {
		t.Fatalf("expected 2 child rows, got %d", len(children))
	}
	first := children[0].(*submission.ReelExampleRecord)
	if first.SubmissionID != "abc-123" || first.Position != 1 {
		t.Fatalf("unexpected first child row: %+v", first)
	}
}

func TestNewRecordNeverProducesNilArrays(t *testing.T) {
	record := submission.NewRecord(form.FormSnapshot{Name: "Ada"})
	if record.Tones == nil || record.FootageTypes == nil || record.CredibilityMarkers == nil {
		t.Fatal("expected array fields to be non-nil")
	}
	if record.Status != submission.StatusNew {
		t.Fatalf("expected status new, got %q", record.Status)
	}
}
