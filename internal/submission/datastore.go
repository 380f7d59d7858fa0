package submission

import (
	"context"
	"fmt"
)

// Collection names on the external datastore.
const (
	CollectionSubmissions  = "submissions"
	CollectionReelExamples = "reel_examples"
	CollectionFiles        = "submission_files"
	CollectionNotes        = "submission_notes"
)

// Error codes carried on StoreError and SubmissionResponse. The numeric codes
// follow the SQL-state convention of the hosted datastore; the named codes
// are synthesized at the orchestrator boundary.
const (
	CodePermissionDenied = "42501"
	CodeNotNullViolation = "23502"
	CodeUniqueViolation  = "23505"
	CodeNoDataReturned   = "NO_DATA_RETURNED"
	CodeMissingFields    = "MISSING_REQUIRED_FIELDS"
	CodeUnknown          = "UNKNOWN_ERROR"
)

// StoreError is the typed failure returned by datastore implementations.
type StoreError struct {
	Code    string
	Message string
	Details string
}

func (e *StoreError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s (%s): %s", e.Message, e.Code, e.Details)
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

// Filter narrows Delete and Query operations to matching records.
type Filter map[string]any

// Order describes result ordering for Query.
type Order struct {
	Field      string
	Descending bool
}

// Datastore is the narrow collaborator contract the orchestrator depends on.
// Implementations return *StoreError for classified failures.
type Datastore interface {
	// Insert stores a record in the named collection and returns the
	// identifier assigned by the store.
	Insert(ctx context.Context, collection string, record any) (string, error)
	// Delete removes records matching the filter.
	Delete(ctx context.Context, collection string, filter Filter) error
	// Query returns records matching the filter in the requested order.
	Query(ctx context.Context, collection string, filter Filter, order Order) ([]map[string]any, error)
}
