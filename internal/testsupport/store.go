package testsupport

import (
	"context"
	"testing"

	"reelintake/internal/config"
	"reelintake/internal/store"
	"reelintake/internal/submission"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// InsertSubmission stores a submission record for tests and returns its
// identifier.
func InsertSubmission(t testing.TB, st *store.Store, record submission.Record) string {
	t.Helper()

	id, err := st.Insert(context.Background(), submission.CollectionSubmissions, &record)
	if err != nil {
		t.Fatalf("store.Insert: %v", err)
	}
	return id
}
