// Package store persists submissions in SQLite. It implements the generic
// collection-oriented datastore contract the submission orchestrator writes
// through, plus the typed query surface the review workflow reads from.
package store
