// Package draft persists in-progress intake form snapshots to a durable
// local key-value store so users can resume or retry after a failure.
package draft
