// Package submission turns a completed form snapshot into datastore records.
//
// The write sequence is deliberately only partially transactional: the
// primary submission row and its reel example children are separate writes,
// and a failed child write is reported as a partial success rather than
// rolling back the primary record.
package submission
