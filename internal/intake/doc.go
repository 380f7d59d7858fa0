// Package intake implements the multi-step form state machine: snapshot
// ownership, step transitions, draft persistence, and submission handoff.
package intake
