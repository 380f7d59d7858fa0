// Package admin implements the review workflow over stored submissions:
// listing, inspection, status transitions, notes, and removal.
package admin
