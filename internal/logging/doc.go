// Package logging builds the slog loggers used throughout Reelintake and
// defines the shared attribute vocabulary.
package logging
