// Package config loads, validates, and defaults Reelintake configuration
// from TOML files.
package config
