package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks the configuration for values that would prevent the service
// from operating. Path existence is not checked here; EnsureDirectories
// creates missing directories at startup.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Paths.DataDir) == "" {
		problems = append(problems, "paths.data_dir must be set")
	}
	if strings.TrimSpace(c.Paths.DraftDir) == "" {
		problems = append(problems, "paths.draft_dir must be set")
	}
	if strings.TrimSpace(c.Paths.APIBind) == "" {
		problems = append(problems, "paths.api_bind must be set")
	}
	if c.Intake.MaxReelExamples <= 0 {
		problems = append(problems, "intake.max_reel_examples must be positive")
	}
	if c.Intake.SubmitTimeoutSeconds < 0 {
		problems = append(problems, "intake.submit_timeout_seconds must not be negative")
	}
	if c.Intake.MaxUploadBytes <= 0 {
		problems = append(problems, "intake.max_upload_bytes must be positive")
	}
	if c.Auth.TokenTTLMinutes <= 0 {
		problems = append(problems, "auth.token_ttl_minutes must be positive")
	}

	// Admin auth is optional, but a partial credential is always a mistake.
	hasEmail := strings.TrimSpace(c.Auth.AdminEmail) != ""
	hasHash := strings.TrimSpace(c.Auth.AdminPasswordHash) != ""
	if hasEmail != hasHash {
		problems = append(problems, "auth.admin_email and auth.admin_password_hash must be set together")
	}
	if hasEmail && strings.TrimSpace(c.Auth.TokenSecret) == "" {
		problems = append(problems, "auth.token_secret must be set when admin auth is enabled")
	}

	switch c.Logging.Format {
	case "", "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("logging.format: unsupported value %q", c.Logging.Format))
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("logging.level: unsupported value %q", c.Logging.Level))
	}

	if len(problems) == 0 {
		return nil
	}
	return errors.New("invalid configuration: " + strings.Join(problems, "; "))
}
