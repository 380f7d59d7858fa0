package testsupport

import (
	"path/filepath"
	"testing"

	"reelintake/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t   testing.TB
	cfg *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.DraftDir = filepath.Join(base, "drafts")
	cfgVal.Paths.UploadDir = filepath.Join(base, "uploads")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.APIBind = "127.0.0.1:0"
	cfgVal.Auth.TokenSecret = "test-secret"

	builder := &configBuilder{t: t, cfg: &cfgVal}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithAdminCredentials sets the admin email and bcrypt password hash on the
// test config.
func WithAdminCredentials(email, passwordHash string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Auth.AdminEmail = email
		b.cfg.Auth.AdminPasswordHash = passwordHash
	}
}
