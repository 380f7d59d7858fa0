package config

const (
	defaultDataDir              = "~/.local/share/reelintake/data"
	defaultDraftDir             = "~/.local/share/reelintake/drafts"
	defaultUploadDir            = "~/.local/share/reelintake/uploads"
	defaultLogDir               = "~/.local/share/reelintake/logs"
	defaultAPIBind              = "127.0.0.1:8640"
	defaultMaxReelExamples      = 3
	defaultSubmitTimeoutSeconds = 30
	defaultMaxUploadBytes       = 25 << 20
	defaultTokenTTLMinutes      = 720
	defaultNotifyRequestTimeout = 10
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   defaultDataDir,
			DraftDir:  defaultDraftDir,
			UploadDir: defaultUploadDir,
			LogDir:    defaultLogDir,
			APIBind:   defaultAPIBind,
		},
		Intake: Intake{
			MaxReelExamples:      defaultMaxReelExamples,
			SubmitTimeoutSeconds: defaultSubmitTimeoutSeconds,
			MaxUploadBytes:       defaultMaxUploadBytes,
		},
		Auth: Auth{
			TokenTTLMinutes: defaultTokenTTLMinutes,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			Submissions:    true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
