package config

const (
	defaultOutputDir        = "~/transcripts"
	defaultStateDir         = "~/.local/share/scrivener"
	defaultLogDir           = "~/.local/share/scrivener/logs"
	defaultTopicMaxLength   = 50
	defaultSeparator        = "_"
	defaultBatchMaxSize     = 10
	defaultSourceBinary     = "yt-dlp"
	defaultSubtitleLanguage = "en"
	defaultFetchTimeout     = 120
	defaultNotifyTimeout    = 10
	defaultLogFormat        = "auto"
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			StateDir:  defaultStateDir,
			LogDir:    defaultLogDir,
		},
		Naming: Naming{
			TopicMaxLength: defaultTopicMaxLength,
			Separator:      defaultSeparator,
		},
		Batch: Batch{
			MaxSize: defaultBatchMaxSize,
		},
		Source: Source{
			Binary:           defaultSourceBinary,
			SubtitleLanguage: defaultSubtitleLanguage,
			IncludeLinks:     true,
			FetchTimeout:     defaultFetchTimeout,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
