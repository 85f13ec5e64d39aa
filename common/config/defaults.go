package config

func NewDefaultConfig() MediaForgeConfig {
	return MediaForgeConfig{
		General: GeneralConfig{
			BindAddress:  "127.0.0.1",
			Port:         8000,
			LogDirectory: "-",
			LogColors:    false,
			JsonLogs:     false,
			LogLevel:     "info",
		},
		Uploads: UploadsConfig{
			MaxSizeBytes: 104857600, // 100mb
		},
		Batch: BatchConfig{
			MaxFiles:           20,
			MaxVariantsPerFile: 20,
		},
		Images: ImagesConfig{
			MaxPixels: 32000000, // 32MP
		},
		Audio: AudioConfig{
			WaveformBinary:    "audiowaveform",
			ProbeBinary:       "ffprobe",
			WaveformTimeoutMs: 30000,
			ProbeTimeoutMs:    10000,
			PixelsPerSecond:   5,
			WaveformBits:      8,
			SupportedFormats:  []string{"wav", "mp3", "flac", "ogg"},
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerSecond: 1,
			BurstCount:        10,
		},
		Metrics: MetricsConfig{
			Enabled:     false,
			BindAddress: "localhost",
			Port:        9000,
		},
		Sentry: SentryConfig{
			Enabled:     false,
			Dsn:         "",
			Environment: "",
			Debug:       false,
		},
	}
}
