package config

type GeneralConfig struct {
	BindAddress  string `yaml:"bindAddress"`
	Port         int    `yaml:"port"`
	LogDirectory string `yaml:"logDirectory"`
	LogColors    bool   `yaml:"logColors"`
	JsonLogs     bool   `yaml:"jsonLogs"`
	LogLevel     string `yaml:"logLevel"`
}

type UploadsConfig struct {
	MaxSizeBytes int64 `yaml:"maxSizeBytes"`
}

type BatchConfig struct {
	MaxFiles           int `yaml:"maxFiles"`
	MaxVariantsPerFile int `yaml:"maxVariantsPerFile"`
}

type ImagesConfig struct {
	MaxPixels int `yaml:"maxPixels"`
}

type AudioConfig struct {
	WaveformBinary    string   `yaml:"waveformBinary"`
	ProbeBinary       string   `yaml:"probeBinary"`
	WaveformTimeoutMs int      `yaml:"waveformTimeoutMs"`
	ProbeTimeoutMs    int      `yaml:"probeTimeoutMs"`
	PixelsPerSecond   int      `yaml:"pixelsPerSecond"`
	WaveformBits      int      `yaml:"waveformBits"`
	SupportedFormats  []string `yaml:"supportedFormats,flow"`
}

type RateLimitConfig struct {
	Enabled           bool    `yaml:"enabled"`
	RequestsPerSecond float64 `yaml:"requestsPerSecond"`
	BurstCount        int     `yaml:"burst"`
}

type MetricsConfig struct {
	Enabled     bool   `yaml:"enabled"`
	BindAddress string `yaml:"bindAddress"`
	Port        int    `yaml:"port"`
}

type SentryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Dsn         string `yaml:"dsn"`
	Environment string `yaml:"environment"`
	Debug       bool   `yaml:"debug"`
}

type MediaForgeConfig struct {
	General   GeneralConfig   `yaml:"forge"`
	Uploads   UploadsConfig   `yaml:"uploads"`
	Batch     BatchConfig     `yaml:"batch"`
	Images    ImagesConfig    `yaml:"images"`
	Audio     AudioConfig     `yaml:"audio"`
	RateLimit RateLimitConfig `yaml:"rateLimit"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Sentry    SentryConfig    `yaml:"sentry"`
}
