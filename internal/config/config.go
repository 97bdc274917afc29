package config

import "time"

// Timestamp types selecting which file time drives age decisions.
const (
	TimestampModify = "modify"
	TimestampChange = "change"
	TimestampAccess = "access"
)

// Open-file probe modes.
const (
	ProbeAuto   = "auto"
	ProbeProcfs = "procfs"
	ProbeLsof   = "lsof"
	ProbeNone   = "none"
)

type Config struct {
	Patterns             []string              `yaml:"patterns"`
	Blacklist            []string              `yaml:"blacklist"`
	MaxKeepDays          int                   `yaml:"maxKeepDays"`
	MaxAge               int64                 `yaml:"maxAge"` // seconds
	TimestampSuffix      TimestampSuffixConfig `yaml:"timestampSuffix"`
	TimestampType        string                `yaml:"timestampType"` // "modify", "change", "access"
	CompressedExtensions []string              `yaml:"compressedExtensions"`
	CompressionLevel     int                   `yaml:"compressionLevel"`
	Workers              int                   `yaml:"workers"`
	Deadline             time.Duration         `yaml:"deadline"`
	OpenFileProbe        string                `yaml:"openFileProbe"` // "auto", "procfs", "lsof", "none"
	Logging              LoggingConfig         `yaml:"logging"`
	Metrics              MetricsConfig         `yaml:"metrics"`

	// DryRun is set from the command line only.
	DryRun bool `yaml:"-"`
}

type TimestampSuffixConfig struct {
	Enabled bool   `yaml:"enabled"`
	Format  string `yaml:"format"` // strftime, e.g. %Y%m%d%H%M%S
}

type LoggingConfig struct {
	Level      string `yaml:"level"`      // "debug", "info", "warn", "error"
	File       string `yaml:"file"`       // empty disables file output
	TimeFormat string `yaml:"timeFormat"` // strftime
}

type MetricsConfig struct {
	Textfile string `yaml:"textfile"` // node_exporter textfile path, empty disables
}

// Default returns the built-in configuration used for any field the YAML leaves out.
func Default() Config {
	return Config{
		MaxKeepDays: 30,
		MaxAge:      3600,
		TimestampSuffix: TimestampSuffixConfig{
			Enabled: true,
			Format:  "%Y%m%d%H%M%S",
		},
		TimestampType:        TimestampModify,
		CompressedExtensions: []string{".gz"},
		CompressionLevel:     -1,
		Workers:              1,
		OpenFileProbe:        ProbeAuto,
		Logging: LoggingConfig{
			Level:      "info",
			TimeFormat: "%Y-%m-%d %H:%M:%S",
		},
	}
}

// MaxAgeDuration is the minimum idle time before a file may be compressed.
func (c *Config) MaxAgeDuration() time.Duration {
	return time.Duration(c.MaxAge) * time.Second
}

// RetentionWindow is the age past which compressed artifacts are deleted.
func (c *Config) RetentionWindow() time.Duration {
	return time.Duration(c.MaxKeepDays) * 24 * time.Hour
}

// CompressionExt is the extension appended by the compressor.
func (c *Config) CompressionExt() string {
	return ".gz"
}
