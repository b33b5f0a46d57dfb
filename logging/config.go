package logging

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Environment overrides.
const (
	EnvLogLevel  = "CBUSLOGGER_LOG_LEVEL"
	EnvLogFile   = "CBUSLOGGER_LOG_FILE"
	EnvLogFormat = "CBUSLOGGER_LOG_FORMAT"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ChannelLevels holds the threshold of each traffic channel.
type ChannelLevels struct {
	Serial      logrus.Level
	GridConnect logrus.Level
	CBUS        logrus.Level
}

// Config describes where and how to log.
type Config struct {
	// Level is the threshold of the diagnostic channel.
	Level logrus.Level

	// File is the log file. Empty logs to standard error.
	File       string
	Format     string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int

	Channels ChannelLevels
}

// DefaultConfig logs everything at informational level to standard error.
func DefaultConfig() Config {
	return Config{
		Level:      logrus.InfoLevel,
		Format:     FormatText,
		MaxSizeMB:  10,
		MaxBackups: 5,
		MaxAgeDays: 30,
		Channels: ChannelLevels{
			Serial:      logrus.InfoLevel,
			GridConnect: logrus.InfoLevel,
			CBUS:        logrus.InfoLevel,
		},
	}
}

// ApplyEnv overrides cfg with the environment.
func ApplyEnv(cfg *Config) {
	if lvl, ok := ParseLevel(os.Getenv(EnvLogLevel)); ok {
		cfg.Level = lvl
	}

	if file, ok := os.LookupEnv(EnvLogFile); ok {
		cfg.File = strings.TrimSpace(file)
	}

	if format, ok := ParseFormat(os.Getenv(EnvLogFormat)); ok {
		cfg.Format = format
	}
}

// ParseLevel parses a logrus level name, or "off", "none" or "disabled" to
// silence a channel. The second result is false for empty or unknown names.
func ParseLevel(raw string) (logrus.Level, bool) {
	name := strings.ToLower(strings.TrimSpace(raw))

	switch name {
	case "":
		return logrus.InfoLevel, false
	case "off", "none", "disabled":
		return logrus.PanicLevel, true
	}

	level, err := logrus.ParseLevel(name)

	if err != nil {
		return logrus.InfoLevel, false
	}

	return level, true
}

// ParseFormat parses an output format name.
func ParseFormat(raw string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case FormatText:
		return FormatText, true
	case FormatJSON:
		return FormatJSON, true
	default:
		return FormatText, false
	}
}
