package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"

	tap "github.com/basilfx/go-cbus-tap"
	"github.com/basilfx/go-cbus-tap/logging"
	"github.com/basilfx/go-cbus-tap/serialport"
)

const (
	envConfig         = "CBUSLOGGER_CONFIG"
	defaultConfigFile = "cbuslogger.toml"
)

var errInvalidSettings = errors.New("invalid settings")

type fileConfig struct {
	PortFormat  string       `toml:"port_format"`
	BufferSize  int          `toml:"buffer_size"`
	ReadTimeout string       `toml:"read_timeout"`
	MetricsAddr string       `toml:"metrics_addr"`
	Log         fileLog      `toml:"log"`
	Channels    fileChannels `toml:"channels"`
}

type fileLog struct {
	Level      string `toml:"level"`
	File       string `toml:"file"`
	Format     string `toml:"format"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
}

type fileChannels struct {
	Serial      string `toml:"serial"`
	GridConnect string `toml:"gridconnect"`
	CBUS        string `toml:"cbus"`
}

// settings are the process wide options. Startup flags are handled
// separately by parseArgs.
type settings struct {
	PortFormat  string
	BufferSize  int
	ReadTimeout time.Duration
	MetricsAddr string
	Log         logging.Config
}

func defaultPortFormat() string {
	if runtime.GOOS == "windows" {
		return "COM%d"
	}

	return "/dev/ttyACM%d"
}

func defaultSettings() settings {
	return settings{
		PortFormat:  defaultPortFormat(),
		BufferSize:  tap.DefaultBufferSize,
		ReadTimeout: serialport.DefaultReadTimeout,
		Log:         logging.DefaultConfig(),
	}
}

// portName returns the device name of port number n.
func (s settings) portName(n int) string {
	return fmt.Sprintf(s.PortFormat, n)
}

// configPath returns the configuration file to load, if any. An explicit
// path must exist; the default file is optional.
func configPath() (string, bool) {
	if path, ok := os.LookupEnv(envConfig); ok && strings.TrimSpace(path) != "" {
		return strings.TrimSpace(path), true
	}

	if _, err := os.Stat(defaultConfigFile); err == nil {
		return defaultConfigFile, true
	}

	return "", false
}

// loadSettings reads the configuration file, if any, and applies the
// environment overrides on top.
func loadSettings() (settings, error) {
	s := defaultSettings()

	if path, ok := configPath(); ok {
		if err := s.loadFile(path); err != nil {
			return s, err
		}
	}

	logging.ApplyEnv(&s.Log)

	return s, nil
}

func (s *settings) loadFile(path string) error {
	var fc fileConfig

	meta, err := toml.DecodeFile(path, &fc)

	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}

	if meta.IsDefined("port_format") {
		if strings.Count(fc.PortFormat, "%d") != 1 {
			return fmt.Errorf("%w: port_format %q needs exactly one %%d", errInvalidSettings, fc.PortFormat)
		}

		s.PortFormat = fc.PortFormat
	}

	if meta.IsDefined("buffer_size") {
		if fc.BufferSize <= 0 {
			return fmt.Errorf("%w: buffer_size must be positive", errInvalidSettings)
		}

		s.BufferSize = fc.BufferSize
	}

	if meta.IsDefined("read_timeout") {
		timeout, err := time.ParseDuration(fc.ReadTimeout)

		if err != nil || timeout <= 0 {
			return fmt.Errorf("%w: read_timeout %q", errInvalidSettings, fc.ReadTimeout)
		}

		s.ReadTimeout = timeout
	}

	if meta.IsDefined("metrics_addr") {
		s.MetricsAddr = strings.TrimSpace(fc.MetricsAddr)
	}

	if meta.IsDefined("log", "level") {
		level, ok := logging.ParseLevel(fc.Log.Level)

		if !ok {
			return fmt.Errorf("%w: log.level %q", errInvalidSettings, fc.Log.Level)
		}

		s.Log.Level = level
	}

	if meta.IsDefined("log", "file") {
		s.Log.File = strings.TrimSpace(fc.Log.File)
	}

	if meta.IsDefined("log", "format") {
		format, ok := logging.ParseFormat(fc.Log.Format)

		if !ok {
			return fmt.Errorf("%w: log.format %q", errInvalidSettings, fc.Log.Format)
		}

		s.Log.Format = format
	}

	if meta.IsDefined("log", "max_size_mb") {
		s.Log.MaxSizeMB = fc.Log.MaxSizeMB
	}

	if meta.IsDefined("log", "max_backups") {
		s.Log.MaxBackups = fc.Log.MaxBackups
	}

	if meta.IsDefined("log", "max_age_days") {
		s.Log.MaxAgeDays = fc.Log.MaxAgeDays
	}

	channels := []struct {
		key   string
		raw   string
		level *logrus.Level
	}{
		{"serial", fc.Channels.Serial, &s.Log.Channels.Serial},
		{"gridconnect", fc.Channels.GridConnect, &s.Log.Channels.GridConnect},
		{"cbus", fc.Channels.CBUS, &s.Log.Channels.CBUS},
	}

	for _, channel := range channels {
		if !meta.IsDefined("channels", channel.key) {
			continue
		}

		level, ok := logging.ParseLevel(channel.raw)

		if !ok {
			return fmt.Errorf("%w: channels.%s %q", errInvalidSettings, channel.key, channel.raw)
		}

		*channel.level = level
	}

	return nil
}
