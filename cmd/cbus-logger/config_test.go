package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tap "github.com/basilfx/go-cbus-tap"
	"github.com/basilfx/go-cbus-tap/logging"
	"github.com/basilfx/go-cbus-tap/serialport"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "cbuslogger.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestDefaultSettings(t *testing.T) {
	s := defaultSettings()

	assert.Equal(t, tap.DefaultBufferSize, s.BufferSize)
	assert.Equal(t, serialport.DefaultReadTimeout, s.ReadTimeout)
	assert.Equal(t, logging.DefaultConfig(), s.Log)
	assert.Empty(t, s.MetricsAddr)
}

func TestPortName(t *testing.T) {
	s := defaultSettings()
	s.PortFormat = "COM%d"

	assert.Equal(t, "COM3", s.portName(3))
}

func TestLoadSettingsFromFile(t *testing.T) {
	path := writeConfig(t, `
port_format = "/dev/ttyUSB%d"
buffer_size = 128
read_timeout = "100ms"
metrics_addr = ":9100"

[log]
level = "debug"
file = "cbus.log"
format = "json"
max_backups = 2

[channels]
serial = "off"
cbus = "info"
`)

	t.Setenv(envConfig, path)
	t.Setenv(logging.EnvLogLevel, "")
	t.Setenv(logging.EnvLogFormat, "")

	s, err := loadSettings()

	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyUSB%d", s.PortFormat)
	assert.Equal(t, 128, s.BufferSize)
	assert.Equal(t, 100*time.Millisecond, s.ReadTimeout)
	assert.Equal(t, ":9100", s.MetricsAddr)
	assert.Equal(t, logrus.DebugLevel, s.Log.Level)
	assert.Equal(t, "cbus.log", s.Log.File)
	assert.Equal(t, logging.FormatJSON, s.Log.Format)
	assert.Equal(t, 2, s.Log.MaxBackups)
	assert.Equal(t, 10, s.Log.MaxSizeMB)
	assert.Equal(t, logrus.PanicLevel, s.Log.Channels.Serial)
	assert.Equal(t, logrus.InfoLevel, s.Log.Channels.GridConnect)
	assert.Equal(t, logrus.InfoLevel, s.Log.Channels.CBUS)
}

func TestLoadSettingsEnvironmentWins(t *testing.T) {
	path := writeConfig(t, `
[log]
level = "debug"
`)

	t.Setenv(envConfig, path)
	t.Setenv(logging.EnvLogLevel, "error")
	t.Setenv(logging.EnvLogFormat, "")

	s, err := loadSettings()

	require.NoError(t, err)
	assert.Equal(t, logrus.ErrorLevel, s.Log.Level)
}

func TestLoadSettingsInvalid(t *testing.T) {
	tests := []string{
		`port_format = "COM"`,
		`port_format = "COM%d%d"`,
		`buffer_size = 0`,
		`read_timeout = "soon"`,
		"[log]\nlevel = \"loud\"",
		"[log]\nformat = \"xml\"",
		"[channels]\ncbus = \"loud\"",
	}

	for _, content := range tests {
		t.Setenv(envConfig, writeConfig(t, content))

		_, err := loadSettings()

		assert.ErrorIs(t, err, errInvalidSettings, content)
	}
}

func TestLoadSettingsMissingExplicitFile(t *testing.T) {
	t.Setenv(envConfig, filepath.Join(t.TempDir(), "missing.toml"))

	_, err := loadSettings()

	assert.Error(t, err)
}
