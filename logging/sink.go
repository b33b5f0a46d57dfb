package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewLogger creates a logger for all channels. The returned closer releases
// the log file, if any.
func NewLogger(cfg Config) (*logrus.Logger, io.Closer) {
	logger := logrus.New()

	return logger, Configure(logger, cfg)
}

// Configure points logger at the destination described by cfg. Use it on
// logrus.StandardLogger() to send package level diagnostics to the same
// destination as the channels.
func Configure(logger *logrus.Logger, cfg Config) io.Closer {
	var closer io.Closer = nopCloser{}

	if cfg.File != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
		}

		logger.SetOutput(file)
		closer = file
	} else {
		logger.SetOutput(os.Stderr)
	}

	if cfg.Format == FormatJSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	// The logger passes everything any channel wants; channels filter.
	logger.SetLevel(maxLevel(cfg.Level, cfg.Channels.Serial, cfg.Channels.GridConnect, cfg.Channels.CBUS))

	return closer
}

func maxLevel(levels ...logrus.Level) logrus.Level {
	max := logrus.PanicLevel

	for _, level := range levels {
		if level > max {
			max = level
		}
	}

	return max
}
