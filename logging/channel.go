// Package logging provides the named log channels of the tap.
package logging

import (
	"github.com/sirupsen/logrus"
)

// Channel names.
const (
	ChannelSerial      = "Serial"
	ChannelGridConnect = "GridConnect"
	ChannelCBUS        = "CBUS"
	ChannelDiagnostic  = "cbuslogger"
)

// Channel is a named log channel with its own threshold. Messages are
// passed as closures and only rendered when the channel is enabled.
type Channel struct {
	name  string
	level logrus.Level
	entry *logrus.Entry
}

// NewChannel returns a channel writing to logger.
func NewChannel(logger *logrus.Logger, name string, level logrus.Level) *Channel {
	return &Channel{
		name:  name,
		level: level,
		entry: logger.WithField("channel", name),
	}
}

// Name of the channel.
func (c *Channel) Name() string {
	return c.name
}

// Enabled reports whether a message at level would be written.
func (c *Channel) Enabled(level logrus.Level) bool {
	return level <= c.level && c.entry.Logger.IsLevelEnabled(level)
}

// Log writes the result of msg at level, if the channel is enabled.
func (c *Channel) Log(level logrus.Level, msg func() string) {
	if !c.Enabled(level) {
		return
	}

	c.entry.Log(level, msg())
}

// Info writes the result of msg at informational level.
func (c *Channel) Info(msg func() string) {
	c.Log(logrus.InfoLevel, msg)
}

// Logf formats a message at level, if the channel is enabled.
func (c *Channel) Logf(level logrus.Level, format string, args ...interface{}) {
	if !c.Enabled(level) {
		return
	}

	c.entry.Logf(level, format, args...)
}

// Debugf formats a message at debug level.
func (c *Channel) Debugf(format string, args ...interface{}) {
	c.Logf(logrus.DebugLevel, format, args...)
}

// Infof formats a message at informational level.
func (c *Channel) Infof(format string, args ...interface{}) {
	c.Logf(logrus.InfoLevel, format, args...)
}

// Errorf formats a message at error level.
func (c *Channel) Errorf(format string, args ...interface{}) {
	c.Logf(logrus.ErrorLevel, format, args...)
}

// Channels holds the channels used by the tap.
type Channels struct {
	Serial      *Channel
	GridConnect *Channel
	CBUS        *Channel
	Diagnostic  *Channel
}

// NewChannels creates all channels on one logger.
func NewChannels(logger *logrus.Logger, cfg Config) *Channels {
	return &Channels{
		Serial:      NewChannel(logger, ChannelSerial, cfg.Channels.Serial),
		GridConnect: NewChannel(logger, ChannelGridConnect, cfg.Channels.GridConnect),
		CBUS:        NewChannel(logger, ChannelCBUS, cfg.Channels.CBUS),
		Diagnostic:  NewChannel(logger, ChannelDiagnostic, cfg.Level),
	}
}
