package tap

import (
	"github.com/basilfx/go-cbus-tap/cbus"
	"github.com/basilfx/go-cbus-tap/gridconnect"
)

// LoggingSerialStage logs raw data chunks as hexadecimal and forwards them.
type LoggingSerialStage struct {
	filter  *FilterConfiguration
	channel ChannelLogger
	next    ChunkHandler
}

// NewLoggingSerialStage returns a stage in front of next.
func NewLoggingSerialStage(filter *FilterConfiguration, channel ChannelLogger, next ChunkHandler) *LoggingSerialStage {
	return &LoggingSerialStage{
		filter:  filter,
		channel: channel,
		next:    next,
	}
}

// HandleChunk logs the chunk if serial logging is enabled, then forwards
// it unchanged.
func (s *LoggingSerialStage) HandleChunk(chunk RawDataChunk) {
	if s.filter.LogSerial() {
		s.channel.Info(chunk.Hex)
	}

	s.next.HandleChunk(chunk)
}

// LoggingFrameStage logs frames verbatim and forwards them.
type LoggingFrameStage struct {
	filter  *FilterConfiguration
	channel ChannelLogger
	next    FrameHandler
}

// NewLoggingFrameStage returns a stage in front of next.
func NewLoggingFrameStage(filter *FilterConfiguration, channel ChannelLogger, next FrameHandler) *LoggingFrameStage {
	return &LoggingFrameStage{
		filter:  filter,
		channel: channel,
		next:    next,
	}
}

// HandleFrame logs the frame if frame logging is enabled, then forwards it
// unchanged.
func (s *LoggingFrameStage) HandleFrame(frame gridconnect.Frame) {
	if s.filter.LogFrame() {
		s.channel.Info(func() string {
			return string(frame)
		})
	}

	s.next.HandleFrame(frame)
}

// LoggingMessageStage logs decoded messages that pass the opcode allow-list
// and forwards all of them.
type LoggingMessageStage struct {
	filter  *FilterConfiguration
	channel ChannelLogger
	next    MessageHandler
}

// NewLoggingMessageStage returns a stage in front of next.
func NewLoggingMessageStage(filter *FilterConfiguration, channel ChannelLogger, next MessageHandler) *LoggingMessageStage {
	return &LoggingMessageStage{
		filter:  filter,
		channel: channel,
		next:    next,
	}
}

// HandleMessage logs the rendered message if message logging is enabled and
// the opcode is included. The message is forwarded either way.
func (s *LoggingMessageStage) HandleMessage(message cbus.Message) {
	include := s.filter.Includes(message.OpCode)

	if include && s.filter.LogMessage() {
		s.channel.Info(message.String)
	}

	s.next.HandleMessage(message)
}
