package tap

import (
	"iter"

	"github.com/basilfx/go-cbus-tap/cbus"
	"github.com/basilfx/go-cbus-tap/gridconnect"
)

// ChunkHandler receives raw data chunks in arrival order.
type ChunkHandler interface {
	HandleChunk(chunk RawDataChunk)
}

// FrameHandler receives frames in stream order.
type FrameHandler interface {
	HandleFrame(frame gridconnect.Frame)
}

// MessageHandler receives decoded messages in stream order.
type MessageHandler interface {
	HandleMessage(message cbus.Message)
}

// ChunkHandlerFunc adapts a function to a ChunkHandler.
type ChunkHandlerFunc func(chunk RawDataChunk)

// HandleChunk calls f(chunk).
func (f ChunkHandlerFunc) HandleChunk(chunk RawDataChunk) { f(chunk) }

// FrameHandlerFunc adapts a function to a FrameHandler.
type FrameHandlerFunc func(frame gridconnect.Frame)

// HandleFrame calls f(frame).
func (f FrameHandlerFunc) HandleFrame(frame gridconnect.Frame) { f(frame) }

// MessageHandlerFunc adapts a function to a MessageHandler.
type MessageHandlerFunc func(message cbus.Message)

// HandleMessage calls f(message).
func (f MessageHandlerFunc) HandleMessage(message cbus.Message) { f(message) }

// ErrorHandler receives transport errors.
type ErrorHandler func(err error)

// ChannelLogger is a log channel accepting lazily rendered messages.
type ChannelLogger interface {
	Info(msg func() string)
}

// FrameCodec splits an ordered byte stream into frames.
type FrameCodec interface {
	Feed(data []byte) iter.Seq[gridconnect.Frame]
}

// MessageCodec decodes a single frame.
type MessageCodec interface {
	Decode(frame gridconnect.Frame) (cbus.Message, error)
}
