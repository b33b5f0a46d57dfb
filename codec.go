package tap

import (
	log "github.com/sirupsen/logrus"

	"github.com/basilfx/go-cbus-tap/gridconnect"
	"github.com/basilfx/go-cbus-tap/metrics"
)

// FrameDecoder feeds chunks to a FrameCodec and forwards the resulting
// frames.
type FrameDecoder struct {
	codec   FrameCodec
	next    FrameHandler
	metrics *metrics.Metrics
}

// NewFrameDecoder returns a decoder in front of next.
func NewFrameDecoder(codec FrameCodec, next FrameHandler, m *metrics.Metrics) *FrameDecoder {
	return &FrameDecoder{
		codec:   codec,
		next:    next,
		metrics: m,
	}
}

// HandleChunk forwards every frame completed by chunk, in order.
func (d *FrameDecoder) HandleChunk(chunk RawDataChunk) {
	d.metrics.ObserveChunk(len(chunk.Data))

	for frame := range d.codec.Feed(chunk.Data) {
		d.metrics.ObserveFrame()
		d.next.HandleFrame(frame)
	}
}

// MessageDecoder decodes frames with a MessageCodec and forwards the
// resulting messages. A frame that fails to decode is logged and dropped.
type MessageDecoder struct {
	codec   MessageCodec
	next    MessageHandler
	metrics *metrics.Metrics
}

// NewMessageDecoder returns a decoder in front of next.
func NewMessageDecoder(codec MessageCodec, next MessageHandler, m *metrics.Metrics) *MessageDecoder {
	return &MessageDecoder{
		codec:   codec,
		next:    next,
		metrics: m,
	}
}

// HandleFrame decodes frame and forwards the message.
func (d *MessageDecoder) HandleFrame(frame gridconnect.Frame) {
	message, err := d.codec.Decode(frame)

	if err != nil {
		d.metrics.ObserveDecodeError()
		log.Warnf("Unable to decode frame: %v", err)
		return
	}

	d.metrics.ObserveMessage()
	d.next.HandleMessage(message)
}
