package tap

import (
	"context"

	"github.com/basilfx/go-cbus-tap/cbus"
	"github.com/basilfx/go-cbus-tap/gridconnect"
	"github.com/basilfx/go-cbus-tap/metrics"
	"github.com/basilfx/go-cbus-tap/serialport"
)

// Channels are the log channels of the three logging stages.
type Channels struct {
	Serial      ChannelLogger
	GridConnect ChannelLogger
	CBUS        ChannelLogger
}

type discard struct{}

func (discard) Info(func() string) {}

// orDiscard replaces missing channels by one that drops everything.
func (c Channels) orDiscard() Channels {
	for _, channel := range []*ChannelLogger{&c.Serial, &c.GridConnect, &c.CBUS} {
		if *channel == nil {
			*channel = discard{}
		}
	}

	return c
}

// PipelineConfig holds what is needed to build a pipeline. Zero codecs
// select the GridConnect framer and the CBUS decoder. A nil filter logs
// everything, a nil channel logs nothing.
type PipelineConfig struct {
	Filter   *FilterConfiguration
	Driver   serialport.Driver
	Channels Channels

	FrameCodec   FrameCodec
	MessageCodec MessageCodec

	Metrics    *metrics.Metrics
	BufferSize int
	OnError    ErrorHandler
}

// Pipeline is the composition serial, frame, message, each stage wrapped by
// its logging stage, ending in a Bus.
type Pipeline struct {
	Transport *SerialTransport
	Bus       *Bus

	filter *FilterConfiguration
}

// Build wires the pipeline and freezes the filter configuration, which all
// stages share.
func Build(cfg PipelineConfig) *Pipeline {
	if cfg.Filter == nil {
		cfg.Filter = NewFilterConfiguration()
	}

	cfg.Filter.Freeze()

	cfg.Channels = cfg.Channels.orDiscard()

	if cfg.FrameCodec == nil {
		cfg.FrameCodec = gridconnect.NewFramer()
	}

	if cfg.MessageCodec == nil {
		cfg.MessageCodec = cbus.Decoder{}
	}

	bus := NewBus(cfg.Metrics)

	messages := NewLoggingMessageStage(cfg.Filter, cfg.Channels.CBUS, bus)
	decoder := NewMessageDecoder(cfg.MessageCodec, messages, cfg.Metrics)
	frames := NewLoggingFrameStage(cfg.Filter, cfg.Channels.GridConnect, decoder)
	framer := NewFrameDecoder(cfg.FrameCodec, frames, cfg.Metrics)
	serial := NewLoggingSerialStage(cfg.Filter, cfg.Channels.Serial, framer)

	return &Pipeline{
		Transport: NewSerialTransport(cfg.Driver, serial, WithBufferSize(cfg.BufferSize), WithErrorHandler(cfg.OnError)),
		Bus:       bus,
		filter:    cfg.Filter,
	}
}

// Filter returns the shared filter configuration.
func (p *Pipeline) Filter() *FilterConfiguration {
	return p.filter
}

// Connect opens the port and starts observing.
func (p *Pipeline) Connect(cfg serialport.Config) error {
	return p.Transport.Open(cfg)
}

// ConnectContext opens the port and observes until Disconnect or until ctx
// is done.
func (p *Pipeline) ConnectContext(ctx context.Context, cfg serialport.Config) error {
	return p.Transport.OpenContext(ctx, cfg)
}

// Disconnect asks the transport to stop. Wait on Done for the port to be
// released.
func (p *Pipeline) Disconnect() {
	p.Transport.Close()
}

// Done is closed once the transport released the port.
func (p *Pipeline) Done() <-chan struct{} {
	return p.Transport.Done()
}
