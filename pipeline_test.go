package tap

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basilfx/go-cbus-tap/cbus"
	"github.com/basilfx/go-cbus-tap/logging"
	"github.com/basilfx/go-cbus-tap/metrics"
	"github.com/basilfx/go-cbus-tap/serialport"
)

type run struct {
	hook     *test.Hook
	messages []cbus.Message
	metrics  *metrics.Metrics
}

// observe feeds chunks through a freshly built pipeline and collects
// want messages from the bus.
func observe(t *testing.T, filter *FilterConfiguration, want int, chunks ...string) run {
	t.Helper()

	port := newScriptedPort()
	channels, hook := newChannels()
	m := metrics.New()

	pipeline := Build(PipelineConfig{
		Filter:   filter,
		Driver:   &fakeDriver{port: port},
		Channels: channels,
		Metrics:  m,
	})

	id, listener := pipeline.Bus.Register()
	defer pipeline.Bus.Unregister(id)

	require.NoError(t, pipeline.Connect(serialport.DefaultConfig("COM1")))

	for _, chunk := range chunks {
		port.push(chunk)
	}

	messages := []cbus.Message{}

	for len(messages) < want {
		select {
		case message := <-listener:
			messages = append(messages, message)
		case <-time.After(waitFor):
			t.Fatalf("received %d of %d messages", len(messages), want)
		}
	}

	pipeline.Disconnect()
	port.push("")

	select {
	case <-pipeline.Done():
	case <-time.After(waitFor):
		t.Fatalf("pipeline did not stop")
	}

	// Nothing beyond the expected messages was forwarded.
	assert.Empty(t, listener)

	return run{hook: hook, messages: messages, metrics: m}
}

func TestPipelineLogsEachLayer(t *testing.T) {
	filter := NewFilterConfiguration()
	require.NoError(t, filter.SetLogging(LayerSerial, false))

	r := observe(t, filter, 1, ":SB020N0D;")

	assert.Empty(t, lines(r.hook, logging.ChannelSerial))
	assert.Equal(t, []string{":SB020N0D;"}, lines(r.hook, logging.ChannelGridConnect))
	assert.Equal(t, []string{"QNN (0D)"}, lines(r.hook, logging.ChannelCBUS))

	require.Len(t, r.messages, 1)
	assert.Equal(t, "0D", r.messages[0].OpCode)
}

func TestPipelineAllowListNeverGatesForwarding(t *testing.T) {
	filter := NewFilterConfiguration()
	require.NoError(t, filter.AddOpCode("0D"))

	r := observe(t, filter, 2, ":SB020N0D;", ":SB020N0E;")

	assert.Equal(t, []string{"QNN (0D)"}, lines(r.hook, logging.ChannelCBUS))
	assert.Len(t, lines(r.hook, logging.ChannelGridConnect), 2)

	require.Len(t, r.messages, 2)
	assert.Equal(t, "0D", r.messages[0].OpCode)
	assert.Equal(t, "0E", r.messages[1].OpCode)
}

func TestPipelineSerialFlagIsIndependent(t *testing.T) {
	input := []string{":SB020N90", "01010002;:SB0", "20N0D;"}

	on := observe(t, NewFilterConfiguration(), 2, input...)

	filter := NewFilterConfiguration()
	require.NoError(t, filter.SetLogging(LayerSerial, false))

	off := observe(t, filter, 2, input...)

	assert.Len(t, lines(on.hook, logging.ChannelSerial), 3)
	assert.Equal(t, "3A 53 42 30 32 30 4E 39 30", lines(on.hook, logging.ChannelSerial)[0])
	assert.Empty(t, lines(off.hook, logging.ChannelSerial))

	assert.Equal(t, lines(on.hook, logging.ChannelGridConnect), lines(off.hook, logging.ChannelGridConnect))
	assert.Equal(t, lines(on.hook, logging.ChannelCBUS), lines(off.hook, logging.ChannelCBUS))
	assert.Equal(t, []string{"ACON (90) NN=257 EN=2", "QNN (0D)"}, lines(on.hook, logging.ChannelCBUS))
}

func TestPipelineAllLoggingDisabled(t *testing.T) {
	filter := NewFilterConfiguration()
	require.NoError(t, filter.SetLogging(LayerSerial, false))
	require.NoError(t, filter.SetLogging(LayerFrame, false))
	require.NoError(t, filter.SetLogging(LayerMessage, false))

	r := observe(t, filter, 1, ":SB020N0D;")

	assert.Empty(t, r.hook.AllEntries())
	assert.Len(t, r.messages, 1)
}

func TestPipelineSkipsUndecodableFrames(t *testing.T) {
	r := observe(t, NewFilterConfiguration(), 2, ":SB020N0D;:SB020N90;:SB020N0E;")

	assert.Equal(t, []string{":SB020N0D;", ":SB020N90;", ":SB020N0E;"}, lines(r.hook, logging.ChannelGridConnect))
	assert.Equal(t, []string{"QNN (0D)", "Unknown (0E)"}, lines(r.hook, logging.ChannelCBUS))
	assert.Equal(t, uint64(1), r.metrics.Summary().DecodeErrors)
	assert.Equal(t, uint64(3), r.metrics.Summary().Frames)
}

func TestBuildFreezesFilter(t *testing.T) {
	filter := NewFilterConfiguration()
	channels, _ := newChannels()

	pipeline := Build(PipelineConfig{
		Filter:   filter,
		Driver:   &fakeDriver{port: newScriptedPort()},
		Channels: channels,
	})

	assert.Same(t, filter, pipeline.Filter())
	assert.True(t, filter.Frozen())
	assert.ErrorIs(t, filter.SetLogging(LayerSerial, false), ErrConfigurationFrozen)
}

func TestBuildWithoutFilterOrChannels(t *testing.T) {
	port := newScriptedPort()
	pipeline := Build(PipelineConfig{
		Driver: &fakeDriver{port: port},
	})

	require.NotNil(t, pipeline.Filter())
	assert.True(t, pipeline.Filter().Frozen())

	_, listener := pipeline.Bus.Register()

	require.NoError(t, pipeline.Connect(serialport.DefaultConfig("COM1")))

	port.push(":SB020N0D;")

	select {
	case message := <-listener:
		assert.Equal(t, "0D", message.OpCode)
	case <-time.After(waitFor):
		t.Fatalf("no message received")
	}

	pipeline.Disconnect()
	port.push("")

	select {
	case <-pipeline.Done():
	case <-time.After(waitFor):
		t.Fatalf("pipeline did not stop")
	}
}
