package tap

import (
	"io"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/basilfx/go-cbus-tap/cbus"
	"github.com/basilfx/go-cbus-tap/gridconnect"
	"github.com/basilfx/go-cbus-tap/logging"
	"github.com/basilfx/go-cbus-tap/serialport"
)

type read struct {
	data []byte
	err  error
}

// scriptedPort completes every read with the next scripted result. A
// result larger than the read buffer is spread over several reads.
type scriptedPort struct {
	reads   chan read
	pending []byte
	err     error

	closes atomic.Int32
}

func newScriptedPort() *scriptedPort {
	return &scriptedPort{
		reads: make(chan read, 16),
	}
}

func (p *scriptedPort) push(data string) {
	p.reads <- read{data: []byte(data)}
}

func (p *scriptedPort) fail(err error) {
	p.reads <- read{err: err}
}

func (p *scriptedPort) Read(b []byte) (int, error) {
	if len(p.pending) == 0 && p.err == nil {
		r, ok := <-p.reads

		if !ok {
			return 0, io.EOF
		}

		p.pending = r.data
		p.err = r.err
	}

	n := copy(b, p.pending)
	p.pending = p.pending[n:]

	if len(p.pending) == 0 && p.err != nil {
		err := p.err
		p.err = nil

		return n, err
	}

	return n, nil
}

func (p *scriptedPort) Close() error {
	p.closes.Add(1)

	return nil
}

// guardedPort counts reads that overlap another read on the same port.
type guardedPort struct {
	serialport.Port

	inFlight atomic.Int32
	overlaps atomic.Int32
}

func guard(port serialport.Port) *guardedPort {
	return &guardedPort{Port: port}
}

func (p *guardedPort) Read(b []byte) (int, error) {
	if p.inFlight.Add(1) > 1 {
		p.overlaps.Add(1)
	}

	defer p.inFlight.Add(-1)

	return p.Port.Read(b)
}

type fakeDriver struct {
	port  serialport.Port
	err   error
	opens atomic.Int32
}

func (d *fakeDriver) Open(cfg serialport.Config) (serialport.Port, error) {
	d.opens.Add(1)

	if d.err != nil {
		return nil, d.err
	}

	return d.port, nil
}

func (d *fakeDriver) Ports() ([]string, error) {
	return []string{"COM1"}, nil
}

type collector struct {
	lock     sync.Mutex
	chunks   []RawDataChunk
	frames   []gridconnect.Frame
	messages []cbus.Message
}

func (c *collector) HandleChunk(chunk RawDataChunk) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.chunks = append(c.chunks, chunk)
}

func (c *collector) HandleFrame(frame gridconnect.Frame) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.frames = append(c.frames, frame)
}

func (c *collector) HandleMessage(message cbus.Message) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.messages = append(c.messages, message)
}

func (c *collector) Chunks() []RawDataChunk {
	c.lock.Lock()
	defer c.lock.Unlock()

	return append([]RawDataChunk(nil), c.chunks...)
}

func (c *collector) Data() []byte {
	data := []byte{}

	for _, chunk := range c.Chunks() {
		data = append(data, chunk.Data...)
	}

	return data
}

func (c *collector) Frames() []gridconnect.Frame {
	c.lock.Lock()
	defer c.lock.Unlock()

	return append([]gridconnect.Frame(nil), c.frames...)
}

func (c *collector) Messages() []cbus.Message {
	c.lock.Lock()
	defer c.lock.Unlock()

	return append([]cbus.Message(nil), c.messages...)
}

// newChannels returns channels that record into a test hook.
func newChannels() (Channels, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	return Channels{
		Serial:      logging.NewChannel(logger, logging.ChannelSerial, logrus.InfoLevel),
		GridConnect: logging.NewChannel(logger, logging.ChannelGridConnect, logrus.InfoLevel),
		CBUS:        logging.NewChannel(logger, logging.ChannelCBUS, logrus.InfoLevel),
	}, hook
}

// lines returns the messages logged to channel.
func lines(hook *test.Hook, channel string) []string {
	result := []string{}

	for _, entry := range hook.AllEntries() {
		if entry.Data["channel"] == channel {
			result = append(result, entry.Message)
		}
	}

	return result
}
