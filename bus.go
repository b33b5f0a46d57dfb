package tap

import (
	"sync"
	"sync/atomic"

	log "github.com/sirupsen/logrus"
	"github.com/twinj/uuid"

	"github.com/basilfx/go-cbus-tap/cbus"
	"github.com/basilfx/go-cbus-tap/metrics"
)

// Listener identifies a registration on a Bus.
type Listener string

// ListenerChannelSize is the number of messages a listener can fall behind
// before messages are dropped for it.
const ListenerChannelSize = 32

type subscription struct {
	messages chan cbus.Message
	dropped  atomic.Uint64
}

// Bus is the last stage of a pipeline. Decoded messages are copied to every
// listener. Delivery never blocks the reader, so a slow listener loses
// messages instead.
type Bus struct {
	lock          sync.RWMutex
	subscriptions map[Listener]*subscription

	metrics *metrics.Metrics
}

// NewBus returns an empty bus. Drops are counted on m, which may be nil.
func NewBus(m *metrics.Metrics) *Bus {
	return &Bus{
		subscriptions: map[Listener]*subscription{},
		metrics:       m,
	}
}

// Register adds a listener. Messages handled from now on are delivered on
// the returned channel until Unregister.
func (b *Bus) Register() (Listener, <-chan cbus.Message) {
	id := Listener(uuid.NewV4().String())
	s := &subscription{
		messages: make(chan cbus.Message, ListenerChannelSize),
	}

	b.lock.Lock()
	b.subscriptions[id] = s
	b.lock.Unlock()

	return id, s.messages
}

// Unregister removes a listener and closes its channel. Unknown listeners
// are ignored.
func (b *Bus) Unregister(id Listener) {
	b.lock.Lock()
	s, ok := b.subscriptions[id]
	delete(b.subscriptions, id)
	b.lock.Unlock()

	if ok {
		close(s.messages)
	}
}

// Dropped returns the number of messages the listener missed.
func (b *Bus) Dropped(id Listener) uint64 {
	b.lock.RLock()
	defer b.lock.RUnlock()

	if s, ok := b.subscriptions[id]; ok {
		return s.dropped.Load()
	}

	return 0
}

// HandleMessage delivers message to every listener with room for it.
func (b *Bus) HandleMessage(message cbus.Message) {
	b.lock.RLock()
	defer b.lock.RUnlock()

	for id, s := range b.subscriptions {
		select {
		case s.messages <- message:
		default:
			s.dropped.Add(1)
			b.metrics.ObserveDropped()

			log.WithField("listener", id).Warnf("Listener is full, dropped %s.", message.Name())
		}
	}
}
