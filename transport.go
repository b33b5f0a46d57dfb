package tap

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/basilfx/go-utilities/taskrunner"
	log "github.com/sirupsen/logrus"
	"github.com/twinj/uuid"

	"github.com/basilfx/go-cbus-tap/serialport"
)

// DefaultBufferSize is the default capacity of the read buffer.
const DefaultBufferSize = 64

// SerialTransport owns a serial port and reads from it until closed. Every
// completed read is handed to the chunk handler on the reader goroutine,
// before the next read is issued. There is never more than one read in
// flight.
type SerialTransport struct {
	driver     serialport.Driver
	handler    ChunkHandler
	onError    ErrorHandler
	bufferSize int

	lock    sync.Mutex
	session *session
}

type session struct {
	id         string
	name       string
	port       serialport.Port
	taskRunner *taskrunner.TaskRunner

	closing atomic.Bool
	done    chan struct{}

	// Only touched by the reader task.
	sequence uint64
}

func (s *session) finished() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// TransportOption configures a SerialTransport.
type TransportOption func(t *SerialTransport)

// WithBufferSize sets the capacity of the read buffer.
func WithBufferSize(size int) TransportOption {
	return func(t *SerialTransport) {
		if size > 0 {
			t.bufferSize = size
		}
	}
}

// WithErrorHandler sets the handler for read failures.
func WithErrorHandler(handler ErrorHandler) TransportOption {
	return func(t *SerialTransport) {
		t.onError = handler
	}
}

// NewSerialTransport returns a new transport that opens ports through
// driver and emits chunks to handler.
func NewSerialTransport(driver serialport.Driver, handler ChunkHandler, options ...TransportOption) *SerialTransport {
	t := &SerialTransport{
		driver:     driver,
		handler:    handler,
		bufferSize: DefaultBufferSize,
	}

	for _, option := range options {
		option(t)
	}

	return t
}

// Open the port described by cfg and start reading. It fails with
// serialport.ErrPortUnavailable or serialport.ErrInvalidConfig, and with
// ErrAlreadyOpen while a previous session is still running.
func (t *SerialTransport) Open(cfg serialport.Config) error {
	return t.OpenContext(context.Background(), cfg)
}

// OpenContext is like Open, but the session also stops once ctx is done.
// Like Close, this does not interrupt a read in flight.
func (t *SerialTransport) OpenContext(ctx context.Context, cfg serialport.Config) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.session != nil && !t.session.finished() {
		return ErrAlreadyOpen
	}

	port, err := t.driver.Open(cfg)

	if err != nil {
		if !errors.Is(err, serialport.ErrInvalidConfig) && !errors.Is(err, serialport.ErrPortUnavailable) {
			err = fmt.Errorf("%w: %s: %v", serialport.ErrPortUnavailable, cfg.Name, err)
		}

		return err
	}

	s := &session{
		id:         uuid.NewV4().String(),
		name:       cfg.Name,
		port:       port,
		taskRunner: taskrunner.New(),
		done:       make(chan struct{}),
	}

	t.session = s

	log.WithField("session", s.id).Debugf("Opened %s (%d %d %d %d).", cfg.Name, cfg.BaudRate, cfg.DataBits, cfg.StopBits, cfg.Parity)

	s.taskRunner.RunWithCancel("SerialTransport.Reader", func(ctx context.Context) {
		t.readerTask(ctx, s)
	})

	stop := context.AfterFunc(ctx, s.taskRunner.Cancel)

	go func() {
		s.taskRunner.Wait()
		stop()

		close(s.done)
	}()

	return nil
}

// IsOpen reports whether a session is reading.
func (t *SerialTransport) IsOpen() bool {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.session != nil && !t.session.closing.Load() && !t.session.finished()
}

// Close stops issuing reads. A read that is already in flight is not
// cancelled; its outcome is discarded. Close is idempotent and does not
// wait, use Done or Wait for that.
func (t *SerialTransport) Close() {
	t.lock.Lock()
	s := t.session
	t.lock.Unlock()

	if s == nil || !s.closing.CompareAndSwap(false, true) {
		return
	}

	log.WithField("session", s.id).Debugf("Closing %s.", s.name)
}

// Done returns a channel that is closed once the current session has
// stopped reading and released the port. Without a session, the channel is
// already closed.
func (t *SerialTransport) Done() <-chan struct{} {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.session == nil {
		done := make(chan struct{})
		close(done)

		return done
	}

	return t.session.done
}

// Wait until the current session has released the port.
func (t *SerialTransport) Wait() {
	<-t.Done()
}
