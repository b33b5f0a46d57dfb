package tap

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
)

func (s *session) stopping(ctx context.Context) bool {
	if s.closing.Load() {
		return true
	}

	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

func (t *SerialTransport) readerTask(ctx context.Context, s *session) {
	logger := log.WithField("session", s.id)

	defer func() {
		if err := s.port.Close(); err != nil {
			logger.Debugf("Error while closing %s: %v", s.name, err)
		}

		logger.Debugf("Closed %s.", s.name)
	}()

	buffer := make([]byte, t.bufferSize)

	for {
		n, err := s.port.Read(buffer)

		// Data that arrives after a close request is discarded.
		if n > 0 && !s.stopping(ctx) {
			data := make([]byte, n)
			copy(data, buffer[:n])

			s.sequence++
			t.handler.HandleChunk(RawDataChunk{
				Sequence: s.sequence,
				Data:     data,
			})
		}

		if err != nil {
			if s.stopping(ctx) {
				logger.Debugf("Ignoring read error while closing: %v", err)
				return
			}

			logger.Errorf("Error while reading %s: %v", s.name, err)

			if t.onError != nil {
				t.onError(fmt.Errorf("%w: %s: %v", ErrReadFailure, s.name, err))
			}

			return
		}

		if s.stopping(ctx) {
			logger.Debugf("Reader task stopped.")
			return
		}
	}
}
