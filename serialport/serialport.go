// Package serialport opens and enumerates operating system serial ports.
package serialport

import (
	"errors"
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"
)

// Errors returned when opening a port.
var (
	ErrPortUnavailable = errors.New("port unavailable")
	ErrInvalidConfig   = errors.New("invalid port configuration")
)

// Default transport parameters.
const (
	DefaultBaudRate    = 115200
	DefaultDataBits    = 8
	DefaultStopBits    = serial.OneStopBit
	DefaultParity      = serial.NoParity
	DefaultReadTimeout = 250 * time.Millisecond
)

// Config describes how to open a port.
type Config struct {
	Name     string
	BaudRate int
	DataBits int
	StopBits serial.StopBits
	Parity   serial.Parity

	// ReadTimeout bounds a single read. A read that times out returns zero
	// bytes and no error. Zero blocks until data arrives.
	ReadTimeout time.Duration
}

// DefaultConfig returns the fixed 115200 8N1 configuration for a port.
func DefaultConfig(name string) Config {
	return Config{
		Name:        name,
		BaudRate:    DefaultBaudRate,
		DataBits:    DefaultDataBits,
		StopBits:    DefaultStopBits,
		Parity:      DefaultParity,
		ReadTimeout: DefaultReadTimeout,
	}
}

// Validate checks the parameters without touching the device.
func (c Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: missing port name", ErrInvalidConfig)
	}

	if c.BaudRate <= 0 {
		return fmt.Errorf("%w: baud rate %d", ErrInvalidConfig, c.BaudRate)
	}

	if c.DataBits < 5 || c.DataBits > 8 {
		return fmt.Errorf("%w: data bits %d", ErrInvalidConfig, c.DataBits)
	}

	switch c.StopBits {
	case serial.OneStopBit, serial.OnePointFiveStopBits, serial.TwoStopBits:
	default:
		return fmt.Errorf("%w: stop bits %d", ErrInvalidConfig, c.StopBits)
	}

	switch c.Parity {
	case serial.NoParity, serial.OddParity, serial.EvenParity, serial.MarkParity, serial.SpaceParity:
	default:
		return fmt.Errorf("%w: parity %d", ErrInvalidConfig, c.Parity)
	}

	if c.ReadTimeout < 0 {
		return fmt.Errorf("%w: read timeout %s", ErrInvalidConfig, c.ReadTimeout)
	}

	return nil
}

// Port is an open serial device as far as an observer needs it.
type Port interface {
	io.ReadCloser
}

// Driver opens and enumerates ports.
type Driver interface {
	Open(cfg Config) (Port, error)
	Ports() ([]string, error)
}

// SystemDriver is the Driver for the serial ports of this machine.
type SystemDriver struct{}

// Open the port described by cfg. There is no retry.
func (SystemDriver) Open(cfg Config) (Port, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	port, err := serial.Open(cfg.Name, &serial.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: cfg.DataBits,
		StopBits: cfg.StopBits,
		Parity:   cfg.Parity,
	})

	if err != nil {
		return nil, classify(cfg.Name, err)
	}

	if cfg.ReadTimeout > 0 {
		if err := port.SetReadTimeout(cfg.ReadTimeout); err != nil {
			port.Close()

			return nil, classify(cfg.Name, err)
		}
	}

	return port, nil
}

// Ports returns the names of the serial ports present on this machine.
func (SystemDriver) Ports() ([]string, error) {
	ports, err := serial.GetPortsList()

	if err != nil {
		return nil, fmt.Errorf("enumerate ports: %w", err)
	}

	return ports, nil
}

func classify(name string, err error) error {
	var portErr *serial.PortError

	if errors.As(err, &portErr) {
		switch portErr.Code() {
		case serial.InvalidSpeed, serial.InvalidDataBits, serial.InvalidParity, serial.InvalidStopBits, serial.InvalidTimeoutValue:
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, name, err)
		}
	}

	return fmt.Errorf("%w: %s: %v", ErrPortUnavailable, name, err)
}
