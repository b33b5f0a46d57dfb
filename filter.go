package tap

import (
	"strings"
	"sync/atomic"
)

// Layer identifies a stage of the pipeline.
type Layer int

// The layers, from the wire up.
const (
	LayerSerial Layer = iota
	LayerFrame
	LayerMessage
)

func (l Layer) String() string {
	switch l {
	case LayerSerial:
		return "serial"
	case LayerFrame:
		return "frame"
	case LayerMessage:
		return "message"
	default:
		return "unknown"
	}
}

// FilterConfiguration decides what the logging stages log. It is written
// during startup only: Freeze is called when the pipeline is built, after
// which every setter fails with ErrConfigurationFrozen and the getters may
// be used from any goroutine.
type FilterConfiguration struct {
	logSerial  bool
	logFrame   bool
	logMessage bool

	opCodes    map[string]struct{}
	portNumber int

	frozen atomic.Bool
}

// NewFilterConfiguration returns a configuration that logs every layer and
// every opcode, for port number one.
func NewFilterConfiguration() *FilterConfiguration {
	return &FilterConfiguration{
		logSerial:  true,
		logFrame:   true,
		logMessage: true,
		opCodes:    map[string]struct{}{},
		portNumber: 1,
	}
}

// SetLogging enables or disables logging of a layer.
func (f *FilterConfiguration) SetLogging(layer Layer, enabled bool) error {
	if f.frozen.Load() {
		return ErrConfigurationFrozen
	}

	switch layer {
	case LayerSerial:
		f.logSerial = enabled
	case LayerFrame:
		f.logFrame = enabled
	case LayerMessage:
		f.logMessage = enabled
	}

	return nil
}

// AddOpCode adds an opcode to the allow-list. Empty codes are ignored.
func (f *FilterConfiguration) AddOpCode(code string) error {
	if f.frozen.Load() {
		return ErrConfigurationFrozen
	}

	if code = normalizeOpCode(code); code != "" {
		f.opCodes[code] = struct{}{}
	}

	return nil
}

// SetPortNumber sets the target port number.
func (f *FilterConfiguration) SetPortNumber(number int) error {
	if f.frozen.Load() {
		return ErrConfigurationFrozen
	}

	f.portNumber = number

	return nil
}

// Freeze makes the configuration read-only.
func (f *FilterConfiguration) Freeze() {
	f.frozen.Store(true)
}

// Frozen reports whether Freeze was called.
func (f *FilterConfiguration) Frozen() bool {
	return f.frozen.Load()
}

// LogSerial reports whether raw data is logged.
func (f *FilterConfiguration) LogSerial() bool { return f.logSerial }

// LogFrame reports whether frames are logged.
func (f *FilterConfiguration) LogFrame() bool { return f.logFrame }

// LogMessage reports whether messages are logged.
func (f *FilterConfiguration) LogMessage() bool { return f.logMessage }

// PortNumber returns the target port number.
func (f *FilterConfiguration) PortNumber() int { return f.portNumber }

// OpCodes returns the allow-list, uppercased, in no particular order.
func (f *FilterConfiguration) OpCodes() []string {
	codes := make([]string, 0, len(f.opCodes))

	for code := range f.opCodes {
		codes = append(codes, code)
	}

	return codes
}

// Includes reports whether messages with opCode pass the allow-list: the
// list is empty, or contains opCode ignoring case.
func (f *FilterConfiguration) Includes(opCode string) bool {
	if len(f.opCodes) == 0 {
		return true
	}

	_, ok := f.opCodes[normalizeOpCode(opCode)]

	return ok
}

func normalizeOpCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
