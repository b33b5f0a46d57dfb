// Package cbus decodes CBUS messages carried in GridConnect frames.
package cbus

import (
	"fmt"
	"strings"
)

// Message is a decoded CBUS message.
type Message struct {
	// Extended is set for frames with a 29-bit identifier. CBUS uses these
	// for bootloader traffic only.
	Extended bool

	// Remote is set for remote transmission requests, which carry no data.
	Remote bool

	// Header is the raw CAN identifier.
	Header uint32

	// Priority and CANID are derived from a standard header.
	Priority uint8
	CANID    uint8

	// OpCode is the first data byte as two uppercase hexadecimal digits. It
	// is empty for messages without data.
	OpCode string

	// Data holds all data bytes, the opcode byte included.
	Data []byte
}

// Fields returns the data bytes following the opcode.
func (m Message) Fields() []byte {
	if len(m.Data) < 2 {
		return nil
	}

	return m.Data[1:]
}

// Name returns the mnemonic of the opcode, or an empty string when the
// opcode is unknown.
func (m Message) Name() string {
	if len(m.Data) == 0 {
		return ""
	}

	return opCodes[m.Data[0]].name
}

// String renders the message for humans, e.g. "ACON (90) NN=257 EN=2".
func (m Message) String() string {
	if len(m.Data) == 0 {
		if m.Remote {
			return fmt.Sprintf("RTR CANID=%d", m.CANID)
		}

		return "Empty"
	}

	op, ok := opCodes[m.Data[0]]
	name := op.name

	if !ok {
		name = "Unknown"
	}

	var b strings.Builder

	fmt.Fprintf(&b, "%s (%s)", name, m.OpCode)

	rest := m.Fields()

	for _, f := range op.fields {
		if len(rest) < f.width {
			break
		}

		fmt.Fprintf(&b, " %s=%d", f.name, value(rest[:f.width]))
		rest = rest[f.width:]
	}

	if len(rest) > 0 {
		fmt.Fprintf(&b, " Data=% X", rest)
	}

	return b.String()
}

func value(data []byte) int {
	v := 0

	for _, b := range data {
		v = v<<8 | int(b)
	}

	return v
}

// DataLength returns the number of data bytes following opcode, as encoded
// in its top three bits.
func DataLength(opCode byte) int {
	return int(opCode >> 5)
}
