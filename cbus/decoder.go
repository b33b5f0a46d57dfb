package cbus

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/basilfx/go-cbus-tap/gridconnect"
)

// Decode errors. Each concerns a single frame only.
var (
	ErrMalformedFrame = errors.New("malformed frame")
	ErrTruncated      = errors.New("truncated message")
)

// Decoder decodes GridConnect frames into CBUS messages.
type Decoder struct{}

// Decode a single frame, e.g. ":SB020N9000010002;".
func (Decoder) Decode(frame gridconnect.Frame) (Message, error) {
	s := string(frame)

	if len(s) < 2 || s[0] != gridconnect.StartOfFrame || s[len(s)-1] != gridconnect.EndOfFrame {
		return Message{}, fmt.Errorf("%w: missing delimiters in %q", ErrMalformedFrame, s)
	}

	body := s[1 : len(s)-1]
	message := Message{}

	var headerLength int

	switch {
	case strings.HasPrefix(body, "S"):
		headerLength = 4
	case strings.HasPrefix(body, "X"):
		headerLength = 8
		message.Extended = true
	default:
		return Message{}, fmt.Errorf("%w: unknown frame type in %q", ErrMalformedFrame, s)
	}

	if len(body) < 2+headerLength {
		return Message{}, fmt.Errorf("%w: short header in %q", ErrMalformedFrame, s)
	}

	header, err := strconv.ParseUint(body[1:1+headerLength], 16, 32)

	if err != nil {
		return Message{}, fmt.Errorf("%w: invalid header in %q", ErrMalformedFrame, s)
	}

	message.Header = uint32(header)

	if !message.Extended {
		id := message.Header >> 5
		message.Priority = uint8(id >> 7)
		message.CANID = uint8(id & 0x7F)
	}

	switch body[1+headerLength] {
	case 'N':
	case 'R':
		message.Remote = true
	default:
		return Message{}, fmt.Errorf("%w: unknown frame kind in %q", ErrMalformedFrame, s)
	}

	payload := body[2+headerLength:]

	if len(payload) > 16 || len(payload)%2 != 0 {
		return Message{}, fmt.Errorf("%w: invalid data length in %q", ErrMalformedFrame, s)
	}

	data, err := hex.DecodeString(payload)

	if err != nil {
		return Message{}, fmt.Errorf("%w: invalid data in %q", ErrMalformedFrame, s)
	}

	message.Data = data

	if len(data) == 0 {
		return message, nil
	}

	message.OpCode = fmt.Sprintf("%02X", data[0])

	// Bootloader traffic does not follow the opcode length encoding.
	if !message.Extended && len(data)-1 < DataLength(data[0]) {
		return Message{}, fmt.Errorf("%w: %s expects %d data bytes, got %d", ErrTruncated, message.OpCode, DataLength(data[0]), len(data)-1)
	}

	return message, nil
}
