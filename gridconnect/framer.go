// Package gridconnect splits a GridConnect ASCII byte stream into frames.
//
// A GridConnect frame starts with ':' and ends with ';', for example
// ":SB020N0D;". Bytes outside a frame are ignored.
package gridconnect

import (
	"iter"
)

// Frame delimiters.
const (
	StartOfFrame = ':'
	EndOfFrame   = ';'
)

// MaxFrameLength is the length of the longest frame accepted, including the
// delimiters. An extended frame with eight data bytes is 28 characters.
const MaxFrameLength = 32

// Frame is one complete GridConnect frame, delimiters included.
type Frame string

// Framer turns an ordered byte stream into an ordered sequence of frames. A
// frame may span any number of calls to Feed. A Framer is not safe for
// concurrent use.
type Framer struct {
	buffer  []byte
	inFrame bool

	discarded int
}

// NewFramer returns an initialized Framer.
func NewFramer() *Framer {
	return &Framer{
		buffer: make([]byte, 0, MaxFrameLength),
	}
}

// Feed returns the frames completed by data, in stream order. The sequence
// is lazy: data is consumed while the sequence is ranged over, and must be
// ranged over exactly once. When the consumer stops early, the remaining
// bytes still update the framer state, but their frames are not yielded.
func (f *Framer) Feed(data []byte) iter.Seq[Frame] {
	return func(yield func(Frame) bool) {
		yielding := true

		for _, b := range data {
			frame, ok := f.push(b)

			if !ok || !yielding {
				continue
			}

			yielding = yield(frame)
		}
	}
}

// Discarded returns the number of partial frames dropped so far, either
// because they grew too long or because a new start of frame arrived.
func (f *Framer) Discarded() int {
	return f.discarded
}

// Reset drops any partially received frame.
func (f *Framer) Reset() {
	f.buffer = f.buffer[:0]
	f.inFrame = false
}

func (f *Framer) push(b byte) (Frame, bool) {
	switch {
	case b == StartOfFrame:
		// Resynchronize on every start of frame.
		if f.inFrame {
			f.discarded++
		}

		f.buffer = append(f.buffer[:0], b)
		f.inFrame = true
	case !f.inFrame:
		// Noise between frames.
	case b == EndOfFrame:
		f.buffer = append(f.buffer, b)
		frame := Frame(f.buffer)
		f.Reset()

		return frame, true
	case b == '\r' || b == '\n':
		// Line endings are not part of a frame.
	default:
		f.buffer = append(f.buffer, b)

		if len(f.buffer) >= MaxFrameLength {
			f.discarded++
			f.Reset()
		}
	}

	return "", false
}
