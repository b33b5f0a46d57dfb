package tap

import (
	"fmt"
)

// RawDataChunk contains the bytes delivered by one completed read.
type RawDataChunk struct {
	// Sequence is the arrival order of the chunk, starting at one
	// for every session.
	Sequence uint64

	// Data holds exactly the bytes read. It must not be modified.
	Data []byte
}

// Hex renders the data as space separated, uppercase hexadecimal bytes,
// e.g. "3A 53 42".
func (c RawDataChunk) Hex() string {
	return fmt.Sprintf("% X", c.Data)
}
