package gridconnect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(f *Framer, chunks ...string) []Frame {
	frames := []Frame{}

	for _, chunk := range chunks {
		for frame := range f.Feed([]byte(chunk)) {
			frames = append(frames, frame)
		}
	}

	return frames
}

func TestFeedSingleFrame(t *testing.T) {
	frames := collect(NewFramer(), ":SB020N0D;")

	require.Len(t, frames, 1)
	assert.Equal(t, Frame(":SB020N0D;"), frames[0])
}

func TestFeedFrameAcrossChunks(t *testing.T) {
	frames := collect(NewFramer(), ":SB0", "20N", "0D", ";")

	assert.Equal(t, []Frame{":SB020N0D;"}, frames)
}

func TestFeedMultipleFramesInOneChunk(t *testing.T) {
	frames := collect(NewFramer(), ":SB020N0D;\r\n:SB020N9000010002;")

	assert.Equal(t, []Frame{":SB020N0D;", ":SB020N9000010002;"}, frames)
}

func TestFeedIgnoresNoiseBetweenFrames(t *testing.T) {
	frames := collect(NewFramer(), "xx\x00:SB020N0D;yy")

	assert.Equal(t, []Frame{":SB020N0D;"}, frames)
}

func TestFeedResynchronizesOnStartOfFrame(t *testing.T) {
	f := NewFramer()
	frames := collect(f, ":SB02", ":SB020N0E;")

	assert.Equal(t, []Frame{":SB020N0E;"}, frames)
	assert.Equal(t, 1, f.Discarded())
}

func TestFeedDropsOverlongFrame(t *testing.T) {
	f := NewFramer()
	frames := collect(f, ":S0123456789012345678901234567890123456789;:SB020N0D;")

	assert.Equal(t, []Frame{":SB020N0D;"}, frames)
	assert.Equal(t, 1, f.Discarded())
}

func TestFeedEarlyStopKeepsState(t *testing.T) {
	f := NewFramer()

	for range f.Feed([]byte(":SB020N0D;:SB020N0E;:SB0")) {
		break
	}

	frames := collect(f, "20N0F;")

	assert.Equal(t, []Frame{":SB020N0F;"}, frames)
}
