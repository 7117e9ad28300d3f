package framer

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bedrocksolutions/ntripgo/crc24q"
)

func buildFrame(payload []byte) []byte {
	frame := make([]byte, 0, 3+len(payload)+3)
	frame = append(frame, 0xD3, byte(len(payload)>>8)&0x03, byte(len(payload)))
	frame = append(frame, payload...)
	crc := crc24q.CRC24Q(frame)
	frame = append(frame, byte(crc>>16), byte(crc>>8), byte(crc))
	return frame
}

func TestNextFrameReadsValidFrame(t *testing.T) {
	payload := []byte{0x3F, 0xD0, 0x01, 0x02, 0x03}
	frame := buildFrame(payload)

	f := New(bytes.NewReader(frame), nil)
	got, err := f.NextFrame()
	require.NoError(t, err)
	require.Equal(t, frame, got)
	require.Equal(t, StateAligned, f.State())
}

func TestNextFrameSkipsLeadingNoise(t *testing.T) {
	payload := []byte{0x01, 0x02}
	frame := buildFrame(payload)
	stream := append([]byte("$GPGGA,noise*00\r\n"), frame...)

	f := New(bytes.NewReader(stream), nil)
	got, err := f.NextFrame()
	require.NoError(t, err)
	require.Equal(t, frame, got)
}

func TestNextFrameResyncsAfterCrcMismatch(t *testing.T) {
	payload := []byte{0xAA, 0xBB, 0xCC}
	goodFrame := buildFrame(payload)

	corrupt := buildFrame(payload)
	corrupt[len(corrupt)-1] ^= 0xFF // corrupt the trailing CRC byte

	stream := append(append([]byte{}, corrupt...), goodFrame...)

	f := New(bytes.NewReader(stream), nil)
	got, err := f.NextFrame()
	require.NoError(t, err)
	require.Equal(t, goodFrame, got)
}

func TestNextFramePreambleInsidePayload(t *testing.T) {
	// A payload that itself contains a 0xD3 byte must not be misread as a
	// second frame start.
	payload := []byte{0xD3, 0x00, 0x01, 0x02}
	frame := buildFrame(payload)

	f := New(bytes.NewReader(frame), nil)
	got, err := f.NextFrame()
	require.NoError(t, err)
	require.Equal(t, frame, got)
}

// oneByteReader forces NextFrame's caller-visible behaviour to be
// independent of how the underlying reader chooses to chunk its Read calls.
type oneByteReader struct {
	data []byte
	pos  int
}

func (r *oneByteReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	p[0] = r.data[r.pos]
	r.pos++
	return 1, nil
}

func TestNextFrameIdempotentUnderByteAtATimeFeed(t *testing.T) {
	frame1 := buildFrame([]byte{0x01, 0x02, 0x03})
	frame2 := buildFrame([]byte{0x04, 0x05})
	stream := append(append([]byte{}, frame1...), frame2...)

	bulk := New(bytes.NewReader(stream), nil)
	b1, err := bulk.NextFrame()
	require.NoError(t, err)
	b2, err := bulk.NextFrame()
	require.NoError(t, err)

	trickle := New(&oneByteReader{data: stream}, nil)
	t1, err := trickle.NextFrame()
	require.NoError(t, err)
	t2, err := trickle.NextFrame()
	require.NoError(t, err)

	require.Equal(t, b1, t1)
	require.Equal(t, b2, t2)
}

func TestNextFrameReturnsEOFAtStreamEnd(t *testing.T) {
	f := New(bytes.NewReader(nil), nil)
	_, err := f.NextFrame()
	require.ErrorIs(t, err, io.EOF)
}
