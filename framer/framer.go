// Package framer turns a byte stream that may interleave RTCM3 frames with
// other data (NMEA sentences, partial frames, transient corruption) into a
// clean sequence of validated RTCM3 frames. It owns the preamble hunt and
// CRC-24Q verification; the caller is handed only complete, CRC-valid
// frames.
//
// Grounded on the preamble-hunt / push-back-on-mismatch shape of
// rtcm/handler.ReadNextRTCM3MessageFrame, restructured around an internal
// byte buffer (instead of a bufio.Reader eat-loop) so that a CRC failure can
// resynchronize by sliding the search window forward one byte rather than
// discarding the whole candidate frame.
package framer

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/bedrocksolutions/ntripgo/crc24q"
)

// State is the framer's position in the preamble-hunt/length/CRC state
// machine, exposed for observability and tests.
type State int

const (
	StateSearching State = iota
	StatePreambleSeen
	StateLengthKnown
	StateAligned
	StateCrcFail
)

func (s State) String() string {
	switch s {
	case StateSearching:
		return "SEARCHING"
	case StatePreambleSeen:
		return "PREAMBLE_SEEN"
	case StateLengthKnown:
		return "LENGTH_KNOWN"
	case StateAligned:
		return "ALIGNED"
	case StateCrcFail:
		return "CRC_FAIL"
	default:
		return "UNKNOWN"
	}
}

const preamble byte = 0xD3
const leaderBytes = 3
const crcBytes = 3

// ErrCrcMismatch is logged, not returned: a CRC failure triggers a one-byte
// resync and the hunt continues transparently from NextFrame's point of
// view. It is exported so callers that want visibility into resync events
// can match on it via a logger hook rather than an error return.
var ErrCrcMismatch = errors.New("framer: CRC-24Q mismatch")

// Framer reads bytes from an underlying stream and yields complete, CRC
// valid RTCM3 frames (leader, payload and trailing CRC) one at a time.
type Framer struct {
	r      io.Reader
	buf    []byte
	logger *slog.Logger
	state  State
}

// New creates a Framer reading from r. logger may be nil, in which case
// framing noise (false preambles, CRC mismatches) is not logged.
func New(r io.Reader, logger *slog.Logger) *Framer {
	return &Framer{r: r, logger: logger}
}

// State returns the framer's current state, chiefly useful for tests.
func (f *Framer) State() State {
	return f.state
}

// NextFrame blocks until it can return one complete, CRC-valid RTCM3 frame,
// or the underlying reader returns an error (including io.EOF). Bytes that
// precede a valid frame - non-RTCM noise, a false 0xD3, or a frame whose CRC
// fails to verify - are discarded a byte at a time (a CRC failure is logged
// as a warning); they are never returned as an error because
// resynchronization is part of the contract, not a failure of it.
func (f *Framer) NextFrame() ([]byte, error) {
	for {
		if err := f.fill(1); err != nil {
			return nil, err
		}
		for f.buf[0] != preamble {
			f.state = StateSearching
			f.buf = f.buf[1:]
			if err := f.fill(1); err != nil {
				return nil, err
			}
		}
		f.state = StatePreambleSeen

		if err := f.fill(leaderBytes); err != nil {
			return nil, err
		}
		if f.buf[1]&0xFC != 0 {
			// The six bits after the preamble byte must be zero; they
			// aren't, so 0xD3 was just a data byte. Slip past it and keep
			// hunting.
			f.buf = f.buf[1:]
			continue
		}

		length := int(f.buf[1]&0x03)<<8 | int(f.buf[2])
		f.state = StateLengthKnown

		total := leaderBytes + length + crcBytes
		if err := f.fill(total); err != nil {
			return nil, err
		}

		payload := f.buf[:leaderBytes+length]
		want := crc24q.CRC24Q(payload)
		got := uint32(f.buf[leaderBytes+length])<<16 |
			uint32(f.buf[leaderBytes+length+1])<<8 |
			uint32(f.buf[leaderBytes+length+2])

		if want != got {
			f.state = StateCrcFail
			if f.logger != nil {
				f.logger.Warn("rtcm3 frame failed CRC check, resynchronizing",
					"error", ErrCrcMismatch,
					"expectedCRC", fmt.Sprintf("%06x", want),
					"gotCRC", fmt.Sprintf("%06x", got),
					"candidateLength", length)
			}
			f.buf = f.buf[1:]
			continue
		}

		f.state = StateAligned
		frame := make([]byte, total)
		copy(frame, f.buf[:total])
		f.buf = f.buf[total:]
		return frame, nil
	}
}

// fill ensures at least n bytes are buffered, reading from the underlying
// reader as needed.
func (f *Framer) fill(n int) error {
	for len(f.buf) < n {
		chunk := make([]byte, 4096)
		read, err := f.r.Read(chunk)
		if read > 0 {
			f.buf = append(f.buf, chunk[:read]...)
		}
		if err != nil {
			if len(f.buf) >= n {
				return nil
			}
			return err
		}
	}
	return nil
}
