package supervisor

import (
	"bufio"
	"context"
	"errors"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bedrocksolutions/ntripgo/ntrip"
	"github.com/bedrocksolutions/ntripgo/rtcm3"
)

func buildTestFrame(t *testing.T, payload []byte) []byte {
	t.Helper()
	frame, err := rtcm3.EncodeFrame(payload)
	require.NoError(t, err)
	return frame
}

// fakeCaster starts a TCP listener that responds to one GET request with a
// 200 OK and then streams frames, holding the connection open afterwards so
// the test controls when it closes.
func fakeCaster(t *testing.T, frames [][]byte) (addr string, stop func()) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		reader := bufio.NewReader(conn)
		for {
			line, err := reader.ReadString('\n')
			if err != nil || line == "\r\n" {
				break
			}
		}

		conn.Write([]byte("HTTP/1.1 200 OK\r\n\r\n"))
		for _, f := range frames {
			conn.Write(f)
		}
		buf := make([]byte, 1)
		conn.Read(buf)
	}()

	return ln.Addr().String(), func() { ln.Close() }
}

func TestRunStopsCleanlyOnContextCancel(t *testing.T) {
	frame := buildTestFrame(t, buildEmptyMsm7Payload())

	addr, stop := fakeCaster(t, [][]byte{frame})
	defer stop()

	host, portStr, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	var received []string
	s := New(nil, func(mountpoint string, msg *rtcm3.DecodedMessage) {
		received = append(received, mountpoint)
	})

	ctx, cancel := context.WithCancel(context.Background())
	target := Target{
		Endpoint:   ntrip.CasterEndpoint{Scheme: "http", Host: host, Port: port},
		Mountpoint: "MOUNT1",
	}

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, []Target{target}) }()

	require.Eventually(t, func() bool { return len(received) > 0 }, time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}

func TestRunReturnsConnectionRefusedOnInitialDialFailure(t *testing.T) {
	s := New(nil, nil)

	target := Target{
		Endpoint:   ntrip.CasterEndpoint{Scheme: "http", Host: "127.0.0.1", Port: 1}, // nothing listens on port 1
		Mountpoint: "MOUNT1",
	}

	err := s.Run(context.Background(), []Target{target})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrConnectionRefused))
}

// buildEmptyMsm7Payload constructs a minimal, schema-valid MSM7 GPS payload
// (message type 1077) with no satellites and no signals, sufficient for the
// decoder to succeed without needing any cell data: 169 header bits, packed
// big-endian and padded to a whole byte.
func buildEmptyMsm7Payload() []byte {
	fields := []struct {
		value uint64
		width uint
	}{
		{1077, 12}, // message type
		{0, 12},    // station ID
		{0, 30},    // epoch time
		{0, 1},     // multiple message bit
		{0, 3},     // IODS
		{0, 7},     // reserved
		{0, 2},     // clock steering
		{0, 2},     // external clock
		{0, 1},     // divergence free smoothing
		{0, 3},     // smoothing interval
		{0, 64},    // satellite mask: no satellites
		{0, 32},    // signal mask: no signals
	}

	var bitBuf uint64
	var bitCount uint
	var out []byte
	for _, f := range fields {
		bitBuf = (bitBuf << f.width) | (f.value & ((1 << f.width) - 1))
		bitCount += f.width
		for bitCount >= 8 {
			shift := bitCount - 8
			out = append(out, byte(bitBuf>>shift))
			bitCount -= 8
			bitBuf &= (1 << bitCount) - 1
		}
	}
	if bitCount > 0 {
		out = append(out, byte(bitBuf<<(8-bitCount)))
	}
	return out
}
