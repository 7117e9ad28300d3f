package framer

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ChunkReader unwraps HTTP/1.1 chunked transfer encoding, the framing an
// NTRIP v2 caster normally uses for its stream response. It is placed in
// front of a Framer so the Framer only ever sees raw RTCM3 bytes.
//
// Each chunk is read as exactly size+2 bytes (the chunk data followed by its
// trailing CRLF) and the CRLF is asserted rather than treated as a line
// terminator to split on - an RTCM3 payload routinely contains the byte
// values that make up "\r\n", so scanning for them within a chunk would
// misparse real data.
type ChunkReader struct {
	br        *bufio.Reader
	remaining int
	done      bool
}

// NewChunkReader wraps r, which must yield HTTP/1.1 chunked transfer
// encoded data.
func NewChunkReader(r io.Reader) *ChunkReader {
	return &ChunkReader{br: bufio.NewReader(r)}
}

// Read implements io.Reader, returning de-chunked bytes.
func (c *ChunkReader) Read(p []byte) (int, error) {
	if c.done {
		return 0, io.EOF
	}

	if c.remaining == 0 {
		size, err := c.readChunkSize()
		if err != nil {
			return 0, err
		}
		if size == 0 {
			if err := c.consumeTrailer(); err != nil {
				return 0, err
			}
			c.done = true
			return 0, io.EOF
		}
		c.remaining = size
	}

	want := len(p)
	if want > c.remaining {
		want = c.remaining
	}
	n, err := c.br.Read(p[:want])
	c.remaining -= n
	if err != nil {
		return n, err
	}

	if c.remaining == 0 {
		if _, err := c.discardCRLF(); err != nil {
			return n, err
		}
	}
	return n, nil
}

// readChunkSize reads a chunk-size line (hex digits, optionally followed by
// ";chunk-extension", terminated by CRLF) and returns the size.
func (c *ChunkReader) readChunkSize() (int, error) {
	line, err := c.br.ReadString('\n')
	if err != nil {
		return 0, err
	}
	line = strings.TrimRight(line, "\r\n")
	if idx := strings.IndexByte(line, ';'); idx >= 0 {
		line = line[:idx]
	}
	line = strings.TrimSpace(line)
	size, err := strconv.ParseInt(line, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("framer: invalid chunk size line %q: %w", line, err)
	}
	return int(size), nil
}

// consumeTrailer reads any trailer headers after the terminating zero-size
// chunk, up to and including the final blank line.
func (c *ChunkReader) consumeTrailer() error {
	for {
		line, err := c.br.ReadString('\n')
		if err != nil {
			return err
		}
		if strings.TrimRight(line, "\r\n") == "" {
			return nil
		}
	}
}

func (c *ChunkReader) discardCRLF() (int, error) {
	var crlf [2]byte
	n, err := io.ReadFull(c.br, crlf[:])
	if err != nil {
		return n, err
	}
	if crlf[0] != '\r' || crlf[1] != '\n' {
		return n, fmt.Errorf("framer: chunk data not followed by CRLF, got %q", crlf[:])
	}
	return n, nil
}
