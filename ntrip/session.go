package ntrip

import (
	"bufio"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net"

	"github.com/google/uuid"

	"github.com/bedrocksolutions/ntripgo/framer"
)

// Session manages one TCP (or TLS) connection to an NTRIP caster: dialing,
// sending the appropriate request for sourcetable/stream/server operation,
// parsing the response header, and handing back a framer.Framer over the
// (possibly chunked) response body. Grounded on the teacher's crypto/tls
// dial pattern in apps/proxy/tcpprox.go and on the request/response shape of
// the original Python client's ntripstreams.py.
type Session struct {
	ID     uuid.UUID
	logger *slog.Logger

	conn   net.Conn
	reader *bufio.Reader
}

// NewSession creates a Session with a fresh correlation ID. logger may be
// nil.
func NewSession(logger *slog.Logger) *Session {
	return &Session{ID: uuid.New(), logger: logger}
}

// Connect dials the caster, using TLS when endpoint.Scheme is "https".
func (s *Session) Connect(ctx context.Context, endpoint CasterEndpoint) error {
	dialer := &net.Dialer{}

	var conn net.Conn
	var err error
	if endpoint.Scheme == "https" {
		tlsDialer := &tls.Dialer{NetDialer: dialer}
		conn, err = tlsDialer.DialContext(ctx, "tcp", endpoint.Address())
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", endpoint.Address())
	}
	if err != nil {
		return &TransportError{Op: "dial " + endpoint.Address(), Err: err}
	}

	s.conn = conn
	s.reader = bufio.NewReader(conn)
	s.log().Debug("connected to caster", "address", endpoint.Address(), "scheme", endpoint.Scheme)
	return nil
}

// Close closes the underlying connection.
func (s *Session) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *Session) log() *slog.Logger {
	if s.logger != nil {
		return s.logger.With("session", s.ID.String())
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (s *Session) send(request []byte) error {
	_, err := s.conn.Write(request)
	if err != nil {
		return &TransportError{Op: "write request", Err: err}
	}
	return nil
}

// RequestSourcetable sends a sourcetable request and returns its body as a
// slice of lines, stopping at the ENDSOURCETABLE terminator.
func (s *Session) RequestSourcetable(endpoint CasterEndpoint) ([]string, error) {
	if err := s.send(buildSourcetableRequest(endpoint)); err != nil {
		return nil, err
	}

	header, err := readResponseHeader(s.reader)
	if err != nil {
		return nil, &TransportError{Op: "read sourcetable response header", Err: err}
	}
	if header.StatusCode != 200 {
		return nil, &ProtocolError{StatusCode: header.StatusCode, Message: "sourcetable request rejected"}
	}

	var lines []string
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			return lines, &TransportError{Op: "read sourcetable body", Err: err}
		}
		trimmed := trimCRLF(line)
		lines = append(lines, trimmed)
		if trimmed == "ENDSOURCETABLE" {
			break
		}
	}
	return lines, nil
}

// RequestNtripStream sends a GET request for mountpoint and, on a 200
// response, returns a framer.Framer ready to yield RTCM3 frames from the
// response body. creds may be nil for anonymous access; gga, when non-empty,
// is forwarded as an NMEA GGA line (with trailing CRLF already applied by
// the caller).
func (s *Session) RequestNtripStream(endpoint CasterEndpoint, mountpoint string, creds *Credentials, gga string) (*framer.Framer, error) {
	if err := s.send(buildStreamRequest(endpoint, mountpoint, creds, gga)); err != nil {
		return nil, err
	}

	header, err := readResponseHeader(s.reader)
	if err != nil {
		return nil, &TransportError{Op: "read stream response header", Err: err}
	}
	if header.StatusCode != 200 {
		return nil, &ProtocolError{StatusCode: header.StatusCode, Message: fmt.Sprintf("stream request for %q rejected", mountpoint)}
	}

	var body io.Reader = s.reader
	if header.Chunked {
		body = framer.NewChunkReader(s.reader)
	}
	return framer.New(body, s.logger), nil
}

// RequestNtripServer publishes this client as a reference station on
// mountpoint. ntripVersion selects the v1 SOURCE-line form or the v2 POST
// form; both require credentials.
func (s *Session) RequestNtripServer(endpoint CasterEndpoint, mountpoint string, creds Credentials, ntripVersion int) error {
	var request []byte
	if ntripVersion == 1 {
		request = buildServerRequestV1(mountpoint, creds)
	} else {
		request = buildServerRequestV2(endpoint, mountpoint, creds)
	}
	if err := s.send(request); err != nil {
		return err
	}

	header, err := readResponseHeader(s.reader)
	if err != nil {
		return &TransportError{Op: "read server response header", Err: err}
	}
	if ntripVersion == 2 && header.StatusCode != 200 {
		return &ProtocolError{StatusCode: header.StatusCode, Message: fmt.Sprintf("server request for %q rejected", mountpoint)}
	}
	return nil
}

// SendFrame writes a complete, already-CRC-sealed RTCM3 frame to the
// connection, used by a server-mode session forwarding observations to a
// caster.
func (s *Session) SendFrame(frame []byte) error {
	return s.send(frame)
}

func trimCRLF(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}
