package ntrip

import (
	"bufio"
	"strconv"
	"strings"
)

// ResponseHeader is a parsed NTRIP/HTTP response: the status line plus
// whatever headers preceded the blank line that ends it.
type ResponseHeader struct {
	StatusCode int
	StatusText string
	Headers    map[string]string
	Chunked    bool
	RawLines   []string
}

// readResponseHeader reads lines from r until a blank line, mirroring
// getNtripResponceHeader in the original client. The status code is parsed
// by splitting the status line on spaces and taking the second token; if
// that token isn't a valid integer (a caster sending a non-standard status
// line), StatusCode is left at zero rather than treated as a fatal error -
// callers key off StatusCode == 200, and a malformed line reads as "not
// 200" either way.
func readResponseHeader(r *bufio.Reader) (*ResponseHeader, error) {
	header := &ResponseHeader{Headers: map[string]string{}}

	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		header.RawLines = append(header.RawLines, line)

		if header.StatusText == "" && len(header.RawLines) == 1 {
			fields := strings.SplitN(line, " ", 3)
			if len(fields) >= 2 {
				if code, err := strconv.Atoi(fields[1]); err == nil {
					header.StatusCode = code
				}
			}
			if len(fields) == 3 {
				header.StatusText = fields[2]
			}
			continue
		}

		if key, value, ok := strings.Cut(line, ":"); ok {
			key = strings.TrimSpace(key)
			value = strings.TrimSpace(value)
			header.Headers[strings.ToLower(key)] = value
			if strings.ToLower(key) == "transfer-encoding" && strings.Contains(strings.ToLower(value), "chunked") {
				header.Chunked = true
			}
		}
	}

	return header, nil
}
