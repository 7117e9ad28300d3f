package ntrip

import (
	"fmt"
	"net/url"
	"strconv"
)

// CasterEndpoint identifies an NTRIP caster: the scheme (http or https,
// https meaning "dial over TLS"), host and port.
type CasterEndpoint struct {
	Scheme string
	Host   string
	Port   int
}

// Address returns the host:port pair suitable for net.Dial.
func (e CasterEndpoint) Address() string {
	return fmt.Sprintf("%s:%d", e.Host, e.Port)
}

// URL reconstructs the caster's base URL, used in the request Host header
// exactly as the original client builds it from urllib.parse's geturl().
func (e CasterEndpoint) URL() string {
	return fmt.Sprintf("%s://%s:%d", e.Scheme, e.Host, e.Port)
}

// ParseCasterEndpoint parses a caster URL of the form
// scheme://host[:port], defaulting the port to 2101 (the conventional NTRIP
// caster port) when absent.
func ParseCasterEndpoint(raw string) (*CasterEndpoint, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("ntrip: invalid caster URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("ntrip: unsupported caster URL scheme %q", u.Scheme)
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("ntrip: caster URL %q has no host", raw)
	}

	port := 2101
	if p := u.Port(); p != "" {
		port, err = strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("ntrip: invalid port in caster URL %q: %w", raw, err)
		}
	}

	return &CasterEndpoint{Scheme: u.Scheme, Host: u.Hostname(), Port: port}, nil
}
