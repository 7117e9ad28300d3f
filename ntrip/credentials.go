package ntrip

import "encoding/base64"

// Credentials holds the username and password sent to a caster: as HTTP
// Basic authentication for stream requests and NTRIP v2 server requests, and
// as the base64 password alone on an NTRIP v1 SOURCE line.
type Credentials struct {
	User     string
	Password string
}

// basicAuthToken returns the base64-encoded "user:password" token used in
// an Authorization: Basic header.
func (c Credentials) basicAuthToken() string {
	return base64.StdEncoding.EncodeToString([]byte(c.User + ":" + c.Password))
}

// passwordToken returns the base64 encoding of the password alone, the form
// an NTRIP v1 SOURCE request line carries instead of a Basic auth header.
func (c Credentials) passwordToken() string {
	return base64.StdEncoding.EncodeToString([]byte(c.Password))
}
