package ntrip

import (
	"fmt"
	"time"
)

// ClientName identifies this client in the User-Agent header of every
// request, grounded on the original Python client's __CLIENTNAME constant.
const ClientName = "Bedrock Solutions NtripClient"

// ClientVersion is embedded in the User-Agent header alongside ClientName.
const ClientVersion = "1.0.0"

const ntripVersion2 = "Ntrip/2.0"
const dateLayout = "Mon, 02 Jan 2006 15:04:05 GMT"

func userAgent() string {
	return fmt.Sprintf("NTRIP %s/%s", ClientName, ClientVersion)
}

func formattedDate() string {
	return time.Now().UTC().Format(dateLayout)
}

// buildSourcetableRequest builds the GET / request used to fetch a caster's
// sourcetable.
func buildSourcetableRequest(endpoint CasterEndpoint) []byte {
	req := "GET / HTTP/1.1\r\n" +
		"Host: " + endpoint.URL() + "\r\n" +
		"Ntrip-Version: " + ntripVersion2 + "\r\n" +
		"User-Agent: " + userAgent() + "\r\n" +
		"Date: " + formattedDate() + "\r\n" +
		"Connection: close\r\n" +
		"\r\n"
	return []byte(req)
}

// buildStreamRequest builds the GET /mountpoint request used to subscribe
// to an NTRIP stream. creds may be nil for a caster that allows anonymous
// access; gga, when non-empty, is an NMEA GGA sentence (including its
// trailing CRLF) forwarded so the caster can pick a nearby virtual
// reference station.
func buildStreamRequest(endpoint CasterEndpoint, mountpoint string, creds *Credentials, gga string) []byte {
	req := "GET /" + mountpoint + " HTTP/1.1\r\n" +
		"Host: " + endpoint.URL() + "\r\n" +
		"Ntrip-Version: " + ntripVersion2 + "\r\n" +
		"User-Agent: " + userAgent() + "\r\n"

	if creds != nil && creds.User != "" {
		req += "Authorization: Basic " + creds.basicAuthToken() + "\r\n"
	}
	if gga != "" {
		req += gga
	}

	req += "Date: " + formattedDate() + "\r\n" +
		"Connection: close\r\n" +
		"\r\n"
	return []byte(req)
}

// buildServerRequestV2 builds the NTRIP v2 POST request used to publish a
// stream to a caster (this client acting as a reference station).
func buildServerRequestV2(endpoint CasterEndpoint, mountpoint string, creds Credentials) []byte {
	req := "POST /" + mountpoint + " HTTP/1.1\r\n" +
		"Host: " + endpoint.URL() + "\r\n" +
		"Ntrip-Version: " + ntripVersion2 + "\r\n" +
		"Authorization: Basic " + creds.basicAuthToken() + "\r\n" +
		"User-Agent: " + userAgent() + "\r\n" +
		"Date: " + formattedDate() + "\r\n" +
		"Connection: close\r\n" +
		"\r\n"
	return []byte(req)
}

// buildServerRequestV1 builds the legacy NTRIP v1 SOURCE request: a single
// request line carrying the base64-encoded password, no separate
// Authorization header.
func buildServerRequestV1(mountpoint string, creds Credentials) []byte {
	req := "SOURCE " + creds.passwordToken() + " /" + mountpoint + " HTTP/1.1\r\n" +
		"Source-Agent: " + userAgent() + "\r\n" +
		"\r\n"
	return []byte(req)
}
