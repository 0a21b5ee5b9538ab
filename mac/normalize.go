package mac

import (
	"strconv"
	"strings"
)

// NormalizedRequest holds the signable fields of a request. Signer and
// verifier must produce byte-identical String output for a signature to
// validate.
type NormalizedRequest struct {
	Timestamp string
	Nonce     string

	// Method is used exactly as supplied.
	Method string

	// Host is the authority host without port.
	Host string
	Port int

	// RequestURI is the request target as it appears on the wire: path plus
	// optional "?query".
	RequestURI string

	Ext string
}

// String renders the normalized request string: timestamp, nonce, method,
// request URI, host, port and ext, each terminated by a newline.
func (n NormalizedRequest) String() string {
	var b strings.Builder

	for _, line := range [...]string{
		n.Timestamp,
		n.Nonce,
		n.Method,
		n.RequestURI,
		n.Host,
		strconv.Itoa(n.Port),
		n.Ext,
	} {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	return b.String()
}

// NormalizeRequestString builds the normalized request string. The host is
// lowercased; every other field is used as given.
func NormalizeRequestString(timestamp, nonce, method, host string, port int, requestURI, ext string) string {
	return NormalizedRequest{
		Timestamp:  timestamp,
		Nonce:      nonce,
		Method:     method,
		Host:       strings.ToLower(host),
		Port:       port,
		RequestURI: requestURI,
		Ext:        ext,
	}.String()
}
