package mac

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/idna"
)

// DefaultPorts maps URL schemes to the port assumed when a URL has none.
var DefaultPorts = map[string]int{
	"http":  80,
	"https": 443,
}

// Target is the part of a request URL that enters the normalized string.
type Target struct {
	Host       string
	Port       int
	RequestURI string
}

// ParseTarget decomposes rawURL into host, port and request target. The host
// is lowercased and internationalized names are converted to their ASCII
// form. When the URL carries no port, ports (or DefaultPorts when nil) is
// consulted by scheme.
func ParseTarget(rawURL string, ports map[string]int) (Target, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Target{}, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	host, err := canonicalHost(u.Hostname())
	if err != nil {
		return Target{}, err
	}

	port, err := targetPort(u, ports)
	if err != nil {
		return Target{}, err
	}

	return Target{
		Host:       host,
		Port:       port,
		RequestURI: u.RequestURI(),
	}, nil
}

func canonicalHost(host string) (string, error) {
	if host == "" {
		return "", fmt.Errorf("%w: missing host", ErrInvalidURL)
	}

	if !isASCII(host) {
		ascii, err := idna.Lookup.ToASCII(host)
		if err != nil {
			return "", fmt.Errorf("%w: host %q: %v", ErrInvalidURL, host, err)
		}

		host = ascii
	}

	return strings.ToLower(host), nil
}

func targetPort(u *url.URL, ports map[string]int) (int, error) {
	if p := u.Port(); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil || port <= 0 || port > 65535 {
			return 0, fmt.Errorf("%w: port %q", ErrInvalidURL, p)
		}

		return port, nil
	}

	if ports == nil {
		ports = DefaultPorts
	}

	port, ok := ports[strings.ToLower(u.Scheme)]
	if !ok {
		return 0, fmt.Errorf("%w: no default port for scheme %q", ErrInvalidURL, u.Scheme)
	}

	return port, nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}

	return true
}
