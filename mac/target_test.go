package mac

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTarget(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want Target
	}{
		{"explicit port", "http://HOST:8008/PATH", Target{Host: "host", Port: 8008, RequestURI: "/PATH"}},
		{"http default port", "http://example.com/a", Target{Host: "example.com", Port: 80, RequestURI: "/a"}},
		{"https default port", "https://example.com/a", Target{Host: "example.com", Port: 443, RequestURI: "/a"}},
		{"query kept", "https://example.com/a?b=c&d", Target{Host: "example.com", Port: 443, RequestURI: "/a?b=c&d"}},
		{"empty path", "https://example.com", Target{Host: "example.com", Port: 443, RequestURI: "/"}},
		{"escaped path", "http://example.com/a%20b", Target{Host: "example.com", Port: 80, RequestURI: "/a%20b"}},
		{"ipv6 literal", "http://[::1]:9000/x", Target{Host: "::1", Port: 9000, RequestURI: "/x"}},
		{"internationalized host", "http://bücher.example/", Target{Host: "xn--bcher-kva.example", Port: 80, RequestURI: "/"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTarget(tt.url, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("custom default ports", func(t *testing.T) {
		got, err := ParseTarget("ws://example.com/socket", map[string]int{"ws": 8080})
		require.NoError(t, err)
		assert.Equal(t, 8080, got.Port)
	})

	invalid := map[string]string{
		"missing host":   "/relative/path",
		"unknown scheme": "ftp://example.com/file",
		"bad port":       "http://example.com:99999/",
		"unparsable":     "http://[::1/",
	}

	for name, raw := range invalid {
		t.Run(name, func(t *testing.T) {
			_, err := ParseTarget(raw, nil)
			assert.ErrorIs(t, err, ErrInvalidURL)
		})
	}
}
