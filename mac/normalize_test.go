package mac

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRequestString(t *testing.T) {
	t.Run("draft-ietf-oauth-v2-http-mac-02 section 3.2.1 example", func(t *testing.T) {
		actual := NormalizeRequestString(
			"264095",
			"7d8f3e4a",
			"POST",
			"example.com",
			80,
			"/request?b5=%3D%253D&a3=a&c%40=&a2=r%20b&c2&a3=2+q",
			"a,b,c",
		)

		expected := "264095\n" +
			"7d8f3e4a\n" +
			"POST\n" +
			"/request?b5=%3D%253D&a3=a&c%40=&a2=r%20b&c2&a3=2+q\n" +
			"example.com\n" +
			"80\n" +
			"a,b,c\n"

		assert.Equal(t, expected, actual)
	})

	t.Run("empty ext still terminates with newline", func(t *testing.T) {
		actual := NormalizeRequestString("1", "n", "GET", "example.com", 443, "/", "")
		assert.True(t, strings.HasSuffix(actual, "443\n\n"))
		assert.Equal(t, 7, strings.Count(actual, "\n"))
	})

	t.Run("host is lowercased and method is not", func(t *testing.T) {
		actual := NormalizeRequestString("1", "n", "get", "EXAMPLE.com", 80, "/", "")
		assert.Equal(t, "1\nn\nget\n/\nexample.com\n80\n\n", actual)
	})
}

func TestNormalizedRequestString(t *testing.T) {
	n := NormalizedRequest{
		Timestamp:  "42",
		Nonce:      "NONCE",
		Method:     "PUT",
		Host:       "host",
		Port:       8008,
		RequestURI: "/path?q",
		Ext:        "EXT",
	}

	assert.Equal(t, "42\nNONCE\nPUT\n/path?q\nhost\n8008\nEXT\n", n.String())
}
