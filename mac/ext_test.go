package mac

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExt(t *testing.T) {
	t.Run("missing content is empty", func(t *testing.T) {
		tests := []struct {
			name        string
			contentType string
			body        []byte
		}{
			{"both nil", "", nil},
			{"both empty", "", []byte{}},
			{"body nil", "dave was here", nil},
			{"body empty", "dave was here", []byte{}},
			{"content type empty", "", []byte("dave was here")},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				assert.Equal(t, "", Ext(tt.contentType, tt.body))
			})
		}
	})

	t.Run("sha1 hex of content type followed by body", func(t *testing.T) {
		ext := Ext("hello world!", []byte("dave was here"))
		assert.Equal(t, "9085e0e458d106c2bf46c1f1355d6236c7fe9330", ext)
	})

	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, Ext("text/plain", []byte("x")), Ext("text/plain", []byte("x")))
	})

	t.Run("concatenation has no separator", func(t *testing.T) {
		assert.Equal(t, Ext("ab", []byte("c")), Ext("a", []byte("bc")))
		assert.NotEqual(t, Ext("ab", []byte("c")), Ext("ab", []byte(" c")))
	})
}

func TestExtFromRequest(t *testing.T) {
	t.Run("uses content type header and restores body", func(t *testing.T) {
		body := `{"amount":10}`
		req := httptest.NewRequest("POST", "https://example.com/", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		ext, err := ExtFromRequest(req)
		require.NoError(t, err)
		assert.Equal(t, "6e502d90570b309249ec554778457fe9bc75be7e", ext)

		rest, err := io.ReadAll(req.Body)
		require.NoError(t, err)
		assert.Equal(t, body, string(rest))
	})

	t.Run("request without body", func(t *testing.T) {
		req := httptest.NewRequest("GET", "https://example.com/", nil)
		req.Header.Set("Content-Type", "application/json")

		ext, err := ExtFromRequest(req)
		require.NoError(t, err)
		assert.Equal(t, "", ext)
	})
}
