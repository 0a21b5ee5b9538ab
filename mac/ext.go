package mac

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"io"
	"net/http"
)

// Ext returns the ext digest binding the request content into the signature:
// the lowercase hex SHA-1 of contentType immediately followed by body. When
// either input is empty there is no content to authenticate and Ext returns
// the empty string.
func Ext(contentType string, body []byte) string {
	if contentType == "" || len(body) == 0 {
		return ""
	}

	h := sha1.New()
	io.WriteString(h, contentType)
	h.Write(body)

	return hex.EncodeToString(h.Sum(nil))
}

// ExtFromRequest computes Ext over the Content-Type header and body of r.
// The body is restored so downstream handlers can read it again.
func ExtFromRequest(r *http.Request) (string, error) {
	body, err := readAndRestoreBody(r)
	if err != nil {
		return "", err
	}

	return Ext(r.Header.Get("Content-Type"), body), nil
}

// readAndRestoreBody reads the entire request body and replaces it with a
// new reader so the body can be consumed again.
func readAndRestoreBody(r *http.Request) ([]byte, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}

	r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(body))

	return body, nil
}
