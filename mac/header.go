package mac

import (
	"fmt"
	"regexp"
)

// Scheme is the authentication scheme token of the Authorization header.
const Scheme = "MAC"

// authHeaderPattern mirrors the layout produced by AuthHeader.String.
var authHeaderPattern = regexp.MustCompile(
	`^MAC id="([^"]*)", ts="([^"]*)", nonce="([^"]*)", ext="([^"]*)", mac="([^"]*)"$`,
)

// AuthHeader is the structured value of a MAC Authorization header.
type AuthHeader struct {
	KeyID     string
	Timestamp string
	Nonce     string
	Ext       string
	MAC       string
}

// String renders the header value in wire form:
//
//	MAC id="<id>", ts="<ts>", nonce="<nonce>", ext="<ext>", mac="<mac>"
func (h AuthHeader) String() string {
	return fmt.Sprintf(`%s id="%s", ts="%s", nonce="%s", ext="%s", mac="%s"`,
		Scheme, h.KeyID, h.Timestamp, h.Nonce, h.Ext, h.MAC)
}

// ParseAuthHeader extracts the five MAC parameters from an Authorization
// header value. It fails with ErrInvalidAuthHeader when value is empty, does
// not have the exact shape produced by AuthHeader.String, or has any empty
// field. Only the text is checked; timestamps and signatures are not.
func ParseAuthHeader(value string, logger Logger) (AuthHeader, error) {
	return parseAuthHeader(value, logger, false)
}

// ParseAuthHeaderAllowEmptyExt behaves like ParseAuthHeader but accepts an
// empty ext field, which is what a signer emits for requests without a body.
func ParseAuthHeaderAllowEmptyExt(value string, logger Logger) (AuthHeader, error) {
	return parseAuthHeader(value, logger, true)
}

func parseAuthHeader(value string, logger Logger, allowEmptyExt bool) (AuthHeader, error) {
	logger = loggerOrNop(logger)

	m := authHeaderPattern.FindStringSubmatch(value)
	if m == nil {
		logger.Warnf("invalid format for authorization header %q", value)
		return AuthHeader{}, ErrInvalidAuthHeader
	}

	h := AuthHeader{
		KeyID:     m[1],
		Timestamp: m[2],
		Nonce:     m[3],
		Ext:       m[4],
		MAC:       m[5],
	}

	if h.KeyID == "" || h.Timestamp == "" || h.Nonce == "" || h.MAC == "" ||
		(h.Ext == "" && !allowEmptyExt) {
		logger.Warnf("invalid format for authorization header %q", value)
		return AuthHeader{}, ErrInvalidAuthHeader
	}

	logger.Infof("valid format for authorization header %q", value)

	return h, nil
}
