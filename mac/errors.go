package mac

import "errors"

// Protocol errors. Every rejected verification wraps exactly one of these.
var (
	// ErrInvalidAuthHeader is returned when the Authorization header value is
	// absent, malformed, or has an empty required field.
	ErrInvalidAuthHeader = errors.New("mac: invalid authorization header")

	// ErrInvalidTimestamp is returned when the header timestamp falls outside
	// the accepted clock skew window or is not an integer.
	ErrInvalidTimestamp = errors.New("mac: invalid timestamp")

	// ErrInvalidSignature is returned when the recomputed signature does not
	// match the one supplied by the client.
	ErrInvalidSignature = errors.New("mac: invalid signature")
)

// Collaborator errors.
var (
	// ErrUnknownKey is returned when the secret resolver does not know the key
	// identifier carried in the header.
	ErrUnknownKey = errors.New("mac: unknown key identifier")

	// ErrReplayedNonce is returned when the nonce store has already seen the
	// nonce for the key identifier.
	ErrReplayedNonce = errors.New("mac: nonce already used")
)

// Configuration errors.
var (
	// ErrNoResolver is returned when VerifierConfig has no SecretResolver.
	ErrNoResolver = errors.New("mac: secret resolver must not be nil")

	// ErrEmptySecret is returned when signing or verifying with an empty
	// shared secret.
	ErrEmptySecret = errors.New("mac: shared secret must not be empty")

	// ErrUnsupportedAlgorithm is returned for an unknown MAC algorithm name.
	ErrUnsupportedAlgorithm = errors.New("mac: unsupported algorithm")

	// ErrInvalidURL is returned when the URL handed to the generator cannot be
	// decomposed into host, port and request target.
	ErrInvalidURL = errors.New("mac: invalid request url")
)
