package mac

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultMaxSkew is the clock skew tolerated in either direction when
// TimestampValidator.MaxSkew is zero.
const DefaultMaxSkew = 300 * time.Second

// TimestampValidator accepts or rejects request timestamps based on their
// distance from the validator's clock.
type TimestampValidator struct {
	// MaxSkew is applied symmetrically to past and future timestamps.
	// Defaults to DefaultMaxSkew.
	MaxSkew time.Duration

	// Clock defaults to SystemClock.
	Clock Clock

	// Logger defaults to a no-op logger.
	Logger Logger
}

// Validate parses ts as decimal seconds since the epoch and validates it.
func (v TimestampValidator) Validate(ts string) error {
	n, err := strconv.ParseInt(strings.TrimSpace(ts), 10, 64)
	if err != nil {
		loggerOrNop(v.Logger).Warnf("rejecting malformed timestamp %q", ts)
		return fmt.Errorf("%w: %q is not an integer", ErrInvalidTimestamp, ts)
	}

	return v.ValidateUnix(n)
}

// ValidateUnix validates ts, given in seconds since the epoch.
func (v TimestampValidator) ValidateUnix(ts int64) error {
	maxSkew := int64(v.maxSkew() / time.Second)
	logger := loggerOrNop(v.Logger)
	delta := ts - clockOrSystem(v.Clock).Now().Unix()

	switch {
	case delta > maxSkew:
		logger.Warnf("rejecting timestamp %ds in the future", delta)
		return fmt.Errorf("%w: %ds in the future", ErrInvalidTimestamp, delta)
	case delta < -maxSkew:
		logger.Warnf("rejecting timestamp %ds in the past", -delta)
		return fmt.Errorf("%w: %ds in the past", ErrInvalidTimestamp, -delta)
	case delta > 0:
		logger.Infof("accepting timestamp %ds in the future", delta)
	}

	return nil
}

func (v TimestampValidator) maxSkew() time.Duration {
	if v.MaxSkew <= 0 {
		return DefaultMaxSkew
	}

	return v.MaxSkew
}
