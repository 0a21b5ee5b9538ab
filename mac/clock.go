package mac

import "time"

// Clock provides the current time for timestamp generation and validation.
type Clock interface {
	Now() time.Time
}

// SystemClock uses the system time.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time {
	return c.t
}

// FixedClock returns a Clock that always returns t.
func FixedClock(t time.Time) Clock {
	return fixedClock{t: t}
}

func clockOrSystem(c Clock) Clock {
	if c == nil {
		return SystemClock{}
	}

	return c
}
