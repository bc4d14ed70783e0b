// Package identity issues collision-resistant identifiers for categories
// and items, and supplies the current time to components that derive
// time-based state.
package identity

import (
	"time"

	"github.com/google/uuid"
)

// NewID returns a fresh identifier unique across the whole document.
func NewID() string {
	return uuid.NewString()
}

// Clock abstracts the current instant so derived-status computation and
// timers can be tested against synthetic times.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock.
type SystemClock struct{}

// Now returns the current local time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock always reports the same instant. Test helper.
type FixedClock struct {
	Instant time.Time
}

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time {
	return c.Instant
}
