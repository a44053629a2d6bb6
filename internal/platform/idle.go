package platform

import (
	"errors"
	"time"
)

// ErrIdleUnsupported indicates idle detection is not available on this
// platform or session type.
var ErrIdleUnsupported = errors.New("idle detection unsupported")

// IdleProvider returns the duration since last user input.
type IdleProvider interface {
	IdleDuration() (time.Duration, error)
}

// NewIdleProvider returns a platform-specific idle provider.
func NewIdleProvider() IdleProvider {
	return newIdleProvider()
}
