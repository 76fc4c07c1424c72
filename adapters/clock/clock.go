// Package clock provides Clock implementations.
package clock

import (
	"time"

	"github.com/artpar/denda/ports"
)

// System reads the wall clock.
type System struct{}

// Now returns the current time.
func (System) Now() time.Time {
	return time.Now()
}

// Frozen always reports the same instant (for testing).
type Frozen time.Time

// Now returns the frozen instant.
func (f Frozen) Now() time.Time {
	return time.Time(f)
}

var (
	_ ports.Clock = System{}
	_ ports.Clock = Frozen{}
)
