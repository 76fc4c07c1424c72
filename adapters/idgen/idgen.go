// Package idgen provides quote ID generation.
package idgen

import (
	"strconv"
	"sync/atomic"

	"github.com/artpar/denda/ports"
	"github.com/google/uuid"
)

// QuotePrefix marks identifiers handed out for quotes.
const QuotePrefix = "qt_"

// Quote generates random quote IDs of the form qt_<uuid v4>.
type Quote struct{}

// New generates a new quote ID.
func (Quote) New() string {
	return QuotePrefix + uuid.NewString()
}

var _ ports.IDGenerator = Quote{}

// Counter hands out predictable IDs (for testing).
type Counter struct {
	prefix string
	n      atomic.Uint64
}

// NewCounter creates a counter that yields prefix1, prefix2, ...
func NewCounter(prefix string) *Counter {
	return &Counter{prefix: prefix}
}

// New returns the next ID.
func (c *Counter) New() string {
	return c.prefix + strconv.FormatUint(c.n.Add(1), 10)
}

var _ ports.IDGenerator = (*Counter)(nil)
