// Package ports defines interfaces (contracts) between layers.
// These interfaces enable dependency injection and testability.
// Implementations live in adapters/.
package ports

import (
	"time"

	"github.com/artpar/denda/domain/catalog"
	"github.com/artpar/denda/domain/penalty"
)

// -----------------------------------------------------------------------------
// Infrastructure Ports
// -----------------------------------------------------------------------------

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

// IDGenerator generates unique identifiers.
type IDGenerator interface {
	New() string
}

// -----------------------------------------------------------------------------
// Reference Data Ports
// -----------------------------------------------------------------------------

// CatalogSource provides the active reference tables and penalty policy.
// Implementations must return a consistent pair: a catalog and the policy
// that was configured alongside it.
type CatalogSource interface {
	Snapshot() (catalog.Catalog, penalty.Policy)
}

// -----------------------------------------------------------------------------
// Observability Ports
// -----------------------------------------------------------------------------

// QuoteRecorder records computed quotes for monitoring.
type QuoteRecorder interface {
	RecordQuote(appID, packageID string, result penalty.Result)
}
