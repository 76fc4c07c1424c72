// Package memory provides in-memory implementations of the ports.
package memory

import (
	"sync"

	"github.com/artpar/denda/domain/catalog"
	"github.com/artpar/denda/domain/penalty"
	"github.com/artpar/denda/ports"
)

// CatalogStore holds the active catalog and policy.
// Replace swaps both atomically so readers never see a mixed pair.
type CatalogStore struct {
	mu      sync.RWMutex
	catalog catalog.Catalog
	policy  penalty.Policy
	version uint64
}

// NewCatalogStore creates a store seeded with a catalog and policy.
func NewCatalogStore(c catalog.Catalog, p penalty.Policy) *CatalogStore {
	return &CatalogStore{catalog: c, policy: p, version: 1}
}

// Snapshot returns the active catalog and policy.
func (s *CatalogStore) Snapshot() (catalog.Catalog, penalty.Policy) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog, s.policy
}

// Replace installs a new catalog and policy.
func (s *CatalogStore) Replace(c catalog.Catalog, p penalty.Policy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog = c
	s.policy = p
	s.version++
}

// Version increments on every Replace.
func (s *CatalogStore) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

var _ ports.CatalogSource = (*CatalogStore)(nil)
