package memory_test

import (
	"sync"
	"testing"

	"github.com/artpar/denda/adapters/memory"
	"github.com/artpar/denda/domain/catalog"
	"github.com/artpar/denda/domain/penalty"
)

func TestCatalogStore_Snapshot(t *testing.T) {
	s := memory.NewCatalogStore(catalog.Default(), penalty.DefaultPolicy())

	c, p := s.Snapshot()
	if len(c.Packages) != 3 {
		t.Errorf("expected 3 packages, got %d", len(c.Packages))
	}
	if p.Mode != penalty.ModeApplication {
		t.Errorf("mode = %s, want application", p.Mode)
	}
	if s.Version() != 1 {
		t.Errorf("version = %d, want 1", s.Version())
	}
}

func TestCatalogStore_Replace(t *testing.T) {
	s := memory.NewCatalogStore(catalog.Default(), penalty.DefaultPolicy())

	next := catalog.Default()
	next.Packages = next.Packages[:1]
	s.Replace(next, penalty.Policy{Mode: penalty.ModeFixed, FixedRate: 0.25})

	c, p := s.Snapshot()
	if len(c.Packages) != 1 {
		t.Errorf("expected 1 package after replace, got %d", len(c.Packages))
	}
	if p.Mode != penalty.ModeFixed || p.FixedRate != 0.25 {
		t.Errorf("unexpected policy %+v", p)
	}
	if s.Version() != 2 {
		t.Errorf("version = %d, want 2", s.Version())
	}
}

func TestCatalogStore_ConcurrentAccess(t *testing.T) {
	s := memory.NewCatalogStore(catalog.Default(), penalty.DefaultPolicy())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Replace(catalog.Default(), penalty.Policy{Mode: penalty.ModeFixed, FixedRate: 0.5})
		}()
		go func() {
			defer wg.Done()
			c, _ := s.Snapshot()
			if len(c.Packages) == 0 {
				t.Error("snapshot returned empty catalog")
			}
		}()
	}
	wg.Wait()

	if s.Version() != 21 {
		t.Errorf("version = %d, want 21", s.Version())
	}
}
