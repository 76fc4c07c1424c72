// Package catalog provides application and package value types and pure lookup functions.
package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// Application represents a streaming application (immutable value type).
type Application struct {
	ID          string
	Name        string
	PenaltyRate float64 // fraction of package price per extra device (1 = 100%)
}

// Package represents a purchasable subscription offering (immutable value type).
type Package struct {
	ID                    string
	AppID                 string
	Name                  string
	Price                 int64 // whole Rupiah
	MaxDevicesPerCustomer int
	MaxCustomers          int // 0 = not limited; informational only
}

// Catalog holds the static reference tables. Order is significant:
// the first package of an application is its default.
type Catalog struct {
	Applications []Application
	Packages     []Package
}

// FindApplication finds an application by ID.
// This is a PURE function.
func (c Catalog) FindApplication(id string) (Application, bool) {
	for _, a := range c.Applications {
		if a.ID == id {
			return a, true
		}
	}
	return Application{}, false
}

// FindPackage finds a package by ID.
// This is a PURE function.
func (c Catalog) FindPackage(id string) (Package, bool) {
	for _, p := range c.Packages {
		if p.ID == id {
			return p, true
		}
	}
	return Package{}, false
}

// PackagesFor returns the packages owned by an application, in catalog order.
func (c Catalog) PackagesFor(appID string) []Package {
	var out []Package
	for _, p := range c.Packages {
		if p.AppID == appID {
			out = append(out, p)
		}
	}
	return out
}

// Resolve picks the package for a selection and returns it with its owning application.
//
// A known package is used when no application is given or it belongs to the
// given application. Otherwise the first package of the given application is
// used, and failing that the first package of the catalog. Resolve never
// fails on a catalog that passed Validate.
func (c Catalog) Resolve(appID, packageID string) (Application, Package) {
	pkg, ok := c.FindPackage(packageID)
	if !ok || (appID != "" && pkg.AppID != appID) {
		ok = false
		if appPkgs := c.PackagesFor(appID); len(appPkgs) > 0 {
			pkg, ok = appPkgs[0], true
		}
	}
	if !ok {
		if len(c.Packages) == 0 {
			return Application{}, Package{}
		}
		pkg = c.Packages[0]
	}

	app, _ := c.FindApplication(pkg.AppID)
	return app, pkg
}

// Validate checks the catalog tables for consistency.
func (c Catalog) Validate() error {
	var errs []string
	if len(c.Applications) == 0 {
		errs = append(errs, "at least one application is required")
	}
	if len(c.Packages) == 0 {
		errs = append(errs, "at least one package is required")
	}

	appIDs := map[string]bool{}
	for i, a := range c.Applications {
		prefix := fmt.Sprintf("applications[%d]", i)
		if strings.TrimSpace(a.ID) == "" {
			errs = append(errs, prefix+".id is required")
		} else if appIDs[a.ID] {
			errs = append(errs, fmt.Sprintf("%s.id %q is duplicated", prefix, a.ID))
		}
		appIDs[a.ID] = true
		if strings.TrimSpace(a.Name) == "" {
			errs = append(errs, prefix+".name is required")
		}
		if a.PenaltyRate <= 0 {
			errs = append(errs, prefix+".penalty_rate must be positive")
		}
	}

	pkgIDs := map[string]bool{}
	for i, p := range c.Packages {
		prefix := fmt.Sprintf("packages[%d]", i)
		if strings.TrimSpace(p.ID) == "" {
			errs = append(errs, prefix+".id is required")
		} else if pkgIDs[p.ID] {
			errs = append(errs, fmt.Sprintf("%s.id %q is duplicated", prefix, p.ID))
		}
		pkgIDs[p.ID] = true
		if strings.TrimSpace(p.Name) == "" {
			errs = append(errs, prefix+".name is required")
		}
		if !appIDs[p.AppID] {
			errs = append(errs, fmt.Sprintf("%s.app_id %q does not name an application", prefix, p.AppID))
		}
		if p.Price <= 0 {
			errs = append(errs, prefix+".price must be positive")
		}
		if p.MaxDevicesPerCustomer < 1 {
			errs = append(errs, prefix+".max_devices_per_customer must be at least 1")
		}
		if p.MaxCustomers < 0 {
			errs = append(errs, prefix+".max_customers must not be negative")
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
