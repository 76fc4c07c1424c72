// Package app provides application services that orchestrate domain logic.
package app

import (
	"context"
	"slices"
	"time"

	"github.com/artpar/denda/domain/catalog"
	"github.com/artpar/denda/domain/penalty"
	"github.com/artpar/denda/pkg/rupiah"
	"github.com/artpar/denda/ports"
	"github.com/rs/zerolog"
)

// QuoteRequest carries an operator's selection and raw count entries.
// Counts are strings so every surface applies the same coercion rules.
type QuoteRequest struct {
	AppID     string
	PackageID string
	Devices   string
	Violators string
}

// Quote is one computed, formatted penalty calculation. It is never stored.
type Quote struct {
	ID           string
	Application  catalog.Application
	Package      catalog.Package
	Input        penalty.Input
	Result       penalty.Result
	Rate         float64
	RatePercent  int
	Formatted    FormattedAmounts
	CalculatedAt time.Time
}

// FormattedAmounts holds the Rupiah renderings of a quote's amounts.
type FormattedAmounts struct {
	Price              string
	FinePerExtraDevice string
	FinePerCustomer    string
	TotalFine          string
	Rate               string
}

// QuoteService computes penalty quotes against the active catalog.
type QuoteService struct {
	source   ports.CatalogSource
	ids      ports.IDGenerator
	clock    ports.Clock
	recorder ports.QuoteRecorder
	logger   zerolog.Logger
}

// NewQuoteService creates a new quote service. recorder may be nil.
func NewQuoteService(
	source ports.CatalogSource,
	ids ports.IDGenerator,
	clock ports.Clock,
	recorder ports.QuoteRecorder,
	logger zerolog.Logger,
) *QuoteService {
	return &QuoteService{
		source:   source,
		ids:      ids,
		clock:    clock,
		recorder: recorder,
		logger:   logger.With().Str("service", "quote").Logger(),
	}
}

// Quote resolves the package and rate for req and computes the penalty.
// It never fails: unknown selections fall back and malformed counts coerce.
func (s *QuoteService) Quote(ctx context.Context, req QuoteRequest) Quote {
	cat, policy := s.source.Snapshot()
	app, pkg := cat.Resolve(req.AppID, req.PackageID)
	rate := penalty.RateFor(policy, app)

	in := penalty.Input{
		DevicesUsed:   penalty.SanitizeDevices(req.Devices),
		ViolatorCount: penalty.SanitizeViolators(req.Violators),
	}
	result := penalty.Calculate(pkg, rate, in)

	q := Quote{
		ID:          s.ids.New(),
		Application: app,
		Package:     pkg,
		Input:       in,
		Result:      result,
		Rate:        rate,
		RatePercent: penalty.Percent(rate),
		Formatted: FormattedAmounts{
			Price:              rupiah.FormatInt(pkg.Price),
			FinePerExtraDevice: rupiah.Format(result.FinePerExtraDevice),
			FinePerCustomer:    rupiah.Format(result.FinePerCustomer),
			TotalFine:          rupiah.Format(result.TotalFine),
			Rate:               rupiah.Percent(rate),
		},
		CalculatedAt: s.clock.Now(),
	}

	if s.recorder != nil {
		s.recorder.RecordQuote(app.ID, pkg.ID, result)
	}

	s.logger.Debug().
		Str("quote_id", q.ID).
		Str("app_id", app.ID).
		Str("package_id", pkg.ID).
		Str("requested_package", req.PackageID).
		Str("mode", string(policy.Mode)).
		Float64("rate", rate).
		Int("devices", in.DevicesUsed).
		Int("violators", in.ViolatorCount).
		Int("extra_devices", result.ExtraDevices).
		Float64("total_fine", result.TotalFine).
		Msg("quote computed")

	return q
}

// Applications lists the applications of the active catalog.
// The returned slice is a copy.
func (s *QuoteService) Applications() []catalog.Application {
	cat, _ := s.source.Snapshot()
	return slices.Clone(cat.Applications)
}

// Packages lists the packages of appID, or every package when appID is empty.
// The boolean is false when appID names no application.
func (s *QuoteService) Packages(appID string) ([]catalog.Package, bool) {
	cat, _ := s.source.Snapshot()
	if appID == "" {
		return slices.Clone(cat.Packages), true
	}
	if _, ok := cat.FindApplication(appID); !ok {
		return nil, false
	}
	return cat.PackagesFor(appID), true
}

// Policy returns the active penalty policy.
func (s *QuoteService) Policy() penalty.Policy {
	_, policy := s.source.Snapshot()
	return policy
}
