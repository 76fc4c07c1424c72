// Package penalty provides pure functions for multi-device penalty computation.
// All functions are deterministic with no side effects.
package penalty

import (
	"math"

	"github.com/artpar/denda/domain/catalog"
)

// Mode determines where the penalty rate comes from.
type Mode string

const (
	ModeApplication Mode = "application" // Rate of the package's application
	ModeFixed       Mode = "fixed"       // One rate for every package
)

// DefaultFixedRate is the fraction of the package price charged per extra
// device in fixed mode.
const DefaultFixedRate = 0.5

// Policy selects the penalty rate (value type).
type Policy struct {
	Mode      Mode
	FixedRate float64
}

// DefaultPolicy returns the application-rate policy.
func DefaultPolicy() Policy {
	return Policy{Mode: ModeApplication, FixedRate: DefaultFixedRate}
}

// Valid reports whether the mode is known.
func (m Mode) Valid() bool {
	return m == ModeApplication || m == ModeFixed
}

// Input holds the operator-entered counts (value type).
type Input struct {
	DevicesUsed   int // devices detected logged in for one customer
	ViolatorCount int // customers found over the limit
}

// Result represents the outcome of a penalty calculation (value type).
type Result struct {
	MaxDevices         int
	ExtraDevices       int
	FinePerExtraDevice float64
	FinePerCustomer    float64
	TotalFine          float64
}

// HasFine reports whether any fine applies.
func (r Result) HasFine() bool {
	return r.ExtraDevices > 0
}

// RateFor returns the penalty rate applied to packages of app.
// This is a PURE function.
func RateFor(p Policy, app catalog.Application) float64 {
	if p.Mode == ModeFixed {
		return p.FixedRate
	}
	return app.PenaltyRate
}

// Calculate computes the penalty for a package at the given rate.
// Device counts below zero are treated as zero and violator counts below
// one as one. This is a PURE function.
func Calculate(pkg catalog.Package, rate float64, in Input) Result {
	devices := max(in.DevicesUsed, 0)
	violators := max(in.ViolatorCount, 1)

	extra := max(devices-pkg.MaxDevicesPerCustomer, 0)
	perExtra := float64(pkg.Price) * rate
	perCustomer := float64(extra) * perExtra

	return Result{
		MaxDevices:         pkg.MaxDevicesPerCustomer,
		ExtraDevices:       extra,
		FinePerExtraDevice: perExtra,
		FinePerCustomer:    perCustomer,
		TotalFine:          perCustomer * float64(violators),
	}
}

// Percent returns the rate as a rounded whole percentage (1 -> 100).
func Percent(rate float64) int {
	return int(math.Round(rate * 100))
}
