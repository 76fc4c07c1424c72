package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/artpar/denda/app"
	"github.com/artpar/denda/domain/catalog"
	"github.com/artpar/denda/pkg/jsonapi"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Resource types.
const (
	TypeApplication = "applications"
	TypePackage     = "packages"
	TypeQuote       = "quotes"
)

const maxBodyBytes = 64 << 10

// QuoteHandler serves catalog listings and penalty quotes.
type QuoteHandler struct {
	service *app.QuoteService
	logger  zerolog.Logger
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(service *app.QuoteService, logger zerolog.Logger) *QuoteHandler {
	return &QuoteHandler{
		service: service,
		logger:  logger.With().Str("handler", "quote").Logger(),
	}
}

// ListApplications handles GET /api/applications.
func (h *QuoteHandler) ListApplications(w http.ResponseWriter, r *http.Request) {
	apps := h.service.Applications()
	resources := make([]jsonapi.Resource, 0, len(apps))
	for _, a := range apps {
		resources = append(resources, applicationResource(a))
	}

	policy := h.service.Policy()
	jsonapi.WriteCollection(w, http.StatusOK, resources, jsonapi.Meta{
		"total":        len(resources),
		"penalty_mode": string(policy.Mode),
	})
}

// ListPackages handles GET /api/packages.
func (h *QuoteHandler) ListPackages(w http.ResponseWriter, r *http.Request) {
	pkgs, _ := h.service.Packages("")
	writePackages(w, pkgs)
}

// ListApplicationPackages handles GET /api/applications/{id}/packages.
func (h *QuoteHandler) ListApplicationPackages(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	pkgs, ok := h.service.Packages(id)
	if !ok {
		jsonapi.WriteError(w, jsonapi.ErrNotFoundWithID("application", id))
		return
	}
	writePackages(w, pkgs)
}

// GetQuote handles GET /api/quote?app=&package=&devices=&violators=.
func (h *QuoteHandler) GetQuote(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	h.writeQuote(w, r, app.QuoteRequest{
		AppID:     q.Get("app"),
		PackageID: q.Get("package"),
		Devices:   q.Get("devices"),
		Violators: q.Get("violators"),
	})
}

// quoteBody is the POST /api/quote request body.
type quoteBody struct {
	App       string          `json:"app"`
	Package   string          `json:"package"`
	Devices   json.RawMessage `json:"devices"`
	Violators json.RawMessage `json:"violators"`
}

// countText returns a count given as a JSON number or string as text.
// Absent and null counts are empty.
func countText(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", errors.New("must be a number or a string")
	}
	return n.String(), nil
}

// PostQuote handles POST /api/quote.
func (h *QuoteHandler) PostQuote(w http.ResponseWriter, r *http.Request) {
	var body quoteBody
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		h.logger.Debug().Err(err).Msg("malformed quote body")
		jsonapi.WriteBadRequest(w, decodeErrorDetail(err))
		return
	}

	devices, err := countText(body.Devices)
	if err != nil {
		jsonapi.WriteError(w, jsonapi.ErrBadRequest("devices "+err.Error()).WithPointer("/devices"))
		return
	}
	violators, err := countText(body.Violators)
	if err != nil {
		jsonapi.WriteError(w, jsonapi.ErrBadRequest("violators "+err.Error()).WithPointer("/violators"))
		return
	}

	h.writeQuote(w, r, app.QuoteRequest{
		AppID:     body.App,
		PackageID: body.Package,
		Devices:   devices,
		Violators: violators,
	})
}

func decodeErrorDetail(err error) string {
	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, io.EOF):
		return "request body is required"
	case errors.As(err, &maxErr):
		return fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit)
	default:
		return "malformed JSON body: " + err.Error()
	}
}

func (h *QuoteHandler) writeQuote(w http.ResponseWriter, r *http.Request, req app.QuoteRequest) {
	quote := h.service.Quote(r.Context(), req)
	jsonapi.WriteResource(w, http.StatusOK, quoteResource(quote))
}

func writePackages(w http.ResponseWriter, pkgs []catalog.Package) {
	resources := make([]jsonapi.Resource, 0, len(pkgs))
	for _, p := range pkgs {
		resources = append(resources, packageResource(p))
	}
	jsonapi.WriteCollection(w, http.StatusOK, resources, jsonapi.Meta{"total": len(resources)})
}

func applicationResource(a catalog.Application) jsonapi.Resource {
	return jsonapi.NewResource(TypeApplication, a.ID).
		Attr("name", a.Name).
		Attr("penalty_rate", a.PenaltyRate).
		Link("/api/applications/" + a.ID + "/packages").
		Build()
}

func packageResource(p catalog.Package) jsonapi.Resource {
	rb := jsonapi.NewResource(TypePackage, p.ID).
		Attr("name", p.Name).
		Attr("price", p.Price).
		Attr("max_devices_per_customer", p.MaxDevicesPerCustomer).
		BelongsTo("application", TypeApplication, p.AppID)
	if p.MaxCustomers > 0 {
		rb.Attr("max_customers", p.MaxCustomers)
	}
	return rb.Build()
}

func quoteResource(q app.Quote) jsonapi.Resource {
	return jsonapi.NewResource(TypeQuote, q.ID).
		Attr("application_name", q.Application.Name).
		Attr("package_name", q.Package.Name).
		Attr("price", q.Package.Price).
		Attr("devices_used", q.Input.DevicesUsed).
		Attr("violator_count", q.Input.ViolatorCount).
		Attr("max_devices", q.Result.MaxDevices).
		Attr("extra_devices", q.Result.ExtraDevices).
		Attr("penalty_rate", q.Rate).
		Attr("penalty_percent", q.RatePercent).
		Attr("fine_per_extra_device", q.Result.FinePerExtraDevice).
		Attr("fine_per_customer", q.Result.FinePerCustomer).
		Attr("total_fine", q.Result.TotalFine).
		Attr("has_fine", q.Result.HasFine()).
		Attr("formatted", map[string]string{
			"price":                 q.Formatted.Price,
			"fine_per_extra_device": q.Formatted.FinePerExtraDevice,
			"fine_per_customer":     q.Formatted.FinePerCustomer,
			"total_fine":            q.Formatted.TotalFine,
			"penalty_rate":          q.Formatted.Rate,
		}).
		Attr("calculated_at", q.CalculatedAt.UTC().Format(time.RFC3339)).
		BelongsTo("application", TypeApplication, q.Application.ID).
		BelongsTo("package", TypePackage, q.Package.ID).
		Build()
}
