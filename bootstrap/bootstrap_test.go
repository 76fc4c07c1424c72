package bootstrap_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/artpar/denda/bootstrap"
	"github.com/artpar/denda/config"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
)

const testConfig = `
server:
  port: 18080
logging:
  level: error
metrics:
  enabled: true
rate_limit:
  enabled: true
  requests_per_second: 100
  burst: 100
penalty:
  mode: fixed
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "denda.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func totalFine(t *testing.T, h http.Handler, query string) float64 {
	t.Helper()
	req := httptest.NewRequest("GET", "/api/quote?"+query, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var doc struct {
		Data struct {
			ID         string         `json:"id"`
			Attributes map[string]any `json:"attributes"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.HasPrefix(doc.Data.ID, "qt_") {
		t.Errorf("quote id = %q", doc.Data.ID)
	}
	return doc.Data.Attributes["total_fine"].(float64)
}

func TestNew_Wiring(t *testing.T) {
	a, err := bootstrap.New(bootstrap.Options{ConfigPath: writeConfig(t, testConfig)})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	defer a.Shutdown()

	if a.HTTPServer.Addr != "0.0.0.0:18080" {
		t.Errorf("Addr = %s", a.HTTPServer.Addr)
	}
	if a.Metrics == nil || a.Registry == nil {
		t.Fatal("metrics should be enabled")
	}

	if got := totalFine(t, a.Handler(), "package=1p1u_month&devices=3&violators=3"); got != 111000 {
		t.Errorf("total_fine = %v, want 111000", got)
	}

	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "denda_quotes_total") {
		t.Error("/metrics should expose denda_quotes_total")
	}
	if !strings.Contains(rec.Body.String(), "go_goroutines") {
		t.Error("/metrics should expose go runtime metrics")
	}
}

func TestNew_MissingConfigUsesDefaults(t *testing.T) {
	a, err := bootstrap.New(bootstrap.Options{ConfigPath: filepath.Join(t.TempDir(), "absent.yaml")})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	defer a.Shutdown()

	if a.Metrics != nil {
		t.Error("metrics should be disabled by default")
	}
	// Application mode: Netflix charges 100% per extra device.
	if got := totalFine(t, a.Handler(), "package=1p1u_month&devices=2"); got != 37000 {
		t.Errorf("total_fine = %v, want 37000", got)
	}

	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("/metrics status = %d, want 404 when disabled", rec.Code)
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := bootstrap.New(bootstrap.Options{ConfigPath: writeConfig(t, "penalty:\n  mode: tiered\n")})
	if err == nil {
		t.Fatal("expected error for invalid config")
	}
}

func TestReloadUpdatesCatalog(t *testing.T) {
	path := writeConfig(t, testConfig)
	a, err := bootstrap.New(bootstrap.Options{ConfigPath: path})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	defer a.Shutdown()

	if got := totalFine(t, a.Handler(), "package=1p1u_month&devices=2"); got != 18500 {
		t.Fatalf("before reload total_fine = %v, want 18500", got)
	}

	updated := strings.Replace(testConfig, "mode: fixed", "mode: application", 1)
	if err := os.WriteFile(path, []byte(updated), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := a.Config.Reload(); err != nil {
		t.Fatalf("Reload error: %v", err)
	}

	if got := totalFine(t, a.Handler(), "package=1p1u_month&devices=2"); got != 37000 {
		t.Errorf("after reload total_fine = %v, want 37000", got)
	}
	if got := testutil.ToFloat64(a.Metrics.ConfigReloads); got != 1 {
		t.Errorf("config reloads = %v, want 1", got)
	}
	if a.Catalog.Version() != 2 {
		t.Errorf("catalog version = %d, want 2", a.Catalog.Version())
	}

	// A broken file keeps the previous catalog and counts the error.
	if err := os.WriteFile(path, []byte("penalty:\n  mode: tiered\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := a.Config.Reload(); err == nil {
		t.Fatal("expected reload error")
	}
	if got := testutil.ToFloat64(a.Metrics.ConfigReloadErrors); got != 1 {
		t.Errorf("config reload errors = %v, want 1", got)
	}
	if got := totalFine(t, a.Handler(), "package=1p1u_month&devices=2"); got != 37000 {
		t.Errorf("after failed reload total_fine = %v, want 37000", got)
	}
}

func TestNewCalculator(t *testing.T) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv error: %v", err)
	}
	svc := bootstrap.NewCalculator(cfg, zerolog.Nop())

	pkgs, ok := svc.Packages("netflix")
	if !ok || len(pkgs) != 3 {
		t.Errorf("packages = %v, %v", pkgs, ok)
	}
}

func TestSetupLogger(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	bootstrap.SetupLogger(config.LoggingConfig{Level: "warn", Format: "console"})
	if zerolog.GlobalLevel() != zerolog.WarnLevel {
		t.Errorf("global level = %s, want warn", zerolog.GlobalLevel())
	}

	bootstrap.SetupLogger(config.LoggingConfig{Level: "bogus", Format: "json"})
	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Errorf("global level = %s, want info", zerolog.GlobalLevel())
	}
}
