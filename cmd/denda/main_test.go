package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// execute runs the CLI with fresh flag state and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	for _, c := range append([]*cobra.Command{rootCmd}, rootCmd.Commands()...) {
		reset := func(f *pflag.Flag) {
			f.Value.Set(f.DefValue)
			f.Changed = false
		}
		c.Flags().VisitAll(reset)
		c.PersistentFlags().VisitAll(reset)
	}

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func missingConfig(t *testing.T) string {
	return filepath.Join(t.TempDir(), "absent.yaml")
}

func TestCalc_Text(t *testing.T) {
	out, err := execute(t, "calc", "-c", missingConfig(t),
		"--package", "1p1u_month", "--devices", "3", "--violators", "3", "--mode", "fixed")
	if err != nil {
		t.Fatalf("calc error: %v", err)
	}

	for _, want := range []string{
		"Netflix",
		"1p1u - 1 Bulan (37.000)",
		"2 perangkat",
		"Rp 18.500 (50% × harga paket)",
		"Rp 37.000",
		"Rp 111.000",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "tidak ada denda") {
		t.Error("no-fine note shown for a fined quote")
	}
}

func TestCalc_NoFine(t *testing.T) {
	out, err := execute(t, "calc", "-c", missingConfig(t), "--package", "1p1u_week", "--devices", "abc")
	if err != nil {
		t.Fatalf("calc error: %v", err)
	}
	if !strings.Contains(out, "tidak ada denda") {
		t.Errorf("expected no-fine note:\n%s", out)
	}
	if !strings.Contains(out, "Total denda") || !strings.Contains(out, "Rp 0") {
		t.Errorf("expected zero total:\n%s", out)
	}
}

func TestCalc_JSON(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantTotal float64
		wantRate  float64
	}{
		{"application rate", []string{"--package", "1p1u_month", "--devices", "2"}, 37000, 1},
		{"rate implies fixed", []string{"--package", "1p1u_month", "--devices", "2", "--rate", "0.5"}, 18500, 0.5},
		{"shared package", []string{"--package", "1p2u", "--devices", "2", "--mode", "fixed"}, 11500, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"calc", "-c", missingConfig(t), "--format", "json"}, tt.args...)
			out, err := execute(t, args...)
			if err != nil {
				t.Fatalf("calc error: %v", err)
			}

			var q quoteJSON
			if err := json.Unmarshal([]byte(out), &q); err != nil {
				t.Fatalf("decode: %v\n%s", err, out)
			}
			if q.TotalFine != tt.wantTotal {
				t.Errorf("total_fine = %v, want %v", q.TotalFine, tt.wantTotal)
			}
			if q.PenaltyRate != tt.wantRate {
				t.Errorf("penalty_rate = %v, want %v", q.PenaltyRate, tt.wantRate)
			}
			if !strings.HasPrefix(q.ID, "qt_") {
				t.Errorf("id = %q", q.ID)
			}
		})
	}
}

func TestCalc_InvalidFlags(t *testing.T) {
	tests := [][]string{
		{"--format", "xml"},
		{"--mode", "tiered"},
		{"--rate", "-1"},
	}
	for _, args := range tests {
		_, err := execute(t, append([]string{"calc", "-c", missingConfig(t)}, args...)...)
		if err == nil {
			t.Errorf("expected error for %v", args)
		}
	}
}

func TestCalc_UsesConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "denda.yaml")
	content := `
penalty:
  mode: fixed
  fixed_rate: 0.25
applications:
  - id: disney
    name: "Disney+ Hotstar"
    penalty_rate: 0.5
packages:
  - id: disney_month
    app_id: disney
    name: "Disney 1 Bulan"
    price: 40000
    max_devices_per_customer: 2
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	out, err := execute(t, "calc", "-c", path, "--devices", "4", "--format", "json")
	if err != nil {
		t.Fatalf("calc error: %v", err)
	}
	var q quoteJSON
	if err := json.Unmarshal([]byte(out), &q); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if q.PackageID != "disney_month" || q.TotalFine != 20000 {
		t.Errorf("quote = %+v", q)
	}
}

func TestApps(t *testing.T) {
	out, err := execute(t, "apps", "-c", missingConfig(t))
	if err != nil {
		t.Fatalf("apps error: %v", err)
	}
	for _, want := range []string{"netflix", "Netflix", "100%", "Penalty mode: application"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPackages(t *testing.T) {
	out, err := execute(t, "packages", "-c", missingConfig(t), "--app", "netflix")
	if err != nil {
		t.Fatalf("packages error: %v", err)
	}
	for _, want := range []string{"1p1u_month", "1p1u_week", "1p2u", "Rp 23.000", "10"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	if _, err := execute(t, "packages", "-c", missingConfig(t), "--app", "prime"); err == nil {
		t.Error("expected error for unknown application")
	}
}

func TestValidate(t *testing.T) {
	if _, err := execute(t, "validate", "-c", missingConfig(t)); err == nil {
		t.Error("expected error for missing config file")
	}

	path := filepath.Join(t.TempDir(), "denda.yaml")
	if err := os.WriteFile(path, []byte("penalty:\n  mode: fixed\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	out, err := execute(t, "validate", "-c", path)
	if err != nil {
		t.Fatalf("validate error: %v", err)
	}
	if !strings.Contains(out, "Configuration is valid.") || !strings.Contains(out, "Packages: 3") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, "Hot reload (file change or SIGHUP): applications, packages, penalty.mode") ||
		!strings.Contains(out, "Restart required: server.host") {
		t.Errorf("missing reload summary:\n%s", out)
	}

	if err := os.WriteFile(path, []byte("penalty:\n  mode: tiered\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := execute(t, "validate", "-c", path); err == nil {
		t.Error("expected error for invalid config")
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version error: %v", err)
	}
	if !strings.HasPrefix(out, "denda dev") {
		t.Errorf("unexpected output: %s", out)
	}
}
