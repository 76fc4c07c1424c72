package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/artpar/denda/app"
	"github.com/artpar/denda/bootstrap"
	"github.com/artpar/denda/config"
	"github.com/artpar/denda/domain/penalty"
	"github.com/artpar/denda/pkg/rupiah"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Calculate the penalty for one check",
	Long: `Calculate the multi-device penalty for a package.

Counts are entered the way an operator types them: empty or non-numeric
device counts become 0, violator counts below 1 become 1. An unknown
package falls back to the application's first package.

Examples:
  denda calc --package 1p1u_month --devices 2
  denda calc --app netflix --package 1p2u --devices 3 --violators 4
  denda calc --package 1p1u_week --devices 2 --mode fixed --rate 0.5
  denda calc --package 1p1u_month --devices 2 --format json`,
	RunE: runCalc,
}

var (
	calcApp       string
	calcPackage   string
	calcDevices   string
	calcViolators string
	calcFormat    string
	calcMode      string
	calcRate      float64
)

func init() {
	rootCmd.AddCommand(calcCmd)

	calcCmd.Flags().StringVar(&calcApp, "app", "", "application ID")
	calcCmd.Flags().StringVarP(&calcPackage, "package", "p", "", "package ID (default: first package of the application)")
	calcCmd.Flags().StringVarP(&calcDevices, "devices", "d", "1", "devices detected for one customer")
	calcCmd.Flags().StringVarP(&calcViolators, "violators", "n", "1", "customers found over the limit")
	calcCmd.Flags().StringVarP(&calcFormat, "format", "f", "text", "output format: text or json")
	calcCmd.Flags().StringVar(&calcMode, "mode", "", "penalty mode override: application or fixed")
	calcCmd.Flags().Float64Var(&calcRate, "rate", 0, "fixed penalty rate override (implies --mode fixed)")
}

func runCalc(cmd *cobra.Command, args []string) error {
	if calcFormat != "text" && calcFormat != "json" {
		return fmt.Errorf("--format must be 'text' or 'json', got %q", calcFormat)
	}

	cfg, err := config.LoadWithFallback(cfgFile)
	if err != nil {
		return err
	}
	if err := applyPolicyFlags(cmd, cfg); err != nil {
		return err
	}

	svc := bootstrap.NewCalculator(cfg, cliLogger(cmd, cfg))
	quote := svc.Quote(context.Background(), app.QuoteRequest{
		AppID:     calcApp,
		PackageID: calcPackage,
		Devices:   calcDevices,
		Violators: calcViolators,
	})

	if calcFormat == "json" {
		return writeQuoteJSON(cmd.OutOrStdout(), quote)
	}
	return writeQuoteText(cmd.OutOrStdout(), quote)
}

func applyPolicyFlags(cmd *cobra.Command, cfg *config.Config) error {
	if cmd.Flags().Changed("mode") {
		if !penalty.Mode(calcMode).Valid() {
			return fmt.Errorf("--mode must be 'application' or 'fixed', got %q", calcMode)
		}
		cfg.Penalty.Mode = calcMode
	}
	if cmd.Flags().Changed("rate") {
		if calcRate <= 0 {
			return fmt.Errorf("--rate must be positive, got %v", calcRate)
		}
		cfg.Penalty.Mode = string(penalty.ModeFixed)
		cfg.Penalty.FixedRate = calcRate
	}
	return nil
}

func cliLogger(cmd *cobra.Command, cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	output := zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.RFC3339}
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

func writeQuoteText(out io.Writer, q app.Quote) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Aplikasi\t%s\n", q.Application.Name)
	fmt.Fprintf(w, "Paket\t%s\n", q.Package.Name)
	fmt.Fprintf(w, "Harga paket\t%s\n", q.Formatted.Price)
	fmt.Fprintf(w, "Batas device\t%s perangkat\n", rupiah.Number(q.Result.MaxDevices))
	fmt.Fprintf(w, "Device dipakai\t%s perangkat\n", rupiah.Number(q.Input.DevicesUsed))
	fmt.Fprintf(w, "Device ekstra\t%s perangkat\n", rupiah.Number(q.Result.ExtraDevices))
	fmt.Fprintf(w, "Denda per device ekstra (%s)\t%s (%s × harga paket)\n",
		q.Application.Name, q.Formatted.FinePerExtraDevice, q.Formatted.Rate)
	fmt.Fprintf(w, "Denda per customer\t%s\n", q.Formatted.FinePerCustomer)
	fmt.Fprintf(w, "Jumlah pelanggar\t%s\n", rupiah.Number(q.Input.ViolatorCount))
	fmt.Fprintf(w, "Total denda\t%s\n", q.Formatted.TotalFine)
	if err := w.Flush(); err != nil {
		return err
	}

	if !q.Result.HasFine() {
		fmt.Fprintln(out, "\nDevice ekstra = 0, tidak ada denda.")
	}
	return nil
}

// quoteJSON is the calc --format json document.
type quoteJSON struct {
	ID                 string  `json:"id"`
	ApplicationID      string  `json:"application_id"`
	PackageID          string  `json:"package_id"`
	Price              int64   `json:"price"`
	DevicesUsed        int     `json:"devices_used"`
	ViolatorCount      int     `json:"violator_count"`
	MaxDevices         int     `json:"max_devices"`
	ExtraDevices       int     `json:"extra_devices"`
	PenaltyRate        float64 `json:"penalty_rate"`
	PenaltyPercent     int     `json:"penalty_percent"`
	FinePerExtraDevice float64 `json:"fine_per_extra_device"`
	FinePerCustomer    float64 `json:"fine_per_customer"`
	TotalFine          float64 `json:"total_fine"`
	TotalFineText      string  `json:"total_fine_text"`
}

func writeQuoteJSON(out io.Writer, q app.Quote) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(quoteJSON{
		ID:                 q.ID,
		ApplicationID:      q.Application.ID,
		PackageID:          q.Package.ID,
		Price:              q.Package.Price,
		DevicesUsed:        q.Input.DevicesUsed,
		ViolatorCount:      q.Input.ViolatorCount,
		MaxDevices:         q.Result.MaxDevices,
		ExtraDevices:       q.Result.ExtraDevices,
		PenaltyRate:        q.Rate,
		PenaltyPercent:     q.RatePercent,
		FinePerExtraDevice: q.Result.FinePerExtraDevice,
		FinePerCustomer:    q.Result.FinePerCustomer,
		TotalFine:          q.Result.TotalFine,
		TotalFineText:      q.Formatted.TotalFine,
	})
}
