package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/artpar/denda/config"
	"github.com/artpar/denda/pkg/rupiah"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration before deployment",
	Long: `Validate the denda configuration file.

Checks:
  - YAML syntax is valid
  - Server, logging and penalty settings are valid
  - Applications and packages are consistent

Examples:
  denda validate
  denda validate --config /etc/denda/denda.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Validating %s...\n\n", cfgFile)

	// Check file exists
	if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
		fmt.Fprintf(out, "  %s Config file exists\n", crossMark)
		return fmt.Errorf("config file not found: %s", cfgFile)
	}
	fmt.Fprintf(out, "  %s Config file exists\n", checkMark)

	// Load and validate config
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(out, "  %s Config valid\n", crossMark)
		return fmt.Errorf("config error: %w", err)
	}
	fmt.Fprintf(out, "  %s Config valid\n", checkMark)

	// Show config summary
	fmt.Fprintf(out, "  %s Listen address: %s\n", checkMark, cfg.Server.Addr())
	fmt.Fprintf(out, "  %s Penalty mode: %s", checkMark, cfg.Penalty.Mode)
	if cfg.Penalty.Mode == "fixed" {
		fmt.Fprintf(out, " (%s)", rupiah.Percent(cfg.Penalty.FixedRate))
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s Applications: %d\n", checkMark, len(cfg.Applications))
	fmt.Fprintf(out, "  %s Packages: %d\n", checkMark, len(cfg.Packages))

	fmt.Fprintf(out, "\nHot reload (file change or SIGHUP): %s\n", strings.Join(config.ReloadableFields(), ", "))
	fmt.Fprintf(out, "Restart required: %s\n", strings.Join(config.NonReloadableFields(), ", "))

	fmt.Fprintf(out, "\nConfiguration is valid.\n")
	return nil
}
