package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/artpar/denda/bootstrap"
	"github.com/artpar/denda/config"
	"github.com/artpar/denda/pkg/rupiah"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var appsCmd = &cobra.Command{
	Use:   "apps",
	Short: "List streaming applications",
	RunE:  runApps,
}

var packagesCmd = &cobra.Command{
	Use:   "packages",
	Short: "List subscription packages",
	Long: `List subscription packages in catalog order.
The first package of an application is its default.

Examples:
  denda packages
  denda packages --app netflix`,
	RunE: runPackages,
}

var packagesApp string

func init() {
	rootCmd.AddCommand(appsCmd)
	rootCmd.AddCommand(packagesCmd)

	packagesCmd.Flags().StringVar(&packagesApp, "app", "", "only packages of this application")
}

func runApps(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadWithFallback(cfgFile)
	if err != nil {
		return err
	}
	svc := bootstrap.NewCalculator(cfg, zerolog.Nop())
	policy := svc.Policy()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPENALTY RATE\tPACKAGES")
	fmt.Fprintln(w, "--\t----\t------------\t--------")

	for _, a := range svc.Applications() {
		pkgs, _ := svc.Packages(a.ID)
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", a.ID, a.Name, rupiah.Percent(a.PenaltyRate), len(pkgs))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nPenalty mode: %s", policy.Mode)
	if policy.Mode == "fixed" {
		fmt.Fprintf(cmd.OutOrStdout(), " (%s for every package)", rupiah.Percent(policy.FixedRate))
	}
	fmt.Fprintln(cmd.OutOrStdout())
	return nil
}

func runPackages(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadWithFallback(cfgFile)
	if err != nil {
		return err
	}
	svc := bootstrap.NewCalculator(cfg, zerolog.Nop())

	pkgs, ok := svc.Packages(packagesApp)
	if !ok {
		return fmt.Errorf("application not found: %s", packagesApp)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tAPP\tNAME\tPRICE\tMAX DEVICES\tMAX CUSTOMERS")
	fmt.Fprintln(w, "--\t---\t----\t-----\t-----------\t-------------")

	for _, p := range pkgs {
		maxCustomers := "-"
		if p.MaxCustomers > 0 {
			maxCustomers = strconv.Itoa(p.MaxCustomers)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			p.ID, p.AppID, p.Name, rupiah.FormatInt(p.Price), p.MaxDevicesPerCustomer, maxCustomers)
	}
	return w.Flush()
}
