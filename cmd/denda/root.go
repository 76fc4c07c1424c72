package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const (
	checkMark = "\033[32m✓\033[0m"
	crossMark = "\033[31m✗\033[0m"
)

var (
	// Global flags
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "denda",
	Short: "Multi-device penalty calculator for shared streaming subscriptions",
	Long: `denda computes the fine owed when a customer of a shared streaming
subscription is found logged in on more devices than the package allows.

Quick start:
  denda calc --package 1p1u_month --devices 3 --violators 3
  denda serve       # Start the HTTP API

Reference data:
  denda apps        # List applications
  denda packages    # List packages
  denda validate    # Validate configuration`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "denda.yaml", "config file path")
}
