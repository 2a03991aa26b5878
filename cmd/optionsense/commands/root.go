package commands

import (
	"github.com/spf13/cobra"
)

var verbose bool

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "optionsense",
	Short: "OptionSense - Indian market data and trading signal service",
	Long: `OptionSense backend CLI.

Aggregates NSE, Google Finance, Moneycontrol and archive data into
dashboard snapshots, a stock screener, pro-trader analysis and option
strategies.

Usage:
  go run ./cmd/optionsense [command]

Examples:
  go run ./cmd/optionsense api
  go run ./cmd/optionsense screener --filter buy
  go run ./cmd/optionsense snapshot --symbol BANKNIFTY
  go run ./cmd/optionsense premarket`,
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
