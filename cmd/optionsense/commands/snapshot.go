package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Print the dashboard snapshot for an index",
	Long: `Fetches the dashboard snapshot (price, VWAP, PCR, sentiment,
OI alert) for one index and prints it.

Example:
  go run ./cmd/optionsense snapshot
  go run ./cmd/optionsense snapshot --symbol BANKNIFTY`,
	RunE: runSnapshot,
}

var snapshotSymbol string

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.Flags().StringVar(&snapshotSymbol, "symbol", "NIFTY", "index symbol")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	c, err := buildComponents()
	if err != nil {
		return err
	}

	snap := c.dashboard.GetSnapshot(context.Background(), snapshotSymbol)

	fmt.Printf("%s  [%s]\n", snap.Symbol, snap.MarketStatus)
	fmt.Printf("  Price      : %.2f (%+.2f, %+.2f%%)\n",
		snap.Data.Price, snap.Data.PriceChange, snap.Data.PriceChangePct)
	fmt.Printf("  VWAP       : %.2f  %s\n", snap.Data.VWAPSignal.Value, snap.Data.VWAPSignal.Message)
	fmt.Printf("  PCR        : %.2f (%s)\n", snap.Data.PCR.Value, snap.Data.PCR.Trend)
	fmt.Printf("  Sentiment  : %d/10  %s\n", snap.Data.Sentiment.Score, snap.Data.Sentiment.Label)
	fmt.Printf("  OI         : %s\n", snap.Data.OIAlert.Message)
	fmt.Printf("  Updated    : %s\n", snap.LastUpdated)
	return nil
}
