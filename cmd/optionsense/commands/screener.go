package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/optionsense/backend/internal/screener"
)

var screenerCmd = &cobra.Command{
	Use:   "screener",
	Short: "Run the stock screener and print the results",
	Long: `Runs the multi-source stock screener and prints scored entries.

Example:
  go run ./cmd/optionsense screener
  go run ./cmd/optionsense screener --filter top_gainers`,
	RunE: runScreener,
}

var screenerFilter string

func init() {
	rootCmd.AddCommand(screenerCmd)
	screenerCmd.Flags().StringVar(&screenerFilter, "filter", screener.FilterAll,
		"filter (all|buy|sell|top_gainers|top_losers)")
}

func runScreener(cmd *cobra.Command, args []string) error {
	c, err := buildComponents()
	if err != nil {
		return err
	}

	result := c.screener.GetScreenerData(context.Background(), screenerFilter)

	fmt.Printf("Screener (%s) - %d stocks, source %s\n\n",
		result.Filter, len(result.Stocks), result.DataSource)

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Symbol", "Price", "Change%", "Score", "Signal", "Entry", "Target", "SL"}),
	)
	for _, s := range result.Stocks {
		table.Append([]string{
			s.Symbol,
			fmt.Sprintf("%.2f", s.Price),
			fmt.Sprintf("%+.2f", s.ChangePct),
			fmt.Sprintf("%d", s.Score),
			s.Recommendation,
			fmt.Sprintf("%.2f", s.TradingLevels.Entry),
			fmt.Sprintf("%.2f", s.TradingLevels.Target),
			fmt.Sprintf("%.2f", s.TradingLevels.Stoploss),
		})
	}
	table.Render()

	fmt.Printf("\nBuy %d | Sell %d | Hold %d\n",
		result.Summary.BuySignals, result.Summary.SellSignals, result.Summary.HoldSignals)
	return nil
}
