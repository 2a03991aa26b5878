package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var premarketCmd = &cobra.Command{
	Use:   "premarket",
	Short: "Print the pre-market analysis report",
	Long: `Builds the pre-market report: overnight global markets, news
sentiment and the top picks for the next session.

Example:
  go run ./cmd/optionsense premarket`,
	RunE: runPremarket,
}

func init() {
	rootCmd.AddCommand(premarketCmd)
}

func runPremarket(cmd *cobra.Command, args []string) error {
	c, err := buildComponents()
	if err != nil {
		return err
	}

	report := c.premarket.GetReport(context.Background())

	fmt.Printf("Pre-market report for %s\n\n", report.MarketDate)

	fmt.Printf("Global markets (%s, %d/%d positive):\n",
		report.GlobalMarkets.Sentiment, report.GlobalMarkets.PositiveCount, report.GlobalMarkets.TotalCount)
	global := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Market", "Price", "Change", "Change%", "Status"}),
	)
	for _, m := range report.GlobalMarkets.Data {
		global.Append([]string{
			m.Name,
			fmt.Sprintf("%.2f", m.Price),
			fmt.Sprintf("%+.2f", m.Change),
			fmt.Sprintf("%+.2f", m.ChangePct),
			m.Status,
		})
	}
	global.Render()

	fmt.Printf("\nNews (%s, score %d/10):\n", report.News.Sentiment.Mood, report.News.Sentiment.Score)
	for _, h := range report.News.Headlines {
		fmt.Printf("  [%s] %s (%s)\n", h.Sentiment, h.Title, h.Source)
	}

	fmt.Println("\nTop picks:")
	picks := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Symbol", "Price", "Entry", "Target", "SL", "Score", "Call"}),
	)
	for _, p := range report.TopPicks {
		picks.Append([]string{
			p.Symbol,
			fmt.Sprintf("%.2f", p.Price),
			fmt.Sprintf("%.2f", p.Entry),
			fmt.Sprintf("%.2f", p.Target),
			fmt.Sprintf("%.2f", p.Stoploss),
			fmt.Sprintf("%d", p.PreMarketScore),
			p.Recommendation,
		})
	}
	picks.Render()

	fmt.Printf("\n%s: %s\n", report.OverallMood.Mood, report.OverallMood.Message)
	fmt.Println(report.Disclaimer)
	return nil
}
