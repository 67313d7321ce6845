package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "smc-analyzer",
	Short: "Smart Money Concepts analysis for forex pairs",
	Long: `smc-analyzer asks a market-structure analysis service about a forex pair and
presents the result: ICT kill zone, premium/discount position, 1-minute structure,
closest SMC elements, ranked reaction levels and a final recommendation.

It runs one-shot (analyze), as an interactive prompt (interactive) or as a server
with HTTP API, Telegram bot and scheduled watchlist (start).`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(interactiveCmd)
}

func Execute() error {
	return rootCmd.Execute()
}
