package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"smc-analyzer/internal/delivery/terminal"
	"smc-analyzer/internal/service"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze SYMBOL",
	Short: "Analyze one forex pair and print the result",
	Long: `Request a market-structure analysis for SYMBOL and print it.
Example: smc-analyzer analyze EURUSD`,
	Args: cobra.ExactArgs(1),
	RunE: Analyze,
}

func Analyze(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appDep, err := NewAppDependency(ctx)
	if err != nil {
		return err
	}
	defer appDep.Close()

	services := service.NewService(appDep.cfg, appDep.log, appDep.repo, service.NewLogNotifier(appDep.log))
	console := terminal.NewConsole(appDep.log, services.AnalysisService, terminal.NewSurveyPrompter(), appDep.cfg.Watchlist.Symbols, cmd.OutOrStdout())

	return console.AnalyzeOnce(ctx, args[0])
}
