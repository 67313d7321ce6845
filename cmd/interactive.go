package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"smc-analyzer/internal/delivery/terminal"
	"smc-analyzer/internal/repository"
	"smc-analyzer/internal/service"
	"smc-analyzer/pkg/logger"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var bannerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#7C3AED")).
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("#7C3AED")).
	Padding(0, 2)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Pick pairs from a prompt and watch the latest analysis",
	RunE:  Interactive,
}

func Interactive(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appDep, err := NewAppDependency(ctx)
	if err != nil {
		return err
	}
	defer appDep.Close()

	// log lines would garble the prompt
	log := logger.NewNop()
	repo := repository.NewRepository(appDep.cfg, log, appDep.validator)
	services := service.NewService(appDep.cfg, log, repo, service.NewLogNotifier(log))

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, bannerStyle.Render("📊 SMC + ICT Analyzer"))

	console := terminal.NewConsole(log, services.AnalysisService, terminal.NewSurveyPrompter(), appDep.cfg.Watchlist.Symbols, out)
	return console.Run(ctx)
}
