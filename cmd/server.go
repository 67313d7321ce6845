package cmd

import (
	"context"
	"errors"
	httpNet "net/http"
	"os"
	"os/signal"
	"syscall"

	"smc-analyzer/internal/delivery/http"
	"smc-analyzer/internal/delivery/telegram"
	"smc-analyzer/internal/service"
	"smc-analyzer/pkg/logger"
	"smc-analyzer/pkg/utils"

	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Run the HTTP API, Telegram bot and watchlist scheduler",
	RunE:  Start,
}

func Start(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appDep, err := NewAppDependency(ctx)
	if err != nil {
		return err
	}
	defer appDep.Close()

	telegramEnabled, err := appDep.InitTelegram()
	if err != nil {
		return err
	}

	appDep.EnableAlerts()

	var notifier service.Notifier = service.NewLogNotifier(appDep.log)
	if telegramEnabled && appDep.cfg.Telegram.ChatID != 0 {
		notifier = telegram.NewWatchlistNotifier(appDep.log, appDep.telegram, appDep.cfg.Telegram.ChatID)
	}

	services := service.NewService(appDep.cfg, appDep.log, appDep.repo, notifier)
	httpHandler := http.NewHttpAPIHandler(ctx, appDep.echo, appDep.log, appDep.validator, services)

	var telegramHandler *telegram.TelegramBotHandler
	if telegramEnabled {
		telegramHandler = telegram.NewTelegramBotHandler(
			ctx,
			appDep.cfg,
			appDep.log,
			appDep.telegramBot,
			appDep.telegram,
			appDep.echo,
			services,
			appDep.cache,
		)
		if err := telegramHandler.Start(); err != nil {
			return err
		}
	}

	if err := services.WatchlistService.Start(ctx); err != nil {
		return err
	}

	apiServer := NewHTTPServer(appDep, httpHandler)
	serverErr := make(chan error, 1)
	utils.GoSafe(func() {
		if err := apiServer.Start(); err != nil && !errors.Is(err, httpNet.ErrServerClosed) {
			serverErr <- err
		}
	})

	select {
	case <-ctx.Done():
		appDep.log.Info("Shutting down gracefully...")
	case err = <-serverErr:
		appDep.log.Error("HTTP server failed", logger.ErrorField(err))
	}

	services.WatchlistService.Stop()
	if telegramHandler != nil {
		telegramHandler.Stop()
	}
	if stopErr := apiServer.Stop(); stopErr != nil && err == nil {
		err = stopErr
	}
	return err
}
