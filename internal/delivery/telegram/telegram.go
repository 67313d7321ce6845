package telegram

import (
	"context"
	"time"

	"smc-analyzer/config"
	"smc-analyzer/internal/presenter"
	"smc-analyzer/internal/service"
	"smc-analyzer/internal/session"
	"smc-analyzer/pkg/cache"
	"smc-analyzer/pkg/logger"
	"smc-analyzer/pkg/telegram"
	"smc-analyzer/pkg/utils"

	"github.com/labstack/echo/v4"
	"gopkg.in/telebot.v3"
)

type TelegramBotHandler struct {
	ctx           context.Context
	cfg           *config.Config
	bot           *telebot.Bot
	log           *logger.Logger
	telegram      *telegram.TelegramRateLimiter
	echo          *echo.Echo
	service       *service.Service
	inmemoryCache cache.Cache
	sessions      *session.Registry
	renderer      *presenter.Telegram
}

func NewTelegramBotHandler(
	ctx context.Context,
	cfg *config.Config,
	log *logger.Logger,
	bot *telebot.Bot,
	telegram *telegram.TelegramRateLimiter,
	echo *echo.Echo,
	service *service.Service,
	inmemoryCache cache.Cache,
) *TelegramBotHandler {
	return &TelegramBotHandler{
		ctx:           ctx,
		cfg:           cfg,
		log:           log,
		bot:           bot,
		telegram:      telegram,
		echo:          echo,
		service:       service,
		inmemoryCache: inmemoryCache,
		sessions:      session.NewRegistry(),
		renderer:      presenter.NewTelegram(),
	}
}

// Start registers the handlers. With a webhook URL updates arrive through the
// echo route; otherwise the bot long-polls in the background.
func (t *TelegramBotHandler) Start() error {
	t.log.Info("Starting Telegram bot...")
	t.RegisterHandlers()
	t.telegram.StartCleanupExpired(t.ctx, 10*time.Minute)

	if t.cfg.Telegram.WebhookURL == "" {
		t.log.Info("Telegram webhook is disabled, using long polling")
		utils.GoSafe(t.bot.Start)
		return nil
	}

	t.log.Info("Setting webhook URL", logger.StringField("webhook_url", t.cfg.Telegram.WebhookURL))
	return t.bot.SetWebhook(&telebot.Webhook{
		Endpoint: &telebot.WebhookEndpoint{
			PublicURL: t.cfg.Telegram.WebhookURL,
		},
	})
}

func (t *TelegramBotHandler) Stop() {
	t.log.Info("Stopping Telegram bot...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stopDone := make(chan struct{})
	go func() {
		if t.cfg.Telegram.WebhookURL == "" {
			t.bot.Stop()
		}
		t.sessions.CloseAll()
		close(stopDone)
	}()

	select {
	case <-stopDone:
		t.log.Info("Telegram bot stopped successfully")
	case <-ctx.Done():
		t.log.Warn("Timeout while stopping bot, forcing shutdown")
	}
}
