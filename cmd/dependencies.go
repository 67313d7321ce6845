package cmd

import (
	"context"
	"time"

	"smc-analyzer/config"
	"smc-analyzer/internal/dto"
	"smc-analyzer/internal/repository"
	"smc-analyzer/pkg/cache"
	"smc-analyzer/pkg/logger"
	"smc-analyzer/pkg/telegram"
	"smc-analyzer/pkg/utils"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/telebot.v3"
)

type AppDependency struct {
	cfg         *config.Config
	log         *logger.Logger
	validator   *goValidator.Validate
	echo        *echo.Echo
	cache       cache.Cache
	repo        *repository.Repository
	telegram    *telegram.TelegramRateLimiter
	telegramBot *telebot.Bot
}

func NewAppDependency(ctx context.Context) (*AppDependency, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		return nil, err
	}

	validator := dto.NewValidator()
	e := echo.New()
	e.HideBanner = true

	return &AppDependency{
		cfg:       cfg,
		log:       log,
		validator: validator,
		echo:      e,
		cache:     cache.NewCache(cfg.Cache.DefaultExpiration, cfg.Cache.CleanupInterval),
		repo:      repository.NewRepository(cfg, log, validator),
	}, nil
}

// InitTelegram creates the bot when a token is configured. It reports
// whether the bot is available.
func (d *AppDependency) InitTelegram() (bool, error) {
	if d.cfg.Telegram.BotToken == "" {
		d.log.Info("Telegram bot token not set, bot disabled")
		return false, nil
	}

	pref := telebot.Settings{
		Token:  d.cfg.Telegram.BotToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) {
			d.log.Error("Telegram bot error", zap.Error(err))
		},
	}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		d.log.Error("Failed to create telegram bot", zap.Error(err))
		return false, err
	}

	d.telegramBot = bot
	d.telegram = telegram.NewTelegramRateLimiter(&d.cfg.Telegram, d.log, bot)
	return true, nil
}

// EnableAlerts mirrors error logs to the configured chat. The rate limiter
// keeps the plain logger so a failing send cannot alert about itself.
func (d *AppDependency) EnableAlerts() {
	if d.telegram == nil || d.cfg.Telegram.ChatID == 0 {
		return
	}

	d.log = d.log.WithAlert(zapcore.ErrorLevel, func(text string) {
		utils.GoSafe(func() {
			ctx, cancel := context.WithTimeout(context.Background(), d.cfg.Telegram.TimeoutDuration)
			defer cancel()
			_, _ = d.telegram.Send(ctx, d.cfg.Telegram.ChatID, text, telebot.ModeHTML)
		})
	})
	d.repo = repository.NewRepository(d.cfg, d.log, d.validator)
}

func (d *AppDependency) Close() error {
	d.log.Info("Closing app dependency")
	d.cache.Flush()
	_ = d.log.Sync()
	return nil
}
