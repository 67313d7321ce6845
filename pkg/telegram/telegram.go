package telegram

import (
	"context"
	"fmt"
	"time"

	"smc-analyzer/config"
	"smc-analyzer/pkg/common"
	"smc-analyzer/pkg/logger"
	"smc-analyzer/pkg/ratelimit"
	"smc-analyzer/pkg/utils"

	"golang.org/x/time/rate"
	"gopkg.in/telebot.v3"
)

// TelegramRateLimiter wraps bot calls with a global bucket plus one bucket
// per chat so bursts never trip Telegram's flood control.
type TelegramRateLimiter struct {
	log           *logger.Logger
	bot           *telebot.Bot
	globalLimiter *rate.Limiter
	chatLimiters  *ratelimit.LimiterStore
}

func NewTelegramRateLimiter(cfg *config.TelegramConfig, log *logger.Logger, bot *telebot.Bot) *TelegramRateLimiter {
	global := cfg.MaxGlobalRequestPerSecond
	if global <= 0 {
		global = 30
	}
	perChat := cfg.MaxUserRequestPerSecond
	if perChat <= 0 {
		perChat = 1
	}

	return &TelegramRateLimiter{
		log:           log,
		bot:           bot,
		globalLimiter: rate.NewLimiter(rate.Limit(global), global),
		chatLimiters:  ratelimit.NewLimiterStore(rate.Limit(perChat), perChat+2),
	}
}

func (t *TelegramRateLimiter) Send(ctx context.Context, chatID int64, what interface{}, opts ...interface{}) (*telebot.Message, error) {
	if err := t.wait(ctx, chatID); err != nil {
		return nil, err
	}
	return t.bot.Send(telebot.ChatID(chatID), what, opts...)
}

func (t *TelegramRateLimiter) Edit(ctx context.Context, msg *telebot.Message, what interface{}, opts ...interface{}) (*telebot.Message, error) {
	if msg == nil {
		return nil, fmt.Errorf("no message to edit")
	}
	if err := t.wait(ctx, msg.Chat.ID); err != nil {
		return nil, err
	}
	return t.bot.Edit(msg, what, opts...)
}

func (t *TelegramRateLimiter) wait(ctx context.Context, chatID int64) error {
	if err := t.chatLimiters.GetLimiter(fmt.Sprintf(common.KEY_RATE_LIMIT_CHAT, chatID)).Wait(ctx); err != nil {
		t.log.ErrorContext(ctx, "Failed to wait for chat rate limit", logger.ErrorField(err))
		return err
	}
	if err := t.globalLimiter.Wait(ctx); err != nil {
		t.log.ErrorContext(ctx, "Failed to wait for global rate limit", logger.ErrorField(err))
		return err
	}
	return nil
}

// StartCleanupExpired drops idle chat buckets every interval until ctx ends.
func (t *TelegramRateLimiter) StartCleanupExpired(ctx context.Context, interval time.Duration) {
	utils.GoSafe(func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				t.log.Info("Received signal to stop Telegram rate limiter cleanup")
				return
			case <-ticker.C:
				if removed := t.chatLimiters.Prune(interval); removed > 0 {
					t.log.Debug("Pruned idle chat limiters", logger.IntField("removed", removed))
				}
			}
		}
	})
}
