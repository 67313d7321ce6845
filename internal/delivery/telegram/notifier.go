package telegram

import (
	"context"
	"fmt"

	"smc-analyzer/internal/dto"
	"smc-analyzer/internal/presenter"
	"smc-analyzer/internal/service"
	"smc-analyzer/pkg/logger"
	"smc-analyzer/pkg/telegram"

	"gopkg.in/telebot.v3"
)

// WatchlistNotifier posts every watchlist result to one chat.
type WatchlistNotifier struct {
	log      *logger.Logger
	telegram *telegram.TelegramRateLimiter
	chatID   int64
	renderer *presenter.Telegram
}

func NewWatchlistNotifier(log *logger.Logger, telegram *telegram.TelegramRateLimiter, chatID int64) *WatchlistNotifier {
	return &WatchlistNotifier{
		log:      log,
		telegram: telegram,
		chatID:   chatID,
		renderer: presenter.NewTelegram(),
	}
}

func (n *WatchlistNotifier) Notify(ctx context.Context, result service.WatchlistResult) error {
	_, err := n.telegram.Send(ctx, n.chatID, watchlistText(n.renderer, result), telebot.ModeHTML)
	if err != nil {
		n.log.ErrorContext(ctx, "Failed to send watchlist result", logger.StringField("symbol", result.Symbol), logger.ErrorField(err))
	}
	return err
}

func watchlistText(r presenter.Renderer, result service.WatchlistResult) string {
	if result.Err != nil {
		return fmt.Sprintf("%s\n%s", result.Symbol, r.RenderFailure(dto.MessageTransportFailure))
	}
	return r.Render(presenter.Build(result.View))
}
