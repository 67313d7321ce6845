package telegram

import (
	"context"
	"errors"
	"fmt"

	"smc-analyzer/internal/dto"
	"smc-analyzer/internal/presenter"
	"smc-analyzer/internal/service"
	"smc-analyzer/internal/session"
	"smc-analyzer/pkg/cache"
	"smc-analyzer/pkg/common"
	"smc-analyzer/pkg/logger"
	"smc-analyzer/pkg/utils"

	"gopkg.in/telebot.v3"
)

func (t *TelegramBotHandler) handleStartAnalyze(ctx context.Context, c telebot.Context) error {
	if symbol := dto.NormalizeSymbol(c.Message().Payload); symbol != "" {
		return t.showAnalysisWithLoading(ctx, c, symbol)
	}

	userID := c.Sender().ID
	t.inmemoryCache.Set(fmt.Sprintf(common.KEY_USER_STATE, userID), StateWaitingAnalyzeSymbol, t.cfg.Cache.TelegramStateExpDuration)

	lastSymbol, _ := cache.GetAs[string](t.inmemoryCache, fmt.Sprintf(common.KEY_USER_SYMBOL, userID))
	return c.Send(messageAskSymbol, reanalyzeMenu(lastSymbol))
}

func (t *TelegramBotHandler) handleAnalyzeSymbol(ctx context.Context, c telebot.Context) error {
	defer t.ResetUserState(c.Sender().ID)

	symbol := dto.NormalizeSymbol(c.Text())
	if symbol == "" {
		return c.Send(messageAskSymbol)
	}
	return t.showAnalysisWithLoading(ctx, c, symbol)
}

func (t *TelegramBotHandler) handleBtnReanalyze(ctx context.Context, c telebot.Context) error {
	defer t.ResetUserState(c.Sender().ID)
	_ = c.Respond()

	symbol := dto.NormalizeSymbol(c.Data())
	if symbol == "" {
		return c.Send(messageAskSymbol)
	}
	return t.showAnalysisWithLoading(ctx, c, symbol)
}

// showAnalysisWithLoading posts a loading message and edits it with the
// outcome once the chat's session resolves. A submission overtaken by a
// newer one in the same chat is marked superseded instead.
func (t *TelegramBotHandler) showAnalysisWithLoading(ctx context.Context, c telebot.Context, symbol string) error {
	chatID := c.Chat().ID
	t.inmemoryCache.Set(fmt.Sprintf(common.KEY_USER_SYMBOL, c.Sender().ID), symbol, 0)

	msg, err := t.telegram.Send(ctx, chatID, t.renderer.RenderLoading(symbol), telebot.ModeHTML)
	if err != nil {
		t.log.ErrorContext(ctx, "Failed to send loading message", logger.ErrorField(err))
		return err
	}

	sess := t.sessions.Get(fmt.Sprintf(common.KEY_CHAT_SESSION, chatID))

	utils.GoSafe(func() {
		newCtx, cancel := context.WithTimeout(t.ctx, t.cfg.Telegram.TimeoutDuration)
		defer cancel()

		state, err := t.service.AnalysisService.Submit(newCtx, sess, symbol)
		text := t.resultText(state, err)
		if text == "" {
			return
		}

		if _, err := t.telegram.Edit(newCtx, msg, text, telebot.ModeHTML); err != nil {
			t.log.ErrorContext(newCtx, "Failed to show analysis", logger.StringField("symbol", symbol), logger.ErrorField(err))
		}
	})

	return nil
}

func (t *TelegramBotHandler) resultText(state session.State, err error) string {
	switch {
	case err == nil:
		return presenter.RenderState(t.renderer, state)
	case errors.Is(err, session.ErrStale):
		return messageSuperseded
	case errors.Is(err, session.ErrClosed):
		return ""
	case errors.Is(err, service.ErrInvalidSymbol):
		return messageAskSymbol
	default:
		t.log.Error("Failed to submit analysis", logger.ErrorField(err))
		return t.renderer.RenderFailure(commonErrorInternal)
	}
}
