package telegram

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"smc-analyzer/internal/dto"
	"smc-analyzer/pkg/cache"
	"smc-analyzer/pkg/common"
	"smc-analyzer/pkg/logger"
	"smc-analyzer/pkg/middleware"

	"github.com/labstack/echo/v4"
	"gopkg.in/telebot.v3"
)

func (t *TelegramBotHandler) WithContext(handler func(ctx context.Context, c telebot.Context) error) func(c telebot.Context) error {
	return middleware.WithContext(t.ctx, t.cfg.Telegram.TimeoutDuration, handler)
}

func (t *TelegramBotHandler) RegisterHandlers() {
	t.echo.POST("/api/v1/telegram/webhook", func(c echo.Context) error {
		var update telebot.Update
		if err := c.Bind(&update); err != nil {
			t.log.ErrorContext(t.ctx, "Cannot bind JSON", logger.ErrorField(err))
			badRequest := dto.NewBadRequestResponse(err.Error())
			return c.JSON(http.StatusBadRequest, badRequest)
		}
		t.bot.ProcessUpdate(update)
		return c.JSON(http.StatusOK, dto.NewBaseResponse(http.StatusOK, "ok", nil))
	})

	t.bot.Handle("/start", t.WithContext(t.handleStart), t.IsOnConversationMiddleware())
	t.bot.Handle("/help", t.WithContext(t.handleHelp), t.IsOnConversationMiddleware())
	t.bot.Handle("/analyze", t.WithContext(t.handleStartAnalyze), t.IsOnConversationMiddleware())
	t.bot.Handle("/cancel", t.WithContext(t.handleCancel))
	t.bot.Handle(&btnReanalyze, t.WithContext(t.handleBtnReanalyze))
	t.bot.Handle(&btnCancel, t.WithContext(t.handleCancel))
	t.bot.Handle(telebot.OnText, t.WithContext(t.handleConversation))
}

func (t *TelegramBotHandler) handleStart(ctx context.Context, c telebot.Context) error {
	message := `👋 <b>Welcome to the SMC Analyzer bot!</b> 🤖
I read the market structure of a forex pair on the 1-minute chart and tell you where price may react.

🔧 Commands:

📈 /analyze - Analyze a pair (or /analyze EURUSD directly)
🆘 /help - Show the usage guide
❌ /cancel - Cancel the running command

🚀 <b>Ready?</b> Try /analyze EURUSD for your first analysis!`
	return c.Send(message, &telebot.SendOptions{ParseMode: telebot.ModeHTML})
}

func (t *TelegramBotHandler) handleHelp(ctx context.Context, c telebot.Context) error {
	message := `❓ <b>How to use the SMC Analyzer bot</b> ❓

Every analysis shows:
• the ICT context: active kill zone and whether price sits in the premium or discount half of the range
• the 1-minute structure: trend, BOS, CHoCH and the current signal
• the closest order block, FVG, liquidity, sweep and structure shift
• ranked reaction levels with confidence, distance in pips and freshness
• the final recommendation

💡 <b>Tips:</b>
1. Send a new pair while one is still loading; only the latest request is shown
2. The distance in pips depends on the pair's pip size

📌 Use the signals as a reference only. <b>Do your own research!</b> 🔍`
	return c.Send(message, &telebot.SendOptions{ParseMode: telebot.ModeHTML})
}

func (t *TelegramBotHandler) handleConversation(ctx context.Context, c telebot.Context) error {
	userID := c.Sender().ID
	state, ok := cache.GetAs[int](t.inmemoryCache, fmt.Sprintf(common.KEY_USER_STATE, userID))
	if !ok || state == StateIdle {
		return t.handleTextMessage(ctx, c)
	}

	switch state {
	case StateWaitingAnalyzeSymbol:
		return t.handleAnalyzeSymbol(ctx, c)
	default:
		t.ResetUserState(userID)
		_, err := t.telegram.Send(ctx, c.Chat().ID, "You are not in an active conversation. Use /help to see the available commands.")
		return err
	}
}

func (t *TelegramBotHandler) handleTextMessage(ctx context.Context, c telebot.Context) error {
	if !strings.HasPrefix(c.Text(), "/") {
		return c.Send(messageUnknownText)
	}
	return nil
}

func (t *TelegramBotHandler) ResetUserState(userID int64) {
	t.inmemoryCache.Delete(fmt.Sprintf(common.KEY_USER_STATE, userID))
}

func (t *TelegramBotHandler) IsOnConversationMiddleware() telebot.MiddlewareFunc {
	return func(next telebot.HandlerFunc) telebot.HandlerFunc {
		return func(c telebot.Context) error {
			if _, inConversation := cache.GetAs[int](t.inmemoryCache, fmt.Sprintf(common.KEY_USER_STATE, c.Sender().ID)); inConversation {
				t.ResetUserState(c.Sender().ID)
			}
			return next(c)
		}
	}
}

func (t *TelegramBotHandler) handleCancel(ctx context.Context, c telebot.Context) error {
	userID := c.Sender().ID
	defer t.ResetUserState(userID)

	if c.Callback() != nil {
		_ = c.Respond()
		_, err := t.telegram.Edit(ctx, c.Message(), messageCancelled)
		return err
	}

	if state, ok := cache.GetAs[int](t.inmemoryCache, fmt.Sprintf(common.KEY_USER_STATE, userID)); ok && state != StateIdle {
		return c.Send(messageCancelled)
	}
	return nil
}
