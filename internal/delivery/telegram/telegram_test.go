package telegram

import (
	"errors"
	"fmt"
	"testing"

	"smc-analyzer/internal/dto"
	"smc-analyzer/internal/interpreter"
	"smc-analyzer/internal/presenter"
	"smc-analyzer/internal/repository"
	"smc-analyzer/internal/service"
	"smc-analyzer/internal/session"
	"smc-analyzer/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func TestResultText(t *testing.T) {
	h := &TelegramBotHandler{log: logger.NewNop(), renderer: presenter.NewTelegram()}
	view := interpreter.ViewModel{Error: "No data for XXXYYY"}

	tests := []struct {
		name     string
		state    session.State
		err      error
		want     string
		contains string
	}{
		{name: "stale", err: session.ErrStale, want: messageSuperseded},
		{name: "closed", err: session.ErrClosed, want: ""},
		{name: "invalid symbol", err: service.ErrInvalidSymbol, want: messageAskSymbol},
		{name: "overlong symbol", err: fmt.Errorf("%w: %q is not a valid pair code", service.ErrInvalidSymbol, "XXXXXXXXXXXXXXXXXXXXX"), want: messageAskSymbol},
		{name: "unexpected", err: errors.New("boom"), contains: commonErrorInternal},
		{
			name:     "failed state",
			state:    session.State{Status: session.StatusFailed, Reason: dto.MessageTransportFailure},
			contains: dto.MessageTransportFailure,
		},
		{
			name:  "service error result",
			state: session.State{Status: session.StatusSucceeded, View: &view},
			want:  "No data for XXXYYY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := h.resultText(tt.state, tt.err)
			if tt.contains != "" {
				assert.Contains(t, got, tt.contains)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWatchlistText(t *testing.T) {
	r := presenter.NewTelegram()

	failed := watchlistText(r, service.WatchlistResult{Symbol: "EURUSD", Err: repository.ErrTransport})
	assert.Contains(t, failed, "EURUSD")
	assert.Contains(t, failed, dto.MessageTransportFailure)

	ok := watchlistText(r, service.WatchlistResult{Symbol: "EURUSD", View: interpreter.ViewModel{Symbol: "EURUSD"}})
	assert.Contains(t, ok, "EURUSD")
	assert.NotContains(t, ok, dto.MessageTransportFailure)
}

func TestReanalyzeMenu(t *testing.T) {
	menu := reanalyzeMenu("GBPUSD")
	assert.Len(t, menu.InlineKeyboard, 2)
	assert.Equal(t, "GBPUSD", menu.InlineKeyboard[0][0].Data)

	assert.Len(t, reanalyzeMenu("").InlineKeyboard, 1)
}
