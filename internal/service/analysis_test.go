package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"

	"smc-analyzer/internal/dto"
	"smc-analyzer/internal/interpreter"
	"smc-analyzer/internal/repository"
	"smc-analyzer/internal/session"
	"smc-analyzer/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAnalysisRepo struct {
	mu       sync.Mutex
	calls    []string
	payloads map[string]string
	gate     map[string]chan struct{}
}

func (f *fakeAnalysisRepo) Analyze(ctx context.Context, symbol string) (*dto.AnalysisResponse, error) {
	f.mu.Lock()
	f.calls = append(f.calls, symbol)
	gate := f.gate[symbol]
	payload, ok := f.payloads[symbol]
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if !ok {
		return nil, fmt.Errorf("%w: status 500", repository.ErrTransport)
	}

	var resp dto.AnalysisResponse
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (f *fakeAnalysisRepo) Ping(ctx context.Context) error {
	return nil
}

func newFakeRepo(payloads map[string]string) *fakeAnalysisRepo {
	return &fakeAnalysisRepo{payloads: payloads, gate: map[string]chan struct{}{}}
}

func newTestAnalysisService(repo repository.AnalysisRepository) *analysisService {
	return NewAnalysisService(logger.NewNop(), repo, interpreter.New(interpreter.Options{}))
}

func TestAnalysisService_Analyze(t *testing.T) {
	repo := newFakeRepo(map[string]string{
		"EURUSD": `{"symbol":"EURUSD","current_price":1.105}`,
		"XAUXAU": `{"error":"Unsupported symbol"}`,
	})
	svc := newTestAnalysisService(repo)

	view, err := svc.Analyze(context.Background(), "eurusd")
	require.NoError(t, err)
	assert.Equal(t, "EURUSD", view.Symbol)
	assert.Equal(t, []string{"EURUSD"}, repo.calls, "symbol is upper-cased before the call")

	view, err = svc.Analyze(context.Background(), "XAUXAU")
	require.NoError(t, err, "service-reported errors are results, not failures")
	assert.Equal(t, "Unsupported symbol", view.Error)

	_, err = svc.Analyze(context.Background(), "GBPUSD")
	assert.ErrorIs(t, err, repository.ErrTransport)

	_, err = svc.Analyze(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrInvalidSymbol)
}

func TestAnalysisService_Submit(t *testing.T) {
	repo := newFakeRepo(map[string]string{"EURUSD": `{"symbol":"EURUSD","current_price":1.105}`})
	svc := newTestAnalysisService(repo)
	sess := session.New()

	state, err := svc.Submit(context.Background(), sess, "EURUSD")
	require.NoError(t, err)
	assert.Equal(t, session.StatusSucceeded, state.Status)

	state, err = svc.Submit(context.Background(), sess, "GBPUSD")
	require.NoError(t, err)
	assert.Equal(t, session.StatusFailed, state.Status)
	assert.Equal(t, dto.MessageTransportFailure, state.Reason, "transport cause is never surfaced")

	_, err = svc.Submit(context.Background(), sess, "")
	assert.ErrorIs(t, err, ErrInvalidSymbol)
	assert.Equal(t, session.StatusFailed, sess.Current().Status, "invalid input leaves state untouched")
}

func TestAnalysisService_RejectsOverlongSymbol(t *testing.T) {
	tests := []struct {
		name   string
		symbol string
	}{
		{name: "21 characters", symbol: strings.Repeat("x", 21)},
		{name: "21 characters after trimming", symbol: "  " + strings.Repeat("eur", 7) + "  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepo(nil)
			svc := newTestAnalysisService(repo)

			_, err := svc.Analyze(context.Background(), tt.symbol)
			assert.ErrorIs(t, err, ErrInvalidSymbol)
			assert.NotErrorIs(t, err, repository.ErrTransport)

			sess := session.New()
			state, err := svc.Submit(context.Background(), sess, tt.symbol)
			assert.ErrorIs(t, err, ErrInvalidSymbol)
			assert.Equal(t, session.StatusIdle, state.Status, "no submission was started")
			assert.Equal(t, session.StatusIdle, sess.Current().Status)
			assert.Empty(t, repo.calls, "the analysis service is never called")
		})
	}
}

func TestAnalysisService_AcceptsTwentyCharacterSymbol(t *testing.T) {
	symbol := strings.Repeat("A", 20)
	repo := newFakeRepo(map[string]string{symbol: `{"error":"Unsupported symbol"}`})

	view, err := newTestAnalysisService(repo).Analyze(context.Background(), symbol)
	require.NoError(t, err)
	assert.Equal(t, "Unsupported symbol", view.Error)
	assert.Equal(t, []string{symbol}, repo.calls)
}

func TestAnalysisService_SubmitDiscardsStale(t *testing.T) {
	repo := newFakeRepo(map[string]string{
		"EURUSD": `{"symbol":"EURUSD","current_price":1.105}`,
		"GBPUSD": `{"symbol":"GBPUSD","current_price":1.27}`,
	})
	slow := make(chan struct{})
	repo.gate["EURUSD"] = slow

	svc := newTestAnalysisService(repo)
	sess := session.New()

	slowDone := make(chan error, 1)
	go func() {
		_, err := svc.Submit(context.Background(), sess, "EURUSD")
		slowDone <- err
	}()

	require.Eventually(t, func() bool {
		return sess.Current().Status == session.StatusLoading
	}, timeoutWait, tick)

	state, err := svc.Submit(context.Background(), sess, "GBPUSD")
	require.NoError(t, err)
	assert.Equal(t, "GBPUSD", state.View.Symbol)

	close(slow)
	assert.ErrorIs(t, <-slowDone, session.ErrStale)

	final := sess.Current()
	assert.Equal(t, session.StatusSucceeded, final.Status)
	assert.Equal(t, "GBPUSD", final.View.Symbol, "the older request never overwrites the newer result")
}
