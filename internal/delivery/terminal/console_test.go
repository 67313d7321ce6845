package terminal

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"smc-analyzer/internal/dto"
	"smc-analyzer/internal/interpreter"
	"smc-analyzer/internal/repository"
	"smc-analyzer/internal/service"
	"smc-analyzer/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	body string
	err  error
}

func (f *fakeRepo) Analyze(ctx context.Context, symbol string) (*dto.AnalysisResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	var resp dto.AnalysisResponse
	if err := json.Unmarshal([]byte(f.body), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (f *fakeRepo) Ping(ctx context.Context) error { return nil }

type scriptedPrompter struct {
	answers []string
	asked   [][]string
	out     *bytes.Buffer
	seen    []string
}

func (p *scriptedPrompter) AskSymbol(pairs []string, last string) (string, error) {
	p.asked = append(p.asked, pairs)
	if p.out != nil {
		p.seen = append(p.seen, p.out.String())
	}
	if len(p.answers) == 0 {
		return "", ErrQuit
	}
	next := p.answers[0]
	p.answers = p.answers[1:]
	return next, nil
}

const gbpusdPayload = `{
  "symbol": "GBPUSD",
  "current_price": 1.27000,
  "analysis_time": "2025-06-13 09:30:00",
  "structure_1min": {"trend": "bearish", "bos": false, "choch": true, "signal": ""},
  "reaction_levels": [],
  "active_kill_zone": {"name": "", "is_active": false, "priority": "low"},
  "closest_elements": {},
  "recommendation": {"action": "SELL", "entry_zone": "1.2710 - 1.2720", "confidence": 70, "reason": "Premium rejection"}
}`

func newConsole(repo *fakeRepo, prompter Prompter, out *bytes.Buffer) *Console {
	log := logger.NewNop()
	analysis := service.NewAnalysisService(log, repo, interpreter.New(interpreter.Options{}))
	return NewConsole(log, analysis, prompter, []string{"EURUSD", "GBPUSD"}, out)
}

func TestConsole_AnalyzeOnce(t *testing.T) {
	tests := []struct {
		name     string
		repo     *fakeRepo
		symbol   string
		wantErr  error
		contains string
	}{
		{name: "success", repo: &fakeRepo{body: gbpusdPayload}, symbol: "gbpusd", contains: "GBPUSD"},
		{name: "service error", repo: &fakeRepo{body: `{"error": "Market closed"}`}, symbol: "GBPUSD", contains: "Market closed"},
		{name: "transport failure", repo: &fakeRepo{err: repository.ErrTransport}, symbol: "GBPUSD", wantErr: ErrAnalysisFailed, contains: dto.MessageTransportFailure},
		{name: "empty symbol", repo: &fakeRepo{}, symbol: " ", wantErr: ErrAnalysisFailed, contains: service.ErrInvalidSymbol.Error()},
		{name: "overlong symbol", repo: &fakeRepo{err: repository.ErrTransport}, symbol: strings.Repeat("x", 21), wantErr: ErrAnalysisFailed, contains: "not a valid pair code"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := newConsole(tt.repo, &scriptedPrompter{}, &out).AnalyzeOnce(context.Background(), tt.symbol)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Contains(t, out.String(), tt.contains)
		})
	}
}

func TestConsole_Run(t *testing.T) {
	var out bytes.Buffer
	prompter := &scriptedPrompter{answers: []string{"GBPUSD"}}

	err := newConsole(&fakeRepo{body: gbpusdPayload}, prompter, &out).Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, prompter.asked, 2)
	assert.Equal(t, []string{"EURUSD", "GBPUSD"}, prompter.asked[0])
	assert.Contains(t, out.String(), "GBPUSD")
	assert.Contains(t, out.String(), "Premium rejection")
}

func TestConsole_RunPrintsBetweenPrompts(t *testing.T) {
	var out bytes.Buffer
	prompter := &scriptedPrompter{answers: []string{"gbpusd", strings.Repeat("x", 21)}, out: &out}

	err := newConsole(&fakeRepo{body: gbpusdPayload}, prompter, &out).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, prompter.seen, 3)
	assert.Empty(t, prompter.seen[0])
	assert.Contains(t, prompter.seen[1], "Premium rejection")
	assert.NotContains(t, prompter.seen[1], "not a valid pair code")
	assert.Contains(t, prompter.seen[2], "not a valid pair code")
	assert.NotContains(t, prompter.seen[2], dto.MessageTransportFailure)
	assert.Equal(t, prompter.seen[2], out.String())
}

func TestConsole_RunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := newConsole(&fakeRepo{body: gbpusdPayload}, &scriptedPrompter{answers: []string{"GBPUSD"}}, &out).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
