package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"smc-analyzer/internal/dto"
	"smc-analyzer/internal/presenter"
	"smc-analyzer/internal/service"
	"smc-analyzer/internal/session"
	"smc-analyzer/pkg/logger"
	"smc-analyzer/pkg/utils"
)

// ErrAnalysisFailed marks a one-shot run that could not show a result.
var ErrAnalysisFailed = errors.New("analysis failed")

type Console struct {
	log      *logger.Logger
	service  service.AnalysisService
	prompter Prompter
	pairs    []string
	renderer presenter.Renderer

	mu  sync.Mutex
	out io.Writer
}

func NewConsole(log *logger.Logger, analysis service.AnalysisService, prompter Prompter, pairs []string, out io.Writer) *Console {
	return &Console{
		log:      log,
		service:  analysis,
		prompter: prompter,
		pairs:    pairs,
		renderer: presenter.NewTerminal(),
		out:      out,
	}
}

func (c *Console) println(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, text)
}

// AnalyzeOnce prints the analysis of symbol. Service-reported errors are
// printed as results; only a failed call returns ErrAnalysisFailed.
func (c *Console) AnalyzeOnce(ctx context.Context, symbol string) error {
	c.println(c.renderer.RenderLoading(dto.NormalizeSymbol(symbol)))

	view, err := c.service.Analyze(ctx, symbol)
	if err != nil {
		c.log.DebugContext(ctx, "Analysis failed", logger.ErrorField(err))
		if errors.Is(err, service.ErrInvalidSymbol) {
			c.println(c.renderer.RenderFailure(err.Error()))
		} else {
			c.println(c.renderer.RenderFailure(dto.MessageTransportFailure))
		}
		return ErrAnalysisFailed
	}

	c.println(c.renderer.Render(presenter.Build(view)))
	return nil
}

// Run prompts for symbols until the user quits. Each submission resolves
// on the session before the next prompt is drawn, so output never lands on
// top of an active prompt.
func (c *Console) Run(ctx context.Context) error {
	sess := session.New()
	defer sess.Close()

	last := ""
	for {
		if !utils.ShouldContinue(ctx, c.log) {
			return ctx.Err()
		}

		symbol, err := c.prompter.AskSymbol(c.pairs, last)
		if errors.Is(err, ErrQuit) {
			return nil
		}
		if err != nil {
			return err
		}
		last = symbol

		c.println(c.renderer.RenderLoading(dto.NormalizeSymbol(symbol)))
		state, err := c.service.Submit(ctx, sess, symbol)
		switch {
		case errors.Is(err, service.ErrInvalidSymbol):
			c.println(c.renderer.RenderFailure(err.Error()))
		case err != nil:
			c.log.DebugContext(ctx, "Submission ended", logger.StringField("symbol", symbol), logger.ErrorField(err))
		default:
			if text := presenter.RenderState(c.renderer, state); text != "" {
				c.println(text)
			}
		}
	}
}
