package service

import (
	"context"
	"fmt"
	"sync"

	"smc-analyzer/config"
	"smc-analyzer/internal/interpreter"
	"smc-analyzer/pkg/logger"
	"smc-analyzer/pkg/utils"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"
)

// WatchlistResult is the outcome for one configured symbol. Err holds
// failures of the call itself; service-reported errors live in View.Error.
type WatchlistResult struct {
	Symbol string
	View   interpreter.ViewModel
	Err    error
}

// Notifier receives every watchlist result.
type Notifier interface {
	Notify(ctx context.Context, result WatchlistResult) error
}

type WatchlistService interface {
	Start(ctx context.Context) error
	Stop()
	RunOnce(ctx context.Context) []WatchlistResult
}

type watchlistService struct {
	cfg      *config.Config
	log      *logger.Logger
	analysis AnalysisService
	notifier Notifier
	cron     *cron.Cron

	mu      sync.Mutex
	running bool
}

func NewWatchlistService(cfg *config.Config, log *logger.Logger, analysis AnalysisService, notifier Notifier) *watchlistService {
	return &watchlistService{
		cfg:      cfg,
		log:      log,
		analysis: analysis,
		notifier: notifier,
		cron:     cron.New(),
	}
}

func (s *watchlistService) Start(ctx context.Context) error {
	if !s.cfg.Watchlist.Enabled {
		s.log.Info("Watchlist scheduler is disabled")
		return nil
	}

	_, err := s.cron.AddFunc(s.cfg.Watchlist.Cron, func() {
		s.tick(ctx)
	})
	if err != nil {
		return fmt.Errorf("invalid watchlist cron %q: %w", s.cfg.Watchlist.Cron, err)
	}

	s.log.Info("Starting watchlist scheduler",
		logger.StringField("cron", s.cfg.Watchlist.Cron),
		logger.Field("symbols", s.cfg.Watchlist.Symbols),
	)
	s.cron.Start()
	return nil
}

func (s *watchlistService) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("Watchlist scheduler stopped")
}

// tick skips a run while the previous one is still going.
func (s *watchlistService) tick(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.log.WarnContext(ctx, "Previous watchlist run still in progress, skipping")
		return
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	s.RunOnce(ctx)
}

// RunOnce analyses every configured symbol with bounded concurrency and
// returns results in configuration order.
func (s *watchlistService) RunOnce(ctx context.Context) []WatchlistResult {
	symbols := s.cfg.Watchlist.Symbols
	results := make([]WatchlistResult, len(symbols))

	limit := s.cfg.Watchlist.MaxConcurrency
	if limit <= 0 {
		limit = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for idx, symbol := range symbols {
		idx, symbol := idx, symbol
		g.Go(func() error {
			if !utils.ShouldContinue(gctx, s.log) {
				results[idx] = WatchlistResult{Symbol: symbol, Err: gctx.Err()}
				return nil
			}

			view, err := s.analysis.Analyze(gctx, symbol)
			results[idx] = WatchlistResult{Symbol: symbol, View: view, Err: err}
			if err != nil {
				s.log.WarnContext(gctx, "Watchlist analysis failed",
					logger.StringField("symbol", symbol),
					logger.ErrorField(err),
				)
			}
			return nil
		})
	}
	_ = g.Wait()

	if s.notifier != nil {
		for _, result := range results {
			if err := s.notifier.Notify(ctx, result); err != nil {
				s.log.ErrorContext(ctx, "Failed to notify watchlist result",
					logger.StringField("symbol", result.Symbol),
					logger.ErrorField(err),
				)
			}
		}
	}

	s.log.InfoContext(ctx, "Watchlist run completed", logger.IntField("symbol_count", len(symbols)))
	return results
}

// LogNotifier writes watchlist results to the log when no chat is configured.
type LogNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(ctx context.Context, result WatchlistResult) error {
	switch {
	case result.Err != nil:
		n.log.WarnContext(ctx, "Watchlist result unavailable", logger.StringField("symbol", result.Symbol), logger.ErrorField(result.Err))
	case result.View.IsError():
		n.log.InfoContext(ctx, "Watchlist result", logger.StringField("symbol", result.Symbol), logger.StringField("error", result.View.Error))
	default:
		n.log.InfoContext(ctx, "Watchlist result",
			logger.StringField("symbol", result.Symbol),
			logger.StringField("action", result.View.Recommendation.Action),
			logger.IntField("confidence", result.View.Recommendation.Confidence),
		)
	}
	return nil
}
