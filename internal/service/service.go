package service

import (
	"smc-analyzer/config"
	"smc-analyzer/internal/interpreter"
	"smc-analyzer/internal/repository"
	"smc-analyzer/pkg/logger"

	"github.com/shopspring/decimal"
)

type Service struct {
	AnalysisService  AnalysisService
	WatchlistService WatchlistService
}

func NewService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	notifier Notifier,
) *Service {
	analysisService := NewAnalysisService(log, repo.AnalysisRepo, NewInterpreter(cfg))
	return &Service{
		AnalysisService:  analysisService,
		WatchlistService: NewWatchlistService(cfg, log, analysisService, notifier),
	}
}

// NewInterpreter builds the interpreter from the analysis pip settings.
func NewInterpreter(cfg *config.Config) *interpreter.Interpreter {
	pipSizes := make(map[string]decimal.Decimal, len(cfg.Analysis.PipSizes))
	for symbol, size := range cfg.Analysis.PipSizes {
		pipSizes[symbol] = decimal.NewFromFloat(size)
	}
	return interpreter.New(interpreter.Options{
		PipSize:  decimal.NewFromFloat(cfg.Analysis.PipSize),
		PipSizes: pipSizes,
	})
}
