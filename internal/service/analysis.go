package service

import (
	"context"
	"errors"
	"fmt"

	"smc-analyzer/internal/dto"
	"smc-analyzer/internal/interpreter"
	"smc-analyzer/internal/repository"
	"smc-analyzer/internal/session"
	"smc-analyzer/pkg/logger"

	goValidator "github.com/go-playground/validator/v10"
)

var ErrInvalidSymbol = errors.New("symbol is required")

type AnalysisService interface {
	// Analyze runs request -> interpret once, without touching any session.
	Analyze(ctx context.Context, symbol string) (interpreter.ViewModel, error)
	// Submit runs the pipeline for sess and returns the state it produced.
	// It returns session.ErrStale when a newer submission took over meanwhile.
	Submit(ctx context.Context, sess *session.Session, symbol string) (session.State, error)
	Ping(ctx context.Context) error
}

type analysisService struct {
	log          *logger.Logger
	validator    *goValidator.Validate
	analysisRepo repository.AnalysisRepository
	interpreter  *interpreter.Interpreter
}

func NewAnalysisService(log *logger.Logger, analysisRepo repository.AnalysisRepository, in *interpreter.Interpreter) *analysisService {
	return &analysisService{
		log:          log,
		validator:    dto.NewValidator(),
		analysisRepo: analysisRepo,
		interpreter:  in,
	}
}

// normalizeSymbol rejects input the analysis service would never be asked
// about, so it is reported as ErrInvalidSymbol rather than a failed call.
func (s *analysisService) normalizeSymbol(symbol string) (string, error) {
	req := dto.AnalyzeRequest{Symbol: dto.NormalizeSymbol(symbol)}
	if req.Symbol == "" {
		return "", ErrInvalidSymbol
	}
	if err := s.validator.Struct(req); err != nil {
		s.log.Debug("Rejected symbol", logger.StringField("symbol", req.Symbol), logger.ErrorField(err))
		return "", fmt.Errorf("%w: %q is not a valid pair code", ErrInvalidSymbol, req.Symbol)
	}
	return req.Symbol, nil
}

func (s *analysisService) Analyze(ctx context.Context, symbol string) (interpreter.ViewModel, error) {
	symbol, err := s.normalizeSymbol(symbol)
	if err != nil {
		return interpreter.ViewModel{}, err
	}

	raw, err := s.analysisRepo.Analyze(ctx, symbol)
	if err != nil {
		return interpreter.ViewModel{}, fmt.Errorf("analyze %s: %w", symbol, err)
	}

	return s.interpreter.Interpret(raw), nil
}

func (s *analysisService) Submit(ctx context.Context, sess *session.Session, symbol string) (session.State, error) {
	symbol, err := s.normalizeSymbol(symbol)
	if err != nil {
		return sess.Current(), err
	}

	ticket, err := sess.Begin(ctx, symbol)
	if err != nil {
		return session.State{}, err
	}
	log := s.log.With(logger.StringField("symbol", symbol), logger.Uint64Field("seq", ticket.Seq))
	log.DebugContext(ctx, "Submission started")

	view, err := s.Analyze(ticket.Ctx, symbol)
	if err != nil {
		log.WarnContext(ctx, "Submission failed", logger.ErrorField(err))
		err = sess.Fail(ticket, dto.MessageTransportFailure)
	} else {
		err = sess.Succeed(ticket, view)
	}

	if err != nil {
		if errors.Is(err, session.ErrStale) {
			log.DebugContext(ctx, "Discarded stale resolution")
		}
		return session.State{}, err
	}
	return sess.Current(), nil
}

func (s *analysisService) Ping(ctx context.Context) error {
	return s.analysisRepo.Ping(ctx)
}
