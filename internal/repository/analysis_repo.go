package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"smc-analyzer/config"
	"smc-analyzer/internal/dto"
	"smc-analyzer/pkg/httpclient"
	"smc-analyzer/pkg/logger"

	goValidator "github.com/go-playground/validator/v10"
)

// ErrTransport marks a call that could not be completed: the request failed,
// the status was not 2xx, or the body was not a usable analysis payload.
// It is distinct from a service-reported {"error": ...} body.
var ErrTransport = errors.New("analysis service unreachable")

const analyzeEndpoint = "/analyze"

// AnalysisRepository is the gateway to the remote analysis service.
type AnalysisRepository interface {
	// Analyze issues exactly one POST /analyze for the upper-cased symbol.
	Analyze(ctx context.Context, symbol string) (*dto.AnalysisResponse, error)
	Ping(ctx context.Context) error
}

type analysisRepository struct {
	log        *logger.Logger
	validator  *goValidator.Validate
	httpClient httpclient.HTTPClient
}

func NewAnalysisRepository(cfg *config.Config, log *logger.Logger, validator *goValidator.Validate) *analysisRepository {
	return NewAnalysisRepositoryWithClient(
		httpclient.New(cfg.Analysis.BaseURL, cfg.Analysis.Timeout, ""),
		log,
		validator,
	)
}

func NewAnalysisRepositoryWithClient(client httpclient.HTTPClient, log *logger.Logger, validator *goValidator.Validate) *analysisRepository {
	return &analysisRepository{
		log:        log,
		validator:  validator,
		httpClient: client,
	}
}

func (r *analysisRepository) Analyze(ctx context.Context, symbol string) (*dto.AnalysisResponse, error) {
	req := dto.AnalyzeRequest{Symbol: dto.NormalizeSymbol(symbol)}
	if err := r.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid symbol %q: %w", symbol, err)
	}

	baseResponse, err := r.httpClient.Post(ctx, analyzeEndpoint, req, nil, nil)
	if err != nil {
		r.log.WarnContext(ctx, "Analysis request failed",
			logger.StringField("symbol", req.Symbol),
			logger.ErrorField(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	if !baseResponse.IsSuccess() {
		r.log.WarnContext(ctx, "Return NON-2xx response",
			logger.StringField("symbol", req.Symbol),
			logger.IntField("status_code", baseResponse.StatusCode),
		)
		return nil, fmt.Errorf("%w: status %d", ErrTransport, baseResponse.StatusCode)
	}

	var resp dto.AnalysisResponse
	if err := json.Unmarshal(baseResponse.Body, &resp); err != nil {
		r.log.WarnContext(ctx, "Undecodable analysis payload",
			logger.StringField("symbol", req.Symbol),
			logger.ErrorField(err),
		)
		return nil, fmt.Errorf("%w: decode payload: %v", ErrTransport, err)
	}

	if resp.IsError() {
		r.log.InfoContext(ctx, "Analysis service reported an error",
			logger.StringField("symbol", req.Symbol),
			logger.StringField("error", resp.ErrorMessage()),
		)
		return &resp, nil
	}

	if err := r.validator.Struct(resp.AnalysisResult); err != nil {
		r.log.WarnContext(ctx, "Invalid analysis payload",
			logger.StringField("symbol", req.Symbol),
			logger.ErrorField(err),
		)
		return nil, fmt.Errorf("%w: invalid payload: %v", ErrTransport, err)
	}

	return &resp, nil
}

// Ping checks the service root answers with 2xx.
func (r *analysisRepository) Ping(ctx context.Context) error {
	baseResponse, err := r.httpClient.Get(ctx, "/", nil, nil, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	if !baseResponse.IsSuccess() {
		return fmt.Errorf("%w: status %d", ErrTransport, baseResponse.StatusCode)
	}
	return nil
}
