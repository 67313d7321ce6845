package repository

import (
	"smc-analyzer/config"
	"smc-analyzer/pkg/logger"

	goValidator "github.com/go-playground/validator/v10"
)

type Repository struct {
	AnalysisRepo AnalysisRepository
}

func NewRepository(cfg *config.Config, log *logger.Logger, validator *goValidator.Validate) *Repository {
	return &Repository{
		AnalysisRepo: NewAnalysisRepository(cfg, log, validator),
	}
}
