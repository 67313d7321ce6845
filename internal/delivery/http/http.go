package http

import (
	"context"

	"smc-analyzer/internal/presenter"
	"smc-analyzer/internal/service"
	"smc-analyzer/pkg/logger"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

type HttpAPIHandler struct {
	ctx       context.Context
	echo      *echo.Echo
	log       *logger.Logger
	validator *goValidator.Validate
	service   *service.Service
	renderer  presenter.Renderer
	upgrader  websocket.Upgrader
}

func NewHttpAPIHandler(ctx context.Context, echo *echo.Echo, log *logger.Logger, validator *goValidator.Validate, service *service.Service) *HttpAPIHandler {
	return &HttpAPIHandler{
		ctx:       ctx,
		echo:      echo,
		log:       log,
		validator: validator,
		service:   service,
		renderer:  presenter.NewTelegram(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

func (h *HttpAPIHandler) SetupRoutes() {
	base := h.echo.Group("/api")
	h.SetupAnalysis(base)
	h.SetupHealth(base)
	h.SetupWatchlist(base)
}
