package http

import (
	"errors"
	"net/http"

	"smc-analyzer/internal/dto"
	"smc-analyzer/internal/service"
	"smc-analyzer/pkg/logger"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupAnalysis(base *echo.Group) {
	v1 := base.Group("/v1/analyze")
	{
		v1.POST("", h.Analyze)
		v1.GET("/stream", h.AnalyzeStream)
	}
}

// Analyze runs one analysis. A service-reported error answers 422 with the
// service's message, a transport failure 502 with the fixed message.
func (h *HttpAPIHandler) Analyze(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.AnalyzeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}
	req.Symbol = dto.NormalizeSymbol(req.Symbol)
	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	view, err := h.service.AnalysisService.Analyze(ctx, req.Symbol)
	if err != nil {
		if errors.Is(err, service.ErrInvalidSymbol) {
			return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
		}
		h.log.WarnContext(ctx, "Analysis request failed", logger.StringField("symbol", req.Symbol), logger.ErrorField(err))
		return c.JSON(http.StatusBadGateway, dto.NewBaseResponse(http.StatusBadGateway, dto.MessageTransportFailure, nil))
	}

	if view.IsError() {
		return c.JSON(http.StatusUnprocessableEntity, dto.NewBaseResponse(http.StatusUnprocessableEntity, view.Error, nil))
	}

	return c.JSON(http.StatusOK, dto.NewSuccessResponse("ok", view))
}
