package http

import (
	"net/http"

	"smc-analyzer/internal/dto"
	"smc-analyzer/pkg/logger"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupHealth(base *echo.Group) {
	base.GET("/v1/health", h.Health)
}

// Health reports whether the analysis service answers.
func (h *HttpAPIHandler) Health(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.service.AnalysisService.Ping(ctx); err != nil {
		h.log.WarnContext(ctx, "Analysis service unreachable", logger.ErrorField(err))
		return c.JSON(http.StatusServiceUnavailable, dto.NewBaseResponse(http.StatusServiceUnavailable, "analysis service unreachable", nil))
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("ok", nil))
}
