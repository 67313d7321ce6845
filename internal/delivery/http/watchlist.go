package http

import (
	"net/http"

	"smc-analyzer/internal/dto"
	"smc-analyzer/internal/interpreter"
	"smc-analyzer/internal/service"

	"github.com/labstack/echo/v4"
)

type WatchlistEntry struct {
	Symbol string                 `json:"symbol"`
	View   *interpreter.ViewModel `json:"view,omitempty"`
	Error  string                 `json:"error,omitempty"`
}

func (h *HttpAPIHandler) SetupWatchlist(base *echo.Group) {
	v1 := base.Group("/v1/watchlist")
	{
		v1.POST("/run", h.RunWatchlist)
	}
}

// RunWatchlist analyses the configured watchlist right away and notifies
// like a scheduled run would.
func (h *HttpAPIHandler) RunWatchlist(c echo.Context) error {
	results := h.service.WatchlistService.RunOnce(c.Request().Context())
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Watchlist run completed", toWatchlistEntries(results)))
}

func toWatchlistEntries(results []service.WatchlistResult) []WatchlistEntry {
	entries := make([]WatchlistEntry, 0, len(results))
	for _, result := range results {
		entry := WatchlistEntry{Symbol: result.Symbol}
		if result.Err != nil {
			entry.Error = dto.MessageTransportFailure
		} else {
			view := result.View
			entry.View = &view
		}
		entries = append(entries, entry)
	}
	return entries
}
