package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/agrimandi/advisor/internal/agent"
)

// Analyzer is the orchestrator contract the handler depends on.
type Analyzer interface {
	Analyze(ctx context.Context, req agent.AnalysisRequest) (agent.AnalysisResponse, error)
}

// AnalyzeHandler serves the analysis endpoint.
type AnalyzeHandler struct {
	Orch Analyzer
}

// Register mounts the handler routes on the group.
func (h *AnalyzeHandler) Register(g *echo.Group) {
	g.POST("/analyze", h.analyze)
}

func (h *AnalyzeHandler) analyze(c echo.Context) error {
	var req agent.AnalysisRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	resp, err := h.Orch.Analyze(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, agent.ErrInvalidInput) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		// The orchestrator absorbs every downstream failure; anything else
		// reaching here is a programming error.
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, resp)
}
