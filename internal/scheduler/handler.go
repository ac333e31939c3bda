package scheduler

import (
	"net/http"

	"github.com/freitasmatheusrn/pricelist-importer/pkg/rest"
	"github.com/labstack/echo/v4"
)

// Runner starts a scheduled import outside the cron schedule
type Runner interface {
	RunNow()
}

type Handler struct {
	runner Runner
}

// NewHandler accepts a nil runner when no source file is configured
func NewHandler(runner Runner) *Handler {
	return &Handler{runner: runner}
}

// RunImport handles POST /api/import/run
// Starts the configured import in the background, progress is logged and alerted as for cron runs
func (h *Handler) RunImport(c echo.Context) error {
	if h.runner == nil {
		return rest.NewApiErr("scheduled import is not configured", "conflict", http.StatusConflict, nil)
	}

	h.runner.RunNow()
	return c.JSON(http.StatusAccepted, map[string]string{"status": "started"})
}
