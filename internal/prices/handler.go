package prices

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// ExportSpreadsheet handles GET /api/prices/export
// The file can be imported again unchanged
func (h *Handler) ExportSpreadsheet(c echo.Context) error {
	buf, apiErr := h.service.ExportToSpreadsheet(c.Request().Context())
	if apiErr != nil {
		return apiErr
	}

	filename := fmt.Sprintf("price-list-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}
