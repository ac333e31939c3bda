package application

import (
	"errors"
	"net/http"

	"github.com/freitasmatheusrn/pricelist-importer/internal/imports"
	"github.com/freitasmatheusrn/pricelist-importer/pkg/rest"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func (app *Application) CustomErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var apiErr *rest.ApiErr
	var he *echo.HTTPError

	switch {
	case errors.As(err, &apiErr):
		app.Logger.Debug("api error",
			zap.Int("code", apiErr.Code),
			zap.String("message", apiErr.Message),
			zap.Any("causes", apiErr.Causes),
		)
	case errors.As(err, &he):
		message, ok := he.Message.(string)
		if !ok || he.Code == http.StatusUnauthorized {
			message = http.StatusText(he.Code)
		}
		apiErr = &rest.ApiErr{
			Message: message,
			Err:     http.StatusText(he.Code),
			Code:    he.Code,
		}
	default:
		app.Logger.Error("unhandled error", zap.Error(err))
		apiErr = rest.NewInternalServerError("internal server error")
	}

	// uploads answer in the import response shape, whatever failed
	if isUpload(c) {
		resp := imports.FailureResponse(apiErr)
		if apiErr.Code == http.StatusRequestEntityTooLarge {
			resp.Error = "File too large"
			resp.Details = "upload limit is " + app.Config.MaxUploadSize
		}
		if err := c.JSON(apiErr.Code, resp); err != nil {
			app.Logger.Error("failed to write error response", zap.Error(err))
		}
		return
	}

	// HEAD requests carry no body
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(apiErr.Code)
		return
	}
	if err := c.JSON(apiErr.Code, apiErr); err != nil {
		app.Logger.Error("failed to write error response", zap.Error(err))
	}
}

func isUpload(c echo.Context) bool {
	if c.Request().Method != http.MethodPost {
		return false
	}
	switch c.Request().URL.Path {
	case "/api/import", "/api/import/stream":
		return true
	}
	return false
}
