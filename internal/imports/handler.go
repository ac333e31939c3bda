package imports

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/freitasmatheusrn/pricelist-importer/pkg/rest"
	"github.com/labstack/echo/v4"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// ImportSpreadsheet handles POST /api/import
// Imports a price list workbook sent as the multipart field "file"
func (h *Handler) ImportSpreadsheet(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ImportResponse{Error: "No file uploaded"})
	}

	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ImportResponse{
			Error:   "Failed to open uploaded file",
			Details: err.Error(),
		})
	}
	defer src.Close()

	input := ImportInput{Filename: file.Filename, Size: file.Size, File: src}
	result, apiErr := h.service.ImportFromSpreadsheet(c.Request().Context(), input, nil)
	if apiErr != nil {
		return c.JSON(apiErr.Code, FailureResponse(apiErr))
	}

	return c.JSON(http.StatusOK, ImportResponse{
		Success: true,
		RunID:   result.RunID,
		Stats:   &result.Stats,
	})
}

// ImportSpreadsheetSSE handles POST /api/import/stream
// Same input as ImportSpreadsheet, progress is streamed as Server-Sent Events
func (h *Handler) ImportSpreadsheetSSE(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ImportResponse{Error: "No file uploaded"})
	}

	flusher, ok := c.Response().Writer.(http.Flusher)
	if !ok {
		return rest.NewInternalServerError("streaming not supported")
	}

	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ImportResponse{
			Error:   "Failed to open uploaded file",
			Details: err.Error(),
		})
	}

	c.Response().Header().Set("Content-Type", "text/event-stream")
	c.Response().Header().Set("Cache-Control", "no-cache")
	c.Response().Header().Set("Connection", "keep-alive")
	c.Response().Header().Set("X-Accel-Buffering", "no")
	c.Response().WriteHeader(http.StatusOK)

	eventChan := make(chan ProgressEvent, 10)
	done := make(chan struct{})

	onProgress := func(event ProgressEvent) {
		select {
		case eventChan <- event:
		case <-done:
		}
	}

	ctx := c.Request().Context()
	input := ImportInput{Filename: file.Filename, Size: file.Size, File: src}

	// the goroutine owns src: the run outlives a disconnected client
	go func() {
		defer close(eventChan)
		defer src.Close()
		if _, apiErr := h.service.ImportFromSpreadsheet(ctx, input, onProgress); apiErr != nil {
			onProgress(ProgressEvent{
				Type:    EventComplete,
				Message: failureMessage(apiErr),
			})
		}
	}()

	for {
		select {
		case event, ok := <-eventChan:
			if !ok {
				return nil
			}

			data, err := json.Marshal(event)
			if err != nil {
				continue
			}

			fmt.Fprintf(c.Response(), "event: %s\n", event.Type)
			fmt.Fprintf(c.Response(), "data: %s\n\n", data)
			flusher.Flush()

		case <-ctx.Done():
			close(done)
			return nil
		}
	}
}

// GetRunStatus handles GET /api/import/runs/:id
func (h *Handler) GetRunStatus(c echo.Context) error {
	runID := c.Param("id")
	if runID == "" {
		return rest.NewBadRequestError("run id is required")
	}

	status, apiErr := h.service.GetRunStatus(c.Request().Context(), runID)
	if apiErr != nil {
		return apiErr
	}

	return c.JSON(http.StatusOK, status)
}

func failureMessage(apiErr *rest.ApiErr) string {
	resp := FailureResponse(apiErr)
	if resp.Details == "" {
		return resp.Error
	}
	return resp.Error + ": " + resp.Details
}

// FailureResponse renders apiErr in the import response shape
func FailureResponse(apiErr *rest.ApiErr) ImportResponse {
	details := make([]string, 0, len(apiErr.Causes))
	for _, cause := range apiErr.Causes {
		details = append(details, cause.Message)
	}
	return ImportResponse{
		Error:   apiErr.Message,
		Details: strings.Join(details, "; "),
	}
}
