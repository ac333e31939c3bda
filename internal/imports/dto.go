package imports

import (
	"io"
	"time"
)

// ImportStats is the summary of one run. Errors keeps the order in which
// failures were met.
type ImportStats struct {
	ProductsProcessed int      `json:"products_processed"`
	ProductsInserted  int      `json:"products_inserted"`
	ProductsUpdated   int      `json:"products_updated"`
	PricesInserted    int      `json:"prices_inserted"`
	PricesUpdated     int      `json:"prices_updated"`
	CategoriesFound   int      `json:"categories_found"`
	Errors            []string `json:"errors"`
}

type ImportInput struct {
	Filename string
	Size     int64
	File     io.Reader
}

type ImportResult struct {
	RunID string      `json:"run_id"`
	Stats ImportStats `json:"stats"`
}

// ImportResponse is the body of POST /api/import.
type ImportResponse struct {
	Success bool         `json:"success"`
	RunID   string       `json:"run_id,omitempty"`
	Stats   *ImportStats `json:"stats,omitempty"`
	Error   string       `json:"error,omitempty"`
	Details string       `json:"details,omitempty"`
}

type RunState string

const (
	RunStateRunning   RunState = "running"
	RunStateCompleted RunState = "completed"
	RunStateFailed    RunState = "failed"
)

// RunStatus is the last known state of a run, kept in redis for polling.
type RunStatus struct {
	RunID      string      `json:"run_id"`
	State      RunState    `json:"state"`
	Filename   string      `json:"filename"`
	Stats      ImportStats `json:"stats"`
	Error      string      `json:"error,omitempty"`
	StartedAt  time.Time   `json:"started_at"`
	FinishedAt *time.Time  `json:"finished_at,omitempty"`
}

// SSE Progress Event Types
type ProgressEventType string

const (
	EventImportStart    ProgressEventType = "import_start"
	EventProductSuccess ProgressEventType = "product_success"
	EventProductError   ProgressEventType = "product_error"
	EventBatchComplete  ProgressEventType = "batch_complete"
	EventComplete       ProgressEventType = "complete"
)

// ProgressEvent represents an SSE event for import progress
type ProgressEvent struct {
	Type    ProgressEventType `json:"type"`
	RunID   string            `json:"run_id"`
	Code    string            `json:"code,omitempty"`
	Row     int               `json:"row,omitempty"`
	Index   int               `json:"index"`
	Total   int               `json:"total"`
	Batch   int               `json:"batch,omitempty"`
	Batches int               `json:"batches,omitempty"`
	Message string            `json:"message,omitempty"`
	Stats   *ImportStats      `json:"stats,omitempty"`
}

// ProgressCallback is called for each progress update during import
type ProgressCallback func(event ProgressEvent)
