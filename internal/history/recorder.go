// Package history writes one import_history row per import run.
package history

import (
	"context"
	"fmt"
	"time"

	repo "github.com/freitasmatheusrn/pricelist-importer/internal/database/postgres/sqlc"
	"github.com/jackc/pgx/v5/pgtype"
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusPartial Status = "partial"
	StatusError   Status = "error"
)

// StatusFor classifies a run that completed with errorCount recoverable
// errors.
func StatusFor(errorCount int) Status {
	if errorCount > 0 {
		return StatusPartial
	}
	return StatusSuccess
}

type Entry struct {
	Filename     string
	FileSize     int64
	Records      int
	Duration     time.Duration
	Status       Status
	DateFrom     *time.Time
	DateTo       *time.Time
	ErrorMessage string
	Warnings     []string
}

type Store interface {
	CreateImportHistory(ctx context.Context, arg repo.CreateImportHistoryParams) (repo.ImportHistory, error)
}

type Recorder struct {
	store   Store
	timeout time.Duration
}

func NewRecorder(store Store, timeout time.Duration) *Recorder {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Recorder{store: store, timeout: timeout}
}

func (r *Recorder) Record(ctx context.Context, e Entry) error {
	warnings := e.Warnings
	if warnings == nil {
		warnings = []string{}
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.store.CreateImportHistory(ctx, repo.CreateImportHistoryParams{
		Filename:           e.Filename,
		FileSize:           e.FileSize,
		RecordsCount:       int32(e.Records),
		DurationMs:         e.Duration.Milliseconds(),
		Status:             string(e.Status),
		DateFrom:           toPgDate(e.DateFrom),
		DateTo:             toPgDate(e.DateTo),
		ErrorMessage:       toPgText(e.ErrorMessage),
		ValidationWarnings: warnings,
	})
	if err != nil {
		return fmt.Errorf("create import history: %w", err)
	}
	return nil
}

func toPgDate(t *time.Time) pgtype.Date {
	if t == nil {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: *t, Valid: true}
}

func toPgText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}
