package imports

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/freitasmatheusrn/pricelist-importer/internal/history"
	"github.com/freitasmatheusrn/pricelist-importer/internal/pricelist"
	"github.com/freitasmatheusrn/pricelist-importer/pkg/rest"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const statusTimeout = 3 * time.Second

type Service interface {
	ImportFromSpreadsheet(ctx context.Context, input ImportInput, onProgress ProgressCallback) (*ImportResult, *rest.ApiErr)
	GetRunStatus(ctx context.Context, runID string) (*RunStatus, *rest.ApiErr)
}

type HistoryRecorder interface {
	Record(ctx context.Context, entry history.Entry) error
}

type svc struct {
	engine    *Engine
	suppliers []pricelist.SupplierBinding
	statuses  StatusRepository
	history   HistoryRecorder
	logger    *zap.Logger
}

// NewService wires the import pipeline. statuses and recorder may be nil.
func NewService(engine *Engine, suppliers []pricelist.SupplierBinding, statuses StatusRepository, recorder HistoryRecorder, logger *zap.Logger) *svc {
	return &svc{
		engine:    engine,
		suppliers: suppliers,
		statuses:  statuses,
		history:   recorder,
		logger:    logger,
	}
}

// ImportFromSpreadsheet runs the whole pipeline over one workbook. Row,
// product and price failures end up in the returned stats; only a file
// that cannot be read fails the run.
func (s *svc) ImportFromSpreadsheet(ctx context.Context, input ImportInput, onProgress ProgressCallback) (*ImportResult, *rest.ApiErr) {
	// a started run always completes, even if the caller goes away
	ctx = context.WithoutCancel(ctx)

	emit := func(event ProgressEvent) {
		if onProgress != nil {
			onProgress(event)
		}
	}

	status := RunStatus{
		RunID:     uuid.NewString(),
		State:     RunStateRunning,
		Filename:  input.Filename,
		Stats:     ImportStats{Errors: []string{}},
		StartedAt: time.Now(),
	}
	s.saveStatus(ctx, status)

	if input.File == nil {
		apiErr := rest.NewBadRequestError("No file uploaded")
		s.finish(ctx, &status, input, status.Stats, errors.New(apiErr.Message))
		return nil, apiErr
	}

	grid, err := pricelist.ReadGrid(input.File)
	if err != nil {
		s.logger.Error("failed to read workbook",
			zap.String("run_id", status.RunID),
			zap.String("filename", input.Filename),
			zap.Error(err),
		)
		s.finish(ctx, &status, input, status.Stats, err)

		code, kind := http.StatusInternalServerError, "internal_server_error"
		if errors.Is(err, pricelist.ErrDecode) {
			code, kind = http.StatusBadRequest, "bad_request"
		}
		return nil, rest.NewApiErr("Failed to read workbook", kind, code, []rest.Causes{
			{Field: "file", Message: err.Error()},
		})
	}

	scan := pricelist.Scan(grid, s.suppliers)
	for _, rowErr := range scan.Errors {
		s.logger.Warn("skipping malformed row",
			zap.String("run_id", status.RunID),
			zap.Int("row", rowErr.Row),
			zap.Error(rowErr.Err),
		)
	}

	rep := NewReporter()
	rep.AddScan(scan)

	total := len(scan.Products)
	emit(ProgressEvent{
		Type:  EventImportStart,
		RunID: status.RunID,
		Total: total,
	})

	index := 0
	s.engine.Run(ctx, scan.Products, rep, func(b Batch) {
		for _, o := range b.Outcomes {
			index++
			event := ProgressEvent{
				Type:  EventProductSuccess,
				RunID: status.RunID,
				Code:  o.Record.Code,
				Row:   o.Record.Row,
				Index: index,
				Total: total,
			}
			switch {
			case o.Err != nil:
				event.Type = EventProductError
				event.Message = o.Err.Error()
			case o.PriceErrors() > 0:
				event.Message = fmt.Sprintf("%d of %d prices failed", o.PriceErrors(), len(o.Prices))
			}
			emit(event)
		}

		stats := rep.Snapshot()
		status.Stats = stats
		s.saveStatus(ctx, status)

		emit(ProgressEvent{
			Type:    EventBatchComplete,
			RunID:   status.RunID,
			Index:   index,
			Total:   total,
			Batch:   b.Index,
			Batches: b.Count,
			Stats:   &stats,
		})
	})

	stats := rep.Snapshot()
	s.finish(ctx, &status, input, stats, nil)

	s.logger.Info("import completed",
		zap.String("run_id", status.RunID),
		zap.String("filename", input.Filename),
		zap.Int("processed", stats.ProductsProcessed),
		zap.Int("inserted", stats.ProductsInserted),
		zap.Int("updated", stats.ProductsUpdated),
		zap.Int("prices_inserted", stats.PricesInserted),
		zap.Int("prices_updated", stats.PricesUpdated),
		zap.Int("categories", stats.CategoriesFound),
		zap.Int("errors", len(stats.Errors)),
		zap.Duration("duration", time.Since(status.StartedAt)),
	)

	emit(ProgressEvent{
		Type:  EventComplete,
		RunID: status.RunID,
		Index: total,
		Total: total,
		Stats: &stats,
	})

	return &ImportResult{RunID: status.RunID, Stats: stats}, nil
}

func (s *svc) GetRunStatus(ctx context.Context, runID string) (*RunStatus, *rest.ApiErr) {
	if s.statuses == nil {
		return nil, rest.NewNotFoundError("import run not found")
	}

	status, err := s.statuses.Get(ctx, runID)
	if err != nil {
		if errors.Is(err, ErrRunNotFound) {
			return nil, rest.NewNotFoundError("import run not found")
		}
		s.logger.Error("failed to get run status", zap.String("run_id", runID), zap.Error(err))
		return nil, rest.NewInternalServerError("failed to get run status")
	}
	return status, nil
}

// finish stores the final run status and writes the history record. A
// non-nil fatal marks the run as failed.
func (s *svc) finish(ctx context.Context, status *RunStatus, input ImportInput, stats ImportStats, fatal error) {
	finishedAt := time.Now()
	status.Stats = stats
	status.FinishedAt = &finishedAt

	entry := history.Entry{
		Filename: input.Filename,
		FileSize: input.Size,
		Records:  stats.ProductsProcessed,
		Duration: finishedAt.Sub(status.StartedAt),
		Warnings: stats.Errors,
	}
	if fatal != nil {
		status.State = RunStateFailed
		status.Error = fatal.Error()
		entry.Status = history.StatusError
		entry.ErrorMessage = fatal.Error()
	} else {
		status.State = RunStateCompleted
		entry.Status = history.StatusFor(len(stats.Errors))
	}

	s.saveStatus(ctx, *status)

	if s.history == nil {
		return
	}
	if err := s.history.Record(ctx, entry); err != nil {
		s.logger.Warn("failed to record import history",
			zap.String("run_id", status.RunID),
			zap.Error(err),
		)
	}
}

func (s *svc) saveStatus(ctx context.Context, status RunStatus) {
	if s.statuses == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, statusTimeout)
	defer cancel()

	if err := s.statuses.Save(ctx, status); err != nil {
		s.logger.Warn("failed to save run status",
			zap.String("run_id", status.RunID),
			zap.Error(err),
		)
	}
}
