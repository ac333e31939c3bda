package scheduler

import (
	"context"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/freitasmatheusrn/pricelist-importer/internal/email"
	"github.com/freitasmatheusrn/pricelist-importer/internal/imports"
	"github.com/freitasmatheusrn/pricelist-importer/pkg/notification"
	"github.com/freitasmatheusrn/pricelist-importer/pkg/rest"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	failureSubject = "Price list import failed"
	partialSubject = "Price list import finished with errors"

	// maxListedErrors caps the error list of the partial run email.
	maxListedErrors = 20
)

// Importer runs one import of a price list workbook
type Importer interface {
	ImportFromSpreadsheet(ctx context.Context, input imports.ImportInput, onProgress imports.ProgressCallback) (*imports.ImportResult, *rest.ApiErr)
}

type Scheduler struct {
	cron            *cron.Cron
	importer        Importer
	sourcePath      string
	logger          *zap.Logger
	email           email.Email
	sms             notification.Notification
	alertRecipients []string
	alertPhones     []string
}

func NewScheduler(importer Importer, sourcePath string, logger *zap.Logger, e email.Email, sms notification.Notification, alertRecipients, alertPhones []string) *Scheduler {
	return &Scheduler{
		cron:            cron.New(cron.WithSeconds()),
		importer:        importer,
		sourcePath:      sourcePath,
		logger:          logger,
		email:           e,
		sms:             sms,
		alertRecipients: alertRecipients,
		alertPhones:     alertPhones,
	}
}

// Start registers the import job and starts the cron runner
// cronExpr uses 6 fields: seconds, minutes, hours, day of month, month, day of week
// Example: "0 0 3 * * *" runs at 3:00 AM every day
func (s *Scheduler) Start(cronExpr string) error {
	_, err := s.cron.AddFunc(cronExpr, s.runImportJob)
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started",
		zap.String("cron_expression", cronExpr),
		zap.String("source", s.sourcePath),
	)

	return nil
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("stopping scheduler")
	return s.cron.Stop()
}

// RunNow executes the import job immediately (for manual triggers)
func (s *Scheduler) RunNow() {
	go s.runImportJob()
}

// runImportJob imports the configured source file and alerts on failure
func (s *Scheduler) runImportJob() {
	s.logger.Info("starting scheduled import", zap.String("source", s.sourcePath))
	filename := filepath.Base(s.sourcePath)

	f, err := os.Open(s.sourcePath)
	if err != nil {
		s.notifyError(filename, "failed to open price list", err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		s.notifyError(filename, "failed to stat price list", err)
		return
	}

	// a run has no overall deadline; every store call carries its own timeout
	result, apiErr := s.importer.ImportFromSpreadsheet(context.Background(), imports.ImportInput{
		Filename: filename,
		Size:     info.Size(),
		File:     f,
	}, nil)
	if apiErr != nil {
		s.notifyError(filename, apiErr.Message, describe(apiErr))
		return
	}

	stats := result.Stats
	s.logger.Info("scheduled import completed",
		zap.String("run_id", result.RunID),
		zap.Int("processed", stats.ProductsProcessed),
		zap.Int("inserted", stats.ProductsInserted),
		zap.Int("updated", stats.ProductsUpdated),
		zap.Int("errors", len(stats.Errors)),
	)

	if len(stats.Errors) > 0 {
		s.sendPartialRunEmail(filename, result)
	}
}

func describe(apiErr *rest.ApiErr) error {
	if len(apiErr.Causes) == 0 {
		return apiErr
	}
	msgs := make([]string, 0, len(apiErr.Causes))
	for _, c := range apiErr.Causes {
		msgs = append(msgs, c.Message)
	}
	return fmt.Errorf("%s: %s", apiErr.Message, strings.Join(msgs, "; "))
}

// sendPartialRunEmail reports a run that completed with recorded errors
func (s *Scheduler) sendPartialRunEmail(filename string, result *imports.ImportResult) {
	if s.email == nil || len(s.alertRecipients) == 0 {
		s.logger.Warn("no email recipients configured, skipping partial run notification",
			zap.Int("errors", len(result.Stats.Errors)),
		)
		return
	}

	stats := result.Stats
	listed := stats.Errors
	if len(listed) > maxListedErrors {
		listed = listed[:maxListedErrors]
	}
	remaining := len(stats.Errors) - len(listed)

	var text strings.Builder
	fmt.Fprintf(&text, "Import of %s (run %s) finished with %d errors.\n\n", filename, result.RunID, len(stats.Errors))
	fmt.Fprintf(&text, "Processed: %d\nInserted: %d\nUpdated: %d\nPrices inserted: %d\nPrices updated: %d\n\n",
		stats.ProductsProcessed, stats.ProductsInserted, stats.ProductsUpdated, stats.PricesInserted, stats.PricesUpdated)
	for _, e := range listed {
		text.WriteString("- " + e + "\n")
	}
	if remaining > 0 {
		fmt.Fprintf(&text, "... and %d more\n", remaining)
	}

	var body strings.Builder
	body.WriteString(`<!DOCTYPE html>
<html>
<head>
	<style>
		body { font-family: Arial, sans-serif; }
		table { border-collapse: collapse; margin-top: 20px; }
		th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
		th { background-color: #548235; color: white; }
		li { color: #b71c1c; }
	</style>
</head>
<body>
`)
	fmt.Fprintf(&body, "\t<h2>Import of %s finished with %d errors</h2>\n", html.EscapeString(filename), len(stats.Errors))
	fmt.Fprintf(&body, "\t<p>Run %s</p>\n", html.EscapeString(result.RunID))
	body.WriteString("\t<table>\n")
	for _, row := range []struct {
		label string
		value int
	}{
		{"Processed", stats.ProductsProcessed},
		{"Inserted", stats.ProductsInserted},
		{"Updated", stats.ProductsUpdated},
		{"Prices inserted", stats.PricesInserted},
		{"Prices updated", stats.PricesUpdated},
	} {
		fmt.Fprintf(&body, "\t\t<tr><th>%s</th><td>%d</td></tr>\n", row.label, row.value)
	}
	body.WriteString("\t</table>\n\t<ul>\n")
	for _, e := range listed {
		fmt.Fprintf(&body, "\t\t<li>%s</li>\n", html.EscapeString(e))
	}
	body.WriteString("\t</ul>\n")
	if remaining > 0 {
		fmt.Fprintf(&body, "\t<p>... and %d more</p>\n", remaining)
	}
	body.WriteString("</body>\n</html>")

	if err := s.email.Send(partialSubject, text.String(), body.String(), s.alertRecipients); err != nil {
		s.logger.Error("failed to send partial run email",
			zap.Error(err),
			zap.Int("errors", len(stats.Errors)),
		)
		return
	}

	s.logger.Info("partial run email sent",
		zap.Int("errors", len(stats.Errors)),
		zap.Int("recipients_count", len(s.alertRecipients)),
	)
}

// notifyError logs a failed run and alerts by email and SMS
func (s *Scheduler) notifyError(filename, context string, err error) {
	s.logger.Error(context, zap.String("filename", filename), zap.Error(err))

	if s.email != nil && len(s.alertRecipients) > 0 {
		timestamp := time.Now().Format("2006-01-02 15:04:05")
		textBody := fmt.Sprintf("File: %s\nContext: %s\nError: %v\nTime: %s", filename, context, err, timestamp)
		htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
	<style>
		body { font-family: Arial, sans-serif; }
		.error-box { background-color: #ffebee; border-left: 4px solid #f44336; padding: 16px; margin: 20px 0; }
		.label { font-weight: bold; color: #333; }
		.value { color: #666; }
	</style>
</head>
<body>
	<h2 style="color: #f44336;">Price list import failed</h2>
	<div class="error-box">
		<p><span class="label">File:</span> <span class="value">%s</span></p>
		<p><span class="label">Context:</span> <span class="value">%s</span></p>
		<p><span class="label">Error:</span> <span class="value">%s</span></p>
		<p><span class="label">Time:</span> <span class="value">%s</span></p>
	</div>
</body>
</html>`, html.EscapeString(filename), html.EscapeString(context), html.EscapeString(err.Error()), timestamp)

		if sendErr := s.email.Send(failureSubject, textBody, htmlBody, s.alertRecipients); sendErr != nil {
			s.logger.Error("failed to send error notification email",
				zap.Error(sendErr),
				zap.String("original_error_context", context),
			)
		}
	}

	if s.sms == nil {
		return
	}
	msg := notification.ImportAlertMessage(filename, err.Error())
	for _, phone := range s.alertPhones {
		if sendErr := s.sms.Send(phone, msg); sendErr != nil {
			s.logger.Error("failed to send error notification sms",
				zap.Error(sendErr),
				zap.String("phone", phone),
			)
		}
	}
}
