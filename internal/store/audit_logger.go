package store

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"bikerental/tracker/internal/logging"
	"bikerental/tracker/internal/metrics"
	"bikerental/tracker/internal/models"
	"bikerental/tracker/internal/sheets"
)

// Auditor records status transitions.
type Auditor interface {
	Append(ctx context.Context, action models.Action, bikeID int, brand, user string) error
}

// AuditLogger appends one row per transition to the logs sheet. It is best
// effort: failures are logged and returned, never retried.
type AuditLogger struct {
	provider ClientProvider
	sheet    string
	now      func() time.Time
	loc      *time.Location
	logger   *zap.SugaredLogger
	metrics  *metrics.MetricsRegistry
}

var _ Auditor = (*AuditLogger)(nil)

// AuditOption customizes an AuditLogger.
type AuditOption func(*AuditLogger)

// WithClock sets the time source used to date entries.
func WithClock(now func() time.Time) AuditOption {
	return func(a *AuditLogger) { a.now = now }
}

// WithLocation sets the zone entries are dated in.
func WithLocation(loc *time.Location) AuditOption {
	return func(a *AuditLogger) { a.loc = loc }
}

func WithAuditLogging(l *zap.SugaredLogger) AuditOption {
	return func(a *AuditLogger) { a.logger = l }
}

func WithAuditMetrics(m *metrics.MetricsRegistry) AuditOption {
	return func(a *AuditLogger) { a.metrics = m }
}

func NewAuditLogger(provider ClientProvider, sheet string, opts ...AuditOption) *AuditLogger {
	a := &AuditLogger{
		provider: provider,
		sheet:    sheet,
		now:      time.Now,
		loc:      time.Local,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = logging.Named("audit")
	}
	return a
}

// Append writes [date, action, bike id, brand, user] to the logs sheet.
func (a *AuditLogger) Append(ctx context.Context, action models.Action, bikeID int, brand, user string) error {
	entry := models.NewLogEntry(a.now().In(a.loc), action, bikeID, brand, user)

	if err := a.append(ctx, entry); err != nil {
		a.logger.Warnw("Failed to append audit log entry",
			"bike_id", bikeID,
			"action", string(action),
			"error", err.Error(),
		)
		if a.metrics != nil {
			a.metrics.AuditLogFailuresTotal.Inc()
		}
		return err
	}

	a.logger.Debugw("Audit log entry appended", "bike_id", bikeID, "action", string(action), "date", entry.Date)
	return nil
}

func (a *AuditLogger) append(ctx context.Context, entry models.LogEntry) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("audit append panicked: %v", r)
		}
	}()

	client, err := a.provider.Client(ctx)
	if err != nil {
		return err
	}
	return client.AppendValues(ctx, sheets.Range(a.sheet, "A:E"), [][]interface{}{entry.Values()})
}
