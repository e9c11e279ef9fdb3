// Package store is the spreadsheet-backed record store for bikes.
//
// Every public operation returns a responses.Result envelope. Remote calls go
// through retry.Do; validation happens before any remote call. Updates are
// read-modify-write without a version check, so two concurrent updates of
// the same bike can lose one of them unless conditional writes are enabled.
package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"bikerental/tracker/internal/apperr"
	"bikerental/tracker/internal/constants"
	"bikerental/tracker/internal/locking"
	"bikerental/tracker/internal/logging"
	"bikerental/tracker/internal/metrics"
	"bikerental/tracker/internal/models"
	"bikerental/tracker/internal/models/dtos/responses"
	"bikerental/tracker/internal/retry"
	"bikerental/tracker/internal/sheets"
)

// ClientProvider hands out the shared spreadsheet client. *sheets.Factory satisfies it.
type ClientProvider interface {
	Client(ctx context.Context) (sheets.Client, error)
}

// Layout names the two sheets the store reads and writes.
type Layout struct {
	BikesSheet string
	LogsSheet  string
}

// DefaultLayout is the "Bikes Database" / "Logs" pair.
func DefaultLayout() Layout {
	return Layout{BikesSheet: "Bikes Database", LogsSheet: "Logs"}
}

// BikeStore reads and updates bike rows.
type BikeStore struct {
	provider ClientProvider
	layout   Layout
	retry    retry.Policy
	audit    Auditor
	logger   *zap.SugaredLogger
	metrics  *metrics.MetricsRegistry
	locker   locking.Locker
}

// Option customizes a BikeStore.
type Option func(*BikeStore)

func WithLayout(l Layout) Option {
	return func(s *BikeStore) { s.layout = l }
}

func WithRetryPolicy(p retry.Policy) Option {
	return func(s *BikeStore) { s.retry = p }
}

// WithAuditor replaces the default AuditLogger.
func WithAuditor(a Auditor) Option {
	return func(s *BikeStore) { s.audit = a }
}

func WithLogger(l *zap.SugaredLogger) Option {
	return func(s *BikeStore) { s.logger = l }
}

func WithMetrics(m *metrics.MetricsRegistry) Option {
	return func(s *BikeStore) { s.metrics = m }
}

// WithConditionalWrites serializes updates per bike through locker and
// rejects toggles whose current status no longer matches the sheet.
func WithConditionalWrites(locker locking.Locker) Option {
	return func(s *BikeStore) { s.locker = locker }
}

// NewBikeStore panics when provider is nil.
func NewBikeStore(provider ClientProvider, opts ...Option) *BikeStore {
	if provider == nil {
		panic("store: NewBikeStore requires a client provider")
	}
	s := &BikeStore{
		provider: provider,
		layout:   DefaultLayout(),
		retry:    retry.DefaultPolicy(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.Named("store")
	}
	if s.retry.Logger == nil {
		s.retry.Logger = s.logger
	}
	if s.metrics != nil && s.retry.OnRetry == nil {
		m := s.metrics
		s.retry.OnRetry = func(name string, _ int, _ time.Duration, _ error) {
			m.SheetRetriesTotal.WithLabelValues(name).Inc()
		}
	}
	if s.audit == nil {
		s.audit = NewAuditLogger(provider, s.layout.LogsSheet,
			WithAuditLogging(s.logger.Named("audit")),
			WithAuditMetrics(s.metrics),
		)
	}
	return s
}

// ListAll returns every well-formed bike in sheet order. Malformed rows are
// skipped and reported in the listing.
func (s *BikeStore) ListAll(ctx context.Context) responses.Result[models.BikeListing] {
	listing, aerr := s.listAll(ctx)
	if aerr != nil {
		return responses.Fail[models.BikeListing](aerr)
	}
	return responses.Ok(listing)
}

// GetByID returns the first bike with id, or a nil payload when there is none.
func (s *BikeStore) GetByID(ctx context.Context, id int) responses.Result[*models.Bike] {
	if id <= 0 {
		return responses.Fail[*models.Bike](apperr.New(apperr.KindValidation, constants.MsgInvalidBikeID))
	}

	listing, aerr := s.listAll(ctx)
	if aerr != nil {
		return responses.Fail[*models.Bike](aerr)
	}

	bike, ok := listing.Find(id)
	if !ok {
		return responses.Ok[*models.Bike](nil)
	}
	return responses.Ok(&bike)
}

// Count returns the number of data rows without fetching the bike data.
func (s *BikeStore) Count(ctx context.Context) responses.Result[int] {
	rows, aerr := call(ctx, s, "count_bikes", func(ctx context.Context, c sheets.Client) ([][]interface{}, error) {
		return c.GetValues(ctx, sheets.Range(s.layout.BikesSheet, "A:A"))
	})
	if aerr != nil {
		return responses.Fail[int](aerr)
	}
	return responses.Ok(max(0, len(rows)-1))
}

// ToggleRequest is what the bike form submits: the id, the status the form
// was rendered with, and the rider's name when checking a bike out.
type ToggleRequest struct {
	ID            int
	CurrentStatus string
	UserName      string
}

// Toggle flips a bike between Active and Inactive based on the status the
// caller saw. Returning clears the user; checking out requires a name.
func (s *BikeStore) Toggle(ctx context.Context, req ToggleRequest) responses.Result[models.Transition] {
	if req.ID <= 0 {
		return responses.Fail[models.Transition](apperr.New(apperr.KindValidation, constants.MsgInvalidBikeID))
	}
	current, ok := models.ParseStatus(req.CurrentStatus)
	if !ok {
		return responses.Fail[models.Transition](apperr.New(apperr.KindValidation, constants.MsgInvalidStatus))
	}

	u := update{id: req.ID, expected: current}
	if current == models.StatusActive {
		u.status, u.user, u.action = models.StatusInactive, "", models.ActionReturned
	} else {
		name := strings.TrimSpace(req.UserName)
		if name == "" {
			return responses.Fail[models.Transition](apperr.New(apperr.KindValidation, constants.MsgUserNameRequired))
		}
		u.status, u.user, u.action = models.StatusActive, name, models.ActionAdded
	}
	return s.apply(ctx, u)
}

// SetStatus writes an explicit status and user. Active needs a user and
// Inactive needs none.
func (s *BikeStore) SetStatus(ctx context.Context, id int, status string, user string) responses.Result[models.Transition] {
	if id <= 0 {
		return responses.Fail[models.Transition](apperr.New(apperr.KindValidation, constants.MsgInvalidBikeID))
	}
	target, ok := models.ParseStatus(status)
	if !ok {
		return responses.Fail[models.Transition](apperr.New(apperr.KindValidation, constants.MsgInvalidStatus))
	}

	user = strings.TrimSpace(user)
	u := update{id: id, status: target, user: user}
	switch {
	case target == models.StatusActive && user == "":
		return responses.Fail[models.Transition](apperr.New(apperr.KindValidation, constants.MsgUserNameRequired))
	case target == models.StatusInactive && user != "":
		return responses.Fail[models.Transition](apperr.New(apperr.KindValidation, constants.MsgUserMustBeEmpty))
	case target == models.StatusActive:
		u.action = models.ActionAdded
	default:
		u.action = models.ActionReturned
	}
	return s.apply(ctx, u)
}

// update is a validated status change waiting to be written.
type update struct {
	id int
	// expected is the status the caller believes the bike has; empty when unknown.
	expected models.Status
	status   models.Status
	user     string
	action   models.Action
}

func (s *BikeStore) apply(ctx context.Context, u update) responses.Result[models.Transition] {
	if s.locker != nil {
		unlock, err := s.locker.Lock(ctx, u.id)
		if err != nil {
			return responses.Fail[models.Transition](apperr.Wrap(apperr.KindRemoteUnavailable,
				fmt.Sprintf("could not lock bike %d for update", u.id), err))
		}
		defer unlock()
	}

	listing, aerr := s.listAll(ctx)
	if aerr != nil {
		return responses.Fail[models.Transition](aerr)
	}
	bike, ok := listing.Find(u.id)
	if !ok {
		return responses.Fail[models.Transition](apperr.New(apperr.KindNotFound,
			fmt.Sprintf("Bike with ID %d not found", u.id)))
	}

	if u.expected != "" && bike.Status != u.expected {
		if s.locker != nil {
			if s.metrics != nil {
				s.metrics.StaleTogglesRejected.Inc()
			}
			return responses.Fail[models.Transition](apperr.New(apperr.KindValidation, constants.MsgStaleCurrentStatus))
		}
		s.logger.Warnw("Submitted status differs from sheet, applying anyway",
			"bike_id", bike.ID,
			"submitted_status", string(u.expected),
			"sheet_status", string(bike.Status),
		)
	}

	writeRange := sheets.RowRange(s.layout.BikesSheet, "B", "D", bike.Row)
	_, aerr = call(ctx, s, "update_status", func(ctx context.Context, c sheets.Client) (int64, error) {
		n, err := c.UpdateValues(ctx, writeRange, [][]interface{}{{string(u.status), bike.Brand, u.user}})
		if err != nil {
			return 0, err
		}
		if n == 0 {
			return 0, apperr.New(apperr.KindRemoteUnavailable, "spreadsheet reported no updated cells for "+writeRange)
		}
		return n, nil
	})
	if aerr != nil {
		return responses.Fail[models.Transition](aerr)
	}

	t := models.Transition{
		BikeID:         bike.ID,
		Brand:          bike.Brand,
		Action:         u.action,
		PreviousStatus: bike.Status,
		Status:         u.status,
		PreviousUser:   bike.User,
		User:           u.user,
	}

	logUser := u.user
	if u.action == models.ActionReturned {
		logUser = bike.User
	}
	// Audit failures are reported by the auditor and never fail the update.
	t.Logged = s.audit.Append(ctx, u.action, bike.ID, bike.Brand, logUser) == nil

	if s.metrics != nil {
		s.metrics.StatusTransitionsTotal.WithLabelValues(string(u.action)).Inc()
	}
	s.logger.Infow("Bike status updated",
		"bike_id", bike.ID,
		"row", bike.Row,
		"action", string(u.action),
		"status", string(u.status),
		"audit_logged", t.Logged,
	)
	return responses.Ok(t)
}

func (s *BikeStore) listAll(ctx context.Context) (models.BikeListing, *apperr.Error) {
	rows, aerr := call(ctx, s, "list_bikes", func(ctx context.Context, c sheets.Client) ([][]interface{}, error) {
		return c.GetValues(ctx, sheets.Range(s.layout.BikesSheet, "A2:D"))
	})
	if aerr != nil {
		return models.BikeListing{}, aerr
	}

	listing := parseBikeRows(rows)
	if len(listing.Skipped) > 0 {
		for _, sk := range listing.Skipped {
			s.logger.Warnw("Skipping malformed bike row", "row", sk.Row, "reason", sk.Reason)
		}
		if s.metrics != nil {
			s.metrics.RowsSkippedTotal.Add(float64(len(listing.Skipped)))
		}
	}
	if len(listing.Warnings) > 0 {
		for _, w := range listing.Warnings {
			s.logger.Warnw("Bike row status and user disagree", "row", w.Row, "reason", w.Reason)
		}
		if s.metrics != nil {
			s.metrics.InconsistentRowsTotal.Add(float64(len(listing.Warnings)))
		}
	}
	return listing, nil
}

// call obtains the shared client and runs op under the retry policy.
// Configuration and credential faults come from the factory and are not retried.
func call[T any](ctx context.Context, s *BikeStore, name string, op func(ctx context.Context, c sheets.Client) (T, error)) (T, *apperr.Error) {
	var zero T

	client, err := s.provider.Client(ctx)
	if err != nil {
		s.observe(name, "error", 0)
		return zero, apperr.As(err, apperr.KindRemoteUnavailable, "failed to obtain spreadsheet client")
	}

	start := time.Now()
	val, err := retry.Do(ctx, s.retry.Named(name), func(ctx context.Context) (T, error) {
		return op(ctx, client)
	})
	elapsed := time.Since(start)
	if err != nil {
		s.observe(name, "error", elapsed)
		s.logger.Errorw("Spreadsheet operation failed", "operation", name, "error", err.Error())
		return zero, apperr.As(err, apperr.KindRemoteUnavailable, "")
	}

	s.observe(name, "ok", elapsed)
	return val, nil
}

func (s *BikeStore) observe(name, outcome string, elapsed time.Duration) {
	if s.metrics == nil {
		return
	}
	s.metrics.SheetCallsTotal.WithLabelValues(name, outcome).Inc()
	if elapsed > 0 {
		s.metrics.SheetCallDuration.WithLabelValues(name).Observe(elapsed.Seconds())
	}
}
