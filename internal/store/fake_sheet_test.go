package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"bikerental/tracker/internal/retry"
	"bikerental/tracker/internal/sheets"
)

// fakeSheet is an in-memory bikes + logs spreadsheet.
type fakeSheet struct {
	mu   sync.Mutex
	rows [][]interface{} // bikes sheet including the header row
	logs [][]interface{}

	getCalls    []string
	updateCalls []string
	appendCalls int

	// getErrs is consumed one error per GetValues call.
	getErrs      []error
	updateErr    error
	updatedCells *int64
	appendErr    error

	// beforeList runs before a bikes listing is served, outside the lock.
	beforeList func()
}

var rowRangeRe = regexp.MustCompile(`!B(\d+):D(\d+)$`)

func newFakeSheet(data ...[]interface{}) *fakeSheet {
	rows := [][]interface{}{{"ID", "Status", "Brand", "User"}}
	rows = append(rows, data...)
	return &fakeSheet{rows: rows}
}

func (f *fakeSheet) Client(ctx context.Context) (sheets.Client, error) {
	return f, nil
}

func (f *fakeSheet) GetValues(ctx context.Context, a1Range string) ([][]interface{}, error) {
	if strings.HasSuffix(a1Range, "!A2:D") && f.beforeList != nil {
		f.beforeList()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls = append(f.getCalls, a1Range)

	if len(f.getErrs) > 0 {
		err := f.getErrs[0]
		f.getErrs = f.getErrs[1:]
		if err != nil {
			return nil, err
		}
	}

	switch {
	case strings.HasSuffix(a1Range, "!A2:D"):
		out := make([][]interface{}, 0, len(f.rows)-1)
		for _, r := range f.rows[1:] {
			out = append(out, append([]interface{}(nil), r...))
		}
		return out, nil
	case strings.HasSuffix(a1Range, "!A:A"):
		out := make([][]interface{}, 0, len(f.rows))
		for _, r := range f.rows {
			if len(r) == 0 {
				out = append(out, []interface{}{})
				continue
			}
			out = append(out, []interface{}{r[0]})
		}
		return out, nil
	}
	return nil, fmt.Errorf("unexpected range %s", a1Range)
}

func (f *fakeSheet) UpdateValues(ctx context.Context, a1Range string, values [][]interface{}) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls = append(f.updateCalls, a1Range)

	if f.updateErr != nil {
		return 0, f.updateErr
	}
	if f.updatedCells != nil {
		return *f.updatedCells, nil
	}

	m := rowRangeRe.FindStringSubmatch(a1Range)
	if m == nil || m[1] != m[2] {
		return 0, fmt.Errorf("unexpected update range %s", a1Range)
	}
	row, _ := strconv.Atoi(m[1])
	if row < 2 || row > len(f.rows) {
		return 0, fmt.Errorf("row %d out of range", row)
	}
	if len(values) != 1 || len(values[0]) != 3 {
		return 0, errors.New("update must write exactly three cells")
	}

	r := f.rows[row-1]
	for len(r) < 4 {
		r = append(r, "")
	}
	r[1], r[2], r[3] = values[0][0], values[0][1], values[0][2]
	f.rows[row-1] = r
	return 3, nil
}

func (f *fakeSheet) AppendValues(ctx context.Context, a1Range string, values [][]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appendCalls++
	if f.appendErr != nil {
		return f.appendErr
	}
	f.logs = append(f.logs, values...)
	return nil
}

func (f *fakeSheet) row(n int) []interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]interface{}(nil), f.rows[n-1]...)
}

func (f *fakeSheet) updates() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.updateCalls)
}

func (f *fakeSheet) logRows() [][]interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]interface{}(nil), f.logs...)
}

var fixedNow = time.Date(2025, time.January, 5, 10, 30, 0, 0, time.UTC)

// newTestStore wires a store with no-wait retries and a fixed audit clock.
func newTestStore(f *fakeSheet, opts ...Option) *BikeStore {
	logger := zap.NewNop().Sugar()
	base := []Option{
		WithLogger(logger),
		WithRetryPolicy(retry.Policy{MaxAttempts: 3, Logger: logger}),
		WithAuditor(NewAuditLogger(f, "Logs",
			WithClock(func() time.Time { return fixedNow }),
			WithLocation(time.UTC),
			WithAuditLogging(logger),
		)),
	}
	return NewBikeStore(f, append(base, opts...)...)
}

func bikeRow(id interface{}, status string, brand string, user ...string) []interface{} {
	r := []interface{}{id, status, brand}
	if len(user) > 0 {
		r = append(r, user[0])
	}
	return r
}

