package sheets

import (
	"context"
	"fmt"
	"time"

	gsheets "google.golang.org/api/sheets/v4"
)

const valueInputRaw = "RAW"

// GoogleClient implements Client on top of the generated Sheets v4 service.
type GoogleClient struct {
	svc           *gsheets.Service
	spreadsheetID string
	callTimeout   time.Duration
}

var _ Client = (*GoogleClient)(nil)

// NewGoogleClient wraps svc for one spreadsheet. A zero callTimeout means no per-call limit.
func NewGoogleClient(svc *gsheets.Service, spreadsheetID string, callTimeout time.Duration) *GoogleClient {
	return &GoogleClient{svc: svc, spreadsheetID: spreadsheetID, callTimeout: callTimeout}
}

func (c *GoogleClient) GetValues(ctx context.Context, a1Range string) ([][]interface{}, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, a1Range).
		MajorDimension("ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", a1Range, err)
	}
	if resp == nil {
		return nil, fmt.Errorf("get %s: empty response", a1Range)
	}
	return resp.Values, nil
}

func (c *GoogleClient) UpdateValues(ctx context.Context, a1Range string, values [][]interface{}) (int64, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	body := &gsheets.ValueRange{MajorDimension: "ROWS", Values: values}
	resp, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, a1Range, body).
		ValueInputOption(valueInputRaw).
		Context(ctx).
		Do()
	if err != nil {
		return 0, fmt.Errorf("update %s: %w", a1Range, err)
	}
	if resp == nil {
		return 0, fmt.Errorf("update %s: empty response", a1Range)
	}
	return resp.UpdatedCells, nil
}

func (c *GoogleClient) AppendValues(ctx context.Context, a1Range string, values [][]interface{}) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	body := &gsheets.ValueRange{MajorDimension: "ROWS", Values: values}
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, a1Range, body).
		ValueInputOption(valueInputRaw).
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append %s: %w", a1Range, err)
	}
	return nil
}

func (c *GoogleClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.callTimeout)
}
