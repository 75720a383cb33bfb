// Package google mirrors expenses into a Google Sheets spreadsheet.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"tally/internal/core"
	ports "tally/internal/sheets"
)

const DefaultSheetName = "Expenses"

// Header is the column layout the mirror writes.
var Header = []string{"Date", "Description", "Type", "Category", "Normal", "Amount"}

type Config struct {
	SpreadsheetID string
	SheetName     string
	// Service account credentials, inline JSON or a file path. JSON wins.
	CredentialsJSON string
	CredentialsFile string
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

var _ ports.ExpenseWriter = (*Client)(nil)

// NewClient builds a Sheets client authenticated with a service account.
// Extra options are appended after the credentials, so tests can point the
// client at a local endpoint.
func NewClient(ctx context.Context, cfg Config, opts ...goption.ClientOption) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	sheet := strings.TrimSpace(cfg.SheetName)
	if sheet == "" {
		sheet = DefaultSheetName
	}

	all := opts
	if len(opts) == 0 {
		creds, err := credentials(cfg)
		if err != nil {
			return nil, err
		}
		all = []goption.ClientOption{
			goption.WithCredentialsJSON(creds),
			goption.WithScopes(gsheet.SpreadsheetsScope),
		}
	}

	svc, err := gsheet.NewService(ctx, all...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	slog.InfoContext(ctx, "Google Sheets service created", "sheet", sheet)

	return &Client{svc: svc, spreadsheetID: cfg.SpreadsheetID, sheetName: sheet}, nil
}

func credentials(cfg Config) ([]byte, error) {
	switch {
	case strings.TrimSpace(cfg.CredentialsJSON) != "":
		return []byte(cfg.CredentialsJSON), nil
	case strings.TrimSpace(cfg.CredentialsFile) != "":
		b, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return b, nil
	}
	return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE)")
}

// Append adds the transaction below the last row of the sheet.
func (c *Client) Append(ctx context.Context, t core.Transaction) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	rng := fmt.Sprintf("%s!A:F", c.sheetName)
	vr := &gsheet.ValueRange{Values: [][]any{expenseRow(t)}}
	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("append to sheet %s: %w", c.sheetName, err)
	}

	ref := rng
	if resp.Updates != nil && resp.Updates.UpdatedRange != "" {
		ref = resp.Updates.UpdatedRange
	}
	return ref, nil
}

// expenseRow lays a transaction out as Date, Description, Type, Category, Normal, Amount.
func expenseRow(t core.Transaction) []any {
	return []any{
		t.Date.String(),
		t.Description,
		t.Type,
		string(t.Category),
		core.YesNo(t.Normal),
		t.Amount.StringFixed(2),
	}
}
