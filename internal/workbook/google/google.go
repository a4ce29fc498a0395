// Package google reads the statement sheet from a Google Sheets spreadsheet.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"google.golang.org/api/googleapi"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"pnlboard/internal/core"
	"pnlboard/internal/workbook"
)

// gridFields limits the response to what the statement needs.
const gridFields = "sheets(properties(title),data(rowData(values(formattedValue,effectiveValue,effectiveFormat/numberFormat,note)),rowMetadata(hiddenByUser,hiddenByFilter),columnMetadata(hiddenByUser,hiddenByFilter)))"

// Options configures the client.
type Options struct {
	SpreadsheetID string
	SheetName     string
	// CredentialsJSON takes precedence over CredentialsFile.
	CredentialsJSON string
	CredentialsFile string
	// OAuthClientFile and OAuthTokenFile select user credentials saved by
	// Authorize. They are used when no service account is configured.
	OAuthClientFile string
	OAuthTokenFile  string
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheet         string
}

var _ workbook.Source = (*Client)(nil)

// New creates a read-only Sheets client using service account or saved
// OAuth user credentials.
func New(ctx context.Context, opts Options) (*Client, error) {
	if strings.TrimSpace(opts.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	svc, err := newSheetsService(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &Client{svc: svc, spreadsheetID: opts.SpreadsheetID, sheet: opts.SheetName}, nil
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
// Falls back to GOOGLE_APPLICATION_CREDENTIALS when neither option is set.
func newSheetsService(ctx context.Context, opts Options) (*gsheet.Service, error) {
	credentialsJSON := []byte(strings.TrimSpace(opts.CredentialsJSON))
	file := strings.TrimSpace(opts.CredentialsFile)
	if len(credentialsJSON) == 0 && file == "" && opts.OAuthTokenFile != "" {
		ts, err := userTokenSource(ctx, opts.OAuthClientFile, opts.OAuthTokenFile)
		if err != nil {
			return nil, err
		}
		slog.InfoContext(ctx, "Using saved OAuth user token", "path", opts.OAuthTokenFile)
		return gsheet.NewService(ctx, goption.WithTokenSource(ts))
	}
	if len(credentialsJSON) == 0 && file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	switch {
	case len(credentialsJSON) > 0:
		slog.InfoContext(ctx, "Using inline JSON credentials")
	case file != "":
		slog.InfoContext(ctx, "Reading credentials from file", "path", file)
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = b
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

func (c *Client) Describe() string {
	return fmt.Sprintf("sheets:%s [%s]", c.spreadsheetID, c.sheet)
}

func (c *Client) Read(ctx context.Context) (core.Sheet, error) {
	if c.svc == nil {
		return core.Sheet{}, errors.New("sheets service not initialized")
	}
	resp, err := c.svc.Spreadsheets.Get(c.spreadsheetID).
		Ranges(quoteSheet(c.sheet)).
		IncludeGridData(true).
		Fields(gridFields).
		Context(ctx).
		Do()
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && gerr.Code == 400 && strings.Contains(gerr.Message, "Unable to parse range") {
			return core.Sheet{}, fmt.Errorf("%w: %q", workbook.ErrSheetNotFound, c.sheet)
		}
		return core.Sheet{}, fmt.Errorf("get spreadsheet %s: %w", c.spreadsheetID, err)
	}
	if len(resp.Sheets) == 0 {
		return core.Sheet{}, fmt.Errorf("%w: %q", workbook.ErrSheetNotFound, c.sheet)
	}

	sheet := parseGrid(resp.Sheets[0])
	slog.DebugContext(ctx, "Spreadsheet sheet read",
		"spreadsheet_id", c.spreadsheetID,
		"sheet", sheet.Name,
		"rows", len(sheet.Rows))
	return sheet, nil
}

// quoteSheet wraps a sheet title for A1 notation.
func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}
