package sheets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

// GoogleConfig locates a spreadsheet in Google Sheets.
type GoogleConfig struct {
	SpreadsheetID string
	// CredentialsFile is a service account JSON key. Empty uses application
	// default credentials.
	CredentialsFile string
	// Endpoint overrides the API base URL.
	Endpoint string
}

// Google is a Workbook backed by one Google spreadsheet.
type Google struct {
	service       *gsheets.Service
	spreadsheetID string
	mu            sync.Mutex
}

// OpenGoogle creates a Sheets API client. Extra client options are appended
// after the ones derived from cfg.
func OpenGoogle(ctx context.Context, cfg GoogleConfig, opts ...option.ClientOption) (*Google, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("sheets: spreadsheet id is required")
	}
	var clientOpts []option.ClientOption
	if cfg.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(cfg.Endpoint))
	}
	clientOpts = append(clientOpts, opts...)

	service, err := gsheets.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("sheets: google client: %w", err)
	}
	return &Google{service: service, spreadsheetID: cfg.SpreadsheetID}, nil
}

// Worksheet implements Workbook. Missing tabs are added to the spreadsheet.
func (g *Google) Worksheet(ctx context.Context, name string, header []string) (Store, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	exists, err := g.hasSheet(ctx, name)
	if err != nil {
		return nil, err
	}
	if !exists {
		if len(header) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrWorksheetNotFound, name)
		}
		if err := g.addSheet(ctx, name); err != nil {
			return nil, err
		}
	}

	sheet := &googleSheet{book: g, name: name}
	if len(header) == 0 {
		return sheet, nil
	}
	current, err := sheet.Header(ctx)
	if err != nil {
		return nil, err
	}
	if len(current) == 0 {
		values := make([]any, len(header))
		for i, column := range header {
			values[i] = column
		}
		_, err := g.service.Spreadsheets.Values.Update(g.spreadsheetID, quoteSheet(name)+"!A1",
			&gsheets.ValueRange{Values: [][]any{values}}).
			ValueInputOption("RAW").
			Context(ctx).
			Do()
		if err != nil {
			return nil, fmt.Errorf("sheets: write header %s: %w", name, err)
		}
	}
	return sheet, nil
}

// Close implements Workbook.
func (g *Google) Close() error { return nil }

func (g *Google) hasSheet(ctx context.Context, name string) (bool, error) {
	spreadsheet, err := g.service.Spreadsheets.Get(g.spreadsheetID).
		Fields("sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return false, fmt.Errorf("sheets: get spreadsheet: %w", err)
	}
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == name {
			return true, nil
		}
	}
	return false, nil
}

func (g *Google) addSheet(ctx context.Context, name string) error {
	req := &gsheets.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheets.Request{{
			AddSheet: &gsheets.AddSheetRequest{
				Properties: &gsheets.SheetProperties{Title: name},
			},
		}},
	}
	if _, err := g.service.Spreadsheets.BatchUpdate(g.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("sheets: add sheet %s: %w", name, err)
	}
	return nil
}

type googleSheet struct {
	book *Google
	name string
}

func (s *googleSheet) Header(ctx context.Context) ([]string, error) {
	grid, err := s.read(ctx, quoteSheet(s.name)+"!1:1")
	if err != nil {
		return nil, err
	}
	return headerOf(grid), nil
}

func (s *googleSheet) AppendRow(ctx context.Context, row []any) error {
	values := make([]any, len(row))
	for i, value := range row {
		values[i] = CellString(value)
	}
	_, err := s.book.service.Spreadsheets.Values.Append(s.book.spreadsheetID, quoteSheet(s.name),
		&gsheets.ValueRange{Values: [][]any{values}}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("sheets: append %s: %w", s.name, err)
	}
	return nil
}

func (s *googleSheet) ReadAllRecords(ctx context.Context) ([]map[string]any, error) {
	grid, err := s.read(ctx, quoteSheet(s.name))
	if err != nil {
		return nil, err
	}
	return recordsFromGrid(grid), nil
}

func (s *googleSheet) read(ctx context.Context, rng string) ([][]string, error) {
	resp, err := s.book.service.Spreadsheets.Values.Get(s.book.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sheets: read %s: %w", rng, err)
	}
	grid := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		cells := make([]string, len(row))
		for i, value := range row {
			cells[i] = CellString(value)
		}
		grid = append(grid, cells)
	}
	return grid, nil
}

// quoteSheet renders a sheet title for A1 notation.
func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}
