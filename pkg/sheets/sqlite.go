package sheets

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// SQLite keeps every worksheet in one table of JSON encoded rows. Row 0 of a
// worksheet is its header.
type SQLite struct {
	db   *sql.DB
	mu   sync.Mutex
	path string
}

// NewSQLite opens (or creates) the database at path.
func NewSQLite(path string) (*SQLite, error) {
	if path == "" {
		path = "sheetform.db"
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("sheets: create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sheets: open sqlite: %w", err)
	}
	// a single connection keeps ":memory:" databases shared and serialises writers
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS cells (
		sheet TEXT NOT NULL,
		row_index INTEGER NOT NULL,
		payload TEXT NOT NULL,
		PRIMARY KEY (sheet, row_index)
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sheets: create cells table: %w", err)
	}
	return &SQLite{db: db, path: path}, nil
}

// Worksheet implements Workbook.
func (s *SQLite) Worksheet(ctx context.Context, name string, header []string) (Store, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	sheet := &sqliteSheet{book: s, name: name}
	if len(header) == 0 {
		return sheet, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cells WHERE sheet = ?`, name).Scan(&count); err != nil {
		return nil, fmt.Errorf("sheets: count %s: %w", name, err)
	}
	if count == 0 {
		payload, err := json.Marshal(header)
		if err != nil {
			return nil, err
		}
		if _, err := s.db.ExecContext(ctx, `INSERT INTO cells(sheet, row_index, payload) VALUES(?, 0, ?)`, name, string(payload)); err != nil {
			return nil, fmt.Errorf("sheets: write header %s: %w", name, err)
		}
	}
	return sheet, nil
}

// Close implements Workbook.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *SQLite) DB() *sql.DB { return s.db }

// Path returns the configured database path.
func (s *SQLite) Path() string { return s.path }

type sqliteSheet struct {
	book *SQLite
	name string
}

func (s *sqliteSheet) Header(ctx context.Context) ([]string, error) {
	var payload string
	err := s.book.db.QueryRowContext(ctx, `SELECT payload FROM cells WHERE sheet = ? ORDER BY row_index LIMIT 1`, s.name).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sheets: read header %s: %w", s.name, err)
	}
	var header []string
	if err := json.Unmarshal([]byte(payload), &header); err != nil {
		return nil, fmt.Errorf("sheets: decode header %s: %w", s.name, err)
	}
	return header, nil
}

func (s *sqliteSheet) AppendRow(ctx context.Context, row []any) (retErr error) {
	payload, err := json.Marshal(cellsOf(row))
	if err != nil {
		return err
	}

	s.book.mu.Lock()
	defer s.book.mu.Unlock()

	tx, err := s.book.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	var next int
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(row_index) + 1, 0) FROM cells WHERE sheet = ?`, s.name).Scan(&next); err != nil {
		return fmt.Errorf("sheets: next row %s: %w", s.name, err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO cells(sheet, row_index, payload) VALUES(?, ?, ?)`, s.name, next, string(payload)); err != nil {
		return fmt.Errorf("sheets: append %s: %w", s.name, err)
	}
	return tx.Commit()
}

func (s *sqliteSheet) ReadAllRecords(ctx context.Context) ([]map[string]any, error) {
	rows, err := s.book.db.QueryContext(ctx, `SELECT payload FROM cells WHERE sheet = ? ORDER BY row_index`, s.name)
	if err != nil {
		return nil, fmt.Errorf("sheets: select %s: %w", s.name, err)
	}
	defer func() { _ = rows.Close() }()

	var grid [][]string
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("sheets: scan %s: %w", s.name, err)
		}
		var cells []string
		if err := json.Unmarshal([]byte(payload), &cells); err != nil {
			return nil, fmt.Errorf("sheets: decode row %s: %w", s.name, err)
		}
		grid = append(grid, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return recordsFromGrid(grid), nil
}
