// Package sqlite is the default record store, a single file database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/obelisk/budgetdb/extractor/common"
	"github.com/obelisk/budgetdb/table"
	"github.com/shopspring/decimal"

	_ "modernc.org/sqlite"
)

// DefaultPath is used when no DSN is configured.
const DefaultPath = "data/budget.db"

type Store struct {
	db *sql.DB
}

// Open creates the database file if needed and migrates it.
func Open(ctx context.Context, dbPath string) (*Store, error) {
	if dbPath == "" {
		dbPath = DefaultPath
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// one writer; replace-all runs as two separate transactions
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) DeleteAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM budget_lines`); err != nil {
		return fmt.Errorf("delete budget lines: %w", err)
	}
	return nil
}

func (s *Store) SaveAll(ctx context.Context, lines []common.BudgetLine) error {
	if len(lines) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO budget_lines (line_number, type, amount, ministry, source)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, l := range lines {
		if _, err := stmt.ExecContext(ctx, l.LineNumber, string(l.Type), table.FormatAmount(l.Amount), l.MinistryOrDefault(), l.Source); err != nil {
			return fmt.Errorf("insert line %d: %w", l.LineNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *Store) LoadAll(ctx context.Context) ([]common.BudgetLine, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT line_number, type, amount, ministry, source
		FROM budget_lines
		ORDER BY line_number, id`)
	if err != nil {
		return nil, fmt.Errorf("query budget lines: %w", err)
	}
	defer rows.Close()

	var lines []common.BudgetLine
	for rows.Next() {
		var (
			l          common.BudgetLine
			entryType  string
			amountText string
		)
		if err := rows.Scan(&l.LineNumber, &entryType, &amountText, &l.Ministry, &l.Source); err != nil {
			return nil, fmt.Errorf("scan budget line: %w", err)
		}
		l.Type = common.EntryType(entryType)
		if l.Amount, err = decimal.NewFromString(amountText); err != nil {
			return nil, fmt.Errorf("line %d amount %q: %w", l.LineNumber, amountText, err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
