package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/obelisk/budgetdb/extractor/common"
	"github.com/obelisk/budgetdb/table"
	"github.com/shopspring/decimal"
)

const insertLine = `
	INSERT INTO budget_lines (line_number, type, amount, ministry, source)
	VALUES ($1, $2, $3::text::numeric, $4, $5)
`

// DeleteAll removes every stored line
func (db *DB) DeleteAll(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, `DELETE FROM budget_lines`); err != nil {
		return fmt.Errorf("failed to delete budget lines: %w", err)
	}
	return nil
}

// SaveAll bulk inserts lines in one transaction
func (db *DB) SaveAll(ctx context.Context, lines []common.BudgetLine) error {
	if len(lines) == 0 {
		return nil
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, l := range lines {
		batch.Queue(insertLine,
			l.LineNumber, string(l.Type), table.FormatAmount(l.Amount), l.MinistryOrDefault(), l.Source,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for _, l := range lines {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("failed to insert line %d: %w", l.LineNumber, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// LoadAll returns every stored line ordered by line number
func (db *DB) LoadAll(ctx context.Context) ([]common.BudgetLine, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT line_number, type, amount::text, ministry, source
		FROM budget_lines
		ORDER BY line_number, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query budget lines: %w", err)
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
			return nil, fmt.Errorf("failed to scan budget line: %w", err)
		}
		l.Type = common.EntryType(entryType)
		if l.Amount, err = decimal.NewFromString(amountText); err != nil {
			return nil, fmt.Errorf("line %d amount %q: %w", l.LineNumber, amountText, err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
