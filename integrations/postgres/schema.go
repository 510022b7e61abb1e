package postgres

import (
	"context"
	"fmt"
)

// amount is unconstrained NUMERIC so the scale written by the extractor survives.
const ddl = `
CREATE TABLE IF NOT EXISTS budget_lines (
    id BIGSERIAL PRIMARY KEY,
    line_number INTEGER NOT NULL,
    type VARCHAR(16) NOT NULL,
    amount NUMERIC NOT NULL,
    ministry TEXT NOT NULL DEFAULT '-',
    source TEXT NOT NULL,
    created_at TIMESTAMPTZ DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_budget_lines_line_number ON budget_lines(line_number);
CREATE INDEX IF NOT EXISTS idx_budget_lines_ministry ON budget_lines(ministry);
`

// EnsureSchema creates tables if they don't exist
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
