// Package integrations persists extracted budget lines and drives imports
// from PDF files into the CSV output directory and the record store.
package integrations

import (
	"context"
	"fmt"
	"strings"

	"github.com/obelisk/budgetdb/extractor/common"
	"github.com/obelisk/budgetdb/integrations/postgres"
	"github.com/obelisk/budgetdb/integrations/sqlite"
)

// Store holds one budget at a time. There is no filtering; callers load
// everything and aggregate in memory.
type Store interface {
	DeleteAll(ctx context.Context) error
	SaveAll(ctx context.Context, lines []common.BudgetLine) error
	LoadAll(ctx context.Context) ([]common.BudgetLine, error)
	Close() error
}

// Open connects to the store named by driver ("sqlite", "postgres" or "memory").
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch strings.ToLower(driver) {
	case "", "sqlite":
		return sqlite.Open(ctx, dsn)
	case "postgres", "postgresql":
		return postgres.Open(ctx, dsn)
	case "memory":
		return NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", driver)
}

// Replace swaps the stored budget for lines.
func Replace(ctx context.Context, store Store, lines []common.BudgetLine) error {
	if err := store.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to clear store: %w", err)
	}
	if err := store.SaveAll(ctx, lines); err != nil {
		return fmt.Errorf("failed to save lines: %w", err)
	}
	return nil
}
