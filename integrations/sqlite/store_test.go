package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/obelisk/budgetdb/extractor/common"
	"github.com/obelisk/budgetdb/table"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "db", "budget.db")
	store, err := Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, path
}

func testLines() []common.BudgetLine {
	return []common.BudgetLine{
		{LineNumber: 1, Type: common.Revenue, Amount: decimal.RequireFromString("62142000000"), Ministry: "-", Source: "11 Φόροι"},
		{LineNumber: 2, Type: common.Expenditure, Amount: decimal.RequireFromString("3000000.50"), Ministry: "Υπουργείο Υγείας", Source: "21 Παροχές, αποδοχές"},
		{LineNumber: 3, Type: common.Expenditure, Amount: decimal.RequireFromString("12"), Ministry: "", Source: "29 Πιστώσεις"},
	}
}

func TestStore_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	store, _ := openTestStore(t)

	require.NoError(t, store.SaveAll(ctx, testLines()))

	lines, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, lines, 3)

	assert.Equal(t, 1, lines[0].LineNumber)
	assert.Equal(t, common.Revenue, lines[0].Type)
	assert.Equal(t, "11 Φόροι", lines[0].Source)
	assert.Equal(t, "3000000.50", table.FormatAmount(lines[1].Amount))
	assert.Equal(t, "Υπουργείο Υγείας", lines[1].Ministry)
	assert.Equal(t, "-", lines[2].Ministry)
}

func TestStore_DeleteAll(t *testing.T) {
	ctx := context.Background()
	store, _ := openTestStore(t)

	require.NoError(t, store.SaveAll(ctx, testLines()))
	require.NoError(t, store.DeleteAll(ctx))

	lines, err := store.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestStore_EmptySave(t *testing.T) {
	ctx := context.Background()
	store, _ := openTestStore(t)

	require.NoError(t, store.SaveAll(ctx, nil))
	lines, err := store.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestOpen_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	store, path := openTestStore(t)
	require.NoError(t, store.SaveAll(ctx, testLines()))
	require.NoError(t, store.Close())

	reopened, err := Open(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	lines, err := reopened.LoadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, lines, 3)
}
