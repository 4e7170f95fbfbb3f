package ingest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diwan-dev/diwan/internal/importer"
	"github.com/diwan-dev/diwan/internal/model"
	"github.com/diwan-dev/diwan/internal/store/sqlite"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newService(t *testing.T) (*Service, *sqlite.DB) {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "diwan.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewService(db, zerolog.Nop()), db
}

func TestIngest_HierarchyRows(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()

	batch, err := svc.Ingest(ctx, Params{
		FileName:    "january.xlsx",
		Directorate: "Central",
		Month:       1,
		Year:        2024,
		Rows: &importer.ParseResult{
			Hierarchy: []model.HierarchyRow{
				{Identifier: "1_2_03_05", Name: "Land tax", Amount: dec("120")},
				{Identifier: "1_2_03_06", Name: "Water fees", Amount: dec("0")}, // non-positive: skipped
				{Identifier: "2_1_01_01", Name: "Salaries", Amount: dec("300")},
			},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-001", batch.Number)
	assert.Equal(t, 2, batch.Imported)
	assert.Equal(t, 1, batch.Skipped)

	entries, err := db.ListEntries(ctx, sqlite.EntryFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, model.FlowValue, e.Flow)
		assert.Equal(t, "2024-01-01", e.Date.Format("2006-01-02"))
		assert.Equal(t, batch.ID, e.BatchID)
	}

	// Hierarchy nodes created for both leaves.
	labels, err := db.NodeLabels(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Land tax", labels["1_2_03_05"])
	assert.Equal(t, "Salaries", labels["2_1_01_01"])
	assert.Equal(t, "Chapter 1_2", labels["1_2"])
}

func TestIngest_AccountRows(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()

	batch, err := svc.Ingest(ctx, Params{
		FileName:    "accounts.xlsx",
		Directorate: "Central",
		Office:      "Main Office",
		Month:       2,
		Year:        2024,
		Rows: &importer.ParseResult{
			Accounts: []model.AccountRow{
				{Name: "treasury", Debit: dec("100"), Credit: dec("40")},
				{Name: "payroll", Debit: dec("0"), Credit: dec("75.5")},
				{Name: "bad", Debit: dec("-1"), Credit: dec("0")},
			},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, batch.Imported) // debit+credit for treasury, credit for payroll
	assert.Equal(t, 1, batch.Skipped)

	entries, err := db.ListEntries(ctx, sqlite.EntryFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	flows := map[model.Flow]int{}
	for _, e := range entries {
		flows[e.Flow]++
		assert.NotEmpty(t, e.Account)
		assert.Empty(t, e.LeafKey)
	}
	assert.Equal(t, 1, flows[model.FlowDebit])
	assert.Equal(t, 2, flows[model.FlowCredit])
}

func TestIngest_MalformedIdentifierSkipped(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()

	batch, err := svc.Ingest(ctx, Params{
		FileName:    "bad.xlsx",
		Directorate: "Central",
		Month:       1,
		Year:        2024,
		Rows: &importer.ParseResult{
			Hierarchy: []model.HierarchyRow{
				{Identifier: "7", Name: "lonely", Amount: dec("10")},
				{Identifier: "1_2_03_05", Name: "Land tax", Amount: dec("20")},
			},
			Skipped: 2, // parser-level drops carry through
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, batch.Imported)
	assert.Equal(t, 3, batch.Skipped)

	entries, err := db.ListEntries(ctx, sqlite.EntryFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestIngest_Validation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Ingest(ctx, Params{Directorate: "Central", Month: 13, Year: 2024, Rows: &importer.ParseResult{}})
	assert.Error(t, err)

	_, err = svc.Ingest(ctx, Params{Month: 1, Year: 2024, Rows: &importer.ParseResult{}})
	assert.Error(t, err)
}

func TestIngest_BatchSequencePerMonth(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	empty := &importer.ParseResult{}
	b1, err := svc.Ingest(ctx, Params{FileName: "a.xlsx", Directorate: "Central", Month: 1, Year: 2024, Rows: empty})
	require.NoError(t, err)
	b2, err := svc.Ingest(ctx, Params{FileName: "b.xlsx", Directorate: "Central", Month: 1, Year: 2024, Rows: empty})
	require.NoError(t, err)
	b3, err := svc.Ingest(ctx, Params{FileName: "c.xlsx", Directorate: "Central", Month: 2, Year: 2024, Rows: empty})
	require.NoError(t, err)

	assert.Equal(t, "2024-01-001", b1.Number)
	assert.Equal(t, "2024-01-002", b2.Number)
	assert.Equal(t, "2024-02-001", b3.Number)
	assert.NotEqual(t, b1.ID, b2.ID)
}
