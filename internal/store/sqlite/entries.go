package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/diwan-dev/diwan/internal/model"
)

const dateFormat = "2006-01-02"

// AppendEntries writes a batch of ledger entries in one transaction.
// Entries are immutable once written.
func (d *DB) AppendEntries(ctx context.Context, entries []model.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning entry transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO entries (office_id, directorate_id, leaf_key, account, flow, amount, date, batch_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing entry insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		_, err := stmt.ExecContext(ctx,
			e.OfficeID, e.DirectorateID, e.LeafKey, e.Account,
			string(e.Flow), e.Amount.String(), e.Date.Format(dateFormat), e.BatchID)
		if err != nil {
			return fmt.Errorf("inserting entry: %w", err)
		}
	}
	return tx.Commit()
}

// EntryFilter narrows ledger reads. Zero values mean "no filter"; month
// filtering is left to the aggregator, which needs the full year to
// build opening balances for later windows.
type EntryFilter struct {
	Year          int
	OfficeID      int64
	DirectorateID int64
}

// ListEntries reads ledger entries matching the filter, oldest first.
func (d *DB) ListEntries(ctx context.Context, f EntryFilter) ([]model.LedgerEntry, error) {
	query := `SELECT id, office_id, directorate_id, leaf_key, account, flow, amount, date, batch_id
		FROM entries WHERE 1=1`
	var args []any
	if f.Year != 0 {
		query += ` AND substr(date, 1, 4) = ?`
		args = append(args, fmt.Sprintf("%04d", f.Year))
	}
	if f.OfficeID != 0 {
		query += ` AND office_id = ?`
		args = append(args, f.OfficeID)
	}
	if f.DirectorateID != 0 {
		query += ` AND directorate_id = ?`
		args = append(args, f.DirectorateID)
	}
	query += ` ORDER BY date, id`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	var out []model.LedgerEntry
	for rows.Next() {
		var e model.LedgerEntry
		var flow, amount, date string
		if err := rows.Scan(&e.ID, &e.OfficeID, &e.DirectorateID, &e.LeafKey,
			&e.Account, &flow, &amount, &date, &e.BatchID); err != nil {
			return nil, err
		}
		e.Flow = model.Flow(flow)
		e.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("parsing amount %q for entry %d: %w", amount, e.ID, err)
		}
		e.Date, err = time.Parse(dateFormat, date)
		if err != nil {
			return nil, fmt.Errorf("parsing date %q for entry %d: %w", date, e.ID, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// CountEntries returns the total number of ledger entries.
func (d *DB) CountEntries(ctx context.Context) (int, error) {
	var n int
	err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries`).Scan(&n)
	return n, err
}
