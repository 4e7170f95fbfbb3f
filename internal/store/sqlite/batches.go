package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/diwan-dev/diwan/internal/model"
)

// InsertBatch records one processed import file.
func (d *DB) InsertBatch(ctx context.Context, b model.ImportBatch) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO import_batches (id, number, file_name, directorate, month, year, imported, skipped, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, b.ID, b.Number, b.FileName, b.Directorate, b.Month, b.Year, b.Imported, b.Skipped, string(b.Status))
	if err != nil {
		return fmt.Errorf("inserting import batch %s: %w", b.ID, err)
	}
	return nil
}

// NextBatchSeq returns the next sequence number for a reporting month.
func (d *DB) NextBatchSeq(ctx context.Context, year, month int) (int, error) {
	var n int
	err := d.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM import_batches WHERE year = ? AND month = ?`,
		year, month).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n + 1, nil
}

// ListBatches returns import batches, newest first.
func (d *DB) ListBatches(ctx context.Context) ([]model.ImportBatch, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, number, file_name, directorate, month, year, imported, skipped, status, created_at
		FROM import_batches ORDER BY created_at DESC, number DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ImportBatch
	for rows.Next() {
		var b model.ImportBatch
		var status, created string
		if err := rows.Scan(&b.ID, &b.Number, &b.FileName, &b.Directorate,
			&b.Month, &b.Year, &b.Imported, &b.Skipped, &status, &created); err != nil {
			return nil, err
		}
		b.Status = model.BatchStatus(status)
		b.CreatedAt, _ = time.Parse("2006-01-02 15:04:05", created)
		out = append(out, b)
	}
	return out, rows.Err()
}
