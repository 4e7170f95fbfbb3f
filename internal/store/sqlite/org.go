package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/diwan-dev/diwan/internal/model"
)

// FindOrCreateDirectorate returns the directorate with the given name,
// creating it on first encounter.
func (d *DB) FindOrCreateDirectorate(ctx context.Context, name string) (model.Directorate, error) {
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO directorates (name) VALUES (?) ON CONFLICT(name) DO NOTHING`, name)
	if err != nil {
		return model.Directorate{}, fmt.Errorf("creating directorate %q: %w", name, err)
	}

	var dir model.Directorate
	err = d.db.QueryRowContext(ctx,
		`SELECT id, name FROM directorates WHERE name = ?`, name).Scan(&dir.ID, &dir.Name)
	if err != nil {
		return model.Directorate{}, fmt.Errorf("reading directorate %q: %w", name, err)
	}
	return dir, nil
}

// FindOrCreateOffice returns the named office inside a directorate,
// creating it on first encounter.
func (d *DB) FindOrCreateOffice(ctx context.Context, directorateID int64, name string) (model.Office, error) {
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO offices (directorate_id, name) VALUES (?, ?)
		 ON CONFLICT(directorate_id, name) DO NOTHING`, directorateID, name)
	if err != nil {
		return model.Office{}, fmt.Errorf("creating office %q: %w", name, err)
	}

	var o model.Office
	err = d.db.QueryRowContext(ctx,
		`SELECT id, directorate_id, name FROM offices WHERE directorate_id = ? AND name = ?`,
		directorateID, name).Scan(&o.ID, &o.DirectorateID, &o.Name)
	if err != nil {
		return model.Office{}, fmt.Errorf("reading office %q: %w", name, err)
	}
	return o, nil
}

// ListDirectorates returns all directorates ordered by name.
func (d *DB) ListDirectorates(ctx context.Context) ([]model.Directorate, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT id, name FROM directorates ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Directorate
	for rows.Next() {
		var dir model.Directorate
		if err := rows.Scan(&dir.ID, &dir.Name); err != nil {
			return nil, err
		}
		out = append(out, dir)
	}
	return out, rows.Err()
}

// ListOffices returns offices, optionally restricted to one directorate.
func (d *DB) ListOffices(ctx context.Context, directorateID int64) ([]model.Office, error) {
	query := `SELECT id, directorate_id, name FROM offices ORDER BY name`
	args := []any{}
	if directorateID != 0 {
		query = `SELECT id, directorate_id, name FROM offices WHERE directorate_id = ? ORDER BY name`
		args = append(args, directorateID)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Office
	for rows.Next() {
		var o model.Office
		if err := rows.Scan(&o.ID, &o.DirectorateID, &o.Name); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// OfficeLabels returns report labels keyed "office:<id>".
func (d *DB) OfficeLabels(ctx context.Context) (map[string]string, error) {
	offices, err := d.ListOffices(ctx, 0)
	if err != nil {
		return nil, err
	}
	labels := make(map[string]string, len(offices))
	for _, o := range offices {
		labels["office:"+strconv.FormatInt(o.ID, 10)] = o.Name
	}
	return labels, nil
}

// GetDirectorate looks a directorate up by id.
func (d *DB) GetDirectorate(ctx context.Context, id int64) (model.Directorate, bool, error) {
	var dir model.Directorate
	err := d.db.QueryRowContext(ctx,
		`SELECT id, name FROM directorates WHERE id = ?`, id).Scan(&dir.ID, &dir.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Directorate{}, false, nil
	}
	if err != nil {
		return model.Directorate{}, false, err
	}
	return dir, true, nil
}
