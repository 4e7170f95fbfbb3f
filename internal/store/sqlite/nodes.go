package sqlite

import (
	"context"
	"fmt"

	"github.com/diwan-dev/diwan/internal/model"
)

func nodeTable(level model.Level) (table, parentCol string, err error) {
	switch level {
	case model.LevelChapter:
		return "chapters", "", nil
	case model.LevelSection:
		return "sections", "chapter_id", nil
	case model.LevelItem:
		return "items", "section_id", nil
	case model.LevelType:
		return "types", "item_id", nil
	}
	return "", "", fmt.Errorf("unknown hierarchy level %q", level)
}

// Ensure inserts the given nodes if absent, atomically. Re-ensuring an
// existing node is a no-op (first write wins), which makes concurrent
// first-time resolutions of the same identifier harmless.
func (d *DB) Ensure(ctx context.Context, nodes ...model.HierarchyNode) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning node transaction: %w", err)
	}
	defer tx.Rollback()

	for _, n := range nodes {
		table, parentCol, err := nodeTable(n.Level)
		if err != nil {
			return err
		}
		if parentCol == "" {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO `+table+` (id, name) VALUES (?, ?) ON CONFLICT(id) DO NOTHING`,
				n.ID, n.Name)
		} else {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO `+table+` (id, name, `+parentCol+`) VALUES (?, ?, ?) ON CONFLICT(id) DO NOTHING`,
				n.ID, n.Name, n.ParentID)
		}
		if err != nil {
			return fmt.Errorf("ensuring %s %s: %w", n.Level, n.ID, err)
		}
	}
	return tx.Commit()
}

// NodeLabels returns display names for every hierarchy node, keyed by
// node id. Used to label report rows.
func (d *DB) NodeLabels(ctx context.Context) (map[string]string, error) {
	labels := make(map[string]string)
	for _, table := range []string{"chapters", "sections", "items", "types"} {
		rows, err := d.db.QueryContext(ctx, `SELECT id, name FROM `+table)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", table, err)
		}
		for rows.Next() {
			var id, name string
			if err := rows.Scan(&id, &name); err != nil {
				rows.Close()
				return nil, err
			}
			labels[id] = name
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, err
		}
		rows.Close()
	}
	return labels, nil
}

// CountNodes returns the number of nodes at one level.
func (d *DB) CountNodes(ctx context.Context, level model.Level) (int, error) {
	table, _, err := nodeTable(level)
	if err != nil {
		return 0, err
	}
	var n int
	err = d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table).Scan(&n)
	return n, err
}
