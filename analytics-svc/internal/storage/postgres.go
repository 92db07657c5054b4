package storage

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
)

// PostgresDishNames looks dish names up in the catalog's dishes table for
// ids the aggregates have no name for.
type PostgresDishNames struct {
	db *sql.DB
}

func NewPostgresDishNames(db *sql.DB) *PostgresDishNames {
	return &PostgresDishNames{db: db}
}

func (p *PostgresDishNames) DishNames(ctx context.Context, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	rows, err := p.db.QueryContext(ctx, "SELECT id, name FROM dishes WHERE id = ANY($1)", pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		names[id] = name
	}
	return names, rows.Err()
}
