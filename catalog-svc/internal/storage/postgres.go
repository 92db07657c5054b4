package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/nazarkrivolesov/kitchen-2.0/catalog-svc/internal/domain"
)

const dishColumns = "id, name, description, price, COALESCE(image_url, ''), category, ingredients, created_at"

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDish(row rowScanner) (*domain.Dish, error) {
	var dish domain.Dish
	var category string
	if err := row.Scan(&dish.ID, &dish.Name, &dish.Description, &dish.Price, &dish.Image,
		&category, pq.Array(&dish.Ingredients), &dish.CreatedAt); err != nil {
		return nil, err
	}
	dish.Category = domain.Category(category)
	if dish.Ingredients == nil {
		dish.Ingredients = []string{}
	}
	return &dish, nil
}

func (r *PostgresRepository) CreateDish(ctx context.Context, dish *domain.Dish) error {
	if dish.ID == "" {
		dish.ID = uuid.NewString()
	}
	return r.DB.QueryRowContext(ctx,
		`INSERT INTO dishes (id, name, description, price, image_url, category, ingredients)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`,
		dish.ID, dish.Name, dish.Description, dish.Price, dish.Image, string(dish.Category), pq.Array(dish.Ingredients),
	).Scan(&dish.CreatedAt)
}

// ListDishes returns the whole menu, newest first.
func (r *PostgresRepository) ListDishes(ctx context.Context) ([]domain.Dish, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+dishColumns+" FROM dishes ORDER BY created_at DESC, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dishes := []domain.Dish{}
	for rows.Next() {
		dish, err := scanDish(rows)
		if err != nil {
			return nil, err
		}
		dishes = append(dishes, *dish)
	}
	return dishes, rows.Err()
}

func (r *PostgresRepository) GetDish(ctx context.Context, id string) (*domain.Dish, error) {
	dish, err := scanDish(r.DB.QueryRowContext(ctx, "SELECT "+dishColumns+" FROM dishes WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrDishNotFound
	}
	return dish, err
}

// UpdateDish replaces every mutable field. created_at is kept.
func (r *PostgresRepository) UpdateDish(ctx context.Context, dish *domain.Dish) error {
	err := r.DB.QueryRowContext(ctx, `
		UPDATE dishes
		SET name=$1, description=$2, price=$3, image_url=$4, category=$5, ingredients=$6
		WHERE id=$7
		RETURNING created_at`,
		dish.Name, dish.Description, dish.Price, dish.Image, string(dish.Category), pq.Array(dish.Ingredients), dish.ID,
	).Scan(&dish.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrDishNotFound
	}
	return err
}

func (r *PostgresRepository) DeleteDish(ctx context.Context, id string) (int64, error) {
	result, err := r.DB.ExecContext(ctx, "DELETE FROM dishes WHERE id=$1", id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *PostgresRepository) UpdateDishImage(ctx context.Context, id, imageURL string) error {
	result, err := r.DB.ExecContext(ctx, "UPDATE dishes SET image_url = $1 WHERE id = $2", imageURL, id)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return domain.ErrDishNotFound
	}
	return nil
}

// SeedMenu inserts dishes only when the table is empty. It reports how many
// rows were written.
func (r *PostgresRepository) SeedMenu(ctx context.Context, dishes []domain.Dish) (int, error) {
	var count int
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM dishes").Scan(&count); err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	// Insert oldest first so the first dish of the list ends up newest.
	for i := len(dishes) - 1; i >= 0; i-- {
		d := dishes[i]
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO dishes (id, name, description, price, image_url, category, ingredients, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, NOW() - make_interval(secs => $8))`,
			uuid.NewString(), d.Name, d.Description, d.Price, d.Image, string(d.Category), pq.Array(d.Ingredients), i,
		); err != nil {
			return 0, fmt.Errorf("seed %q: %w", d.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(dishes), nil
}

func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS dishes (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price BIGINT NOT NULL CHECK (price > 0),
			image_url TEXT,
			category TEXT NOT NULL,
			ingredients TEXT[] NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		"CREATE INDEX IF NOT EXISTS dishes_created_at_idx ON dishes (created_at DESC)",
		"CREATE INDEX IF NOT EXISTS dishes_category_idx ON dishes (category)",
	}
	for _, stmt := range statements {
		if _, err := r.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema `%s`: %w", stmt, err)
		}
	}
	return nil
}
