package menu

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"resto-pos/internal/database"
	"resto-pos/internal/models"
)

// PostgresRepository is the PostgreSQL implementation of Repository.
type PostgresRepository struct {
	db *database.DB
}

// NewPostgresRepository creates a new menu repository.
func NewPostgresRepository(db *database.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Insert persists a new menu item, translating a unique name violation into
// ErrDuplicateName.
func (r *PostgresRepository) Insert(ctx context.Context, item *models.MenuItem) error {
	err := r.db.QueryRow(ctx, database.InsertMenuItemSQL,
		item.ID, item.Name, nullable(item.Description), item.Price, nullable(item.Category), item.Available,
	).Scan(&item.CreatedAt, &item.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateName
	}
	return err
}

// GetByID fetches one item, returning (nil, nil) when absent.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	item, err := scanMenuItem(r.db.QueryRow(ctx, database.GetMenuItemByIDSQL, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// List returns the whole menu ordered by category, then name.
func (r *PostgresRepository) List(ctx context.Context) ([]models.MenuItem, error) {
	rows, err := r.db.Query(ctx, database.ListMenuItemsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.MenuItem
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}

	return items, rows.Err()
}

// Update overwrites the item, reporting whether it existed.
func (r *PostgresRepository) Update(ctx context.Context, item *models.MenuItem) (bool, error) {
	err := r.db.QueryRow(ctx, database.UpdateMenuItemSQL,
		item.ID, item.Name, nullable(item.Description), item.Price, nullable(item.Category), item.Available,
	).Scan(&item.CreatedAt, &item.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if isUniqueViolation(err) {
		return false, ErrDuplicateName
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Delete removes the item, reporting whether it existed.
func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx, database.DeleteMenuItemSQL, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func scanMenuItem(row pgx.Row) (*models.MenuItem, error) {
	var item models.MenuItem
	var description, category *string

	err := row.Scan(&item.ID, &item.Name, &description, &item.Price, &category,
		&item.Available, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if description != nil {
		item.Description = *description
	}
	if category != nil {
		item.Category = *category
	}

	return &item, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
