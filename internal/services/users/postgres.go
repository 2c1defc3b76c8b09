package users

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"resto-pos/internal/database"
	"resto-pos/internal/models"
)

// PostgresRepository reads staff users. Users are provisioned out of band;
// the service only ever looks them up to attribute orders and reservations.
type PostgresRepository struct {
	db *database.DB
}

// NewPostgresRepository creates a new user repository.
func NewPostgresRepository(db *database.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByID fetches one user, returning (nil, nil) when absent.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.QueryRow(ctx, database.GetUserByIDSQL, id).Scan(
		&user.ID, &user.Name, &user.Email, &user.Role, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
