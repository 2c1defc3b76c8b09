package clients

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"resto-pos/internal/database"
	"resto-pos/internal/models"
)

// PostgresRepository is the PostgreSQL implementation of Repository.
type PostgresRepository struct {
	db *database.DB
}

// NewPostgresRepository creates a new client repository.
func NewPostgresRepository(db *database.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByID fetches a client by id, returning (nil, nil) when absent.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	return r.scanClient(r.db.QueryRow(ctx, database.GetClientByIDSQL, id))
}

// GetByPhone fetches a client by exact phone match, returning (nil, nil)
// when absent.
func (r *PostgresRepository) GetByPhone(ctx context.Context, phone string) (*models.Client, error) {
	return r.scanClient(r.db.QueryRow(ctx, database.GetClientByPhoneSQL, phone))
}

func (r *PostgresRepository) scanClient(row pgx.Row) (*models.Client, error) {
	var client models.Client
	var email *string

	err := row.Scan(
		&client.ID,
		&client.Name,
		&client.Phone,
		&email,
		&client.TotalSpent,
		&client.LastVisit,
		&client.CreatedAt,
		&client.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if email != nil {
		client.Email = *email
	}
	return &client, nil
}

// Insert creates a new client row and fills in the database-assigned fields.
func (r *PostgresRepository) Insert(ctx context.Context, client *models.Client) error {
	var email *string
	if client.Email != "" {
		email = &client.Email
	}

	return r.db.QueryRow(ctx, database.InsertClientSQL,
		client.ID, client.Name, client.Phone, email,
	).Scan(&client.TotalSpent, &client.LastVisit, &client.CreatedAt, &client.UpdatedAt)
}

// List returns all clients, oldest first.
func (r *PostgresRepository) List(ctx context.Context) ([]models.Client, error) {
	rows, err := r.db.Query(ctx, database.ListClientsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []models.Client
	for rows.Next() {
		var client models.Client
		var email *string
		err := rows.Scan(
			&client.ID,
			&client.Name,
			&client.Phone,
			&email,
			&client.TotalSpent,
			&client.LastVisit,
			&client.CreatedAt,
			&client.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		if email != nil {
			client.Email = *email
		}
		clients = append(clients, client)
	}

	return clients, rows.Err()
}

// Delete removes a client row, reporting whether a row existed.
func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx, database.DeleteClientSQL, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// RecordOrder applies the aggregate increment as one atomic statement.
func (r *PostgresRepository) RecordOrder(ctx context.Context, clientID uuid.UUID, amount float64) error {
	return r.db.Exec(ctx, database.RecordClientOrderSQL, clientID, amount)
}

// InsertBooking appends a booking log entry.
func (r *PostgresRepository) InsertBooking(ctx context.Context, booking *models.Booking) error {
	var notes *string
	if booking.Notes != "" {
		notes = &booking.Notes
	}

	return r.db.QueryRow(ctx, database.InsertBookingSQL,
		booking.ID, booking.ClientID, booking.TableID, booking.Date,
		booking.Guests, booking.Status, notes,
	).Scan(&booking.CreatedAt)
}

// TouchVisit refreshes the client's last-visit timestamp.
func (r *PostgresRepository) TouchVisit(ctx context.Context, clientID uuid.UUID) error {
	return r.db.Exec(ctx, database.TouchClientVisitSQL, clientID)
}

// ListBookings returns the client's booking log, oldest first.
func (r *PostgresRepository) ListBookings(ctx context.Context, clientID uuid.UUID) ([]models.Booking, error) {
	rows, err := r.db.Query(ctx, database.ListClientBookingsSQL, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		var booking models.Booking
		var notes *string
		err := rows.Scan(
			&booking.ID,
			&booking.ClientID,
			&booking.TableID,
			&booking.Date,
			&booking.Guests,
			&booking.Status,
			&notes,
			&booking.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		if notes != nil {
			booking.Notes = *notes
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}
