package tables

import (
	"context"
	"errors"
	"time"

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

// NewPostgresRepository creates a new table repository.
func NewPostgresRepository(db *database.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Insert persists a new table, translating a unique name violation into
// ErrDuplicateName.
func (r *PostgresRepository) Insert(ctx context.Context, table *models.Table) error {
	err := r.db.QueryRow(ctx, database.InsertTableSQL,
		table.ID, table.Name, table.Zone, table.Capacity,
	).Scan(&table.CreatedAt, &table.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateName
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// GetByID fetches one table with display joins, returning (nil, nil) when
// absent.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Table, error) {
	table, err := scanTableRow(r.db.QueryRow(ctx, database.GetTableByIDSQL, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return table, nil
}

// List returns all tables ordered by name.
func (r *PostgresRepository) List(ctx context.Context) ([]models.Table, error) {
	rows, err := r.db.Query(ctx, database.ListTablesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []models.Table
	for rows.Next() {
		table, err := scanTableRow(rows)
		if err != nil {
			return nil, err
		}
		tables = append(tables, *table)
	}

	return tables, rows.Err()
}

// Status reads the current occupancy status.
func (r *PostgresRepository) Status(ctx context.Context, id uuid.UUID) (models.TableStatus, bool, error) {
	var status models.TableStatus
	err := r.db.QueryRow(ctx, database.GetTableStatusSQL, id).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return status, true, nil
}

// Reserve runs the Available -> Reserved compare-and-swap.
func (r *PostgresRepository) Reserve(ctx context.Context, id uuid.UUID, res *models.Reservation, clientID uuid.UUID, userID *uuid.UUID) (bool, error) {
	var swapped uuid.UUID
	err := r.db.QueryRow(ctx, database.ReserveTableSQL,
		id, res.BookedBy, res.Contact, res.Guests, res.Date, nullableString(res.Notes),
		clientID, userID,
	).Scan(&swapped)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Cancel runs the Reserved -> Available compare-and-swap.
func (r *PostgresRepository) Cancel(ctx context.Context, id uuid.UUID) (bool, error) {
	var swapped uuid.UUID
	err := r.db.QueryRow(ctx, database.CancelReservationSQL, id).Scan(&swapped)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func scanTableRow(row pgx.Row) (*models.Table, error) {
	var table models.Table
	var zone *string
	var reservedBy, reservedContact, reservedNotes *string
	var reservedGuests *int
	var reservedDate *time.Time
	var clientID *uuid.UUID
	var clientName, clientPhone *string
	var userID *uuid.UUID
	var userName, userRole *string

	err := row.Scan(
		&table.ID, &table.Name, &zone, &table.Capacity, &table.Status,
		&reservedBy, &reservedContact, &reservedGuests, &reservedDate, &reservedNotes,
		&table.CurrentOrder, &table.CreatedAt, &table.UpdatedAt,
		&clientID, &clientName, &clientPhone,
		&userID, &userName, &userRole,
	)
	if err != nil {
		return nil, err
	}

	if zone != nil {
		table.Zone = *zone
	}
	if reservedBy != nil {
		table.Reservation = &models.Reservation{
			BookedBy: *reservedBy,
			Contact:  derefString(reservedContact),
			Guests:   derefInt(reservedGuests),
			Date:     reservedDate,
			Notes:    derefString(reservedNotes),
		}
	}
	if clientID != nil {
		table.Client = &models.ClientSummary{ID: *clientID, Name: derefString(clientName), Phone: derefString(clientPhone)}
	}
	if userID != nil {
		table.Person = &models.UserSummary{ID: *userID, Name: derefString(userName), Role: derefString(userRole)}
	}

	return &table, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}
