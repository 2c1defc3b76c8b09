package clients

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"resto-pos/internal/logger"
	"resto-pos/internal/models"
)

// Repository is the persistence contract of the client directory. Lookup
// methods return (nil, nil) when no record matches.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Client, error)
	GetByPhone(ctx context.Context, phone string) (*models.Client, error)
	Insert(ctx context.Context, client *models.Client) error
	List(ctx context.Context) ([]models.Client, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	RecordOrder(ctx context.Context, clientID uuid.UUID, amount float64) error
	InsertBooking(ctx context.Context, booking *models.Booking) error
	TouchVisit(ctx context.Context, clientID uuid.UUID) error
	ListBookings(ctx context.Context, clientID uuid.UUID) ([]models.Booking, error)
}

// Directory owns client identity resolution and the rolling aggregates
// (total spend, last visit, booking log).
type Directory struct {
	repo   Repository
	logger *logger.Logger
}

// NewDirectory creates a new client directory.
func NewDirectory(repo Repository, log *logger.Logger) *Directory {
	return &Directory{
		repo:   repo,
		logger: log,
	}
}

// Resolve finds the client for the identifier. An id must match an existing
// record. A phone is looked up exactly; on a miss a name is mandatory and a
// new client is created with zero spend and the current timestamp as its
// last visit.
func (d *Directory) Resolve(ctx context.Context, ident models.ClientIdentifier, requestID string) (*models.Client, error) {
	if err := ident.Validate(); err != nil {
		return nil, err
	}

	if ident.ID != nil {
		client, err := d.repo.GetByID(ctx, *ident.ID)
		if err != nil {
			return nil, models.InternalError(err)
		}
		if client == nil {
			return nil, models.NotFoundError("client not found: %s", *ident.ID)
		}
		return client, nil
	}

	phone := strings.TrimSpace(ident.Phone)
	client, err := d.repo.GetByPhone(ctx, phone)
	if err != nil {
		return nil, models.InternalError(err)
	}
	if client != nil {
		return client, nil
	}

	name := strings.TrimSpace(ident.Name)
	if name == "" {
		return nil, models.ValidationError("client name required")
	}

	client = &models.Client{
		ID:    uuid.New(),
		Name:  name,
		Phone: phone,
	}
	if err := d.repo.Insert(ctx, client); err != nil {
		// A concurrent request may have created the same phone first; the
		// unique constraint makes creation idempotent, so re-read and reuse.
		existing, lookupErr := d.repo.GetByPhone(ctx, phone)
		if lookupErr == nil && existing != nil {
			return existing, nil
		}
		return nil, models.InternalError(err)
	}

	d.logger.Info("client_created", requestID, "Created new client record",
		map[string]interface{}{"client_id": client.ID.String(), "phone": phone})

	return client, nil
}

// RecordOrder reflects a durably persisted order into the client's
// aggregates. The increment is a single atomic update; two concurrent orders
// for the same client cannot lose spend.
func (d *Directory) RecordOrder(ctx context.Context, clientID, orderID uuid.UUID, amount float64, requestID string) error {
	if err := d.repo.RecordOrder(ctx, clientID, amount); err != nil {
		return models.InternalError(err)
	}

	d.logger.Debug("client_order_recorded", requestID, "Updated client aggregates",
		map[string]interface{}{
			"client_id": clientID.String(),
			"order_id":  orderID.String(),
			"amount":    amount,
		})

	return nil
}

// RecordBooking appends a booking entry to the client's log and refreshes the
// last-visit timestamp. Used by the table occupancy engine.
func (d *Directory) RecordBooking(ctx context.Context, booking *models.Booking, requestID string) error {
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	if booking.Status == "" {
		booking.Status = models.BookingConfirmed
	}

	if err := d.repo.InsertBooking(ctx, booking); err != nil {
		return models.InternalError(err)
	}
	if err := d.repo.TouchVisit(ctx, booking.ClientID); err != nil {
		return models.InternalError(err)
	}

	d.logger.Debug("client_booking_recorded", requestID, "Appended booking entry",
		map[string]interface{}{
			"client_id": booking.ClientID.String(),
			"table_id":  booking.TableID.String(),
		})

	return nil
}

// Get fetches one client by id.
func (d *Directory) Get(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	client, err := d.repo.GetByID(ctx, id)
	if err != nil {
		return nil, models.InternalError(err)
	}
	if client == nil {
		return nil, models.NotFoundError("client not found: %s", id)
	}
	return client, nil
}

// List returns all clients.
func (d *Directory) List(ctx context.Context) ([]models.Client, error) {
	list, err := d.repo.List(ctx)
	if err != nil {
		return nil, models.InternalError(err)
	}
	return list, nil
}

// ListBookings returns the client's booking log, oldest first.
func (d *Directory) ListBookings(ctx context.Context, clientID uuid.UUID) ([]models.Booking, error) {
	bookings, err := d.repo.ListBookings(ctx, clientID)
	if err != nil {
		return nil, models.InternalError(err)
	}
	return bookings, nil
}

// Delete removes a client by administrative action. Orders and tables
// referencing the client are left untouched; there is no cascade.
func (d *Directory) Delete(ctx context.Context, id uuid.UUID, requestID string) error {
	deleted, err := d.repo.Delete(ctx, id)
	if err != nil {
		return models.InternalError(err)
	}
	if !deleted {
		return models.NotFoundError("client not found: %s", id)
	}

	d.logger.Info("client_deleted", requestID, "Deleted client record",
		map[string]interface{}{"client_id": id.String()})

	return nil
}
