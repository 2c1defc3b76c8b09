package tables

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"resto-pos/internal/logger"
	"resto-pos/internal/messaging"
	"resto-pos/internal/models"
)

// ErrDuplicateName is returned by Repository.Insert when another table
// already carries the requested name.
var ErrDuplicateName = errors.New("table name already taken")

// Repository is the persistence contract of the table occupancy engine.
// Lookup methods return (nil, nil) when no record matches.
type Repository interface {
	Insert(ctx context.Context, table *models.Table) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Table, error)
	List(ctx context.Context) ([]models.Table, error)
	// Status reads the current occupancy status, reporting whether the table
	// exists.
	Status(ctx context.Context, id uuid.UUID) (models.TableStatus, bool, error)
	// Reserve transitions Available -> Reserved and attaches the reservation
	// block in one atomic statement. It reports whether the swap happened; a
	// false result means the table was missing or not Available.
	Reserve(ctx context.Context, id uuid.UUID, res *models.Reservation, clientID uuid.UUID, userID *uuid.UUID) (bool, error)
	// Cancel transitions Reserved -> Available, clearing the reservation block
	// and both back-references atomically. False means missing or not Reserved.
	Cancel(ctx context.Context, id uuid.UUID) (bool, error)
}

// ClientDirectory is the slice of the client directory the engine needs to
// bind reservations to client records.
type ClientDirectory interface {
	Resolve(ctx context.Context, ident models.ClientIdentifier, requestID string) (*models.Client, error)
	RecordBooking(ctx context.Context, booking *models.Booking, requestID string) error
}

// UserFinder looks up staff users. GetByID returns (nil, nil) when absent.
type UserFinder interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Service implements the table occupancy state machine.
type Service struct {
	repo      Repository
	directory ClientDirectory
	users     UserFinder
	events    messaging.EventPublisher
	logger    *logger.Logger
}

// NewService creates a new table occupancy service.
func NewService(repo Repository, directory ClientDirectory, users UserFinder, events messaging.EventPublisher, log *logger.Logger) *Service {
	return &Service{
		repo:      repo,
		directory: directory,
		users:     users,
		events:    events,
		logger:    log,
	}
}

// tableEvent is the payload published on occupancy changes.
type tableEvent struct {
	TableID string `json:"tableId"`
	Status  string `json:"status"`
}

// Create registers a new physical table, initially Available.
func (s *Service) Create(ctx context.Context, req *models.CreateTableRequest, requestID string) (*models.Table, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	table := &models.Table{
		ID:       uuid.New(),
		Name:     req.Name,
		Zone:     req.Zone,
		Capacity: req.Capacity,
		Status:   models.TableAvailable,
	}
	if err := s.repo.Insert(ctx, table); err != nil {
		if errors.Is(err, ErrDuplicateName) {
			return nil, models.ConflictError("table already exists: %s", req.Name)
		}
		return nil, models.InternalError(err)
	}

	s.logger.Info("table_created", requestID, "Table registered",
		map[string]interface{}{"table_id": table.ID.String(), "name": table.Name})

	return table, nil
}

// Reserve books the table for a guest. The guest's contact doubles as the
// client phone, so walk-in reservations lazily create client records the same
// way orders do. The Available -> Reserved transition is a compare-and-swap;
// a table that is Occupied or already Reserved is rejected with a conflict
// and left untouched.
func (s *Service) Reserve(ctx context.Context, id uuid.UUID, req *models.ReserveTableRequest, requestID string) (*models.Table, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Reject before resolving the client so a doomed reservation does not
	// lazily create a client record. The compare-and-swap below remains the
	// authority under concurrency.
	status, found, err := s.repo.Status(ctx, id)
	if err != nil {
		return nil, models.InternalError(err)
	}
	if !found {
		return nil, models.NotFoundError("table not found: %s", id)
	}
	if status != models.TableAvailable {
		return nil, models.ConflictError("table is not available for reservation: current status is %s", status)
	}

	client, err := s.directory.Resolve(ctx, models.ClientIdentifier{
		Phone: req.Contact,
		Name:  req.BookedBy,
	}, requestID)
	if err != nil {
		return nil, err
	}

	// A userId that does not resolve to a staff user is not an error; the
	// reservation simply carries no person reference.
	var userID *uuid.UUID
	if req.UserID != nil {
		user, err := s.users.GetByID(ctx, *req.UserID)
		if err != nil {
			return nil, models.InternalError(err)
		}
		if user != nil {
			userID = req.UserID
		}
	}

	res := &models.Reservation{
		BookedBy: req.BookedBy,
		Contact:  req.Contact,
		Guests:   req.Guests,
		Date:     req.Date,
		Notes:    req.Notes,
	}

	swapped, err := s.repo.Reserve(ctx, id, res, client.ID, userID)
	if err != nil {
		return nil, models.InternalError(err)
	}
	if !swapped {
		return nil, s.occupancyConflict(ctx, id, models.TableAvailable)
	}

	// The reservation is durable at this point. The booking log entry is a
	// secondary record; if it fails the reservation stands and the log is
	// incomplete.
	booking := &models.Booking{
		ClientID: client.ID,
		TableID:  id,
		Date:     req.Date,
		Guests:   req.Guests,
		Notes:    req.Notes,
	}
	if err := s.directory.RecordBooking(ctx, booking, requestID); err != nil {
		s.logger.Error("booking_log_stale", requestID,
			"Table reserved but booking log entry failed", err,
			map[string]interface{}{
				"table_id":  id.String(),
				"client_id": client.ID.String(),
			})
	}

	s.events.Publish(ctx, messaging.RouteTableReserved, tableEvent{
		TableID: id.String(),
		Status:  string(models.TableReserved),
	})

	s.logger.Info("table_reserved", requestID, "Table reserved",
		map[string]interface{}{
			"table_id":  id.String(),
			"client_id": client.ID.String(),
			"guests":    req.Guests,
		})

	return s.Get(ctx, id)
}

// CancelReservation releases a reserved table back to Available, clearing the
// reservation block and the client and person references in one atomic
// statement. Only a Reserved table can be cancelled; the booking log entry
// written at reservation time is kept as history.
func (s *Service) CancelReservation(ctx context.Context, id uuid.UUID, requestID string) (*models.Table, error) {
	swapped, err := s.repo.Cancel(ctx, id)
	if err != nil {
		return nil, models.InternalError(err)
	}
	if !swapped {
		return nil, s.occupancyConflict(ctx, id, models.TableReserved)
	}

	s.events.Publish(ctx, messaging.RouteReservationCancelled, tableEvent{
		TableID: id.String(),
		Status:  string(models.TableAvailable),
	})

	s.logger.Info("reservation_cancelled", requestID, "Reservation cancelled",
		map[string]interface{}{"table_id": id.String()})

	return s.Get(ctx, id)
}

// occupancyConflict explains a failed compare-and-swap: either the table does
// not exist, or it is in a state the transition does not accept.
func (s *Service) occupancyConflict(ctx context.Context, id uuid.UUID, wanted models.TableStatus) error {
	status, found, err := s.repo.Status(ctx, id)
	if err != nil {
		return models.InternalError(err)
	}
	if !found {
		return models.NotFoundError("table not found: %s", id)
	}
	if wanted == models.TableAvailable {
		return models.ConflictError("table is not available for reservation: current status is %s", status)
	}
	return models.ConflictError("table is not reserved: current status is %s", status)
}

// Get fetches one table with its reservation block and display joins.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Table, error) {
	table, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, models.InternalError(err)
	}
	if table == nil {
		return nil, models.NotFoundError("table not found: %s", id)
	}
	return table, nil
}

// List returns all tables ordered by name.
func (s *Service) List(ctx context.Context) ([]models.Table, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, models.InternalError(err)
	}
	return list, nil
}

// GetSummary returns the embeddable display shape of a table, or (nil, nil)
// when it does not exist. Used by the order ledger.
func (s *Service) GetSummary(ctx context.Context, id uuid.UUID) (*models.TableSummary, error) {
	table, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if table == nil {
		return nil, nil
	}
	return table.Summary(), nil
}
