package clients

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"resto-pos/internal/logger"
	"resto-pos/internal/models"
)

// fakeRepo is an in-memory Repository for service tests.
type fakeRepo struct {
	clients  map[uuid.UUID]*models.Client
	byPhone  map[string]uuid.UUID
	bookings []models.Booking

	// missPhoneOnce makes the next GetByPhone miss, simulating a racing
	// request that commits the phone between lookup and insert.
	missPhoneOnce bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		clients: make(map[uuid.UUID]*models.Client),
		byPhone: make(map[string]uuid.UUID),
	}
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Client, error) {
	if c, ok := f.clients[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeRepo) GetByPhone(_ context.Context, phone string) (*models.Client, error) {
	if f.missPhoneOnce {
		f.missPhoneOnce = false
		return nil, nil
	}
	if id, ok := f.byPhone[phone]; ok {
		copied := *f.clients[id]
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeRepo) Insert(_ context.Context, client *models.Client) error {
	if _, exists := f.byPhone[client.Phone]; exists {
		return errors.New("duplicate key value violates unique constraint")
	}
	client.LastVisit = time.Now()
	client.CreatedAt = time.Now()
	client.UpdatedAt = time.Now()
	copied := *client
	f.clients[client.ID] = &copied
	f.byPhone[client.Phone] = client.ID
	return nil
}

func (f *fakeRepo) List(_ context.Context) ([]models.Client, error) {
	var out []models.Client
	for _, c := range f.clients {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	c, ok := f.clients[id]
	if !ok {
		return false, nil
	}
	delete(f.byPhone, c.Phone)
	delete(f.clients, id)
	return true, nil
}

func (f *fakeRepo) RecordOrder(_ context.Context, clientID uuid.UUID, amount float64) error {
	c, ok := f.clients[clientID]
	if !ok {
		return errors.New("client missing")
	}
	c.TotalSpent += amount
	c.LastVisit = time.Now()
	return nil
}

func (f *fakeRepo) InsertBooking(_ context.Context, booking *models.Booking) error {
	booking.CreatedAt = time.Now()
	f.bookings = append(f.bookings, *booking)
	return nil
}

func (f *fakeRepo) TouchVisit(_ context.Context, clientID uuid.UUID) error {
	if c, ok := f.clients[clientID]; ok {
		c.LastVisit = time.Now()
	}
	return nil
}

func (f *fakeRepo) ListBookings(_ context.Context, clientID uuid.UUID) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f.bookings {
		if b.ClientID == clientID {
			out = append(out, b)
		}
	}
	return out, nil
}

func newDirectory(repo Repository) *Directory {
	return NewDirectory(repo, logger.New("clients-test"))
}

func TestResolve_ByID(t *testing.T) {
	repo := newFakeRepo()
	directory := newDirectory(repo)

	known := &models.Client{ID: uuid.New(), Name: "Alex", Phone: "555-1111"}
	repo.clients[known.ID] = known
	repo.byPhone[known.Phone] = known.ID

	got, err := directory.Resolve(context.Background(), models.ClientIdentifier{ID: &known.ID}, "req")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if got.ID != known.ID {
		t.Errorf("resolved id = %s, want %s", got.ID, known.ID)
	}

	missing := uuid.New()
	_, err = directory.Resolve(context.Background(), models.ClientIdentifier{ID: &missing}, "req")
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Kind != models.KindNotFound {
		t.Errorf("expected NotFound for unknown id, got %v", err)
	}
}

func TestResolve_NewPhoneRequiresName(t *testing.T) {
	directory := newDirectory(newFakeRepo())

	_, err := directory.Resolve(context.Background(), models.ClientIdentifier{Phone: "555-2222"}, "req")
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Kind != models.KindValidation {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if appErr.Message != "client name required" {
		t.Errorf("message = %q, want %q", appErr.Message, "client name required")
	}
}

func TestResolve_CreatesClientOnce(t *testing.T) {
	repo := newFakeRepo()
	directory := newDirectory(repo)

	first, err := directory.Resolve(context.Background(),
		models.ClientIdentifier{Phone: "555-3333", Name: "Dana"}, "req")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if first.TotalSpent != 0 {
		t.Errorf("new client totalSpent = %v, want 0", first.TotalSpent)
	}
	if first.Name != "Dana" {
		t.Errorf("new client name = %q, want %q", first.Name, "Dana")
	}

	// Second resolution with the same phone reuses the record, even with a
	// different name.
	second, err := directory.Resolve(context.Background(),
		models.ClientIdentifier{Phone: "555-3333", Name: "Other"}, "req")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("second resolution id = %s, want %s", second.ID, first.ID)
	}
	if second.Name != "Dana" {
		t.Errorf("existing client name changed to %q", second.Name)
	}
	if len(repo.clients) != 1 {
		t.Errorf("client count = %d, want 1", len(repo.clients))
	}
}

func TestResolve_ConcurrentCreateFallsBackToExisting(t *testing.T) {
	repo := newFakeRepo()
	directory := newDirectory(repo)

	winner := &models.Client{ID: uuid.New(), Name: "First", Phone: "555-4444"}
	repo.clients[winner.ID] = winner
	repo.byPhone[winner.Phone] = winner.ID
	repo.missPhoneOnce = true

	got, err := directory.Resolve(context.Background(),
		models.ClientIdentifier{Phone: "555-4444", Name: "Second"}, "req")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if got.ID != winner.ID {
		t.Errorf("resolved id = %s, want winner %s", got.ID, winner.ID)
	}
}

func TestRecordOrder_IncrementsTotalSpent(t *testing.T) {
	repo := newFakeRepo()
	directory := newDirectory(repo)

	client, _ := directory.Resolve(context.Background(),
		models.ClientIdentifier{Phone: "555-5555", Name: "Sam"}, "req")

	if err := directory.RecordOrder(context.Background(), client.ID, uuid.New(), 49.98, "req"); err != nil {
		t.Fatalf("RecordOrder returned error: %v", err)
	}
	if err := directory.RecordOrder(context.Background(), client.ID, uuid.New(), 12.50, "req"); err != nil {
		t.Fatalf("RecordOrder returned error: %v", err)
	}

	updated, _ := directory.Get(context.Background(), client.ID)
	if updated.TotalSpent != 62.48 {
		t.Errorf("totalSpent = %v, want 62.48", updated.TotalSpent)
	}
}

func TestRecordBooking_AppendsAndDefaults(t *testing.T) {
	repo := newFakeRepo()
	directory := newDirectory(repo)

	client, _ := directory.Resolve(context.Background(),
		models.ClientIdentifier{Phone: "555-6666", Name: "Kim"}, "req")

	booking := &models.Booking{ClientID: client.ID, TableID: uuid.New(), Guests: 4}
	if err := directory.RecordBooking(context.Background(), booking, "req"); err != nil {
		t.Fatalf("RecordBooking returned error: %v", err)
	}

	if booking.ID == uuid.Nil {
		t.Error("booking id was not assigned")
	}
	if booking.Status != models.BookingConfirmed {
		t.Errorf("booking status = %q, want %q", booking.Status, models.BookingConfirmed)
	}

	logged, _ := directory.ListBookings(context.Background(), client.ID)
	if len(logged) != 1 {
		t.Fatalf("booking log length = %d, want 1", len(logged))
	}
}

func TestDelete_NotFound(t *testing.T) {
	directory := newDirectory(newFakeRepo())

	err := directory.Delete(context.Background(), uuid.New(), "req")
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Kind != models.KindNotFound {
		t.Errorf("expected NotFound, got %v", err)
	}
}
