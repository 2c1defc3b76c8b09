package orders

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"resto-pos/internal/logger"
	"resto-pos/internal/models"
)

// fakeRepo is an in-memory Repository mirroring the SQL semantics of the
// postgres implementation.
type fakeRepo struct {
	orders  map[uuid.UUID]*models.Order
	history map[uuid.UUID][]models.OrderStatusHistory
	clock   time.Time
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		orders:  make(map[uuid.UUID]*models.Order),
		history: make(map[uuid.UUID][]models.OrderStatusHistory),
		clock:   time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (f *fakeRepo) CreateOrder(_ context.Context, order *models.Order) error {
	f.clock = f.clock.Add(time.Second)
	order.CreatedAt = f.clock
	order.UpdatedAt = f.clock
	copied := *order
	f.orders[order.ID] = &copied
	f.history[order.ID] = append(f.history[order.ID], models.OrderStatusHistory{
		Status: order.Status, ChangedBy: "pos-service", ChangedAt: f.clock,
	})
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	if o, ok := f.orders[id]; ok {
		copied := *o
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeRepo) List(_ context.Context) ([]models.Order, error) {
	out := f.all()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeRepo) KitchenQueue(_ context.Context) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.all() {
		if !o.Status.IsTerminal() {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id uuid.UUID, status models.OrderStatus, changedBy string) (bool, error) {
	o, ok := f.orders[id]
	if !ok {
		return false, nil
	}
	f.clock = f.clock.Add(time.Second)
	o.Status = status
	o.UpdatedAt = f.clock
	f.history[id] = append(f.history[id], models.OrderStatusHistory{
		Status: status, ChangedBy: changedBy, ChangedAt: f.clock,
	})
	return true, nil
}

func (f *fakeRepo) StatusHistory(_ context.Context, id uuid.UUID) ([]models.OrderStatusHistory, error) {
	return f.history[id], nil
}

func (f *fakeRepo) all() []models.Order {
	var out []models.Order
	for _, o := range f.orders {
		out = append(out, *o)
	}
	return out
}

// fakeDirectory mimics the client directory's find-or-create contract.
type fakeDirectory struct {
	clients         map[string]*models.Client
	recorded        map[uuid.UUID]float64
	failRecordOrder bool
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		clients:  make(map[string]*models.Client),
		recorded: make(map[uuid.UUID]float64),
	}
}

func (f *fakeDirectory) Resolve(_ context.Context, ident models.ClientIdentifier, _ string) (*models.Client, error) {
	if ident.ID != nil {
		for _, c := range f.clients {
			if c.ID == *ident.ID {
				return c, nil
			}
		}
		return nil, models.NotFoundError("client not found: %s", *ident.ID)
	}
	if c, ok := f.clients[ident.Phone]; ok {
		return c, nil
	}
	if strings.TrimSpace(ident.Name) == "" {
		return nil, models.ValidationError("client name required")
	}
	c := &models.Client{ID: uuid.New(), Name: ident.Name, Phone: ident.Phone}
	f.clients[ident.Phone] = c
	return c, nil
}

func (f *fakeDirectory) RecordOrder(_ context.Context, clientID, _ uuid.UUID, amount float64, _ string) error {
	if f.failRecordOrder {
		return models.InternalError(errors.New("aggregate update failed"))
	}
	f.recorded[clientID] += amount
	return nil
}

// fakeCatalog is an in-memory menu.
type fakeCatalog struct {
	items map[uuid.UUID]models.MenuItem
}

func (f *fakeCatalog) GetItem(_ context.Context, id uuid.UUID) (*models.MenuItem, error) {
	if item, ok := f.items[id]; ok {
		copied := item
		return &copied, nil
	}
	return nil, nil
}

type fakeUsers struct {
	users map[uuid.UUID]models.User
}

func (f *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		copied := u
		return &copied, nil
	}
	return nil, nil
}

type fakeTables struct {
	tables map[uuid.UUID]models.TableSummary
}

func (f *fakeTables) GetSummary(_ context.Context, id uuid.UUID) (*models.TableSummary, error) {
	if t, ok := f.tables[id]; ok {
		copied := t
		return &copied, nil
	}
	return nil, nil
}

// fakePublisher records published events.
type fakePublisher struct {
	routingKeys []string
}

func (f *fakePublisher) Publish(_ context.Context, routingKey string, _ interface{}) {
	f.routingKeys = append(f.routingKeys, routingKey)
}

type fixture struct {
	service   *Service
	repo      *fakeRepo
	directory *fakeDirectory
	catalog   *fakeCatalog
	publisher *fakePublisher
	salmonID  uuid.UUID
	coffeeID  uuid.UUID
}

func newFixture() *fixture {
	repo := newFakeRepo()
	directory := newFakeDirectory()
	catalog := &fakeCatalog{items: make(map[uuid.UUID]models.MenuItem)}
	users := &fakeUsers{users: make(map[uuid.UUID]models.User)}
	tables := &fakeTables{tables: make(map[uuid.UUID]models.TableSummary)}
	publisher := &fakePublisher{}

	salmonID := uuid.New()
	coffeeID := uuid.New()
	catalog.items[salmonID] = models.MenuItem{ID: salmonID, Name: "Grilled Salmon", Price: 24.99, Available: true}
	catalog.items[coffeeID] = models.MenuItem{ID: coffeeID, Name: "Espresso", Price: 3.50, Available: true}

	service := NewService(repo, directory, catalog, users, tables, publisher, logger.New("orders-test"))

	return &fixture{
		service:   service,
		repo:      repo,
		directory: directory,
		catalog:   catalog,
		publisher: publisher,
		salmonID:  salmonID,
		coffeeID:  coffeeID,
	}
}

func (fx *fixture) placeOrder(t *testing.T, req *models.CreateOrderRequest) *models.Order {
	t.Helper()
	order, err := fx.service.PlaceOrder(context.Background(), req, "req")
	if err != nil {
		t.Fatalf("PlaceOrder returned error: %v", err)
	}
	return order
}

func TestPlaceOrder_PricesFromCatalog(t *testing.T) {
	fx := newFixture()

	order := fx.placeOrder(t, &models.CreateOrderRequest{
		Type:        "Takeaway",
		Items:       []models.CartItem{{MenuItemID: fx.salmonID, Quantity: 2}},
		ClientPhone: "555-1111",
		ClientName:  "Alex",
	})

	if order.TotalAmount != 49.98 {
		t.Errorf("totalAmount = %v, want 49.98", order.TotalAmount)
	}
	if len(order.Items) != 1 {
		t.Fatalf("item count = %d, want 1", len(order.Items))
	}
	line := order.Items[0]
	if line.Name != "Grilled Salmon" || line.Price != 24.99 || line.Quantity != 2 {
		t.Errorf("line snapshot = %+v", line)
	}
	if order.Status != models.StatusPending {
		t.Errorf("status = %s, want Pending", order.Status)
	}

	// A later catalog price change must not alter the persisted snapshot.
	item := fx.catalog.items[fx.salmonID]
	item.Price = 31.00
	fx.catalog.items[fx.salmonID] = item

	persisted, _ := fx.repo.GetByID(context.Background(), order.ID)
	if persisted.Items[0].Price != 24.99 {
		t.Errorf("persisted snapshot price = %v, want 24.99", persisted.Items[0].Price)
	}
	if persisted.TotalAmount != 49.98 {
		t.Errorf("persisted totalAmount = %v, want 49.98", persisted.TotalAmount)
	}
}

func TestPlaceOrder_MultiLineTotal(t *testing.T) {
	fx := newFixture()

	order := fx.placeOrder(t, &models.CreateOrderRequest{
		Type: "Dine-in",
		Items: []models.CartItem{
			{MenuItemID: fx.salmonID, Quantity: 1},
			{MenuItemID: fx.coffeeID, Quantity: 3},
		},
		ClientPhone: "555-1111",
		ClientName:  "Alex",
	})

	// The accumulated sum differs from the folded constant in the last bit,
	// so compare within a sub-cent tolerance.
	want := 24.99 + 3*3.50
	if math.Abs(order.TotalAmount-want) > 1e-9 {
		t.Errorf("totalAmount = %v, want %v", order.TotalAmount, want)
	}
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	fx := newFixture()

	_, err := fx.service.PlaceOrder(context.Background(), &models.CreateOrderRequest{
		Type:        "Takeaway",
		ClientPhone: "555-1111",
		ClientName:  "Alex",
	}, "req")

	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Kind != models.KindValidation {
		t.Errorf("expected ValidationError, got %v", err)
	}
	if len(fx.repo.orders) != 0 {
		t.Errorf("order was persisted despite validation failure")
	}
}

func TestPlaceOrder_UnknownMenuItemAbortsWhole(t *testing.T) {
	fx := newFixture()
	unknown := uuid.New()

	_, err := fx.service.PlaceOrder(context.Background(), &models.CreateOrderRequest{
		Type: "Takeaway",
		Items: []models.CartItem{
			{MenuItemID: fx.salmonID, Quantity: 1},
			{MenuItemID: unknown, Quantity: 1},
		},
		ClientPhone: "555-1111",
		ClientName:  "Alex",
	}, "req")

	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Kind != models.KindNotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
	if !strings.Contains(appErr.Message, unknown.String()) {
		t.Errorf("message %q does not name the missing item", appErr.Message)
	}
	// No partial order for the valid subset of lines.
	if len(fx.repo.orders) != 0 {
		t.Errorf("partial order was persisted")
	}
}

func TestPlaceOrder_NewPhoneNeedsName(t *testing.T) {
	fx := newFixture()

	_, err := fx.service.PlaceOrder(context.Background(), &models.CreateOrderRequest{
		Type:        "Takeaway",
		Items:       []models.CartItem{{MenuItemID: fx.salmonID, Quantity: 1}},
		ClientPhone: "555-9999",
	}, "req")

	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Kind != models.KindValidation {
		t.Errorf("expected ValidationError for missing name, got %v", err)
	}
}

func TestPlaceOrder_ReusesClientAndAccumulatesSpend(t *testing.T) {
	fx := newFixture()

	first := fx.placeOrder(t, &models.CreateOrderRequest{
		Type:        "Takeaway",
		Items:       []models.CartItem{{MenuItemID: fx.salmonID, Quantity: 2}},
		ClientPhone: "555-1111",
		ClientName:  "Alex",
	})
	second := fx.placeOrder(t, &models.CreateOrderRequest{
		Type:        "Takeaway",
		Items:       []models.CartItem{{MenuItemID: fx.coffeeID, Quantity: 1}},
		ClientPhone: "555-1111",
	})

	if first.Client.ID != second.Client.ID {
		t.Errorf("second order bound to different client")
	}
	if got := fx.directory.recorded[first.Client.ID]; got != 49.98+3.50 {
		t.Errorf("recorded spend = %v, want %v", got, 49.98+3.50)
	}
}

func TestPlaceOrder_AggregateFailureTolerated(t *testing.T) {
	fx := newFixture()
	fx.directory.failRecordOrder = true

	order := fx.placeOrder(t, &models.CreateOrderRequest{
		Type:        "Takeaway",
		Items:       []models.CartItem{{MenuItemID: fx.coffeeID, Quantity: 1}},
		ClientPhone: "555-1111",
		ClientName:  "Alex",
	})

	// The order stands even though the client aggregate update failed.
	if persisted, _ := fx.repo.GetByID(context.Background(), order.ID); persisted == nil {
		t.Error("order was not persisted")
	}
}

func TestAdvanceStatus(t *testing.T) {
	fx := newFixture()
	order := fx.placeOrder(t, &models.CreateOrderRequest{
		Type:        "Takeaway",
		Items:       []models.CartItem{{MenuItemID: fx.coffeeID, Quantity: 1}},
		ClientPhone: "555-1111",
		ClientName:  "Alex",
	})

	updated, err := fx.service.AdvanceStatus(context.Background(), order.ID, "Preparing", "req")
	if err != nil {
		t.Fatalf("AdvanceStatus returned error: %v", err)
	}
	if updated.Status != models.StatusPreparing {
		t.Errorf("status = %s, want Preparing", updated.Status)
	}

	// Any defined status is a legal target, including moving backwards.
	if _, err := fx.service.AdvanceStatus(context.Background(), order.ID, "Pending", "req"); err != nil {
		t.Errorf("backwards transition rejected: %v", err)
	}

	_, err = fx.service.AdvanceStatus(context.Background(), order.ID, "Cooking", "req")
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Kind != models.KindValidation {
		t.Errorf("expected ValidationError for bad status, got %v", err)
	}

	_, err = fx.service.AdvanceStatus(context.Background(), uuid.New(), "Ready", "req")
	if !errors.As(err, &appErr) || appErr.Kind != models.KindNotFound {
		t.Errorf("expected NotFound for unknown order, got %v", err)
	}

	history, err := fx.service.StatusHistory(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("StatusHistory returned error: %v", err)
	}
	if len(history) != 3 {
		t.Errorf("history length = %d, want 3", len(history))
	}
}

func TestKitchenQueue_FIFOAndFiltered(t *testing.T) {
	fx := newFixture()

	var ids []uuid.UUID
	for i := 0; i < 4; i++ {
		order := fx.placeOrder(t, &models.CreateOrderRequest{
			Type:        "Takeaway",
			Items:       []models.CartItem{{MenuItemID: fx.coffeeID, Quantity: 1}},
			ClientPhone: "555-1111",
			ClientName:  "Alex",
		})
		ids = append(ids, order.ID)
	}

	// Complete the first, cancel the third; both must disappear.
	if _, err := fx.service.AdvanceStatus(context.Background(), ids[0], "Completed", "req"); err != nil {
		t.Fatal(err)
	}
	if _, err := fx.service.AdvanceStatus(context.Background(), ids[2], "Cancelled", "req"); err != nil {
		t.Fatal(err)
	}
	if _, err := fx.service.AdvanceStatus(context.Background(), ids[3], "Ready", "req"); err != nil {
		t.Fatal(err)
	}

	queue, err := fx.service.KitchenQueue(context.Background())
	if err != nil {
		t.Fatalf("KitchenQueue returned error: %v", err)
	}

	if len(queue) != 2 {
		t.Fatalf("queue length = %d, want 2", len(queue))
	}
	// Oldest created first, regardless of later status updates.
	if queue[0].ID != ids[1] || queue[1].ID != ids[3] {
		t.Errorf("queue order = [%s %s], want [%s %s]", queue[0].ID, queue[1].ID, ids[1], ids[3])
	}
}

func TestPlaceOrder_PublishesEvent(t *testing.T) {
	fx := newFixture()

	fx.placeOrder(t, &models.CreateOrderRequest{
		Type:        "Takeaway",
		Items:       []models.CartItem{{MenuItemID: fx.coffeeID, Quantity: 1}},
		ClientPhone: "555-1111",
		ClientName:  "Alex",
	})

	if len(fx.publisher.routingKeys) != 1 || fx.publisher.routingKeys[0] != "order.created" {
		t.Errorf("published events = %v, want [order.created]", fx.publisher.routingKeys)
	}
}
