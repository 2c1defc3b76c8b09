package orders

import (
	"context"

	"github.com/google/uuid"

	"resto-pos/internal/logger"
	"resto-pos/internal/messaging"
	"resto-pos/internal/models"
)

// Repository is the persistence contract of the order ledger. Lookup methods
// return (nil, nil) when no record matches.
type Repository interface {
	// CreateOrder persists the order, its line-item snapshot and the initial
	// status log entry atomically.
	CreateOrder(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
	KitchenQueue(ctx context.Context) ([]models.Order, error)
	// UpdateStatus changes the order status and appends to the status log,
	// reporting whether the order existed.
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus, changedBy string) (bool, error)
	StatusHistory(ctx context.Context, id uuid.UUID) ([]models.OrderStatusHistory, error)
}

// ClientDirectory is the slice of the client directory the ledger needs.
type ClientDirectory interface {
	Resolve(ctx context.Context, ident models.ClientIdentifier, requestID string) (*models.Client, error)
	RecordOrder(ctx context.Context, clientID, orderID uuid.UUID, amount float64, requestID string) error
}

// MenuCatalog is the read-only price source. GetItem returns (nil, nil) when
// the item does not exist.
type MenuCatalog interface {
	GetItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error)
}

// UserFinder looks up staff users. GetByID returns (nil, nil) when absent.
type UserFinder interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// TableFinder looks up tables for display binding. GetSummary returns
// (nil, nil) when absent.
type TableFinder interface {
	GetSummary(ctx context.Context, id uuid.UUID) (*models.TableSummary, error)
}

// Service implements the order ledger: priced, immutable-at-creation orders
// whose only mutable field is the status.
type Service struct {
	repo      Repository
	directory ClientDirectory
	catalog   MenuCatalog
	users     UserFinder
	tables    TableFinder
	events    messaging.EventPublisher
	logger    *logger.Logger
}

// NewService creates a new order ledger service.
func NewService(repo Repository, directory ClientDirectory, catalog MenuCatalog,
	users UserFinder, tables TableFinder, events messaging.EventPublisher, log *logger.Logger) *Service {
	return &Service{
		repo:      repo,
		directory: directory,
		catalog:   catalog,
		users:     users,
		tables:    tables,
		events:    events,
		logger:    log,
	}
}

// orderEvent is the payload published on order lifecycle changes.
type orderEvent struct {
	OrderID     string  `json:"orderId"`
	Status      string  `json:"status"`
	Type        string  `json:"type"`
	TotalAmount float64 `json:"totalAmount"`
}

// PlaceOrder prices the cart against the current catalog, persists the order
// and reflects it into the client's aggregates. Any line referencing a
// missing menu item aborts the whole operation before anything is written.
func (s *Service) PlaceOrder(ctx context.Context, req *models.CreateOrderRequest, requestID string) (*models.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	client, err := s.directory.Resolve(ctx, models.ClientIdentifier{
		ID:    req.ClientID,
		Phone: req.ClientPhone,
		Name:  req.ClientName,
	}, requestID)
	if err != nil {
		return nil, err
	}

	// Price every line from the catalog's current price. The cart never
	// carries authoritative prices; the snapshot taken here is what the
	// order keeps forever.
	items := make([]models.OrderItem, 0, len(req.Items))
	var total float64
	for _, line := range req.Items {
		menuItem, err := s.catalog.GetItem(ctx, line.MenuItemID)
		if err != nil {
			return nil, models.InternalError(err)
		}
		if menuItem == nil {
			return nil, models.NotFoundError("menu item not found: %s", line.MenuItemID)
		}
		items = append(items, models.OrderItem{
			MenuItemID: menuItem.ID,
			Name:       menuItem.Name,
			Price:      menuItem.Price,
			Quantity:   line.Quantity,
		})
		total += menuItem.Price * float64(line.Quantity)
	}

	order := &models.Order{
		ID:            uuid.New(),
		Type:          models.OrderType(req.Type),
		Status:        models.StatusPending,
		PaymentMethod: models.PaymentMethod(req.PaymentMethod),
		Items:         items,
		TotalAmount:   total,
		Client:        client.Summary(),
	}

	if req.UserID != nil {
		user, err := s.users.GetByID(ctx, *req.UserID)
		if err != nil {
			return nil, models.InternalError(err)
		}
		// An unresolvable staff id is not an error; the order is simply
		// unattributed.
		if user != nil {
			order.User = user.Summary()
		}
	}

	if req.TableID != nil {
		table, err := s.tables.GetSummary(ctx, *req.TableID)
		if err != nil {
			return nil, models.InternalError(err)
		}
		if table == nil {
			return nil, models.NotFoundError("table not found: %s", *req.TableID)
		}
		order.Table = table
	}

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, models.InternalError(err)
	}

	// Ordered after the order is durable. If this fails the order stands and
	// the client aggregate is stale until corrected; there is no compensating
	// rollback across the two documents.
	if err := s.directory.RecordOrder(ctx, client.ID, order.ID, order.TotalAmount, requestID); err != nil {
		s.logger.Error("client_aggregate_stale", requestID,
			"Order persisted but client aggregate update failed", err,
			map[string]interface{}{
				"order_id":  order.ID.String(),
				"client_id": client.ID.String(),
			})
	}

	s.events.Publish(ctx, messaging.RouteOrderCreated, orderEvent{
		OrderID:     order.ID.String(),
		Status:      string(order.Status),
		Type:        string(order.Type),
		TotalAmount: order.TotalAmount,
	})

	s.logger.Info("order_created", requestID, "Order created",
		map[string]interface{}{
			"order_id":     order.ID.String(),
			"client_id":    client.ID.String(),
			"total_amount": order.TotalAmount,
			"items":        len(order.Items),
		})

	return order, nil
}

// AdvanceStatus moves an order to the given status. Any of the five statuses
// is accepted as a target regardless of the current one; the source system
// never enforced a transition graph and callers rely on that.
func (s *Service) AdvanceStatus(ctx context.Context, id uuid.UUID, newStatus, requestID string) (*models.Order, error) {
	status, err := models.ParseOrderStatus(newStatus)
	if err != nil {
		return nil, err
	}

	found, err := s.repo.UpdateStatus(ctx, id, status, "pos-service")
	if err != nil {
		return nil, models.InternalError(err)
	}
	if !found {
		return nil, models.NotFoundError("order not found: %s", id)
	}

	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, models.InternalError(err)
	}
	if order == nil {
		return nil, models.NotFoundError("order not found: %s", id)
	}

	s.events.Publish(ctx, messaging.RouteOrderStatusUpdated, orderEvent{
		OrderID:     order.ID.String(),
		Status:      string(order.Status),
		Type:        string(order.Type),
		TotalAmount: order.TotalAmount,
	})

	s.logger.Info("order_status_updated", requestID, "Order status updated",
		map[string]interface{}{"order_id": id.String(), "status": string(status)})

	return order, nil
}

// KitchenQueue returns all orders still in the kitchen lifecycle, oldest
// created first.
func (s *Service) KitchenQueue(ctx context.Context) ([]models.Order, error) {
	queue, err := s.repo.KitchenQueue(ctx)
	if err != nil {
		return nil, models.InternalError(err)
	}
	return queue, nil
}

// Get fetches one order with its display joins.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, models.InternalError(err)
	}
	if order == nil {
		return nil, models.NotFoundError("order not found: %s", id)
	}
	return order, nil
}

// List returns all orders, newest first.
func (s *Service) List(ctx context.Context) ([]models.Order, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, models.InternalError(err)
	}
	return list, nil
}

// StatusHistory returns the order's status log, oldest first.
func (s *Service) StatusHistory(ctx context.Context, id uuid.UUID) ([]models.OrderStatusHistory, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, models.InternalError(err)
	}
	if order == nil {
		return nil, models.NotFoundError("order not found: %s", id)
	}

	history, err := s.repo.StatusHistory(ctx, id)
	if err != nil {
		return nil, models.InternalError(err)
	}
	return history, nil
}
