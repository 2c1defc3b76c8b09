package orders

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

// NewPostgresRepository creates a new order repository.
func NewPostgresRepository(db *database.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// CreateOrder persists the order, its line items and the initial status log
// entry in one transaction so a partially written order can never be read.
func (r *PostgresRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var paymentMethod *string
	if order.PaymentMethod != "" {
		s := string(order.PaymentMethod)
		paymentMethod = &s
	}
	var userID, tableID *uuid.UUID
	if order.User != nil {
		userID = &order.User.ID
	}
	if order.Table != nil {
		tableID = &order.Table.ID
	}

	err = tx.QueryRow(ctx, database.InsertOrderSQL,
		order.ID, order.Type, order.Status, paymentMethod, order.TotalAmount,
		order.Client.ID, userID, tableID,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return err
	}

	for _, item := range order.Items {
		_, err = tx.Exec(ctx, database.InsertOrderItemSQL,
			order.ID, item.MenuItemID, item.Name, item.Price, item.Quantity)
		if err != nil {
			return err
		}
	}

	_, err = tx.Exec(ctx, database.InsertOrderStatusLogSQL,
		order.ID, order.Status, "pos-service", "order created")
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// GetByID fetches one order with display joins, returning (nil, nil) when
// absent.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := scanOrder(r.db.QueryRow(ctx, database.GetOrderByIDSQL, id))
	if err != nil || order == nil {
		return nil, err
	}

	if err := r.loadItems(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// List returns all orders, newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]models.Order, error) {
	return r.queryOrders(ctx, database.ListOrdersSQL)
}

// KitchenQueue returns orders with status in {Pending, Preparing, Ready},
// oldest created first.
func (r *PostgresRepository) KitchenQueue(ctx context.Context) ([]models.Order, error) {
	statuses := make([]string, len(models.KitchenStatuses))
	for i, s := range models.KitchenStatuses {
		statuses[i] = string(s)
	}
	return r.queryOrders(ctx, database.KitchenQueueSQL, statuses)
}

func (r *PostgresRepository) queryOrders(ctx context.Context, sql string, args ...interface{}) ([]models.Order, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		order, err := scanOrderRow(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		if err := r.loadItems(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}

	return orders, nil
}

// UpdateStatus changes the status and appends a status log entry, reporting
// whether the order existed.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus, changedBy string) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, database.UpdateOrderStatusSQL, id, status)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	_, err = tx.Exec(ctx, database.InsertOrderStatusLogSQL, id, status, changedBy, nil)
	if err != nil {
		return false, err
	}

	return true, tx.Commit(ctx)
}

// StatusHistory returns the order's status log, oldest first.
func (r *PostgresRepository) StatusHistory(ctx context.Context, id uuid.UUID) ([]models.OrderStatusHistory, error) {
	rows, err := r.db.Query(ctx, database.GetOrderStatusHistorySQL, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []models.OrderStatusHistory
	for rows.Next() {
		var entry models.OrderStatusHistory
		err := rows.Scan(&entry.Status, &entry.ChangedBy, &entry.ChangedAt, &entry.Notes)
		if err != nil {
			return nil, err
		}
		history = append(history, entry)
	}

	return history, rows.Err()
}

func (r *PostgresRepository) loadItems(ctx context.Context, order *models.Order) error {
	rows, err := r.db.Query(ctx, database.GetOrderItemsSQL, order.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var item models.OrderItem
		err := rows.Scan(&item.MenuItemID, &item.Name, &item.Price, &item.Quantity)
		if err != nil {
			return err
		}
		items = append(items, item)
	}

	order.Items = items
	return rows.Err()
}

// scanOrder scans a single joined order row, mapping pgx.ErrNoRows to
// (nil, nil).
func scanOrder(row pgx.Row) (*models.Order, error) {
	order, err := scanOrderRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

func scanOrderRow(row pgx.Row) (*models.Order, error) {
	var order models.Order
	var paymentMethod *string
	var clientID *uuid.UUID
	var clientName, clientPhone *string
	var userID *uuid.UUID
	var userName, userRole *string
	var tableID *uuid.UUID
	var tableName, tableZone *string

	err := row.Scan(
		&order.ID,
		&order.Type,
		&order.Status,
		&paymentMethod,
		&order.TotalAmount,
		&order.CreatedAt,
		&order.UpdatedAt,
		&clientID, &clientName, &clientPhone,
		&userID, &userName, &userRole,
		&tableID, &tableName, &tableZone,
	)
	if err != nil {
		return nil, err
	}

	if paymentMethod != nil {
		order.PaymentMethod = models.PaymentMethod(*paymentMethod)
	}
	if clientID != nil {
		order.Client = &models.ClientSummary{ID: *clientID, Name: deref(clientName), Phone: deref(clientPhone)}
	}
	if userID != nil {
		order.User = &models.UserSummary{ID: *userID, Name: deref(userName), Role: deref(userRole)}
	}
	if tableID != nil {
		order.Table = &models.TableSummary{ID: *tableID, Name: deref(tableName), Zone: deref(tableZone)}
	}

	return &order, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
