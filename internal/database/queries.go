package database

// Client queries
const (
	InsertClientSQL = `
		INSERT INTO clients (id, name, phone, email, total_spent, last_visit)
		VALUES ($1, $2, $3, $4, 0, NOW())
		RETURNING total_spent, last_visit, created_at, updated_at`

	GetClientByIDSQL = `
		SELECT id, name, phone, email, total_spent, last_visit, created_at, updated_at
		FROM clients WHERE id = $1`

	GetClientByPhoneSQL = `
		SELECT id, name, phone, email, total_spent, last_visit, created_at, updated_at
		FROM clients WHERE phone = $1`

	ListClientsSQL = `
		SELECT id, name, phone, email, total_spent, last_visit, created_at, updated_at
		FROM clients
		ORDER BY created_at ASC`

	DeleteClientSQL = `
		DELETE FROM clients WHERE id = $1`

	// The aggregate update is a single statement so concurrent orders for the
	// same client cannot lose an increment.
	RecordClientOrderSQL = `
		UPDATE clients
		SET total_spent = total_spent + $2, last_visit = NOW(), updated_at = NOW()
		WHERE id = $1`

	InsertBookingSQL = `
		INSERT INTO bookings (id, client_id, table_id, booking_date, guests, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	TouchClientVisitSQL = `
		UPDATE clients SET last_visit = NOW(), updated_at = NOW() WHERE id = $1`

	ListClientBookingsSQL = `
		SELECT id, client_id, table_id, booking_date, guests, status, notes, created_at
		FROM bookings
		WHERE client_id = $1
		ORDER BY created_at ASC`
)

// Menu queries
const (
	InsertMenuItemSQL = `
		INSERT INTO menu_items (id, name, description, price, category, available)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	GetMenuItemByIDSQL = `
		SELECT id, name, description, price, category, available, created_at, updated_at
		FROM menu_items WHERE id = $1`

	ListMenuItemsSQL = `
		SELECT id, name, description, price, category, available, created_at, updated_at
		FROM menu_items
		ORDER BY category ASC, name ASC`

	UpdateMenuItemSQL = `
		UPDATE menu_items
		SET name = $2, description = $3, price = $4, category = $5, available = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`

	DeleteMenuItemSQL = `
		DELETE FROM menu_items WHERE id = $1`
)

// Order queries
const (
	InsertOrderSQL = `
		INSERT INTO orders (id, type, status, payment_method, total_amount, client_id, user_id, table_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	InsertOrderItemSQL = `
		INSERT INTO order_items (order_id, menu_item_id, name, price, quantity)
		VALUES ($1, $2, $3, $4, $5)`

	InsertOrderStatusLogSQL = `
		INSERT INTO order_status_log (order_id, status, changed_by, notes)
		VALUES ($1, $2, $3, $4)`

	GetOrderByIDSQL = `
		SELECT o.id, o.type, o.status, o.payment_method, o.total_amount,
			   o.created_at, o.updated_at,
			   c.id, c.name, c.phone,
			   u.id, u.name, u.role,
			   t.id, t.name, t.zone
		FROM orders o
		LEFT JOIN clients c ON c.id = o.client_id
		LEFT JOIN users u ON u.id = o.user_id
		LEFT JOIN tables t ON t.id = o.table_id
		WHERE o.id = $1`

	ListOrdersSQL = `
		SELECT o.id, o.type, o.status, o.payment_method, o.total_amount,
			   o.created_at, o.updated_at,
			   c.id, c.name, c.phone,
			   u.id, u.name, u.role,
			   t.id, t.name, t.zone
		FROM orders o
		LEFT JOIN clients c ON c.id = o.client_id
		LEFT JOIN users u ON u.id = o.user_id
		LEFT JOIN tables t ON t.id = o.table_id
		ORDER BY o.created_at DESC, o.id DESC`

	// Oldest first so the kitchen works orders in arrival order. The id
	// tiebreak keeps the ordering stable for orders created in the same
	// instant.
	KitchenQueueSQL = `
		SELECT o.id, o.type, o.status, o.payment_method, o.total_amount,
			   o.created_at, o.updated_at,
			   c.id, c.name, c.phone,
			   u.id, u.name, u.role,
			   t.id, t.name, t.zone
		FROM orders o
		LEFT JOIN clients c ON c.id = o.client_id
		LEFT JOIN users u ON u.id = o.user_id
		LEFT JOIN tables t ON t.id = o.table_id
		WHERE o.status = ANY($1)
		ORDER BY o.created_at ASC, o.id ASC`

	GetOrderItemsSQL = `
		SELECT menu_item_id, name, price, quantity
		FROM order_items
		WHERE order_id = $1
		ORDER BY id ASC`

	UpdateOrderStatusSQL = `
		UPDATE orders SET status = $2, updated_at = NOW()
		WHERE id = $1`

	GetOrderStatusHistorySQL = `
		SELECT status, changed_by, changed_at, notes
		FROM order_status_log
		WHERE order_id = $1
		ORDER BY changed_at ASC, id ASC`
)

// Table queries
const (
	InsertTableSQL = `
		INSERT INTO tables (id, name, zone, capacity, status)
		VALUES ($1, $2, $3, $4, 'Available')
		RETURNING created_at, updated_at`

	GetTableByIDSQL = `
		SELECT t.id, t.name, t.zone, t.capacity, t.status,
			   t.reserved_by, t.reserved_contact, t.reserved_guests, t.reserved_date, t.reserved_notes,
			   t.current_order_id, t.created_at, t.updated_at,
			   c.id, c.name, c.phone,
			   u.id, u.name, u.role
		FROM tables t
		LEFT JOIN clients c ON c.id = t.client_id
		LEFT JOIN users u ON u.id = t.user_id
		WHERE t.id = $1`

	ListTablesSQL = `
		SELECT t.id, t.name, t.zone, t.capacity, t.status,
			   t.reserved_by, t.reserved_contact, t.reserved_guests, t.reserved_date, t.reserved_notes,
			   t.current_order_id, t.created_at, t.updated_at,
			   c.id, c.name, c.phone,
			   u.id, u.name, u.role
		FROM tables t
		LEFT JOIN clients c ON c.id = t.client_id
		LEFT JOIN users u ON u.id = t.user_id
		ORDER BY t.name ASC`

	GetTableStatusSQL = `
		SELECT status FROM tables WHERE id = $1`

	// Compare-and-swap: the status check and the transition are one atomic
	// statement, so two concurrent reservations cannot both observe
	// 'Available' and double-book the table.
	ReserveTableSQL = `
		UPDATE tables
		SET status = 'Reserved',
			reserved_by = $2, reserved_contact = $3, reserved_guests = $4,
			reserved_date = $5, reserved_notes = $6,
			client_id = $7, user_id = $8, updated_at = NOW()
		WHERE id = $1 AND status = 'Available'
		RETURNING id`

	// Clears the reservation block and both back-references together; a
	// partially cleared reservation can never be observed.
	CancelReservationSQL = `
		UPDATE tables
		SET status = 'Available',
			reserved_by = NULL, reserved_contact = NULL, reserved_guests = NULL,
			reserved_date = NULL, reserved_notes = NULL,
			client_id = NULL, user_id = NULL, updated_at = NOW()
		WHERE id = $1 AND status = 'Reserved'
		RETURNING id`
)

// User queries
const (
	GetUserByIDSQL = `
		SELECT id, name, email, role, created_at
		FROM users WHERE id = $1`
)
