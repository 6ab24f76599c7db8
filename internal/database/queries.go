package database

// Order queries
const (
	GetOrderSQL = `
		SELECT o.id, o.user_id, o.toad_id, o.status_id, s.name, o.created_at
		FROM orders o
		JOIN order_statuses s ON s.id = o.status_id
		WHERE o.id = $1`

	// Locks the order row so concurrent cart mutations and status
	// changes against the same order serialize.
	GetOrderForUpdateSQL = GetOrderSQL + ` FOR UPDATE OF o`

	InsertOrderSQL = `
		INSERT INTO orders (user_id, toad_id, status_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	UpdateOrderStatusSQL = `
		UPDATE orders SET status_id = $2 WHERE id = $1`

	DeleteOrderSQL = `
		DELETE FROM orders WHERE id = $1`

	DeleteAllOrdersSQL = `
		DELETE FROM orders`

	ListOrdersSQL = `
		SELECT o.id, o.user_id, o.toad_id, o.status_id, s.name, o.created_at
		FROM orders o
		JOIN order_statuses s ON s.id = o.status_id
		ORDER BY o.created_at DESC`

	ListActiveOrdersSQL = `
		SELECT o.id, o.user_id, o.toad_id, o.status_id, s.name, o.created_at
		FROM orders o
		JOIN order_statuses s ON s.id = o.status_id
		WHERE s.name <> $1
		ORDER BY o.created_at ASC`
)

// Cart queries
const (
	InsertCartLineSQL = `
		INSERT INTO cart (order_id, menu_item) VALUES ($1, $2)`

	DeleteCartLinesSQL = `
		DELETE FROM cart WHERE order_id = $1`

	ListCartDishesSQL = `
		SELECT m.id, m.dish_name, m.image, m.description, m.category, m.is_available, m.quantity_left
		FROM cart c
		JOIN menu m ON m.id = c.menu_item
		WHERE c.order_id = $1
		ORDER BY c.id`
)

// Menu queries
const (
	GetDishSQL = `
		SELECT id, dish_name, image, description, category, is_available, quantity_left
		FROM menu WHERE id = $1`

	GetDishForUpdateSQL = GetDishSQL + ` FOR UPDATE`

	// The CHECK constraint on quantity_left backs up the never-negative
	// invariant should a caller skip the pre-flight.
	AdjustDishStockSQL = `
		UPDATE menu SET quantity_left = quantity_left + $2 WHERE id = $1`

	ListDishesSQL = `
		SELECT id, dish_name, image, description, category, is_available, quantity_left
		FROM menu ORDER BY id`

	InsertDishSQL = `
		INSERT INTO menu (dish_name, image, description, category, is_available, quantity_left)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	UpdateDishSQL = `
		UPDATE menu
		SET dish_name = $2, image = $3, description = $4, category = $5,
		    is_available = $6, quantity_left = $7
		WHERE id = $1`
)

// Toad queries
const (
	// One free toad, lowest id first, locked so each free toad is
	// handed to at most one claimant.
	LockFreeToadSQL = `
		SELECT id, pic, is_taken FROM toads
		WHERE is_taken = false
		ORDER BY id
		LIMIT 1
		FOR UPDATE`

	GetToadForUpdateSQL = `
		SELECT id, pic, is_taken FROM toads WHERE id = $1 FOR UPDATE`

	SetToadTakenSQL = `
		UPDATE toads SET is_taken = $2 WHERE id = $1`

	ListToadsSQL = `
		SELECT id, pic, is_taken FROM toads ORDER BY id`

	InsertToadSQL = `
		INSERT INTO toads (pic, is_taken) VALUES ($1, $2) RETURNING id`
)

// Status and user queries
const (
	GetStatusByNameSQL = `
		SELECT id, name FROM order_statuses WHERE name = $1`

	ListStatusesSQL = `
		SELECT id, name FROM order_statuses ORDER BY id`

	GetUserByNameSQL = `
		SELECT id, name, pass_hash, role_id FROM users WHERE name = $1`
)
