// Package postgres implements store.Store on PostgreSQL. Row locks use
// SELECT ... FOR UPDATE scoped to the single row being mutated, held to
// transaction end.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"frog-cafe/internal/database"
	"frog-cafe/internal/models"
	"frog-cafe/internal/store"
)

// Store opens transactions against the database pool.
type Store struct {
	db *database.DB
}

// New creates a PostgreSQL-backed store.
func New(db *database.DB) *Store {
	return &Store{db: db}
}

// ExecTx runs fn inside one database transaction.
func (s *Store) ExecTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&pgTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type pgTx struct {
	tx pgx.Tx
}

func scanOrder(row pgx.Row) (models.Order, error) {
	var o models.Order
	err := row.Scan(&o.ID, &o.UserID, &o.ToadID, &o.StatusID, &o.Status, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Order{}, models.ErrOrderNotFound
	}
	if err != nil {
		return models.Order{}, fmt.Errorf("failed to scan order: %w", err)
	}
	return o, nil
}

func (t *pgTx) GetOrder(ctx context.Context, id int64) (models.Order, error) {
	return scanOrder(t.tx.QueryRow(ctx, database.GetOrderSQL, id))
}

func (t *pgTx) GetOrderForUpdate(ctx context.Context, id int64) (models.Order, error) {
	return scanOrder(t.tx.QueryRow(ctx, database.GetOrderForUpdateSQL, id))
}

func (t *pgTx) InsertOrder(ctx context.Context, userID int64, toadID *int64, statusID int64) (models.Order, error) {
	o := models.Order{UserID: userID, ToadID: toadID, StatusID: statusID}
	err := t.tx.QueryRow(ctx, database.InsertOrderSQL, userID, toadID, statusID).
		Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return models.Order{}, fmt.Errorf("failed to insert order: %w", err)
	}
	return o, nil
}

func (t *pgTx) UpdateOrderStatus(ctx context.Context, orderID, statusID int64) error {
	tag, err := t.tx.Exec(ctx, database.UpdateOrderStatusSQL, orderID, statusID)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrOrderNotFound
	}
	return nil
}

func (t *pgTx) DeleteOrder(ctx context.Context, id int64) error {
	tag, err := t.tx.Exec(ctx, database.DeleteOrderSQL, id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrOrderNotFound
	}
	return nil
}

func (t *pgTx) DeleteAllOrders(ctx context.Context) error {
	if _, err := t.tx.Exec(ctx, database.DeleteAllOrdersSQL); err != nil {
		return fmt.Errorf("failed to delete orders: %w", err)
	}
	return nil
}

func (t *pgTx) collectOrders(ctx context.Context, sql string, args ...interface{}) ([]models.Order, error) {
	rows, err := t.tx.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.ToadID, &o.StatusID, &o.Status, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order row: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (t *pgTx) ListOrders(ctx context.Context) ([]models.Order, error) {
	return t.collectOrders(ctx, database.ListOrdersSQL)
}

func (t *pgTx) ListActiveOrders(ctx context.Context, exclude models.OrderStatus) ([]models.Order, error) {
	return t.collectOrders(ctx, database.ListActiveOrdersSQL, exclude)
}

func (t *pgTx) InsertCartLine(ctx context.Context, orderID, dishID int64) error {
	if _, err := t.tx.Exec(ctx, database.InsertCartLineSQL, orderID, dishID); err != nil {
		return fmt.Errorf("failed to insert cart line: %w", err)
	}
	return nil
}

func (t *pgTx) DeleteCartLines(ctx context.Context, orderID int64) error {
	if _, err := t.tx.Exec(ctx, database.DeleteCartLinesSQL, orderID); err != nil {
		return fmt.Errorf("failed to delete cart lines: %w", err)
	}
	return nil
}

func (t *pgTx) ListCartDishes(ctx context.Context, orderID int64) ([]models.Dish, error) {
	rows, err := t.tx.Query(ctx, database.ListCartDishesSQL, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}
	defer rows.Close()

	var dishes []models.Dish
	for rows.Next() {
		var d models.Dish
		if err := rows.Scan(&d.ID, &d.Name, &d.Image, &d.Description, &d.Category, &d.IsAvailable, &d.QuantityLeft); err != nil {
			return nil, fmt.Errorf("failed to scan cart row: %w", err)
		}
		dishes = append(dishes, d)
	}
	return dishes, rows.Err()
}

func scanDish(row pgx.Row) (models.Dish, error) {
	var d models.Dish
	err := row.Scan(&d.ID, &d.Name, &d.Image, &d.Description, &d.Category, &d.IsAvailable, &d.QuantityLeft)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Dish{}, models.ErrUnknownDish
	}
	if err != nil {
		return models.Dish{}, fmt.Errorf("failed to scan dish: %w", err)
	}
	return d, nil
}

func (t *pgTx) GetDish(ctx context.Context, id int64) (models.Dish, error) {
	return scanDish(t.tx.QueryRow(ctx, database.GetDishSQL, id))
}

func (t *pgTx) GetDishForUpdate(ctx context.Context, id int64) (models.Dish, error) {
	return scanDish(t.tx.QueryRow(ctx, database.GetDishForUpdateSQL, id))
}

func (t *pgTx) AdjustDishStock(ctx context.Context, id int64, delta int) error {
	tag, err := t.tx.Exec(ctx, database.AdjustDishStockSQL, id, delta)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23514 = check_violation: quantity_left would go negative.
		if errors.As(err, &pgErr) && pgErr.Code == "23514" {
			return models.ErrOutOfStock
		}
		return fmt.Errorf("failed to adjust dish stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrUnknownDish
	}
	return nil
}

func (t *pgTx) ListDishes(ctx context.Context) ([]models.Dish, error) {
	rows, err := t.tx.Query(ctx, database.ListDishesSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query menu: %w", err)
	}
	defer rows.Close()

	var dishes []models.Dish
	for rows.Next() {
		var d models.Dish
		if err := rows.Scan(&d.ID, &d.Name, &d.Image, &d.Description, &d.Category, &d.IsAvailable, &d.QuantityLeft); err != nil {
			return nil, fmt.Errorf("failed to scan menu row: %w", err)
		}
		dishes = append(dishes, d)
	}
	return dishes, rows.Err()
}

func (t *pgTx) InsertDish(ctx context.Context, req models.CreateDishRequest) (models.Dish, error) {
	d := models.Dish{
		Name:         req.Name,
		Image:        req.Image,
		Description:  req.Description,
		Category:     req.Category,
		IsAvailable:  req.IsAvailable,
		QuantityLeft: req.QuantityLeft,
	}
	err := t.tx.QueryRow(ctx, database.InsertDishSQL,
		req.Name, req.Image, req.Description, req.Category, req.IsAvailable, req.QuantityLeft).
		Scan(&d.ID)
	if err != nil {
		return models.Dish{}, fmt.Errorf("failed to insert dish: %w", err)
	}
	return d, nil
}

func (t *pgTx) UpdateDish(ctx context.Context, d models.Dish) error {
	tag, err := t.tx.Exec(ctx, database.UpdateDishSQL,
		d.ID, d.Name, d.Image, d.Description, d.Category, d.IsAvailable, d.QuantityLeft)
	if err != nil {
		return fmt.Errorf("failed to update dish: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrUnknownDish
	}
	return nil
}

func (t *pgTx) LockFreeToad(ctx context.Context) (*models.Toad, error) {
	var toad models.Toad
	err := t.tx.QueryRow(ctx, database.LockFreeToadSQL).Scan(&toad.ID, &toad.Pic, &toad.IsTaken)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil // pool exhausted, not an error
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock free toad: %w", err)
	}
	return &toad, nil
}

func (t *pgTx) GetToadForUpdate(ctx context.Context, id int64) (models.Toad, error) {
	var toad models.Toad
	err := t.tx.QueryRow(ctx, database.GetToadForUpdateSQL, id).Scan(&toad.ID, &toad.Pic, &toad.IsTaken)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Toad{}, models.ErrUnknownToad
	}
	if err != nil {
		return models.Toad{}, fmt.Errorf("failed to scan toad: %w", err)
	}
	return toad, nil
}

func (t *pgTx) SetToadTaken(ctx context.Context, id int64, taken bool) error {
	tag, err := t.tx.Exec(ctx, database.SetToadTakenSQL, id, taken)
	if err != nil {
		return fmt.Errorf("failed to update toad: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrUnknownToad
	}
	return nil
}

func (t *pgTx) ListToads(ctx context.Context) ([]models.Toad, error) {
	rows, err := t.tx.Query(ctx, database.ListToadsSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query toads: %w", err)
	}
	defer rows.Close()

	var toads []models.Toad
	for rows.Next() {
		var toad models.Toad
		if err := rows.Scan(&toad.ID, &toad.Pic, &toad.IsTaken); err != nil {
			return nil, fmt.Errorf("failed to scan toad row: %w", err)
		}
		toads = append(toads, toad)
	}
	return toads, rows.Err()
}

func (t *pgTx) InsertToad(ctx context.Context, req models.CreateToadRequest) (models.Toad, error) {
	toad := models.Toad{Pic: req.Pic, IsTaken: req.IsTaken}
	err := t.tx.QueryRow(ctx, database.InsertToadSQL, req.Pic, req.IsTaken).Scan(&toad.ID)
	if err != nil {
		return models.Toad{}, fmt.Errorf("failed to insert toad: %w", err)
	}
	return toad, nil
}

func (t *pgTx) GetStatusByName(ctx context.Context, name models.OrderStatus) (models.StatusRow, error) {
	var s models.StatusRow
	err := t.tx.QueryRow(ctx, database.GetStatusByNameSQL, name).Scan(&s.ID, &s.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.StatusRow{}, models.ErrUnknownStatus
	}
	if err != nil {
		return models.StatusRow{}, fmt.Errorf("failed to scan status: %w", err)
	}
	return s, nil
}

func (t *pgTx) ListStatuses(ctx context.Context) ([]models.StatusRow, error) {
	rows, err := t.tx.Query(ctx, database.ListStatusesSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query statuses: %w", err)
	}
	defer rows.Close()

	var statuses []models.StatusRow
	for rows.Next() {
		var s models.StatusRow
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, fmt.Errorf("failed to scan status row: %w", err)
		}
		statuses = append(statuses, s)
	}
	return statuses, rows.Err()
}

func (t *pgTx) GetUserByName(ctx context.Context, name string) (models.User, error) {
	var u models.User
	err := t.tx.QueryRow(ctx, database.GetUserByNameSQL, name).Scan(&u.ID, &u.Name, &u.PassHash, &u.RoleID)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.User{}, models.ErrUserNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to scan user: %w", err)
	}
	return u, nil
}
