// Package memory implements store.Store on plain maps for tests and
// local development. A single mutex serializes transactions; a
// transaction mutates a staged deep copy, and only a successful commit
// swaps the copy in, so failed operations leave no partial state.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"frog-cafe/internal/models"
	"frog-cafe/internal/store"
)

// Store is an in-memory store.Store.
type Store struct {
	mu    sync.Mutex
	state *state
}

type state struct {
	orders   map[int64]models.Order
	cart     []models.CartLine
	dishes   map[int64]models.Dish
	toads    map[int64]models.Toad
	statuses []models.StatusRow
	users    map[int64]models.User

	nextOrderID  int64
	nextCartID   int64
	nextDishID   int64
	nextToadID   int64
	nextUserID   int64
	nextStatusID int64
}

// New creates an empty store with the four order statuses seeded, the
// same set the SQL migrations install.
func New() *Store {
	s := &Store{state: &state{
		orders: make(map[int64]models.Order),
		dishes: make(map[int64]models.Dish),
		toads:  make(map[int64]models.Toad),
		users:  make(map[int64]models.User),
	}}
	for _, name := range []models.OrderStatus{
		models.StatusCreated, models.StatusPreparing, models.StatusReady, models.StatusDelivered,
	} {
		s.state.nextStatusID++
		s.state.statuses = append(s.state.statuses, models.StatusRow{ID: s.state.nextStatusID, Name: name})
	}
	return s
}

// DropStatuses removes all status seed rows. Test hook for the missing
// bootstrap status path.
func (s *Store) DropStatuses() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.statuses = nil
}

// AddDish inserts a dish outside any transaction. Test seeding helper.
func (s *Store) AddDish(d models.Dish) models.Dish {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.nextDishID++
	d.ID = s.state.nextDishID
	s.state.dishes[d.ID] = d
	return d
}

// AddToad inserts a toad outside any transaction. Test seeding helper.
func (s *Store) AddToad(t models.Toad) models.Toad {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.nextToadID++
	t.ID = s.state.nextToadID
	s.state.toads[t.ID] = t
	return t
}

// AddUser inserts a user outside any transaction. Test seeding helper.
func (s *Store) AddUser(u models.User) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.nextUserID++
	u.ID = s.state.nextUserID
	s.state.users[u.ID] = u
	return u
}

func (st *state) clone() *state {
	c := &state{
		orders:       make(map[int64]models.Order, len(st.orders)),
		cart:         append([]models.CartLine(nil), st.cart...),
		dishes:       make(map[int64]models.Dish, len(st.dishes)),
		toads:        make(map[int64]models.Toad, len(st.toads)),
		statuses:     append([]models.StatusRow(nil), st.statuses...),
		users:        make(map[int64]models.User, len(st.users)),
		nextOrderID:  st.nextOrderID,
		nextCartID:   st.nextCartID,
		nextDishID:   st.nextDishID,
		nextToadID:   st.nextToadID,
		nextUserID:   st.nextUserID,
		nextStatusID: st.nextStatusID,
	}
	for k, v := range st.orders {
		c.orders[k] = v
	}
	for k, v := range st.dishes {
		c.dishes[k] = v
	}
	for k, v := range st.toads {
		c.toads[k] = v
	}
	for k, v := range st.users {
		c.users[k] = v
	}
	return c
}

// ExecTx serializes all transactions behind the store mutex and commits
// by swapping in the staged copy.
func (s *Store) ExecTx(ctx context.Context, fn func(tx store.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := s.state.clone()
	if err := fn(&memTx{st: staged}); err != nil {
		return err
	}
	s.state = staged
	return nil
}

type memTx struct {
	st *state
}

func (t *memTx) statusName(id int64) models.OrderStatus {
	for _, s := range t.st.statuses {
		if s.ID == id {
			return s.Name
		}
	}
	return ""
}

func (t *memTx) GetOrder(ctx context.Context, id int64) (models.Order, error) {
	o, ok := t.st.orders[id]
	if !ok {
		return models.Order{}, models.ErrOrderNotFound
	}
	o.Status = t.statusName(o.StatusID)
	return o, nil
}

// The staged-copy scheme already serializes writers, so the lock
// variant only mirrors the read.
func (t *memTx) GetOrderForUpdate(ctx context.Context, id int64) (models.Order, error) {
	return t.GetOrder(ctx, id)
}

func (t *memTx) InsertOrder(ctx context.Context, userID int64, toadID *int64, statusID int64) (models.Order, error) {
	t.st.nextOrderID++
	o := models.Order{
		ID:        t.st.nextOrderID,
		UserID:    userID,
		ToadID:    toadID,
		StatusID:  statusID,
		Status:    t.statusName(statusID),
		CreatedAt: time.Now().UTC(),
	}
	t.st.orders[o.ID] = o
	return o, nil
}

func (t *memTx) UpdateOrderStatus(ctx context.Context, orderID, statusID int64) error {
	o, ok := t.st.orders[orderID]
	if !ok {
		return models.ErrOrderNotFound
	}
	o.StatusID = statusID
	t.st.orders[orderID] = o
	return nil
}

func (t *memTx) DeleteOrder(ctx context.Context, id int64) error {
	if _, ok := t.st.orders[id]; !ok {
		return models.ErrOrderNotFound
	}
	delete(t.st.orders, id)
	return nil
}

func (t *memTx) DeleteAllOrders(ctx context.Context) error {
	t.st.orders = make(map[int64]models.Order)
	return nil
}

func (t *memTx) listOrders(filter func(models.Order) bool, newestFirst bool) []models.Order {
	var orders []models.Order
	for _, o := range t.st.orders {
		o.Status = t.statusName(o.StatusID)
		if filter == nil || filter(o) {
			orders = append(orders, o)
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		if newestFirst {
			return orders[i].ID > orders[j].ID
		}
		return orders[i].ID < orders[j].ID
	})
	return orders
}

func (t *memTx) ListOrders(ctx context.Context) ([]models.Order, error) {
	return t.listOrders(nil, true), nil
}

func (t *memTx) ListActiveOrders(ctx context.Context, exclude models.OrderStatus) ([]models.Order, error) {
	return t.listOrders(func(o models.Order) bool { return o.Status != exclude }, false), nil
}

func (t *memTx) InsertCartLine(ctx context.Context, orderID, dishID int64) error {
	if _, ok := t.st.orders[orderID]; !ok {
		return models.ErrOrderNotFound
	}
	if _, ok := t.st.dishes[dishID]; !ok {
		return models.ErrUnknownDish
	}
	t.st.nextCartID++
	t.st.cart = append(t.st.cart, models.CartLine{ID: t.st.nextCartID, OrderID: orderID, DishID: dishID})
	return nil
}

func (t *memTx) DeleteCartLines(ctx context.Context, orderID int64) error {
	kept := t.st.cart[:0]
	for _, line := range t.st.cart {
		if line.OrderID != orderID {
			kept = append(kept, line)
		}
	}
	t.st.cart = kept
	return nil
}

func (t *memTx) ListCartDishes(ctx context.Context, orderID int64) ([]models.Dish, error) {
	var dishes []models.Dish
	for _, line := range t.st.cart {
		if line.OrderID != orderID {
			continue
		}
		d, ok := t.st.dishes[line.DishID]
		if !ok {
			return nil, fmt.Errorf("cart line %d references missing dish %d", line.ID, line.DishID)
		}
		dishes = append(dishes, d)
	}
	return dishes, nil
}

func (t *memTx) GetDish(ctx context.Context, id int64) (models.Dish, error) {
	d, ok := t.st.dishes[id]
	if !ok {
		return models.Dish{}, models.ErrUnknownDish
	}
	return d, nil
}

func (t *memTx) GetDishForUpdate(ctx context.Context, id int64) (models.Dish, error) {
	return t.GetDish(ctx, id)
}

func (t *memTx) AdjustDishStock(ctx context.Context, id int64, delta int) error {
	d, ok := t.st.dishes[id]
	if !ok {
		return models.ErrUnknownDish
	}
	if d.QuantityLeft+delta < 0 {
		return models.ErrOutOfStock
	}
	d.QuantityLeft += delta
	t.st.dishes[id] = d
	return nil
}

func (t *memTx) ListDishes(ctx context.Context) ([]models.Dish, error) {
	var dishes []models.Dish
	for _, d := range t.st.dishes {
		dishes = append(dishes, d)
	}
	sort.Slice(dishes, func(i, j int) bool { return dishes[i].ID < dishes[j].ID })
	return dishes, nil
}

func (t *memTx) InsertDish(ctx context.Context, req models.CreateDishRequest) (models.Dish, error) {
	t.st.nextDishID++
	d := models.Dish{
		ID:           t.st.nextDishID,
		Name:         req.Name,
		Image:        req.Image,
		Description:  req.Description,
		Category:     req.Category,
		IsAvailable:  req.IsAvailable,
		QuantityLeft: req.QuantityLeft,
	}
	t.st.dishes[d.ID] = d
	return d, nil
}

func (t *memTx) UpdateDish(ctx context.Context, d models.Dish) error {
	if _, ok := t.st.dishes[d.ID]; !ok {
		return models.ErrUnknownDish
	}
	t.st.dishes[d.ID] = d
	return nil
}

func (t *memTx) LockFreeToad(ctx context.Context) (*models.Toad, error) {
	var free *models.Toad
	for id, toad := range t.st.toads {
		if toad.IsTaken {
			continue
		}
		if free == nil || id < free.ID {
			td := toad
			free = &td
		}
	}
	return free, nil
}

func (t *memTx) GetToadForUpdate(ctx context.Context, id int64) (models.Toad, error) {
	toad, ok := t.st.toads[id]
	if !ok {
		return models.Toad{}, models.ErrUnknownToad
	}
	return toad, nil
}

func (t *memTx) SetToadTaken(ctx context.Context, id int64, taken bool) error {
	toad, ok := t.st.toads[id]
	if !ok {
		return models.ErrUnknownToad
	}
	toad.IsTaken = taken
	t.st.toads[id] = toad
	return nil
}

func (t *memTx) ListToads(ctx context.Context) ([]models.Toad, error) {
	var toads []models.Toad
	for _, toad := range t.st.toads {
		toads = append(toads, toad)
	}
	sort.Slice(toads, func(i, j int) bool { return toads[i].ID < toads[j].ID })
	return toads, nil
}

func (t *memTx) InsertToad(ctx context.Context, req models.CreateToadRequest) (models.Toad, error) {
	t.st.nextToadID++
	toad := models.Toad{ID: t.st.nextToadID, Pic: req.Pic, IsTaken: req.IsTaken}
	t.st.toads[toad.ID] = toad
	return toad, nil
}

func (t *memTx) GetStatusByName(ctx context.Context, name models.OrderStatus) (models.StatusRow, error) {
	for _, s := range t.st.statuses {
		if s.Name == name {
			return s, nil
		}
	}
	return models.StatusRow{}, models.ErrUnknownStatus
}

func (t *memTx) ListStatuses(ctx context.Context) ([]models.StatusRow, error) {
	return append([]models.StatusRow(nil), t.st.statuses...), nil
}

func (t *memTx) GetUserByName(ctx context.Context, name string) (models.User, error) {
	for _, u := range t.st.users {
		if u.Name == name {
			return u, nil
		}
	}
	return models.User{}, models.ErrUserNotFound
}
