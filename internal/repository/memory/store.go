// Package memory keeps every repository in process memory. It backs `serve --memory` for
// local development and the test suites. Transactions are serialized and rolled back by
// restoring a snapshot, and accesses outside a transaction wait for the running one.
package memory

import (
	"context"
	"sync"
	"time"

	"gamerx/internal/model"
	"gamerx/internal/repository"

	"github.com/google/uuid"
)

type txKey struct{}

// data is everything a snapshot has to capture.
type data struct {
	users          map[uuid.UUID]model.User
	userOrder      []uuid.UUID
	stores         map[uuid.UUID]model.AdminStore
	categories     map[uuid.UUID]model.Category
	categoryOrder  []uuid.UUID
	products       map[uuid.UUID]model.Product
	productOrder   []uuid.UUID
	images         []model.ProductImage
	stockMovements []model.StockMovement
	orders         map[uuid.UUID]model.Order
	orderOrder     []uuid.UUID
	items          []model.OrderItem
	payments       map[uuid.UUID]model.Payment
	reviews        map[uuid.UUID]model.Review
	reviewOrder    []uuid.UUID
	audit          []model.AuditLog
}

func newData() data {
	return data{
		users:      make(map[uuid.UUID]model.User),
		stores:     make(map[uuid.UUID]model.AdminStore),
		categories: make(map[uuid.UUID]model.Category),
		products:   make(map[uuid.UUID]model.Product),
		orders:     make(map[uuid.UUID]model.Order),
		payments:   make(map[uuid.UUID]model.Payment),
		reviews:    make(map[uuid.UUID]model.Review),
	}
}

func copyMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func copySlice[T any](in []T) []T {
	return append([]T(nil), in...)
}

func (d data) clone() data {
	return data{
		users:          copyMap(d.users),
		userOrder:      copySlice(d.userOrder),
		stores:         copyMap(d.stores),
		categories:     copyMap(d.categories),
		categoryOrder:  copySlice(d.categoryOrder),
		products:       copyMap(d.products),
		productOrder:   copySlice(d.productOrder),
		images:         copySlice(d.images),
		stockMovements: copySlice(d.stockMovements),
		orders:         copyMap(d.orders),
		orderOrder:     copySlice(d.orderOrder),
		items:          copySlice(d.items),
		payments:       copyMap(d.payments),
		reviews:        copyMap(d.reviews),
		reviewOrder:    copySlice(d.reviewOrder),
		audit:          copySlice(d.audit),
	}
}

// Store is an in-memory database shared by all memory repositories.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	d    data
	now  func() time.Time

	// FailNext, when set, is consulted before every write. Returning a non-nil error
	// aborts that write, which lets tests simulate a failure in the middle of a transaction.
	FailNext func(op string) error
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{d: newData(), now: time.Now}
}

// NewSet returns a repository.Set backed by a fresh store, along with the store itself.
func NewSet() (repository.Set, *Store) {
	s := NewStore()
	return s.Set(), s
}

// Set exposes the store through the repository interfaces.
func (s *Store) Set() repository.Set {
	return repository.Set{
		Tx:             &txManager{s: s},
		Users:          &userRepo{s: s},
		Categories:     &categoryRepo{s: s},
		Products:       &productRepo{s: s},
		StockMovements: &stockMovementRepo{s: s},
		Orders:         &orderRepo{s: s},
		Payments:       &paymentRepo{s: s},
		Reviews:        &reviewRepo{s: s},
		Audit:          &auditRepo{s: s},
	}
}

func (s *Store) fail(op string) error {
	if s.FailNext == nil {
		return nil
	}
	return s.FailNext(op)
}

// begin gives an access outside any transaction its own one: it waits for a running
// transaction to finish so a rollback cannot erase it or expose uncommitted rows.
func (s *Store) begin(ctx context.Context) func() {
	if ctx.Value(txKey{}) != nil {
		return func() {}
	}
	s.txMu.Lock()
	return s.txMu.Unlock
}

func (s *Store) write(ctx context.Context, op string, fn func(d *data) error) error {
	defer s.begin(ctx)()
	if err := s.fail(op); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&s.d)
}

func (s *Store) read(ctx context.Context, fn func(d *data) error) error {
	defer s.begin(ctx)()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&s.d)
}

type txManager struct {
	s *Store
}

// RunInTx serializes transactions and restores the pre-transaction snapshot when fn fails.
func (t *txManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	t.s.txMu.Lock()
	defer t.s.txMu.Unlock()

	t.s.mu.RLock()
	snapshot := t.s.d.clone()
	t.s.mu.RUnlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		t.s.mu.Lock()
		t.s.d = snapshot
		t.s.mu.Unlock()
		return err
	}
	return nil
}

func newID(id uuid.UUID) uuid.UUID {
	if id == uuid.Nil {
		return uuid.New()
	}
	return id
}

// Counts reports the number of stored orders, order items, and payments.
func (s *Store) Counts() (orders, items, payments int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.d.orders), len(s.d.items), len(s.d.payments)
}
