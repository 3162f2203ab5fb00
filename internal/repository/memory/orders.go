package memory

import (
	"context"
	"sort"

	"gamerx/internal/model"
	"gamerx/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type orderRepo struct {
	s *Store
}

func (r *orderRepo) Create(ctx context.Context, order *model.Order) error {
	return r.s.write(ctx, "orders.create", func(d *data) error {
		now := r.s.now()
		order.ID = newID(order.ID)
		order.CreatedAt, order.UpdatedAt = now, now
		if order.Status == "" {
			order.Status = model.OrderStatusPending
		}
		stored := *order
		stored.Items, stored.Payment = nil, nil
		d.orders[order.ID] = stored
		d.orderOrder = append(d.orderOrder, order.ID)
		return nil
	})
}

func (r *orderRepo) CreateItems(ctx context.Context, items []model.OrderItem) error {
	return r.s.write(ctx, "order_items.create", func(d *data) error {
		for i := range items {
			if _, ok := d.orders[items[i].OrderID]; !ok {
				return repository.ErrNotFound
			}
			items[i].ID = newID(items[i].ID)
			d.items = append(d.items, items[i])
		}
		return nil
	})
}

func (r *orderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return r.find(ctx, func(o model.Order) bool { return o.ID == id })
}

func (r *orderRepo) FindForUser(ctx context.Context, id, userID uuid.UUID) (*model.Order, error) {
	return r.find(ctx, func(o model.Order) bool { return o.ID == id && o.UserID == userID })
}

func (r *orderRepo) find(ctx context.Context, match func(model.Order) bool) (*model.Order, error) {
	var found *model.Order
	_ = r.s.read(ctx, func(d *data) error {
		for _, o := range d.orders {
			if match(o) {
				found = &o
				return nil
			}
		}
		return nil
	})
	if found == nil {
		return nil, repository.ErrNotFound
	}
	return found, nil
}

func (r *orderRepo) Items(ctx context.Context, orderID uuid.UUID) ([]model.OrderItem, error) {
	out := []model.OrderItem{}
	_ = r.s.read(ctx, func(d *data) error {
		for _, it := range d.items {
			if it.OrderID == orderID {
				out = append(out, it)
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r *orderRepo) ItemDetails(ctx context.Context, orderID uuid.UUID) ([]repository.OrderItemDetail, error) {
	out := []repository.OrderItemDetail{}
	_ = r.s.read(ctx, func(d *data) error {
		for _, it := range d.items {
			if it.OrderID != orderID {
				continue
			}
			row := repository.OrderItemDetail{
				ID:           it.ID,
				OrderID:      it.OrderID,
				ProductID:    it.ProductID,
				Position:     it.Position,
				Quantity:     it.Quantity,
				Price:        it.Price,
				CurrentPrice: decimal.Zero,
			}
			if p, ok := d.products[it.ProductID]; ok {
				row.Name, row.ImageURL, row.CurrentPrice = p.Name, p.ImageURL, p.Price
			}
			out = append(out, row)
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r *orderRepo) ListSummaries(ctx context.Context, userID *uuid.UUID) ([]repository.OrderSummary, error) {
	out := []repository.OrderSummary{}
	_ = r.s.read(ctx, func(d *data) error {
		for i := len(d.orderOrder) - 1; i >= 0; i-- {
			o, ok := d.orders[d.orderOrder[i]]
			if !ok || (userID != nil && o.UserID != *userID) {
				continue
			}
			row := repository.OrderSummary{
				ID:            o.ID,
				UserID:        o.UserID,
				TotalAmount:   o.TotalAmount,
				Status:        o.Status,
				PaymentMethod: o.PaymentMethod,
				CreatedAt:     o.CreatedAt,
			}
			for _, it := range d.items {
				if it.OrderID == o.ID {
					row.ItemCount++
				}
			}
			if userID == nil {
				if u, ok := d.users[o.UserID]; ok {
					row.CustomerUsername, row.CustomerEmail = u.Username, u.Email
				}
			}
			out = append(out, row)
		}
		return nil
	})
	return out, nil
}

func (r *orderRepo) MarkConfirmed(ctx context.Context, id uuid.UUID) (bool, error) {
	changed := false
	err := r.s.write(ctx, "orders.confirm", func(d *data) error {
		o, ok := d.orders[id]
		if !ok || o.Status != model.OrderStatusPending {
			return nil
		}
		o.Status = model.OrderStatusConfirmed
		o.UpdatedAt = r.s.now()
		d.orders[id] = o
		changed = true
		return nil
	})
	return changed, err
}

// OrderStatus returns the stored status of an order.
func (s *Store) OrderStatus(id uuid.UUID) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.d.orders[id].Status
}

type paymentRepo struct {
	s *Store
}

func (r *paymentRepo) Create(ctx context.Context, payment *model.Payment) error {
	return r.s.write(ctx, "payments.create", func(d *data) error {
		if _, ok := d.orders[payment.OrderID]; !ok {
			return repository.ErrNotFound
		}
		for _, p := range d.payments {
			if p.OrderID == payment.OrderID {
				return repository.UniqueViolation("idx_payments_order_id")
			}
		}
		now := r.s.now()
		payment.ID = newID(payment.ID)
		payment.CreatedAt, payment.UpdatedAt = now, now
		d.payments[payment.ID] = *payment
		return nil
	})
}

func (r *paymentRepo) find(ctx context.Context, match func(model.Payment) bool) (*model.Payment, error) {
	var found *model.Payment
	_ = r.s.read(ctx, func(d *data) error {
		for _, p := range d.payments {
			if match(p) {
				found = &p
				return nil
			}
		}
		return nil
	})
	if found == nil {
		return nil, repository.ErrNotFound
	}
	return found, nil
}

func (r *paymentRepo) FindByOrder(ctx context.Context, orderID uuid.UUID) (*model.Payment, error) {
	return r.find(ctx, func(p model.Payment) bool { return p.OrderID == orderID })
}

// FindByOrderForUpdate needs no row lock: memory transactions are already serialized.
func (r *paymentRepo) FindByOrderForUpdate(ctx context.Context, orderID, userID uuid.UUID) (*model.Payment, error) {
	return r.find(ctx, func(p model.Payment) bool { return p.OrderID == orderID && p.UserID == userID })
}

func (r *paymentRepo) MarkSucceeded(ctx context.Context, id uuid.UUID) (bool, error) {
	changed := false
	err := r.s.write(ctx, "payments.succeed", func(d *data) error {
		p, ok := d.payments[id]
		if !ok || p.Status != model.PaymentStatusPending {
			return nil
		}
		p.Status = model.PaymentStatusSuccess
		p.UpdatedAt = r.s.now()
		d.payments[id] = p
		changed = true
		return nil
	})
	return changed, err
}

// PaymentStatus returns the stored status of the payment attached to an order.
func (s *Store) PaymentStatus(orderID uuid.UUID) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.d.payments {
		if p.OrderID == orderID {
			return p.Status
		}
	}
	return ""
}
