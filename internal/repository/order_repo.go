package repository

import (
	"context"
	"time"

	"gamerx/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderSummary is an order row for history listings. Customer fields are only filled for
// the admin listing.
type OrderSummary struct {
	ID               uuid.UUID       `json:"id"`
	UserID           uuid.UUID       `json:"user_id"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	Status           string          `json:"status"`
	PaymentMethod    string          `json:"payment_method"`
	ItemCount        int64           `json:"item_count"`
	CustomerUsername string          `json:"customer_username,omitempty"`
	CustomerEmail    string          `json:"customer_email,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// OrderItemDetail is an order line enriched with the product's current display fields.
type OrderItemDetail struct {
	ID           uuid.UUID       `json:"id"`
	OrderID      uuid.UUID       `json:"order_id"`
	ProductID    uuid.UUID       `json:"product_id"`
	Position     int             `json:"position"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	Name         string          `json:"name"`
	ImageURL     string          `json:"image_url"`
	CurrentPrice decimal.Decimal `json:"current_price"`
}

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	CreateItems(ctx context.Context, items []model.OrderItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	FindForUser(ctx context.Context, id, userID uuid.UUID) (*model.Order, error)
	Items(ctx context.Context, orderID uuid.UUID) ([]model.OrderItem, error)
	ItemDetails(ctx context.Context, orderID uuid.UUID) ([]OrderItemDetail, error)
	ListSummaries(ctx context.Context, userID *uuid.UUID) ([]OrderSummary, error)
	MarkConfirmed(ctx context.Context, id uuid.UUID) (bool, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return GetDB(ctx, r.db).Omit("Items", "Payment").Create(order).Error
}

func (r *orderRepository) CreateItems(ctx context.Context, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return GetDB(ctx, r.db).Create(&items).Error
}

func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	if err := GetDB(ctx, r.db).First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindForUser(ctx context.Context, id, userID uuid.UUID) (*model.Order, error) {
	var order model.Order
	if err := GetDB(ctx, r.db).Where("id = ? AND user_id = ?", id, userID).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) Items(ctx context.Context, orderID uuid.UUID) ([]model.OrderItem, error) {
	items := []model.OrderItem{}
	err := GetDB(ctx, r.db).Where("order_id = ?", orderID).Order("position").Find(&items).Error
	return items, err
}

// ItemDetails joins products without the soft-delete filter so lines of removed products
// still render.
func (r *orderRepository) ItemDetails(ctx context.Context, orderID uuid.UUID) ([]OrderItemDetail, error) {
	rows := []OrderItemDetail{}
	err := GetDB(ctx, r.db).Table("order_items").
		Select(`order_items.id, order_items.order_id, order_items.product_id, order_items.position, order_items.quantity, order_items.price,
			COALESCE(products.name, '') AS name,
			COALESCE(products.image_url, '') AS image_url,
			COALESCE(products.price, 0) AS current_price`).
		Joins("LEFT JOIN products ON products.id = order_items.product_id").
		Where("order_items.order_id = ?", orderID).
		Order("order_items.position").
		Scan(&rows).Error
	return rows, err
}

// ListSummaries lists orders newest first. A nil userID lists every customer's orders.
func (r *orderRepository) ListSummaries(ctx context.Context, userID *uuid.UUID) ([]OrderSummary, error) {
	q := GetDB(ctx, r.db).Table("orders").
		Select(`orders.id, orders.user_id, orders.total_amount, orders.status, orders.payment_method, orders.created_at,
			(SELECT COUNT(*) FROM order_items WHERE order_items.order_id = orders.id) AS item_count,
			COALESCE(users.username, '') AS customer_username,
			COALESCE(users.email, '') AS customer_email`).
		Joins("LEFT JOIN users ON users.id = orders.user_id")

	if userID != nil {
		q = q.Where("orders.user_id = ?", *userID)
	}

	rows := []OrderSummary{}
	err := q.Order("orders.created_at DESC").Scan(&rows).Error
	if userID != nil {
		for i := range rows {
			rows[i].CustomerUsername = ""
			rows[i].CustomerEmail = ""
		}
	}
	return rows, err
}

// MarkConfirmed moves a pending order to confirmed. It reports false when the order was
// not pending.
func (r *orderRepository) MarkConfirmed(ctx context.Context, id uuid.UUID) (bool, error) {
	res := GetDB(ctx, r.db).Model(&model.Order{}).
		Where("id = ? AND status = ?", id, model.OrderStatusPending).
		Update("status", model.OrderStatusConfirmed)
	return res.RowsAffected == 1, res.Error
}
