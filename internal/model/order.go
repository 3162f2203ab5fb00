package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus constants. Orders only move forward: pending -> confirmed.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusCancelled = "cancelled"
)

// PaymentStatus constants
const (
	PaymentStatusPending = "pending"
	PaymentStatusSuccess = "success"
)

// Order is a buyer's purchase of one or more products
type Order struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	User          *User           `gorm:"foreignKey:UserID" json:"-"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	Status        string          `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	PaymentMethod string          `gorm:"type:varchar(50)" json:"payment_method"`
	Items         []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE;" json:"items,omitempty"`
	Payment       *Payment        `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE;" json:"payment,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// OrderItem is a line of an Order. Price is the product price snapshotted at order time.
// Position keeps the cart's line order.
type OrderItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Product   *Product        `gorm:"foreignKey:ProductID" json:"-"`
	Position  int             `gorm:"type:int;not null;default:0" json:"position"`
	Quantity  int             `gorm:"type:int;not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
}

// Payment is the mock payment attached 1:1 to an Order
type Payment struct {
	ID                uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID           uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"order_id"`
	UserID            uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount            decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Status            string          `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	PaymentMethod     string          `gorm:"type:varchar(50)" json:"payment_method"`
	ConfirmationToken string          `gorm:"type:varchar(64);not null" json:"-"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}
