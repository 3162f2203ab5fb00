package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Category groups an admin's products. Names are unique per admin only.
type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AdminID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_categories_admin_name,priority:1" json:"admin_id"`
	Admin       *User     `gorm:"foreignKey:AdminID;constraint:OnDelete:CASCADE;" json:"-"`
	Name        string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_categories_admin_name,priority:2" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Product is an item sold by exactly one admin
type Product struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AdminID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"admin_id"`
	Admin       *User           `gorm:"foreignKey:AdminID;constraint:OnDelete:CASCADE;" json:"-"`
	CategoryID  *uuid.UUID      `gorm:"type:uuid;index" json:"category_id"`
	Category    *Category       `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL;" json:"-"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null;check:chk_products_price,price > 0" json:"price"`
	Stock       int             `gorm:"type:int;not null;default:0;check:chk_products_stock,stock >= 0" json:"stock"`
	ImageURL    string          `gorm:"type:varchar(512)" json:"image_url"`
	IsFeatured  bool            `gorm:"not null;default:false;index" json:"is_featured"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

// ProductImage is a gallery entry shown on the product details page
type ProductImage struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Product   *Product  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE;" json:"-"`
	ImageURL  string    `gorm:"type:varchar(512);not null" json:"image_url"`
	IsPrimary bool      `gorm:"not null;default:false" json:"is_primary"`
	CreatedAt time.Time `json:"created_at"`
}

// Stock movement kinds
const (
	StockMovementOut = "OUT" // sold through a confirmed order
	StockMovementSet = "SET" // overridden by the owning admin
)

// StockMovement records every change applied to a product's stock
type StockMovement struct {
	ID              uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"product_id"`
	OrderID         *uuid.UUID `gorm:"type:uuid;index" json:"order_id"` // nil for manual adjustments
	Kind            string     `gorm:"type:varchar(10);not null" json:"kind"`
	QuantityChanged int        `gorm:"type:int;not null" json:"quantity_changed"`
	StockAfter      int        `gorm:"type:int;not null" json:"stock_after"`
	CreatedAt       time.Time  `json:"created_at"`
}
