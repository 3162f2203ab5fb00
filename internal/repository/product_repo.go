package repository

import (
	"context"
	"time"

	"gamerx/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductListing is a product row joined with the name of its category.
type ProductListing struct {
	ID           uuid.UUID       `json:"id"`
	AdminID      uuid.UUID       `json:"admin_id"`
	CategoryID   *uuid.UUID      `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Stock        int             `json:"stock"`
	ImageURL     string          `json:"image_url"`
	IsFeatured   bool            `json:"is_featured"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ProductFilter narrows product listings. Zero values mean "no filter".
type ProductFilter struct {
	AdminID      *uuid.UUID
	CategoryID   *uuid.UUID
	CategoryName string // matched case-insensitively
	FeaturedOnly bool
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	MinStock     *int
	MaxStock     *int
}

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, product *model.Product, columns ...string) error
	Delete(ctx context.Context, id, adminID uuid.UUID) error
	FindOwned(ctx context.Context, id, adminID uuid.UUID) (*model.Product, error)
	FindOwnedForUpdate(ctx context.Context, id, adminID uuid.UUID) (*model.Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Product, error)
	GetListing(ctx context.Context, id uuid.UUID, adminID *uuid.UUID) (*ProductListing, error)
	List(ctx context.Context, filter ProductFilter) ([]ProductListing, error)
	CreateImages(ctx context.Context, images []model.ProductImage) error
	ListImages(ctx context.Context, productID uuid.UUID) ([]model.ProductImage, error)
	DecrementStock(ctx context.Context, id uuid.UUID, quantity int) (int, bool, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	return GetDB(ctx, r.db).Create(product).Error
}

// Update writes the named columns of product, or every column when none are named.
// Callers name columns so a concurrent stock decrement is never overwritten.
func (r *productRepository) Update(ctx context.Context, product *model.Product, columns ...string) error {
	if len(columns) == 0 {
		return GetDB(ctx, r.db).Save(product).Error
	}
	return GetDB(ctx, r.db).Model(product).Select(columns).Updates(product).Error
}

// Delete soft-deletes the product so order history keeps resolving it.
func (r *productRepository) Delete(ctx context.Context, id, adminID uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ? AND admin_id = ?", id, adminID).Delete(&model.Product{}).Error
}

func (r *productRepository) FindOwned(ctx context.Context, id, adminID uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := GetDB(ctx, r.db).Where("id = ? AND admin_id = ?", id, adminID).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindOwnedForUpdate is FindOwned with a row lock held until the transaction ends.
func (r *productRepository) FindOwnedForUpdate(ctx context.Context, id, adminID uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND admin_id = ?", id, adminID).First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Product, error) {
	products := []model.Product{}
	if len(ids) == 0 {
		return products, nil
	}
	err := GetDB(ctx, r.db).Where("id IN ?", ids).Find(&products).Error
	return products, err
}

func (r *productRepository) listingQuery(ctx context.Context) *gorm.DB {
	return GetDB(ctx, r.db).Model(&model.Product{}).
		Select("products.*, COALESCE(categories.name, '') AS category_name").
		Joins("LEFT JOIN categories ON categories.id = products.category_id")
}

// GetListing loads one product with its category name. A non-nil adminID restricts the
// lookup to that owner.
func (r *productRepository) GetListing(ctx context.Context, id uuid.UUID, adminID *uuid.UUID) (*ProductListing, error) {
	q := r.listingQuery(ctx).Where("products.id = ?", id)
	if adminID != nil {
		q = q.Where("products.admin_id = ?", *adminID)
	}

	var rows []ProductListing
	if err := q.Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

func (r *productRepository) List(ctx context.Context, filter ProductFilter) ([]ProductListing, error) {
	q := r.listingQuery(ctx)

	if filter.AdminID != nil {
		q = q.Where("products.admin_id = ?", *filter.AdminID)
	}
	if filter.CategoryID != nil {
		q = q.Where("products.category_id = ?", *filter.CategoryID)
	}
	if filter.CategoryName != "" {
		q = q.Where("LOWER(categories.name) = LOWER(?)", filter.CategoryName)
	}
	if filter.FeaturedOnly {
		q = q.Where("products.is_featured = ?", true)
	}
	if filter.MinPrice != nil {
		q = q.Where("products.price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("products.price <= ?", *filter.MaxPrice)
	}
	if filter.MinStock != nil {
		q = q.Where("products.stock >= ?", *filter.MinStock)
	}
	if filter.MaxStock != nil {
		q = q.Where("products.stock <= ?", *filter.MaxStock)
	}

	rows := []ProductListing{}
	err := q.Order("products.created_at DESC").Scan(&rows).Error
	return rows, err
}

func (r *productRepository) CreateImages(ctx context.Context, images []model.ProductImage) error {
	if len(images) == 0 {
		return nil
	}
	return GetDB(ctx, r.db).Create(&images).Error
}

func (r *productRepository) ListImages(ctx context.Context, productID uuid.UUID) ([]model.ProductImage, error) {
	images := []model.ProductImage{}
	err := GetDB(ctx, r.db).Where("product_id = ?", productID).
		Order("is_primary DESC").Order("created_at ASC").Find(&images).Error
	return images, err
}

// DecrementStock subtracts quantity in a single conditional statement so concurrent buyers
// cannot overdraw the product. It reports the remaining stock and false when the product
// is missing or holds less than quantity.
func (r *productRepository) DecrementStock(ctx context.Context, id uuid.UUID, quantity int) (int, bool, error) {
	var updated []model.Product
	res := GetDB(ctx, r.db).Model(&updated).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "stock"}}}).
		Where("id = ? AND stock >= ?", id, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if res.Error != nil {
		return 0, false, res.Error
	}
	if res.RowsAffected == 0 || len(updated) == 0 {
		return 0, false, nil
	}
	return updated[0].Stock, true, nil
}
