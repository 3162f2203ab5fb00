package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"gamerx/internal/model"
	"gamerx/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductRequest is shared by create and update. On update, nil fields keep the stored value.
type ProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price" swaggertype:"number"`
	Stock       *int             `json:"stock"`
	CategoryID  *uuid.UUID       `json:"category_id" swaggertype:"string"`
	ImageURL    *string          `json:"image_url"`
	IsFeatured  *bool            `json:"is_featured"`
	Images      []string         `json:"images"`
}

type StockRequest struct {
	Stock *int `json:"stock"`
}

type FeatureRequest struct {
	IsFeatured *bool `json:"is_featured"`
}

// FeaturedQuery holds the raw query parameters of the featured listing
type FeaturedQuery struct {
	AdminID  string
	MinPrice string
	MaxPrice string
	MinStock string
	MaxStock string
}

// ProductDetails is a product listing together with its gallery, primary image first
type ProductDetails struct {
	repository.ProductListing
	Images []model.ProductImage `json:"images"`
}

type ProductService interface {
	ListAll(ctx context.Context) ([]repository.ProductListing, error)
	ListByCategoryName(ctx context.Context, name string) ([]repository.ProductListing, error)
	ListFeatured(ctx context.Context, q FeaturedQuery) ([]repository.ProductListing, error)
	Details(ctx context.Context, id uuid.UUID) (*ProductDetails, error)

	ListOwned(ctx context.Context, adminID uuid.UUID) ([]repository.ProductListing, error)
	ListOwnedByCategory(ctx context.Context, adminID, categoryID uuid.UUID) ([]repository.ProductListing, error)
	GetOwned(ctx context.Context, adminID, id uuid.UUID) (*ProductDetails, error)
	Create(ctx context.Context, adminID uuid.UUID, req ProductRequest) (*model.Product, error)
	Update(ctx context.Context, adminID, id uuid.UUID, req ProductRequest) (*model.Product, error)
	SetStock(ctx context.Context, adminID, id uuid.UUID, req StockRequest) (*model.Product, error)
	SetFeatured(ctx context.Context, adminID, id uuid.UUID, req FeatureRequest) (*model.Product, error)
	Delete(ctx context.Context, adminID, id uuid.UUID) error
	StockMovements(ctx context.Context, adminID, id uuid.UUID) ([]model.StockMovement, error)
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	movementRepo repository.StockMovementRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
}

func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	movementRepo repository.StockMovementRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		movementRepo: movementRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
	}
}

func (s *productService) list(ctx context.Context, filter repository.ProductFilter) ([]repository.ProductListing, error) {
	products, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (s *productService) ListAll(ctx context.Context) ([]repository.ProductListing, error) {
	return s.list(ctx, repository.ProductFilter{})
}

func (s *productService) ListByCategoryName(ctx context.Context, name string) ([]repository.ProductListing, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("Category name is required")
	}
	return s.list(ctx, repository.ProductFilter{CategoryName: name})
}

// ParseFeaturedQuery validates the optional featured listing filters
func ParseFeaturedQuery(q FeaturedQuery) (repository.ProductFilter, error) {
	filter := repository.ProductFilter{FeaturedOnly: true}

	if q.AdminID != "" {
		id, err := uuid.Parse(q.AdminID)
		if err != nil {
			return filter, invalid("Invalid admin_id")
		}
		filter.AdminID = &id
	}

	prices := []struct {
		raw, name string
		dst       **decimal.Decimal
	}{
		{q.MinPrice, "min_price", &filter.MinPrice},
		{q.MaxPrice, "max_price", &filter.MaxPrice},
	}
	for _, p := range prices {
		if p.raw == "" {
			continue
		}
		v, err := decimal.NewFromString(p.raw)
		if err != nil {
			return filter, invalid("Invalid %s", p.name)
		}
		*p.dst = &v
	}

	stocks := []struct {
		raw, name string
		dst       **int
	}{
		{q.MinStock, "min_stock", &filter.MinStock},
		{q.MaxStock, "max_stock", &filter.MaxStock},
	}
	for _, st := range stocks {
		if st.raw == "" {
			continue
		}
		v, err := strconv.Atoi(st.raw)
		if err != nil {
			return filter, invalid("Invalid %s", st.name)
		}
		*st.dst = &v
	}
	return filter, nil
}

func (s *productService) ListFeatured(ctx context.Context, q FeaturedQuery) ([]repository.ProductListing, error) {
	filter, err := ParseFeaturedQuery(q)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, filter)
}

func (s *productService) details(ctx context.Context, id uuid.UUID, adminID *uuid.UUID) (*ProductDetails, error) {
	listing, err := s.productRepo.GetListing(ctx, id, adminID)
	if err != nil {
		return nil, lookup(err, "Product")
	}
	images, err := s.productRepo.ListImages(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load product images: %w", err)
	}
	return &ProductDetails{ProductListing: *listing, Images: images}, nil
}

func (s *productService) Details(ctx context.Context, id uuid.UUID) (*ProductDetails, error) {
	return s.details(ctx, id, nil)
}

func (s *productService) ListOwned(ctx context.Context, adminID uuid.UUID) ([]repository.ProductListing, error) {
	return s.list(ctx, repository.ProductFilter{AdminID: &adminID})
}

func (s *productService) ListOwnedByCategory(ctx context.Context, adminID, categoryID uuid.UUID) ([]repository.ProductListing, error) {
	return s.list(ctx, repository.ProductFilter{AdminID: &adminID, CategoryID: &categoryID})
}

func (s *productService) GetOwned(ctx context.Context, adminID, id uuid.UUID) (*ProductDetails, error) {
	return s.details(ctx, id, &adminID)
}

func validatePrice(price decimal.Decimal) error {
	if !price.Round(2).IsPositive() {
		return invalid("Price must be greater than 0")
	}
	return nil
}

func validateStock(stock int) error {
	if stock < 0 {
		return invalid("Stock cannot be negative")
	}
	return nil
}

// ownedCategory resolves a category the admin may assign products to
func (s *productService) ownedCategory(ctx context.Context, adminID, categoryID uuid.UUID) error {
	if _, err := s.categoryRepo.FindOwned(ctx, categoryID, adminID); err != nil {
		if repository.IsNotFound(err) {
			return forbidden("Category not found or unauthorized")
		}
		return fmt.Errorf("failed to load category: %w", err)
	}
	return nil
}

// ownedProduct loads and locks a product for mutation. Missing and foreign products look the same.
func (s *productService) ownedProduct(ctx context.Context, adminID, id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindOwnedForUpdate(ctx, id, adminID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, forbidden("Product not found or unauthorized")
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	return product, nil
}

func (s *productService) Create(ctx context.Context, adminID uuid.UUID, req ProductRequest) (*model.Product, error) {
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" || req.Price == nil || req.CategoryID == nil {
		return nil, invalid("Name, price, and category are required")
	}
	if err := validatePrice(*req.Price); err != nil {
		return nil, err
	}
	stock := 0
	if req.Stock != nil {
		stock = *req.Stock
	}
	if err := validateStock(stock); err != nil {
		return nil, err
	}

	product := &model.Product{
		AdminID:    adminID,
		CategoryID: req.CategoryID,
		Name:       strings.TrimSpace(*req.Name),
		Price:      req.Price.Round(2),
		Stock:      stock,
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.ImageURL != nil {
		product.ImageURL = *req.ImageURL
	}
	if req.IsFeatured != nil {
		product.IsFeatured = *req.IsFeatured
	}
	if product.ImageURL == "" && len(req.Images) > 0 {
		product.ImageURL = req.Images[0]
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.ownedCategory(txCtx, adminID, *req.CategoryID); err != nil {
			return err
		}
		if err := s.productRepo.Create(txCtx, product); err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}

		if len(req.Images) > 0 {
			images := make([]model.ProductImage, 0, len(req.Images))
			for i, url := range req.Images {
				images = append(images, model.ProductImage{ProductID: product.ID, ImageURL: url, IsPrimary: i == 0})
			}
			if err := s.productRepo.CreateImages(txCtx, images); err != nil {
				return fmt.Errorf("failed to create product images: %w", err)
			}
		}

		return writeAudit(txCtx, s.auditRepo, adminID, model.ActionCreateProduct, product.ID.String(), product.Name, req)
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) Update(ctx context.Context, adminID, id uuid.UUID, req ProductRequest) (*model.Product, error) {
	var product *model.Product
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		if product, err = s.ownedProduct(txCtx, adminID, id); err != nil {
			return err
		}

		var columns []string
		if req.CategoryID != nil {
			if err := s.ownedCategory(txCtx, adminID, *req.CategoryID); err != nil {
				return err
			}
			product.CategoryID = req.CategoryID
			columns = append(columns, "category_id")
		}
		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return invalid("Product name cannot be empty")
			}
			product.Name = name
			columns = append(columns, "name")
		}
		if req.Description != nil {
			product.Description = *req.Description
			columns = append(columns, "description")
		}
		if req.Price != nil {
			if err := validatePrice(*req.Price); err != nil {
				return err
			}
			product.Price = req.Price.Round(2)
			columns = append(columns, "price")
		}
		if req.Stock != nil {
			if err := validateStock(*req.Stock); err != nil {
				return err
			}
			product.Stock = *req.Stock
			columns = append(columns, "stock")
		}
		if req.ImageURL != nil {
			product.ImageURL = *req.ImageURL
			columns = append(columns, "image_url")
		}
		if req.IsFeatured != nil {
			product.IsFeatured = *req.IsFeatured
			columns = append(columns, "is_featured")
		}
		if len(columns) > 0 {
			if err := s.productRepo.Update(txCtx, product, columns...); err != nil {
				return fmt.Errorf("failed to update product: %w", err)
			}
		}
		return writeAudit(txCtx, s.auditRepo, adminID, model.ActionUpdateProduct, product.ID.String(), product.Name, req)
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) SetStock(ctx context.Context, adminID, id uuid.UUID, req StockRequest) (*model.Product, error) {
	if req.Stock == nil {
		return nil, invalid("Valid stock value is required")
	}
	if err := validateStock(*req.Stock); err != nil {
		return nil, err
	}

	var product *model.Product
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		if product, err = s.ownedProduct(txCtx, adminID, id); err != nil {
			return err
		}

		previous := product.Stock
		product.Stock = *req.Stock
		if err := s.productRepo.Update(txCtx, product, "stock"); err != nil {
			return fmt.Errorf("failed to update stock: %w", err)
		}

		movement := &model.StockMovement{
			ProductID:       product.ID,
			Kind:            model.StockMovementSet,
			QuantityChanged: product.Stock - previous,
			StockAfter:      product.Stock,
		}
		if err := s.movementRepo.Create(txCtx, movement); err != nil {
			return fmt.Errorf("failed to record stock movement: %w", err)
		}

		details := map[string]int{"previous": previous, "stock": product.Stock}
		return writeAudit(txCtx, s.auditRepo, adminID, model.ActionSetStock, product.ID.String(), product.Name, details)
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) SetFeatured(ctx context.Context, adminID, id uuid.UUID, req FeatureRequest) (*model.Product, error) {
	if req.IsFeatured == nil {
		return nil, invalid("is_featured value is required")
	}

	var product *model.Product
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		if product, err = s.ownedProduct(txCtx, adminID, id); err != nil {
			return err
		}
		product.IsFeatured = *req.IsFeatured
		if err := s.productRepo.Update(txCtx, product, "is_featured"); err != nil {
			return fmt.Errorf("failed to toggle featured status: %w", err)
		}
		return writeAudit(txCtx, s.auditRepo, adminID, model.ActionSetFeatured, product.ID.String(), product.Name, req)
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) Delete(ctx context.Context, adminID, id uuid.UUID) error {
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		product, err := s.ownedProduct(txCtx, adminID, id)
		if err != nil {
			return err
		}
		if err := s.productRepo.Delete(txCtx, id, adminID); err != nil {
			return fmt.Errorf("failed to delete product: %w", err)
		}
		return writeAudit(txCtx, s.auditRepo, adminID, model.ActionDeleteProduct, product.ID.String(), product.Name, nil)
	})
}

func (s *productService) StockMovements(ctx context.Context, adminID, id uuid.UUID) ([]model.StockMovement, error) {
	if _, err := s.productRepo.FindOwned(ctx, id, adminID); err != nil {
		return nil, lookup(err, "Product")
	}
	movements, err := s.movementRepo.ListByProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list stock movements: %w", err)
	}
	return movements, nil
}
