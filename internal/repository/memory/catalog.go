package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"gamerx/internal/model"
	"gamerx/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type categoryRepo struct {
	s *Store
}

func nameTaken(d *data, c *model.Category) bool {
	for _, other := range d.categories {
		if other.ID != c.ID && other.AdminID == c.AdminID && other.Name == c.Name {
			return true
		}
	}
	return false
}

func (r *categoryRepo) Create(ctx context.Context, category *model.Category) error {
	return r.s.write(ctx, "categories.create", func(d *data) error {
		if nameTaken(d, category) {
			return repository.UniqueViolation("idx_categories_admin_name")
		}
		now := r.s.now()
		category.ID = newID(category.ID)
		category.CreatedAt, category.UpdatedAt = now, now
		d.categories[category.ID] = *category
		d.categoryOrder = append(d.categoryOrder, category.ID)
		return nil
	})
}

func (r *categoryRepo) Update(ctx context.Context, category *model.Category) error {
	return r.s.write(ctx, "categories.update", func(d *data) error {
		if nameTaken(d, category) {
			return repository.UniqueViolation("idx_categories_admin_name")
		}
		category.UpdatedAt = r.s.now()
		d.categories[category.ID] = *category
		return nil
	})
}

func (r *categoryRepo) Delete(ctx context.Context, id, adminID uuid.UUID) error {
	return r.s.write(ctx, "categories.delete", func(d *data) error {
		c, ok := d.categories[id]
		if !ok || c.AdminID != adminID {
			return nil
		}
		delete(d.categories, id)
		for pid, p := range d.products {
			if p.CategoryID != nil && *p.CategoryID == id {
				p.CategoryID = nil
				d.products[pid] = p
			}
		}
		return nil
	})
}

func (r *categoryRepo) FindOwned(ctx context.Context, id, adminID uuid.UUID) (*model.Category, error) {
	var found *model.Category
	_ = r.s.read(ctx, func(d *data) error {
		if c, ok := d.categories[id]; ok && c.AdminID == adminID {
			found = &c
		}
		return nil
	})
	if found == nil {
		return nil, repository.ErrNotFound
	}
	return found, nil
}

func (r *categoryRepo) ListByAdmin(ctx context.Context, adminID uuid.UUID) ([]model.Category, error) {
	out := []model.Category{}
	_ = r.s.read(ctx, func(d *data) error {
		for i := len(d.categoryOrder) - 1; i >= 0; i-- {
			if c, ok := d.categories[d.categoryOrder[i]]; ok && c.AdminID == adminID {
				out = append(out, c)
			}
		}
		return nil
	})
	return out, nil
}

func (r *categoryRepo) ListNames(ctx context.Context) ([]string, error) {
	seen := map[string]bool{}
	names := []string{}
	_ = r.s.read(ctx, func(d *data) error {
		for _, c := range d.categories {
			if !seen[c.Name] {
				seen[c.Name] = true
				names = append(names, c.Name)
			}
		}
		return nil
	})
	sort.Strings(names)
	return names, nil
}

type productRepo struct {
	s *Store
}

func live(p model.Product) bool {
	return !p.DeletedAt.Valid
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	return r.s.write(ctx, "products.create", func(d *data) error {
		now := r.s.now()
		product.ID = newID(product.ID)
		product.CreatedAt, product.UpdatedAt = now, now
		d.products[product.ID] = *product
		d.productOrder = append(d.productOrder, product.ID)
		return nil
	})
}

func (r *productRepo) Update(ctx context.Context, product *model.Product, columns ...string) error {
	return r.s.write(ctx, "products.update", func(d *data) error {
		product.UpdatedAt = r.s.now()
		stored, ok := d.products[product.ID]
		if !ok || len(columns) == 0 {
			d.products[product.ID] = *product
			return nil
		}
		for _, col := range columns {
			switch col {
			case "category_id":
				stored.CategoryID = product.CategoryID
			case "name":
				stored.Name = product.Name
			case "description":
				stored.Description = product.Description
			case "price":
				stored.Price = product.Price
			case "stock":
				stored.Stock = product.Stock
			case "image_url":
				stored.ImageURL = product.ImageURL
			case "is_featured":
				stored.IsFeatured = product.IsFeatured
			default:
				return fmt.Errorf("memory: unknown product column %q", col)
			}
		}
		stored.UpdatedAt = product.UpdatedAt
		d.products[product.ID] = stored
		*product = stored
		return nil
	})
}

func (r *productRepo) Delete(ctx context.Context, id, adminID uuid.UUID) error {
	return r.s.write(ctx, "products.delete", func(d *data) error {
		p, ok := d.products[id]
		if !ok || p.AdminID != adminID || !live(p) {
			return nil
		}
		p.DeletedAt = gorm.DeletedAt{Time: r.s.now(), Valid: true}
		d.products[id] = p
		return nil
	})
}

func (r *productRepo) FindOwned(ctx context.Context, id, adminID uuid.UUID) (*model.Product, error) {
	var found *model.Product
	_ = r.s.read(ctx, func(d *data) error {
		if p, ok := d.products[id]; ok && live(p) && p.AdminID == adminID {
			found = &p
		}
		return nil
	})
	if found == nil {
		return nil, repository.ErrNotFound
	}
	return found, nil
}

// FindOwnedForUpdate needs no lock here: transactions already run one at a time.
func (r *productRepo) FindOwnedForUpdate(ctx context.Context, id, adminID uuid.UUID) (*model.Product, error) {
	return r.FindOwned(ctx, id, adminID)
}

func (r *productRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Product, error) {
	out := []model.Product{}
	_ = r.s.read(ctx, func(d *data) error {
		for _, id := range ids {
			if p, ok := d.products[id]; ok && live(p) {
				out = append(out, p)
			}
		}
		return nil
	})
	return out, nil
}

func listing(d *data, p model.Product) repository.ProductListing {
	l := repository.ProductListing{
		ID:          p.ID,
		AdminID:     p.AdminID,
		CategoryID:  p.CategoryID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		ImageURL:    p.ImageURL,
		IsFeatured:  p.IsFeatured,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.CategoryID != nil {
		if c, ok := d.categories[*p.CategoryID]; ok {
			l.CategoryName = c.Name
		}
	}
	return l
}

func (r *productRepo) GetListing(ctx context.Context, id uuid.UUID, adminID *uuid.UUID) (*repository.ProductListing, error) {
	var found *repository.ProductListing
	_ = r.s.read(ctx, func(d *data) error {
		p, ok := d.products[id]
		if !ok || !live(p) || (adminID != nil && p.AdminID != *adminID) {
			return nil
		}
		l := listing(d, p)
		found = &l
		return nil
	})
	if found == nil {
		return nil, repository.ErrNotFound
	}
	return found, nil
}

func matches(f repository.ProductFilter, l repository.ProductListing) bool {
	switch {
	case f.AdminID != nil && l.AdminID != *f.AdminID:
		return false
	case f.CategoryID != nil && (l.CategoryID == nil || *l.CategoryID != *f.CategoryID):
		return false
	case f.CategoryName != "" && !strings.EqualFold(l.CategoryName, f.CategoryName):
		return false
	case f.FeaturedOnly && !l.IsFeatured:
		return false
	case f.MinPrice != nil && l.Price.LessThan(*f.MinPrice):
		return false
	case f.MaxPrice != nil && l.Price.GreaterThan(*f.MaxPrice):
		return false
	case f.MinStock != nil && l.Stock < *f.MinStock:
		return false
	case f.MaxStock != nil && l.Stock > *f.MaxStock:
		return false
	}
	return true
}

func (r *productRepo) List(ctx context.Context, filter repository.ProductFilter) ([]repository.ProductListing, error) {
	out := []repository.ProductListing{}
	_ = r.s.read(ctx, func(d *data) error {
		for i := len(d.productOrder) - 1; i >= 0; i-- {
			p, ok := d.products[d.productOrder[i]]
			if !ok || !live(p) {
				continue
			}
			if l := listing(d, p); matches(filter, l) {
				out = append(out, l)
			}
		}
		return nil
	})
	return out, nil
}

func (r *productRepo) CreateImages(ctx context.Context, images []model.ProductImage) error {
	return r.s.write(ctx, "product_images.create", func(d *data) error {
		now := r.s.now()
		for i := range images {
			images[i].ID = newID(images[i].ID)
			images[i].CreatedAt = now
			d.images = append(d.images, images[i])
		}
		return nil
	})
}

func (r *productRepo) ListImages(ctx context.Context, productID uuid.UUID) ([]model.ProductImage, error) {
	out := []model.ProductImage{}
	_ = r.s.read(ctx, func(d *data) error {
		for _, img := range d.images {
			if img.ProductID == productID {
				out = append(out, img)
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].IsPrimary && !out[j].IsPrimary })
	return out, nil
}

func (r *productRepo) DecrementStock(ctx context.Context, id uuid.UUID, quantity int) (int, bool, error) {
	remaining, ok := 0, false
	err := r.s.write(ctx, "products.decrement_stock", func(d *data) error {
		p, found := d.products[id]
		if !found || !live(p) || p.Stock < quantity {
			return nil
		}
		p.Stock -= quantity
		p.UpdatedAt = r.s.now()
		d.products[id] = p
		remaining, ok = p.Stock, true
		return nil
	})
	return remaining, ok, err
}

// Stock returns a product's stored stock, including soft-deleted products.
func (s *Store) Stock(id uuid.UUID) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.d.products[id]
	return p.Stock, ok
}

type stockMovementRepo struct {
	s *Store
}

func (r *stockMovementRepo) Create(ctx context.Context, movement *model.StockMovement) error {
	return r.s.write(ctx, "stock_movements.create", func(d *data) error {
		movement.ID = newID(movement.ID)
		movement.CreatedAt = r.s.now()
		d.stockMovements = append(d.stockMovements, *movement)
		return nil
	})
}

func (r *stockMovementRepo) ListByProduct(ctx context.Context, productID uuid.UUID) ([]model.StockMovement, error) {
	out := []model.StockMovement{}
	_ = r.s.read(ctx, func(d *data) error {
		for i := len(d.stockMovements) - 1; i >= 0; i-- {
			if m := d.stockMovements[i]; m.ProductID == productID {
				out = append(out, m)
			}
		}
		return nil
	})
	return out, nil
}
