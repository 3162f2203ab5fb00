package repository

import (
	"context"

	"gamerx/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	Update(ctx context.Context, category *model.Category) error
	Delete(ctx context.Context, id, adminID uuid.UUID) error
	FindOwned(ctx context.Context, id, adminID uuid.UUID) (*model.Category, error)
	ListByAdmin(ctx context.Context, adminID uuid.UUID) ([]model.Category, error)
	ListNames(ctx context.Context) ([]string, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *model.Category) error {
	return GetDB(ctx, r.db).Create(category).Error
}

func (r *categoryRepository) Update(ctx context.Context, category *model.Category) error {
	return GetDB(ctx, r.db).Save(category).Error
}

func (r *categoryRepository) Delete(ctx context.Context, id, adminID uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ? AND admin_id = ?", id, adminID).Delete(&model.Category{}).Error
}

// FindOwned returns the category only when it belongs to adminID.
func (r *categoryRepository) FindOwned(ctx context.Context, id, adminID uuid.UUID) (*model.Category, error) {
	var category model.Category
	if err := GetDB(ctx, r.db).Where("id = ? AND admin_id = ?", id, adminID).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) ListByAdmin(ctx context.Context, adminID uuid.UUID) ([]model.Category, error) {
	categories := []model.Category{}
	err := GetDB(ctx, r.db).Where("admin_id = ?", adminID).Order("created_at DESC").Find(&categories).Error
	return categories, err
}

// ListNames returns every distinct category name across all admins.
func (r *categoryRepository) ListNames(ctx context.Context) ([]string, error) {
	names := []string{}
	err := GetDB(ctx, r.db).Model(&model.Category{}).
		Distinct("name").Order("name ASC").Pluck("name", &names).Error
	return names, err
}
