package repository

import (
	"context"
	"time"

	"gamerx/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReviewListing carries both the username stored on the review and the reviewer's
// current username.
type ReviewListing struct {
	ID              uuid.UUID `json:"id"`
	ProductID       uuid.UUID `json:"product_id"`
	UserID          uuid.UUID `json:"user_id"`
	Username        string    `json:"username"`
	CurrentUsername string    `json:"current_username"`
	Rating          int       `json:"rating"`
	Comment         string    `json:"comment"`
	CreatedAt       time.Time `json:"created_at"`
}

type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Review, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]ReviewListing, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *model.Review) error {
	return GetDB(ctx, r.db).Create(review).Error
}

func (r *reviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	var review model.Review
	if err := GetDB(ctx, r.db).First(&review, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]ReviewListing, error) {
	rows := []ReviewListing{}
	err := GetDB(ctx, r.db).Table("reviews").
		Select("reviews.*, COALESCE(users.username, reviews.username) AS current_username").
		Joins("LEFT JOIN users ON users.id = reviews.user_id").
		Where("reviews.product_id = ?", productID).
		Order("reviews.created_at DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *reviewRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Review{})
	return res.RowsAffected > 0, res.Error
}
