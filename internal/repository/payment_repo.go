package repository

import (
	"context"

	"gamerx/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) error
	FindByOrder(ctx context.Context, orderID uuid.UUID) (*model.Payment, error)
	FindByOrderForUpdate(ctx context.Context, orderID, userID uuid.UUID) (*model.Payment, error)
	MarkSucceeded(ctx context.Context, id uuid.UUID) (bool, error)
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	return GetDB(ctx, r.db).Create(payment).Error
}

func (r *paymentRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) (*model.Payment, error) {
	var payment model.Payment
	if err := GetDB(ctx, r.db).First(&payment, "order_id = ?", orderID).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

// FindByOrderForUpdate locks the buyer's payment row until the surrounding transaction ends.
func (r *paymentRepository) FindByOrderForUpdate(ctx context.Context, orderID, userID uuid.UUID) (*model.Payment, error) {
	var payment model.Payment
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("order_id = ? AND user_id = ?", orderID, userID).First(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) MarkSucceeded(ctx context.Context, id uuid.UUID) (bool, error) {
	res := GetDB(ctx, r.db).Model(&model.Payment{}).
		Where("id = ? AND status = ?", id, model.PaymentStatusPending).
		Update("status", model.PaymentStatusSuccess)
	return res.RowsAffected == 1, res.Error
}
