package repository

import (
	"context"

	"gamerx/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRepository defines the interface for data access of User entities
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	CreateStore(ctx context.Context, store *model.AdminStore) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByVerificationToken(ctx context.Context, token string) (*model.User, error)
	GetStore(ctx context.Context, adminID uuid.UUID) (*model.AdminStore, error)
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error)
	MarkVerified(ctx context.Context, id uuid.UUID) error
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
	UpdateProfilePicture(ctx context.Context, id uuid.UUID, path string) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new instance of UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return GetDB(ctx, r.db).Create(user).Error
}

func (r *userRepository) CreateStore(ctx context.Context, store *model.AdminStore) error {
	return GetDB(ctx, r.db).Create(store).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := GetDB(ctx, r.db).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := GetDB(ctx, r.db).First(&user, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByVerificationToken(ctx context.Context, token string) (*model.User, error) {
	var user model.User
	if err := GetDB(ctx, r.db).First(&user, "verification_token = ?", token).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetStore(ctx context.Context, adminID uuid.UUID) (*model.AdminStore, error) {
	var store model.AdminStore
	if err := GetDB(ctx, r.db).First(&store, "admin_id = ?", adminID).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *userRepository) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.User{}).
		Where("email = ? OR username = ?", email, username).
		Count(&count).Error
	return count > 0, err
}

func (r *userRepository) MarkVerified(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Model(&model.User{}).Where("id = ?", id).
		Updates(map[string]interface{}{"is_verified": true, "verification_token": nil}).Error
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	return GetDB(ctx, r.db).Model(&model.User{}).Where("id = ?", id).Update("password", hash).Error
}

func (r *userRepository) UpdateProfilePicture(ctx context.Context, id uuid.UUID, path string) error {
	return GetDB(ctx, r.db).Model(&model.User{}).Where("id = ?", id).Update("profile_picture", path).Error
}
