package model

import (
	"time"

	"github.com/google/uuid"
)

// Account roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a storefront account, either a buyer or a store admin
type User struct {
	ID                uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Username          string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"username"`
	Email             string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password          string    `gorm:"type:varchar(255);not null" json:"-"`                  // bcrypt hash, never serialized
	Role              string    `gorm:"type:varchar(20);not null;default:'user'" json:"role"` // user, admin
	IsVerified        bool      `gorm:"not null;default:false" json:"is_verified"`
	VerificationToken *string   `gorm:"type:varchar(64);index" json:"-"`
	ProfilePicture    *string   `gorm:"type:varchar(512)" json:"profile_picture"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// AdminStore holds the storefront metadata registered together with an admin account
type AdminStore struct {
	AdminID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"admin_id"`
	Admin       *User     `gorm:"foreignKey:AdminID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	StoreName   string    `gorm:"type:varchar(255);not null" json:"store_name"`
	PhoneNumber string    `gorm:"type:varchar(30);not null" json:"phone_number"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}
