package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"gamerx/internal/mail"
	"gamerx/internal/model"
	"gamerx/internal/repository"
	"gamerx/internal/token"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DTOs for Request validation
type RegisterRequest struct {
	Username    string `json:"username" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	Role        string `json:"role" binding:"omitempty,oneof=user admin"`
	AdminSecret string `json:"adminSecret"`
	StoreName   string `json:"storeName"`
	PhoneNumber string `json:"phoneNumber"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

type StoreResponse struct {
	StoreName   string `json:"store_name"`
	PhoneNumber string `json:"phone_number"`
}

// UserResponse is a User without sensitive fields
type UserResponse struct {
	ID             uuid.UUID      `json:"id"`
	Username       string         `json:"username"`
	Email          string         `json:"email"`
	Role           string         `json:"role"`
	IsVerified     bool           `json:"is_verified"`
	ProfilePicture *string        `json:"profile_picture"`
	Store          *StoreResponse `json:"store,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// RegisterResponse carries a session token for auto-verified accounts and the
// verification token for everyone else.
type RegisterResponse struct {
	Token             string       `json:"token,omitempty"`
	ExpiresAt         *time.Time   `json:"expires_at,omitempty"`
	VerificationToken string       `json:"verificationToken,omitempty"`
	User              UserResponse `json:"user"`
}

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// UserService covers the account lifecycle: registration, verification, login and profile
type UserService interface {
	Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Verify(ctx context.Context, verificationToken string) error
	Me(ctx context.Context, userID uuid.UUID) (*UserResponse, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error
	SetProfilePicture(ctx context.Context, userID uuid.UUID, path string) (*UserResponse, error)
}

// UserConfig holds the account policy knobs
type UserConfig struct {
	AdminSecret string
	// VerifyURL is the page that consumes ?token=...; the mailed link points there.
	VerifyURL  string
	BcryptCost int
}

type userService struct {
	repo   repository.UserRepository
	tx     repository.TransactionManager
	tokens *token.Manager
	mailer mail.Sender
	cfg    UserConfig
}

// NewUserService returns a new instance of UserService
func NewUserService(repo repository.UserRepository, tx repository.TransactionManager, tokens *token.Manager, mailer mail.Sender, cfg UserConfig) UserService {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	return &userService{repo: repo, tx: tx, tokens: tokens, mailer: mailer, cfg: cfg}
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// secureEqual compares secrets in constant time
func secureEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func mapToResponse(user *model.User, store *model.AdminStore) UserResponse {
	res := UserResponse{
		ID:             user.ID,
		Username:       user.Username,
		Email:          user.Email,
		Role:           user.Role,
		IsVerified:     user.IsVerified,
		ProfilePicture: user.ProfilePicture,
		CreatedAt:      user.CreatedAt,
	}
	if store != nil {
		res.Store = &StoreResponse{StoreName: store.StoreName, PhoneNumber: store.PhoneNumber}
	}
	return res
}

func (s *userService) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	if err := validate(&req); err != nil {
		return nil, err
	}

	isAdmin := req.Role == model.RoleAdmin
	if isAdmin {
		if req.AdminSecret == "" || s.cfg.AdminSecret == "" || !secureEqual(req.AdminSecret, s.cfg.AdminSecret) {
			return nil, forbidden("Invalid admin secret")
		}
		if strings.TrimSpace(req.StoreName) == "" || strings.TrimSpace(req.PhoneNumber) == "" {
			return nil, invalid("Store name and phone number are required for admin registration")
		}
	}

	exists, err := s.repo.ExistsByEmailOrUsername(ctx, req.Email, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing users: %w", err)
	}
	if exists {
		return nil, conflict("User already exists with this email or username")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashed),
		Role:     model.RoleUser,
	}
	var store *model.AdminStore
	if isAdmin {
		user.Role = model.RoleAdmin
		user.IsVerified = true
	} else {
		verification, err := randomHex(24)
		if err != nil {
			return nil, err
		}
		user.VerificationToken = &verification
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Create(txCtx, user); err != nil {
			return err
		}
		if isAdmin {
			store = &model.AdminStore{
				AdminID:     user.ID,
				StoreName:   strings.TrimSpace(req.StoreName),
				PhoneNumber: strings.TrimSpace(req.PhoneNumber),
			}
			if err := s.repo.CreateStore(txCtx, store); err != nil {
				return fmt.Errorf("failed to create admin store: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, conflict("User already exists with this email or username")
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	res := &RegisterResponse{User: mapToResponse(user, store)}
	if user.IsVerified {
		signed, expiresAt, err := s.tokens.Issue(user)
		if err != nil {
			return nil, err
		}
		res.Token, res.ExpiresAt = signed, &expiresAt
		return res, nil
	}

	res.VerificationToken = *user.VerificationToken
	s.sendVerification(ctx, user)
	return res, nil
}

// sendVerification mails the verification link. Delivery failures are logged only: the
// token is also returned to the client.
func (s *userService) sendVerification(ctx context.Context, user *model.User) {
	link := s.cfg.VerifyURL + "?token=" + url.QueryEscape(*user.VerificationToken)
	body := fmt.Sprintf("Hi %s,\n\nConfirm your GamerX account by opening the link below:\n\n%s\n", user.Username, link)
	if err := s.mailer.Send(ctx, user.Email, "Verify your GamerX account", body); err != nil {
		log.Printf("WARNING: verification mail for user %s not delivered: %v", user.ID, err)
	}
}

func (s *userService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := validate(&req); err != nil {
		return nil, err
	}

	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, unauthorized("Invalid email or password")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, unauthorized("Invalid email or password")
	}
	if !user.IsVerified {
		return nil, forbidden("Please verify your email before logging in")
	}

	signed, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &LoginResponse{Token: signed, ExpiresAt: expiresAt, User: mapToResponse(user, nil)}, nil
}

func (s *userService) Verify(ctx context.Context, verificationToken string) error {
	if verificationToken == "" {
		return invalid("Verification token is required")
	}
	user, err := s.repo.GetByVerificationToken(ctx, verificationToken)
	if err != nil {
		if repository.IsNotFound(err) {
			return invalid("Invalid verification token")
		}
		return fmt.Errorf("failed to load user: %w", err)
	}
	if err := s.repo.MarkVerified(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to verify user: %w", err)
	}
	return nil
}

func (s *userService) Me(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, lookup(err, "User")
	}

	var store *model.AdminStore
	if user.Role == model.RoleAdmin {
		store, err = s.repo.GetStore(ctx, user.ID)
		if err != nil && !repository.IsNotFound(err) {
			return nil, fmt.Errorf("failed to load admin store: %w", err)
		}
	}

	res := mapToResponse(user, store)
	return &res, nil
}

func (s *userService) ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error {
	if err := validate(&req); err != nil {
		return err
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return lookup(err, "User")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return invalid("Current password is incorrect")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.repo.UpdatePassword(ctx, userID, string(hashed)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func (s *userService) SetProfilePicture(ctx context.Context, userID uuid.UUID, path string) (*UserResponse, error) {
	if _, err := s.repo.GetByID(ctx, userID); err != nil {
		return nil, lookup(err, "User")
	}
	if err := s.repo.UpdateProfilePicture(ctx, userID, path); err != nil {
		return nil, fmt.Errorf("failed to update profile picture: %w", err)
	}
	return s.Me(ctx, userID)
}
