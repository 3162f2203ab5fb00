package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"gamerx/internal/cart"
	"gamerx/internal/mail"
	"gamerx/internal/model"
	"gamerx/internal/repository"
	"gamerx/internal/repository/memory"
	"gamerx/internal/token"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

const testAdminSecret = "letmein"

var errInjected = errors.New("injected failure")

type fixture struct {
	ctx        context.Context
	repos      repository.Set
	store      *memory.Store
	mailer     *mail.Recorder
	tokens     *token.Manager
	users      UserService
	categories CategoryService
	products   ProductService
	orders     OrderService
	reviews    ReviewService
	audit      AuditService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repos, store := memory.NewSet()
	f := &fixture{
		ctx:    context.Background(),
		repos:  repos,
		store:  store,
		mailer: &mail.Recorder{},
		tokens: token.NewManager("test-secret", token.DefaultTTL),
	}
	f.users = NewUserService(repos.Users, repos.Tx, f.tokens, f.mailer, UserConfig{
		AdminSecret: testAdminSecret,
		VerifyURL:   "http://localhost:3000/verify",
		BcryptCost:  bcrypt.MinCost,
	})
	f.categories = NewCategoryService(repos.Categories, repos.Audit, repos.Tx)
	f.products = NewProductService(repos.Products, repos.Categories, repos.StockMovements, repos.Audit, repos.Tx)
	f.orders = NewOrderService(repos)
	f.reviews = NewReviewService(repos.Reviews, repos.Products, repos.Audit, repos.Tx)
	f.audit = NewAuditService(repos.Audit)
	return f
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func boolPtr(b bool) *bool    { return &b }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func wantKind(t *testing.T, err, kind error) {
	t.Helper()
	if !errors.Is(err, kind) {
		t.Fatalf("err = %v, want kind %v", err, kind)
	}
}

func (f *fixture) registerAdmin(t *testing.T, email string) uuid.UUID {
	t.Helper()
	res, err := f.users.Register(f.ctx, RegisterRequest{
		Username:    email,
		Email:       email,
		Password:    "secret1",
		Role:        model.RoleAdmin,
		AdminSecret: testAdminSecret,
		StoreName:   "Store of " + email,
		PhoneNumber: "0123456789",
	})
	if err != nil {
		t.Fatalf("register admin %s: %v", email, err)
	}
	return res.User.ID
}

// registerBuyer registers and verifies a regular user.
func (f *fixture) registerBuyer(t *testing.T, email string) uuid.UUID {
	t.Helper()
	res, err := f.users.Register(f.ctx, RegisterRequest{Username: email, Email: email, Password: "secret1"})
	if err != nil {
		t.Fatalf("register buyer %s: %v", email, err)
	}
	if err := f.users.Verify(f.ctx, res.VerificationToken); err != nil {
		t.Fatalf("verify buyer %s: %v", email, err)
	}
	return res.User.ID
}

func (f *fixture) category(t *testing.T, adminID uuid.UUID, name string) *model.Category {
	t.Helper()
	c, err := f.categories.Create(f.ctx, adminID, CategoryRequest{Name: strPtr(name)})
	if err != nil {
		t.Fatalf("create category %s: %v", name, err)
	}
	return c
}

func (f *fixture) product(t *testing.T, adminID, categoryID uuid.UUID, name, price string, stock int) *model.Product {
	t.Helper()
	p, err := f.products.Create(f.ctx, adminID, ProductRequest{
		Name:       strPtr(name),
		Price:      decPtr(price),
		Stock:      intPtr(stock),
		CategoryID: &categoryID,
	})
	if err != nil {
		t.Fatalf("create product %s: %v", name, err)
	}
	return p
}

func cartOf(lines ...cart.Line) cart.Cart {
	return cart.New(lines...)
}

func line(id uuid.UUID, quantity int) cart.Line {
	return cart.Line{ID: id, Quantity: quantity}
}

func within(t *testing.T, got, want time.Time, slack time.Duration) {
	t.Helper()
	if d := got.Sub(want); d > slack || d < -slack {
		t.Fatalf("time = %v, want %v (±%v)", got, want, slack)
	}
}
