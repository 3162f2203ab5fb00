package repository_test

import (
	"context"
	"os"
	"sync"
	"testing"

	"gamerx/internal/database"
	"gamerx/internal/model"
	"gamerx/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	migrateOnce sync.Once
	migrateErr  error
)

// pgSet returns PostgreSQL repositories bound to a transaction that is rolled back when the
// test ends. Tests are skipped unless TEST_DATABASE_URL points at a disposable database.
func pgSet(t *testing.T) (repository.Set, context.Context) {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("connection pool: %v", err)
	}

	migrateOnce.Do(func() { migrateErr = database.Migrate(db) })
	if migrateErr != nil {
		t.Fatalf("Migrate: %v", migrateErr)
	}

	tx := db.Begin()
	if tx.Error != nil {
		t.Fatalf("begin: %v", tx.Error)
	}
	t.Cleanup(func() {
		tx.Rollback()
		sqlDB.Close()
	})
	return repository.NewSet(tx), context.Background()
}

func seedAdmin(t *testing.T, set repository.Set, ctx context.Context) *model.User {
	t.Helper()
	suffix := uuid.NewString()[:8]
	u := &model.User{Username: "admin-" + suffix, Email: "admin-" + suffix + "@x.com", Password: "x", Role: model.RoleAdmin, IsVerified: true}
	if err := set.Users.Create(ctx, u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func seedProduct(t *testing.T, set repository.Set, ctx context.Context, adminID uuid.UUID, categoryID *uuid.UUID, name string, stock int) *model.Product {
	t.Helper()
	p := &model.Product{AdminID: adminID, CategoryID: categoryID, Name: name, Price: decimal.RequireFromString("10.00"), Stock: stock}
	if err := set.Products.Create(ctx, p); err != nil {
		t.Fatalf("create product: %v", err)
	}
	return p
}

func TestDecrementStockIsConditional(t *testing.T) {
	set, ctx := pgSet(t)
	admin := seedAdmin(t, set, ctx)
	p := seedProduct(t, set, ctx, admin.ID, nil, "RGB Mouse", 5)

	remaining, ok, err := set.Products.DecrementStock(ctx, p.ID, 3)
	if err != nil || !ok || remaining != 2 {
		t.Fatalf("DecrementStock(3) = %d, %v, %v; want 2, true", remaining, ok, err)
	}

	remaining, ok, err = set.Products.DecrementStock(ctx, p.ID, 3)
	if err != nil || ok {
		t.Fatalf("DecrementStock(3) past stock = %d, %v, %v; want refusal", remaining, ok, err)
	}

	fresh, err := set.Products.FindOwnedForUpdate(ctx, p.ID, admin.ID)
	if err != nil {
		t.Fatalf("FindOwnedForUpdate: %v", err)
	}
	if fresh.Stock != 2 {
		t.Fatalf("stock = %d, want 2 after the refused decrement", fresh.Stock)
	}

	if _, ok, err := set.Products.DecrementStock(ctx, uuid.New(), 1); err != nil || ok {
		t.Fatalf("DecrementStock on unknown product = %v, %v", ok, err)
	}
}

func TestProductUpdateKeepsUnnamedColumns(t *testing.T) {
	set, ctx := pgSet(t)
	admin := seedAdmin(t, set, ctx)
	p := seedProduct(t, set, ctx, admin.ID, nil, "RGB Mouse", 5)

	stale, err := set.Products.FindOwned(ctx, p.ID, admin.ID)
	if err != nil {
		t.Fatalf("FindOwned: %v", err)
	}
	if _, ok, err := set.Products.DecrementStock(ctx, p.ID, 3); err != nil || !ok {
		t.Fatalf("DecrementStock = %v, %v", ok, err)
	}

	stale.Name = "RGB Mouse Pro"
	stale.IsFeatured = true
	if err := set.Products.Update(ctx, stale, "name", "is_featured"); err != nil {
		t.Fatalf("Update: %v", err)
	}

	fresh, err := set.Products.FindOwned(ctx, p.ID, admin.ID)
	if err != nil {
		t.Fatalf("FindOwned: %v", err)
	}
	if fresh.Stock != 2 || fresh.Name != "RGB Mouse Pro" || !fresh.IsFeatured {
		t.Fatalf("product = %+v, want new name and flag with stock 2", fresh)
	}
}

func TestListingsSkipDeletedProducts(t *testing.T) {
	set, ctx := pgSet(t)
	admin := seedAdmin(t, set, ctx)
	category := &model.Category{AdminID: admin.ID, Name: "Mouse"}
	if err := set.Categories.Create(ctx, category); err != nil {
		t.Fatalf("create category: %v", err)
	}
	kept := seedProduct(t, set, ctx, admin.ID, &category.ID, "RGB Mouse", 5)
	gone := seedProduct(t, set, ctx, admin.ID, &category.ID, "Old Mouse", 5)

	if err := set.Products.Delete(ctx, gone.ID, admin.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	rows, err := set.Products.List(ctx, repository.ProductFilter{AdminID: &admin.ID})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != kept.ID || rows[0].CategoryName != "Mouse" {
		t.Fatalf("rows = %+v, want only %s in category Mouse", rows, kept.ID)
	}

	byName, err := set.Products.List(ctx, repository.ProductFilter{AdminID: &admin.ID, CategoryName: "mOUSE"})
	if err != nil || len(byName) != 1 {
		t.Fatalf("List by category name = %+v, %v", byName, err)
	}

	if _, err := set.Products.GetListing(ctx, gone.ID, nil); !repository.IsNotFound(err) {
		t.Fatalf("GetListing(deleted) err = %v, want not found", err)
	}
}

func TestOrderSummariesAndLineOrder(t *testing.T) {
	set, ctx := pgSet(t)
	admin := seedAdmin(t, set, ctx)
	mouse := seedProduct(t, set, ctx, admin.ID, nil, "RGB Mouse", 5)
	pad := seedProduct(t, set, ctx, admin.ID, nil, "Mouse Pad", 5)

	order := &model.Order{UserID: admin.ID, TotalAmount: decimal.RequireFromString("20.00"), Status: model.OrderStatusPending, PaymentMethod: "mock"}
	if err := set.Orders.Create(ctx, order); err != nil {
		t.Fatalf("create order: %v", err)
	}
	items := []model.OrderItem{
		{OrderID: order.ID, ProductID: pad.ID, Position: 0, Quantity: 1, Price: pad.Price},
		{OrderID: order.ID, ProductID: mouse.ID, Position: 1, Quantity: 1, Price: mouse.Price},
	}
	if err := set.Orders.CreateItems(ctx, items); err != nil {
		t.Fatalf("create items: %v", err)
	}

	all, err := set.Orders.ListSummaries(ctx, nil)
	if err != nil {
		t.Fatalf("ListSummaries: %v", err)
	}
	var found *repository.OrderSummary
	for i := range all {
		if all[i].ID == order.ID {
			found = &all[i]
		}
	}
	if found == nil || found.ItemCount != 2 || found.CustomerEmail != admin.Email {
		t.Fatalf("summary = %+v, want 2 items for %s", found, admin.Email)
	}

	own, err := set.Orders.ListSummaries(ctx, &admin.ID)
	if err != nil || len(own) != 1 || own[0].CustomerEmail != "" {
		t.Fatalf("own summaries = %+v, %v", own, err)
	}

	lines, err := set.Orders.ItemDetails(ctx, order.ID)
	if err != nil {
		t.Fatalf("ItemDetails: %v", err)
	}
	if len(lines) != 2 || lines[0].ProductID != pad.ID || lines[1].Name != "RGB Mouse" {
		t.Fatalf("lines = %+v, want pad then mouse", lines)
	}
}

// The duplicate insert aborts the surrounding transaction, so it has to come last.
func TestDuplicateCategoryIsUniqueViolation(t *testing.T) {
	set, ctx := pgSet(t)
	admin := seedAdmin(t, set, ctx)

	if err := set.Categories.Create(ctx, &model.Category{AdminID: admin.ID, Name: "Mouse"}); err != nil {
		t.Fatalf("create category: %v", err)
	}
	err := set.Categories.Create(ctx, &model.Category{AdminID: admin.ID, Name: "Mouse"})
	if !repository.IsUniqueViolation(err) {
		t.Fatalf("err = %v, want a unique violation", err)
	}
}
