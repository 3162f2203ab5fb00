package service

import (
	"testing"

	"gamerx/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestCategoryRenameCollision(t *testing.T) {
	f := newFixture(t)
	admin := f.registerAdmin(t, "a@x.com")
	f.category(t, admin, "Mouse")
	keyboard := f.category(t, admin, "Keyboard")

	_, err := f.categories.Update(f.ctx, admin, keyboard.ID, CategoryRequest{Name: strPtr("Mouse")})
	wantKind(t, err, ErrConflict)

	owned, err := f.categories.ListOwned(f.ctx, admin)
	if err != nil {
		t.Fatalf("ListOwned: %v", err)
	}
	var names []string
	for _, c := range owned {
		names = append(names, c.Name)
	}
	if len(names) != 2 || names[0] != "Keyboard" || names[1] != "Mouse" {
		t.Fatalf("names = %v, want [Keyboard Mouse]", names)
	}
}

func TestCategoryNamesAreScopedPerAdmin(t *testing.T) {
	f := newFixture(t)
	a := f.registerAdmin(t, "a@x.com")
	b := f.registerAdmin(t, "b@x.com")
	f.category(t, a, "Mouse")
	f.category(t, b, "Mouse")
	f.category(t, b, "Headset")

	_, err := f.categories.Create(f.ctx, a, CategoryRequest{Name: strPtr("Mouse")})
	wantKind(t, err, ErrConflict)

	names, err := f.categories.ListNames(f.ctx)
	if err != nil {
		t.Fatalf("ListNames: %v", err)
	}
	if len(names) != 2 || names[0] != "Headset" || names[1] != "Mouse" {
		t.Fatalf("names = %v, want [Headset Mouse]", names)
	}
}

func TestCategoryOwnership(t *testing.T) {
	f := newFixture(t)
	a := f.registerAdmin(t, "a@x.com")
	b := f.registerAdmin(t, "b@x.com")
	mouse := f.category(t, a, "Mouse")

	_, err := f.categories.Update(f.ctx, b, mouse.ID, CategoryRequest{Name: strPtr("Mice")})
	wantKind(t, err, ErrForbidden)
	wantKind(t, f.categories.Delete(f.ctx, b, mouse.ID), ErrForbidden)

	_, err = f.products.Create(f.ctx, b, ProductRequest{
		Name: strPtr("Stolen"), Price: decPtr("5"), CategoryID: &mouse.ID,
	})
	wantKind(t, err, ErrForbidden)

	all, err := f.products.ListAll(f.ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("products = %d, want none", len(all))
	}
}

func TestDeleteCategoryUncategorizesProducts(t *testing.T) {
	f := newFixture(t)
	a := f.registerAdmin(t, "a@x.com")
	mouse := f.category(t, a, "Mouse")
	p := f.product(t, a, mouse.ID, "RGB Mouse", "10", 5)

	if err := f.categories.Delete(f.ctx, a, mouse.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	d, err := f.products.Details(f.ctx, p.ID)
	if err != nil {
		t.Fatalf("Details: %v", err)
	}
	if d.CategoryID != nil || d.CategoryName != "" {
		t.Fatalf("category = %v %q, want none", d.CategoryID, d.CategoryName)
	}
}

func TestProductValidation(t *testing.T) {
	f := newFixture(t)
	a := f.registerAdmin(t, "a@x.com")
	mouse := f.category(t, a, "Mouse")

	cases := []struct {
		name string
		req  ProductRequest
	}{
		{"missing name", ProductRequest{Price: decPtr("1"), CategoryID: &mouse.ID}},
		{"missing category", ProductRequest{Name: strPtr("x"), Price: decPtr("1")}},
		{"zero price", ProductRequest{Name: strPtr("x"), Price: decPtr("0"), CategoryID: &mouse.ID}},
		{"negative stock", ProductRequest{Name: strPtr("x"), Price: decPtr("1"), Stock: intPtr(-1), CategoryID: &mouse.ID}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.products.Create(f.ctx, a, tc.req)
			wantKind(t, err, ErrInvalidInput)
		})
	}
}

func TestProductLifecycle(t *testing.T) {
	f := newFixture(t)
	a := f.registerAdmin(t, "a@x.com")
	mouse := f.category(t, a, "Mouse")

	p, err := f.products.Create(f.ctx, a, ProductRequest{
		Name:       strPtr("RGB Mouse"),
		Price:      decPtr("10"),
		Stock:      intPtr(5),
		CategoryID: &mouse.ID,
		Images:     []string{"/img/front.png", "/img/side.png"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	all, err := f.products.ListAll(f.ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(all) != 1 || all[0].CategoryName != "Mouse" {
		t.Fatalf("listing = %+v, want one product in Mouse", all)
	}

	byName, err := f.products.ListByCategoryName(f.ctx, "mouse")
	if err != nil || len(byName) != 1 {
		t.Fatalf("ListByCategoryName = %d, %v", len(byName), err)
	}

	if _, err := f.products.SetStock(f.ctx, a, p.ID, StockRequest{Stock: intPtr(2)}); err != nil {
		t.Fatalf("SetStock: %v", err)
	}
	d, err := f.products.Details(f.ctx, p.ID)
	if err != nil {
		t.Fatalf("Details: %v", err)
	}
	if d.Stock != 2 {
		t.Fatalf("stock = %d, want 2", d.Stock)
	}
	if len(d.Images) != 2 || !d.Images[0].IsPrimary || d.Images[0].ImageURL != "/img/front.png" {
		t.Fatalf("images = %+v, want primary front first", d.Images)
	}
	if d.ImageURL != "/img/front.png" {
		t.Fatalf("image_url = %q, want the first gallery image", d.ImageURL)
	}

	movements, err := f.products.StockMovements(f.ctx, a, p.ID)
	if err != nil {
		t.Fatalf("StockMovements: %v", err)
	}
	if len(movements) != 1 || movements[0].Kind != model.StockMovementSet || movements[0].QuantityChanged != -3 {
		t.Fatalf("movements = %+v", movements)
	}

	_, err = f.products.SetStock(f.ctx, a, p.ID, StockRequest{Stock: intPtr(-1)})
	wantKind(t, err, ErrInvalidInput)

	updated, err := f.products.Update(f.ctx, a, p.ID, ProductRequest{Price: decPtr("12.50")})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !updated.Price.Equal(decimal.RequireFromString("12.50")) || updated.Name != "RGB Mouse" || updated.Stock != 2 {
		t.Fatalf("updated = %+v, want only the price changed", updated)
	}

	if err := f.products.Delete(f.ctx, a, p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	_, err = f.products.Details(f.ctx, p.ID)
	wantKind(t, err, ErrNotFound)
}

func TestProductEditsKeepSoldStock(t *testing.T) {
	f := newFixture(t)
	a := f.registerAdmin(t, "a@x.com")
	buyer := f.registerBuyer(t, "b@x.com")
	c := f.category(t, a, "Mouse")
	p := f.product(t, a, c.ID, "RGB Mouse", "10", 5)

	if _, err := f.orders.Purchase(f.ctx, buyer, PurchaseRequest{Items: cartOf(line(p.ID, 3))}); err != nil {
		t.Fatalf("Purchase: %v", err)
	}
	updated, err := f.products.Update(f.ctx, a, p.ID, ProductRequest{Name: strPtr("RGB Mouse Pro")})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Stock != 2 {
		t.Fatalf("updated stock = %d, want 2", updated.Stock)
	}
	if _, err := f.products.SetFeatured(f.ctx, a, p.ID, FeatureRequest{IsFeatured: boolPtr(true)}); err != nil {
		t.Fatalf("SetFeatured: %v", err)
	}

	if stock, _ := f.store.Stock(p.ID); stock != 2 {
		t.Fatalf("stock = %d, want the 3 sold units to stay sold", stock)
	}
}

func TestProductOwnership(t *testing.T) {
	f := newFixture(t)
	a := f.registerAdmin(t, "a@x.com")
	b := f.registerAdmin(t, "b@x.com")
	mouse := f.category(t, a, "Mouse")
	theirs := f.category(t, b, "Pads")
	p := f.product(t, a, mouse.ID, "RGB Mouse", "10", 5)

	_, err := f.products.Update(f.ctx, b, p.ID, ProductRequest{Name: strPtr("Hijacked")})
	wantKind(t, err, ErrForbidden)
	_, err = f.products.SetStock(f.ctx, b, p.ID, StockRequest{Stock: intPtr(0)})
	wantKind(t, err, ErrForbidden)
	wantKind(t, f.products.Delete(f.ctx, b, p.ID), ErrForbidden)

	_, err = f.products.Update(f.ctx, a, p.ID, ProductRequest{CategoryID: &theirs.ID})
	wantKind(t, err, ErrForbidden)

	_, err = f.products.GetOwned(f.ctx, b, p.ID)
	wantKind(t, err, ErrNotFound)

	if stock, _ := f.store.Stock(p.ID); stock != 5 {
		t.Fatalf("stock = %d, want 5", stock)
	}
}

func TestFeaturedFilters(t *testing.T) {
	f := newFixture(t)
	a := f.registerAdmin(t, "a@x.com")
	b := f.registerAdmin(t, "b@x.com")
	ca := f.category(t, a, "Mouse")
	cb := f.category(t, b, "Mouse")

	cheap := f.product(t, a, ca.ID, "Cheap", "5", 10)
	pricey := f.product(t, a, ca.ID, "Pricey", "50", 1)
	other := f.product(t, b, cb.ID, "Other", "20", 3)
	f.product(t, a, ca.ID, "Plain", "7", 7)
	for _, p := range []uuid.UUID{cheap.ID, pricey.ID, other.ID} {
		owner := a
		if p == other.ID {
			owner = b
		}
		if _, err := f.products.SetFeatured(f.ctx, owner, p, FeatureRequest{IsFeatured: boolPtr(true)}); err != nil {
			t.Fatalf("SetFeatured: %v", err)
		}
	}

	cases := []struct {
		name string
		q    FeaturedQuery
		want int
	}{
		{"all featured", FeaturedQuery{}, 3},
		{"by admin", FeaturedQuery{AdminID: a.String()}, 2},
		{"price range", FeaturedQuery{MinPrice: "10", MaxPrice: "30"}, 1},
		{"min stock", FeaturedQuery{MinStock: "3"}, 2},
		{"max stock", FeaturedQuery{MaxStock: "1"}, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := f.products.ListFeatured(f.ctx, tc.q)
			if err != nil {
				t.Fatalf("ListFeatured: %v", err)
			}
			if len(got) != tc.want {
				t.Fatalf("got %d products, want %d", len(got), tc.want)
			}
		})
	}

	_, err := f.products.ListFeatured(f.ctx, FeaturedQuery{MinPrice: "cheap"})
	wantKind(t, err, ErrInvalidInput)
	_, err = f.products.ListFeatured(f.ctx, FeaturedQuery{AdminID: "nope"})
	wantKind(t, err, ErrInvalidInput)
}

func TestCatalogMutationsAreAudited(t *testing.T) {
	f := newFixture(t)
	a := f.registerAdmin(t, "a@x.com")
	mouse := f.category(t, a, "Mouse")
	f.product(t, a, mouse.ID, "RGB Mouse", "10", 5)

	logs, total, err := f.audit.GetAuditLogs(f.ctx, a, 1, 20)
	if err != nil {
		t.Fatalf("GetAuditLogs: %v", err)
	}
	if total != 2 || len(logs) != 2 {
		t.Fatalf("total=%d len=%d, want 2", total, len(logs))
	}
	if logs[0].Action != model.ActionCreateProduct || logs[1].Action != model.ActionCreateCategory {
		t.Fatalf("actions = %s, %s", logs[0].Action, logs[1].Action)
	}
	if logs[0].Username != "a@x.com" {
		t.Fatalf("username = %q", logs[0].Username)
	}

	page, total, err := f.audit.GetAuditLogs(f.ctx, a, 2, 1)
	if err != nil || total != 2 || len(page) != 1 || page[0].Action != model.ActionCreateCategory {
		t.Fatalf("second page = %+v, total %d, err %v", page, total, err)
	}
}

func TestFailedCategoryWriteLeavesNoAudit(t *testing.T) {
	f := newFixture(t)
	a := f.registerAdmin(t, "a@x.com")
	f.store.FailNext = func(op string) error {
		if op == "audit_logs.create" {
			return errInjected
		}
		return nil
	}

	if _, err := f.categories.Create(f.ctx, a, CategoryRequest{Name: strPtr("Mouse")}); err == nil {
		t.Fatal("Create succeeded despite audit failure")
	}
	f.store.FailNext = nil

	owned, err := f.categories.ListOwned(f.ctx, a)
	if err != nil || len(owned) != 0 {
		t.Fatalf("owned = %+v, err %v; want the category rolled back", owned, err)
	}
}
