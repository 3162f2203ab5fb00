package service

import (
	"testing"

	"gamerx/internal/cart"
	"gamerx/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type shop struct {
	*fixture
	admin, buyer uuid.UUID
	mouse, pad   *model.Product
}

func newShop(t *testing.T) *shop {
	t.Helper()
	f := newFixture(t)
	s := &shop{fixture: f}
	s.admin = f.registerAdmin(t, "a@x.com")
	s.buyer = f.registerBuyer(t, "b@x.com")
	c := f.category(t, s.admin, "Mouse")
	s.mouse = f.product(t, s.admin, c.ID, "RGB Mouse", "10", 5)
	s.pad = f.product(t, s.admin, c.ID, "Mouse Pad", "2.50", 3)
	return s
}

func TestCreateOrderPricesFromStoredProducts(t *testing.T) {
	s := newShop(t)
	bogus := cart.Line{ID: s.mouse.ID, Price: decimal.RequireFromString("0.01"), Quantity: 2}

	res, err := s.orders.Create(s.ctx, s.buyer, CreateOrderRequest{
		CartItems:   cartOf(bogus, line(s.pad.ID, 1)),
		TotalAmount: decPtr("0.02"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !res.TotalAmount.Equal(decimal.RequireFromString("22.50")) {
		t.Fatalf("total = %s, want 22.50", res.TotalAmount)
	}
	if len(res.ConfirmationToken) != 64 {
		t.Fatalf("confirmation token length = %d, want 64", len(res.ConfirmationToken))
	}
	if res.Status != model.OrderStatusPending || s.store.PaymentStatus(res.OrderID) != model.PaymentStatusPending {
		t.Fatalf("status = %s / %s, want pending", res.Status, s.store.PaymentStatus(res.OrderID))
	}

	if stock, _ := s.store.Stock(s.mouse.ID); stock != 5 {
		t.Fatalf("stock = %d, creating an order must not take stock", stock)
	}

	details, err := s.orders.Get(s.ctx, s.buyer, res.OrderID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if details.PaymentMethod != "mock" || len(details.Items) != 2 || details.Payment == nil {
		t.Fatalf("details = %+v", details)
	}
}

func TestCreateOrderMergesDuplicateLines(t *testing.T) {
	s := newShop(t)

	res, err := s.orders.Create(s.ctx, s.buyer, CreateOrderRequest{
		CartItems: cartOf(line(s.mouse.ID, 2), line(s.mouse.ID, 2)),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	details, err := s.orders.Get(s.ctx, s.buyer, res.OrderID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(details.Items) != 1 || details.Items[0].Quantity != 4 {
		t.Fatalf("items = %+v, want one line of 4", details.Items)
	}

	_, err = s.orders.Create(s.ctx, s.buyer, CreateOrderRequest{
		CartItems: cartOf(line(s.mouse.ID, 3), line(s.mouse.ID, 3)),
	})
	wantKind(t, err, ErrInvalidInput)
}

func TestCreateOrderRejections(t *testing.T) {
	s := newShop(t)

	cases := []struct {
		name string
		cart cart.Cart
		kind error
	}{
		{"empty cart", cart.Cart{}, ErrInvalidInput},
		{"zero quantity", cartOf(line(s.mouse.ID, 0)), ErrInvalidInput},
		{"negative line offset by a duplicate", cartOf(line(s.mouse.ID, -5), line(s.mouse.ID, 6)), ErrInvalidInput},
		{"unknown product", cartOf(line(uuid.New(), 1)), ErrNotFound},
		{"beyond stock", cartOf(line(s.pad.ID, 4)), ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.orders.Create(s.ctx, s.buyer, CreateOrderRequest{CartItems: tc.cart})
			wantKind(t, err, tc.kind)
		})
	}

	if orders, items, payments := s.store.Counts(); orders+items+payments != 0 {
		t.Fatalf("counts = %d/%d/%d, want nothing stored", orders, items, payments)
	}
}

func TestCreateOrderIsAtomic(t *testing.T) {
	s := newShop(t)
	s.store.FailNext = func(op string) error {
		if op == "payments.create" {
			return errInjected
		}
		return nil
	}

	_, err := s.orders.Create(s.ctx, s.buyer, CreateOrderRequest{CartItems: cartOf(line(s.mouse.ID, 1))})
	if err == nil {
		t.Fatal("Create succeeded despite payment failure")
	}
	if orders, items, payments := s.store.Counts(); orders+items+payments != 0 {
		t.Fatalf("counts = %d/%d/%d, want a full rollback", orders, items, payments)
	}
}

func TestConfirmPayment(t *testing.T) {
	s := newShop(t)
	res, err := s.orders.Create(s.ctx, s.buyer, CreateOrderRequest{CartItems: cartOf(line(s.mouse.ID, 2))})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = s.orders.ConfirmPayment(s.ctx, s.buyer, res.OrderID, ConfirmPaymentRequest{ConfirmationToken: "wrong"})
	wantKind(t, err, ErrInvalidInput)
	if s.store.OrderStatus(res.OrderID) != model.OrderStatusPending {
		t.Fatal("order left pending state after a bad token")
	}

	other := s.registerBuyer(t, "c@x.com")
	_, err = s.orders.ConfirmPayment(s.ctx, other, res.OrderID, ConfirmPaymentRequest{ConfirmationToken: res.ConfirmationToken})
	wantKind(t, err, ErrNotFound)

	confirmed, err := s.orders.ConfirmPayment(s.ctx, s.buyer, res.OrderID, ConfirmPaymentRequest{ConfirmationToken: res.ConfirmationToken})
	if err != nil {
		t.Fatalf("ConfirmPayment: %v", err)
	}
	if confirmed.OrderStatus != model.OrderStatusConfirmed || confirmed.PaymentStatus != model.PaymentStatusSuccess {
		t.Fatalf("confirmed = %+v", confirmed)
	}
	if s.store.OrderStatus(res.OrderID) != model.OrderStatusConfirmed || s.store.PaymentStatus(res.OrderID) != model.PaymentStatusSuccess {
		t.Fatal("stored statuses were not updated")
	}
	if stock, _ := s.store.Stock(s.mouse.ID); stock != 3 {
		t.Fatalf("stock = %d, want 3", stock)
	}

	_, err = s.orders.ConfirmPayment(s.ctx, s.buyer, res.OrderID, ConfirmPaymentRequest{ConfirmationToken: res.ConfirmationToken})
	wantKind(t, err, ErrInvalidInput)
	if stock, _ := s.store.Stock(s.mouse.ID); stock != 3 {
		t.Fatalf("stock = %d after a repeated confirmation, want 3", stock)
	}
}

func TestConfirmPaymentShortfallRollsBack(t *testing.T) {
	s := newShop(t)
	res, err := s.orders.Create(s.ctx, s.buyer, CreateOrderRequest{
		CartItems: cartOf(line(s.mouse.ID, 1), line(s.pad.ID, 3)),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := s.products.SetStock(s.ctx, s.admin, s.pad.ID, StockRequest{Stock: intPtr(1)}); err != nil {
		t.Fatalf("SetStock: %v", err)
	}

	_, err = s.orders.ConfirmPayment(s.ctx, s.buyer, res.OrderID, ConfirmPaymentRequest{ConfirmationToken: res.ConfirmationToken})
	wantKind(t, err, ErrInvalidInput)

	if stock, _ := s.store.Stock(s.mouse.ID); stock != 5 {
		t.Fatalf("mouse stock = %d, want the earlier line rolled back to 5", stock)
	}
	if s.store.PaymentStatus(res.OrderID) != model.PaymentStatusPending {
		t.Fatal("payment left pending state after a shortfall")
	}
}

func TestPurchaseNeverOversells(t *testing.T) {
	s := newShop(t)

	_, err := s.orders.Purchase(s.ctx, s.buyer, PurchaseRequest{Items: cartOf(line(s.pad.ID, 5))})
	wantKind(t, err, ErrInvalidInput)
	if stock, _ := s.store.Stock(s.pad.ID); stock != 3 {
		t.Fatalf("stock = %d, want 3", stock)
	}

	res, err := s.orders.Purchase(s.ctx, s.buyer, PurchaseRequest{Items: cartOf(line(s.pad.ID, 3))})
	if err != nil {
		t.Fatalf("Purchase: %v", err)
	}
	if res.Status != model.OrderStatusConfirmed || s.store.PaymentStatus(res.OrderID) != model.PaymentStatusSuccess {
		t.Fatalf("purchase = %+v", res)
	}
	if stock, _ := s.store.Stock(s.pad.ID); stock != 0 {
		t.Fatalf("stock = %d, want 0", stock)
	}

	movements, err := s.products.StockMovements(s.ctx, s.admin, s.pad.ID)
	if err != nil {
		t.Fatalf("StockMovements: %v", err)
	}
	if len(movements) != 1 || movements[0].Kind != model.StockMovementOut || movements[0].StockAfter != 0 {
		t.Fatalf("movements = %+v", movements)
	}
}

func TestPurchaseStockFailureRollsBackEverything(t *testing.T) {
	s := newShop(t)
	s.store.FailNext = func(op string) error {
		if op == "orders.confirm" {
			return errInjected
		}
		return nil
	}

	_, err := s.orders.Purchase(s.ctx, s.buyer, PurchaseRequest{Items: cartOf(line(s.mouse.ID, 2))})
	if err == nil {
		t.Fatal("Purchase succeeded despite failure")
	}
	if stock, _ := s.store.Stock(s.mouse.ID); stock != 5 {
		t.Fatalf("stock = %d, want 5", stock)
	}
	if orders, items, payments := s.store.Counts(); orders+items+payments != 0 {
		t.Fatalf("counts = %d/%d/%d, want a full rollback", orders, items, payments)
	}
}

func TestOrderReads(t *testing.T) {
	s := newShop(t)
	first, err := s.orders.Purchase(s.ctx, s.buyer, PurchaseRequest{Items: cartOf(line(s.mouse.ID, 1))})
	if err != nil {
		t.Fatalf("Purchase: %v", err)
	}
	second, err := s.orders.Create(s.ctx, s.buyer, CreateOrderRequest{CartItems: cartOf(line(s.pad.ID, 1), line(s.mouse.ID, 1))})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	own, err := s.orders.Get(s.ctx, s.buyer, second.OrderID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(own.Items) != 2 || own.Items[0].ProductID != s.pad.ID || own.Items[1].ProductID != s.mouse.ID {
		t.Fatalf("items not in cart order: %+v", own.Items)
	}

	history, err := s.orders.History(s.ctx, s.buyer)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 2 || history[0].ID != second.OrderID || history[0].ItemCount != 2 || history[1].ID != first.OrderID {
		t.Fatalf("history = %+v", history)
	}
	if history[0].CustomerEmail != "" {
		t.Fatal("own history should not carry customer fields")
	}

	stranger := s.registerBuyer(t, "c@x.com")
	_, err = s.orders.Get(s.ctx, stranger, first.OrderID)
	wantKind(t, err, ErrNotFound)

	all, err := s.orders.AdminList(s.ctx)
	if err != nil || len(all) != 2 || all[0].CustomerEmail != "b@x.com" {
		t.Fatalf("AdminList = %+v, %v", all, err)
	}

	details, err := s.orders.AdminGet(s.ctx, first.OrderID)
	if err != nil {
		t.Fatalf("AdminGet: %v", err)
	}
	if details.Customer == nil || details.Customer.Email != "b@x.com" {
		t.Fatalf("customer = %+v", details.Customer)
	}
	if len(details.Items) != 1 || details.Items[0].Name != "RGB Mouse" {
		t.Fatalf("items = %+v", details.Items)
	}
}
