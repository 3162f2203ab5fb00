package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gamerx/internal/cart"
	"gamerx/internal/model"
	"gamerx/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const defaultPaymentMethod = "mock"

// CreateOrderRequest is the checkout payload. Prices and totalAmount sent by the client are
// accepted for compatibility but never used: the order is priced from stored products.
type CreateOrderRequest struct {
	CartItems     cart.Cart        `json:"cartItems" swaggertype:"array,object"`
	TotalAmount   *decimal.Decimal `json:"totalAmount,omitempty" swaggertype:"number"`
	PaymentMethod string           `json:"paymentMethod"`
}

type CreateOrderResponse struct {
	OrderID           uuid.UUID       `json:"orderId"`
	PaymentID         uuid.UUID       `json:"paymentId"`
	ConfirmationToken string          `json:"confirmationToken"`
	TotalAmount       decimal.Decimal `json:"totalAmount"`
	Status            string          `json:"status"`
}

type ConfirmPaymentRequest struct {
	ConfirmationToken string `json:"confirmationToken"`
}

type ConfirmPaymentResponse struct {
	OrderID       uuid.UUID `json:"orderId"`
	PaymentID     uuid.UUID `json:"paymentId"`
	OrderStatus   string    `json:"orderStatus"`
	PaymentStatus string    `json:"paymentStatus"`
}

// PurchaseRequest is the "buy now" payload; it is priced and settled in one step
type PurchaseRequest struct {
	Items         cart.Cart        `json:"items" swaggertype:"array,object"`
	TotalAmount   *decimal.Decimal `json:"totalAmount,omitempty" swaggertype:"number"`
	PaymentMethod string           `json:"paymentMethod"`
}

type PurchaseResponse struct {
	OrderID     uuid.UUID       `json:"orderId"`
	PaymentID   uuid.UUID       `json:"paymentId"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Status      string          `json:"status"`
}

type CustomerResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

// OrderDetails is an order with its enriched lines and payment
type OrderDetails struct {
	ID            uuid.UUID                    `json:"id"`
	UserID        uuid.UUID                    `json:"user_id"`
	TotalAmount   decimal.Decimal              `json:"total_amount"`
	Status        string                       `json:"status"`
	PaymentMethod string                       `json:"payment_method"`
	CreatedAt     time.Time                    `json:"created_at"`
	UpdatedAt     time.Time                    `json:"updated_at"`
	Items         []repository.OrderItemDetail `json:"items"`
	Payment       *model.Payment               `json:"payment"`
	Customer      *CustomerResponse            `json:"customer,omitempty"`
}

type OrderService interface {
	Create(ctx context.Context, userID uuid.UUID, req CreateOrderRequest) (*CreateOrderResponse, error)
	ConfirmPayment(ctx context.Context, userID, orderID uuid.UUID, req ConfirmPaymentRequest) (*ConfirmPaymentResponse, error)
	Purchase(ctx context.Context, userID uuid.UUID, req PurchaseRequest) (*PurchaseResponse, error)
	History(ctx context.Context, userID uuid.UUID) ([]repository.OrderSummary, error)
	Get(ctx context.Context, userID, orderID uuid.UUID) (*OrderDetails, error)
	AdminList(ctx context.Context) ([]repository.OrderSummary, error)
	AdminGet(ctx context.Context, orderID uuid.UUID) (*OrderDetails, error)
}

type orderService struct {
	orderRepo    repository.OrderRepository
	paymentRepo  repository.PaymentRepository
	productRepo  repository.ProductRepository
	movementRepo repository.StockMovementRepository
	userRepo     repository.UserRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
}

func NewOrderService(repos repository.Set) OrderService {
	return &orderService{
		orderRepo:    repos.Orders,
		paymentRepo:  repos.Payments,
		productRepo:  repos.Products,
		movementRepo: repos.StockMovements,
		userRepo:     repos.Users,
		auditRepo:    repos.Audit,
		txManager:    repos.Tx,
	}
}

// placed is the state produced by placeOrder and consumed by settle
type placed struct {
	order   *model.Order
	items   []model.OrderItem
	payment *model.Payment
	names   map[uuid.UUID]string
}

// placeOrder prices the cart from stored products and writes a pending order, its lines
// and a pending payment. It must run inside a transaction.
func (s *orderService) placeOrder(ctx context.Context, userID uuid.UUID, c cart.Cart, method string) (*placed, error) {
	quantities, err := c.Quantities()
	if err != nil {
		return nil, invalid("Quantity must be at least 1")
	}
	if len(quantities) == 0 {
		return nil, invalid("Cart is empty")
	}

	ids := make([]uuid.UUID, 0, len(quantities))
	for _, q := range quantities {
		if q.ProductID == uuid.Nil {
			return nil, invalid("Every cart item needs a product id")
		}
		ids = append(ids, q.ProductID)
	}

	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	byID := make(map[uuid.UUID]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	p := &placed{names: make(map[uuid.UUID]string, len(quantities))}
	total := decimal.Zero
	for _, q := range quantities {
		product, ok := byID[q.ProductID]
		if !ok {
			return nil, notFound(fmt.Sprintf("Product %s not found", q.ProductID))
		}
		if q.Quantity > product.Stock {
			return nil, invalid("Insufficient stock for product %s. Available: %d, Requested: %d", product.Name, product.Stock, q.Quantity)
		}
		p.names[product.ID] = product.Name
		p.items = append(p.items, model.OrderItem{ProductID: product.ID, Position: len(p.items), Quantity: q.Quantity, Price: product.Price})
		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(q.Quantity))))
	}

	method = strings.TrimSpace(method)
	if method == "" {
		method = defaultPaymentMethod
	}

	p.order = &model.Order{
		UserID:        userID,
		TotalAmount:   total,
		Status:        model.OrderStatusPending,
		PaymentMethod: method,
	}
	if err := s.orderRepo.Create(ctx, p.order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	for i := range p.items {
		p.items[i].OrderID = p.order.ID
	}
	if err := s.orderRepo.CreateItems(ctx, p.items); err != nil {
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}

	confirmation, err := randomHex(32)
	if err != nil {
		return nil, err
	}
	p.payment = &model.Payment{
		OrderID:           p.order.ID,
		UserID:            userID,
		Amount:            total,
		Status:            model.PaymentStatusPending,
		PaymentMethod:     method,
		ConfirmationToken: confirmation,
	}
	if err := s.paymentRepo.Create(ctx, p.payment); err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}
	return p, nil
}

// settle takes stock for every line, then flips payment and order to their final states.
// Any shortfall aborts the surrounding transaction. It must run inside a transaction.
func (s *orderService) settle(ctx context.Context, userID uuid.UUID, p *placed, action string) error {
	for _, item := range p.items {
		remaining, ok, err := s.productRepo.DecrementStock(ctx, item.ProductID, item.Quantity)
		if err != nil {
			return fmt.Errorf("failed to decrement stock: %w", err)
		}
		if !ok {
			name := p.names[item.ProductID]
			if name == "" {
				name = item.ProductID.String()
			}
			return invalid("Insufficient stock for product %s", name)
		}

		orderID := p.order.ID
		movement := &model.StockMovement{
			ProductID:       item.ProductID,
			OrderID:         &orderID,
			Kind:            model.StockMovementOut,
			QuantityChanged: -item.Quantity,
			StockAfter:      remaining,
		}
		if err := s.movementRepo.Create(ctx, movement); err != nil {
			return fmt.Errorf("failed to record stock movement: %w", err)
		}
	}

	changed, err := s.paymentRepo.MarkSucceeded(ctx, p.payment.ID)
	if err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}
	if !changed {
		return invalid("Payment already confirmed")
	}
	changed, err = s.orderRepo.MarkConfirmed(ctx, p.order.ID)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	if !changed {
		return invalid("Order is no longer pending")
	}
	p.payment.Status = model.PaymentStatusSuccess
	p.order.Status = model.OrderStatusConfirmed

	details := map[string]interface{}{
		"payment_id":   p.payment.ID,
		"total_amount": p.order.TotalAmount,
		"items":        len(p.items),
	}
	return writeAudit(ctx, s.auditRepo, userID, action, p.order.ID.String(), "order", details)
}

func (s *orderService) Create(ctx context.Context, userID uuid.UUID, req CreateOrderRequest) (*CreateOrderResponse, error) {
	var p *placed
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		p, err = s.placeOrder(txCtx, userID, req.CartItems, req.PaymentMethod)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &CreateOrderResponse{
		OrderID:           p.order.ID,
		PaymentID:         p.payment.ID,
		ConfirmationToken: p.payment.ConfirmationToken,
		TotalAmount:       p.order.TotalAmount,
		Status:            p.order.Status,
	}, nil
}

func (s *orderService) ConfirmPayment(ctx context.Context, userID, orderID uuid.UUID, req ConfirmPaymentRequest) (*ConfirmPaymentResponse, error) {
	if req.ConfirmationToken == "" {
		return nil, invalid("Confirmation token is required")
	}

	var p *placed
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		payment, err := s.paymentRepo.FindByOrderForUpdate(txCtx, orderID, userID)
		if err != nil {
			return lookup(err, "Payment")
		}
		if payment.Status == model.PaymentStatusSuccess {
			return invalid("Payment already confirmed")
		}
		if !secureEqual(req.ConfirmationToken, payment.ConfirmationToken) {
			return invalid("Invalid confirmation token")
		}

		order, err := s.orderRepo.FindByID(txCtx, orderID)
		if err != nil {
			return lookup(err, "Order")
		}
		items, err := s.orderRepo.Items(txCtx, orderID)
		if err != nil {
			return fmt.Errorf("failed to load order items: %w", err)
		}

		p = &placed{order: order, items: items, payment: payment, names: map[uuid.UUID]string{}}
		ids := make([]uuid.UUID, 0, len(items))
		for _, it := range items {
			ids = append(ids, it.ProductID)
		}
		products, err := s.productRepo.FindByIDs(txCtx, ids)
		if err != nil {
			return fmt.Errorf("failed to load products: %w", err)
		}
		for _, prod := range products {
			p.names[prod.ID] = prod.Name
		}

		return s.settle(txCtx, userID, p, model.ActionConfirmPayment)
	})
	if err != nil {
		return nil, err
	}

	return &ConfirmPaymentResponse{
		OrderID:       p.order.ID,
		PaymentID:     p.payment.ID,
		OrderStatus:   p.order.Status,
		PaymentStatus: p.payment.Status,
	}, nil
}

func (s *orderService) Purchase(ctx context.Context, userID uuid.UUID, req PurchaseRequest) (*PurchaseResponse, error) {
	var p *placed
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		if p, err = s.placeOrder(txCtx, userID, req.Items, req.PaymentMethod); err != nil {
			return err
		}
		return s.settle(txCtx, userID, p, model.ActionProcessPurchase)
	})
	if err != nil {
		return nil, err
	}

	return &PurchaseResponse{
		OrderID:     p.order.ID,
		PaymentID:   p.payment.ID,
		TotalAmount: p.order.TotalAmount,
		Status:      p.order.Status,
	}, nil
}

func (s *orderService) History(ctx context.Context, userID uuid.UUID) ([]repository.OrderSummary, error) {
	orders, err := s.orderRepo.ListSummaries(ctx, &userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (s *orderService) AdminList(ctx context.Context) ([]repository.OrderSummary, error) {
	orders, err := s.orderRepo.ListSummaries(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (s *orderService) details(ctx context.Context, order *model.Order) (*OrderDetails, error) {
	items, err := s.orderRepo.ItemDetails(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}

	res := &OrderDetails{
		ID:            order.ID,
		UserID:        order.UserID,
		TotalAmount:   order.TotalAmount,
		Status:        order.Status,
		PaymentMethod: order.PaymentMethod,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
		Items:         items,
	}

	payment, err := s.paymentRepo.FindByOrder(ctx, order.ID)
	switch {
	case err == nil:
		res.Payment = payment
	case !repository.IsNotFound(err):
		return nil, fmt.Errorf("failed to load payment: %w", err)
	}
	return res, nil
}

func (s *orderService) Get(ctx context.Context, userID, orderID uuid.UUID) (*OrderDetails, error) {
	order, err := s.orderRepo.FindForUser(ctx, orderID, userID)
	if err != nil {
		return nil, lookup(err, "Order")
	}
	return s.details(ctx, order)
}

func (s *orderService) AdminGet(ctx context.Context, orderID uuid.UUID) (*OrderDetails, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, lookup(err, "Order")
	}
	res, err := s.details(ctx, order)
	if err != nil {
		return nil, err
	}

	customer, err := s.userRepo.GetByID(ctx, order.UserID)
	switch {
	case err == nil:
		res.Customer = &CustomerResponse{ID: customer.ID, Username: customer.Username, Email: customer.Email}
	case !repository.IsNotFound(err):
		return nil, fmt.Errorf("failed to load customer: %w", err)
	}
	return res, nil
}
