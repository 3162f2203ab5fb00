package repository

import "gorm.io/gorm"

// Set bundles every repository plus the transaction manager they share.
type Set struct {
	Tx             TransactionManager
	Users          UserRepository
	Categories     CategoryRepository
	Products       ProductRepository
	StockMovements StockMovementRepository
	Orders         OrderRepository
	Payments       PaymentRepository
	Reviews        ReviewRepository
	Audit          AuditRepository
}

// NewSet wires the PostgreSQL-backed repositories around one connection pool.
func NewSet(db *gorm.DB) Set {
	return Set{
		Tx:             NewTransactionManager(db),
		Users:          NewUserRepository(db),
		Categories:     NewCategoryRepository(db),
		Products:       NewProductRepository(db),
		StockMovements: NewStockMovementRepository(db),
		Orders:         NewOrderRepository(db),
		Payments:       NewPaymentRepository(db),
		Reviews:        NewReviewRepository(db),
		Audit:          NewAuditRepository(db),
	}
}
