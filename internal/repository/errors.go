package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// PostgreSQL SQLSTATE for unique_violation
const uniqueViolationCode = "23505"

// ErrNotFound is returned by every lookup that matches no row.
var ErrNotFound = gorm.ErrRecordNotFound

// IsUniqueViolation reports whether err was caused by a unique index or constraint.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolationCode
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// UniqueViolation builds the error the database reports for a duplicate key. The memory
// store uses it so callers see the same error shape as with PostgreSQL.
func UniqueViolation(constraint string) error {
	return &pgconn.PgError{
		Severity:       "ERROR",
		Code:           uniqueViolationCode,
		Message:        "duplicate key value violates unique constraint \"" + constraint + "\"",
		ConstraintName: constraint,
	}
}

// IsNotFound reports whether err means the requested row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
