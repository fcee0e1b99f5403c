// Package store provides typed CRUD access to the investor, account,
// stock, and portfolio position tables. Each store can be rebound to a
// transaction with WithTx so that every operation is callable inside a
// single transaction scope. The stores hold no business logic.
package store

import (
	"errors"
	"strings"

	apperrors "investrack/internal/errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lockForUpdate applies SELECT ... FOR UPDATE row locking on dialects
// that support it. SQLite, used by the tests, serializes writers on its
// own and rejects the clause.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// translate maps a raw gorm/driver error to a typed store error.
// Absence maps to the entity's not-found sentinel, duplicate unique
// keys to ErrConstraintViolation, and anything else to
// ErrStoreUnavailable.
func translate(err error, notFound *apperrors.AppError) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound
	case isDuplicateKey(err):
		return apperrors.Wrap(apperrors.ErrConstraintViolation, err)
	default:
		return apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
	}
}

// isDuplicateKey reports whether err is a unique-constraint violation.
// GORM translates these to ErrDuplicatedKey on postgres; the sqlite
// driver surfaces the raw constraint message.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
