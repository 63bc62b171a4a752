package service

import (
	"context"

	"gorm.io/gorm"
)

// runTx executes fn inside a database transaction. When db is nil (unit
// tests with in-memory repositories) fn runs directly with a nil tx; the
// *Tx repository methods of the stubs ignore it.
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}
