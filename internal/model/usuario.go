package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Usuario stores storefront accounts. Admin is a strict boolean at the
// domain boundary; the store adapter owns whatever the column encodes.
type Usuario struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	Email        *string
	// Saldo is mutated only by the ledger operations (top-up and checkout
	// debit). Non-negative, capped at 999_999_999_999.
	Saldo     decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	Admin     bool            `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
