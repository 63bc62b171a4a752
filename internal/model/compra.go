package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Compra is a completed purchase. It is created only by the checkout
// transaction, always together with at least one DetalleCompra and exactly
// one Ticket, and is never mutated afterwards.
type Compra struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UsuarioID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Total     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt time.Time

	Usuario  *Usuario        `gorm:"foreignKey:UsuarioID"`
	Detalles []DetalleCompra `gorm:"foreignKey:CompraID"`
	Ticket   *Ticket         `gorm:"foreignKey:CompraID"`
}

// DetalleCompra is one product/quantity line within a Compra. PrecioUnitario
// snapshots the price paid so later price edits cannot distort history.
type DetalleCompra struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompraID       uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;index;not null"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

// Ticket is the receipt record generated 1:1 with a Compra.
// NumeroVenta: "V-<compra id>-<last 6 digits of a nanosecond timestamp>".
type Ticket struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompraID    uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null"`
	UsuarioID   uuid.UUID       `gorm:"type:uuid;index;not null"`
	TotalPagar  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	NumeroVenta string          `gorm:"uniqueIndex;not null"`
	CreatedAt   time.Time
}
