package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto is a catalog item. Nombre is unique because checkout resolves
// cart lines by exact name when no id is supplied.
// Invariant: Activo must be false whenever Stock <= 0.
type Producto struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre      string    `gorm:"uniqueIndex;not null"`
	Descripcion *string
	Tipo        string          `gorm:"not null"`
	Precio      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Stock       int             `gorm:"not null;default:0"`
	// Img is an external image URL; images are not stored locally.
	Img *string
	// Temporada groups products for seasonal display; nil lands in "General".
	Temporada *string
	Activo    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
