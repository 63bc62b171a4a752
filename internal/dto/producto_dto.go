package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// GuardarProductoRequest covers both create and update. Activo is a request,
// not a guarantee: products with stock 0 are deactivated regardless.
type GuardarProductoRequest struct {
	Nombre      string          `json:"nombre"      validate:"required,min=3"`
	Descripcion *string         `json:"descripcion"`
	Tipo        string          `json:"tipo"        validate:"required"`
	Precio      decimal.Decimal `json:"precio"`
	Stock       int             `json:"stock"       validate:"min=0"`
	Img         *string         `json:"img"`
	Temporada   *string         `json:"temporada"`
	Activo      bool            `json:"activo"`
}

type ValidateImageURLRequest struct {
	ImageURL string `json:"imageUrl" validate:"required"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID          string          `json:"id"`
	Nombre      string          `json:"nombre"`
	Descripcion *string         `json:"descripcion"`
	Tipo        string          `json:"tipo"`
	Precio      decimal.Decimal `json:"precio"`
	Stock       int             `json:"stock"`
	Img         *string         `json:"img"`
	Temporada   *string         `json:"temporada"`
	Activo      bool            `json:"activo"`
}

// TemporadaGroup is one season bucket of the grouped catalog. The endpoint
// returns an ordered array (non-"General" seasons first, "General" last)
// because a JSON object cannot carry group order.
type TemporadaGroup struct {
	Temporada string             `json:"temporada"`
	Productos []ProductoResponse `json:"productos"`
}

type ToggleActivoResponse struct {
	ID     string `json:"id"`
	Activo bool   `json:"activo"`
}

type ValidateImageURLResponse struct {
	Mensaje  string `json:"mensaje"`
	ImageURL string `json:"imageUrl"`
	Valid    bool   `json:"valid"`
	Warning  bool   `json:"warning,omitempty"`
}

type ExampleImage struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

type ExampleImagesResponse struct {
	Mensaje      string         `json:"mensaje"`
	Examples     []ExampleImage `json:"examples"`
	Instructions []string       `json:"instructions"`
}
