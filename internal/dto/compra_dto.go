package dto

import "github.com/shopspring/decimal"

// ─── Cart (session-scoped) ───────────────────────────────────────────────────

// CarritoItem is one line of the session cart.
type CarritoItem struct {
	ID       string          `json:"id"`
	Nombre   string          `json:"nombre"`
	Precio   decimal.Decimal `json:"precio"`
	Cantidad int             `json:"cantidad"`
}

type AgregarCarritoRequest struct {
	ID       string          `json:"id"       validate:"required"`
	Nombre   string          `json:"nombre"   validate:"required"`
	Precio   decimal.Decimal `json:"precio"`
	Cantidad int             `json:"cantidad" validate:"required,min=1"`
}

type CarritoResponse struct {
	Mensaje string        `json:"mensaje"`
	Carrito []CarritoItem `json:"carrito"`
}

type CarritoTotalResponse struct {
	Total decimal.Decimal `json:"total"`
}

// ─── Checkout ────────────────────────────────────────────────────────────────

// ItemCompraRequest is one cart line submitted to checkout. A line is
// resolved by ID when present, otherwise by exact Name lookup; Price may be
// omitted when resolving by name (the catalog price is used).
type ItemCompraRequest struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

type ComprarRequest struct {
	Items []ItemCompraRequest `json:"items"`
	Total decimal.Decimal     `json:"total"`
}

// ComprarResponse mirrors the legacy wire shape field for field.
type ComprarResponse struct {
	Mensaje         string          `json:"mensaje"`
	CompraID        string          `json:"compraId"`
	Total           decimal.Decimal `json:"total"`
	SaldoAnterior   string          `json:"saldoAnterior"`
	NuevoSaldo      string          `json:"nuevoSaldo"`
	SaldoDescontado string          `json:"saldoDescontado"`
	NumeroVenta     string          `json:"numeroVenta"`
}

// ─── History / back-office ───────────────────────────────────────────────────

type HistorialItem struct {
	ID             string          `json:"id"`
	Total          decimal.Decimal `json:"total"`
	Fecha          string          `json:"fecha"`
	TotalProductos int             `json:"total_productos"`
}

type CompraInfo struct {
	ID       string          `json:"id"`
	Total    decimal.Decimal `json:"total"`
	Fecha    string          `json:"fecha"`
	Username string          `json:"username,omitempty"`
}

type DetalleInfo struct {
	Cantidad   int             `json:"cantidad"`
	ProductoID string          `json:"producto_id"`
	Nombre     string          `json:"nombre"`
	Precio     decimal.Decimal `json:"precio"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

type CompraDetalleResponse struct {
	Compra   CompraInfo    `json:"compra"`
	Detalles []DetalleInfo `json:"detalles"`
}

// AdminCompraItem is one row of GET /admin/compras.
type AdminCompraItem struct {
	ID             string          `json:"id"`
	UsuarioID      string          `json:"id_usuario"`
	Username       string          `json:"username"`
	Total          decimal.Decimal `json:"total"`
	Fecha          string          `json:"fecha"`
	TotalProductos int             `json:"total_productos"`
}

type TicketProducto struct {
	Nombre   string          `json:"nombre"`
	Precio   decimal.Decimal `json:"precio"`
	Cantidad int             `json:"cantidad"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

type TicketResponse struct {
	Negocio     string           `json:"negocio"`
	NumeroVenta string           `json:"numeroVenta"`
	Fecha       string           `json:"fecha"`
	Username    string           `json:"username"`
	Productos   []TicketProducto `json:"productos"`
	Total       decimal.Decimal  `json:"total"`
}
