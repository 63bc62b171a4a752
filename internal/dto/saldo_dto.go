package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// AgregarSaldoRequest: positivity and the ledger ceiling are validated in the
// service (400s); a non-numeric monto already fails JSON binding.
type AgregarSaldoRequest struct {
	Monto decimal.Decimal `json:"monto" validate:"required"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// SaldoResponse renders the balance as a fixed 2-decimal string.
type SaldoResponse struct {
	Saldo string `json:"saldo"`
}

type AgregarSaldoResponse struct {
	Success       bool   `json:"success"`
	Mensaje       string `json:"mensaje"`
	SaldoAnterior string `json:"saldoAnterior"`
	MontoAgregado string `json:"montoAgregado"`
	NuevoSaldo    string `json:"nuevoSaldo"`
}
