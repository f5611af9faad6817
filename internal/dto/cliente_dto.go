package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearClienteRequest struct {
	Nombre    string  `json:"nombre"    validate:"required,min=3,max=100"`
	NIT       *string `json:"nit"       validate:"omitempty,max=50"`
	Telefono  *string `json:"telefono"  validate:"omitempty,max=50"`
	Email     *string `json:"email"     validate:"omitempty,email"`
	Direccion *string `json:"direccion" validate:"omitempty,max=200"`
}

type ActualizarClienteRequest struct {
	Nombre    *string `json:"nombre"    validate:"omitempty,min=3,max=100"`
	NIT       *string `json:"nit"       validate:"omitempty,max=50"`
	Telefono  *string `json:"telefono"  validate:"omitempty,max=50"`
	Email     *string `json:"email"     validate:"omitempty,email"`
	Direccion *string `json:"direccion" validate:"omitempty,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ClienteResponse struct {
	ID        string    `json:"id"`
	Nombre    string    `json:"nombre"`
	NIT       *string   `json:"nit"`
	Telefono  *string   `json:"telefono"`
	Email     *string   `json:"email"`
	Direccion *string   `json:"direccion"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ClienteListItem is one row of the cliente listing with its aggregates.
type ClienteListItem struct {
	ClienteResponse
	LiquidacionesCount int             `json:"liquidaciones_count"`
	MetrosProcesados   decimal.Decimal `json:"metros_procesados"`
}

type ClienteDetalleResponse struct {
	ClienteResponse
	Liquidaciones []LiquidacionResumen `json:"liquidaciones"`
}

// ClienteRef is the short cliente summary embedded in liquidación listings.
type ClienteRef struct {
	ID       string  `json:"id"`
	Nombre   string  `json:"nombre"`
	NIT      *string `json:"nit,omitempty"`
	Telefono *string `json:"telefono,omitempty"`
}

type MensajeResponse struct {
	Message string `json:"message"`
}
