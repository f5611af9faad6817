package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// FormatoFecha is the wire format of every fecha field (calendar date, no time).
const FormatoFecha = "2006-01-02"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearLiquidacionRequest struct {
	Fecha           string  `json:"fecha"            validate:"required,datetime=2006-01-02"`
	ClienteID       string  `json:"cliente_id"       validate:"required,uuid"`
	OrdenProduccion *string `json:"orden_produccion" validate:"omitempty,max=100"`
	Referencia      *string `json:"referencia"       validate:"omitempty,max=100"`
	Observaciones   *string `json:"observaciones"    validate:"omitempty,max=1000"`
	Estado          *string `json:"estado"           validate:"omitempty,oneof=borrador en_proceso finalizada"`
}

// ActualizarLiquidacionRequest is a partial update. Absent fields are left untouched.
type ActualizarLiquidacionRequest struct {
	Fecha           *string `json:"fecha"            validate:"omitempty,datetime=2006-01-02"`
	ClienteID       *string `json:"cliente_id"       validate:"omitempty,uuid"`
	OrdenProduccion *string `json:"orden_produccion" validate:"omitempty,max=100"`
	Referencia      *string `json:"referencia"       validate:"omitempty,max=100"`
	Observaciones   *string `json:"observaciones"    validate:"omitempty,max=1000"`
	Estado          *string `json:"estado"           validate:"omitempty,oneof=borrador en_proceso finalizada"`
}

type ActualizarEstadoRequest struct {
	Estado string `json:"estado" validate:"required,oneof=borrador en_proceso finalizada"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type TotalesResponse struct {
	MetrosIniciales decimal.Decimal `json:"metros_iniciales"`
	ConsumoTotal    decimal.Decimal `json:"consumo_total"`
	Diferencia      decimal.Decimal `json:"diferencia"`
}

// LiquidacionResumen is the list view: header fields plus computed totals.
type LiquidacionResumen struct {
	ID              string      `json:"id"`
	Numero          string      `json:"numero"`
	Fecha           string      `json:"fecha"`
	Estado          string      `json:"estado"`
	OrdenProduccion *string     `json:"orden_produccion"`
	Referencia      *string     `json:"referencia"`
	CreatedAt       time.Time   `json:"created_at"`
	Cliente         *ClienteRef `json:"cliente,omitempty"`
	TotalesResponse
}

// LiquidacionResponse is the full tree: cliente, rollos with espigas, totals.
type LiquidacionResponse struct {
	ID              string           `json:"id"`
	Numero          string           `json:"numero"`
	Fecha           string           `json:"fecha"`
	Estado          string           `json:"estado"`
	OrdenProduccion *string          `json:"orden_produccion"`
	Referencia      *string          `json:"referencia"`
	Observaciones   *string          `json:"observaciones"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	Cliente         *ClienteResponse `json:"cliente,omitempty"`
	Rollos          []RolloResponse  `json:"rollos"`
	TotalesResponse
}

type EnvioEncoladoResponse struct {
	LiquidacionID string `json:"liquidacion_id"`
	Destinatario  string `json:"destinatario"`
	Message       string `json:"message"`
}

// EnviarLiquidacionRequest optionally overrides the recipient; defaults to the cliente email.
type EnviarLiquidacionRequest struct {
	Email *string `json:"email" validate:"omitempty,email"`
}
