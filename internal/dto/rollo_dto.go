package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearRolloRequest struct {
	ColorTela       string           `json:"color_tela"       validate:"required,max=100"`
	ColorHex        string           `json:"color_hex"        validate:"required,hexcolor"`
	MetrosIniciales decimal.Decimal  `json:"metros_iniciales" validate:"min=0"`
	Retazos         *decimal.Decimal `json:"retazos"          validate:"omitempty,min=0"`
	Sesgos          *decimal.Decimal `json:"sesgos"           validate:"omitempty,min=0"`
}

type ActualizarRolloRequest struct {
	ColorTela       *string          `json:"color_tela"       validate:"omitempty,max=100"`
	ColorHex        *string          `json:"color_hex"        validate:"omitempty,hexcolor"`
	MetrosIniciales *decimal.Decimal `json:"metros_iniciales" validate:"omitempty,min=0"`
	Retazos         *decimal.Decimal `json:"retazos"          validate:"omitempty,min=0"`
	Sesgos          *decimal.Decimal `json:"sesgos"           validate:"omitempty,min=0"`
}

type CrearEspigaRequest struct {
	LargoTrazo         decimal.Decimal `json:"largo_trazo"         validate:"min=0"`
	NumeroCapas        int             `json:"numero_capas"        validate:"min=0"`
	DistribucionTallas map[string]int  `json:"distribucion_tallas" validate:"omitempty,dive,keys,required,max=10,endkeys,min=0"`
}

type ActualizarEspigaRequest struct {
	LargoTrazo         *decimal.Decimal `json:"largo_trazo"         validate:"omitempty,min=0"`
	NumeroCapas        *int             `json:"numero_capas"        validate:"omitempty,min=0"`
	DistribucionTallas map[string]int   `json:"distribucion_tallas" validate:"omitempty,dive,keys,required,max=10,endkeys,min=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type EspigaResponse struct {
	ID                 string          `json:"id"`
	RolloID            string          `json:"rollo_id"`
	Numero             int             `json:"numero"`
	LargoTrazo         decimal.Decimal `json:"largo_trazo"`
	NumeroCapas        int             `json:"numero_capas"`
	DistribucionTallas map[string]int  `json:"distribucion_tallas,omitempty"`
}

type RolloResponse struct {
	ID              string           `json:"id"`
	LiquidacionID   string           `json:"liquidacion_id"`
	Numero          int              `json:"numero"`
	ColorTela       string           `json:"color_tela"`
	ColorHex        string           `json:"color_hex"`
	MetrosIniciales decimal.Decimal  `json:"metros_iniciales"`
	Retazos         decimal.Decimal  `json:"retazos"`
	Sesgos          decimal.Decimal  `json:"sesgos"`
	ConsumoRollo    decimal.Decimal  `json:"consumo_rollo"`
	Espigas         []EspigaResponse `json:"espigas"`
}
