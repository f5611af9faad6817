package dto

type ActualizarConfiguracionRequest struct {
	NombreEmpresa      *string `json:"nombre_empresa"      validate:"omitempty,min=1,max=150"`
	Telefono           *string `json:"telefono"            validate:"omitempty,max=50"`
	Direccion          *string `json:"direccion"           validate:"omitempty,max=200"`
	NIT                *string `json:"nit"                 validate:"omitempty,max=50"`
	SiguienteNumero    *int    `json:"siguiente_numero"    validate:"omitempty,min=1"`
	PrefijoLiquidacion *string `json:"prefijo_liquidacion" validate:"omitempty,max=10"`
}

type ConfiguracionResponse struct {
	NombreEmpresa      string  `json:"nombre_empresa"`
	Telefono           *string `json:"telefono"`
	Direccion          *string `json:"direccion"`
	NIT                *string `json:"nit"`
	SiguienteNumero    int     `json:"siguiente_numero"`
	PrefijoLiquidacion string  `json:"prefijo_liquidacion"`
}

// SiguienteNumeroResponse previews the next liquidación number without consuming it.
type SiguienteNumeroResponse struct {
	SiguienteNumero  int    `json:"siguiente_numero"`
	NumeroFormateado string `json:"numero_formateado"`
}
