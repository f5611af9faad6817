package model

import (
	"time"

	"github.com/google/uuid"
)

// ConfiguracionID is the fixed primary key of the singleton row.
// A fixed key lets concurrent lazy creation collapse into one row (ON CONFLICT DO NOTHING).
var ConfiguracionID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// Configuracion holds company data and the global liquidación counter.
type Configuracion struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	NombreEmpresa      string    `gorm:"not null"`
	Telefono           *string
	Direccion          *string
	NIT                *string `gorm:"column:nit"`
	SiguienteNumero    int     `gorm:"not null;default:1"`
	PrefijoLiquidacion string  `gorm:"type:varchar(10);not null;default:''"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// TableName overrides GORM's default pluralization (configuracions → configuraciones).
func (Configuracion) TableName() string { return "configuraciones" }
