package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EstadoLiquidacion: "borrador" | "en_proceso" | "finalizada"
type EstadoLiquidacion string

const (
	EstadoBorrador   EstadoLiquidacion = "borrador"
	EstadoEnProceso  EstadoLiquidacion = "en_proceso"
	EstadoFinalizada EstadoLiquidacion = "finalizada"
)

// Liquidacion is the billing record for one production batch of a Cliente.
// Numero is the formatted global sequence (prefix + 6 zero-padded digits).
type Liquidacion struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Numero          string    `gorm:"type:varchar(30);uniqueIndex;not null"`
	Fecha           time.Time `gorm:"type:date;not null"`
	ClienteID       uuid.UUID `gorm:"type:uuid;not null;index"`
	OrdenProduccion *string
	Referencia      *string
	Observaciones   *string
	Estado          EstadoLiquidacion `gorm:"type:varchar(20);not null;default:'borrador'"`
	CreatedAt       time.Time         `gorm:"index"`
	UpdatedAt       time.Time

	Cliente *Cliente `gorm:"foreignKey:ClienteID"`
	Rollos  []Rollo  `gorm:"foreignKey:LiquidacionID;constraint:OnDelete:CASCADE"`
}

func (Liquidacion) TableName() string { return "liquidaciones" }

func (l *Liquidacion) BeforeCreate(*gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
