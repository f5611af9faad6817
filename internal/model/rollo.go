package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Rollo is a fabric roll consumed within a Liquidacion.
// Numero is contiguous 1..N inside its liquidación.
type Rollo struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	LiquidacionID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_rollos_liquidacion_numero,priority:1"`
	Numero          int             `gorm:"not null;uniqueIndex:idx_rollos_liquidacion_numero,priority:2"`
	ColorTela       string          `gorm:"not null"`
	ColorHex        string          `gorm:"type:varchar(9);not null"`
	MetrosIniciales decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Retazos         decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Sesgos          decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Espigas []Espiga `gorm:"foreignKey:RolloID;constraint:OnDelete:CASCADE"`
}

func (Rollo) TableName() string { return "rollos" }

func (r *Rollo) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
