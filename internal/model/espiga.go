package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Espiga is a measured cutting segment of a Rollo.
// DistribucionTallas (talla → cantidad) is informational and never enters the totals.
type Espiga struct {
	ID                 uuid.UUID                          `gorm:"type:uuid;primaryKey"`
	RolloID            uuid.UUID                          `gorm:"type:uuid;not null;uniqueIndex:idx_espigas_rollo_numero,priority:1"`
	Numero             int                                `gorm:"not null;uniqueIndex:idx_espigas_rollo_numero,priority:2"`
	LargoTrazo         decimal.Decimal                    `gorm:"type:decimal(12,4);not null"`
	NumeroCapas        int                                `gorm:"not null"`
	DistribucionTallas datatypes.JSONType[map[string]int] `gorm:"column:distribucion_tallas"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (Espiga) TableName() string { return "espigas" }

func (e *Espiga) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// Tallas returns the size distribution, or nil when none was recorded.
func (e *Espiga) Tallas() map[string]int {
	return e.DistribucionTallas.Data()
}

// SetTallas stores a size distribution; a nil map clears it.
func (e *Espiga) SetTallas(t map[string]int) {
	e.DistribucionTallas = datatypes.NewJSONType(t)
}
