package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Cliente owns liquidaciones by reference only; it cannot be deleted while any exist.
type Cliente struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Nombre    string    `gorm:"not null"`
	NIT       *string   `gorm:"column:nit"`
	Telefono  *string
	Email     *string `gorm:"uniqueIndex"`
	Direccion *string
	CreatedAt time.Time
	UpdatedAt time.Time

	Liquidaciones []Liquidacion `gorm:"foreignKey:ClienteID;constraint:OnDelete:RESTRICT"`
}

func (Cliente) TableName() string { return "clientes" }

func (c *Cliente) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
