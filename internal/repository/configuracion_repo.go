package repository

import (
	"context"

	"liquidaciontextil/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConfiguracionRepository reads and writes the singleton configuracion row.
// Both getters create the row with the given defaults when it does not exist yet;
// concurrent first reads collapse into one row because the primary key is fixed.
type ConfiguracionRepository interface {
	Get(ctx context.Context, tx *gorm.DB, defaults model.Configuracion) (*model.Configuracion, error)
	// GetForUpdate additionally locks the row until tx ends. Used to reserve numbers.
	GetForUpdate(ctx context.Context, tx *gorm.DB, defaults model.Configuracion) (*model.Configuracion, error)
	Update(ctx context.Context, tx *gorm.DB, c *model.Configuracion) error
	DB() *gorm.DB
}

type configuracionRepo struct{ db *gorm.DB }

func NewConfiguracionRepository(db *gorm.DB) ConfiguracionRepository {
	return &configuracionRepo{db: db}
}

func (r *configuracionRepo) DB() *gorm.DB { return r.db }

func (r *configuracionRepo) Get(ctx context.Context, tx *gorm.DB, defaults model.Configuracion) (*model.Configuracion, error) {
	return r.get(conn(ctx, r.db, tx), defaults, false)
}

func (r *configuracionRepo) GetForUpdate(ctx context.Context, tx *gorm.DB, defaults model.Configuracion) (*model.Configuracion, error) {
	return r.get(conn(ctx, r.db, tx), defaults, true)
}

func (r *configuracionRepo) get(q *gorm.DB, defaults model.Configuracion, lock bool) (*model.Configuracion, error) {
	defaults.ID = model.ConfiguracionID
	if defaults.SiguienteNumero < 1 {
		defaults.SiguienteNumero = 1
	}
	if err := q.Clauses(clause.OnConflict{DoNothing: true}).Create(&defaults).Error; err != nil {
		return nil, err
	}

	read := q
	if lock {
		read = locked(q, LockUpdate)
	}
	var c model.Configuracion
	if err := read.First(&c, "id = ?", model.ConfiguracionID).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *configuracionRepo) Update(ctx context.Context, tx *gorm.DB, c *model.Configuracion) error {
	c.ID = model.ConfiguracionID
	return conn(ctx, r.db, tx).Save(c).Error
}
