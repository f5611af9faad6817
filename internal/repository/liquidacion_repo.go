package repository

import (
	"context"

	"liquidaciontextil/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LiquidacionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, l *model.Liquidacion) error
	FindByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Liquidacion, error)
	// FindDetalle loads cliente, rollos by numero and each rollo's espigas by numero.
	FindDetalle(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Liquidacion, error)
	List(ctx context.Context) ([]model.Liquidacion, error)
	// LockByID takes a FOR UPDATE lock on the liquidación row. Every mutation of its
	// subtree goes through this lock first so sibling numbering is serialised.
	LockByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Liquidacion, error)
	Update(ctx context.Context, tx *gorm.DB, l *model.Liquidacion) error
	UpdateEstado(ctx context.Context, tx *gorm.DB, id uuid.UUID, estado model.EstadoLiquidacion) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	DB() *gorm.DB
}

type liquidacionRepo struct{ db *gorm.DB }

func NewLiquidacionRepository(db *gorm.DB) LiquidacionRepository {
	return &liquidacionRepo{db: db}
}

func (r *liquidacionRepo) DB() *gorm.DB { return r.db }

func (r *liquidacionRepo) Create(ctx context.Context, tx *gorm.DB, l *model.Liquidacion) error {
	return conn(ctx, r.db, tx).Omit(clause.Associations).Create(l).Error
}

func (r *liquidacionRepo) FindByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Liquidacion, error) {
	var l model.Liquidacion
	if err := conn(ctx, r.db, tx).First(&l, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *liquidacionRepo) FindDetalle(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Liquidacion, error) {
	var l model.Liquidacion
	err := conn(ctx, r.db, tx).
		Preload("Cliente").
		Preload("Rollos", func(db *gorm.DB) *gorm.DB { return db.Order("numero ASC") }).
		Preload("Rollos.Espigas", func(db *gorm.DB) *gorm.DB { return db.Order("numero ASC") }).
		First(&l, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *liquidacionRepo) List(ctx context.Context) ([]model.Liquidacion, error) {
	var list []model.Liquidacion
	err := r.db.WithContext(ctx).
		Preload("Cliente").
		Preload("Rollos.Espigas").
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *liquidacionRepo) LockByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Liquidacion, error) {
	var l model.Liquidacion
	if err := locked(conn(ctx, r.db, tx), LockUpdate).First(&l, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *liquidacionRepo) Update(ctx context.Context, tx *gorm.DB, l *model.Liquidacion) error {
	return conn(ctx, r.db, tx).Omit(clause.Associations).Save(l).Error
}

func (r *liquidacionRepo) UpdateEstado(ctx context.Context, tx *gorm.DB, id uuid.UUID, estado model.EstadoLiquidacion) error {
	return conn(ctx, r.db, tx).Model(&model.Liquidacion{}).Where("id = ?", id).Update("estado", estado).Error
}

// Delete removes the liquidación together with its rollos and their espigas.
func (r *liquidacionRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	q := conn(ctx, r.db, tx)
	rollos := q.Model(&model.Rollo{}).Select("id").Where("liquidacion_id = ?", id)
	if err := q.Where("rollo_id IN (?)", rollos).Delete(&model.Espiga{}).Error; err != nil {
		return err
	}
	if err := q.Where("liquidacion_id = ?", id).Delete(&model.Rollo{}).Error; err != nil {
		return err
	}
	return q.Delete(&model.Liquidacion{}, "id = ?", id).Error
}
