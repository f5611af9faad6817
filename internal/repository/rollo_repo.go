package repository

import (
	"context"

	"liquidaciontextil/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RolloRepository interface {
	Create(ctx context.Context, tx *gorm.DB, r *model.Rollo) error
	// FindEnLiquidacion returns the rollo only when it belongs to liquidacionID, espigas by numero.
	FindEnLiquidacion(ctx context.Context, tx *gorm.DB, liquidacionID, id uuid.UUID) (*model.Rollo, error)
	FindByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Rollo, error)
	MaxNumero(ctx context.Context, tx *gorm.DB, liquidacionID uuid.UUID) (int, error)
	Update(ctx context.Context, tx *gorm.DB, r *model.Rollo) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	// Compactar shifts every rollo numbered above eliminado down by one.
	Compactar(ctx context.Context, tx *gorm.DB, liquidacionID uuid.UUID, eliminado int) (int64, error)
}

type rolloRepo struct{ db *gorm.DB }

func NewRolloRepository(db *gorm.DB) RolloRepository { return &rolloRepo{db: db} }

func (r *rolloRepo) Create(ctx context.Context, tx *gorm.DB, rollo *model.Rollo) error {
	return conn(ctx, r.db, tx).Omit(clause.Associations).Create(rollo).Error
}

func (r *rolloRepo) FindEnLiquidacion(ctx context.Context, tx *gorm.DB, liquidacionID, id uuid.UUID) (*model.Rollo, error) {
	var rollo model.Rollo
	err := conn(ctx, r.db, tx).
		Preload("Espigas", func(db *gorm.DB) *gorm.DB { return db.Order("numero ASC") }).
		Where("id = ? AND liquidacion_id = ?", id, liquidacionID).
		First(&rollo).Error
	if err != nil {
		return nil, err
	}
	return &rollo, nil
}

func (r *rolloRepo) FindByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Rollo, error) {
	var rollo model.Rollo
	if err := conn(ctx, r.db, tx).First(&rollo, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rollo, nil
}

func (r *rolloRepo) MaxNumero(ctx context.Context, tx *gorm.DB, liquidacionID uuid.UUID) (int, error) {
	return maxNumero(conn(ctx, r.db, tx), &model.Rollo{}, "liquidacion_id = ?", liquidacionID)
}

func (r *rolloRepo) Update(ctx context.Context, tx *gorm.DB, rollo *model.Rollo) error {
	return conn(ctx, r.db, tx).Omit(clause.Associations).Save(rollo).Error
}

func (r *rolloRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	q := conn(ctx, r.db, tx)
	if err := q.Where("rollo_id = ?", id).Delete(&model.Espiga{}).Error; err != nil {
		return err
	}
	return q.Delete(&model.Rollo{}, "id = ?", id).Error
}

func (r *rolloRepo) Compactar(ctx context.Context, tx *gorm.DB, liquidacionID uuid.UUID, eliminado int) (int64, error) {
	return compactar(conn(ctx, r.db, tx), &model.Rollo{}, eliminado, "liquidacion_id = ?", liquidacionID)
}
