package repository

import (
	"context"

	"liquidaciontextil/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EspigaRepository interface {
	Create(ctx context.Context, tx *gorm.DB, e *model.Espiga) error
	CreateBatch(ctx context.Context, tx *gorm.DB, espigas []model.Espiga) error
	// FindEnRollo returns the espiga only when it belongs to rolloID.
	FindEnRollo(ctx context.Context, tx *gorm.DB, rolloID, id uuid.UUID) (*model.Espiga, error)
	MaxNumero(ctx context.Context, tx *gorm.DB, rolloID uuid.UUID) (int, error)
	Update(ctx context.Context, tx *gorm.DB, e *model.Espiga) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	Compactar(ctx context.Context, tx *gorm.DB, rolloID uuid.UUID, eliminado int) (int64, error)
}

type espigaRepo struct{ db *gorm.DB }

func NewEspigaRepository(db *gorm.DB) EspigaRepository { return &espigaRepo{db: db} }

func (r *espigaRepo) Create(ctx context.Context, tx *gorm.DB, e *model.Espiga) error {
	return conn(ctx, r.db, tx).Create(e).Error
}

func (r *espigaRepo) CreateBatch(ctx context.Context, tx *gorm.DB, espigas []model.Espiga) error {
	if len(espigas) == 0 {
		return nil
	}
	return conn(ctx, r.db, tx).Create(&espigas).Error
}

func (r *espigaRepo) FindEnRollo(ctx context.Context, tx *gorm.DB, rolloID, id uuid.UUID) (*model.Espiga, error) {
	var e model.Espiga
	if err := conn(ctx, r.db, tx).Where("id = ? AND rollo_id = ?", id, rolloID).First(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *espigaRepo) MaxNumero(ctx context.Context, tx *gorm.DB, rolloID uuid.UUID) (int, error) {
	return maxNumero(conn(ctx, r.db, tx), &model.Espiga{}, "rollo_id = ?", rolloID)
}

func (r *espigaRepo) Update(ctx context.Context, tx *gorm.DB, e *model.Espiga) error {
	return conn(ctx, r.db, tx).Save(e).Error
}

func (r *espigaRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return conn(ctx, r.db, tx).Delete(&model.Espiga{}, "id = ?", id).Error
}

func (r *espigaRepo) Compactar(ctx context.Context, tx *gorm.DB, rolloID uuid.UUID, eliminado int) (int64, error) {
	return compactar(conn(ctx, r.db, tx), &model.Espiga{}, eliminado, "rollo_id = ?", rolloID)
}
