package repository

import (
	"context"

	"liquidaciontextil/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClienteRepository interface {
	Create(ctx context.Context, tx *gorm.DB, c *model.Cliente) error
	FindByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Cliente, error)
	FindByEmail(ctx context.Context, tx *gorm.DB, email string) (*model.Cliente, error)
	// FindDetalle loads the cliente with its liquidaciones (fecha desc) and their rollos/espigas.
	FindDetalle(ctx context.Context, id uuid.UUID) (*model.Cliente, error)
	// List returns every cliente by nombre with the tree needed for the list aggregates.
	List(ctx context.Context) ([]model.Cliente, error)
	LockByID(ctx context.Context, tx *gorm.DB, id uuid.UUID, strength string) (*model.Cliente, error)
	CountLiquidaciones(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error)
	Update(ctx context.Context, tx *gorm.DB, c *model.Cliente) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	DB() *gorm.DB
}

type clienteRepo struct{ db *gorm.DB }

func NewClienteRepository(db *gorm.DB) ClienteRepository { return &clienteRepo{db: db} }

func (r *clienteRepo) DB() *gorm.DB { return r.db }

func (r *clienteRepo) Create(ctx context.Context, tx *gorm.DB, c *model.Cliente) error {
	return conn(ctx, r.db, tx).Create(c).Error
}

func (r *clienteRepo) FindByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Cliente, error) {
	var c model.Cliente
	if err := conn(ctx, r.db, tx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *clienteRepo) FindByEmail(ctx context.Context, tx *gorm.DB, email string) (*model.Cliente, error) {
	var c model.Cliente
	if err := conn(ctx, r.db, tx).Where("email = ?", email).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *clienteRepo) FindDetalle(ctx context.Context, id uuid.UUID) (*model.Cliente, error) {
	var c model.Cliente
	err := r.db.WithContext(ctx).
		Preload("Liquidaciones", func(db *gorm.DB) *gorm.DB {
			return db.Order("fecha DESC").Order("created_at DESC")
		}).
		Preload("Liquidaciones.Rollos.Espigas").
		First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *clienteRepo) List(ctx context.Context) ([]model.Cliente, error) {
	var list []model.Cliente
	err := r.db.WithContext(ctx).
		Preload("Liquidaciones.Rollos.Espigas").
		Order("nombre ASC").
		Find(&list).Error
	return list, err
}

func (r *clienteRepo) LockByID(ctx context.Context, tx *gorm.DB, id uuid.UUID, strength string) (*model.Cliente, error) {
	var c model.Cliente
	if err := locked(conn(ctx, r.db, tx), strength).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *clienteRepo) CountLiquidaciones(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error) {
	var n int64
	err := conn(ctx, r.db, tx).Model(&model.Liquidacion{}).Where("cliente_id = ?", id).Count(&n).Error
	return n, err
}

func (r *clienteRepo) Update(ctx context.Context, tx *gorm.DB, c *model.Cliente) error {
	return conn(ctx, r.db, tx).Omit("Liquidaciones").Save(c).Error
}

func (r *clienteRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return conn(ctx, r.db, tx).Delete(&model.Cliente{}, "id = ?", id).Error
}
