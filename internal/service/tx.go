package service

import (
	"context"
	"errors"
	"time"

	"liquidaciontextil/internal/apierror"

	"gorm.io/gorm"
)

const (
	msgClienteNoEncontrado     = "Cliente no encontrado"
	msgLiquidacionNoEncontrada = "Liquidación no encontrada"
	msgRolloNoEncontrado       = "Rollo no encontrado"
	msgEspigaNoEncontrada      = "Espiga no encontrada"
	msgEmailDuplicado          = "Ya existe un cliente con ese email"
	msgNumeroDuplicado         = "Ya existe una liquidación con ese número; revise el contador de la configuración"
)

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(ctx, nil) directly when db is nil (unit test mode).
// A positive timeout bounds the whole unit of work; hitting it rolls back.
func runTx(ctx context.Context, db *gorm.DB, timeout time.Duration, fn func(ctx context.Context, tx *gorm.DB) error) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if db == nil {
		return fn(ctx, nil)
	}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, tx)
	})
}

// notFound turns gorm's missing-row signal into the entity-specific domain error.
func notFound(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierror.NotFound(msg)
	}
	return err
}

// duplicado maps a unique-index violation (see TranslateError) to a Conflict.
func duplicado(err error, msg string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apierror.Conflict(msg)
	}
	return err
}
