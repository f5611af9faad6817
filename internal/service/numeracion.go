package service

import (
	"context"
	"fmt"

	"liquidaciontextil/internal/model"
	"liquidaciontextil/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// FormatearNumero renders a liquidación number: prefix followed by six zero-padded digits.
func FormatearNumero(prefijo string, n int) string {
	return fmt.Sprintf("%s%06d", prefijo, n)
}

// Numerador allocates gapless sequence numbers and closes gaps after deletions.
// Every method must be called with the caller's transaction; the per-parent
// methods additionally assume the parent liquidación row is already locked.
type Numerador struct {
	config   repository.ConfiguracionRepository
	rollos   repository.RolloRepository
	espigas  repository.EspigaRepository
	defaults model.Configuracion
}

func NewNumerador(
	config repository.ConfiguracionRepository,
	rollos repository.RolloRepository,
	espigas repository.EspigaRepository,
	defaults model.Configuracion,
) *Numerador {
	return &Numerador{config: config, rollos: rollos, espigas: espigas, defaults: defaults}
}

// SiguienteLiquidacion reserves the next global number and advances the counter.
// The configuracion row stays locked until tx ends, so concurrent creations queue here.
func (n *Numerador) SiguienteLiquidacion(ctx context.Context, tx *gorm.DB) (string, error) {
	cfg, err := n.config.GetForUpdate(ctx, tx, n.defaults)
	if err != nil {
		return "", fmt.Errorf("numeracion: leer configuracion: %w", err)
	}
	numero := FormatearNumero(cfg.PrefijoLiquidacion, cfg.SiguienteNumero)
	cfg.SiguienteNumero++
	if err := n.config.Update(ctx, tx, cfg); err != nil {
		return "", fmt.Errorf("numeracion: avanzar contador: %w", err)
	}
	return numero, nil
}

func (n *Numerador) SiguienteRollo(ctx context.Context, tx *gorm.DB, liquidacionID uuid.UUID) (int, error) {
	ultimo, err := n.rollos.MaxNumero(ctx, tx, liquidacionID)
	if err != nil {
		return 0, err
	}
	return ultimo + 1, nil
}

func (n *Numerador) SiguienteEspiga(ctx context.Context, tx *gorm.DB, rolloID uuid.UUID) (int, error) {
	ultimo, err := n.espigas.MaxNumero(ctx, tx, rolloID)
	if err != nil {
		return 0, err
	}
	return ultimo + 1, nil
}

// CompactarRollos closes the gap left by deleting rollo number eliminado.
func (n *Numerador) CompactarRollos(ctx context.Context, tx *gorm.DB, liquidacionID uuid.UUID, eliminado int) error {
	moved, err := n.rollos.Compactar(ctx, tx, liquidacionID, eliminado)
	if err != nil {
		return fmt.Errorf("numeracion: compactar rollos: %w", err)
	}
	if moved > 0 {
		log.Debug().Str("liquidacion_id", liquidacionID.String()).Int("desde", eliminado).Int64("renumerados", moved).Msg("rollos renumerados")
	}
	return nil
}

// CompactarEspigas closes the gap left by deleting espiga number eliminado.
func (n *Numerador) CompactarEspigas(ctx context.Context, tx *gorm.DB, rolloID uuid.UUID, eliminado int) error {
	moved, err := n.espigas.Compactar(ctx, tx, rolloID, eliminado)
	if err != nil {
		return fmt.Errorf("numeracion: compactar espigas: %w", err)
	}
	if moved > 0 {
		log.Debug().Str("rollo_id", rolloID.String()).Int("desde", eliminado).Int64("renumerados", moved).Msg("espigas renumeradas")
	}
	return nil
}
