package service

import (
	"context"
	"time"

	"liquidaciontextil/internal/dto"
	"liquidaciontextil/internal/model"
	"liquidaciontextil/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// EspigaService mutates the espigas of a rollo. The owning liquidación is resolved
// through the rollo and locked before anything else.
type EspigaService interface {
	Crear(ctx context.Context, rolloID uuid.UUID, req dto.CrearEspigaRequest) (dto.EspigaResponse, error)
	Actualizar(ctx context.Context, rolloID, id uuid.UUID, req dto.ActualizarEspigaRequest) (dto.EspigaResponse, error)
	Eliminar(ctx context.Context, rolloID, id uuid.UUID) error
}

type espigaService struct {
	liquidaciones repository.LiquidacionRepository
	rollos        repository.RolloRepository
	repo          repository.EspigaRepository
	numerador     *Numerador
	txTimeout     time.Duration
}

func NewEspigaService(
	liquidaciones repository.LiquidacionRepository,
	rollos repository.RolloRepository,
	repo repository.EspigaRepository,
	numerador *Numerador,
	txTimeout time.Duration,
) EspigaService {
	return &espigaService{
		liquidaciones: liquidaciones,
		rollos:        rollos,
		repo:          repo,
		numerador:     numerador,
		txTimeout:     txTimeout,
	}
}

// bloquearRollo locks the liquidación owning rolloID, checks it is modifiable and
// re-reads the rollo under that lock.
func (s *espigaService) bloquearRollo(ctx context.Context, tx *gorm.DB, rolloID uuid.UUID) (*model.Rollo, error) {
	rollo, err := s.rollos.FindByID(ctx, tx, rolloID)
	if err != nil {
		return nil, notFound(err, msgRolloNoEncontrado)
	}
	if _, err := bloquearModificable(ctx, s.liquidaciones, tx, rollo.LiquidacionID); err != nil {
		return nil, err
	}
	// the rollo may have been deleted while we waited for the lock
	rollo, err = s.rollos.FindByID(ctx, tx, rolloID)
	if err != nil {
		return nil, notFound(err, msgRolloNoEncontrado)
	}
	return rollo, nil
}

func (s *espigaService) Crear(ctx context.Context, rolloID uuid.UUID, req dto.CrearEspigaRequest) (dto.EspigaResponse, error) {
	var espiga *model.Espiga
	err := runTx(ctx, s.liquidaciones.DB(), s.txTimeout, func(ctx context.Context, tx *gorm.DB) error {
		if _, err := s.bloquearRollo(ctx, tx, rolloID); err != nil {
			return err
		}
		numero, err := s.numerador.SiguienteEspiga(ctx, tx, rolloID)
		if err != nil {
			return err
		}
		espiga = &model.Espiga{
			RolloID:     rolloID,
			Numero:      numero,
			LargoTrazo:  req.LargoTrazo,
			NumeroCapas: req.NumeroCapas,
		}
		if len(req.DistribucionTallas) > 0 {
			espiga.SetTallas(req.DistribucionTallas)
		}
		return s.repo.Create(ctx, tx, espiga)
	})
	if err != nil {
		return dto.EspigaResponse{}, err
	}
	log.Info().Str("rollo_id", rolloID.String()).Int("numero", espiga.Numero).Msg("espiga creada")
	return mapEspiga(espiga), nil
}

func (s *espigaService) Actualizar(ctx context.Context, rolloID, id uuid.UUID, req dto.ActualizarEspigaRequest) (dto.EspigaResponse, error) {
	var espiga *model.Espiga
	err := runTx(ctx, s.liquidaciones.DB(), s.txTimeout, func(ctx context.Context, tx *gorm.DB) error {
		if _, err := s.bloquearRollo(ctx, tx, rolloID); err != nil {
			return err
		}
		var err error
		espiga, err = s.repo.FindEnRollo(ctx, tx, rolloID, id)
		if err != nil {
			return notFound(err, msgEspigaNoEncontrada)
		}
		if req.LargoTrazo != nil {
			espiga.LargoTrazo = *req.LargoTrazo
		}
		if req.NumeroCapas != nil {
			espiga.NumeroCapas = *req.NumeroCapas
		}
		// Omitted or null keeps the distribution; {} clears it.
		if req.DistribucionTallas != nil {
			if len(req.DistribucionTallas) == 0 {
				espiga.SetTallas(nil)
			} else {
				espiga.SetTallas(req.DistribucionTallas)
			}
		}
		return s.repo.Update(ctx, tx, espiga)
	})
	if err != nil {
		return dto.EspigaResponse{}, err
	}
	return mapEspiga(espiga), nil
}

func (s *espigaService) Eliminar(ctx context.Context, rolloID, id uuid.UUID) error {
	var numero int
	err := runTx(ctx, s.liquidaciones.DB(), s.txTimeout, func(ctx context.Context, tx *gorm.DB) error {
		if _, err := s.bloquearRollo(ctx, tx, rolloID); err != nil {
			return err
		}
		espiga, err := s.repo.FindEnRollo(ctx, tx, rolloID, id)
		if err != nil {
			return notFound(err, msgEspigaNoEncontrada)
		}
		numero = espiga.Numero
		if err := s.repo.Delete(ctx, tx, id); err != nil {
			return err
		}
		return s.numerador.CompactarEspigas(ctx, tx, rolloID, numero)
	})
	if err != nil {
		return err
	}
	log.Info().Str("rollo_id", rolloID.String()).Int("numero", numero).Msg("espiga eliminada")
	return nil
}
