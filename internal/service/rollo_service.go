package service

import (
	"context"
	"time"

	"liquidaciontextil/internal/dto"
	"liquidaciontextil/internal/lifecycle"
	"liquidaciontextil/internal/metrics"
	"liquidaciontextil/internal/model"
	"liquidaciontextil/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RolloService mutates the rollos of a liquidación. Every operation locks the
// parent liquidación first and refuses to touch a finalizada one.
type RolloService interface {
	Crear(ctx context.Context, liquidacionID uuid.UUID, req dto.CrearRolloRequest) (dto.RolloResponse, error)
	Actualizar(ctx context.Context, liquidacionID, id uuid.UUID, req dto.ActualizarRolloRequest) (dto.RolloResponse, error)
	Eliminar(ctx context.Context, liquidacionID, id uuid.UUID) error
	Duplicar(ctx context.Context, liquidacionID, id uuid.UUID) (dto.RolloResponse, error)
}

type rolloService struct {
	liquidaciones repository.LiquidacionRepository
	repo          repository.RolloRepository
	espigas       repository.EspigaRepository
	numerador     *Numerador
	metrics       *metrics.Recorder
	txTimeout     time.Duration
}

func NewRolloService(
	liquidaciones repository.LiquidacionRepository,
	repo repository.RolloRepository,
	espigas repository.EspigaRepository,
	numerador *Numerador,
	rec *metrics.Recorder,
	txTimeout time.Duration,
) RolloService {
	return &rolloService{
		liquidaciones: liquidaciones,
		repo:          repo,
		espigas:       espigas,
		numerador:     numerador,
		metrics:       rec,
		txTimeout:     txTimeout,
	}
}

// bloquearModificable locks the liquidación row and checks it is not finalizada.
func bloquearModificable(ctx context.Context, repo repository.LiquidacionRepository, tx *gorm.DB, id uuid.UUID) (*model.Liquidacion, error) {
	l, err := repo.LockByID(ctx, tx, id)
	if err != nil {
		return nil, notFound(err, msgLiquidacionNoEncontrada)
	}
	if err := lifecycle.VerificarModificable(l.Estado); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *rolloService) Crear(ctx context.Context, liquidacionID uuid.UUID, req dto.CrearRolloRequest) (dto.RolloResponse, error) {
	var (
		rollo      *model.Rollo
		transicion bool
	)
	err := runTx(ctx, s.liquidaciones.DB(), s.txTimeout, func(ctx context.Context, tx *gorm.DB) error {
		l, err := bloquearModificable(ctx, s.liquidaciones, tx, liquidacionID)
		if err != nil {
			return err
		}
		numero, err := s.numerador.SiguienteRollo(ctx, tx, liquidacionID)
		if err != nil {
			return err
		}
		rollo = &model.Rollo{
			LiquidacionID:   liquidacionID,
			Numero:          numero,
			ColorTela:       req.ColorTela,
			ColorHex:        req.ColorHex,
			MetrosIniciales: req.MetrosIniciales,
			Retazos:         valorOCero(req.Retazos),
			Sesgos:          valorOCero(req.Sesgos),
		}
		if err := s.repo.Create(ctx, tx, rollo); err != nil {
			return err
		}
		if numero == 1 {
			if nuevo := lifecycle.Transicion(l.Estado, lifecycle.EventoPrimerRollo); nuevo != l.Estado {
				if err := s.liquidaciones.UpdateEstado(ctx, tx, liquidacionID, nuevo); err != nil {
					return err
				}
				transicion = true
			}
		}
		return nil
	})
	if err != nil {
		return dto.RolloResponse{}, err
	}

	if transicion {
		s.metrics.RecordLiquidacion("estado_" + string(model.EstadoEnProceso))
		log.Info().Str("liquidacion_id", liquidacionID.String()).Msg("liquidacion en proceso")
	}
	log.Info().Str("liquidacion_id", liquidacionID.String()).Int("numero", rollo.Numero).Msg("rollo creado")
	return mapRollo(rollo), nil
}

func (s *rolloService) Actualizar(ctx context.Context, liquidacionID, id uuid.UUID, req dto.ActualizarRolloRequest) (dto.RolloResponse, error) {
	var rollo *model.Rollo
	err := runTx(ctx, s.liquidaciones.DB(), s.txTimeout, func(ctx context.Context, tx *gorm.DB) error {
		if _, err := bloquearModificable(ctx, s.liquidaciones, tx, liquidacionID); err != nil {
			return err
		}
		var err error
		rollo, err = s.repo.FindEnLiquidacion(ctx, tx, liquidacionID, id)
		if err != nil {
			return notFound(err, msgRolloNoEncontrado)
		}
		if req.ColorTela != nil {
			rollo.ColorTela = *req.ColorTela
		}
		if req.ColorHex != nil {
			rollo.ColorHex = *req.ColorHex
		}
		if req.MetrosIniciales != nil {
			rollo.MetrosIniciales = *req.MetrosIniciales
		}
		if req.Retazos != nil {
			rollo.Retazos = *req.Retazos
		}
		if req.Sesgos != nil {
			rollo.Sesgos = *req.Sesgos
		}
		return s.repo.Update(ctx, tx, rollo)
	})
	if err != nil {
		return dto.RolloResponse{}, err
	}
	return mapRollo(rollo), nil
}

// Eliminar deletes the rollo with its espigas and renumbers the rollos after it.
func (s *rolloService) Eliminar(ctx context.Context, liquidacionID, id uuid.UUID) error {
	var numero int
	err := runTx(ctx, s.liquidaciones.DB(), s.txTimeout, func(ctx context.Context, tx *gorm.DB) error {
		if _, err := bloquearModificable(ctx, s.liquidaciones, tx, liquidacionID); err != nil {
			return err
		}
		rollo, err := s.repo.FindEnLiquidacion(ctx, tx, liquidacionID, id)
		if err != nil {
			return notFound(err, msgRolloNoEncontrado)
		}
		numero = rollo.Numero
		if err := s.repo.Delete(ctx, tx, id); err != nil {
			return err
		}
		return s.numerador.CompactarRollos(ctx, tx, liquidacionID, numero)
	})
	if err != nil {
		return err
	}
	log.Info().Str("liquidacion_id", liquidacionID.String()).Int("numero", numero).Msg("rollo eliminado")
	return nil
}

// Duplicar appends a copy of the rollo, with copies of its espigas keeping their
// numbers, measures and size distribution under fresh ids.
func (s *rolloService) Duplicar(ctx context.Context, liquidacionID, id uuid.UUID) (dto.RolloResponse, error) {
	var copia *model.Rollo
	err := runTx(ctx, s.liquidaciones.DB(), s.txTimeout, func(ctx context.Context, tx *gorm.DB) error {
		if _, err := bloquearModificable(ctx, s.liquidaciones, tx, liquidacionID); err != nil {
			return err
		}
		origen, err := s.repo.FindEnLiquidacion(ctx, tx, liquidacionID, id)
		if err != nil {
			return notFound(err, msgRolloNoEncontrado)
		}
		numero, err := s.numerador.SiguienteRollo(ctx, tx, liquidacionID)
		if err != nil {
			return err
		}

		nuevo := &model.Rollo{
			ID:              uuid.New(),
			LiquidacionID:   liquidacionID,
			Numero:          numero,
			ColorTela:       origen.ColorTela,
			ColorHex:        origen.ColorHex,
			MetrosIniciales: origen.MetrosIniciales,
			Retazos:         origen.Retazos,
			Sesgos:          origen.Sesgos,
		}
		if err := s.repo.Create(ctx, tx, nuevo); err != nil {
			return err
		}

		espigas := make([]model.Espiga, 0, len(origen.Espigas))
		for _, e := range origen.Espigas {
			c := model.Espiga{
				ID:          uuid.New(),
				RolloID:     nuevo.ID,
				Numero:      e.Numero,
				LargoTrazo:  e.LargoTrazo,
				NumeroCapas: e.NumeroCapas,
			}
			c.SetTallas(copiarTallas(e.Tallas()))
			espigas = append(espigas, c)
		}
		if err := s.espigas.CreateBatch(ctx, tx, espigas); err != nil {
			return err
		}

		copia, err = s.repo.FindEnLiquidacion(ctx, tx, liquidacionID, nuevo.ID)
		return err
	})
	if err != nil {
		return dto.RolloResponse{}, err
	}
	log.Info().
		Str("liquidacion_id", liquidacionID.String()).
		Str("origen", id.String()).
		Int("numero", copia.Numero).
		Msg("rollo duplicado")
	return mapRollo(copia), nil
}

func valorOCero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

func copiarTallas(t map[string]int) map[string]int {
	if t == nil {
		return nil
	}
	out := make(map[string]int, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}
