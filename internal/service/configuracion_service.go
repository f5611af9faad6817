package service

import (
	"context"
	"time"

	"liquidaciontextil/internal/config"
	"liquidaciontextil/internal/dto"
	"liquidaciontextil/internal/model"
	"liquidaciontextil/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ConfiguracionService exposes the company data and the global numbering counter.
type ConfiguracionService interface {
	Obtener(ctx context.Context) (dto.ConfiguracionResponse, error)
	Actualizar(ctx context.Context, req dto.ActualizarConfiguracionRequest) (dto.ConfiguracionResponse, error)
	SiguienteNumero(ctx context.Context) (dto.SiguienteNumeroResponse, error)
}

type configuracionService struct {
	repo      repository.ConfiguracionRepository
	defaults  model.Configuracion
	txTimeout time.Duration
}

func NewConfiguracionService(repo repository.ConfiguracionRepository, defaults model.Configuracion, txTimeout time.Duration) ConfiguracionService {
	return &configuracionService{repo: repo, defaults: defaults, txTimeout: txTimeout}
}

// DefaultsConfiguracion returns the values the singleton is created with on first use.
func DefaultsConfiguracion(cfg *config.Config) model.Configuracion {
	d := model.Configuracion{NombreEmpresa: cfg.EmpresaNombre, SiguienteNumero: 1}
	if cfg.EmpresaTelefono != "" {
		tel := cfg.EmpresaTelefono
		d.Telefono = &tel
	}
	return d
}

func (s *configuracionService) Obtener(ctx context.Context) (dto.ConfiguracionResponse, error) {
	c, err := s.repo.Get(ctx, nil, s.defaults)
	if err != nil {
		return dto.ConfiguracionResponse{}, err
	}
	return mapConfiguracion(c), nil
}

func (s *configuracionService) Actualizar(ctx context.Context, req dto.ActualizarConfiguracionRequest) (dto.ConfiguracionResponse, error) {
	var c *model.Configuracion
	err := runTx(ctx, s.repo.DB(), s.txTimeout, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		c, err = s.repo.GetForUpdate(ctx, tx, s.defaults)
		if err != nil {
			return err
		}
		if req.NombreEmpresa != nil {
			c.NombreEmpresa = *req.NombreEmpresa
		}
		if req.Telefono != nil {
			c.Telefono = req.Telefono
		}
		if req.Direccion != nil {
			c.Direccion = req.Direccion
		}
		if req.NIT != nil {
			c.NIT = req.NIT
		}
		if req.SiguienteNumero != nil {
			c.SiguienteNumero = *req.SiguienteNumero
		}
		if req.PrefijoLiquidacion != nil {
			c.PrefijoLiquidacion = *req.PrefijoLiquidacion
		}
		return s.repo.Update(ctx, tx, c)
	})
	if err != nil {
		return dto.ConfiguracionResponse{}, err
	}
	if req.SiguienteNumero != nil {
		log.Warn().Int("siguiente_numero", c.SiguienteNumero).Msg("contador de liquidaciones ajustado manualmente")
	}
	return mapConfiguracion(c), nil
}

func (s *configuracionService) SiguienteNumero(ctx context.Context) (dto.SiguienteNumeroResponse, error) {
	c, err := s.repo.Get(ctx, nil, s.defaults)
	if err != nil {
		return dto.SiguienteNumeroResponse{}, err
	}
	return dto.SiguienteNumeroResponse{
		SiguienteNumero:  c.SiguienteNumero,
		NumeroFormateado: FormatearNumero(c.PrefijoLiquidacion, c.SiguienteNumero),
	}, nil
}
