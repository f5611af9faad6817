package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"liquidaciontextil/internal/apierror"
	"liquidaciontextil/internal/calculo"
	"liquidaciontextil/internal/dto"
	"liquidaciontextil/internal/model"
	"liquidaciontextil/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ClienteService defines business operations for clientes.
type ClienteService interface {
	Crear(ctx context.Context, req dto.CrearClienteRequest) (dto.ClienteResponse, error)
	Listar(ctx context.Context) ([]dto.ClienteListItem, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (dto.ClienteDetalleResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarClienteRequest) (dto.ClienteResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type clienteService struct {
	repo      repository.ClienteRepository
	txTimeout time.Duration
}

func NewClienteService(repo repository.ClienteRepository, txTimeout time.Duration) ClienteService {
	return &clienteService{repo: repo, txTimeout: txTimeout}
}

func (s *clienteService) Crear(ctx context.Context, req dto.CrearClienteRequest) (dto.ClienteResponse, error) {
	c := &model.Cliente{
		Nombre:    req.Nombre,
		NIT:       req.NIT,
		Telefono:  req.Telefono,
		Email:     normalizarEmail(req.Email),
		Direccion: req.Direccion,
	}
	err := runTx(ctx, s.repo.DB(), s.txTimeout, func(ctx context.Context, tx *gorm.DB) error {
		if err := s.verificarEmail(ctx, tx, c.Email, uuid.Nil); err != nil {
			return err
		}
		return duplicado(s.repo.Create(ctx, tx, c), msgEmailDuplicado)
	})
	if err != nil {
		return dto.ClienteResponse{}, err
	}
	log.Info().Str("cliente_id", c.ID.String()).Msg("cliente creado")
	return mapCliente(c), nil
}

func (s *clienteService) Listar(ctx context.Context) ([]dto.ClienteListItem, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.ClienteListItem, 0, len(list))
	for i := range list {
		c := &list[i]
		result = append(result, dto.ClienteListItem{
			ClienteResponse:    mapCliente(c),
			LiquidacionesCount: len(c.Liquidaciones),
			MetrosProcesados:   calculo.MetrosProcesados(c.Liquidaciones),
		})
	}
	return result, nil
}

func (s *clienteService) ObtenerPorID(ctx context.Context, id uuid.UUID) (dto.ClienteDetalleResponse, error) {
	c, err := s.repo.FindDetalle(ctx, id)
	if err != nil {
		return dto.ClienteDetalleResponse{}, notFound(err, msgClienteNoEncontrado)
	}
	resp := dto.ClienteDetalleResponse{
		ClienteResponse: mapCliente(c),
		Liquidaciones:   make([]dto.LiquidacionResumen, 0, len(c.Liquidaciones)),
	}
	for i := range c.Liquidaciones {
		resp.Liquidaciones = append(resp.Liquidaciones, mapLiquidacionResumen(&c.Liquidaciones[i]))
	}
	return resp, nil
}

func (s *clienteService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarClienteRequest) (dto.ClienteResponse, error) {
	var c *model.Cliente
	err := runTx(ctx, s.repo.DB(), s.txTimeout, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		c, err = s.repo.LockByID(ctx, tx, id, repository.LockUpdate)
		if err != nil {
			return notFound(err, msgClienteNoEncontrado)
		}
		if req.Nombre != nil {
			c.Nombre = *req.Nombre
		}
		if req.NIT != nil {
			c.NIT = req.NIT
		}
		if req.Telefono != nil {
			c.Telefono = req.Telefono
		}
		if req.Email != nil {
			// An explicit "" removes the email.
			email := normalizarEmail(req.Email)
			if err := s.verificarEmail(ctx, tx, email, c.ID); err != nil {
				return err
			}
			c.Email = email
		}
		if req.Direccion != nil {
			c.Direccion = req.Direccion
		}
		return duplicado(s.repo.Update(ctx, tx, c), msgEmailDuplicado)
	})
	if err != nil {
		return dto.ClienteResponse{}, err
	}
	return mapCliente(c), nil
}

// Eliminar refuses while the cliente still owns liquidaciones. The cliente row is
// locked first; liquidación creation takes a shared lock on it, so the count is stable.
func (s *clienteService) Eliminar(ctx context.Context, id uuid.UUID) error {
	err := runTx(ctx, s.repo.DB(), s.txTimeout, func(ctx context.Context, tx *gorm.DB) error {
		if _, err := s.repo.LockByID(ctx, tx, id, repository.LockUpdate); err != nil {
			return notFound(err, msgClienteNoEncontrado)
		}
		n, err := s.repo.CountLiquidaciones(ctx, tx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return apierror.Conflict(fmt.Sprintf(
				"No se puede eliminar el cliente porque tiene %d liquidación(es) asociada(s)", n,
			)).WithMeta("liquidaciones", n)
		}
		return s.repo.Delete(ctx, tx, id)
	})
	if err != nil {
		return err
	}
	log.Info().Str("cliente_id", id.String()).Msg("cliente eliminado")
	return nil
}

// normalizarEmail maps a blank email to nil so the unique index never sees "".
func normalizarEmail(email *string) *string {
	if email == nil {
		return nil
	}
	v := strings.TrimSpace(*email)
	if v == "" {
		return nil
	}
	return &v
}

// verificarEmail rejects an email already used by a cliente other than self.
func (s *clienteService) verificarEmail(ctx context.Context, tx *gorm.DB, email *string, self uuid.UUID) error {
	if email == nil {
		return nil
	}
	existing, err := s.repo.FindByEmail(ctx, tx, *email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != self {
		return apierror.Conflict(msgEmailDuplicado)
	}
	return nil
}
