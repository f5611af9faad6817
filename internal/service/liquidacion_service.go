package service

import (
	"bytes"
	"context"
	"time"

	"liquidaciontextil/internal/apierror"
	"liquidaciontextil/internal/dto"
	"liquidaciontextil/internal/infra"
	"liquidaciontextil/internal/lifecycle"
	"liquidaciontextil/internal/metrics"
	"liquidaciontextil/internal/model"
	"liquidaciontextil/internal/repository"
	"liquidaciontextil/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const msgSinDestinatario = "El cliente no tiene email registrado; indique un destinatario"

// Encolador queues liquidación deliveries. *worker.Dispatcher implements it.
type Encolador interface {
	EnqueueEnvioLiquidacion(ctx context.Context, payload worker.EnvioLiquidacionPayload) error
}

type LiquidacionService interface {
	Crear(ctx context.Context, req dto.CrearLiquidacionRequest) (dto.LiquidacionResponse, error)
	Listar(ctx context.Context) ([]dto.LiquidacionResumen, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (dto.LiquidacionResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarLiquidacionRequest) (dto.LiquidacionResponse, error)
	ActualizarEstado(ctx context.Context, id uuid.UUID, req dto.ActualizarEstadoRequest) (dto.LiquidacionResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
	// GenerarPDF renders the liquidación and returns the document with its numero.
	GenerarPDF(ctx context.Context, id uuid.UUID) ([]byte, string, error)
	EnviarPorEmail(ctx context.Context, id uuid.UUID, req dto.EnviarLiquidacionRequest) (dto.EnvioEncoladoResponse, error)
}

type liquidacionService struct {
	repo      repository.LiquidacionRepository
	clientes  repository.ClienteRepository
	config    repository.ConfiguracionRepository
	numerador *Numerador
	envios    Encolador
	defaults  model.Configuracion
	metrics   *metrics.Recorder
	txTimeout time.Duration
}

func NewLiquidacionService(
	repo repository.LiquidacionRepository,
	clientes repository.ClienteRepository,
	config repository.ConfiguracionRepository,
	numerador *Numerador,
	envios Encolador,
	defaults model.Configuracion,
	rec *metrics.Recorder,
	txTimeout time.Duration,
) LiquidacionService {
	return &liquidacionService{
		repo:      repo,
		clientes:  clientes,
		config:    config,
		numerador: numerador,
		envios:    envios,
		defaults:  defaults,
		metrics:   rec,
		txTimeout: txTimeout,
	}
}

func (s *liquidacionService) Crear(ctx context.Context, req dto.CrearLiquidacionRequest) (dto.LiquidacionResponse, error) {
	fecha, err := parseFecha(req.Fecha)
	if err != nil {
		return dto.LiquidacionResponse{}, err
	}
	clienteID, err := parseID(req.ClienteID, "cliente_id")
	if err != nil {
		return dto.LiquidacionResponse{}, err
	}
	estado := model.EstadoBorrador
	if req.Estado != nil {
		if !lifecycle.EstadoValido(*req.Estado) {
			return dto.LiquidacionResponse{}, apierror.Validation("Estado inválido")
		}
		estado = model.EstadoLiquidacion(*req.Estado)
	}

	var creada *model.Liquidacion
	err = runTx(ctx, s.repo.DB(), s.txTimeout, func(ctx context.Context, tx *gorm.DB) error {
		// Shared lock: a concurrent cliente delete waits for this insert and then sees it.
		if _, err := s.clientes.LockByID(ctx, tx, clienteID, repository.LockShare); err != nil {
			return notFound(err, msgClienteNoEncontrado)
		}
		numero, err := s.numerador.SiguienteLiquidacion(ctx, tx)
		if err != nil {
			return err
		}
		l := &model.Liquidacion{
			Numero:          numero,
			Fecha:           fecha,
			ClienteID:       clienteID,
			OrdenProduccion: req.OrdenProduccion,
			Referencia:      req.Referencia,
			Observaciones:   req.Observaciones,
			Estado:          estado,
		}
		// The unique index on numero catches a counter moved back by hand.
		if err := duplicado(s.repo.Create(ctx, tx, l), msgNumeroDuplicado); err != nil {
			return err
		}
		creada, err = s.repo.FindDetalle(ctx, tx, l.ID)
		return err
	})
	if err != nil {
		return dto.LiquidacionResponse{}, err
	}

	s.metrics.RecordLiquidacion("creada")
	log.Info().
		Str("liquidacion_id", creada.ID.String()).
		Str("numero", creada.Numero).
		Str("cliente_id", clienteID.String()).
		Msg("liquidacion creada")
	return mapLiquidacion(creada), nil
}

func (s *liquidacionService) Listar(ctx context.Context) ([]dto.LiquidacionResumen, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.LiquidacionResumen, 0, len(list))
	for i := range list {
		result = append(result, mapLiquidacionResumen(&list[i]))
	}
	return result, nil
}

func (s *liquidacionService) ObtenerPorID(ctx context.Context, id uuid.UUID) (dto.LiquidacionResponse, error) {
	l, err := s.repo.FindDetalle(ctx, nil, id)
	if err != nil {
		return dto.LiquidacionResponse{}, notFound(err, msgLiquidacionNoEncontrada)
	}
	return mapLiquidacion(l), nil
}

// Actualizar merges the liquidación's own fields. A finalizada liquidación still
// accepts these edits; only its rollos and espigas are frozen.
func (s *liquidacionService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarLiquidacionRequest) (dto.LiquidacionResponse, error) {
	var actualizada *model.Liquidacion
	err := runTx(ctx, s.repo.DB(), s.txTimeout, func(ctx context.Context, tx *gorm.DB) error {
		l, err := s.repo.LockByID(ctx, tx, id)
		if err != nil {
			return notFound(err, msgLiquidacionNoEncontrada)
		}
		if l.Estado == model.EstadoFinalizada {
			log.Warn().Str("liquidacion_id", id.String()).Msg("edicion de campos en liquidacion finalizada")
		}

		if req.Fecha != nil {
			fecha, err := parseFecha(*req.Fecha)
			if err != nil {
				return err
			}
			l.Fecha = fecha
		}
		if req.ClienteID != nil {
			clienteID, err := parseID(*req.ClienteID, "cliente_id")
			if err != nil {
				return err
			}
			if clienteID != l.ClienteID {
				if _, err := s.clientes.LockByID(ctx, tx, clienteID, repository.LockShare); err != nil {
					return notFound(err, msgClienteNoEncontrado)
				}
				l.ClienteID = clienteID
			}
		}
		if req.OrdenProduccion != nil {
			l.OrdenProduccion = req.OrdenProduccion
		}
		if req.Referencia != nil {
			l.Referencia = req.Referencia
		}
		if req.Observaciones != nil {
			l.Observaciones = req.Observaciones
		}
		if req.Estado != nil {
			if !lifecycle.EstadoValido(*req.Estado) {
				return apierror.Validation("Estado inválido")
			}
			l.Estado = model.EstadoLiquidacion(*req.Estado)
		}

		if err := s.repo.Update(ctx, tx, l); err != nil {
			return err
		}
		actualizada, err = s.repo.FindDetalle(ctx, tx, id)
		return err
	})
	if err != nil {
		return dto.LiquidacionResponse{}, err
	}
	return mapLiquidacion(actualizada), nil
}

// ActualizarEstado is the administrative override: any valid estado may be set,
// including moving a finalizada liquidación back to an editable state.
func (s *liquidacionService) ActualizarEstado(ctx context.Context, id uuid.UUID, req dto.ActualizarEstadoRequest) (dto.LiquidacionResponse, error) {
	if !lifecycle.EstadoValido(req.Estado) {
		return dto.LiquidacionResponse{}, apierror.Validation("Estado inválido")
	}
	nuevo := model.EstadoLiquidacion(req.Estado)

	var (
		anterior    model.EstadoLiquidacion
		actualizada *model.Liquidacion
	)
	err := runTx(ctx, s.repo.DB(), s.txTimeout, func(ctx context.Context, tx *gorm.DB) error {
		l, err := s.repo.LockByID(ctx, tx, id)
		if err != nil {
			return notFound(err, msgLiquidacionNoEncontrada)
		}
		anterior = l.Estado
		if err := s.repo.UpdateEstado(ctx, tx, id, nuevo); err != nil {
			return err
		}
		actualizada, err = s.repo.FindDetalle(ctx, tx, id)
		return err
	})
	if err != nil {
		return dto.LiquidacionResponse{}, err
	}

	if anterior != nuevo {
		s.metrics.RecordLiquidacion("estado_" + string(nuevo))
		log.Info().
			Str("liquidacion_id", id.String()).
			Str("de", string(anterior)).
			Str("a", string(nuevo)).
			Msg("estado de liquidacion cambiado")
	}
	return mapLiquidacion(actualizada), nil
}

func (s *liquidacionService) Eliminar(ctx context.Context, id uuid.UUID) error {
	err := runTx(ctx, s.repo.DB(), s.txTimeout, func(ctx context.Context, tx *gorm.DB) error {
		l, err := s.repo.LockByID(ctx, tx, id)
		if err != nil {
			return notFound(err, msgLiquidacionNoEncontrada)
		}
		if err := lifecycle.VerificarEliminable(l.Estado); err != nil {
			return err
		}
		return s.repo.Delete(ctx, tx, id)
	})
	if err != nil {
		return err
	}
	s.metrics.RecordLiquidacion("eliminada")
	log.Info().Str("liquidacion_id", id.String()).Msg("liquidacion eliminada")
	return nil
}

func (s *liquidacionService) GenerarPDF(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	l, err := s.repo.FindDetalle(ctx, nil, id)
	if err != nil {
		return nil, "", notFound(err, msgLiquidacionNoEncontrada)
	}
	empresa, err := s.config.Get(ctx, nil, s.defaults)
	if err != nil {
		return nil, "", err
	}
	var buf bytes.Buffer
	if err := infra.RenderLiquidacionPDF(&buf, infra.LiquidacionPDF{Liquidacion: l, Empresa: empresa}); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), l.Numero, nil
}

// EnviarPorEmail queues the PDF delivery. The job re-reads the liquidación when it
// runs, so the mail reflects the state at send time.
func (s *liquidacionService) EnviarPorEmail(ctx context.Context, id uuid.UUID, req dto.EnviarLiquidacionRequest) (dto.EnvioEncoladoResponse, error) {
	l, err := s.repo.FindDetalle(ctx, nil, id)
	if err != nil {
		return dto.EnvioEncoladoResponse{}, notFound(err, msgLiquidacionNoEncontrada)
	}

	destinatario := ""
	switch {
	case req.Email != nil && *req.Email != "":
		destinatario = *req.Email
	case l.Cliente != nil && l.Cliente.Email != nil:
		destinatario = *l.Cliente.Email
	}
	if destinatario == "" {
		return dto.EnvioEncoladoResponse{}, apierror.Validation(msgSinDestinatario)
	}

	payload := worker.EnvioLiquidacionPayload{LiquidacionID: l.ID.String(), Destinatario: destinatario}
	if err := s.envios.EnqueueEnvioLiquidacion(ctx, payload); err != nil {
		return dto.EnvioEncoladoResponse{}, err
	}

	log.Info().Str("liquidacion_id", l.ID.String()).Str("to", destinatario).Msg("envio de liquidacion encolado")
	return dto.EnvioEncoladoResponse{
		LiquidacionID: l.ID.String(),
		Destinatario:  destinatario,
		Message:       "Envío de la liquidación " + l.Numero + " encolado",
	}, nil
}

func parseFecha(s string) (time.Time, error) {
	t, err := time.Parse(dto.FormatoFecha, s)
	if err != nil {
		return time.Time{}, apierror.Validation("Fecha inválida, formato esperado AAAA-MM-DD").WithMeta("fecha", s)
	}
	return t, nil
}

func parseID(s, campo string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, apierror.Validation(campo + " inválido")
	}
	return id, nil
}
