package worker

// envio_worker.go
// Processes jobs from QueueEnvioLiquidacion: renders the liquidación PDF and
// mails it to the recipient through the SMTP circuit breaker.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"liquidaciontextil/internal/infra"
	"liquidaciontextil/internal/model"
	"liquidaciontextil/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// EnvioLiquidacionPayload is the job envelope sent to QueueEnvioLiquidacion.
type EnvioLiquidacionPayload struct {
	LiquidacionID string `json:"liquidacion_id"`
	Destinatario  string `json:"destinatario"`
}

// MailSender delivers one liquidación email. *infra.Mailer implements it.
type MailSender interface {
	SendLiquidacion(to, subject, body, pdfPath string) error
}

// EnvioWorker renders and mails liquidaciones.
type EnvioWorker struct {
	liquidaciones  repository.LiquidacionRepository
	config         repository.ConfiguracionRepository
	defaults       model.Configuracion
	mailer         MailSender
	cb             *infra.CircuitBreaker
	pdfStoragePath string
}

func NewEnvioWorker(
	liquidaciones repository.LiquidacionRepository,
	config repository.ConfiguracionRepository,
	defaults model.Configuracion,
	mailer MailSender,
	cb *infra.CircuitBreaker,
	pdfStoragePath string,
) *EnvioWorker {
	return &EnvioWorker{
		liquidaciones:  liquidaciones,
		config:         config,
		defaults:       defaults,
		mailer:         mailer,
		cb:             cb,
		pdfStoragePath: pdfStoragePath,
	}
}

// Process is the HandlerFunc for JobEnvioLiquidacion.
func (w *EnvioWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload EnvioLiquidacionPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("envio_worker: invalid payload: %w: %v", ErrPermanent, err)
	}
	if payload.Destinatario == "" {
		return fmt.Errorf("envio_worker: empty destinatario: %w", ErrPermanent)
	}
	id, err := uuid.Parse(payload.LiquidacionID)
	if err != nil {
		return fmt.Errorf("envio_worker: liquidacion_id: %w", ErrPermanent)
	}

	liq, err := w.liquidaciones.FindDetalle(ctx, nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// deleted after the job was queued
			log.Warn().Str("liquidacion_id", payload.LiquidacionID).Msg("envio_worker: liquidacion no longer exists, skipping")
			return nil
		}
		return err
	}
	empresa, err := w.config.Get(ctx, nil, w.defaults)
	if err != nil {
		return err
	}

	pdfPath, err := infra.GenerateLiquidacionPDF(infra.LiquidacionPDF{Liquidacion: liq, Empresa: empresa}, w.pdfStoragePath)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Liquidación %s - %s", liq.Numero, empresa.NombreEmpresa)
	body := fmt.Sprintf("Adjuntamos la liquidación %s del %s.\n\n%s",
		liq.Numero, liq.Fecha.Format("02/01/2006"), empresa.NombreEmpresa)

	send := func() error {
		return w.mailer.SendLiquidacion(payload.Destinatario, subject, body, pdfPath)
	}
	if w.cb != nil {
		err = w.cb.Execute(send)
	} else {
		err = send()
	}
	if err != nil {
		if errors.Is(err, infra.ErrMailerNoConfigurado) {
			return fmt.Errorf("%w: %v", ErrPermanent, err)
		}
		return err
	}

	log.Info().
		Str("liquidacion_id", payload.LiquidacionID).
		Str("numero", liq.Numero).
		Str("to", payload.Destinatario).
		Msg("envio_worker: liquidacion sent")
	return nil
}
