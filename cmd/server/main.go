package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"liquidaciontextil/internal/config"
	"liquidaciontextil/internal/infra"
	"liquidaciontextil/internal/metrics"
	"liquidaciontextil/internal/repository"
	"liquidaciontextil/internal/router"
	"liquidaciontextil/internal/service"
	"liquidaciontextil/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

func main() {
	// Metros and cantidades go over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: dev pretty, prod JSON
	if cfg.Env == "production" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL, cfg.DBMaxOpenConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	rec := metrics.New()

	smtpCfg := infra.DefaultCBConfig("smtp")
	smtpCfg.OnStateChange = func(name string, _, to infra.CBState) {
		rec.SetBreakerState(name, int(to))
	}
	smtpCB := infra.NewCircuitBreaker(smtpCfg)

	// Background email delivery. Handlers are wired here (composition root)
	// so the pool has access to the repositories and the mailer.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dispatcher := worker.NewDispatcher(rdb)
	envio := worker.NewEnvioWorker(
		repository.NewLiquidacionRepository(db),
		repository.NewConfiguracionRepository(db),
		service.DefaultsConfiguracion(cfg),
		infra.NewMailer(cfg),
		smtpCB,
		cfg.PDFStoragePath,
	)
	pool := worker.NewPool(rdb, dispatcher, cfg.EmailMaxIntentos, rec)
	pool.Handle(worker.JobEnvioLiquidacion, envio.Process)
	pool.Start(ctx, cfg.WorkerPoolSize)

	if err := worker.StartRetryCron(ctx, worker.RetryCronConfig{RDB: rdb, CB: smtpCB, Metrics: rec}); err != nil {
		log.Fatal().Err(err).Msg("failed to start retry cron")
	}

	r := router.New(router.Deps{
		Config:     cfg,
		DB:         db,
		Redis:      rdb,
		Dispatcher: dispatcher,
		SMTPCB:     smtpCB,
		Metrics:    rec,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("liquidaciones backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
