package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Neakz-star/La-Desesperanza/internal/config"
	"github.com/Neakz-star/La-Desesperanza/internal/infra"
	"github.com/Neakz-star/La-Desesperanza/internal/realtime"
	"github.com/Neakz-star/La-Desesperanza/internal/repository"
	"github.com/Neakz-star/La-Desesperanza/internal/router"
	"github.com/Neakz-star/La-Desesperanza/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Presence hub, bridged across instances through Redis pub/sub
	hub := realtime.NewHub(rdb)
	go hub.Run(ctx)

	// Goroutine worker pool for async receipt rendering and mailing
	mailer := infra.NewMailer(cfg)
	compraRepo := repository.NewCompraRepository(db)
	ticketWorker := worker.NewTicketWorker(compraRepo, mailer, cfg)
	worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, ticketWorker)

	r := router.New(cfg, db, rdb, hub)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("%s backend listening on :%d", cfg.NombreNegocio, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
