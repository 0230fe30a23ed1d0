package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"prompt-arena/internal/artifact"
	"prompt-arena/internal/config"
	"prompt-arena/internal/db"
	"prompt-arena/internal/game"
	"prompt-arena/internal/server"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Warn().Err(err).Msg("failed to load .env")
	}
	cfg := config.Load()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	var persist game.Persistence
	if conn, err := db.Open(); err != nil {
		log.Warn().Err(err).Msg("running without persistence")
	} else {
		if err := db.Migrate(conn); err != nil {
			log.Fatal().Err(err).Msg("database migration failed")
		}
		persist = db.NewSnapshotStore(conn)
	}

	var generator artifact.Generator = artifact.Placeholder{}
	if cfg.OpenAIAPIKey != "" {
		generator = artifact.NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIImageModel)
	}

	store := game.NewStore(persist, generator, game.Options{
		LockWait:        time.Duration(cfg.LockWaitSeconds) * time.Second,
		GenerateTimeout: time.Duration(cfg.GenerateTimeoutSeconds) * time.Second,
		Defaults: game.Defaults{
			MaxTeams:         cfg.MaxTeams,
			MaxTeamMembers:   cfg.MaxTeamMembers,
			TimeLimitSeconds: cfg.TimeLimitSeconds,
			RoundsCount:      cfg.RoundsCount,
		},
	})
	if restored := store.LoadFromPersistence(); restored > 0 {
		log.Info().Int("sessions", restored).Msg("restored persisted sessions")
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: server.New(store, cfg).Router(),
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("prompt-arena server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("shutdown incomplete")
	}
	store.Flush()
	log.Info().Msg("server stopped")
}
