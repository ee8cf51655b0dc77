package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/dkeye/Huddle/internal/adapters/http"
	wssignal "github.com/dkeye/Huddle/internal/adapters/signal"
	"github.com/dkeye/Huddle/internal/app"
	"github.com/dkeye/Huddle/internal/app/orch"
	"github.com/dkeye/Huddle/internal/auth"
	"github.com/dkeye/Huddle/internal/config"
	"github.com/dkeye/Huddle/internal/store"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	zerolog.SetGlobalLevel(cfg.Level())
	if cfg.Mode == "release" && (cfg.Secret == config.DefaultSecret || cfg.SessionSecret == config.DefaultSecret) {
		log.Warn().Msg("running in release mode with the default secret; set HUDDLE_SECRET and HUDDLE_SESSION_SECRET")
	}

	if cfg.FileName != "" {
		err := config.Watch(cfg.FileName, func(next *config.Config) {
			zerolog.SetGlobalLevel(next.Level())
			log.Info().Str("level", next.Level().String()).Msg("log level reloaded")
		})
		if err != nil {
			log.Warn().Err(err).Msg("config watch disabled")
		}
	}

	iceServers, err := cfg.WebRTCICEServers()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid ice_servers")
	}
	policy, err := app.NewPolicy(cfg.BackpressurePolicy)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid backpressure_policy")
	}

	tokens := auth.NewTokens(cfg.Secret, cfg.TokenTTL)
	o := orch.New(tokens, policy, cfg.RequireRelayAuth)
	ctl := wssignal.NewSignalWSController(o, wssignal.Options{
		ReadLimit:      cfg.ReadLimit,
		PingPeriod:     cfg.PingPeriod,
		PongWait:       cfg.PongWait,
		WriteWait:      cfg.WriteWait,
		SendBuffer:     cfg.SendBuffer,
		RateEvents:     cfg.RateLimit.Events,
		RateInterval:   cfg.RateLimit.Interval,
		AllowedOrigins: cfg.AllowedOrigins,
		ICEServers:     iceServers,
	})

	r := router.SetupRouter(ctx, cfg, router.Deps{
		Orch:       o,
		Signal:     ctl,
		Users:      store.NewMemoryUsers(cfg.BcryptCost),
		Rooms:      store.NewMemoryRooms(),
		Tokens:     tokens,
		ICEServers: iceServers,
	})
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Bool("relay_auth", cfg.RequireRelayAuth).Msg("Huddle server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	// Hijacked websockets are not tracked by Shutdown; ctx is already done so
	// the pumps are closing on their own.
	ctl.Wait()
	log.Info().Msg("Server exited gracefully")
}
