package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"donationsync/internal/domain"
	"donationsync/internal/engine"
	httpapi "donationsync/internal/http"
	"donationsync/internal/http/handlers"
	"donationsync/internal/infra"
	"donationsync/internal/infra/geoip"
	"donationsync/internal/middleware"
	"donationsync/internal/remote"
	signalstore "donationsync/internal/signal"
)

func main() {
	_ = godotenv.Load(".env", ".env.local")

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()

	signals, cleanup, err := newSignalStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize signal store")
	}
	defer cleanup()

	api, err := remote.NewClient(remote.Options{
		BaseURL: cfg.DonationAPIBaseURL,
		Logger:  &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build donation api client")
	}

	manager := engine.NewManager(api, signals, logger, cfg.PollInterval)
	defer manager.Close()

	var lookup middleware.CountryLookup
	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	} else if resolver != nil {
		defer resolver.Close()
		lookup = resolver.CountryCode
	}

	app := handlers.NewApp(manager, logger)
	router := httpapi.NewRouter(app, httpapi.RouterOptions{
		Logger:         logger,
		AllowedOrigins: cfg.AllowedOrigins,
		DefaultLocale:  cfg.DefaultLocale,
		CountryLookup:  lookup,
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("sync agent listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("agent stopped")
}

func newSignalStore(ctx context.Context, cfg *infra.Config) (domain.SignalStore, func(), error) {
	switch cfg.SignalBackend {
	case infra.SignalBackendPostgres:
		pool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		store := signalstore.NewPostgres(pool, cfg.SignalFlagName)
		if err := store.Init(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return store, pool.Close, nil
	case infra.SignalBackendMemory:
		return signalstore.NewMemory(), func() {}, nil
	default:
		return signalstore.NewFile(cfg.SignalFlagPath), func() {}, nil
	}
}
