package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"donationsync/internal/infra"
	signalstore "donationsync/internal/signal"
	"donationsync/internal/stubapi"
)

// Local stand-in for the remote donation service, seeded with demo records.
// POST /flag flips the shared invalidation file so a running agent picks the
// change up on its next poll.
func main() {
	_ = godotenv.Load(".env", ".env.local")

	appEnv := envOr("APP_ENV", "development")
	port := envOr("STUB_PORT", "9090")
	flagPath := envOr("SIGNAL_FLAG_PATH", ".donations-dirty")
	demoUser := envOr("STUB_DEMO_USER", "demo-user")

	logger := infra.NewLogger(appEnv)

	server := stubapi.NewServer(logger, signalstore.NewFile(flagPath))
	server.SeedDemo(demoUser)

	httpServer := infra.NewHTTPServer(&infra.Config{Port: port}, server.Handler())

	go func() {
		logger.Info().Msgf("stub donation api listening on :%s (demo user %s)", port, demoUser)
		if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("stub server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)
	logger.Info().Msg("stub server stopped")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
