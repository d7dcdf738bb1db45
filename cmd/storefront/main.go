package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Skotchmaster/storefront/internal/app"
	"github.com/Skotchmaster/storefront/pkg/config"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	config.MustHave(log, cfg, "DATABASE_URL", "JWT_SECRET")

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	deps, closeDeps, err := app.Build(initCtx, cfg, log)
	cancel()
	if err != nil {
		log.Error("init_failed", "error", err)
		os.Exit(1)
	}

	e := app.NewServer(deps)
	addr := ":" + strconv.Itoa(cfg.ServerPort)

	go func() {
		log.Info("server_starting", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server_failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Info("server_shutting_down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("server_shutdown_failed", "error", err)
	}
	if err := closeDeps(); err != nil {
		log.Error("close_failed", "error", err)
	}

	log.Info("server_stopped")
}
