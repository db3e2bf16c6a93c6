package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/amirasaad/budgettracker/infra/initializer"
	"github.com/amirasaad/budgettracker/pkg/app"
	"github.com/amirasaad/budgettracker/pkg/config"
	"github.com/amirasaad/budgettracker/webapi"
	log "github.com/charmbracelet/log"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}

	deps, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	if closer, ok := deps.EventBus.(io.Closer); ok {
		defer closer.Close() //nolint:errcheck
	}

	fiberApp := webapi.SetupApp(app.New(deps))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	slog.Default().Info("Starting server",
		"env", cfg.Env,
		"address", addr,
		"scheme", cfg.Server.Scheme,
	)
	return fiberApp.Listen(addr)
}
