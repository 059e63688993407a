package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/nfrund/accounttabs/internal/config"
	"github.com/nfrund/accounttabs/internal/logging"
	"github.com/nfrund/accounttabs/internal/server"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logging.New(cfg.GetLogFormat(), cfg.GetLogLevel())

	// Create a new server instance.
	s, err := server.New(context.Background(), cfg)
	if err != nil {
		slog.Error("Failed to initialize server", "error", err)
		os.Exit(1)
	}

	// Start the server.
	if err := s.Start(cfg.GetAppAddr()); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}
