package main

import (
	"log/slog"
	"os"

	"github.com/unsaidapp/unsaid/pkg/config"
	"github.com/unsaidapp/unsaid/pkg/logging"
	"github.com/unsaidapp/unsaid/pkg/version"
	"github.com/unsaidapp/unsaid/ui"
)

func main() {
	cfg := config.Load()
	_ = logging.Setup(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: os.Stdout,
	})

	slog.Info("starting unsaid client", "version", version.String(), "api", cfg.APIBaseURL)

	app, err := ui.NewApp(cfg)
	if err != nil {
		slog.Error("startup failed", "err", err)
		os.Exit(1)
	}
	app.Run()
}
