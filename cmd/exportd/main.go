package main

import (
	"context"
	"os"

	"github.com/structsheet/structsheet/internal/bootstrap"
	"github.com/structsheet/structsheet/internal/logger"
)

func main() {
	ctx := context.Background()

	app := bootstrap.NewApp()
	if err := app.Initialize(ctx); err != nil {
		logger.ErrorLog(ctx, "Failed to initialize application: %v", err)
		os.Exit(1)
	}

	if err := app.Run(); err != nil {
		logger.ErrorLog(ctx, "Application failed: %v", err)
		os.Exit(1)
	}
}
