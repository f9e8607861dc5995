package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httpadapter "resume-tailor/internal/adapter/http"
	"resume-tailor/internal/adapter/repository"
	"resume-tailor/internal/config"
	"resume-tailor/internal/logger"
	"resume-tailor/internal/usecase"
	"resume-tailor/pkg/llm"
	"resume-tailor/pkg/render"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	zlog := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer zlog.Sync() //nolint:errcheck

	manager, err := llm.NewManager(ctx, cfg.LLM, zlog)
	if err != nil {
		zlog.Fatal("provider setup failed", zap.Error(err))
	}

	var runs usecase.RunsStore
	if cfg.RunsDatabaseURL != "" {
		pool, err := repository.NewRunsPool(ctx, cfg.RunsDatabaseURL)
		if err != nil {
			zlog.Warn("run history disabled: database not available", zap.Error(err))
		} else {
			defer pool.Close()
			runs = repository.NewRunsRepo(pool)
		}
	}

	renderer := render.NewRenderer(zlog)
	pipeline := usecase.NewPipeline(manager, renderer, runs,
		cfg.OutputDir, cfg.Render, string(cfg.LLM.Provider), cfg.Debug, zlog)

	app := fiber.New(fiber.Config{
		BodyLimit: 16 * 1024 * 1024,
		AppName:   "resume-tailor",
	})
	httpadapter.NewHandler(pipeline, zlog).Register(app)

	zlog.Info("server starting",
		zap.String("port", cfg.Port),
		zap.String("provider", string(cfg.LLM.Provider)),
		zap.Strings("render_backends", backendNames()))

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			zlog.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down")
	if err := app.Shutdown(); err != nil {
		zlog.Error("shutdown failed", zap.Error(err))
	}
}

func backendNames() []string {
	backends := render.DetectAvailable()
	names := make([]string, len(backends))
	for i, b := range backends {
		names[i] = string(b)
	}
	return names
}
