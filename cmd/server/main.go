package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/lamic-ufsm/patrimonio/internal/config"
	"github.com/lamic-ufsm/patrimonio/internal/domain/models"
	"github.com/lamic-ufsm/patrimonio/internal/repository/memory"
	"github.com/lamic-ufsm/patrimonio/internal/repository/mongodb"
	"github.com/lamic-ufsm/patrimonio/internal/repository/sheets"
	"github.com/lamic-ufsm/patrimonio/internal/scheduler"
	"github.com/lamic-ufsm/patrimonio/internal/server/handlers"
	"github.com/lamic-ufsm/patrimonio/internal/server/router"
	assetsvc "github.com/lamic-ufsm/patrimonio/internal/service/assets"
	chatsvc "github.com/lamic-ufsm/patrimonio/internal/service/chat"
	reportingsvc "github.com/lamic-ufsm/patrimonio/internal/service/reporting"
	"github.com/lamic-ufsm/patrimonio/pkg/clients/anthropic"
	"github.com/lamic-ufsm/patrimonio/pkg/logger"
)

// store is what both the in-memory and the MongoDB repositories provide.
type store interface {
	assetsvc.Repository
	SaveSnapshot(ctx context.Context, summary models.InventorySummary) error
	Close(ctx context.Context) error
}

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	repo := openStore(cfg, baseLogger)
	defer func() {
		if err := repo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close repository", zap.Error(err))
		}
	}()

	var sheetsRepo sheets.Repository
	if cfg.Sheets.Enabled() {
		sheetsRepo, err = sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, logger.Named(baseLogger, "repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
	} else {
		baseLogger.Warn("google sheets not configured, snapshots stay in the repository only")
	}

	assetService := assetsvc.NewService(repo, cfg.Inventory.Rooms, logger.Named(baseLogger, "svc.assets"))
	reportingService := reportingsvc.NewService(repo, repo, sheetsRepo, cfg.Inventory.Rooms, logger.Named(baseLogger, "svc.reporting"))

	var aiClient anthropic.Client
	if cfg.AI.AnthropicKey != "" {
		aiClient = anthropic.NewClient(cfg.AI.AnthropicKey, anthropic.WithModel(cfg.AI.Model))
		baseLogger.Info("anthropic ai client enabled", zap.String("model", cfg.AI.Model))
	} else {
		baseLogger.Warn("anthropic api key missing, chat assistant disabled")
	}
	chatService := chatsvc.NewService(aiClient, assetService, logger.Named(baseLogger, "svc.chat"))

	engine := router.New(router.Handlers{
		Assets: handlers.NewAssetHandler(assetService, logger.Named(baseLogger, "handlers.assets")),
		Export: handlers.NewExportHandler(repo, reportingService, logger.Named(baseLogger, "handlers.export")),
		Chat:   handlers.NewChatHandler(chatService, logger.Named(baseLogger, "handlers.chat")),
	}, cfg.Server.CORSOrigins, logger.Named(baseLogger, "router"))

	sched, err := scheduler.NewScheduler(cfg.Reporting, reportingService, logger.Named(baseLogger, "scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.Strings("rooms", cfg.Inventory.Rooms))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func openStore(cfg *config.Config, baseLogger *zap.Logger) store {
	if cfg.MongoDB.URI == "" {
		baseLogger.Warn("MONGODB_URI not set, using in-memory repository")
		return memory.NewRepository()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	repo, err := mongodb.NewMongoDBRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName, cfg.Inventory.Rooms, logger.Named(baseLogger, "repo.mongodb"))
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	return repo
}
