package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/ArulKumar8270/corpculture-invoicing/internal/application/dispatcher"
	"github.com/ArulKumar8270/corpculture-invoicing/internal/application/service"
	"github.com/ArulKumar8270/corpculture-invoicing/internal/config"
	"github.com/ArulKumar8270/corpculture-invoicing/internal/domain/event"
	"github.com/ArulKumar8270/corpculture-invoicing/internal/export"
	"github.com/ArulKumar8270/corpculture-invoicing/internal/infrastructure/external/erp"
	"github.com/ArulKumar8270/corpculture-invoicing/internal/infrastructure/persistence/repository"
	httpserver "github.com/ArulKumar8270/corpculture-invoicing/internal/interfaces/http"
	"github.com/ArulKumar8270/corpculture-invoicing/pkg/database"
	"github.com/ArulKumar8270/corpculture-invoicing/pkg/utils"
)

func main() {
	// Local development credentials from .env; missing file is fine.
	_ = gotenv.Load()

	// Load configuration
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting invoicing workflow service",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	// Initialize database
	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Initialize repositories
	draftRepo := repository.NewDraftRepository(db.DB, logger)
	submissionRepo := repository.NewSubmissionRepository(db.DB, logger)

	// Initialize ERP backend adapters
	erpClient := erp.NewClient(cfg.ERP.BaseURL, cfg.ERP.AuthToken, cfg.ERP.Timeout, logger)
	refData := erp.NewReferenceAPI(erpClient, logger)
	invoiceGateway := erp.NewInvoiceAPI(erpClient, logger)
	sideEffects := erp.NewSideEffectAPI(erpClient, logger)

	// Initialize exporter
	exporter, err := export.NewExporter(export.Config{
		OutputDir:   cfg.Export.OutputDir,
		CompanyName: cfg.Export.CompanyName,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize exporter", zap.Error(err))
	}

	// Event dispatcher with a notification log subscriber per lifecycle event
	serviceLogger := utils.NewKVLogger(logger)
	eventDispatcher := dispatcher.NewDispatcher(dispatcher.WithLogger(serviceLogger))
	subscribeNotifications(eventDispatcher, logger)

	// Initialize application services
	draftService := service.NewDraftService(draftRepo, refData, eventDispatcher, serviceLogger)
	submissionService := service.NewSubmissionService(
		draftRepo,
		submissionRepo,
		invoiceGateway,
		sideEffects,
		eventDispatcher,
		serviceLogger,
	)

	// Initialize HTTP server
	server := httpserver.NewServer(
		httpserver.ServerConfig{
			Host:         cfg.Server.Host,
			Port:         cfg.Server.Port,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		draftService,
		submissionService,
		refData,
		exporter,
		serviceLogger,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(ctx)
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("Shutting down server...")
		cancel()
		<-errCh
	case err := <-errCh:
		if err != nil {
			logger.Error("HTTP server failed", zap.Error(err))
		}
	}

	// Let in-flight post-processing chains finish before closing the database.
	done := make(chan struct{})
	go func() {
		submissionService.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(35 * time.Second):
		logger.Warn("Timed out waiting for post-processing to drain")
	}

	if err := eventDispatcher.Close(); err != nil {
		logger.Error("Failed to close event dispatcher", zap.Error(err))
	}

	logger.Info("Server exited successfully")
}

// subscribeNotifications logs user-facing lifecycle notifications. This is
// where a real notification channel (email, push) would hook in.
func subscribeNotifications(d dispatcher.Dispatcher, logger *zap.Logger) {
	notify := func(title string) dispatcher.Handler {
		return func(ctx context.Context, evt *event.Event) error {
			logger.Info(title,
				zap.String("draft_id", evt.DraftID),
				zap.Any("payload", evt.Payload))
			return nil
		}
	}

	d.SubscribeNamed(event.TypeSubmissionSucceeded, "notify-success", notify("Invoice saved"))
	d.SubscribeNamed(event.TypeSubmissionFailed, "notify-failure", notify("Invoice could not be saved"))
	d.SubscribeNamed(event.TypeSubmissionWarning, "notify-warning", notify("Post-processing step failed"))
	d.SubscribeNamed(event.TypePostProcessingDone, "notify-complete", notify("Invoice processing complete"))
}
