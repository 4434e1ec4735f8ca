package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/kitworks/kitops-backend/internal/operations/consumers"
	"github.com/kitworks/kitops-backend/internal/operations/events"
	"github.com/kitworks/kitops-backend/internal/operations/handler"
	"github.com/kitworks/kitops-backend/internal/operations/repository"
	"github.com/kitworks/kitops-backend/internal/operations/service"
	"github.com/kitworks/kitops-backend/pkg/config"
	"github.com/kitworks/kitops-backend/pkg/database"
	"github.com/kitworks/kitops-backend/pkg/httputil"
	"github.com/kitworks/kitops-backend/pkg/logger"
	"github.com/kitworks/kitops-backend/pkg/messaging"
)

func main() {
	// Load configuration with validation (fails fast in production if required config is missing)
	cfg, err := config.LoadWithValidation("operations-service")
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New("operations-service", cfg.Server.Environment)
	log.Info().Msg("starting Operations Service")

	// Connect to database
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Connect to RabbitMQ
	rmq, err := messaging.New(&cfg.RabbitMQ, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
	}
	defer rmq.Close()

	// Consumer queues route rejected messages to dlx.events; declare it first
	if err := rmq.DeclareDeadLetterQueue("operations-service"); err != nil {
		log.Fatal().Err(err).Msg("failed to declare dead letter queue")
	}

	// Initialize event publisher
	publisher, err := events.NewOperationsEventPublisher(rmq, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create event publisher")
	}

	// Initialize repositories
	clientRepo := repository.NewClientRepository(db)
	vendorRepo := repository.NewVendorRepository(db)
	kitRepo := repository.NewKitRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	jobRepo := repository.NewJobRepository(db)
	requestRepo := repository.NewRequestRepository(db)

	// Initialize service
	operationsService := service.NewOperationsService(
		db, clientRepo, vendorRepo, kitRepo, inventoryRepo,
		assignmentRepo, jobRepo, requestRepo, publisher, log,
	)

	// Initialize handlers
	clientHandler := handler.NewClientHandler(operationsService, log)
	vendorHandler := handler.NewVendorHandler(operationsService, log)
	kitHandler := handler.NewKitHandler(operationsService, log)
	inventoryHandler := handler.NewInventoryHandler(operationsService, log)
	assignmentHandler := handler.NewAssignmentHandler(operationsService, log)
	jobHandler := handler.NewJobHandler(operationsService, log)
	requestHandler := handler.NewRequestHandler(operationsService, log)
	reportHandler := handler.NewReportHandler(operationsService, cfg.Reports, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start stock event consumer
	stockConsumer, err := consumers.NewStockEventConsumer(rmq, requestRepo, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create stock event consumer")
	}
	if err := stockConsumer.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to start stock event consumer")
	}

	// Start background low stock scanner
	scanner := service.NewLowStockScanner(operationsService, cfg.Reports.LowStockScanInterval, log)
	scanner.Start(ctx)
	defer scanner.Stop()

	// Create router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]interface{}{
			"status":   "healthy",
			"service":  "operations-service",
			"database": db.Health(r.Context()),
			"rabbitmq": rmq.Health(),
		})
	})

	// API routes
	r.Route("/api/v1/operations", func(r chi.Router) {
		r.Route("/clients", func(r chi.Router) {
			r.Get("/", clientHandler.List)
			r.Post("/", clientHandler.Create)
			r.Get("/{id}", clientHandler.Get)
			r.Put("/{id}", clientHandler.Update)
			r.Delete("/{id}", clientHandler.Delete)
		})

		r.Route("/vendors", func(r chi.Router) {
			r.Get("/", vendorHandler.List)
			r.Post("/", vendorHandler.Create)
			r.Get("/{id}", vendorHandler.Get)
			r.Put("/{id}", vendorHandler.Update)
			r.Delete("/{id}", vendorHandler.Delete)
		})

		r.Route("/kits", func(r chi.Router) {
			r.Get("/", kitHandler.List)
			r.Post("/", kitHandler.Create)
			r.Get("/{id}", kitHandler.Get)
			r.Put("/{id}", kitHandler.Update)
			r.Delete("/{id}", kitHandler.Delete)
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/", inventoryHandler.List)
			r.Post("/", inventoryHandler.Create)
			r.Get("/low-stock", inventoryHandler.LowStock)
			r.Get("/{id}", inventoryHandler.Get)
			r.Put("/{id}", inventoryHandler.Update)
			r.Delete("/{id}", inventoryHandler.Delete)
			r.Post("/{id}/adjust", inventoryHandler.AdjustStock)
		})

		r.Route("/assignments", func(r chi.Router) {
			r.Get("/", assignmentHandler.List)
			r.Post("/", assignmentHandler.Create)
			r.Get("/{id}", assignmentHandler.Get)
			r.Put("/{id}", assignmentHandler.Update)
			r.Delete("/{id}", assignmentHandler.Delete)
			r.Post("/{id}/transition", assignmentHandler.Transition)
		})

		r.Route("/jobs", func(r chi.Router) {
			r.Get("/", jobHandler.List)
			r.Post("/", jobHandler.Create)
			r.Get("/{id}", jobHandler.Get)
			r.Delete("/{id}", jobHandler.Delete)
			r.Post("/{id}/transition", jobHandler.Transition)
		})

		r.Route("/requests", func(r chi.Router) {
			r.Get("/", requestHandler.List)
			r.Post("/", requestHandler.Create)
			r.Get("/{id}", requestHandler.Get)
			r.Delete("/{id}", requestHandler.Delete)
			r.Post("/{id}/approve", requestHandler.Approve)
			r.Post("/{id}/reject", requestHandler.Reject)
			r.Post("/{id}/fulfill", requestHandler.Fulfill)
			r.Put("/{id}/purchased", requestHandler.SetPurchased)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/material-summary", reportHandler.MaterialSummary)
			r.Get("/material-summary/export", reportHandler.ExportMaterialSummary)
			r.Get("/processing", reportHandler.Processing)
			r.Get("/procurement", reportHandler.Procurement)
			r.Get("/kit-wise", reportHandler.KitWise)
			r.Get("/month-wise", reportHandler.MonthWise)
			r.Get("/client-wise", reportHandler.ClientWise)
			r.Get("/assignment-wise", reportHandler.AssignmentWise)
		})
	})

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Stop the consumer and background scanner
	cancel()

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
