package main

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"

	_ "github.com/tair/batch-inventory/docs"
	"github.com/tair/batch-inventory/internal/inventory"
	"github.com/tair/batch-inventory/internal/inventory/cache"
	grpcDelivery "github.com/tair/batch-inventory/internal/inventory/delivery/grpc"
	httpDelivery "github.com/tair/batch-inventory/internal/inventory/delivery/http"
	"github.com/tair/batch-inventory/internal/inventory/domain"
	"github.com/tair/batch-inventory/internal/inventory/repository"
	"github.com/tair/batch-inventory/internal/inventory/usecase/command"
	"github.com/tair/batch-inventory/kafka"
	"github.com/tair/batch-inventory/pkg/config"
	"github.com/tair/batch-inventory/pkg/database"
	"github.com/tair/batch-inventory/pkg/logger"
	"github.com/tair/batch-inventory/pkg/tracing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logger is not configured yet
		logger.Setup(logger.Options{Service: "inventory-service", Development: true})
		logger.Logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	logger.Setup(logger.Options{
		Service:     cfg.ServiceName,
		Version:     cfg.ServiceVersion,
		Development: cfg.IsDevelopment(),
		Level:       cfg.LogLevel,
	})

	logger.Logger.Info().
		Str("service", cfg.ServiceName).
		Str("environment", cfg.Environment).
		Str("log_level", cfg.LogLevel).
		Msg("Starting inventory service")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize tracing
	if cfg.TracingEnabled {
		tp, err := tracing.Init(ctx, cfg.Tracing())
		if err != nil {
			logger.Logger.Warn().Err(err).Msg("Failed to initialize tracer, continuing without tracing")
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
				defer cancel()
				if err := tracing.Shutdown(shutdownCtx, tp); err != nil {
					logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
				}
			}()
		}
	}

	loc, err := cfg.Location()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Invalid timezone")
	}

	// Connect to database
	db, err := database.NewGormConnection(cfg.Database())
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}
	defer sqlDB.Close()

	// Run migrations
	if err := repository.AutoMigrate(db); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	logger.Logger.Info().Msg("Database initialized successfully")

	// Optional product cache
	var productCache domain.ProductCache
	if cfg.RedisAddr != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Logger.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("Redis unavailable, product cache disabled")
		} else {
			defer client.Close()
			productCache = cache.NewRedisProductCache(client, cfg.CacheTTL)
		}
	}

	// Optional event publisher
	var publisher domain.EventPublisher
	if brokers := cfg.Brokers(); len(brokers) > 0 {
		p, err := kafka.NewPublisher(brokers)
		if err != nil {
			logger.Logger.Warn().Err(err).Strs("brokers", brokers).Msg("Kafka unavailable, event publishing disabled")
		} else {
			defer p.Close()
			publisher = p
		}
	}

	// Initialize handler with Wire DI
	handler, err := inventory.InitializeHTTPHandler(
		db,
		inventory.TracingEnabled(cfg.TracingEnabled),
		productCache,
		publisher,
		command.SystemClock(loc),
		prometheus.DefaultRegisterer,
	)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize handler")
	}
	if err := handler.SeedMetrics(ctx); err != nil {
		logger.Logger.Warn().Err(err).Msg("Failed to seed product metrics")
	}

	logger.Logger.Info().
		Bool("cache_enabled", productCache != nil).
		Bool("events_enabled", publisher != nil).
		Str("timezone", loc.String()).
		Msg("Inventory handler initialized")

	httpServer := newHTTPServer(cfg, handler, sqlDB)

	monitor := grpcDelivery.NewHealthMonitor(sqlDB)
	go monitor.Run(ctx, 10*time.Second)
	grpcServer := grpcDelivery.NewServer(monitor)

	go startHTTPServer(httpServer)
	go startGRPCServer(grpcServer, cfg.GRPCPort)

	// Wait for interrupt signal
	<-ctx.Done()

	logger.Logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error().Err(err).Msg("HTTP server forced to shutdown")
	}
	grpcServer.GracefulStop()

	logger.Logger.Info().Msg("Server exited")
}

func newHTTPServer(cfg *config.Config, handler *httpDelivery.InventoryHandler, db *sql.DB) *http.Server {
	router := mux.NewRouter()

	middlewareConfig := httpDelivery.DefaultMiddlewareConfig(cfg.RequestTimeout, cfg.TracingEnabled)
	httpDelivery.RegisterMiddlewares(router, middlewareConfig)

	// Register routes
	handler.RegisterRoutes(router)

	// Health check endpoint
	handler.RegisterHealthCheck(router, db)

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler())

	httpDelivery.RegisterSwaggerDocs(router)

	return &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           httpDelivery.SetupCORS(middlewareConfig)(router),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func startHTTPServer(server *http.Server) {
	logger.Logger.Info().
		Str("addr", server.Addr).
		Str("metrics_endpoint", "/metrics").
		Str("swagger", "/swagger/index.html").
		Msg("HTTP server started")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
	}
}

func startGRPCServer(server *grpc.Server, port string) {
	lis, err := net.Listen("tcp", ":"+port)
	if err != nil {
		logger.Logger.Fatal().Err(err).Str("port", port).Msg("Failed to listen for gRPC")
	}

	logger.Logger.Info().Str("port", port).Msg("gRPC health server started")

	if err := server.Serve(lis); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to start gRPC server")
	}
}
