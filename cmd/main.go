package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"storefront/config"
	"storefront/internal/delivery"
	"storefront/internal/domain"
	"storefront/internal/repository"
	"storefront/internal/usecase"
	"storefront/pkg/db"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

func main() {
	logger := setupLogger("info")
	cfg := config.LoadConfig(logger)

	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Warnf("Invalid LOG_LEVEL '%s', using default: %s", cfg.LogLevel, logger.GetLevel())
	} else {
		logger.SetLevel(logLevel)
	}
	if logLevel != logrus.DebugLevel && logLevel != logrus.TraceLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	logger.Info("Starting Storefront Service...")

	var database *sql.DB
	if cfg.NeedsDatabase() {
		database, err = db.Connect(cfg.DatabaseURL)
		if err != nil {
			logger.Fatalf("FATAL: Failed to connect to database: %v", err)
		}
		defer database.Close()
		logger.Info("Database connection established.")
	}

	// --- Dependency Injection ---
	storage, err := openStorage(cfg, database, logger)
	if err != nil {
		logger.Fatalf("FATAL: Failed to open session storage: %v", err)
	}
	defer storage.Close()

	catalog, err := openCatalog(cfg, database, logger)
	if err != nil {
		logger.Fatalf("FATAL: Failed to open catalog: %v", err)
	}
	logger.Info("Repositories initialized.")

	sessions := usecase.NewSessionProvider(storage, cfg.SessionTTL, logger)
	defaultLocale, ok := usecase.ResolveLocale(cfg.DefaultLocale, language.English)
	if !ok {
		logger.Warnf("DEFAULT_LOCALE '%s' unsupported, using '%s'", cfg.DefaultLocale, defaultLocale)
	}
	router := delivery.NewRouter(catalog, sessions, defaultLocale, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	wg.Add(1)
	go sessions.RunJanitor(ctx, janitorInterval(cfg.SessionTTL), &wg)

	// --- gRPC health ---
	lis, err := net.Listen("tcp", cfg.GrpcPort)
	if err != nil {
		logger.Fatalf("Failed to listen on port %s: %v", cfg.GrpcPort, err)
	}
	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	go func() {
		logger.Infof("gRPC health server listening on %s", cfg.GrpcPort)
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			logger.Errorf("gRPC server failed: %v", err)
		}
	}()

	// --- HTTP ---
	srv := &http.Server{
		Addr:              cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Infof("Starting server on port %s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("Failed to start server on port %s: %v", cfg.HTTPPort, err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Warn("Shutdown signal received...")
	healthServer.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("HTTP server forced to shut down: %v", err)
	}
	grpcServer.GracefulStop()
	wg.Wait()
	logger.Info("Storefront Service shut down gracefully.")
}

func setupLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.JSONFormatter{})

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logger.Warnf("Invalid log level '%s', using default 'info'. Error: %v", level, err)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)
	return logger
}

func openStorage(cfg *config.Config, database *sql.DB, logger *logrus.Logger) (domain.StorageFactory, error) {
	switch strings.ToLower(cfg.StorageDriver) {
	case "memory", "":
		return repository.NewMemoryStorage(logger), nil
	case "file":
		return repository.NewFileStorage(cfg.StorageDir, logger)
	case "redis":
		rdb, err := repository.NewRedisClient(repository.RedisOptions{
			Addr:          cfg.RedisAddr,
			SentinelAddrs: cfg.RedisSentinelAddrs,
			MasterName:    cfg.RedisMasterName,
			DB:            cfg.RedisDB,
		}, logger)
		if err != nil {
			return nil, err
		}
		return repository.NewRedisStorage(rdb, cfg.SessionTTL, logger), nil
	case "postgres":
		return repository.NewPostgresStorage(database, logger)
	}
	return nil, fmt.Errorf("storage driver %q: %w", cfg.StorageDriver, domain.ErrUnknownDriver)
}

func openCatalog(cfg *config.Config, database *sql.DB, logger *logrus.Logger) (domain.ProductRepository, error) {
	var source domain.ProductRepository
	switch strings.ToLower(cfg.CatalogDriver) {
	case "file", "":
		source = repository.NewFileCatalogRepository(cfg.CatalogPath, logger)
	case "postgres":
		source = repository.NewPostgresCatalogRepository(database, logger)
	default:
		return nil, fmt.Errorf("catalog driver %q: %w", cfg.CatalogDriver, domain.ErrUnknownDriver)
	}
	return repository.NewCachedCatalog(source, cfg.CatalogTTL, logger), nil
}

func janitorInterval(ttl time.Duration) time.Duration {
	interval := ttl / 2
	if interval < time.Minute {
		interval = time.Minute
	}
	return interval
}
