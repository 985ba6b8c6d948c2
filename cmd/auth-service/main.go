package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"

	"github.com/abdur1547/roombridge/services/auth-service/internal/config"
	repoPostgres "github.com/abdur1547/roombridge/services/auth-service/internal/domain/repository/postgres"
	repoRedis "github.com/abdur1547/roombridge/services/auth-service/internal/domain/repository/redis"
	"github.com/abdur1547/roombridge/services/auth-service/internal/events/kafka"
	httpHandler "github.com/abdur1547/roombridge/services/auth-service/internal/handler/http"
	infraPostgres "github.com/abdur1547/roombridge/services/auth-service/internal/infrastructure/database/postgres"
	infraRedis "github.com/abdur1547/roombridge/services/auth-service/internal/infrastructure/database/redis"
	"github.com/abdur1547/roombridge/services/auth-service/internal/infrastructure/security"
	"github.com/abdur1547/roombridge/services/auth-service/internal/infrastructure/sms"
	"github.com/abdur1547/roombridge/services/auth-service/internal/service"
	"github.com/abdur1547/roombridge/services/auth-service/internal/utils/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	log, err := logger.NewLogger(cfg.Logging.Level, cfg.Env)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Database.AutoMigrate {
		if err := runMigrations(cfg, log); err != nil {
			log.Fatal("failed to apply migrations", zap.Error(err))
		}
	}

	dbPool, err := infraPostgres.NewDBPool(ctx, cfg.Database)
	if err != nil {
		log.Fatal("failed to initialize postgres pool", zap.Error(err))
	}
	defer dbPool.Close()

	redisClient, err := infraRedis.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal("failed to initialize redis client", zap.Error(err))
	}
	defer redisClient.Close()

	var publisher kafka.Publisher = kafka.NopPublisher{}
	if cfg.Kafka.Enabled {
		producer, err := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		if err != nil {
			log.Fatal("failed to initialize kafka producer", zap.Error(err))
		}
		publisher = producer
	}
	defer publisher.Close()

	otpRepo := repoPostgres.NewOtpCodeRepositoryPostgres(dbPool)
	userRepo := repoPostgres.NewUserRepositoryPostgres(dbPool)
	refreshRepo := repoPostgres.NewRefreshTokenRepositoryPostgres(dbPool)
	blacklistRepo := repoPostgres.NewBlacklistedTokenRepositoryPostgres(dbPool)
	counterStore := repoRedis.NewRateLimitStore(redisClient)

	codec, err := security.NewJWTService(security.JWTConfig{
		Secret:         cfg.JWT.Secret,
		Issuer:         cfg.JWT.Issuer,
		Audience:       cfg.JWT.Audience,
		AccessTokenTTL: cfg.JWT.AccessTokenTTL,
	})
	if err != nil {
		log.Fatal("failed to initialize token codec", zap.Error(err))
	}

	limiter := service.NewRateLimiter(counterStore, cfg.OTP.RateLimitEnabled, log)
	smsSender := sms.NewClient(cfg.SMS)
	tokenService := service.NewTokenService(cfg.JWT, codec, refreshRepo, blacklistRepo, userRepo, publisher, log)
	otpService := service.NewOtpService(cfg.OTP, otpRepo, userRepo, tokenService, limiter, smsSender, publisher, log)

	if cfg.Cleanup.Enabled {
		cleanup := service.NewCleanupService(otpRepo, refreshRepo, blacklistRepo, cfg.Cleanup.Interval, log)
		go cleanup.Run(ctx)
	}

	router := httpHandler.SetupRouter(otpService, tokenService, userRepo, log)
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("http server listening", zap.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
		os.Exit(1)
	}
	log.Info("shutdown complete")
}

func runMigrations(cfg *config.Config, log *zap.Logger) error {
	url := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Database.User, cfg.Database.Password, cfg.Database.Host,
		cfg.Database.Port, cfg.Database.DBName, cfg.Database.SSLMode)

	m, err := migrate.New("file://"+cfg.Database.MigrationDir, url)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	log.Info("migrations applied")
	return nil
}
