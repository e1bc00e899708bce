package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	subscriptionApp "github.com/planhub-io/planhub/internal/application/subscription"
	"github.com/planhub-io/planhub/internal/infrastructure/config"
	"github.com/planhub-io/planhub/internal/infrastructure/database"
	"github.com/planhub-io/planhub/internal/infrastructure/directory"
	"github.com/planhub-io/planhub/internal/infrastructure/lock"
	"github.com/planhub-io/planhub/internal/infrastructure/migration"
	"github.com/planhub-io/planhub/internal/infrastructure/repository"
	"github.com/planhub-io/planhub/internal/infrastructure/scheduler"
	"github.com/planhub-io/planhub/internal/infrastructure/sink"
	httpRouter "github.com/planhub-io/planhub/internal/interfaces/http"
	"github.com/planhub-io/planhub/internal/shared/logger"
)

var (
	env         string
	autoMigrate bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the PlanHub server",
		Long:  `Start the PlanHub entitlement engine with its operational HTTP endpoints.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Automatically run database migrations on startup (not recommended for production)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	log := logger.NewLogger()
	log.Infow("starting server", "environment", env, "auto_migrate", autoMigrate)

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	if autoMigrate {
		if env == "production" {
			log.Warnw("auto-migration is enabled in production environment, this is not recommended")
		}
		migrationManager := migration.NewManager(env)
		if err := migrationManager.Migrate(database.Get(), migration.AutoMigrateModels()...); err != nil {
			return fmt.Errorf("auto-migration failed: %w", err)
		}
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer redisClient.Close()
	}

	engine := buildEngine(cfg, redisClient, log)

	sweeperCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	sweeper := scheduler.NewExpirySweeper(
		repository.NewSubscriptionRepository(database.Get(), log), engine.Close, log)
	sweeper.Start(sweeperCtx)
	defer sweeper.Stop()

	router := httpRouter.NewRouter(database.Get(), redisClient, engine, cfg, log)
	router.SetupRoutes()

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      router.GetEngine(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "address", cfg.Server.GetAddr(), "mode", cfg.Server.Mode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorw("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
		return err
	}

	log.Infow("server exited gracefully")
	return nil
}

// buildEngine wires the entitlement engine against the configured backing
// services, falling back to in-process alternatives when Redis is disabled.
func buildEngine(cfg *config.Config, redisClient *redis.Client, log logger.Interface) *subscriptionApp.Engine {
	db := database.Get()

	var (
		locker   = lock.NewLocalLocker()
		notifier = sink.NewNoopNotifier()
	)
	if redisClient != nil {
		locker = lock.NewRedisLocker(redisClient,
			time.Duration(cfg.Subscription.LockTTLSeconds)*time.Second, log)
		notifier = sink.NewRedisNotifier(redisClient, cfg.Subscription.NotifyChannel, log)
	}

	return subscriptionApp.NewEngine(subscriptionApp.Deps{
		SubscriptionRepo: repository.NewSubscriptionRepository(db, log),
		ApiKeyRepo:       repository.NewApiKeyRepository(db, log),
		PlanDirectory:    directory.NewPlanDirectory(db, log),
		AppDirectory:     directory.NewApplicationDirectory(db, log),
		AuditSink:        sink.NewDatabaseAuditSink(db, log),
		Notifier:         notifier,
		Locker:           locker,
		RenewGracePeriod: time.Duration(cfg.Subscription.RenewGracePeriodMinutes) * time.Minute,
		Logger:           log,
	})
}
