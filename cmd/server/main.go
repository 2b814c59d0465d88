package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"userapi/docs"
	"userapi/internal/auth"
	"userapi/internal/cache"
	"userapi/internal/config"
	"userapi/internal/db"
	"userapi/internal/handler"
	"userapi/internal/logging"
	"userapi/internal/repository"
	"userapi/internal/router"
	"userapi/internal/service"
	"userapi/internal/validation"
)

const shutdownTimeout = 10 * time.Second

var (
	rootCmd = &cobra.Command{
		Use:          "userapi",
		Short:        "User CRUD API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Migrate the schema and start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}

	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the users table and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			log, err := logging.New(cfg.LogLevel)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			_, err = openDatabase(cfg, log)
			return err
		},
	}
)

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

// @title User API
// @version 1.0
// @description CRUD API for users with case-insensitive nickname and email uniqueness.
// @host localhost:8080
// @BasePath /api
// @schemes http
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// openDatabase connects, applies RESET_DB and migrates.
func openDatabase(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	gormDB, err := db.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("database init: %w", err)
	}
	log.Info("connected to database", zap.String("driver", cfg.DBDriver))

	if cfg.ResetDB {
		log.Warn("RESET_DB=true detected, dropping users table")
		if err := db.Reset(gormDB); err != nil {
			log.Warn("drop failed (table may not exist)", zap.Error(err))
		}
	}

	if err := db.Migrate(gormDB); err != nil {
		return nil, err
	}
	log.Info("migrations completed")
	return gormDB, nil
}

func serve(ctx context.Context) error {
	cfg := config.Load()
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	gormDB, err := openDatabase(cfg, log)
	if err != nil {
		return err
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, log)
	defer func() { _ = cacheClient.Close() }()
	if cacheClient == nil {
		log.Info("REDIS_ADDR not set, user cache disabled")
	}

	userRepo := repository.NewUserRepository(gormDB, auth.NewBcryptHasher(cfg.BcryptCost), validation.New())
	userService := service.NewUserService(userRepo, cacheClient, cfg.UserCacheTTL, log)
	userHandler := handler.NewUserHandler(userService)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	router.Register(e, cfg, log, userHandler)

	log.Info("swagger documentation available",
		zap.String("url", "http://"+docs.SwaggerInfo.Host+"/swagger/index.html"))

	addr := ":" + cfg.ServerPort
	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server start: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
