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

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/yukikurage/task-tracker-api/internal/config"
	"github.com/yukikurage/task-tracker-api/internal/database"
	"github.com/yukikurage/task-tracker-api/internal/logging"
	"github.com/yukikurage/task-tracker-api/internal/repository"
	"github.com/yukikurage/task-tracker-api/internal/router"
	"github.com/yukikurage/task-tracker-api/internal/services"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "task-tracker",
		Short:         "Task tracking REST API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), configPath)
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a config file (yaml, json or toml)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create the store indexes and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrate(cmd.Context(), configPath)
		},
	})

	return rootCmd
}

// bootstrap loads configuration, builds the logger and connects to MongoDB.
// Failures are logged here so callers only need to propagate them.
func bootstrap(ctx context.Context, configPath string) (*config.Config, *logrus.Logger, *database.Store, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return nil, nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		return nil, nil, nil, err
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to configure logging: %v\n", err)
		return nil, nil, nil, err
	}

	store, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, log)
	if err != nil {
		log.WithError(err).Error("Failed to connect to database")
		return nil, nil, nil, err
	}

	if err := database.EnsureIndexes(ctx, store.DB(), log); err != nil {
		log.WithError(err).Error("Failed to create indexes")
		closeStore(store, log)
		return nil, nil, nil, err
	}

	return cfg, log, store, nil
}

func migrate(ctx context.Context, configPath string) error {
	_, log, store, err := bootstrap(ctx, configPath)
	if err != nil {
		return err
	}
	defer closeStore(store, log)

	log.Info("Indexes are up to date")
	return nil
}

func serve(ctx context.Context, configPath string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, log, store, err := bootstrap(ctx, configPath)
	if err != nil {
		return err
	}
	defer closeStore(store, log)

	tokens, err := services.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.WithError(err).Error("Failed to configure token service")
		return err
	}

	db := store.DB()
	authService := services.NewAuthService(repository.NewUserRepository(db), tokens, cfg.BcryptCost, log)
	taskService := services.NewTaskService(repository.NewTaskRepository(db), log)
	commentService := services.NewCommentService(repository.NewCommentRepository(db), log)

	gin.SetMode(cfg.GinMode)
	engine := router.New(router.Services{
		Auth:     authService,
		Tasks:    taskService,
		Comments: commentService,
		Tokens:   tokens,
		Store:    store,
	}, log)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			log.WithError(err).Error("Server stopped unexpectedly")
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown failed")
		return err
	}
	log.Info("Server stopped")
	return nil
}

func closeStore(store *database.Store, log logrus.FieldLogger) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := store.Close(ctx); err != nil {
		log.WithError(err).Warn("Failed to disconnect from database")
	}
}
