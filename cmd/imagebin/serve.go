package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kmehta/imagebin"
	"github.com/kmehta/imagebin/config"
	"github.com/kmehta/imagebin/database"
	"github.com/kmehta/imagebin/filesystem"
	imagebinhttp "github.com/kmehta/imagebin/http"
	"github.com/kmehta/imagebin/minio"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Start the imagebin HTTP server.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int("port", 8080, "HTTP server port")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	repo, dbCleanup, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer dbCleanup()
	slog.Info("connected to database", "type", cfg.Database.Type, "table", cfg.Database.Table)

	blob, blobCleanup, err := openBlobStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open blob store: %w", err)
	}
	defer blobCleanup()
	slog.Info("opened blob store", "type", cfg.Storage.Type)

	service := imagebin.NewService(repo, blob)

	handlerConfig := imagebinhttp.HandlerConfig{
		MaxBodyBytes: cfg.Server.MaxUploadSize,
	}
	handler := imagebinhttp.NewHandler(&handlerConfig, service)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)

	server := &http.Server{
		Addr:         addr,
		Handler:      handler.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "err", err)
		}
		cancel()
	}()

	slog.Info("starting server", "addr", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// openBlobStore builds the configured blob backend. The returned cleanup
// releases any handle the backend holds.
func openBlobStore(ctx context.Context, cfg *config.Config) (imagebin.BlobStore, func(), error) {
	switch cfg.Storage.Type {
	case "filesystem":
		if err := os.MkdirAll(cfg.Storage.Path, 0o750); err != nil {
			return nil, nil, fmt.Errorf("create storage directory: %w", err)
		}

		root, err := os.OpenRoot(cfg.Storage.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open storage root: %w", err)
		}

		cleanup := func() { _ = root.Close() }
		return filesystem.NewStore(root), cleanup, nil

	case "minio":
		store, err := minio.NewStore(ctx, cfg.Storage.Minio.ToStoreConfig())
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unsupported storage type: %s", cfg.Storage.Type)
	}
}
