package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/knapcmp/knapcmp/internal/api"
	"github.com/knapcmp/knapcmp/internal/logger"
	"github.com/knapcmp/knapcmp/internal/web"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web UI and API server",
	Long:  `Start both the web UI and REST API server together.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd, true)
	},
}

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long:  `Start the REST API server without the web UI.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd, false)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(apiCmd)
}

func runServer(cmd *cobra.Command, withWeb bool) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	repository, err := openRepository(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize repository: %w", err)
	}
	defer repository.Close()

	// Initialize cache
	cacheInstance := newCache(cfg)
	defer cacheInstance.Close()

	// Setup API handler
	apiHandler := api.NewHandler(repository, cacheInstance, cfg.RateLimit)
	router := apiHandler.SetupRouter()

	if withWeb {
		webHandler, err := web.NewHandler(repository, apiHandler.Runner())
		if err != nil {
			return fmt.Errorf("failed to initialize web handler: %w", err)
		}
		webHandler.SetupRoutes(router)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		fields := []zap.Field{
			zap.String("url", fmt.Sprintf("http://localhost%s", addr)),
			zap.String("health", fmt.Sprintf("http://localhost%s/api/health", addr)),
		}
		if withWeb {
			fields = append(fields, zap.String("web_ui", fmt.Sprintf("http://localhost%s", addr)))
		}
		logger.Log.Info("Server starting", fields...)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-serverErr:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-quit:
	}

	logger.Log.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Log.Info("Server stopped")
	return nil
}
