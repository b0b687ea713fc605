package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SwitchMaestro server",
	Long: `Start the SwitchMaestro server. The saved layout is restored on start;
changes are only written when a client asks for a save.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("port", "", "port to listen on (default 8059)")
	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	app, err := NewApp(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize app: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Start(ctx); err != nil {
		app.Close()
		return err
	}

	// Setup Router
	routeManager := NewRouteManager(app)
	routeManager.Setup()

	addr := ":" + cfg.Server.Port
	server := &http.Server{
		Handler:     routeManager.Router,
		Addr:        addr,
		ReadTimeout: 5 * time.Second,
		// connect holds the request for the simulated handshake
		WriteTimeout: cfg.Simulator.ConnectDelay + 10*time.Second,
	}

	// Handle graceful shutdown
	go func() {
		<-ctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", zap.Error(err))
		}
	}()

	logger.Info("Starting SwitchMaestro server",
		zap.String("addr", addr),
		zap.String("storage", app.Driver),
		zap.String("version", version))

	serveErr := server.ListenAndServe()
	if errors.Is(serveErr, http.ErrServerClosed) {
		serveErr = nil
	}

	if err := app.Close(); err != nil {
		logger.Error("❌ failed to close app", zap.Error(err))
	}
	if serveErr != nil {
		return fmt.Errorf("failed to start server: %w", serveErr)
	}
	return nil
}
