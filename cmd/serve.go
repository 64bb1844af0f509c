package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kiesman99/staticmap/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server for static map rendering",
	Long: `Start an HTTP server that provides a REST API for static maps.

Endpoints:
  GET  /api/v1/health      server status
  POST /api/v1/render      map described by a JSON document
  GET  /api/v1/staticmap   map described by query parameters

The map flags of the root command (tile URL, cache, zoom range, ...) set
the defaults of every request.

Examples:
  # Start server on default port 8080
  staticmap serve

  # Start server on custom port
  staticmap serve --port 3000

  # Start server with custom bind address
  staticmap serve --bind 0.0.0.0 --port 8080`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	// Server configuration
	serveCmd.Flags().StringP("bind", "b", "localhost", "bind address")
	serveCmd.Flags().IntP("port", "p", 8080, "port to listen on")
	serveCmd.Flags().Duration("timeout", 30*time.Second, "request timeout")
	serveCmd.Flags().Int("max-size", server.DefaultMaxSize, "largest width or height a request may ask for")
	serveCmd.Flags().Bool("allow-tile-source", false, "let requests choose their own tile server")

	// Bind flags to viper
	viper.BindPFlag("server.bind", serveCmd.Flags().Lookup("bind"))
	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	viper.BindPFlag("server.timeout", serveCmd.Flags().Lookup("timeout"))
	viper.BindPFlag("server.max-size", serveCmd.Flags().Lookup("max-size"))
	viper.BindPFlag("server.allow-tile-source", serveCmd.Flags().Lookup("allow-tile-source"))
}

func runServe(cmd *cobra.Command, args []string) error {
	bind := viper.GetString("server.bind")
	port := viper.GetInt("server.port")
	timeout := viper.GetDuration("server.timeout")

	addr := fmt.Sprintf("%s:%d", bind, port)
	logger := newLogger(cmd)

	apiServer := server.NewServer(Version, mapOptions(viper.GetViper(), logger), logger)
	apiServer.MaxSize = viper.GetInt("server.max-size")
	apiServer.AllowTileSource = viper.GetBool("server.allow-tile-source")
	defer apiServer.Close()

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      server.NewRouter(apiServer, timeout),
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(ctx); err != nil {
			logger.WithError(err).Error("Server shutdown error")
		}
	}()

	logger.Infof("Starting staticmap server on %s", addr)
	logger.Infof("Health check: http://%s/api/v1/health", addr)
	logger.Infof("Render endpoint: http://%s/api/v1/render", addr)
	logger.Infof("Static map endpoint: http://%s/api/v1/staticmap", addr)

	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("server error: %v", err)
	}

	return nil
}
