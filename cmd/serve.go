package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"complexify/internal/analyzer"
	"complexify/internal/server"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var addrFlag string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analyzer over HTTP",
	Long: `serve loads the model ensemble once and answers
  GET  /         service status
  POST /analyze  {"code": "..."} -> complexity estimate`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&addrFlag, "addr", "", "Listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	if addrFlag != "" {
		cfg.Server.Addr = addrFlag
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	m := loadModels(cfg)
	engine := analyzer.NewAnalyzer(m.Vectorizer, m, cfg).WithFingerprint(m.Fingerprint)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.New(engine, cfg.Server, logger).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Server.Addr, "models", m.Fingerprint)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			color.Red("Server failed: %v\n", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			color.Red("Shutdown failed: %v\n", err)
			os.Exit(1)
		}
	}
}
