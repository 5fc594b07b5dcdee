package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Pranoy-dev/Knightec-Conferences/internal/logger"
	"github.com/Pranoy-dev/Knightec-Conferences/internal/metrics"
	"github.com/Pranoy-dev/Knightec-Conferences/internal/scraper"
	"github.com/Pranoy-dev/Knightec-Conferences/internal/server"
)

var flagAddr string

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the scrape HTTP endpoint",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	cmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (overrides server.listen_address)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if flagAddr != "" {
		cfg.Server.ListenAddress = flagAddr
	}

	fetcher := scraper.NewHTTPFetcher(cfg.Scraper.Timeout, cfg.Scraper.UserAgent, cfg.Scraper.MaxBodyBytes)
	srv := server.New(cfg.Server, scraper.NewWithFetcher(fetcher), metrics.New(), cfg.Defaults.Currency)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down", logger.Fields{"timeout": cfg.Server.ShutdownTimeout.String()})

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
