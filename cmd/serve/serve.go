// Package serve runs the JSON HTTP API
package serve

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fjacquet/bucket-ledger/cmd/root"
	"fjacquet/bucket-ledger/internal/api"
	"fjacquet/bucket-ledger/internal/logging"

	"github.com/spf13/cobra"
)

var addr string

const shutdownTimeout = 10 * time.Second

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the budgeting operations over HTTP",
	Long: `Start a JSON HTTP API exposing the month overview, distribution, recurring
materialization and the bucket lifecycle. The server stops on SIGINT or SIGTERM.`,
	RunE: runServe,
}

func init() {
	Cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.address)")
}

func runServe(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	cfg := c.GetConfig()
	listen := cfg.Server.Address
	if addr != "" {
		listen = addr
	}

	srv := &http.Server{
		Addr:              listen,
		Handler:           api.SetupRouter(c, cfg.Server.Mode),
		ReadHeaderTimeout: 10 * time.Second,
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		c.GetLogger().Info("Server listening", logging.Field{Key: logging.FieldAddress, Value: listen})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	c.GetLogger().Info("Server stopped")
	return nil
}
