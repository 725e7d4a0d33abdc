package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/avelichko/fleetboard/internal/pkg/log"
	"github.com/avelichko/fleetboard/internal/pkg/web"
)

func main() {
	var port int

	root := &cobra.Command{
		Use:           "server",
		Short:         "fleetboard web service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), port)
		},
	}
	serve.Flags().IntVar(&port, "port", 3000, "listen port")
	root.AddCommand(serve)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, port int) error {
	time.Local = time.UTC
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	logger := log.NewLogger()

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: web.New(logger).Router(),
	}

	errs := make(chan error, 1)
	go func() {
		logger.Infof("Listening on %s", server.Addr)
		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return fmt.Errorf("server.ListenAndServe: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("server.Shutdown: %w", err)
	}

	logger.Info("Server gracefully stopped")
	_ = logger.Sync()
	return nil
}
