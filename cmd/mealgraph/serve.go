package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	httpAdapter "github.com/mealgraph/mealgraph/internal/adapters/http"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Starts the pipeline behind a JSON API over HTTP. The server keeps
clarification context per user between turns and exposes Prometheus
metrics on /metrics.`,
	Run: func(cmd *cobra.Command, args []string) {
		a, err := bootstrap(cmd)
		if err != nil {
			fmt.Printf("Error initializing mealgraph: %v\n", err)
			os.Exit(1)
		}
		defer a.close()

		addr := a.cfg.HTTP.Addr
		if flagAddr, _ := cmd.Flags().GetString("addr"); cmd.Flags().Changed("addr") {
			addr = flagAddr
		}

		handler := httpAdapter.NewHandler(a.pipeline, a.metrics.Handler(),
			httpAdapter.WithContextStore(a.contexts),
			httpAdapter.WithLogger(a.logger),
		)

		srv := &http.Server{
			Addr:    addr,
			Handler: handler,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			a.logger.Info("mealgraph server listening", "addr", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			a.logger.Info("shutdown started", "signal", sig.String())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				a.logger.Error("graceful shutdown did not complete", "err", err)
				if err := srv.Close(); err != nil {
					a.logger.Error("server close failed", "err", err)
				}
			}
			a.logger.Info("mealgraph server stopped")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", ":8080", "Address to listen on (overrides config)")
}
