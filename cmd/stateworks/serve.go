package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/stateworks/internal/presentation/tui"
	httpAdapter "github.com/aretw0/stateworks/pkg/adapters/http"
	"github.com/aretw0/stateworks/pkg/adapters/redis"
	"github.com/aretw0/stateworks/pkg/observability"
	"github.com/aretw0/stateworks/pkg/ports"
	"github.com/aretw0/stateworks/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		port     string
		ttl      time.Duration
		noBanner bool
		store    storeFlags
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP host",
		Long: `Starts an HTTP server hosting any number of machines. Each machine is
created from a YAML table (or the word counter) and driven through JSON calls.
Prometheus metrics are exposed on /metrics.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			reg := prometheus.NewRegistry()
			metrics, err := observability.NewMetrics(reg)
			if err != nil {
				return err
			}

			opts := []session.Option{
				session.WithLogger(a.logger),
				session.WithHooksFactory(metrics.Hooks),
				session.WithOnDelete(metrics.Forget),
			}

			switch store.kind {
			case "", "memory":
			case "redis":
				base, err := store.redisStore(ctx)
				if err != nil {
					return err
				}
				defer base.Close()
				client := base.Client()
				opts = append(opts, session.WithStoreFactory(func(id string) ports.DataStore {
					return redis.NewFromClient(client,
						redis.WithPrefix("stateworks:"+id+":"),
						redis.WithTTL(ttl))
				}))
			default:
				return fmt.Errorf("unknown store %q (want memory or redis)", store.kind)
			}

			mgr := session.NewManager(opts...)
			handler := httpAdapter.NewHandler(mgr,
				httpAdapter.WithGatherer(reg),
				httpAdapter.WithLogger(a.logger),
				httpAdapter.WithOutput(cmd.OutOrStdout()),
			)

			srv := &http.Server{
				Addr:              ":" + port,
				Handler:           handler,
				ReadHeaderTimeout: 10 * time.Second,
			}

			out := cmd.ErrOrStderr()
			if !noBanner {
				tui.PrintBanner(out)
			}

			// Channel to listen for errors coming from the listener.
			serverErrors := make(chan error, 1)

			go func() {
				fmt.Fprintf(out, "Starting Stateworks Server on %s (store: %s)\n", srv.Addr, store.kind)
				serverErrors <- srv.ListenAndServe()
			}()

			// Channel to listen for interrupt or terminate signals.
			shutdown := make(chan os.Signal, 1)
			signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(shutdown)

			select {
			case err := <-serverErrors:
				return fmt.Errorf("server error: %w", err)

			case sig := <-shutdown:
				fmt.Fprintf(out, "\nStart shutdown... Signal: %v\n", sig)

				// Give outstanding requests a deadline for completion.
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()

				if err := srv.Shutdown(ctx); err != nil {
					fmt.Fprintf(out, "Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
					if err := srv.Close(); err != nil {
						return fmt.Errorf("error killing server: %w", err)
					}
				}
				fmt.Fprintln(out, "Stateworks Server stopped gracefully")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8080", "Port to listen on")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Expiry of redis registers (0 keeps them forever)")
	cmd.Flags().BoolVar(&noBanner, "no-banner", false, "Do not print the banner")
	store.register(cmd)
	return cmd
}
