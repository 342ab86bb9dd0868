package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and background maintenance jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, log, err := opts.open()
			if err != nil {
				return err
			}
			defer a.Close()

			sched, err := a.Scheduler()
			if err != nil {
				return err
			}
			sched.Start()
			defer sched.Stop()

			srv := &http.Server{
				Addr:              a.Config.HTTP.Address,
				Handler:           a.Router,
				ReadHeaderTimeout: a.Config.HTTP.Timeout,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				log.Info("server starting", "address", srv.Addr, "cache", a.Config.Cache.Backend, "timezone", a.Config.Tracker.Timezone)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}
