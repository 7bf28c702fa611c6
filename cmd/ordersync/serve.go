package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/amscan/ordersync/internal/api"
	"github.com/amscan/ordersync/internal/config"
)

var serveNoScheduler bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the sync service with its HTTP control API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if serveNoScheduler {
			log.Printf("[serve] Scheduler disabled, sync runs only via POST /api/v1/sync")
		} else {
			if err := a.scheduler.Start(ctx, cfg.SyncInterval); err != nil {
				return err
			}
		}

		srv := &http.Server{
			Addr:    ":" + cfg.Port,
			Handler: api.NewRouter(a.scheduler, a.store, a.resultsLog),
		}

		errCh := make(chan error, 1)
		go func() {
			log.Printf("[serve] Listening on http://localhost:%s", cfg.Port)
			log.Printf("[serve] API base: http://localhost:%s/api/v1", cfg.Port)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
		case <-ctx.Done():
			log.Printf("[serve] Shutting down")
			a.scheduler.Stop()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Printf("[serve] WARNING: shutdown: %v", err)
			}
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveNoScheduler, "no-scheduler", false,
		"disable the periodic scheduler (manual sync only)")
	rootCmd.AddCommand(serveCmd)
}
