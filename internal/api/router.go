package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/amscan/ordersync/internal/ledger"
	"github.com/amscan/ordersync/internal/results"
	"github.com/amscan/ordersync/internal/syncer"
)

// NewRouter creates the Chi router with all API routes mounted.
func NewRouter(sched *syncer.Scheduler, store *ledger.Store, resultsLog *results.Log) http.Handler {
	h := &Handlers{
		sched:      sched,
		store:      store,
		resultsLog: resultsLog,
	}

	r := chi.NewRouter()

	// Middleware.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SetHeader("Content-Type", "application/json"))

	r.Route("/api/v1", func(r chi.Router) {
		// Sync control.
		r.Get("/status", h.GetStatus)
		r.Post("/sync", h.TriggerSync)
		r.Put("/interval", h.ChangeInterval)

		// Processed-file ledger.
		r.Get("/processed-files", h.ListProcessedFiles)
		r.Delete("/processed-files", h.ClearProcessedFiles)
		r.Delete("/processed-files/{name}", h.RemoveProcessedFile)

		// Per-file results.
		r.Get("/results", h.ListResults)
		r.Get("/results/stats", h.GetResultStats)
	})

	return r
}
