package main

import (
	"database/sql"
	"fmt"

	"github.com/amscan/ordersync/internal/commerce"
	"github.com/amscan/ordersync/internal/config"
	"github.com/amscan/ordersync/internal/ledger"
	"github.com/amscan/ordersync/internal/pipeline"
	"github.com/amscan/ordersync/internal/remote"
	"github.com/amscan/ordersync/internal/results"
	"github.com/amscan/ordersync/internal/syncer"
	"github.com/amscan/ordersync/internal/transform"
)

// app wires the full pipeline from configuration. Close releases the
// database and the dispatch goroutine.
type app struct {
	cfg        *config.Config
	db         *sql.DB
	store      *ledger.Store
	resultsLog *results.Log
	dispatcher *syncer.Dispatcher
	scheduler  *syncer.Scheduler
}

func newApp(cfg *config.Config) (*app, error) {
	db, err := ledger.InitDB(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("init ledger db: %w", err)
	}
	store := ledger.NewStore(db)

	client := commerce.NewClient(cfg.API.BaseURL, cfg.API.Token)
	catalog := commerce.NewCatalogService(client)
	customers := commerce.NewCustomerResolver(client)
	customers.SettleDelay = cfg.SettleDelay
	orders := commerce.NewOrderService(client)

	builder := transform.NewBuilder(catalog)
	processor := pipeline.NewProcessor(customers, orders, builder)
	dispatcher := syncer.NewDispatcher(processor, cfg.DispatchTimeout)

	channel := remote.NewSFTPChannel(cfg.SFTP)
	resultsLog := results.NewLog(0)

	orch := syncer.NewOrchestrator(channel, store, dispatcher, resultsLog, syncer.CycleConfig{
		RemoteDir:     cfg.SFTP.Directory,
		Cutoff:        cfg.Cutoff,
		FileDeletion:  cfg.FileDeletion,
		SkipProcessed: cfg.SkipProcessed,
	})

	return &app{
		cfg:        cfg,
		db:         db,
		store:      store,
		resultsLog: resultsLog,
		dispatcher: dispatcher,
		scheduler:  syncer.NewScheduler(orch),
	}, nil
}

func (a *app) Close() {
	a.dispatcher.Close()
	a.db.Close()
}
