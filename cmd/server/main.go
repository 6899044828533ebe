package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/matthewbaird/compliance/internal/activity"
	"github.com/matthewbaird/compliance/internal/config"
	"github.com/matthewbaird/compliance/internal/event"
	"github.com/matthewbaird/compliance/internal/eventbus"
	"github.com/matthewbaird/compliance/internal/handler"
	"github.com/matthewbaird/compliance/internal/seed"
	"github.com/matthewbaird/compliance/internal/server"
	"github.com/matthewbaird/compliance/internal/store"
	"github.com/matthewbaird/compliance/internal/worker"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if err := config.Watch(ctx, cfg); err != nil {
		log.Printf("config watch unavailable: %v", err)
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("opening database: %v", err)
	}
	defer st.Close()
	log.Println("database migrated successfully")

	actStore, err := activity.OpenSQLite(cfg.ActivityDBPath)
	if err != nil {
		log.Fatalf("opening activity log: %v", err)
	}
	defer actStore.Close()

	bus := eventbus.New()
	riskConsumer := eventbus.NewRiskConsumer(st, cfg.ClassifierConfig)
	bus.Subscribe("risk", riskConsumer.Handle)
	bus.Start(ctx)
	defer bus.Wait()

	recorder := event.NewActivityRecorder(actStore, bus)
	handler.SetRecorder(recorder)

	if cfg.SeedDemo {
		if err := seed.SeedDemo(ctx, st); err != nil {
			log.Fatalf("seeding demo data: %v", err)
		}
	}

	refresh := worker.NewRefreshWorker(st, recorder, cfg.ClassifierConfig)
	if err := refresh.Start(ctx, cfg.RefreshSpec); err != nil {
		log.Fatalf("starting refresh worker: %v", err)
	}
	if _, err := refresh.RunOnce(ctx); err != nil {
		log.Printf("initial refresh sweep: %v", err)
	}

	if err := server.Run(ctx, server.Config{
		Port:          cfg.Port,
		Store:         st,
		ActivityStore: actStore,
		ClassifierCfg: cfg.ClassifierConfig,
	}); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
