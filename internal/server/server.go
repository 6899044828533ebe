// Package server assembles all HTTP handlers and starts the server.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matthewbaird/compliance/internal/activity"
	"github.com/matthewbaird/compliance/internal/handler"
	"github.com/matthewbaird/compliance/internal/store"
)

// Config holds server configuration.
type Config struct {
	Port          int
	Store         store.Store
	ActivityStore activity.Store
	ClassifierCfg handler.ClassifierConfigFn
}

// NewRouter registers all routes and middleware.
func NewRouter(cfg Config) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	ph := handler.NewPropertyHandler(cfg.Store, cfg.ClassifierCfg)
	r.Post("/v1/properties", ph.CreateProperty)
	r.Get("/v1/properties/{id}", ph.GetProperty)
	r.Get("/v1/properties", ph.ListProperties)
	r.Patch("/v1/properties/{id}", ph.UpdateProperty)
	r.Post("/v1/properties/{id}/systems", ph.AttachSystems)

	ih := handler.NewInspectionHandler(cfg.Store, cfg.ClassifierCfg)
	r.Post("/v1/inspections", ih.CreateInspection)
	r.Get("/v1/inspections/{id}", ih.GetInspection)
	r.Get("/v1/inspections", ih.ListInspections)
	r.Patch("/v1/inspections/{id}", ih.UpdateInspection)
	r.Post("/v1/inspections/{id}/complete", ih.CompleteInspection)

	vh := handler.NewViolationHandler(cfg.Store)
	r.Post("/v1/violations", vh.CreateViolation)
	r.Get("/v1/violations/{id}", vh.GetViolation)
	r.Get("/v1/violations", vh.ListViolations)
	r.Patch("/v1/violations/{id}", vh.UpdateViolation)
	r.Post("/v1/violations/{id}/resolve", vh.ResolveViolation)

	ch := handler.NewCostHandler(cfg.Store)
	r.Post("/v1/cost-records", ch.CreateCostRecord)
	r.Get("/v1/cost-records", ch.ListCostRecords)

	insight := handler.NewInsightHandler(cfg.Store, cfg.ClassifierCfg)
	r.Get("/v1/properties/{id}/risk", insight.GetPropertyRisk)
	r.Get("/v1/properties/{id}/trends", insight.GetPropertyTrends)
	r.Get("/v1/properties/{id}/recommendations", insight.GetPropertyRecommendations)
	r.Get("/v1/portfolio/summary", insight.GetPortfolioSummary)
	r.Get("/v1/portfolio/risk", insight.GetPortfolioRisk)

	cal := handler.NewCalendarHandler(cfg.Store, cfg.ClassifierCfg)
	r.Get("/v1/properties/{id}/calendar.ics", cal.ExportICS)
	r.Get("/v1/properties/{id}/upcoming", cal.GetUpcoming)

	catalog := handler.NewCatalogHandler()
	r.Get("/v1/catalog", catalog.ListSystems)
	r.Get("/v1/catalog/{key}", catalog.GetSystem)

	if cfg.ActivityStore != nil {
		ah := handler.NewActivityHandler(cfg.ActivityStore)
		r.Get("/v1/activity/{entityType}/{id}", ah.GetTimeline)
		r.Get("/v1/properties/{id}/activity", ah.GetPropertyTimeline)
	}

	return handler.Recovery(handler.Logging(r))
}

// Run starts the HTTP server and shuts it down when ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("starting server on %s", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      NewRouter(cfg),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
