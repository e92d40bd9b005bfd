package main

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kerrybros/fullbay-ingest/internal/store"
)

type application struct {
	config config
	store  store.Storage
}

type config struct {
	addr string
	db   dbConfig
}

type dbConfig struct {
	addr         string
	maxOpenConns int
	maxIdleConns int
	maxIdleTime  string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)

	// Set a timeout value on the request context (ctx), that will signal
	// through ctx.Done() that the request has timed out and further
	// processing should be stopped.
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", app.healthCheckHandler)
		r.Route("/invoices/{invoiceID}", func(r chi.Router) {
			r.Get("/line-items", app.handleGetInvoiceLineItems)
			r.Get("/raw", app.handleGetRawInvoice)
		})
		r.Route("/ingestion", func(r chi.Router) {
			r.Get("/history", app.handleGetIngestionHistory)
			r.Patch("/{id}/status", app.handleUpdateIngestionStatus)
		})
		r.Route("/reports", func(r chi.Router) {
			r.Get("/revenue-by-type", app.handleGetRevenueByType)
			r.Get("/top-customers", app.handleGetTopCustomers)
			r.Get("/technician-hours", app.handleGetTechnicianHours)
			r.Get("/parts-margin", app.handleGetPartsMargin)
			r.Get("/ingestion-quality", app.handleGetIngestionQuality)
		})
	})

	return r
}

func (app *application) run(mux http.Handler) error {

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 120,
		ReadTimeout:  time.Second * 40,
		IdleTimeout:  time.Minute,
	}

	log.Printf("Server started on %s", app.config.addr)
	return srv.ListenAndServe()
}
