// Package ui exposes the exploration server: a JSON API over the loaded
// study plus an HTML report view.
package ui

import (
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"fogstudy/adapters/chart"
	"fogstudy/internal/analysis"
	"fogstudy/internal/report"
	"fogstudy/internal/study"
)

// App represents the exploration server application
type App struct {
	router     *chi.Mux
	study      *study.Study
	summarizer *analysis.Summarizer
	describer  *analysis.Describer
	generator  *report.Generator
	style      chart.Style
	port       string
	sampleSeed int64
}

// Config holds application configuration
type Config struct {
	Port       string
	SampleSeed int64
	Style      chart.Style
}

// NewApp creates the application around an already loaded study
func NewApp(s *study.Study, config Config) *App {
	style := config.Style
	if style.FigWidth == 0 {
		style = chart.DefaultStyle()
	}

	app := &App{
		router:     chi.NewRouter(),
		study:      s,
		summarizer: analysis.NewSummarizer(),
		describer:  analysis.NewDescriber(),
		generator:  report.NewGenerator(),
		style:      style,
		port:       config.Port,
		sampleSeed: config.SampleSeed,
	}

	app.setupMiddleware()
	app.setupRoutes()

	return app
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the API surface
func (a *App) setupRoutes() {
	a.router.Route("/api", func(r chi.Router) {
		r.Get("/datasets", a.handleListDatasets)
		r.Route("/datasets/{name}", func(r chi.Router) {
			r.Get("/rows", a.handleRows)
			r.Get("/summary", a.handleSummary)
			r.Get("/describe", a.handleDescribe)
			r.Get("/distinct", a.handleDistinct)
			r.Get("/compare", a.handleCompare)
			r.Get("/charts/{kind}", a.handleChart)
		})
		r.Get("/report", a.handleReportJSON)
	})
	a.router.Get("/report", a.handleReportHTML)
}

// Router returns the configured router for testing
func (a *App) Router() http.Handler {
	return a.router
}

// Start begins serving HTTP requests on the configured port
func (a *App) Start() error {
	addr := fmt.Sprintf(":%s", a.port)
	log.Printf("[UI] Exploration server starting on %s", addr)
	return http.ListenAndServe(addr, a.router)
}
