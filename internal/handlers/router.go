package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Lacarte/video-player/internal/scanner"
)

// MetricsHandler returns the Prometheus metrics handler
func (h *Handlers) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Router registers every route. /metrics is only mounted when
// metricsEnabled is set.
func (h *Handlers) Router(metricsEnabled bool) *mux.Router {
	r := mux.NewRouter().SkipClean(true)

	// Health check and version routes
	r.HandleFunc("/healthz", h.HealthCheck).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/livez", h.LivenessCheck).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods(http.MethodGet)
	r.HandleFunc("/version", h.GetVersion).Methods(http.MethodGet)
	if metricsEnabled {
		r.Handle("/metrics", h.MetricsHandler()).Methods(http.MethodGet)
	}

	// API routes
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/playlist", h.GetPlaylist).Methods(http.MethodGet)
	api.HandleFunc("/duration", h.GetDuration).Methods(http.MethodPost)
	api.HandleFunc("/conversion-status", h.GetConversionStatus).Methods(http.MethodGet)
	api.HandleFunc("/convert", h.StartConversion).Methods(http.MethodPost)

	// Course files
	r.PathPrefix(scanner.MediaPrefix).HandlerFunc(h.StreamMedia).Methods(http.MethodGet, http.MethodHead)

	// Player front end
	r.HandleFunc("/static/{file}", h.ServeStatic).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/", h.ServeIndex).Methods(http.MethodGet, http.MethodHead)

	return r
}
