package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/ignition/internal/api/handlers"
	"github.com/wonny/ignition/pkg/logger"
)

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(
	pipelineHandler *handlers.PipelineHandler,
	signalsHandler *handlers.SignalsHandler,
	filtersHandler *handlers.FiltersHandler,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Pipeline endpoints
	api.HandleFunc("/pipeline/status", pipelineHandler.Status).Methods("GET")
	api.HandleFunc("/pipeline/run-chunk", pipelineHandler.RunChunk).Methods("POST")
	api.HandleFunc("/pipeline/run-all", pipelineHandler.RunAll).Methods("POST")
	api.HandleFunc("/pipeline/reset", pipelineHandler.Reset).Methods("POST")

	// Signal endpoints
	api.HandleFunc("/signals", signalsHandler.Latest).Methods("GET")
	api.HandleFunc("/signals/score", signalsHandler.Score).Methods("POST")
	api.HandleFunc("/signals/compare", signalsHandler.Compare).Methods("GET")

	// Filter endpoints
	api.HandleFunc("/filters", filtersHandler.List).Methods("GET")
	api.HandleFunc("/filters/active", filtersHandler.Activate).Methods("POST")
	api.HandleFunc("/filters/seed", filtersHandler.Seed).Methods("POST")

	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "ignition-api",
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
