package server

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/iwvelando/care-forecast/internal/config"
	"github.com/iwvelando/care-forecast/internal/dataset"
	"github.com/iwvelando/care-forecast/internal/patients"
	"github.com/iwvelando/care-forecast/internal/simulation"
	"github.com/iwvelando/care-forecast/pkg/constants"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// Options carries the optional pieces of the HTTP handler.
type Options struct {
	Version        string
	AllowedOrigins []string
	Registry       *prometheus.Registry
	Patients       *patients.Service
}

type handler struct {
	logger   *zap.Logger
	app      *config.Configuration
	sim      *simulation.Simulator
	data     *dataset.Dataset
	patients *patients.Service
	metrics  *Collector
	version  string
}

// NewHandler constructs the HTTP handler that serves the dashboard API. A nil
// configuration or dataset selects the defaults; without a patient service one
// is built over the dataset's patients.
func NewHandler(logger *zap.Logger, app *config.Configuration, data *dataset.Dataset, opts Options) (http.Handler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if app == nil {
		app = config.Default()
	}
	if data == nil {
		var err error
		if data, err = dataset.Load(app.Dataset.Path); err != nil {
			return nil, err
		}
	}

	sim, err := app.NewSimulator()
	if err != nil {
		return nil, fmt.Errorf("failed to create simulator: %w", err)
	}

	svc := opts.Patients
	if svc == nil {
		svc = patients.NewService(
			patients.NewMemoryRepository(data.Patients),
			patients.NewIndex(data.Suggestions()),
			patients.WithCache(patients.NewMemoryCache(), 0),
			patients.WithLogger(logger),
		)
	}

	version := strings.TrimSpace(opts.Version)
	if version == "" {
		version = "dev"
	}

	h := &handler{
		logger:   logger,
		app:      app,
		sim:      sim,
		data:     data,
		patients: svc,
		metrics:  NewCollector(constants.MetricsNamespace, opts.Registry),
		version:  version,
	}

	r := mux.NewRouter()
	r.Use(h.instrument)
	r.NotFoundHandler = h.instrument(http.HandlerFunc(h.handleNotFound))
	r.MethodNotAllowedHandler = h.instrument(http.HandlerFunc(h.handleMethodNotAllowed))

	r.HandleFunc("/healthz", h.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", h.metrics.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/api/version", h.handleVersion).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	// What-if simulation
	api.HandleFunc("/simulation/impact", h.handleImpact).Methods(http.MethodGet)
	api.HandleFunc("/simulation/sweep", h.handleSweep).Methods(http.MethodGet)
	api.HandleFunc("/simulation/optimize", h.handleOptimize).Methods(http.MethodGet)
	api.HandleFunc("/savings", h.handleSavings).Methods(http.MethodGet)

	// Dashboard views
	api.HandleFunc("/economics/costs", h.handleCosts).Methods(http.MethodGet)
	api.HandleFunc("/regional", h.handleRegional).Methods(http.MethodGet)
	api.HandleFunc("/network/providers", h.handleProviders).Methods(http.MethodGet)
	api.HandleFunc("/analytics/timing", h.handleTiming).Methods(http.MethodGet)
	api.HandleFunc("/analytics/timing/scatter", h.handleTimingScatter).Methods(http.MethodGet)
	api.HandleFunc("/anomalies", h.handleAnomalies).Methods(http.MethodGet)
	api.HandleFunc("/anomalies/scatter", h.handleAnomalyScatter).Methods(http.MethodGet)
	api.HandleFunc("/anomalies/{id}", h.handleAnomaly).Methods(http.MethodGet)
	api.HandleFunc("/workflow/tasks", h.handleTasks).Methods(http.MethodGet)
	api.HandleFunc("/cohorts/flow", h.handleFlow).Methods(http.MethodGet)

	// Patient lookup
	api.HandleFunc("/suggest", h.handleSuggest).Methods(http.MethodGet)
	api.HandleFunc("/patients", h.handlePatients).Methods(http.MethodGet)
	api.HandleFunc("/patients/{id}", h.handlePatient).Methods(http.MethodGet)
	api.HandleFunc("/patients/{id}/history", h.handleHistory).Methods(http.MethodGet)
	api.HandleFunc("/patients/{id}/futures", h.handleFutures).Methods(http.MethodGet)
	api.HandleFunc("/patients/{id}/ews", h.handleEarlyWarnings).Methods(http.MethodGet)

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = constants.DefaultAllowedOrigins
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
	})

	return c.Handler(requestID(r)), nil
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleNotFound(w http.ResponseWriter, r *http.Request) {
	h.respondErrorWithOp(w, http.StatusNotFound, fmt.Sprintf("no route for %s", r.URL.Path), "server.handleNotFound")
}

func (h *handler) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.respondErrorWithOp(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed), "server.handleMethodNotAllowed")
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	level := h.logger.Warn
	if status >= http.StatusInternalServerError {
		level = h.logger.Error
	}
	level("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

// queryFloat reads a finite float query parameter, falling back to def when
// the parameter is absent.
func queryFloat(r *http.Request, name string, def float64) (float64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid %s: %q is not a finite number", name, raw)
	}
	return v, nil
}

// queryInt reads an integer query parameter, falling back to def when the
// parameter is absent.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q is not an integer", name, raw)
	}
	return v, nil
}
