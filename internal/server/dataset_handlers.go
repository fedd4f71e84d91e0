package server

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/iwvelando/care-forecast/internal/dataset"
	"github.com/iwvelando/care-forecast/pkg/format"
	"github.com/shopspring/decimal"
)

type costsResponse struct {
	dataset.CostLedger
	Multiplier       decimal.Decimal `json:"multiplier"`
	OverrunDisplay   string          `json:"overrunDisplay"`
	RealTotalDisplay string          `json:"realTotalDisplay"`
}

type quadrantThresholds struct {
	SpaRate          float64 `json:"spaRate"`
	ComplicationRate float64 `json:"complicationRate"`
}

type providersResponse struct {
	Providers  []dataset.ProviderPoint  `json:"providers"`
	Counts     map[dataset.Quadrant]int `json:"counts"`
	Thresholds quadrantThresholds       `json:"thresholds"`
}

type flowResponse struct {
	dataset.Flow
	Imbalances []string `json:"imbalances,omitempty"`
}

func (h *handler) handleCosts(w http.ResponseWriter, r *http.Request) {
	ledger := h.data.Ledger()
	overrun, _ := ledger.Overrun.Float64()
	total, _ := ledger.RealTotal.Float64()
	h.writeJSON(w, http.StatusOK, costsResponse{
		CostLedger:       ledger,
		Multiplier:       ledger.Multiplier(),
		OverrunDisplay:   format.SignedCurrency(overrun, h.currency()),
		RealTotalDisplay: format.Currency(total, h.currency()),
	})
}

func (h *handler) handleRegional(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.data.RegionalScorecard())
}

func (h *handler) handleProviders(w http.ResponseWriter, r *http.Request) {
	thresholds := quadrantThresholds{
		SpaRate:          dataset.QuadrantSpaRate,
		ComplicationRate: dataset.QuadrantComplicationRate,
	}
	h.writeJSON(w, http.StatusOK, providersResponse{
		Providers:  h.data.ProviderQuadrants(),
		Counts:     h.data.QuadrantCounts(),
		Thresholds: thresholds,
	})
}

func (h *handler) handleTiming(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.data.DelaySummary())
}

func (h *handler) handleAnomalies(w http.ResponseWriter, r *http.Request) {
	anomalies := h.data.Anomalies
	if anomalies == nil {
		anomalies = []dataset.Anomaly{}
	}
	h.writeJSON(w, http.StatusOK, anomalies)
}

func (h *handler) handleAnomaly(w http.ResponseWriter, r *http.Request) {
	anomaly, err := h.data.Anomaly(mux.Vars(r)["id"])
	if errors.Is(err, dataset.ErrAnomalyNotFound) {
		h.respondErrorWithOp(w, http.StatusNotFound, err.Error(), "server.handleAnomaly")
		return
	}
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), "server.handleAnomaly")
		return
	}
	h.writeJSON(w, http.StatusOK, anomaly)
}

func (h *handler) handleAnomalyScatter(w http.ResponseWriter, r *http.Request) {
	seed, err := queryInt(r, "seed", 1)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), "server.handleAnomalyScatter")
		return
	}
	if seed < 0 {
		h.respondErrorWithOp(w, http.StatusBadRequest, "seed must not be negative", "server.handleAnomalyScatter")
		return
	}
	h.writeJSON(w, http.StatusOK, dataset.AnomalyScatter(uint64(seed)))
}

func (h *handler) handleTimingScatter(w http.ResponseWriter, r *http.Request) {
	seed, err := queryInt(r, "seed", 1)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), "server.handleTimingScatter")
		return
	}
	n, err := queryInt(r, "n", dataset.DefaultScatterPoints)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), "server.handleTimingScatter")
		return
	}
	if seed < 0 || n < 0 {
		h.respondErrorWithOp(w, http.StatusBadRequest, "seed and n must not be negative", "server.handleTimingScatter")
		return
	}
	h.writeJSON(w, http.StatusOK, dataset.TimingScatter(uint64(seed), n))
}

func (h *handler) handleTasks(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.data.Board())
}

func (h *handler) handleFlow(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, flowResponse{
		Flow:       h.data.Flow,
		Imbalances: h.data.Flow.Imbalances(),
	})
}
