package server

import (
	"net/http"

	"github.com/iwvelando/care-forecast/internal/optimizer"
	"github.com/iwvelando/care-forecast/internal/savings"
	"github.com/iwvelando/care-forecast/internal/simulation"
	"github.com/iwvelando/care-forecast/pkg/format"
	"go.uber.org/zap"
)

type impactResponse struct {
	simulation.Result
	Capacity       simulation.Capacity       `json:"capacity"`
	Recommendation simulation.Recommendation `json:"recommendation"`
	BalanceDisplay string                    `json:"balanceDisplay"`
}

type sweepPoint struct {
	Increase float64             `json:"increase"`
	Result   simulation.Result   `json:"result"`
	Capacity simulation.Capacity `json:"capacity"`
}

type sweepResponse struct {
	Range  simulation.Range `json:"range"`
	Points []sweepPoint     `json:"points"`
}

type savingsResponse struct {
	savings.Estimate
	SavedCostDisplay string `json:"savedCostDisplay"`
}

func (h *handler) currency() string {
	if h.app.Output.CurrencySuffix != "" {
		return h.app.Output.CurrencySuffix
	}
	return format.DefaultCurrencySuffix
}

func (h *handler) impactFor(increase float64) impactResponse {
	result := h.sim.ComputeImpact(increase)
	return impactResponse{
		Result:         result,
		Capacity:       h.sim.Capacity(increase, h.app.Capacity),
		Recommendation: simulation.Recommend(result),
		BalanceDisplay: format.SignedCurrency(float64(result.NetFinancialBalance), h.currency()),
	}
}

func (h *handler) handleImpact(w http.ResponseWriter, r *http.Request) {
	increase, err := queryFloat(r, "increase", 0)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), "server.handleImpact")
		return
	}

	resp := h.impactFor(increase)
	h.metrics.SimulationsTotal.WithLabelValues("impact").Inc()
	h.logger.Debug("computed impact",
		zap.String("op", "server.handleImpact"),
		zap.Float64("increase", increase),
		zap.Int("avoided", resp.AvoidedAdverseCount),
		zap.Int64("balance", resp.NetFinancialBalance),
	)
	h.writeJSON(w, http.StatusOK, resp)
}

// rangeFromQuery overlays min, max and step query parameters on the
// configured slider range.
func (h *handler) rangeFromQuery(r *http.Request) (simulation.Range, error) {
	rng := h.app.Slider
	var err error
	if rng.Min, err = queryFloat(r, "min", rng.Min); err != nil {
		return rng, err
	}
	if rng.Max, err = queryFloat(r, "max", rng.Max); err != nil {
		return rng, err
	}
	if rng.Step, err = queryFloat(r, "step", rng.Step); err != nil {
		return rng, err
	}
	return rng, rng.Validate()
}

func (h *handler) handleSweep(w http.ResponseWriter, r *http.Request) {
	rng, err := h.rangeFromQuery(r)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), "server.handleSweep")
		return
	}

	points, err := h.sim.Sweep(rng)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), "server.handleSweep")
		return
	}

	resp := sweepResponse{Range: rng, Points: make([]sweepPoint, 0, len(points))}
	for _, p := range points {
		resp.Points = append(resp.Points, sweepPoint{
			Increase: p.Increase,
			Result:   p.Result,
			Capacity: h.sim.Capacity(p.Increase, h.app.Capacity),
		})
	}
	h.metrics.SimulationsTotal.WithLabelValues("sweep").Inc()
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleOptimize(w http.ResponseWriter, r *http.Request) {
	rng, err := h.rangeFromQuery(r)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), "server.handleOptimize")
		return
	}

	runner, err := optimizer.NewRunner(h.logger, h.sim, optimizer.BoundsFromRange(rng))
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), "server.handleOptimize")
		return
	}
	summary, err := runner.WithCurrencySuffix(h.currency()).Run()
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), "server.handleOptimize")
		return
	}

	h.metrics.SimulationsTotal.WithLabelValues("optimize").Inc()
	h.writeJSON(w, http.StatusOK, summary)
}

func (h *handler) handleSavings(w http.ResponseWriter, r *http.Request) {
	efficiency, err := queryFloat(r, "efficiency", 0)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), "server.handleSavings")
		return
	}

	estimate := h.app.Savings.Compute(efficiency)
	h.metrics.SimulationsTotal.WithLabelValues("savings").Inc()
	h.writeJSON(w, http.StatusOK, savingsResponse{
		Estimate:         estimate,
		SavedCostDisplay: format.Millions(estimate.SavedCost, h.currency()),
	})
}
