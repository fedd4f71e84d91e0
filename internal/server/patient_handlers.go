package server

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/iwvelando/care-forecast/internal/patients"
	"github.com/iwvelando/care-forecast/pkg/constants"
)

func (h *handler) respondPatientError(w http.ResponseWriter, err error, view, op string) {
	if errors.Is(err, patients.ErrPatientNotFound) {
		h.metrics.PatientLookups.WithLabelValues(view, "not_found").Inc()
		h.respondErrorWithOp(w, http.StatusNotFound, err.Error(), op)
		return
	}
	h.metrics.PatientLookups.WithLabelValues(view, "error").Inc()
	h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
}

func (h *handler) handleSuggest(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", constants.DefaultSuggestLimit)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), "server.handleSuggest")
		return
	}

	suggestions, err := h.patients.Suggest(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), "server.handleSuggest")
		return
	}
	h.writeJSON(w, http.StatusOK, suggestions)
}

func (h *handler) handlePatients(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.patients.List(r.Context())
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), "server.handlePatients")
		return
	}
	h.writeJSON(w, http.StatusOK, summaries)
}

func (h *handler) handlePatient(w http.ResponseWriter, r *http.Request) {
	p, err := h.patients.Patient(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.respondPatientError(w, err, "patient", "server.handlePatient")
		return
	}
	h.metrics.PatientLookups.WithLabelValues("patient", "found").Inc()
	h.writeJSON(w, http.StatusOK, p.Summarize())
}

func (h *handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.patients.History(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.respondPatientError(w, err, "history", "server.handleHistory")
		return
	}
	h.metrics.PatientLookups.WithLabelValues("history", "found").Inc()
	h.writeJSON(w, http.StatusOK, history)
}

func (h *handler) handleFutures(w http.ResponseWriter, r *http.Request) {
	snapshot, err := queryInt(r, "snapshot_events", 0)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), "server.handleFutures")
		return
	}
	topK, err := queryInt(r, "top_k", constants.DefaultFuturesTopK)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), "server.handleFutures")
		return
	}

	trajectories, err := h.patients.Futures(r.Context(), mux.Vars(r)["id"], snapshot, topK)
	if err != nil {
		h.respondPatientError(w, err, "futures", "server.handleFutures")
		return
	}
	h.metrics.PatientLookups.WithLabelValues("futures", "found").Inc()
	h.writeJSON(w, http.StatusOK, trajectories)
}

func (h *handler) handleEarlyWarnings(w http.ResponseWriter, r *http.Request) {
	warnings, err := h.patients.EarlyWarnings(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.respondPatientError(w, err, "ews", "server.handleEarlyWarnings")
		return
	}
	h.metrics.PatientLookups.WithLabelValues("ews", "found").Inc()
	h.writeJSON(w, http.StatusOK, warnings)
}
