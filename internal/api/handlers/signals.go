package handlers

import (
	"errors"
	"net/http"

	"github.com/wonny/ignition/internal/contracts"
	"github.com/wonny/ignition/internal/pipeline"
	"github.com/wonny/ignition/internal/scoring"
	"github.com/wonny/ignition/pkg/logger"
)

// SignalsHandler handles scoring endpoints
type SignalsHandler struct {
	runner *pipeline.Runner
	store  scoring.SignalStore
	logger *logger.Logger
}

// NewSignalsHandler creates a signals handler
func NewSignalsHandler(runner *pipeline.Runner, store scoring.SignalStore, log *logger.Logger) *SignalsHandler {
	return &SignalsHandler{runner: runner, store: store, logger: log}
}

// Latest returns the current ranked signal set
// GET /api/signals
func (h *SignalsHandler) Latest(w http.ResponseWriter, r *http.Request) {
	signals, err := h.store.Latest(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to load signals")
		respondError(w, http.StatusInternalServerError, "Failed to load signals")
		return
	}
	if signals == nil {
		signals = []contracts.TradeSignal{}
	}
	respondJSON(w, http.StatusOK, signals)
}

// Score runs a scoring pass and returns the fresh ranking
// POST /api/signals/score
func (h *SignalsHandler) Score(w http.ResponseWriter, r *http.Request) {
	signals, err := h.runner.RunScoring(r.Context())
	if err != nil {
		if errors.Is(err, contracts.ErrLocked) {
			respondJSON(w, http.StatusConflict, map[string]string{"status": "skipped — locked"})
			return
		}
		// Scoring failures surface as a message, never a crash
		h.logger.WithError(err).Error("Scoring run failed")
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, signals)
}

// Compare scores the cache under every stored filter
// GET /api/signals/compare
func (h *SignalsHandler) Compare(w http.ResponseWriter, r *http.Request) {
	report, err := h.runner.RunComparison(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Comparison run failed")
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, report)
}
