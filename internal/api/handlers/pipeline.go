package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/wonny/ignition/internal/contracts"
	"github.com/wonny/ignition/internal/pipeline"
	"github.com/wonny/ignition/pkg/logger"
)

// PipelineHandler handles staging pipeline endpoints
// ⭐ SSOT: 파이프라인 API 핸들러는 이 구조체에서만
type PipelineHandler struct {
	runner *pipeline.Runner
	budget time.Duration
	logger *logger.Logger
}

// NewPipelineHandler creates a pipeline handler. budget bounds run-all.
func NewPipelineHandler(runner *pipeline.Runner, budget time.Duration, log *logger.Logger) *PipelineHandler {
	return &PipelineHandler{runner: runner, budget: budget, logger: log}
}

// Status returns pipeline progress
// GET /api/pipeline/status
func (h *PipelineHandler) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.runner.Status(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to collect pipeline status")
		respondError(w, http.StatusInternalServerError, "Failed to collect pipeline status")
		return
	}
	respondJSON(w, http.StatusOK, status)
}

// RunChunk stages exactly one chunk and exports
// POST /api/pipeline/run-chunk
func (h *PipelineHandler) RunChunk(w http.ResponseWriter, r *http.Request) {
	if err := h.runner.RunOnce(r.Context()); err != nil {
		h.respondRunError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// RunAll loops chunk+export under the wall-clock budget
// POST /api/pipeline/run-all
func (h *PipelineHandler) RunAll(w http.ResponseWriter, r *http.Request) {
	if err := h.runner.RunAll(r.Context(), h.budget); err != nil {
		h.respondRunError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Reset clears pipeline state. ?hard=true wipes the ledger and cache too.
// POST /api/pipeline/reset
func (h *PipelineHandler) Reset(w http.ResponseWriter, r *http.Request) {
	hard := r.URL.Query().Get("hard") == "true"

	var err error
	if hard {
		err = h.runner.HardReset(r.Context())
	} else {
		err = h.runner.SoftReset(r.Context())
	}
	if err != nil {
		h.logger.WithError(err).Error("Reset failed")
		respondError(w, http.StatusInternalServerError, "Reset failed")
		return
	}

	mode := "soft"
	if hard {
		mode = "hard"
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok", "mode": mode})
}

// respondRunError maps pipeline errors to HTTP statuses. Lock contention
// is a benign skip, not a failure.
func (h *PipelineHandler) respondRunError(w http.ResponseWriter, err error) {
	if errors.Is(err, contracts.ErrLocked) {
		respondJSON(w, http.StatusConflict, map[string]string{"status": "skipped — locked"})
		return
	}

	h.logger.WithError(err).Error("Pipeline run failed")

	status := http.StatusInternalServerError
	if contracts.IsFetchError(err) {
		status = http.StatusBadGateway
	}
	respondError(w, status, err.Error())
}
