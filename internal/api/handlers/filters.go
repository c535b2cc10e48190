package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wonny/ignition/internal/contracts"
	"github.com/wonny/ignition/internal/filters"
	"github.com/wonny/ignition/internal/pipeline"
	"github.com/wonny/ignition/pkg/logger"
)

// FiltersHandler handles filter management endpoints
type FiltersHandler struct {
	store  contracts.FilterStore
	runner *pipeline.Runner
	logger *logger.Logger
}

// NewFiltersHandler creates a filters handler
func NewFiltersHandler(store contracts.FilterStore, runner *pipeline.Runner, log *logger.Logger) *FiltersHandler {
	return &FiltersHandler{store: store, runner: runner, logger: log}
}

// List returns all stored filters plus the active name
// GET /api/filters
func (h *FiltersHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	specs, err := h.store.List(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list filters")
		respondError(w, http.StatusInternalServerError, "Failed to list filters")
		return
	}

	active := ""
	if spec, err := h.store.GetActive(ctx); err == nil {
		active = spec.Name
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"active":  active,
		"filters": specs,
	})
}

// ActivateRequest names the filter to switch to
type ActivateRequest struct {
	Name string `json:"name"`
}

// Activate switches the active filter and invalidates unexported rows
// POST /api/filters/active
func (h *FiltersHandler) Activate(w http.ResponseWriter, r *http.Request) {
	var req ActivateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.runner.SwitchFilter(r.Context(), req.Name); err != nil {
		if errors.Is(err, contracts.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Filter not found: "+req.Name)
			return
		}
		h.logger.WithError(err).Error("Filter switch failed")
		respondError(w, http.StatusInternalServerError, "Filter switch failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok", "active": req.Name})
}

// Seed installs the shipped filter presets
// POST /api/filters/seed
func (h *FiltersHandler) Seed(w http.ResponseWriter, r *http.Request) {
	if err := filters.SeedDefaults(r.Context(), h.store); err != nil {
		h.logger.WithError(err).Error("Filter seeding failed")
		respondError(w, http.StatusInternalServerError, "Filter seeding failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
