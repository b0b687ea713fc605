package main

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sguter90/switchmaestro/pkg/api"
	"github.com/sguter90/switchmaestro/pkg/models"
	"go.uber.org/zap"
)

func (rm *RouteManager) handleListPatterns(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, rm.dashboard.Customize.PatternBanks())
}

func (rm *RouteManager) handleAddPattern(w http.ResponseWriter, r *http.Request) {
	var req api.PatternRequest
	if !decodeBody(w, r, &req) {
		return
	}

	bank, err := rm.dashboard.Customize.AddPatternBank(req.Name, req.Switches, req.Color)
	if err != nil {
		if !respondValidation(w, err) {
			respondError(w, http.StatusInternalServerError, "Failed to create pattern bank")
		}
		return
	}
	respondJSON(w, http.StatusCreated, bank)
}

func (rm *RouteManager) handleUpdatePattern(w http.ResponseWriter, r *http.Request) {
	var patch models.PatternBankPatch
	if !decodeBody(w, r, &patch) {
		return
	}

	id := mux.Vars(r)["id"]
	ok, err := rm.dashboard.Customize.UpdatePatternBank(id, patch)
	if err != nil {
		if !respondValidation(w, err) {
			respondError(w, http.StatusInternalServerError, "Failed to update pattern bank")
		}
		return
	}
	if !ok {
		respondError(w, http.StatusNotFound, "Pattern bank not found")
		return
	}

	bank, _ := rm.dashboard.Customize.PatternBank(id)
	respondJSON(w, http.StatusOK, bank)
}

func (rm *RouteManager) handleRemovePattern(w http.ResponseWriter, r *http.Request) {
	if !rm.dashboard.Customize.RemovePatternBank(mux.Vars(r)["id"]) {
		respondError(w, http.StatusNotFound, "Pattern bank not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rm *RouteManager) handleActivatePattern(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	result, ok := rm.dashboard.ActivatePattern(id)
	if !ok {
		respondError(w, http.StatusNotFound, "Pattern bank not found")
		return
	}

	rm.metrics.observeActivation(result)
	for switchID, reason := range result.Failed {
		rm.logger.Info("switch refused activation",
			zap.String("pattern", id),
			zap.String("switch", switchID),
			zap.String("reason", reason))
	}
	respondJSON(w, http.StatusOK, result)
}
