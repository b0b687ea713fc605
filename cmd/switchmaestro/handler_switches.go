package main

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sguter90/switchmaestro/pkg/api"
	"github.com/sguter90/switchmaestro/pkg/registry"
)

type disabledRequest struct {
	Disabled bool `json:"disabled"`
}

// switchErrorStatus maps registry errors to HTTP status codes
func switchErrorStatus(err error) int {
	switch {
	case errors.Is(err, registry.ErrUnknownSwitch):
		return http.StatusNotFound
	case errors.Is(err, registry.ErrNotConnected),
		errors.Is(err, registry.ErrSwitchDisabled),
		errors.Is(err, registry.ErrSwitchFaulted),
		errors.Is(err, registry.ErrAlreadyConnected),
		errors.Is(err, registry.ErrConnectInProgress):
		return http.StatusConflict
	case errors.Is(err, registry.ErrConnectFailed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (rm *RouteManager) handleListSwitches(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, rm.registry.ListSwitches())
}

func (rm *RouteManager) handleToggleSwitch(w http.ResponseWriter, r *http.Request) {
	sw, err := rm.registry.ToggleSwitch(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, switchErrorStatus(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, sw)
}

func (rm *RouteManager) handleSetSwitchDisabled(w http.ResponseWriter, r *http.Request) {
	var req disabledRequest
	if !decodeBody(w, r, &req) {
		return
	}

	id := mux.Vars(r)["id"]
	if !rm.registry.SetDisabled(id, req.Disabled) {
		respondError(w, http.StatusNotFound, "Switch not found")
		return
	}

	sw, _ := rm.registry.Switch(id)
	respondJSON(w, http.StatusOK, sw)
}

func (rm *RouteManager) handleSystemStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, rm.registry.Status())
}

func (rm *RouteManager) handleConnect(w http.ResponseWriter, r *http.Request) {
	if err := rm.registry.Connect(r.Context()); err != nil {
		respondError(w, switchErrorStatus(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, rm.registry.Status())
}

func (rm *RouteManager) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	rm.registry.Disconnect()
	respondJSON(w, http.StatusOK, rm.registry.Status())
}

func (rm *RouteManager) handleListFaults(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, rm.registry.Faults())
}

func (rm *RouteManager) handleClearFault(w http.ResponseWriter, r *http.Request) {
	if !rm.registry.ClearFault(mux.Vars(r)["id"]) {
		respondError(w, http.StatusNotFound, "Fault not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rm *RouteManager) handleDiagnostics(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, api.DiagnosticsResponse{
		Samples: rm.sampler.Samples(),
		Summary: rm.sampler.Summary(),
	})
}
