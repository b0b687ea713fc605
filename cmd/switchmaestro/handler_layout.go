package main

import (
	"errors"
	"net/http"

	"github.com/sguter90/switchmaestro/pkg/api"
	"github.com/sguter90/switchmaestro/pkg/persistence"
	"go.uber.org/zap"
)

func (rm *RouteManager) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, rm.dashboard.Snapshot())
}

func (rm *RouteManager) handleSaveLayout(w http.ResponseWriter, r *http.Request) {
	err := rm.persistence.Save(r.Context())
	rm.metrics.observeSave(err)
	if err == nil {
		respondJSON(w, http.StatusOK, api.SaveResponse{Status: "saved"})
		return
	}

	rm.logger.Error("❌ layout save failed", zap.Error(err))

	resp := api.ErrorResponse{Error: "failed to save layout"}
	var perr *persistence.PersistenceError
	if errors.As(err, &perr) {
		resp.Failures = make(map[string]string, len(perr.Failures))
		for key, ferr := range perr.Failures {
			resp.Failures[key] = ferr.Error()
		}
	}
	respondJSON(w, http.StatusInternalServerError, resp)
}

func (rm *RouteManager) handleLoadLayout(w http.ResponseWriter, r *http.Request) {
	result := rm.persistence.Load(r.Context())

	resp := api.LoadResponse{
		Restored: result.Restored,
		Layout:   rm.dashboard.Snapshot(),
	}
	if resp.Restored == nil {
		resp.Restored = []string{}
	}
	if len(result.Problems) > 0 {
		resp.Problems = make(map[string]string, len(result.Problems))
		for key, perr := range result.Problems {
			resp.Problems[key] = perr.Error()
		}
	}
	respondJSON(w, http.StatusOK, resp)
}
