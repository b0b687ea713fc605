package main

import (
	"net/http"
	"time"

	"github.com/sguter90/switchmaestro/pkg/api"
	"github.com/sguter90/switchmaestro/pkg/storage"
	"go.uber.org/zap"
)

func (rm *RouteManager) healthHandler(w http.ResponseWriter, r *http.Request) {
	health := api.HealthStatus{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   version,
		Storage:   rm.storageDriver,
	}

	if err := storage.CheckHealth(r.Context(), rm.kv); err != nil {
		rm.logger.Warn("❌ storage unhealthy", zap.Error(err))
		health.Status = "degraded"
		health.StorageError = err.Error()
	}
	respondJSON(w, http.StatusOK, health)
}
