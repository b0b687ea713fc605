package main

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sguter90/switchmaestro/pkg/layout"
	"github.com/sguter90/switchmaestro/pkg/persistence"
	"github.com/sguter90/switchmaestro/pkg/registry"
	"github.com/sguter90/switchmaestro/pkg/storage"
	"go.uber.org/zap"
)

// RouteManager handles all API routes
type RouteManager struct {
	dashboard      *layout.Dashboard
	registry       *registry.Registry
	sampler        *registry.Sampler
	persistence    *persistence.Adapter
	kv             storage.KV
	metrics        *Metrics
	logger         *zap.Logger
	allowedOrigins []string
	storageDriver  string
	Router         *mux.Router
}

// NewRouteManager creates a new RouteManager instance
func NewRouteManager(app *App) *RouteManager {
	return &RouteManager{
		dashboard:      app.Dashboard,
		registry:       app.Registry,
		sampler:        app.Sampler,
		persistence:    app.Persistence,
		kv:             app.KV,
		metrics:        NewMetrics(app.Dashboard, app.Registry),
		logger:         app.Logger.Named("http"),
		allowedOrigins: app.Config.Server.AllowedOrigins,
		storageDriver:  app.Driver,
		Router:         mux.NewRouter(),
	}
}

// Setup configures all API routes
func (rm *RouteManager) Setup() {
	r := rm.Router
	r.Use(rm.corsMiddleware)
	r.Use(rm.loggingMiddleware)

	// Global OPTIONS handler - catches all preflight requests
	r.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	r.HandleFunc("/health", rm.healthHandler).Methods("GET")
	r.Handle("/metrics", rm.metrics.Handler()).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()
	rm.setupAPIRoutes(api)
}

// setupAPIRoutes configures all API v1 routes
func (rm *RouteManager) setupAPIRoutes(api *mux.Router) {
	// Widgets
	api.HandleFunc("/widgets", rm.handleListWidgets).Methods("GET")
	api.HandleFunc("/widgets", rm.handleAddWidget).Methods("POST")
	api.HandleFunc("/widgets/reorder", rm.handleReorderWidget).Methods("POST")
	api.HandleFunc("/widgets/drop", rm.handleAddWidgetAt).Methods("POST")
	api.HandleFunc("/widgets/{id}", rm.handleGetWidget).Methods("GET")
	api.HandleFunc("/widgets/{id}", rm.handleRemoveWidget).Methods("DELETE")
	api.HandleFunc("/widgets/{id}/position", rm.handleMoveWidget).Methods("PUT")
	api.HandleFunc("/widgets/{id}/size", rm.handleResizeWidget).Methods("PUT")
	api.HandleFunc("/widgets/{id}/config", rm.handleUpdateWidgetConfig).Methods("PATCH")
	api.HandleFunc("/widgets/{id}/drop", rm.handleDropWidget).Methods("POST")

	// Resize gestures
	api.HandleFunc("/widgets/{id}/resize", rm.handleBeginResize).Methods("POST")
	api.HandleFunc("/pointer/move", rm.handlePointerMove).Methods("POST")
	api.HandleFunc("/pointer/up", rm.handlePointerUp).Methods("POST")

	// Theme
	api.HandleFunc("/theme", rm.handleGetTheme).Methods("GET")
	api.HandleFunc("/theme", rm.handleUpdateTheme).Methods("PATCH")

	// Pattern banks
	api.HandleFunc("/patterns", rm.handleListPatterns).Methods("GET")
	api.HandleFunc("/patterns", rm.handleAddPattern).Methods("POST")
	api.HandleFunc("/patterns/{id}", rm.handleUpdatePattern).Methods("PATCH")
	api.HandleFunc("/patterns/{id}", rm.handleRemovePattern).Methods("DELETE")
	api.HandleFunc("/patterns/{id}/activate", rm.handleActivatePattern).Methods("POST")

	// Controller
	api.HandleFunc("/switches", rm.handleListSwitches).Methods("GET")
	api.HandleFunc("/switches/{id}/toggle", rm.handleToggleSwitch).Methods("POST")
	api.HandleFunc("/switches/{id}/disabled", rm.handleSetSwitchDisabled).Methods("PUT")
	api.HandleFunc("/system", rm.handleSystemStatus).Methods("GET")
	api.HandleFunc("/system/connect", rm.handleConnect).Methods("POST")
	api.HandleFunc("/system/disconnect", rm.handleDisconnect).Methods("POST")
	api.HandleFunc("/faults", rm.handleListFaults).Methods("GET")
	api.HandleFunc("/faults/{id}/clear", rm.handleClearFault).Methods("POST")
	api.HandleFunc("/diagnostics", rm.handleDiagnostics).Methods("GET")

	// Layout persistence
	api.HandleFunc("/layout", rm.handleGetLayout).Methods("GET")
	api.HandleFunc("/layout/save", rm.handleSaveLayout).Methods("POST")
	api.HandleFunc("/layout/load", rm.handleLoadLayout).Methods("POST")
}
