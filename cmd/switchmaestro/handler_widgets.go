package main

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sguter90/switchmaestro/pkg/api"
	"github.com/sguter90/switchmaestro/pkg/models"
)

func (rm *RouteManager) handleListWidgets(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, rm.dashboard.Widgets.ListWidgets())
}

func (rm *RouteManager) handleGetWidget(w http.ResponseWriter, r *http.Request) {
	widget, ok := rm.dashboard.Widgets.Widget(mux.Vars(r)["id"])
	if !ok {
		respondError(w, http.StatusNotFound, "Widget not found")
		return
	}
	respondJSON(w, http.StatusOK, widget)
}

func (rm *RouteManager) handleAddWidget(w http.ResponseWriter, r *http.Request) {
	var spec models.WidgetSpec
	if !decodeBody(w, r, &spec) {
		return
	}
	if !spec.Kind.Valid() {
		respondJSON(w, http.StatusBadRequest, api.ErrorResponse{Error: "unknown widget type", Field: "type"})
		return
	}

	id := rm.dashboard.Widgets.AddWidget(spec)
	respondJSON(w, http.StatusCreated, api.IDResponse{ID: id})
}

func (rm *RouteManager) handleAddWidgetAt(w http.ResponseWriter, r *http.Request) {
	var req api.AddAtRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !req.Widget.Kind.Valid() {
		respondJSON(w, http.StatusBadRequest, api.ErrorResponse{Error: "unknown widget type", Field: "type"})
		return
	}

	id, cell := rm.dashboard.AddWidgetAt(req.Widget, req.Point, req.Container)
	respondJSON(w, http.StatusCreated, api.DropResponse{ID: id, Cell: cell})
}

func (rm *RouteManager) handleMoveWidget(w http.ResponseWriter, r *http.Request) {
	var req api.PositionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !rm.dashboard.Widgets.MoveWidget(mux.Vars(r)["id"], req.X, req.Y) {
		respondError(w, http.StatusNotFound, "Widget not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rm *RouteManager) handleResizeWidget(w http.ResponseWriter, r *http.Request) {
	var req api.SizeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !rm.dashboard.Widgets.ResizeWidget(mux.Vars(r)["id"], req.Width, req.Height) {
		respondError(w, http.StatusNotFound, "Widget not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rm *RouteManager) handleUpdateWidgetConfig(w http.ResponseWriter, r *http.Request) {
	var partial models.WidgetConfig
	if !decodeBody(w, r, &partial) {
		return
	}
	if !rm.dashboard.Widgets.UpdateWidgetConfig(mux.Vars(r)["id"], partial) {
		respondError(w, http.StatusNotFound, "Widget not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rm *RouteManager) handleRemoveWidget(w http.ResponseWriter, r *http.Request) {
	if !rm.dashboard.Widgets.RemoveWidget(mux.Vars(r)["id"]) {
		respondError(w, http.StatusNotFound, "Widget not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rm *RouteManager) handleReorderWidget(w http.ResponseWriter, r *http.Request) {
	var req api.ReorderRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !rm.dashboard.Widgets.ReorderWidget(req.From, req.To) {
		respondError(w, http.StatusBadRequest, "Index out of range")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rm *RouteManager) handleDropWidget(w http.ResponseWriter, r *http.Request) {
	var req api.DropRequest
	if !decodeBody(w, r, &req) {
		return
	}

	id := mux.Vars(r)["id"]
	cell, ok := rm.dashboard.DropWidget(id, req.Point, req.Container)
	if !ok {
		respondError(w, http.StatusNotFound, "Widget not found")
		return
	}
	respondJSON(w, http.StatusOK, api.DropResponse{ID: id, Cell: cell})
}
