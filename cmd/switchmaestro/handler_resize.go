package main

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sguter90/switchmaestro/pkg/api"
	"github.com/sguter90/switchmaestro/pkg/layout"
)

func (rm *RouteManager) handleBeginResize(w http.ResponseWriter, r *http.Request) {
	var req api.ResizeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	id := mux.Vars(r)["id"]
	if _, ok := rm.dashboard.Widgets.Widget(id); !ok {
		respondError(w, http.StatusNotFound, "Widget not found")
		return
	}

	err := rm.dashboard.Resize.Begin(id, req.Edge, req.Origin, req.Container)
	if errors.Is(err, layout.ErrGestureInProgress) {
		respondError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		if !respondValidation(w, err) {
			respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	respondJSON(w, http.StatusOK, rm.resizeState(id))
}

func (rm *RouteManager) handlePointerMove(w http.ResponseWriter, r *http.Request) {
	var p layout.Point
	if !decodeBody(w, r, &p) {
		return
	}

	id, _ := rm.dashboard.Resize.ActiveWidget()
	rm.dashboard.Pointer.Move(p)
	respondJSON(w, http.StatusOK, rm.resizeState(id))
}

func (rm *RouteManager) handlePointerUp(w http.ResponseWriter, r *http.Request) {
	var p layout.Point
	if !decodeBody(w, r, &p) {
		return
	}

	id, _ := rm.dashboard.Resize.ActiveWidget()
	rm.dashboard.Pointer.Up(p)
	respondJSON(w, http.StatusOK, rm.resizeState(id))
}

// resizeState reports the engine state and the current size of widgetID
func (rm *RouteManager) resizeState(widgetID string) api.ResizeState {
	state := api.ResizeState{Active: rm.dashboard.Resize.Active()}
	if widgetID == "" {
		return state
	}

	state.WidgetID = widgetID
	if widget, ok := rm.dashboard.Widgets.Widget(widgetID); ok {
		state.Size = layout.Size{Width: widget.Width, Height: widget.Height}
	}
	return state
}
