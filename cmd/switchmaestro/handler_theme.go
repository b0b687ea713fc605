package main

import (
	"net/http"

	"github.com/sguter90/switchmaestro/pkg/api"
	"github.com/sguter90/switchmaestro/pkg/models"
)

func themeResponse(theme models.ThemeConfig) api.ThemeResponse {
	return api.ThemeResponse{
		Theme:   theme,
		Palette: theme.Palette(),
		Dark:    theme.IsDarkBackground(),
	}
}

func (rm *RouteManager) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, themeResponse(rm.dashboard.Customize.Theme()))
}

func (rm *RouteManager) handleUpdateTheme(w http.ResponseWriter, r *http.Request) {
	var patch models.ThemePatch
	if !decodeBody(w, r, &patch) {
		return
	}

	if patch.SwitchStyle != nil && !patch.SwitchStyle.Valid() {
		respondJSON(w, http.StatusBadRequest, api.ErrorResponse{Error: "unknown switch style", Field: "switchStyle"})
		return
	}
	if patch.ColorScheme != nil && !patch.ColorScheme.Valid() {
		respondJSON(w, http.StatusBadRequest, api.ErrorResponse{Error: "unknown color scheme", Field: "colorScheme"})
		return
	}

	respondJSON(w, http.StatusOK, themeResponse(rm.dashboard.Customize.UpdateTheme(patch)))
}
