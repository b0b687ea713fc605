package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sguter90/switchmaestro/pkg/api"
	"github.com/sguter90/switchmaestro/pkg/layout"
)

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, api.ErrorResponse{Error: message})
}

// respondValidation turns a *layout.ValidationError into a 400 and reports
// whether err was one
func respondValidation(w http.ResponseWriter, err error) bool {
	var ve *layout.ValidationError
	if !errors.As(err, &ve) {
		return false
	}
	respondJSON(w, http.StatusBadRequest, api.ErrorResponse{Error: ve.Message, Field: ve.Field})
	return true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
