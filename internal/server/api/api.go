// Package api provides HTTP API handlers for airdraw.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/ayusman/airdraw/internal/app"
)

// Controller is the running pipeline as seen by the handlers.
type Controller interface {
	Status() app.Status
	ApplySettings(threshold float64, resetOnHandLoss bool)
	RecordCalibration(label string, frames int) error
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

const timeFormat = "2006-01-02T15:04:05Z07:00"
