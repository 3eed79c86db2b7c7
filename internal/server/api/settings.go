package api

import (
	"encoding/json"
	"net/http"

	"github.com/ayusman/airdraw/internal/store"
)

// SettingsHandler serves /api/settings. Changes are persisted and applied
// to the running pipeline. With a controller the reported values are the
// ones the pipeline is using.
type SettingsHandler struct {
	store    *store.Store
	control  Controller
	defaults settingsResponse
}

// NewSettingsHandler creates a SettingsHandler. threshold and
// resetOnHandLoss are reported when there is no controller and nothing is
// stored. control may be nil.
func NewSettingsHandler(s *store.Store, control Controller, threshold float64, resetOnHandLoss bool) *SettingsHandler {
	return &SettingsHandler{
		store:    s,
		control:  control,
		defaults: settingsResponse{Threshold: threshold, ResetOnHandLoss: resetOnHandLoss},
	}
}

type settingsResponse struct {
	Threshold       float64 `json:"threshold"`
	ResetOnHandLoss bool    `json:"reset_on_hand_loss"`
}

type updateSettingsRequest struct {
	Threshold       *float64 `json:"threshold"`
	ResetOnHandLoss *bool    `json:"reset_on_hand_loss"`
}

// ServeHTTP implements the http.Handler interface.
func (h *SettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.current())
	case http.MethodPut:
		h.update(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *SettingsHandler) current() settingsResponse {
	if h.control != nil {
		st := h.control.Status()
		return settingsResponse{Threshold: st.Threshold, ResetOnHandLoss: st.ResetOnHandLoss}
	}

	settings := h.store.Settings()
	return settingsResponse{
		Threshold:       settings.Float(store.SettingThreshold, h.defaults.Threshold),
		ResetOnHandLoss: settings.Bool(store.SettingResetOnHandLoss, h.defaults.ResetOnHandLoss),
	}
}

// update handles PUT /api/settings. Omitted fields keep their values and
// are not written to the store.
func (h *SettingsHandler) update(w http.ResponseWriter, r *http.Request) {
	var req updateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Threshold != nil && (*req.Threshold < 0 || *req.Threshold >= 1) {
		writeError(w, http.StatusBadRequest, "threshold must be in [0, 1)")
		return
	}

	settings := h.store.Settings()
	next := h.current()
	if req.Threshold != nil {
		if err := settings.SetFloat(store.SettingThreshold, *req.Threshold); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save settings")
			return
		}
		next.Threshold = *req.Threshold
	}
	if req.ResetOnHandLoss != nil {
		if err := settings.SetBool(store.SettingResetOnHandLoss, *req.ResetOnHandLoss); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save settings")
			return
		}
		next.ResetOnHandLoss = *req.ResetOnHandLoss
	}

	if h.control != nil {
		h.control.ApplySettings(next.Threshold, next.ResetOnHandLoss)
	}

	writeJSON(w, http.StatusOK, next)
}
