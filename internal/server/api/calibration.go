package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ayusman/airdraw/internal/app"
	"github.com/ayusman/airdraw/internal/gesture"
	"github.com/ayusman/airdraw/internal/store"
)

// CalibrationHandler records Debug samples and recommends a threshold.
//
// Routes:
//
//	GET    /api/calibration          recommendation from stored samples
//	POST   /api/calibration/samples  store one sample
//	DELETE /api/calibration/samples  remove all samples
//	POST   /api/calibration/record   record samples from the live pipeline
type CalibrationHandler struct {
	store   *store.Store
	control Controller
}

// NewCalibrationHandler creates a CalibrationHandler. control may be nil,
// in which case live recording is unavailable.
func NewCalibrationHandler(s *store.Store, control Controller) *CalibrationHandler {
	return &CalibrationHandler{store: s, control: control}
}

type addSampleRequest struct {
	Label string   `json:"label"`
	Value *float64 `json:"value"`
}

type sampleResponse struct {
	ID        int64   `json:"id"`
	Label     string  `json:"label"`
	Value     float64 `json:"value"`
	CreatedAt string  `json:"created_at"`
}

type recordRequest struct {
	Label  string `json:"label"`
	Frames int    `json:"frames"`
}

type calibrationStatus struct {
	Error       string               `json:"error,omitempty"`
	Calibration *gesture.Calibration `json:"calibration,omitempty"`
	Extended    int                  `json:"extended_samples"`
	Curled      int                  `json:"curled_samples"`
}

// ServeHTTP implements the http.Handler interface.
func (h *CalibrationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, "/api/calibration"), "/")

	switch {
	case path == "" && r.Method == http.MethodGet:
		h.recommend(w, r)
	case path == "samples" && r.Method == http.MethodPost:
		h.addSample(w, r)
	case path == "samples" && r.Method == http.MethodDelete:
		h.clear(w, r)
	case path == "record" && r.Method == http.MethodPost:
		h.record(w, r)
	case path == "" || path == "samples" || path == "record":
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	default:
		http.NotFound(w, r)
	}
}

func validLabel(label string) bool {
	return label == gesture.LabelExtended || label == gesture.LabelCurled
}

// recommend handles GET /api/calibration. It answers 200 with a threshold
// or 422 when the samples cannot produce one yet.
func (h *CalibrationHandler) recommend(w http.ResponseWriter, r *http.Request) {
	extended, err := h.store.Calibration().Values(gesture.LabelExtended)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load samples")
		return
	}
	curled, err := h.store.Calibration().Values(gesture.LabelCurled)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load samples")
		return
	}

	resp := calibrationStatus{Extended: len(extended), Curled: len(curled)}
	result, err := gesture.Calibrate(extended, curled)
	if err != nil {
		resp.Error = err.Error()
		writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}

	resp.Calibration = &result
	writeJSON(w, http.StatusOK, resp)
}

// addSample handles POST /api/calibration/samples.
func (h *CalibrationHandler) addSample(w http.ResponseWriter, r *http.Request) {
	var req addSampleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if !validLabel(req.Label) {
		writeError(w, http.StatusBadRequest, "label must be extended or curled")
		return
	}
	if req.Value == nil || *req.Value < -1 || *req.Value > 1 {
		writeError(w, http.StatusBadRequest, "value must be a cosine in [-1, 1]")
		return
	}

	sample := &store.CalibrationSample{Label: req.Label, Value: *req.Value}
	if err := h.store.Calibration().Add(sample); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store sample")
		return
	}

	writeJSON(w, http.StatusCreated, sampleResponse{
		ID:        sample.ID,
		Label:     sample.Label,
		Value:     sample.Value,
		CreatedAt: sample.CreatedAt.Format(timeFormat),
	})
}

// clear handles DELETE /api/calibration/samples.
func (h *CalibrationHandler) clear(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Calibration().Clear(); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to clear samples")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// record handles POST /api/calibration/record.
func (h *CalibrationHandler) record(w http.ResponseWriter, r *http.Request) {
	if h.control == nil {
		writeError(w, http.StatusServiceUnavailable, "Pipeline not running")
		return
	}

	var req recordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.control.RecordCalibration(req.Label, req.Frames); err != nil {
		if errors.Is(err, app.ErrNoStore) {
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusAccepted, h.control.Status())
}
