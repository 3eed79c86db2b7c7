package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ayusman/airdraw/internal/store"
)

// DefaultSessionLimit caps GET /api/sessions without a limit parameter.
const DefaultSessionLimit = 50

// SessionHandler serves tracking session history.
type SessionHandler struct {
	store *store.Store
}

// NewSessionHandler creates a new SessionHandler with the given store.
func NewSessionHandler(s *store.Store) *SessionHandler {
	return &SessionHandler{store: s}
}

type sessionResponse struct {
	ID             string         `json:"id"`
	Threshold      float64        `json:"threshold"`
	StartedAt      string         `json:"started_at"`
	EndedAt        string         `json:"ended_at,omitempty"`
	Frames         int            `json:"frames"`
	HandFrames     int            `json:"hand_frames"`
	RejectedFrames int            `json:"rejected_frames"`
	Gestures       map[string]int `json:"gestures"`
}

type listSessionsResponse struct {
	Sessions []sessionResponse `json:"sessions"`
}

func toSessionResponse(ts *store.TrackingSession) sessionResponse {
	resp := sessionResponse{
		ID:             ts.ID,
		Threshold:      ts.Threshold,
		StartedAt:      ts.StartedAt.Format(timeFormat),
		Frames:         ts.Frames,
		HandFrames:     ts.HandFrames,
		RejectedFrames: ts.RejectedFrames,
		Gestures:       ts.Gestures,
	}
	if ts.EndedAt != nil {
		resp.EndedAt = ts.EndedAt.Format(timeFormat)
	}
	if resp.Gestures == nil {
		resp.Gestures = map[string]int{}
	}
	return resp
}

// ServeHTTP handles GET /api/sessions and GET /api/sessions/{id}.
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, "/api/sessions"), "/")
	if id == "" {
		h.list(w, r)
		return
	}

	ts, err := h.store.Sessions().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get session")
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(ts))
}

func (h *SessionHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := DefaultSessionLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	sessions, err := h.store.Sessions().List(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sessions")
		return
	}

	response := listSessionsResponse{Sessions: make([]sessionResponse, 0, len(sessions))}
	for _, ts := range sessions {
		response.Sessions = append(response.Sessions, toSessionResponse(ts))
	}
	writeJSON(w, http.StatusOK, response)
}
