package api

import (
	"net/http"

	"github.com/ayusman/airdraw/internal/plugin"
)

// StatusHandler reports the pipeline state.
type StatusHandler struct {
	control Controller
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(control Controller) *StatusHandler {
	return &StatusHandler{control: control}
}

// ServeHTTP handles GET /api/status.
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, h.control.Status())
}

// PluginHandler lists discovered plugins.
type PluginHandler struct {
	plugins *plugin.Manager
}

// NewPluginHandler creates a new PluginHandler.
func NewPluginHandler(m *plugin.Manager) *PluginHandler {
	return &PluginHandler{plugins: m}
}

type listPluginsResponse struct {
	Plugins []plugin.Manifest `json:"plugins"`
}

// ServeHTTP handles GET /api/plugins.
func (h *PluginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	resp := listPluginsResponse{Plugins: []plugin.Manifest{}}
	for _, p := range h.plugins.List() {
		resp.Plugins = append(resp.Plugins, p.Manifest)
	}
	writeJSON(w, http.StatusOK, resp)
}
