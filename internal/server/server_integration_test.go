package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/ayusman/airdraw/internal/store"
)

func newIntegrationServer(t *testing.T) (*httptest.Server, *store.Store) {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	ts := httptest.NewServer(New(Config{Store: s, Threshold: 0.7}))
	t.Cleanup(ts.Close)
	return ts, s
}

func TestAPI_ActionWorkflow(t *testing.T) {
	ts, _ := newIntegrationServer(t)
	client := ts.Client()

	// 1. Bind an action to a gesture
	createBody := `{"gesture": "SCREENSHOT", "plugin_name": "screenshot", "action_name": "capture"}`
	resp, err := client.Post(ts.URL+"/api/actions", "application/json", bytes.NewBufferString(createBody))
	if err != nil {
		t.Fatalf("POST /api/actions error = %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}

	var created struct {
		ID      string `json:"id"`
		Gesture string `json:"gesture"`
	}
	json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()

	if created.Gesture != "SCREENSHOT" {
		t.Errorf("created gesture = %s, want SCREENSHOT", created.Gesture)
	}

	// 2. List actions
	resp, _ = client.Get(ts.URL + "/api/actions")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /api/actions status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var listed struct {
		Actions []struct {
			ID string `json:"id"`
		} `json:"actions"`
	}
	json.NewDecoder(resp.Body).Decode(&listed)
	resp.Body.Close()

	if len(listed.Actions) != 1 {
		t.Fatalf("len(actions) = %d, want 1", len(listed.Actions))
	}

	// 3. Get single action
	resp, _ = client.Get(ts.URL + "/api/actions/" + created.ID)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /api/actions/%s status = %d, want %d", created.ID, resp.StatusCode, http.StatusOK)
	}
	resp.Body.Close()

	// 4. Delete action
	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/actions/"+created.ID, nil)
	resp, _ = client.Do(req)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("DELETE status = %d, want %d", resp.StatusCode, http.StatusNoContent)
	}
	resp.Body.Close()

	// 5. Verify deleted
	resp, _ = client.Get(ts.URL + "/api/actions/" + created.ID)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("GET after delete status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
	resp.Body.Close()
}

func TestAPI_SettingsWorkflow(t *testing.T) {
	ts, s := newIntegrationServer(t)
	client := ts.Client()

	var settings struct {
		Threshold       float64 `json:"threshold"`
		ResetOnHandLoss bool    `json:"reset_on_hand_loss"`
	}

	resp, err := client.Get(ts.URL + "/api/settings")
	if err != nil {
		t.Fatalf("GET /api/settings error = %v", err)
	}
	json.NewDecoder(resp.Body).Decode(&settings)
	resp.Body.Close()
	if settings.Threshold != 0.7 {
		t.Errorf("default threshold = %v, want 0.7", settings.Threshold)
	}

	req, _ := http.NewRequest(http.MethodPut, ts.URL+"/api/settings",
		bytes.NewBufferString(`{"threshold": 0.8, "reset_on_hand_loss": true}`))
	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("PUT /api/settings error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("PUT status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	resp.Body.Close()

	if v := s.Settings().Float(store.SettingThreshold, 0); v != 0.8 {
		t.Errorf("stored threshold = %v, want 0.8", v)
	}
	if !s.Settings().Bool(store.SettingResetOnHandLoss, false) {
		t.Error("stored reset_on_hand_loss should be true")
	}
}

func TestAPI_SessionsEmpty(t *testing.T) {
	ts, _ := newIntegrationServer(t)

	resp, err := ts.Client().Get(ts.URL + "/api/sessions")
	if err != nil {
		t.Fatalf("GET /api/sessions error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var listed struct {
		Sessions []json.RawMessage `json:"sessions"`
	}
	json.NewDecoder(resp.Body).Decode(&listed)
	if len(listed.Sessions) != 0 {
		t.Errorf("len(sessions) = %d, want 0", len(listed.Sessions))
	}
}

func TestAPI_HealthCheck(t *testing.T) {
	srv := New(Config{})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL + "/api/health")
	if err != nil {
		t.Fatalf("GET /api/health error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var health struct {
		Status string `json:"status"`
		Uptime string `json:"uptime"`
	}
	json.NewDecoder(resp.Body).Decode(&health)

	if health.Status != "ok" {
		t.Errorf("status = %s, want ok", health.Status)
	}
}
