// Package main provides a screenshot plugin. It saves the screen to a file
// using screencapture on macOS and the first available capture tool
// elsewhere.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"
)

// Request represents the input from the plugin executor.
type Request struct {
	Action  string          `json:"action"`
	Gesture string          `json:"gesture"`
	Config  json.RawMessage `json:"config"`
	Event   json.RawMessage `json:"event"`
}

// Response represents the output to the plugin executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// CaptureConfig is the per-binding configuration of the capture action.
type CaptureConfig struct {
	Format string `json:"format"` // png or jpg
	Dir    string `json:"dir"`
}

var errNoTool = errors.New("no screenshot tool found")

var formats = map[string]string{
	"png":  "png",
	"jpg":  "jpg",
	"jpeg": "jpg",
}

func main() {
	// Read request from stdin
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	if req.Action != "capture" {
		writeErrorResponse(fmt.Sprintf("unknown action: %s", req.Action))
		return
	}

	cfg, err := parseConfig(req.Config)
	if err != nil {
		writeErrorResponse(err.Error())
		return
	}

	path := outputPath(cfg, time.Now())
	if err := capture(path, cfg.Format); err != nil {
		writeErrorResponse(fmt.Sprintf("action %s failed: %v", req.Action, err))
		return
	}

	data, _ := json.Marshal(map[string]string{"path": path})
	writeSuccessResponse(data)
}

// parseConfig applies defaults and checks the format.
func parseConfig(raw json.RawMessage) (CaptureConfig, error) {
	cfg := CaptureConfig{Format: "png"}
	if len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	format, ok := formats[cfg.Format]
	if !ok {
		return cfg, fmt.Errorf("unsupported format %q, want png or jpg", cfg.Format)
	}
	cfg.Format = format

	if cfg.Dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, fmt.Errorf("resolve home directory: %w", err)
		}
		cfg.Dir = filepath.Join(home, "Pictures")
	}
	return cfg, nil
}

func outputPath(cfg CaptureConfig, now time.Time) string {
	name := "airdraw-" + now.Format("20060102-150405") + "." + cfg.Format
	return filepath.Join(cfg.Dir, name)
}

// capture writes a screenshot of the whole screen to path.
func capture(path, format string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	for _, args := range commands(runtime.GOOS, path, format) {
		if _, err := exec.LookPath(args[0]); err != nil {
			continue
		}
		return run(args)
	}
	return errNoTool
}

// commands lists candidate capture commands in order of preference.
func commands(goos, path, format string) [][]string {
	if goos == "darwin" {
		return [][]string{{"screencapture", "-x", "-t", format, path}}
	}
	return [][]string{
		{"gnome-screenshot", "-f", path},
		{"scrot", "-o", path},
		{"import", "-window", "root", path},
	}
}

func run(args []string) error {
	cmd := exec.Command(args[0], args[1:]...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}

// writeErrorResponse writes an error response to stdout.
func writeErrorResponse(errMsg string) {
	resp := Response{
		Success: false,
		Error:   errMsg,
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}

// writeSuccessResponse writes a success response to stdout.
func writeSuccessResponse(data json.RawMessage) {
	resp := Response{
		Success: true,
		Data:    data,
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}
