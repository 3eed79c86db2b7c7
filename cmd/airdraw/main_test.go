package main

import (
	"errors"
	"flag"
	"io"
	"testing"

	"github.com/ayusman/airdraw/internal/config"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name          string
		args          []string
		wantThreshold float64
		wantPinned    bool
		wantAddr      string
		wantDevice    int
	}{
		{
			name:          "no flags keeps config",
			args:          nil,
			wantThreshold: 0.70,
			wantAddr:      ":8080",
			wantDevice:    0,
		},
		{
			name:          "explicit threshold wins",
			args:          []string{"-threshold", "0.55"},
			wantThreshold: 0.55,
			wantPinned:    true,
			wantAddr:      ":8080",
		},
		{
			name:          "threshold zero counts as set",
			args:          []string{"-threshold", "0"},
			wantThreshold: 0,
			wantPinned:    true,
			wantAddr:      ":8080",
		},
		{
			name:          "preview uses preview threshold",
			args:          []string{"-preview"},
			wantThreshold: 0.90,
			wantPinned:    true,
			wantAddr:      ":8080",
		},
		{
			name:          "preview beats explicit threshold",
			args:          []string{"-preview", "-threshold", "0.5"},
			wantThreshold: 0.90,
			wantPinned:    true,
			wantAddr:      ":8080",
		},
		{
			name:          "addr and camera override",
			args:          []string{"-addr", "127.0.0.1:9000", "-camera", "2"},
			wantThreshold: 0.70,
			wantAddr:      "127.0.0.1:9000",
			wantDevice:    2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := parseFlags(tt.args, io.Discard)
			if err != nil {
				t.Fatalf("parseFlags() error = %v", err)
			}

			cfg := config.Default()
			opts.apply(cfg)
			if err := cfg.Validate(); err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			tc, pinned := opts.trackerConfig(cfg)

			if tc.Threshold != tt.wantThreshold {
				t.Errorf("tracker threshold = %v, want %v", tc.Threshold, tt.wantThreshold)
			}
			if pinned != tt.wantPinned {
				t.Errorf("pinned = %v, want %v", pinned, tt.wantPinned)
			}
			if cfg.Addr != tt.wantAddr {
				t.Errorf("Addr = %q, want %q", cfg.Addr, tt.wantAddr)
			}
			if cfg.Camera.Device != tt.wantDevice {
				t.Errorf("Camera.Device = %d, want %d", cfg.Camera.Device, tt.wantDevice)
			}
		})
	}
}

func TestParseFlags_UnsetThresholdKeepsConfigured(t *testing.T) {
	opts, err := parseFlags([]string{"-headless"}, io.Discard)
	if err != nil {
		t.Fatalf("parseFlags() error = %v", err)
	}
	if opts.thresholdSet {
		t.Error("thresholdSet = true without -threshold")
	}

	cfg := config.Default()
	cfg.Threshold = 0.8
	opts.apply(cfg)
	if cfg.Threshold != 0.8 {
		t.Errorf("Threshold = %v, want 0.8", cfg.Threshold)
	}
}

func TestParseFlags_Errors(t *testing.T) {
	if _, err := parseFlags([]string{"-h"}, io.Discard); !errors.Is(err, flag.ErrHelp) {
		t.Errorf("-h error = %v, want flag.ErrHelp", err)
	}
	if _, err := parseFlags([]string{"-threshold", "high"}, io.Discard); err == nil {
		t.Error("expected error for non-numeric threshold")
	}
}

func TestSettingsURL(t *testing.T) {
	tests := map[string]string{
		":8080":          "http://localhost:8080/",
		"127.0.0.1:9000": "http://127.0.0.1:9000/",
	}
	for addr, want := range tests {
		if got := settingsURL(addr); got != want {
			t.Errorf("settingsURL(%q) = %q, want %q", addr, got, want)
		}
	}
}
