package main

import (
	"errors"
	"testing"
)

func TestBuildKeystrokeScript(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		modifiers []string
		want      string
	}{
		{"plain key", "s", nil, `tell application "System Events" to keystroke "s"`},
		{"shortcut", "m", []string{"Cmd", "shift"}, `tell application "System Events" to keystroke "m" using {command down, shift down}`},
		{"unknown modifier ignored", "x", []string{"hyper"}, `tell application "System Events" to keystroke "x"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildKeystrokeScript(tt.key, tt.modifiers); got != tt.want {
				t.Errorf("buildKeystrokeScript() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildXdoCombo(t *testing.T) {
	tests := []struct {
		key       string
		modifiers []string
		want      string
	}{
		{"s", nil, "s"},
		{"m", []string{"ctrl", "Shift"}, "ctrl+shift+m"},
		{"k", []string{"cmd", "hyper"}, "super+k"},
	}

	for _, tt := range tests {
		if got := buildXdoCombo(tt.key, tt.modifiers); got != tt.want {
			t.Errorf("buildXdoCombo(%q, %v) = %q, want %q", tt.key, tt.modifiers, got, tt.want)
		}
	}
}

func TestHandleKeystroke_Invalid(t *testing.T) {
	if err := handleKeystroke([]byte(`{"modifiers":["ctrl"]}`)); !errors.Is(err, errNoKey) {
		t.Errorf("missing key error = %v, want errNoKey", err)
	}
	if err := handleKeystroke([]byte(`{`)); err == nil {
		t.Error("expected error for invalid config")
	}
}
