// Package config loads airdraw's startup configuration from a JSON file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ayusman/airdraw/internal/capture"
	"github.com/ayusman/airdraw/internal/detector"
	"github.com/ayusman/airdraw/internal/gesture"
	"github.com/ayusman/airdraw/internal/smoothing"
	"github.com/ayusman/airdraw/internal/tracker"
)

const (
	// DatabaseFile is the sqlite file name inside DataDir.
	DatabaseFile = "airdraw.db"

	maxFileSize = 1 << 20
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Camera holds capture settings.
type Camera struct {
	Device  int  `json:"device"`
	Width   int  `json:"width"`
	Height  int  `json:"height"`
	FPS     int  `json:"fps"`
	IdleFPS int  `json:"idle_fps"`
	Mirror  bool `json:"mirror"`
}

// Detector holds hand landmark service settings.
type Detector struct {
	MaxHands              int     `json:"max_hands"`
	MinConfidence         float64 `json:"min_confidence"`
	MinTrackingConfidence float64 `json:"min_tracking_confidence"`

	// StaticImageMode runs palm detection on every frame instead of
	// tracking between frames.
	StaticImageMode bool `json:"static_image_mode"`
}

// Filter holds the cursor smoothing noise levels.
type Filter struct {
	ProcessNoise     float64 `json:"process_noise"`
	MeasurementNoise float64 `json:"measurement_noise"`
}

// Config is the full startup configuration.
type Config struct {
	DataDir   string `json:"data_dir"`
	PluginDir string `json:"plugin_dir"`
	Addr      string `json:"addr"`

	Camera   Camera   `json:"camera"`
	Detector Detector `json:"detector"`
	Filter   Filter   `json:"filter"`

	Threshold        float64 `json:"threshold"`
	PreviewThreshold float64 `json:"preview_threshold"`
	ResetOnHandLoss  bool    `json:"reset_on_hand_loss"`

	// MotionPercent is the share of changed pixels that wakes the pipeline.
	MotionPercent float64 `json:"motion_percent"`
	IdleTimeout   string  `json:"idle_timeout"`
	PluginTimeout string  `json:"plugin_timeout"`
}

// Default returns the configuration used when no file is given. Data lives
// under ~/.airdraw, or ./.airdraw when the home directory is unknown.
func Default() *Config {
	base := ".airdraw"
	if home, err := os.UserHomeDir(); err == nil {
		base = filepath.Join(home, ".airdraw")
	}

	return &Config{
		DataDir:   base,
		PluginDir: filepath.Join(base, "plugins"),
		Addr:      ":8080",
		Camera: Camera{
			Width:   capture.DefaultWidth,
			Height:  capture.DefaultHeight,
			FPS:     capture.DefaultFPS,
			IdleFPS: 5,
			Mirror:  true,
		},
		Detector: Detector{
			MaxHands:              1,
			MinConfidence:         0.5,
			MinTrackingConfidence: 0.5,
		},
		Filter: Filter{
			ProcessNoise:     smoothing.DefaultConfig().ProcessNoise,
			MeasurementNoise: smoothing.DefaultConfig().MeasurementNoise,
		},
		Threshold:        gesture.DefaultThreshold,
		PreviewThreshold: gesture.PreviewThreshold,
		MotionPercent:    capture.DefaultMotionPercent,
		IdleTimeout:      "2s",
		PluginTimeout:    "5s",
	}
}

// Load reads a JSON config file. Keys missing from the file keep their
// default values and unknown keys are rejected.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	f, err := os.Open(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	defer f.Close()

	cfg := Default()
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges and durations.
func (c *Config) Validate() error {
	switch {
	case c.DataDir == "":
		return fmt.Errorf("%w: data_dir is required", ErrInvalid)
	case c.Threshold < 0 || c.Threshold >= 1:
		return fmt.Errorf("%w: threshold must be in [0, 1), got %v", ErrInvalid, c.Threshold)
	case c.PreviewThreshold < 0 || c.PreviewThreshold >= 1:
		return fmt.Errorf("%w: preview_threshold must be in [0, 1), got %v", ErrInvalid, c.PreviewThreshold)
	case c.Camera.Width <= 0 || c.Camera.Height <= 0:
		return fmt.Errorf("%w: camera size must be positive, got %dx%d", ErrInvalid, c.Camera.Width, c.Camera.Height)
	case c.Camera.FPS <= 0 || c.Camera.IdleFPS <= 0:
		return fmt.Errorf("%w: camera fps must be positive", ErrInvalid)
	case c.Camera.IdleFPS > c.Camera.FPS:
		return fmt.Errorf("%w: idle_fps %d exceeds fps %d", ErrInvalid, c.Camera.IdleFPS, c.Camera.FPS)
	case c.Detector.MaxHands < 1:
		return fmt.Errorf("%w: max_hands must be at least 1, got %d", ErrInvalid, c.Detector.MaxHands)
	case c.MotionPercent < 0 || c.MotionPercent > 100:
		return fmt.Errorf("%w: motion_percent must be between 0 and 100, got %v", ErrInvalid, c.MotionPercent)
	}

	if err := c.filter().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, err := time.ParseDuration(c.IdleTimeout); err != nil {
		return fmt.Errorf("%w: idle_timeout %q: %v", ErrInvalid, c.IdleTimeout, err)
	}
	if _, err := time.ParseDuration(c.PluginTimeout); err != nil {
		return fmt.Errorf("%w: plugin_timeout %q: %v", ErrInvalid, c.PluginTimeout, err)
	}
	return nil
}

// DatabasePath returns the sqlite file location.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, DatabaseFile)
}

// GetIdleTimeout returns how long without motion before the pipeline idles.
func (c *Config) GetIdleTimeout() time.Duration {
	d, err := time.ParseDuration(c.IdleTimeout)
	if err != nil || d <= 0 {
		return 2 * time.Second
	}
	return d
}

// GetPluginTimeout returns the per-run plugin limit.
func (c *Config) GetPluginTimeout() time.Duration {
	d, err := time.ParseDuration(c.PluginTimeout)
	if err != nil || d <= 0 {
		return 5 * time.Second
	}
	return d
}

// CaptureOptions converts the camera section.
func (c *Config) CaptureOptions() capture.Options {
	return capture.Options{
		DeviceID: c.Camera.Device,
		Width:    c.Camera.Width,
		Height:   c.Camera.Height,
		FPS:      c.Camera.FPS,
		Mirror:   c.Camera.Mirror,
	}
}

// DetectorConfig converts the detector section.
func (c *Config) DetectorConfig() detector.Config {
	cfg := detector.DefaultConfig()
	cfg.MaxHands = c.Detector.MaxHands
	cfg.MinConfidence = c.Detector.MinConfidence
	cfg.MinTrackingConf = c.Detector.MinTrackingConfidence
	cfg.StaticImageMode = c.Detector.StaticImageMode
	return cfg
}

// TrackerConfig converts the classification and smoothing settings.
func (c *Config) TrackerConfig() tracker.Config {
	return tracker.Config{
		Threshold:       c.Threshold,
		Filter:          c.filter(),
		ResetOnHandLoss: c.ResetOnHandLoss,
	}
}

func (c *Config) filter() smoothing.Config {
	return smoothing.Config{
		ProcessNoise:     c.Filter.ProcessNoise,
		MeasurementNoise: c.Filter.MeasurementNoise,
	}
}
