// Package app runs the airdraw capture pipeline: camera frames go through
// motion gating and hand detection into a tracker, and the results are
// broadcast, counted per session and used to trigger plugin actions.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/airdraw/internal/capture"
	"github.com/ayusman/airdraw/internal/detector"
	"github.com/ayusman/airdraw/internal/gesture"
	"github.com/ayusman/airdraw/internal/plugin"
	"github.com/ayusman/airdraw/internal/store"
	"github.com/ayusman/airdraw/internal/tracker"
)

// Pipeline timing defaults.
const (
	// IdleFPS is the frame rate when no motion is detected.
	IdleFPS = 5
	// DefaultIdleTimeout is how long without motion before the pipeline idles.
	DefaultIdleTimeout = 2 * time.Second
	// FlushInterval is how often session counters are written to the store.
	FlushInterval = 5 * time.Second
)

var (
	// ErrNoStore is returned by operations that need persistence when the
	// app runs without a store.
	ErrNoStore = errors.New("no store configured")

	// ErrInvalidLabel is returned for an unknown calibration label.
	ErrInvalidLabel = errors.New("calibration label must be extended or curled")
)

// Update is one processed frame as published to listeners.
type Update struct {
	Timestamp int64 `json:"timestamp"` // unix milliseconds
	tracker.Frame
}

// Status is a snapshot of the app state.
type Status struct {
	Enabled              bool    `json:"enabled"`
	Running              bool    `json:"running"`
	Gesture              string  `json:"gesture"`
	SessionID            string  `json:"session_id,omitempty"`
	Threshold            float64 `json:"threshold"`
	ResetOnHandLoss      bool    `json:"reset_on_hand_loss"`
	Calibrating          string  `json:"calibrating,omitempty"`
	CalibrationRemaining int     `json:"calibration_remaining,omitempty"`
}

// Config holds configuration options for the application.
type Config struct {
	Store         *store.Store
	PluginDir     string
	Camera        capture.Options
	Detector      detector.Config
	Tracker       tracker.Config
	MotionPercent float64
	IdleFPS       int
	IdleTimeout   time.Duration
	PluginTimeout time.Duration

	// PinThreshold makes Tracker.Threshold win over a stored threshold.
	// It is set when the threshold was chosen on the command line.
	PinThreshold bool
}

type calibrationRun struct {
	label     string
	remaining int
}

// App orchestrates capture, tracking and action execution.
type App struct {
	config     Config
	camera     capture.Camera
	motion     *capture.MotionGate
	detector   detector.Detector
	pluginMgr  *plugin.Manager
	pluginExec *plugin.Executor

	mu        sync.RWMutex
	enabled   bool
	stopCh    chan struct{}
	done      chan struct{}
	ctx       context.Context
	cancel    context.CancelFunc
	listeners []func(Update)

	// Guarded by trackMu. The pipeline goroutine is the main user; settings
	// and status calls come from HTTP handlers and the tray.
	trackMu     sync.Mutex
	tracker     *tracker.Tracker
	current     gesture.Gesture
	sessionID   string
	stats       store.SessionStats
	lastFlush   time.Time
	calibration calibrationRun

	inflight sync.WaitGroup
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	if config.Camera.Width <= 0 || config.Camera.Height <= 0 {
		config.Camera = capture.DefaultOptions()
	}
	if config.Camera.FPS <= 0 {
		config.Camera.FPS = capture.DefaultFPS
	}
	if config.IdleFPS <= 0 || config.IdleFPS > config.Camera.FPS {
		config.IdleFPS = min(IdleFPS, config.Camera.FPS)
	}
	if config.IdleTimeout <= 0 {
		config.IdleTimeout = DefaultIdleTimeout
	}
	if config.MotionPercent <= 0 {
		config.MotionPercent = capture.DefaultMotionPercent
	}
	if config.Tracker == (tracker.Config{}) {
		config.Tracker = tracker.DefaultConfig()
	}
	if config.Detector == (detector.Config{}) {
		config.Detector = detector.DefaultConfig()
	}

	a := &App{
		config:     config,
		camera:     capture.NewCamera(config.Camera),
		motion:     capture.NewMotionGate(config.MotionPercent),
		pluginMgr:  plugin.NewManager(config.PluginDir),
		pluginExec: plugin.NewExecutor(config.PluginTimeout),
		tracker:    tracker.New(config.Tracker),
		lastFlush:  time.Now(),
	}
	a.ctx, a.cancel = context.WithCancel(context.Background())

	// Try MediaPipe first, fall back to mock detector
	if mp, err := detector.NewMediaPipeDetector(config.Detector); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	a.loadSettings()
	return a
}

// loadSettings applies persisted runtime settings over the configured ones.
func (a *App) loadSettings() {
	if a.config.Store == nil {
		return
	}
	settings := a.config.Store.Settings()
	threshold := settings.Float(store.SettingThreshold, a.config.Tracker.Threshold)
	if a.config.PinThreshold && threshold != a.config.Tracker.Threshold {
		log.Printf("Using threshold %.2f over stored %.2f", a.config.Tracker.Threshold, threshold)
		threshold = a.config.Tracker.Threshold
	}
	reset := settings.Bool(store.SettingResetOnHandLoss, a.config.Tracker.ResetOnHandLoss)
	a.ApplySettings(threshold, reset)
}

// SetEnabled enables or disables gesture detection.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether gesture detection is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector sets the hand detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// SetCamera replaces the camera. It must be called before Start.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// AddListener registers fn to receive every processed frame. Listeners run
// on the pipeline goroutine and must not block.
func (a *App) AddListener(fn func(Update)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listeners = append(a.listeners, fn)
}

// ApplySettings changes the threshold and hand-loss policy of the running
// tracker.
func (a *App) ApplySettings(threshold float64, resetOnHandLoss bool) {
	a.trackMu.Lock()
	defer a.trackMu.Unlock()
	a.tracker.SetThreshold(threshold)
	a.tracker.SetResetOnHandLoss(resetOnHandLoss)
}

// RecordCalibration stores the Debug value of the next frames hand frames
// under label.
func (a *App) RecordCalibration(label string, frames int) error {
	if label != gesture.LabelExtended && label != gesture.LabelCurled {
		return fmt.Errorf("%q: %w", label, ErrInvalidLabel)
	}
	if frames <= 0 {
		return fmt.Errorf("frame count must be positive, got %d", frames)
	}
	if a.config.Store == nil {
		return ErrNoStore
	}

	a.trackMu.Lock()
	defer a.trackMu.Unlock()
	a.calibration = calibrationRun{label: label, remaining: frames}
	log.Printf("Recording %d %s calibration samples", frames, label)
	return nil
}

// Status returns the current state.
func (a *App) Status() Status {
	a.mu.RLock()
	st := Status{
		Enabled: a.enabled,
		Running: a.stopCh != nil,
	}
	a.mu.RUnlock()

	a.trackMu.Lock()
	defer a.trackMu.Unlock()
	st.Gesture = string(a.current)
	st.SessionID = a.sessionID
	st.Threshold = a.tracker.Threshold()
	st.ResetOnHandLoss = a.tracker.ResetOnHandLoss()
	st.Calibrating = a.calibration.label
	st.CalibrationRemaining = a.calibration.remaining
	return st
}

// DiscoverPlugins scans the plugin directory and loads available plugins.
func (a *App) DiscoverPlugins() error {
	return a.pluginMgr.Discover()
}

// Start opens the camera, begins a tracking session and runs the pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return fmt.Errorf("open camera: %w", err)
	}
	a.camera.SetFPS(a.config.IdleFPS)

	if a.ctx.Err() != nil {
		a.ctx, a.cancel = context.WithCancel(context.Background())
	}
	a.beginSession()

	a.stopCh = make(chan struct{})
	a.done = make(chan struct{})
	go a.runPipeline(a.stopCh, a.done)

	log.Println("Detection pipeline started")
	return nil
}

// Stop halts the pipeline, waits for running actions, closes the tracking
// session and releases the camera.
func (a *App) Stop() {
	a.mu.Lock()
	stopCh, done, cancel := a.stopCh, a.done, a.cancel
	a.stopCh, a.done = nil, nil
	a.mu.Unlock()

	if stopCh == nil {
		return
	}
	close(stopCh)
	<-done

	cancel()
	a.inflight.Wait()
	a.endSession()

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}
	a.motion.Reset()

	log.Println("Detection pipeline stopped")
}

// Close stops the pipeline and releases the detector and motion gate.
func (a *App) Close() error {
	a.Stop()
	a.motion.Close()

	if d := a.Detector(); d != nil {
		if err := d.Close(); err != nil {
			return fmt.Errorf("close detector: %w", err)
		}
	}
	return nil
}

// beginSession opens a tracking session row. Caller holds a.mu.
func (a *App) beginSession() {
	if a.config.Store == nil {
		return
	}

	a.trackMu.Lock()
	defer a.trackMu.Unlock()

	ts := &store.TrackingSession{
		ID:        uuid.New().String(),
		Threshold: a.tracker.Threshold(),
	}
	if err := a.config.Store.Sessions().Create(ts); err != nil {
		log.Printf("Failed to create tracking session: %v", err)
		return
	}
	a.sessionID = ts.ID
	a.stats = store.SessionStats{}
	a.lastFlush = time.Now()
}

func (a *App) endSession() {
	a.trackMu.Lock()
	defer a.trackMu.Unlock()

	if a.sessionID == "" {
		return
	}
	a.flushStats()
	if err := a.config.Store.Sessions().End(a.sessionID, time.Now()); err != nil {
		log.Printf("Failed to end tracking session: %v", err)
	}
	a.sessionID = ""
}

// flushStats writes the pending counters. Caller holds trackMu.
func (a *App) flushStats() {
	a.lastFlush = time.Now()
	if a.sessionID == "" || a.stats.Empty() {
		return
	}
	if err := a.config.Store.Sessions().Record(a.sessionID, a.stats); err != nil {
		log.Printf("Failed to record session stats: %v", err)
		return
	}
	a.stats = store.SessionStats{}
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.camera
}

// PluginManager returns the plugin manager.
func (a *App) PluginManager() *plugin.Manager {
	return a.pluginMgr
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}
