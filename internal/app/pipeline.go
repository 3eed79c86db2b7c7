package app

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/ayusman/airdraw/internal/detector"
	"github.com/ayusman/airdraw/internal/gesture"
	"github.com/ayusman/airdraw/internal/plugin"
	"github.com/ayusman/airdraw/internal/store"
)

// runPipeline is the main detection loop that processes frames from the camera.
// It manages the state transitions between idle and active modes based on motion.
//
// Pipeline logic:
// 1. Start in idle mode at IdleFPS
// 2. On motion, switch to active mode at the camera FPS
// 3. Run hand detection and track the first hand
// 4. After IdleTimeout without motion, publish an empty frame and idle again
func (a *App) runPipeline(stopCh <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	camera := a.Camera()
	activeMode := false
	lastMotionTime := time.Now()

	ticker := time.NewTicker(time.Second / time.Duration(a.config.IdleFPS))
	defer ticker.Stop()

	setMode := func(active bool) {
		activeMode = active
		fps := a.config.IdleFPS
		if active {
			fps = a.config.Camera.FPS
		}
		camera.SetFPS(fps)
		ticker.Reset(time.Second / time.Duration(fps))
	}

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if !a.IsEnabled() {
				continue
			}

			frame, err := camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			if a.motion.Open(frame) {
				lastMotionTime = time.Now()
				if !activeMode {
					setMode(true)
					log.Println("Switched to active mode")
				}
			} else if activeMode && time.Since(lastMotionTime) > a.config.IdleTimeout {
				setMode(false)
				a.process(nil, 0, 0)
				log.Println("Switched to idle mode")
			}

			d := a.Detector()
			if !activeMode || d == nil {
				frame.Close()
				continue
			}

			width, height := frame.Cols(), frame.Rows()
			hands, err := d.Detect(frame)
			frame.Close()

			if err != nil {
				log.Printf("Error detecting hands: %v", err)
				continue
			}

			a.process(hands, width, height)
		}
	}
}

// process runs one frame of detector output through the tracker. Only the
// first hand is tracked; no hands yields an empty update.
func (a *App) process(hands []detector.HandLandmarks, width, height int) {
	var set detector.LandmarkSet
	if len(hands) > 0 {
		set = detector.ToLandmarkSet(&hands[0], width, height)
	}

	a.trackMu.Lock()
	frame, err := a.tracker.Process(set)
	a.stats.Frames++
	if err != nil {
		a.stats.RejectedFrames++
		a.trackMu.Unlock()
		log.Printf("Rejected landmark frame: %v", err)
		return
	}
	if !set.Empty() {
		a.stats.HandFrames++
	}
	started := a.observe(frame.Event)
	a.recordCalibration(set)
	if time.Since(a.lastFlush) >= FlushInterval {
		a.flushStats()
	}
	a.trackMu.Unlock()

	if started != "" {
		a.dispatch(started, frame.Event)
	}
	a.broadcast(Update{Timestamp: time.Now().UnixMilli(), Frame: frame})
}

// observe counts the event's gesture and returns it when it differs from
// the previous frame's. Losing the hand clears the current gesture, so the
// same gesture starts again when the hand returns. Caller holds trackMu.
func (a *App) observe(ev *gesture.Event) gesture.Gesture {
	if ev == nil {
		a.current = ""
		return ""
	}

	if a.stats.Gestures == nil {
		a.stats.Gestures = make(map[string]int)
	}
	a.stats.Gestures[string(ev.Gesture)]++

	if ev.Gesture == a.current {
		return ""
	}
	a.current = ev.Gesture
	return ev.Gesture
}

// recordCalibration stores the Debug value of set while a calibration run
// is active. Frames with an undefined angle are skipped. Caller holds trackMu.
func (a *App) recordCalibration(set detector.LandmarkSet) {
	if a.calibration.remaining == 0 || set.Empty() {
		return
	}

	value, err := a.tracker.Debug(set)
	if err != nil {
		return
	}

	sample := &store.CalibrationSample{Label: a.calibration.label, Value: value}
	if err := a.config.Store.Calibration().Add(sample); err != nil {
		log.Printf("Failed to store calibration sample: %v", err)
		return
	}

	a.calibration.remaining--
	if a.calibration.remaining == 0 {
		log.Printf("Finished recording %s calibration samples", a.calibration.label)
		a.calibration = calibrationRun{}
	}
}

// dispatch runs the actions bound to a gesture that just started. Plugins
// run in their own goroutines so a slow plugin does not stall capture.
func (a *App) dispatch(g gesture.Gesture, ev *gesture.Event) {
	if a.config.Store == nil {
		return
	}

	actions, err := a.config.Store.Actions().ListByGesture(string(g))
	if err != nil {
		log.Printf("Failed to load actions for %s: %v", g, err)
		return
	}
	if len(actions) == 0 {
		return
	}

	event, err := json.Marshal(ev)
	if err != nil {
		log.Printf("Failed to encode %s event: %v", g, err)
		return
	}

	a.mu.RLock()
	ctx := a.ctx
	a.mu.RUnlock()

	for _, action := range actions {
		p, err := a.pluginMgr.Get(action.PluginName)
		if err != nil {
			log.Printf("Action %s for %s: %v", action.ID, g, err)
			continue
		}

		req := &plugin.Request{
			Action:  action.ActionName,
			Gesture: string(g),
			Config:  action.Config,
			Event:   event,
		}

		a.inflight.Add(1)
		go func() {
			defer a.inflight.Done()
			a.execute(ctx, p, req)
		}()
	}
}

func (a *App) execute(ctx context.Context, p *plugin.Plugin, req *plugin.Request) {
	resp, err := a.pluginExec.Execute(ctx, p, req)
	if err != nil {
		log.Printf("Plugin %s failed on %s: %v", p.Manifest.Name, req.Gesture, err)
		return
	}
	if !resp.Success {
		log.Printf("Plugin %s reported an error on %s: %s", p.Manifest.Name, req.Gesture, resp.Error)
		return
	}
	log.Printf("Plugin %s ran %s for %s", p.Manifest.Name, req.Action, req.Gesture)
}

func (a *App) broadcast(u Update) {
	a.mu.RLock()
	listeners := a.listeners
	a.mu.RUnlock()

	for _, fn := range listeners {
		fn(u)
	}
}
