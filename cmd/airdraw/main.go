package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/ayusman/airdraw/internal/app"
	"github.com/ayusman/airdraw/internal/config"
	"github.com/ayusman/airdraw/internal/server"
	"github.com/ayusman/airdraw/internal/store"
	"github.com/ayusman/airdraw/internal/tray"
)

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		os.Exit(2)
	}

	fmt.Println("AirDraw - Hand Gesture Drawing")

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	opts.apply(cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
	trackerCfg, pinThreshold := opts.trackerConfig(cfg)

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	st, err := store.New(cfg.DatabasePath())
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	a := app.New(app.Config{
		Store:         st,
		PluginDir:     cfg.PluginDir,
		Camera:        cfg.CaptureOptions(),
		Detector:      cfg.DetectorConfig(),
		Tracker:       trackerCfg,
		MotionPercent: cfg.MotionPercent,
		IdleFPS:       cfg.Camera.IdleFPS,
		IdleTimeout:   cfg.GetIdleTimeout(),
		PluginTimeout: cfg.GetPluginTimeout(),
		PinThreshold:  pinThreshold,
	})
	defer a.Close()

	if opts.preview {
		a.AddListener(modeLogger())
		log.Printf("Preview mode, threshold %.2f", trackerCfg.Threshold)
	}

	if err := a.DiscoverPlugins(); err != nil {
		log.Printf("Plugin discovery failed: %v", err)
	}

	webDir := findWebDir(cfg.DataDir)
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir:       webDir,
		Store:           st,
		Control:         a,
		Plugins:         a.PluginManager(),
		Threshold:       trackerCfg.Threshold,
		ResetOnHandLoss: trackerCfg.ResetOnHandLoss,
	})

	t := tray.New(true)
	a.AddListener(func(u app.Update) {
		srv.Events().Publish(u)
		if u.Event != nil {
			t.SetMode(string(u.Event.Gesture))
		} else {
			t.SetMode("")
		}
	})

	a.SetEnabled(true)
	if err := a.Start(); err != nil {
		log.Fatalf("Failed to start detection: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		fmt.Printf("Starting server on %s\n", cfg.Addr)
		if err := srv.ListenAndServe(ctx, cfg.Addr); err != nil {
			log.Printf("Server failed: %v", err)
			stop()
		}
	}()

	if opts.headless {
		<-ctx.Done()
		return
	}

	t.OnToggle(a.SetEnabled)
	t.OnSettings(func() {
		if err := openBrowser(settingsURL(cfg.Addr)); err != nil {
			log.Printf("Failed to open settings: %v", err)
		}
	})
	t.OnQuit(stop)
	go func() {
		<-ctx.Done()
		t.Quit()
	}()

	t.Run()
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// modeLogger logs each change of the detected mode.
func modeLogger() func(app.Update) {
	last := "none"
	return func(u app.Update) {
		mode := "none"
		if u.Event != nil {
			mode = string(u.Event.Gesture)
		}
		if mode != last {
			log.Printf("Mode: %s", mode)
			last = mode
		}
	}
}

func settingsURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr + "/"
}

func openBrowser(url string) error {
	name := "xdg-open"
	if runtime.GOOS == "darwin" {
		name = "open"
	}
	return exec.Command(name, url).Start()
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and <dataDir>/web.
// Returns the first existing directory or empty string if none found.
func findWebDir(dataDir string) string {
	// Check relative paths from current working directory
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	dataWebDir := filepath.Join(dataDir, "web")
	if info, err := os.Stat(dataWebDir); err == nil && info.IsDir() {
		return dataWebDir
	}

	return ""
}
