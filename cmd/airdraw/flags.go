package main

import (
	"flag"
	"io"

	"github.com/ayusman/airdraw/internal/config"
	"github.com/ayusman/airdraw/internal/tracker"
)

// options holds the command-line flags.
type options struct {
	configPath string
	addr       string
	camera     int
	threshold  float64
	preview    bool
	headless   bool

	// thresholdSet is true when -threshold was given, including -threshold 0.
	thresholdSet bool
}

func parseFlags(args []string, output io.Writer) (options, error) {
	var opts options

	fs := flag.NewFlagSet("airdraw", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&opts.configPath, "config", "", "path to a JSON config file")
	fs.StringVar(&opts.addr, "addr", "", "HTTP listen address (overrides config)")
	fs.IntVar(&opts.camera, "camera", -1, "camera device index (overrides config)")
	fs.Float64Var(&opts.threshold, "threshold", 0, "finger extension threshold (overrides config and stored settings)")
	fs.BoolVar(&opts.preview, "preview", false, "classify at the preview threshold and log every mode change")
	fs.BoolVar(&opts.headless, "headless", false, "run without the tray menu")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "threshold" {
			opts.thresholdSet = true
		}
	})
	return opts, nil
}

// apply overrides cfg with the flags that were given.
func (o options) apply(cfg *config.Config) {
	if o.addr != "" {
		cfg.Addr = o.addr
	}
	if o.camera >= 0 {
		cfg.Camera.Device = o.camera
	}
	if o.thresholdSet {
		cfg.Threshold = o.threshold
	}
}

// trackerConfig returns the tracker settings to start with and whether its
// threshold must win over a stored one. Preview mode always runs at the
// preview threshold.
func (o options) trackerConfig(cfg *config.Config) (tracker.Config, bool) {
	tc := cfg.TrackerConfig()
	if o.preview {
		tc.Threshold = cfg.PreviewThreshold
		return tc, true
	}
	return tc, o.thresholdSet
}
