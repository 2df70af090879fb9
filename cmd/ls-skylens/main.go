// Command ls-skylens is a terminal sky overlay: it fuses IMU samples into a
// device attitude, orients the star catalog for the observer, and projects
// the visible sky.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/litescript/ls-skylens/internal/api"
	"github.com/litescript/ls-skylens/internal/astro"
	"github.com/litescript/ls-skylens/internal/catalog"
	"github.com/litescript/ls-skylens/internal/config"
	"github.com/litescript/ls-skylens/internal/engine"
	"github.com/litescript/ls-skylens/internal/fusion"
	"github.com/litescript/ls-skylens/internal/logging"
	"github.com/litescript/ls-skylens/internal/sensors"
	"github.com/litescript/ls-skylens/internal/ui"
)

// CLI flags for headless modes
var (
	summaryMode   bool
	watchInterval time.Duration
	snapshotPath  string
	mapMode       bool
)

func main() {
	configPath := flag.String("config", "", "Path to JSON config file")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	catalogPath := flag.String("catalog", "", "Path to JSON star catalog (default: built-in)")
	replayPath := flag.String("replay", "", "Replay IMU samples from a CSV recording")
	replaySpeed := flag.Float64("replay-speed", 1, "Replay pace multiplier (0 = as fast as possible)")
	serveAddr := flag.String("serve", "", "Serve the debug HTTP API on this address")
	flag.BoolVar(&summaryMode, "summary", false, "Print a text summary instead of the TUI")
	flag.DurationVar(&watchInterval, "watch", 0, "Repeat the summary at interval (e.g. 2s)")
	flag.StringVar(&snapshotPath, "snapshot-path", "", "Export a JSON frame snapshot to file (use - for stdout)")
	flag.BoolVar(&mapMode, "map", false, "Start in heading-based map mode")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *catalogPath != "" {
		cfg.CatalogPath = *catalogPath
	}
	if *serveAddr != "" {
		cfg.ListenAddr = *serveAddr
	}

	headless := summaryMode || snapshotPath != "" || watchInterval > 0

	logger := logging.New(logging.ParseLevel(cfg.LogLevel))
	if !headless {
		// The TUI owns the terminal; send logs to a file instead.
		if fileLog, err := logging.NewFile("ls-skylens.log", logging.ParseLevel(cfg.LogLevel)); err == nil {
			logger = fileLog
		} else {
			logger = logging.Discard()
		}
	}

	cat := catalog.Default()
	if cfg.CatalogPath != "" {
		cat, err = catalog.LoadFile(cfg.CatalogPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading catalog: %v\n", err)
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	src := buildSource(cfg, *replayPath, *replaySpeed)
	cfg.Caps = src.Capabilities()

	eng := engine.New(ctx, engine.Config{
		Catalog:         cat,
		Location:        astro.FixedLocation(cfg.Observer),
		Fusion:          fusion.Config{Filter: cfg.Filter, Caps: cfg.Caps},
		Matcher:         cfg.Matcher,
		Viewport:        cfg.Viewport,
		LocationTimeout: cfg.LocationTimeout,
		Log:             logger.Scoped("engine"),
	})
	defer eng.Close()
	if mapMode {
		eng.SetMode(engine.ModeMap)
	}

	sampleCh := make(chan fusion.SensorSample, 64)
	go func() {
		if err := src.Run(ctx, sampleCh); err != nil && ctx.Err() == nil {
			logger.Error("sensor source stopped: %v", err)
		}
	}()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case s := <-sampleCh:
				eng.HandleSample(s)
			}
		}
	}()

	if cfg.ListenAddr != "" {
		srv := api.NewServer(eng, cat, logger.Scoped("api"))
		go func() {
			if err := srv.Run(cfg.ListenAddr); err != nil {
				logger.Error("debug API failed: %v", err)
			}
		}()
	}

	if headless {
		runHeadless(ctx, eng, cfg.FrameInterval)
		return
	}

	model := ui.New(eng)
	p := tea.NewProgram(model, tea.WithAltScreen())

	go runFrameLoop(ctx, eng, cfg.FrameInterval, p, logger)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

// buildSource selects the sample source: a recording when given, otherwise
// the deterministic generator.
func buildSource(cfg config.Config, replayPath string, replaySpeed float64) sensors.Source {
	if replayPath != "" {
		return sensors.Probe(&sensors.Replay{Path: replayPath, Speed: replaySpeed})
	}
	return sensors.Probe(&sensors.Synthetic{Interval: cfg.SensorInterval})
}

// runFrameLoop ticks the engine and pushes each published frame to the TUI.
func runFrameLoop(ctx context.Context, eng *engine.Engine, interval time.Duration, p *tea.Program, logger *logging.Logger) {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug("frame loop shutting down")
			return
		case t := <-ticker.C:
			snap := eng.Frame(ctx, t)
			p.Send(ui.SnapshotMsg{Snapshot: snap})
		}
	}
}

// runHeadless handles summary, watch, and snapshot export without a TUI.
func runHeadless(ctx context.Context, eng *engine.Engine, frameInterval time.Duration) {
	if frameInterval <= 0 {
		frameInterval = 100 * time.Millisecond
	}

	outputOnce := func() error {
		// Let a few frames accumulate so fusion has settled samples.
		deadline := time.Now().Add(5 * frameInterval)
		var snap engine.Snapshot
		for time.Now().Before(deadline) {
			snap = eng.Frame(ctx, time.Now())
			time.Sleep(frameInterval)
		}

		if snapshotPath != "" {
			if err := exportSnapshot(snap, snapshotPath); err != nil {
				return err
			}
		}
		if summaryMode || snapshotPath == "" {
			writeSummary(os.Stdout, snap)
		}
		return nil
	}

	if watchInterval == 0 {
		if err := outputOnce(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := outputOnce(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}

	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fmt.Println()
			if err := outputOnce(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
		}
	}
}

// writeSummary prints a plain-text frame summary.
func writeSummary(w io.Writer, snap engine.Snapshot) {
	f := snap.Fusion
	obs := snap.Observer

	fmt.Fprintf(w, "site   %.4f°, %.4f°  lst %.4fh  utc %s\n",
		obs.Observer.LatDeg, obs.Observer.LonDeg, obs.LSTHours,
		obs.UTC.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "attitude  hdg %.1f°  pitch %.1f°  roll %.1f°  [%s %.0f%%]\n",
		f.HeadingDeg, f.PitchDeg, f.RollDeg, f.Tier, f.Confidence*100)
	fmt.Fprintf(w, "visible   %d stars, %d segments (%s mode)\n",
		len(snap.Stars), len(snap.Lines), snap.Mode)
	if astro.IsDaylight(obs) {
		fmt.Fprintln(w, "note      the sun is up; star visibility is simulated")
	}
	if snap.Match != nil {
		fmt.Fprintf(w, "match     %s (%.0f%%, %.1f° off center)\n",
			snap.Match.Constellation.Name, snap.Match.Confidence*100, snap.Match.SeparationDeg)
	}

	if term.IsTerminal(int(os.Stdout.Fd())) && f.Tier != fusion.TierMagnetic {
		fmt.Fprintln(w, "note      heading is degraded; run with a magnetometer source")
	}
}

// exportSnapshot writes the frame as JSON to path, or stdout for "-".
func exportSnapshot(snap engine.Snapshot, path string) error {
	var w io.Writer = os.Stdout
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create snapshot file: %w", err)
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}
