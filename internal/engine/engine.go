// Package engine drives the per-frame pipeline: observer time base, sky
// orientation, sensor fusion, camera composition, projection, and
// constellation matching, publishing an immutable snapshot each frame.
package engine

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/litescript/ls-skylens/internal/astro"
	"github.com/litescript/ls-skylens/internal/camera"
	"github.com/litescript/ls-skylens/internal/catalog"
	"github.com/litescript/ls-skylens/internal/fusion"
	"github.com/litescript/ls-skylens/internal/logging"
	"github.com/litescript/ls-skylens/internal/match"
	"github.com/litescript/ls-skylens/internal/mathutil"
	"github.com/litescript/ls-skylens/internal/projection"
)

// ViewMode selects how visibility is decided.
type ViewMode int

const (
	// ModeAR projects through the camera quaternion with the rectangular
	// frustum test.
	ModeAR ViewMode = iota

	// ModeMap uses the simplified heading-based circular field test.
	ModeMap
)

// String returns the mode name.
func (m ViewMode) String() string {
	if m == ModeMap {
		return "map"
	}
	return "ar"
}

// StarPoint is one projected star with its render attributes.
type StarPoint struct {
	Star       catalog.Star
	Screen     projection.ScreenPoint
	Horizontal astro.HorizontalCoord
	Attrs      projection.RenderAttributes
}

// LineSegment is one projected constellation line.
type LineSegment struct {
	Constellation string
	From, To      projection.ScreenPoint
}

// Snapshot is the immutable per-frame output consumed by renderers and
// debug surfaces. Recomputed every frame, never persisted.
type Snapshot struct {
	Time     time.Time
	Observer astro.ObserverState
	Sky      astro.SkyOrientation
	Camera   mathutil.Quat
	Fusion   fusion.Output
	Mode     ViewMode
	Viewport projection.Viewport
	Stars    []StarPoint
	Lines    []LineSegment
	Match    *match.Match

	// HeadingHistory is a bounded trail of recent headings for debug
	// sparklines, oldest first.
	HeadingHistory []float64
}

// Config assembles an engine.
type Config struct {
	Catalog  *catalog.Catalog
	Location astro.LocationSource
	Fusion   fusion.Config
	Matcher  match.Config
	Viewport projection.Viewport

	// LocationTimeout bounds the wait for a fix before the default site is
	// substituted.
	LocationTimeout time.Duration

	// LocationRefresh is how often the location source is re-queried.
	LocationRefresh time.Duration

	// HistoryLen bounds the heading trail.
	HistoryLen int

	Log *logging.Logger
}

// Engine owns the whole pipeline. Sensor callbacks and the frame tick
// serialize on one mutex, so every snapshot is consistent at a tick
// boundary; nothing observes a mid-mutation state.
type Engine struct {
	mu sync.Mutex

	log     *logging.Logger
	cat     *catalog.Catalog
	matcher *match.Matcher

	// Per-star RA/Dec, derived once from the immutable catalog positions.
	starEq []struct{ raHours, decDeg float64 }

	locSrc     astro.LocationSource
	locTimeout time.Duration
	locRefresh time.Duration
	lastLocAt  time.Time
	locPending bool

	obs astro.ObserverState
	sky astro.SkyOrientation

	fus  *fusion.Engine
	comp *camera.Composer

	lastGyro time.Time

	vp   projection.Viewport
	mode ViewMode

	history    []float64
	historyLen int

	last   Snapshot
	closed bool
}

// New builds the engine and resolves the initial observer state. The catalog
// must already be loaded and validated; a missing catalog is the caller's
// fatal startup error, not ours.
func New(ctx context.Context, cfg Config) *Engine {
	log := cfg.Log
	if log == nil {
		log = logging.Discard()
	}
	if cfg.LocationTimeout <= 0 {
		cfg.LocationTimeout = 3 * time.Second
	}
	if cfg.LocationRefresh <= 0 {
		cfg.LocationRefresh = 5 * time.Minute
	}
	if cfg.HistoryLen <= 0 {
		cfg.HistoryLen = 240
	}

	e := &Engine{
		log:        log,
		cat:        cfg.Catalog,
		matcher:    match.New(cfg.Catalog, cfg.Matcher),
		locSrc:     cfg.Location,
		locTimeout: cfg.LocationTimeout,
		locRefresh: cfg.LocationRefresh,
		fus:        fusion.NewEngine(cfg.Fusion),
		comp:       camera.NewComposer(),
		vp:         cfg.Viewport,
		historyLen: cfg.HistoryLen,
	}

	e.starEq = make([]struct{ raHours, decDeg float64 }, len(cfg.Catalog.Stars))
	for i, s := range cfg.Catalog.Stars {
		ra, dec := astro.CartesianToCelestial(s.Pos)
		e.starEq[i] = struct{ raHours, decDeg float64 }{ra, dec}
	}

	e.refreshObserver(ctx, time.Now())
	return e
}

// refreshObserver re-resolves the location and time base synchronously.
// Holds e.mu; only the startup path pays the blocking resolve.
func (e *Engine) refreshObserver(ctx context.Context, now time.Time) {
	st := astro.ResolveObserver(ctx, e.locSrc, e.locTimeout, now)
	e.applyObserver(st, now)
}

// resolveLocationAsync re-queries the location source off the frame path and
// applies the result when it lands. The engine keeps serving the stale fix in
// the meantime.
func (e *Engine) resolveLocationAsync(now time.Time) {
	st := astro.ResolveObserver(context.Background(), e.locSrc, e.locTimeout, now)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.locPending = false
	if e.closed {
		return
	}
	e.applyObserver(st, now)
}

// applyObserver installs a resolved observer state and everything derived
// from it. Holds e.mu.
func (e *Engine) applyObserver(st astro.ObserverState, now time.Time) {
	if st.Defaulted {
		e.log.Warn("location unavailable, using default site (%.4f, %.4f)",
			st.Observer.LatDeg, st.Observer.LonDeg)
	}
	e.obs = st
	e.lastLocAt = now

	e.sky = astro.ComputeSkyOrientation(st)
	if !e.sky.Valid() {
		e.log.Error("sky orientation failed unit validation (norm %.6f); continuing",
			e.sky.WorldRotation.Norm())
	}

	e.fus.SetDeclination(fusion.MagneticDeclination(st.Observer.LatDeg, st.Observer.LonDeg, now))
}

// SetViewport updates the projection surface.
func (e *Engine) SetViewport(vp projection.Viewport) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.vp = vp
}

// SetMode switches between AR and map visibility.
func (e *Engine) SetMode(m ViewMode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.mode = m
}

// HandleSample feeds one raw sensor sample through fusion and, for
// gyroscope samples, into the camera integrator.
func (e *Engine) HandleSample(s fusion.SensorSample) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}

	out := e.fus.Update(s)

	switch {
	case s.Kind == fusion.KindGyroscope && out.Tier != fusion.TierMagnetic:
		// No absolute orientation available: integrate the rate sample.
		if !e.lastGyro.IsZero() {
			dt := s.Time.Sub(e.lastGyro).Seconds()
			e.comp.IntegrateRate(s.Vec, dt)
		}
		e.lastGyro = s.Time
	case out.Tier == fusion.TierMagnetic:
		// Absolute orientation wins; it cannot drift.
		e.comp.SetDevice(out.Orientation)
		if s.Kind == fusion.KindGyroscope {
			e.lastGyro = s.Time
		}
	}
}

// Frame advances the pipeline one tick and publishes a new snapshot.
func (e *Engine) Frame(ctx context.Context, now time.Time) Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return e.last
	}

	// Location is the only slow dependency; it resolves off the frame path
	// so the tick never waits on it. A stale fix degrades accuracy, never
	// stalls.
	if !e.locPending && now.Sub(e.lastLocAt) >= e.locRefresh {
		e.locPending = true
		go e.resolveLocationAsync(now)
	}

	defaulted := e.obs.Defaulted
	e.obs = astro.NewObserverState(e.obs.Observer, now)
	e.obs.Defaulted = defaulted
	e.sky = astro.ComputeSkyOrientation(e.obs)
	if !e.sky.Valid() {
		e.log.Error("sky orientation failed unit validation (norm %.6f); continuing",
			e.sky.WorldRotation.Norm())
	}

	fout := e.fus.Output()
	cam := e.comp.Compose(e.sky.WorldRotation)
	if !cam.IsUnit() {
		e.log.Error("camera quaternion failed unit validation (norm %.6f)", cam.Norm())
		cam = cam.Normalized()
	}

	snap := Snapshot{
		Time:     now,
		Observer: e.obs,
		Sky:      e.sky,
		Camera:   cam,
		Fusion:   fout,
		Mode:     e.mode,
		Viewport: e.vp,
	}

	screens := e.projectStars(&snap, cam, fout)
	e.projectLines(&snap, screens)

	// View direction for matching: the camera elevation is the negated
	// pitch under the fusion conventions.
	if m, ok := e.matcher.BestMatchHorizontal(-fout.PitchDeg, fout.HeadingDeg, e.obs); ok {
		snap.Match = &m
	}

	e.history = append(e.history, fout.HeadingDeg)
	if len(e.history) > e.historyLen {
		e.history = e.history[1:]
	}
	snap.HeadingHistory = append([]float64(nil), e.history...)

	e.last = snap
	return snap
}

// projectStars fills snap.Stars and returns the screen position of every
// visible star keyed by id, for line projection.
func (e *Engine) projectStars(snap *Snapshot, cam mathutil.Quat, fout fusion.Output) map[int]projection.ScreenPoint {
	screens := make(map[int]projection.ScreenPoint)

	var viewDir mathutil.Vec3
	var fieldRadius float64
	if e.mode == ModeMap {
		viewDir = astro.HorizontalToVector(-fout.PitchDeg, fout.HeadingDeg)
		fieldRadius = e.vp.FOVDeg
	}

	for i, star := range e.cat.Stars {
		hc := astro.EquatorialToHorizontal(
			e.starEq[i].raHours, e.starEq[i].decDeg,
			e.obs.Observer.LatDeg, e.obs.LSTHours)

		var sp projection.ScreenPoint
		switch e.mode {
		case ModeMap:
			if !projection.InAngularField(viewDir, astro.HorizontalToVector(hc.AltDeg, hc.AzDeg), fieldRadius) {
				continue
			}
			var ok bool
			sp, ok = e.mapProject(hc, fout)
			if !ok {
				continue
			}
		default:
			p := cam.Rotate(star.Pos)
			if !projection.InFrustum(p, e.vp) {
				continue
			}
			sp, _ = projection.ProjectToScreen(p, e.vp)
		}

		screens[star.ID] = sp
		snap.Stars = append(snap.Stars, StarPoint{
			Star:       star,
			Screen:     sp,
			Horizontal: hc,
			Attrs:      projection.AttributesForMagnitude(star.Mag),
		})
	}

	return screens
}

// mapProject places a star on screen by angular offset from the view
// center, the flat layout used by the map mode.
func (e *Engine) mapProject(hc astro.HorizontalCoord, fout fusion.Output) (projection.ScreenPoint, bool) {
	dAz := math.Mod(hc.AzDeg-fout.HeadingDeg+540, 360) - 180
	dAlt := hc.AltDeg - (-fout.PitchDeg)

	fov := e.vp.FOVDeg
	x := e.vp.Width/2 + dAz/fov*e.vp.Width
	y := e.vp.Height/2 - dAlt/fov*e.vp.Height
	if x < 0 || x > e.vp.Width || y < 0 || y > e.vp.Height {
		return projection.ScreenPoint{}, false
	}
	return projection.ScreenPoint{X: x, Y: y, Depth: 1}, true
}

// projectLines emits the constellation segments whose endpoints are both on
// screen this frame.
func (e *Engine) projectLines(snap *Snapshot, screens map[int]projection.ScreenPoint) {
	for _, con := range e.cat.Constellations {
		for _, line := range con.Lines {
			from, okF := screens[line.From]
			to, okT := screens[line.To]
			if okF && okT {
				snap.Lines = append(snap.Lines, LineSegment{
					Constellation: con.Name,
					From:          from,
					To:            to,
				})
			}
		}
	}
}

// Snapshot returns the most recently published frame.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last
}

// StartCalibration opens the fusion calibration window.
func (e *Engine) StartCalibration(now time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fus.StartCalibration(now)
}

// FinishCalibration closes the window; on failure the prior offset stands.
func (e *Engine) FinishCalibration() (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fus.FinishCalibration()
}

// Close tears the pipeline down: the fusion state is discarded and later
// calls become no-ops. Close never panics.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	e.fus.Close()
	e.comp.Reset()
}
