package engine

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/litescript/ls-skylens/internal/astro"
	"github.com/litescript/ls-skylens/internal/catalog"
	"github.com/litescript/ls-skylens/internal/fusion"
	"github.com/litescript/ls-skylens/internal/match"
	"github.com/litescript/ls-skylens/internal/projection"
	"github.com/litescript/ls-skylens/internal/sensors"
)

var testViewport = projection.Viewport{Width: 390, Height: 844, FOVDeg: 60}

func testEngine(t *testing.T) *Engine {
	t.Helper()
	return New(context.Background(), Config{
		Catalog:  catalog.Default(),
		Location: astro.FixedLocation(astro.DefaultObserver()),
		Fusion:   fusion.DefaultConfig(),
		Matcher:  match.DefaultConfig(),
		Viewport: testViewport,
	})
}

// aim feeds paired gravity and magnetometer samples until the fused heading
// settles on the requested attitude.
func aim(e *Engine, headingDeg, pitchDeg float64, at time.Time) {
	grav, mag := sensors.SimulateAttitude(headingDeg, pitchDeg, 0)
	for i := 0; i < 40; i++ {
		ts := at.Add(time.Duration(i) * 20 * time.Millisecond)
		e.HandleSample(fusion.SensorSample{Kind: fusion.KindAccelerometer, Time: ts, Vec: grav})
		e.HandleSample(fusion.SensorSample{Kind: fusion.KindMagnetometer, Time: ts, Vec: mag})
	}
}

func TestFrame_SnapshotConsistency(t *testing.T) {
	e := testEngine(t)
	defer e.Close()

	now := time.Date(2024, 12, 15, 6, 0, 0, 0, time.UTC)
	aim(e, 0, -35, now)
	snap := e.Frame(context.Background(), now)

	if !snap.Time.Equal(now) {
		t.Errorf("snapshot time = %v, want %v", snap.Time, now)
	}
	if snap.Observer.Defaulted {
		t.Error("fixed location should not be marked defaulted")
	}
	if !snap.Camera.IsUnit() {
		t.Errorf("camera quaternion norm = %v", snap.Camera.Norm())
	}
	if snap.Viewport != testViewport {
		t.Errorf("viewport = %+v", snap.Viewport)
	}
	if !snap.Fusion.PointingSkyward {
		t.Error("camera raised 35° should point skyward")
	}

	got := e.Snapshot()
	if got.Time != snap.Time || len(got.Stars) != len(snap.Stars) {
		t.Error("Snapshot() does not return the last published frame")
	}
}

func TestFrame_StarsWithinViewport(t *testing.T) {
	e := testEngine(t)
	defer e.Close()

	now := time.Date(2024, 12, 15, 6, 0, 0, 0, time.UTC)
	aim(e, 120, -35, now)
	snap := e.Frame(context.Background(), now)

	for _, sp := range snap.Stars {
		if sp.Screen.X < 0 || sp.Screen.X > testViewport.Width ||
			sp.Screen.Y < 0 || sp.Screen.Y > testViewport.Height {
			t.Errorf("star %q projected off screen: (%v, %v)", sp.Star.Name, sp.Screen.X, sp.Screen.Y)
		}
		if sp.Attrs.Size <= 0 {
			t.Errorf("star %q has no render size", sp.Star.Name)
		}
	}
}

func TestFrame_ARSweepFindsStars(t *testing.T) {
	e := testEngine(t)
	defer e.Close()

	now := time.Date(2024, 12, 15, 6, 0, 0, 0, time.UTC)
	total := 0
	for h := 0.0; h < 360; h += 30 {
		aim(e, h, -35, now)
		snap := e.Frame(context.Background(), now)
		total += len(snap.Stars)
	}
	if total == 0 {
		t.Error("a full pan of the sky should project at least one star")
	}
}

func TestFrame_MapModeNorthSeesPolaris(t *testing.T) {
	e := testEngine(t)
	defer e.Close()
	e.SetMode(ModeMap)

	// From the default site Polaris sits near (alt≈30°, az≈0°); a camera
	// aimed north and raised 35° must include it in the map field.
	now := time.Date(2024, 12, 15, 6, 0, 0, 0, time.UTC)
	aim(e, 0, -35, now)
	snap := e.Frame(context.Background(), now)

	if snap.Mode != ModeMap {
		t.Fatalf("mode = %v, want map", snap.Mode)
	}
	found := false
	for _, sp := range snap.Stars {
		if sp.Star.Name == "Polaris" {
			found = true
		}
	}
	if !found {
		t.Error("Polaris missing from the north-facing map view")
	}
}

func TestFrame_MapModeFiltersByAngle(t *testing.T) {
	e := testEngine(t)
	defer e.Close()
	e.SetMode(ModeMap)

	now := time.Date(2024, 12, 15, 6, 0, 0, 0, time.UTC)
	aim(e, 90, -35, now)
	snap := e.Frame(context.Background(), now)

	center := astro.HorizontalToVector(-snap.Fusion.PitchDeg, snap.Fusion.HeadingDeg)
	for _, sp := range snap.Stars {
		dir := astro.HorizontalToVector(sp.Horizontal.AltDeg, sp.Horizontal.AzDeg)
		cos := center.Dot(dir)
		if math.Acos(math.Min(1, cos)) > testViewport.FOVDeg*math.Pi/180+1e-9 {
			t.Errorf("star %q outside the angular field", sp.Star.Name)
		}
	}
}

func TestFrame_LinesConnectVisibleStars(t *testing.T) {
	e := testEngine(t)
	defer e.Close()
	e.SetMode(ModeMap)

	now := time.Date(2024, 12, 15, 6, 0, 0, 0, time.UTC)
	aim(e, 0, -35, now)
	snap := e.Frame(context.Background(), now)

	visible := make(map[projection.ScreenPoint]bool, len(snap.Stars))
	for _, sp := range snap.Stars {
		visible[sp.Screen] = true
	}
	for _, seg := range snap.Lines {
		if !visible[seg.From] || !visible[seg.To] {
			t.Errorf("segment in %q references an off-screen endpoint", seg.Constellation)
		}
	}
}

func TestFrame_HeadingHistoryBounded(t *testing.T) {
	e := New(context.Background(), Config{
		Catalog:    catalog.Default(),
		Location:   astro.FixedLocation(astro.DefaultObserver()),
		Fusion:     fusion.DefaultConfig(),
		Matcher:    match.DefaultConfig(),
		Viewport:   testViewport,
		HistoryLen: 5,
	})
	defer e.Close()

	now := time.Date(2024, 12, 15, 6, 0, 0, 0, time.UTC)
	var snap Snapshot
	for i := 0; i < 12; i++ {
		snap = e.Frame(context.Background(), now.Add(time.Duration(i)*100*time.Millisecond))
	}
	if len(snap.HeadingHistory) != 5 {
		t.Errorf("history length = %d, want 5", len(snap.HeadingHistory))
	}
}

// stallingLocation answers the first fix immediately and then hangs until
// the resolver's context expires, imitating a provider that stops responding
// mid-session.
type stallingLocation struct {
	calls int
	site  astro.Observer
}

func (s *stallingLocation) Resolve(ctx context.Context) (astro.Observer, error) {
	s.calls++
	if s.calls == 1 {
		return s.site, nil
	}
	<-ctx.Done()
	return astro.Observer{}, ctx.Err()
}

func TestFrame_DoesNotBlockOnLocationRefresh(t *testing.T) {
	src := &stallingLocation{site: astro.DefaultObserver()}
	e := New(context.Background(), Config{
		Catalog:         catalog.Default(),
		Location:        src,
		Fusion:          fusion.DefaultConfig(),
		Matcher:         match.DefaultConfig(),
		Viewport:        testViewport,
		LocationTimeout: 2 * time.Second,
		LocationRefresh: time.Millisecond,
	})
	defer e.Close()

	// The refresh interval has long elapsed, so this tick kicks off a
	// re-query. The resolve hangs for the full timeout; the frame must not.
	now := time.Now().Add(time.Second)
	started := time.Now()
	snap := e.Frame(context.Background(), now)
	if elapsed := time.Since(started); elapsed > 500*time.Millisecond {
		t.Fatalf("frame took %v with a stalled location source", elapsed)
	}

	if snap.Observer.Observer != astro.DefaultObserver() {
		t.Error("frame should keep serving the last known site while the refresh is in flight")
	}

	// Later ticks stay responsive while the resolve is still pending.
	started = time.Now()
	e.Frame(context.Background(), now.Add(16*time.Millisecond))
	if elapsed := time.Since(started); elapsed > 500*time.Millisecond {
		t.Fatalf("second frame took %v with a refresh in flight", elapsed)
	}
}

func TestEngine_NilLocationDefaults(t *testing.T) {
	e := New(context.Background(), Config{
		Catalog:  catalog.Default(),
		Fusion:   fusion.DefaultConfig(),
		Matcher:  match.DefaultConfig(),
		Viewport: testViewport,
	})
	defer e.Close()

	snap := e.Frame(context.Background(), time.Now())
	if !snap.Observer.Defaulted {
		t.Error("nil location source should resolve to the default site")
	}
}

func TestEngine_CalibrationPassthrough(t *testing.T) {
	e := testEngine(t)
	defer e.Close()

	now := time.Date(2024, 12, 15, 6, 0, 0, 0, time.UTC)
	e.StartCalibration(now)
	aim(e, 10, -35, now)
	offset, err := e.FinishCalibration()
	if err != nil {
		t.Fatalf("FinishCalibration: %v", err)
	}
	if offset == 0 {
		t.Error("calibration over a non-zero heading should produce an offset")
	}
}

func TestEngine_CloseIdempotent(t *testing.T) {
	e := testEngine(t)
	e.Close()
	e.Close()

	before := e.Snapshot()
	e.HandleSample(fusion.SensorSample{Kind: fusion.KindGyroscope, Time: time.Now()})
	after := e.Frame(context.Background(), time.Now())
	if !after.Time.Equal(before.Time) {
		t.Error("a closed engine should keep returning the last snapshot")
	}
}

func TestViewMode_String(t *testing.T) {
	if ModeAR.String() != "ar" || ModeMap.String() != "map" {
		t.Errorf("mode names = %q, %q", ModeAR.String(), ModeMap.String())
	}
}
