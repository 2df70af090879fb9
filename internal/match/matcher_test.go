package match

import (
	"math"
	"testing"
	"time"

	"github.com/litescript/ls-skylens/internal/astro"
	"github.com/litescript/ls-skylens/internal/catalog"
)

func testMatcher(t *testing.T) *Matcher {
	t.Helper()
	return New(catalog.Default(), DefaultConfig())
}

func TestBestMatch_OrionAtOrion(t *testing.T) {
	m := testMatcher(t)

	// Betelgeuse's neighborhood: RA ~5.6h, Dec ~0°.
	got, ok := m.BestMatch(5.6, 0)
	if !ok {
		t.Fatal("no match at the center of Orion")
	}
	if got.Constellation.Name != "Orion" {
		t.Errorf("matched %q, want Orion", got.Constellation.Name)
	}
	if got.Confidence <= 0.5 {
		t.Errorf("confidence = %v, want well above the gate", got.Confidence)
	}
	if got.SeparationDeg > 20 {
		t.Errorf("separation = %v°, want small", got.SeparationDeg)
	}
}

func TestBestMatch_UrsaMinorAtPole(t *testing.T) {
	m := testMatcher(t)

	got, ok := m.BestMatch(2.5, 89)
	if !ok {
		t.Fatal("no match at the celestial pole")
	}
	if got.Constellation.Name != "Ursa Minor" {
		t.Errorf("matched %q, want Ursa Minor", got.Constellation.Name)
	}
}

func TestBestMatch_GatesLowConfidence(t *testing.T) {
	cat := catalog.Default()

	// With a tight field, a view far from every figure clears nothing.
	m := New(cat, Config{MaxSeparationDeg: 5, MinConfidence: 0.3})

	// A point in the sparse region of the southern sky.
	if got, ok := m.BestMatch(1, -40); ok {
		t.Errorf("expected no match, got %q at %v°", got.Constellation.Name, got.SeparationDeg)
	}
}

func TestBestMatch_ConfidenceDecaysWithSeparation(t *testing.T) {
	m := testMatcher(t)

	near, okNear := m.BestMatch(5.6, 0)
	far, okFar := m.BestMatch(5.6, 35)
	if !okNear || !okFar {
		t.Fatal("both views should clear the default gate")
	}
	if near.Confidence <= far.Confidence {
		t.Errorf("confidence should fall with separation: near %v, far %v", near.Confidence, far.Confidence)
	}
}

func TestBestMatch_ConfidenceFormula(t *testing.T) {
	m := testMatcher(t)

	got, ok := m.BestMatch(5.6, 0)
	if !ok {
		t.Fatal("no match")
	}
	want := 1 - got.SeparationDeg/60
	if math.Abs(got.Confidence-want) > 1e-9 {
		t.Errorf("confidence = %v, want %v", got.Confidence, want)
	}
}

func TestBestMatchHorizontal(t *testing.T) {
	m := testMatcher(t)
	st := astro.NewObserverState(astro.DefaultObserver(), time.Date(2024, 12, 15, 6, 0, 0, 0, time.UTC))

	// Point at wherever Betelgeuse currently is; the horizontal path must
	// agree with the equatorial one.
	hc := astro.EquatorialToHorizontal(5.919, 7.4, st.Observer.LatDeg, st.LSTHours)
	gotH, okH := m.BestMatchHorizontal(hc.AltDeg, hc.AzDeg, st)
	gotE, okE := m.BestMatch(5.919, 7.4)

	if okH != okE {
		t.Fatalf("paths disagree: horizontal ok=%v, equatorial ok=%v", okH, okE)
	}
	if okH && gotH.Constellation.Name != gotE.Constellation.Name {
		t.Errorf("horizontal matched %q, equatorial %q", gotH.Constellation.Name, gotE.Constellation.Name)
	}
}

func TestBestMatch_WholeSkyWellFormed(t *testing.T) {
	m := testMatcher(t)

	for ra := 0.0; ra < 24; ra += 2 {
		for dec := -80.0; dec <= 80; dec += 20 {
			got, ok := m.BestMatch(ra, dec)
			if !ok {
				continue
			}
			if got.Constellation == nil {
				t.Fatalf("RA=%vh Dec=%v°: match without constellation", ra, dec)
			}
			if got.Confidence < 0.3 || got.Confidence > 1 {
				t.Errorf("RA=%vh Dec=%v°: confidence %v outside gated range", ra, dec, got.Confidence)
			}
			if math.IsNaN(got.SeparationDeg) || got.SeparationDeg < 0 {
				t.Errorf("RA=%vh Dec=%v°: bad separation %v", ra, dec, got.SeparationDeg)
			}
		}
	}
}
