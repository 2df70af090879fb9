// Package match finds the constellation closest to the current view
// direction.
package match

import (
	"math"

	"github.com/litescript/ls-skylens/internal/astro"
	"github.com/litescript/ls-skylens/internal/catalog"
	"github.com/litescript/ls-skylens/internal/mathutil"
)

// Match is the best constellation for a view direction. Ephemeral,
// recomputed per frame.
type Match struct {
	Constellation *catalog.Constellation
	Confidence    float64 // [0,1]
	ViewRAHours   float64
	ViewDecDeg    float64
	SeparationDeg float64
}

// Config tunes the matcher.
type Config struct {
	// MaxSeparationDeg is the separation at which confidence reaches zero.
	MaxSeparationDeg float64

	// MinConfidence gates the result: matches below it are reported as no
	// match rather than a low-confidence guess.
	MinConfidence float64
}

// DefaultConfig returns the gating used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		MaxSeparationDeg: 60,
		MinConfidence:    0.3,
	}
}

// centroid is a precomputed magnitude-weighted constellation center.
type centroid struct {
	con     *catalog.Constellation
	raHours float64
	decDeg  float64
}

// Matcher holds precomputed centroids over an immutable catalog.
type Matcher struct {
	cfg       Config
	centroids []centroid
}

// New precomputes the magnitude-weighted centroid of every constellation.
// Brighter stars dominate: weight = max(0.1, 6 - magnitude).
func New(cat *catalog.Catalog, cfg Config) *Matcher {
	if cfg.MaxSeparationDeg <= 0 {
		cfg.MaxSeparationDeg = DefaultConfig().MaxSeparationDeg
	}

	m := &Matcher{cfg: cfg}
	for i := range cat.Constellations {
		con := &cat.Constellations[i]

		seen := make(map[int]bool)
		var sum mathutil.Vec3
		for _, line := range con.Lines {
			for _, id := range [2]int{line.From, line.To} {
				if seen[id] {
					continue
				}
				seen[id] = true
				star, ok := cat.StarByID(id)
				if !ok {
					continue // catalog validation rejects this upstream
				}
				sum = sum.Add(star.Pos.Scale(starWeight(star.Mag)))
			}
		}

		if sum.Norm() == 0 {
			continue
		}
		ra, dec := astro.CartesianToCelestial(sum)
		m.centroids = append(m.centroids, centroid{con: con, raHours: ra, decDeg: dec})
	}
	return m
}

// starWeight is the magnitude weighting for centroid computation.
func starWeight(mag float64) float64 {
	return math.Max(0.1, 6-mag)
}

// BestMatch returns the constellation with the minimum angular separation
// from the view direction, gated by the configured minimum confidence.
// ok is false when nothing clears the gate.
func (m *Matcher) BestMatch(viewRAHours, viewDecDeg float64) (Match, bool) {
	if len(m.centroids) == 0 {
		return Match{}, false
	}

	best := Match{
		ViewRAHours:   viewRAHours,
		ViewDecDeg:    viewDecDeg,
		SeparationDeg: math.Inf(1),
	}
	for _, c := range m.centroids {
		sep := astro.AngularSeparationDeg(viewRAHours, viewDecDeg, c.raHours, c.decDeg)
		if sep < best.SeparationDeg {
			best.Constellation = c.con
			best.SeparationDeg = sep
		}
	}

	best.Confidence = math.Max(0, 1-best.SeparationDeg/m.cfg.MaxSeparationDeg)
	if best.Confidence < m.cfg.MinConfidence {
		return Match{}, false
	}
	return best, true
}

// BestMatchHorizontal matches against a view direction given as Alt/Az for
// an observer state, the heading-based path used by non-AR views.
func (m *Matcher) BestMatchHorizontal(altDeg, azDeg float64, st astro.ObserverState) (Match, bool) {
	ra, dec := astro.HorizontalToEquatorial(altDeg, azDeg, st.Observer.LatDeg, st.LSTHours)
	return m.BestMatch(ra, dec)
}
