package astro

import (
	"math"
	"time"

	"github.com/litescript/ls-skylens/internal/mathutil"
)

// VisibilityWindow is one rise-transit-set cycle for a fixed equatorial
// position. Circumpolar objects carry a transit only; objects that never
// clear the horizon carry neither.
type VisibilityWindow struct {
	Rise    time.Time
	Transit time.Time
	Set     time.Time

	MaxAltDeg   float64
	Circumpolar bool
	NeverRises  bool
}

// One rotation of the sky takes a sidereal day, so hour angles convert to
// clock time at the sidereal rate.
const solarPerSiderealHour = 0.9972695663

// RiseSet computes the visibility window for a fixed RA/Dec whose transit is
// nearest to the reference time. Stars are fixed on the celestial sphere, so
// the closed-form hour-angle solution is exact up to refraction.
func RiseSet(obs Observer, raHours, decDeg float64, around time.Time) VisibilityWindow {
	lat := mathutil.DegToRad(obs.LatDeg)
	dec := mathutil.DegToRad(decDeg)

	w := VisibilityWindow{
		MaxAltDeg: 90 - math.Abs(obs.LatDeg-decDeg),
	}

	// Transit nearest the reference time: advance the clock until the local
	// sidereal time equals the right ascension.
	lst := LocalSiderealTime(around, obs.LonDeg)
	dh := math.Mod(raHours-lst+36, 24)
	if dh > 12 {
		dh -= 24
	}
	w.Transit = around.Add(time.Duration(dh * solarPerSiderealHour * float64(time.Hour)))

	// cos H0 at the horizon; out of [-1,1] means no crossing.
	cosH0 := -math.Tan(lat) * math.Tan(dec)
	switch {
	case cosH0 < -1:
		w.Circumpolar = true
		return w
	case cosH0 > 1:
		w.NeverRises = true
		return w
	}

	h0Hours := mathutil.RadToDeg(math.Acos(cosH0)) / 15
	half := time.Duration(h0Hours * solarPerSiderealHour * float64(time.Hour))
	w.Rise = w.Transit.Add(-half)
	w.Set = w.Transit.Add(half)
	return w
}
