package fusion

import (
	"math"
	"time"

	"github.com/litescript/ls-skylens/internal/mathutil"
)

// WMM2025 degree-1 (dipole) coefficients in nT, with secular variation per
// year. A pure dipole is within a few degrees of the full model over most of
// the globe, which is enough to correct a handheld compass.
const (
	wmmEpoch = 2025.0
	g10Base  = -29351.8
	g11Base  = -1410.8
	h11Base  = 4545.4
	g10Dot   = 12.0
	g11Dot   = 9.7
	h11Dot   = -21.5
)

// MagneticDeclination returns the declination in degrees (east positive) at
// a location and time: the angle from true north to magnetic north.
// True heading = magnetic heading + declination.
func MagneticDeclination(latDeg, lonDeg float64, t time.Time) float64 {
	decYear := decimalYear(t.UTC())
	delta := decYear - wmmEpoch
	g10 := g10Base + g10Dot*delta
	g11 := g11Base + g11Dot*delta
	h11 := h11Base + h11Dot*delta

	lat := mathutil.DegToRad(latDeg)
	lon := mathutil.DegToRad(lonDeg)

	// Geocentric position unit vector in ECEF.
	r := mathutil.Vec3{
		X: math.Cos(lat) * math.Cos(lon),
		Y: math.Cos(lat) * math.Sin(lon),
		Z: math.Sin(lat),
	}

	// Dipole moment direction in ECEF from the n=1 Gauss coefficients.
	m := mathutil.Vec3{X: g11, Y: h11, Z: g10}

	// Dipole field: B ∝ 3(m·r̂)r̂ − m.
	b := r.Scale(3 * m.Dot(r)).Sub(m)

	// Local east/north unit vectors in ECEF.
	east := mathutil.Vec3{X: -math.Sin(lon), Y: math.Cos(lon)}
	north := mathutil.Vec3{
		X: -math.Sin(lat) * math.Cos(lon),
		Y: -math.Sin(lat) * math.Sin(lon),
		Z: math.Cos(lat),
	}

	be := b.Dot(east)
	bn := b.Dot(north)
	if be == 0 && bn == 0 {
		return 0
	}

	return mathutil.RadToDeg(math.Atan2(be, bn))
}

func decimalYear(t time.Time) float64 {
	y := t.Year()
	start := time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(y+1, 1, 1, 0, 0, 0, 0, time.UTC)
	elapsed := t.Sub(start)
	duration := end.Sub(start)
	if duration <= 0 {
		return float64(y)
	}
	return float64(y) + float64(elapsed)/float64(duration)
}
