package astro

import (
	"math"
	"time"

	"github.com/litescript/ls-skylens/internal/mathutil"
)

// SunPosition returns the apparent equatorial coordinates of the Sun, using
// the low-precision series from the Astronomical Almanac. Accuracy is a few
// hundredths of a degree, plenty for daylight detection and sky shading.
func SunPosition(t time.Time) (raHours, decDeg float64) {
	// Julian centuries from J2000.0.
	T := (JulianDate(t) - 2451545.0) / 36525.0

	// Mean solar longitude and anomaly, degrees.
	L0 := wrap360(280.46646 + 36000.76983*T + 0.0003032*T*T)
	M := mathutil.DegToRad(wrap360(357.52911 + 35999.05029*T - 0.0001537*T*T))

	// Equation of center.
	C := (1.914602-0.004817*T-0.000014*T*T)*math.Sin(M) +
		(0.019993-0.000101*T)*math.Sin(2*M) +
		0.000289*math.Sin(3*M)

	// Apparent longitude, corrected for nutation and aberration.
	omega := mathutil.DegToRad(125.04 - 1934.136*T)
	lambda := mathutil.DegToRad(L0 + C - 0.00569 - 0.00478*math.Sin(omega))

	// Mean obliquity of the ecliptic, with the nutation correction matching
	// the apparent longitude above.
	eps0 := 23.4392911111 - 0.0130041667*T - 1.638889e-7*T*T
	eps := mathutil.DegToRad(eps0 + 0.00256*math.Cos(omega))

	ra := math.Atan2(math.Cos(eps)*math.Sin(lambda), math.Cos(lambda))
	if ra < 0 {
		ra += 2 * math.Pi
	}
	dec := math.Asin(math.Sin(eps) * math.Sin(lambda))

	return mathutil.RadToDeg(ra) / 15, mathutil.RadToDeg(dec)
}

// SunHorizontal returns the Sun's altitude and azimuth for an observer state.
func SunHorizontal(st ObserverState) HorizontalCoord {
	ra, dec := SunPosition(st.UTC)
	return EquatorialToHorizontal(ra, dec, st.Observer.LatDeg, st.LSTHours)
}

// IsDaylight reports whether the Sun is above the horizon, with a small
// negative margin so civil twilight still counts as dark enough for stars.
func IsDaylight(st ObserverState) bool {
	return SunHorizontal(st).AltDeg > -6
}

func wrap360(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}
