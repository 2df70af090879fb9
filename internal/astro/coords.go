// Package astro provides astronomical coordinate transformations and sky math.
package astro

import (
	"math"
	"time"

	"github.com/litescript/ls-skylens/internal/mathutil"
)

// HorizontalCoord is a position relative to the observer's local horizon.
type HorizontalCoord struct {
	AltDeg float64 // Altitude in degrees (0=horizon, 90=zenith)
	AzDeg  float64 // Azimuth in degrees (0=N, 90=E, 180=S, 270=W)
}

// EquatorialToHorizontal converts equatorial coordinates (RA/Dec) to
// horizontal coordinates (Alt/Az) for an observer latitude and local
// sidereal time.
//
// RA and LST are in hours, declination and latitude in degrees.
// Uses standard astronomical conventions:
//   - Azimuth: 0° = North, 90° = East, 180° = South, 270° = West
//   - Altitude: 0° = horizon, 90° = zenith
//
// At the exact zenith or celestial pole azimuth is mathematically undefined;
// this function returns azimuth 0 there by convention.
func EquatorialToHorizontal(raHours, decDeg, latDeg, lstHours float64) HorizontalCoord {
	lat := mathutil.DegToRad(latDeg)
	dec := mathutil.DegToRad(decDeg)

	// Hour Angle = LST - RA, converted from hours to radians
	ha := mathutil.DegToRad((lstHours - raHours) * 15)

	// Altitude
	sinAlt := math.Sin(dec)*math.Sin(lat) + math.Cos(dec)*math.Cos(lat)*math.Cos(ha)
	sinAlt = clamp(sinAlt, -1, 1)
	alt := math.Asin(sinAlt)

	// Azimuth via the standard ratio. The denominator vanishes at the zenith
	// (and at the poles for |lat|=90); fall back to the documented az=0.
	denom := math.Cos(alt) * math.Cos(lat)
	if math.Abs(denom) < 1e-12 {
		return HorizontalCoord{AltDeg: mathutil.RadToDeg(alt), AzDeg: 0}
	}

	cosAz := (math.Sin(dec) - math.Sin(alt)*math.Sin(lat)) / denom
	cosAz = clamp(cosAz, -1, 1)
	az := math.Acos(cosAz)

	// Quadrant correction: positive hour angle places the object west of the meridian
	if math.Sin(ha) > 0 {
		az = 2*math.Pi - az
	}

	return HorizontalCoord{
		AltDeg: mathutil.RadToDeg(alt),
		AzDeg:  mathutil.RadToDeg(az),
	}
}

// HorizontalToEquatorial converts Alt/Az back to RA/Dec for an observer
// latitude and local sidereal time; the inverse of EquatorialToHorizontal.
// Returns RA in hours [0,24) and Dec in degrees.
func HorizontalToEquatorial(altDeg, azDeg, latDeg, lstHours float64) (raHours, decDeg float64) {
	alt := mathutil.DegToRad(altDeg)
	az := mathutil.DegToRad(azDeg)
	lat := mathutil.DegToRad(latDeg)

	sinDec := math.Sin(alt)*math.Sin(lat) + math.Cos(alt)*math.Cos(lat)*math.Cos(az)
	sinDec = clamp(sinDec, -1, 1)
	dec := math.Asin(sinDec)

	// Hour angle from its sine and cosine so the quadrant is unambiguous.
	// Both terms share a cos(dec) factor, which atan2 cancels.
	sinHA := -math.Sin(az) * math.Cos(alt)
	cosHA := math.Sin(alt) - math.Sin(lat)*sinDec
	if c := math.Cos(lat); math.Abs(c) > 1e-12 {
		cosHA /= c
	}
	haHours := mathutil.RadToDeg(math.Atan2(sinHA, cosHA)) / 15

	ra := math.Mod(lstHours-haHours, 24)
	if ra < 0 {
		ra += 24
	}

	return ra, mathutil.RadToDeg(dec)
}

// CelestialToCartesian converts RA (hours) and Dec (degrees) to a Cartesian
// vector of the given radius.
//
// Convention: +X points at (RA=0, Dec=0), +Z at the north celestial pole,
// +Y completes the right-handed frame at RA=6h.
func CelestialToCartesian(raHours, decDeg, radius float64) mathutil.Vec3 {
	ra := mathutil.DegToRad(raHours * 15)
	dec := mathutil.DegToRad(decDeg)

	return mathutil.Vec3{
		X: radius * math.Cos(dec) * math.Cos(ra),
		Y: radius * math.Cos(dec) * math.Sin(ra),
		Z: radius * math.Sin(dec),
	}
}

// CartesianToCelestial is the inverse of CelestialToCartesian.
// Returns RA in hours [0,24) and Dec in degrees. The zero vector maps to (0,0).
func CartesianToCelestial(v mathutil.Vec3) (raHours, decDeg float64) {
	r := v.Norm()
	if r == 0 {
		return 0, 0
	}

	dec := math.Asin(clamp(v.Z/r, -1, 1))
	ra := math.Atan2(v.Y, v.X)
	if ra < 0 {
		ra += 2 * math.Pi
	}

	return mathutil.RadToDeg(ra) / 15, mathutil.RadToDeg(dec)
}

// HorizontalToVector converts Alt/Az (degrees) to a unit vector in the local
// horizon frame: +X east, +Y north, +Z up.
func HorizontalToVector(altDeg, azDeg float64) mathutil.Vec3 {
	alt := mathutil.DegToRad(altDeg)
	az := mathutil.DegToRad(azDeg)

	return mathutil.Vec3{
		X: math.Cos(alt) * math.Sin(az),
		Y: math.Cos(alt) * math.Cos(az),
		Z: math.Sin(alt),
	}
}

// AngularSeparationDeg returns the great-circle angle in degrees between two
// celestial positions given as RA (hours) and Dec (degrees).
func AngularSeparationDeg(ra1Hours, dec1Deg, ra2Hours, dec2Deg float64) float64 {
	v1 := CelestialToCartesian(ra1Hours, dec1Deg, 1)
	v2 := CelestialToCartesian(ra2Hours, dec2Deg, 1)
	return mathutil.RadToDeg(mathutil.AngleBetween(v1, v2))
}

// JulianDate calculates the Julian Date for a given time.
func JulianDate(t time.Time) float64 {
	t = t.UTC()

	y := float64(t.Year())
	m := float64(t.Month())
	d := float64(t.Day())

	h := float64(t.Hour())
	min := float64(t.Minute())
	sec := float64(t.Second())
	ns := float64(t.Nanosecond())

	dayFrac := (h + min/60 + sec/3600 + ns/3600e9) / 24.0

	// January and February count as months 13/14 of the previous year
	if m <= 2 {
		y--
		m += 12
	}

	// Gregorian calendar correction
	A := math.Floor(y / 100)
	B := 2 - A + math.Floor(A/4)

	jd := math.Floor(365.25*(y+4716)) +
		math.Floor(30.6001*(m+1)) +
		d + dayFrac + B - 1524.5

	return jd
}

// GreenwichMeanSiderealTime calculates GMST in degrees for a given UTC time.
// Uses the IAU 1982 formula based on Julian Date.
func GreenwichMeanSiderealTime(t time.Time) float64 {
	jd := JulianDate(t)

	// Julian centuries since J2000.0
	T := (jd - 2451545.0) / 36525.0

	gmst := 280.46061837 +
		360.98564736629*(jd-2451545.0) +
		0.000387933*T*T -
		T*T*T/38710000.0

	gmst = math.Mod(gmst, 360)
	if gmst < 0 {
		gmst += 360
	}

	return gmst
}

// LocalSiderealTime calculates LST in hours [0,24) for a UTC time and an
// observer longitude in degrees (east positive).
func LocalSiderealTime(t time.Time, lonDeg float64) float64 {
	lst := GreenwichMeanSiderealTime(t)/15 + lonDeg/15

	lst = math.Mod(lst, 24)
	if lst < 0 {
		lst += 24
	}

	return lst
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
