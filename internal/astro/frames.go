// Package astro provides the coordinate-frame and ephemeris capabilities the
// chart pipeline consumes: Julian dates, sidereal time, ecliptic/equatorial/
// horizontal transforms, an analytic planetary ephemeris and a constellation
// classifier for ecliptic points. Consumers depend on the interfaces in
// capability.go; everything here is a pure function of its inputs.
package astro

import (
	"math"
	"time"

	"github.com/jyotish-back/pkg/angle"
)

const (
	degToRad = math.Pi / 180.0
	radToDeg = 180.0 / math.Pi

	// J2000 reference epoch as a Julian date.
	jdJ2000 = 2451545.0
)

// Observer is a geographic location on Earth.
type Observer struct {
	LatDeg     float64
	LonDeg     float64 // east-positive
	ElevationM float64
}

// JulianDay converts a UTC instant to a Julian date.
func JulianDay(t time.Time) float64 {
	sec := float64(t.Unix()) + float64(t.Nanosecond())/1e9
	return 2440587.5 + sec/86400.0
}

// julianCenturies returns Julian centuries since J2000 for a Julian date.
func julianCenturies(jd float64) float64 {
	return (jd - jdJ2000) / 36525.0
}

// MeanObliquity returns the mean obliquity of the ecliptic in degrees.
func MeanObliquity(jd float64) float64 {
	t := julianCenturies(jd)
	return 23.43929111 - 0.01300417*t - 1.64e-7*t*t + 5.04e-7*t*t*t
}

// GMST returns Greenwich mean sidereal time in degrees for a Julian date.
func GMST(jd float64) float64 {
	t := julianCenturies(jd)
	gmst := 280.46061837 +
		360.98564736629*(jd-jdJ2000) +
		0.000387933*t*t -
		t*t*t/38710000.0
	return angle.Normalize360(gmst)
}

// LocalSiderealTime returns local mean sidereal time in degrees at an
// east-positive longitude.
func LocalSiderealTime(t time.Time, lonDeg float64) float64 {
	return angle.Normalize360(GMST(JulianDay(t)) + lonDeg)
}

// EclipticToEquatorial converts ecliptic J2000 longitude/latitude to right
// ascension and declination, all in degrees.
func EclipticToEquatorial(lonDeg, latDeg, obliquityDeg float64) (raDeg, decDeg float64) {
	lam := lonDeg * degToRad
	beta := latDeg * degToRad
	eps := obliquityDeg * degToRad

	sinDec := math.Sin(beta)*math.Cos(eps) + math.Cos(beta)*math.Sin(eps)*math.Sin(lam)
	dec := math.Asin(sinDec)

	y := math.Sin(lam)*math.Cos(eps)*math.Cos(beta) - math.Sin(beta)*math.Sin(eps)
	x := math.Cos(lam) * math.Cos(beta)
	ra := math.Atan2(y, x)

	return angle.Normalize360(ra * radToDeg), dec * radToDeg
}

// EquatorialToHorizontal converts right ascension and declination to
// altitude/azimuth for an observer. Azimuth is measured from north through
// east; all angles in degrees.
func EquatorialToHorizontal(raDeg, decDeg, lstDeg, latDeg float64) (altDeg, azDeg float64) {
	h := angle.Normalize360(lstDeg-raDeg) * degToRad
	dec := decDeg * degToRad
	lat := latDeg * degToRad

	sinAlt := math.Sin(lat)*math.Sin(dec) + math.Cos(lat)*math.Cos(dec)*math.Cos(h)
	alt := math.Asin(sinAlt)

	y := -math.Sin(h) * math.Cos(dec)
	x := math.Sin(dec)*math.Cos(lat) - math.Cos(dec)*math.Sin(lat)*math.Cos(h)
	az := math.Atan2(y, x)

	return alt * radToDeg, angle.Normalize360(az * radToDeg)
}
