package astro

import "time"

// EclipticPosition is an apparent geocentric sky position expressed in
// ecliptic J2000 coordinates, degrees.
type EclipticPosition struct {
	LonDeg float64
	LatDeg float64
}

// EphemerisProvider returns apparent geocentric positions for the classical
// bodies at an instant. A body missing from the map means "unavailable", not
// an error; providers must be deterministic for a fixed instant.
type EphemerisProvider interface {
	Positions(t time.Time) (map[string]EclipticPosition, error)
}

// Projector projects zero-latitude ecliptic points into observer-local
// coordinates. All methods are pure functions of their inputs.
type Projector interface {
	// Horizontal returns altitude and azimuth (degrees, azimuth from north
	// through east) of the ecliptic point at longitude lonDeg.
	Horizontal(t time.Time, obs Observer, lonDeg float64) (altDeg, azDeg float64)
	// RightAscension returns the right ascension (degrees) of the ecliptic
	// point at longitude lonDeg.
	RightAscension(t time.Time, lonDeg float64) float64
	// SiderealTime returns local sidereal time in degrees.
	SiderealTime(t time.Time, lonDeg float64) float64
}

// EclipticClassifier resolves an ecliptic longitude (latitude 0) to an IAU
// constellation code. Implementations back the arc table build and the
// direct classification fallback.
type EclipticClassifier interface {
	Classify(lonDeg float64) (code string, err error)
}

// PointResolver is the high-fidelity classifier capability: spherical
// boundaries, full latitude handling. When available, its labels override
// the arc-based ones per body without touching house placement.
type PointResolver interface {
	ConstellationOf(body string, pos EclipticPosition) (code string, ok bool)
}

// FrameProjector is the default Projector built on the frame math in this
// package.
type FrameProjector struct{}

// Horizontal implements Projector.
func (FrameProjector) Horizontal(t time.Time, obs Observer, lonDeg float64) (float64, float64) {
	jd := JulianDay(t)
	ra, dec := EclipticToEquatorial(lonDeg, 0, MeanObliquity(jd))
	lst := LocalSiderealTime(t, obs.LonDeg)
	return EquatorialToHorizontal(ra, dec, lst, obs.LatDeg)
}

// RightAscension implements Projector.
func (FrameProjector) RightAscension(t time.Time, lonDeg float64) float64 {
	ra, _ := EclipticToEquatorial(lonDeg, 0, MeanObliquity(JulianDay(t)))
	return ra
}

// SiderealTime implements Projector.
func (FrameProjector) SiderealTime(t time.Time, lonDeg float64) float64 {
	return LocalSiderealTime(t, lonDeg)
}
