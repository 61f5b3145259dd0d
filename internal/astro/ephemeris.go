package astro

import (
	"math"
	"time"

	"github.com/jyotish-back/pkg/angle"
)

// Body names as used across the pipeline.
const (
	BodySun     = "Sun"
	BodyMoon    = "Moon"
	BodyMercury = "Mercury"
	BodyVenus   = "Venus"
	BodyMars    = "Mars"
	BodyJupiter = "Jupiter"
	BodySaturn  = "Saturn"
	BodyUranus  = "Uranus"
	BodyNeptune = "Neptune"
)

// meanElements holds Keplerian mean elements at J2000 plus per-century
// rates (JPL approximate planetary elements, 1800 AD – 2050 AD fit).
// Angles in degrees, semi-major axis in au, referenced to the mean ecliptic
// and equinox of J2000.
type meanElements struct {
	a, aDot   float64 // semi-major axis
	e, eDot   float64 // eccentricity
	i, iDot   float64 // inclination
	l, lDot   float64 // mean longitude
	lp, lpDot float64 // longitude of perihelion
	om, omDot float64 // longitude of ascending node
}

var planetElements = map[string]meanElements{
	BodyMercury: {0.38709927, 0.00000037, 0.20563593, 0.00001906, 7.00497902, -0.00594749,
		252.25032350, 149472.67411175, 77.45779628, 0.16047689, 48.33076593, -0.12534081},
	BodyVenus: {0.72333566, 0.00000390, 0.00677672, -0.00004107, 3.39467605, -0.00078890,
		181.97909950, 58517.81538729, 131.60246718, 0.00268329, 76.67984255, -0.27769418},
	// Earth-Moon barycenter; used for the observer and, negated, the Sun.
	"EM": {1.00000261, 0.00000562, 0.01671123, -0.00004392, -0.00001531, -0.01294668,
		100.46457166, 35999.37244981, 102.93768193, 0.32327364, 0.0, 0.0},
	BodyMars: {1.52371034, 0.00001847, 0.09339410, 0.00007882, 1.84969142, -0.00813131,
		-4.55343205, 19140.30268499, -23.94362959, 0.44441088, 49.55953891, -0.29257343},
	BodyJupiter: {5.20288700, -0.00011607, 0.04838624, -0.00013253, 1.30439695, -0.00183714,
		34.39644051, 3034.74612775, 14.72847983, 0.21252668, 100.47390909, 0.20469106},
	BodySaturn: {9.53667594, -0.00125060, 0.05386179, -0.00050991, 2.48599187, 0.00193609,
		49.95424423, 1222.49362201, 92.59887831, -0.41897216, 113.66242448, -0.28867794},
	BodyUranus: {19.18916464, -0.00196176, 0.04725744, -0.00004397, 0.77263783, -0.00242939,
		313.23810451, 428.48202785, 170.95427630, 0.40805281, 74.01692503, 0.04240589},
	BodyNeptune: {30.06992276, 0.00026291, 0.00859048, 0.00005105, 1.77004347, 0.00035372,
		-55.12002969, 218.45945325, 44.96476227, -0.32241464, 131.78422574, -0.00508664},
}

// AnalyticEphemeris is the built-in EphemerisProvider: Keplerian mean
// elements for the planets and a truncated lunar series. Accuracy is on the
// order of arcminutes, which keeps every body well inside its constellation
// arc except within a sliver of the true boundaries.
type AnalyticEphemeris struct{}

// NewAnalyticEphemeris creates the default ephemeris provider.
func NewAnalyticEphemeris() *AnalyticEphemeris {
	return &AnalyticEphemeris{}
}

// Positions implements EphemerisProvider. The returned map covers every
// classical body plus Uranus and Neptune; it never fails for the analytic
// provider, but callers must tolerate missing bodies from other providers.
func (e *AnalyticEphemeris) Positions(t time.Time) (map[string]EclipticPosition, error) {
	tc := julianCenturies(JulianDay(t))

	earth := heliocentricPosition(planetElements["EM"], tc)

	out := make(map[string]EclipticPosition, 9)

	// The Sun is the anti-direction of the observer's heliocentric position.
	out[BodySun] = rectToEcliptic(vec3{-earth.x, -earth.y, -earth.z})
	out[BodyMoon] = lunarPosition(tc)

	for _, body := range []string{BodyMercury, BodyVenus, BodyMars, BodyJupiter, BodySaturn, BodyUranus, BodyNeptune} {
		p := heliocentricPosition(planetElements[body], tc)
		out[body] = rectToEcliptic(vec3{p.x - earth.x, p.y - earth.y, p.z - earth.z})
	}

	return out, nil
}

type vec3 struct{ x, y, z float64 }

// heliocentricPosition evaluates mean elements at tc Julian centuries past
// J2000 and returns the heliocentric ecliptic J2000 position in au.
func heliocentricPosition(el meanElements, tc float64) vec3 {
	a := el.a + el.aDot*tc
	ec := el.e + el.eDot*tc
	inc := (el.i + el.iDot*tc) * degToRad
	l := el.l + el.lDot*tc
	lp := el.lp + el.lpDot*tc
	om := (el.om + el.omDot*tc) * degToRad

	// argument of perihelion and mean anomaly
	w := (lp*degToRad - om)
	m := angle.Normalize360(l-lp) * degToRad

	ea := solveKepler(m, ec)

	// position in the orbital plane
	xp := a * (math.Cos(ea) - ec)
	yp := a * math.Sqrt(1-ec*ec) * math.Sin(ea)

	cosW, sinW := math.Cos(w), math.Sin(w)
	cosOm, sinOm := math.Cos(om), math.Sin(om)
	cosI, sinI := math.Cos(inc), math.Sin(inc)

	x := (cosW*cosOm-sinW*sinOm*cosI)*xp + (-sinW*cosOm-cosW*sinOm*cosI)*yp
	y := (cosW*sinOm+sinW*cosOm*cosI)*xp + (-sinW*sinOm+cosW*cosOm*cosI)*yp
	z := (sinW*sinI)*xp + (cosW*sinI)*yp

	return vec3{x, y, z}
}

// solveKepler solves E - e*sinE = M by Newton iteration.
func solveKepler(m, ec float64) float64 {
	ea := m
	if ec > 0.8 {
		ea = math.Pi
	}
	for i := 0; i < 30; i++ {
		d := (ea - ec*math.Sin(ea) - m) / (1 - ec*math.Cos(ea))
		ea -= d
		if math.Abs(d) < 1e-12 {
			break
		}
	}
	return ea
}

// rectToEcliptic converts a rectangular ecliptic vector to spherical
// longitude/latitude in degrees.
func rectToEcliptic(v vec3) EclipticPosition {
	lon := math.Atan2(v.y, v.x) * radToDeg
	r := math.Sqrt(v.x*v.x + v.y*v.y)
	lat := math.Atan2(v.z, r) * radToDeg
	return EclipticPosition{LonDeg: angle.Normalize360(lon), LatDeg: lat}
}

// lunarPosition returns the Moon's geocentric ecliptic position from the
// principal terms of the lunar theory. Arguments follow the standard mean
// element polynomials; coefficients are in degrees.
func lunarPosition(tc float64) EclipticPosition {
	lp := 218.3164477 + 481267.88123421*tc // mean longitude
	d := 297.8501921 + 445267.1114034*tc   // mean elongation
	ms := 357.5291092 + 35999.0502909*tc   // Sun mean anomaly
	mm := 134.9633964 + 477198.8675055*tc  // Moon mean anomaly
	f := 93.2720950 + 483202.0175233*tc    // argument of latitude

	sin := func(deg float64) float64 { return math.Sin(deg * degToRad) }

	lon := lp +
		6.288774*sin(mm) +
		1.274027*sin(2*d-mm) +
		0.658314*sin(2*d) +
		0.213618*sin(2*mm) -
		0.185116*sin(ms) -
		0.114332*sin(2*f) +
		0.058793*sin(2*d-2*mm) +
		0.057066*sin(2*d-ms-mm) +
		0.053322*sin(2*d+mm) +
		0.045758*sin(2*d-ms) -
		0.040923*sin(ms-mm) -
		0.034720*sin(d) -
		0.030383*sin(ms+mm)

	lat := 5.128122*sin(f) +
		0.280602*sin(mm+f) +
		0.277693*sin(mm-f) +
		0.173237*sin(2*d-f) +
		0.055413*sin(2*d+f-mm) +
		0.046271*sin(2*d-f-mm)

	return EclipticPosition{LonDeg: angle.Normalize360(lon), LatDeg: lat}
}
