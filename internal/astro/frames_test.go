package astro

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJulianDayJ2000(t *testing.T) {
	j2000 := time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)
	assert.InDelta(t, 2451545.0, JulianDay(j2000), 1e-6)
}

func TestMeanObliquityJ2000(t *testing.T) {
	assert.InDelta(t, 23.4393, MeanObliquity(2451545.0), 1e-3)
}

func TestGMSTAtJ2000(t *testing.T) {
	// Standard value of GMST at the J2000 epoch.
	assert.InDelta(t, 280.46062, GMST(2451545.0), 1e-4)
}

func TestEclipticToEquatorial(t *testing.T) {
	obl := 23.4393

	// The vernal equinox point maps to the origin of both frames.
	ra, dec := EclipticToEquatorial(0, 0, obl)
	assert.InDelta(t, 0, ra, 1e-9)
	assert.InDelta(t, 0, dec, 1e-9)

	// The summer solstice point sits at RA 90 with declination +obliquity.
	ra, dec = EclipticToEquatorial(90, 0, obl)
	assert.InDelta(t, 90, ra, 1e-9)
	assert.InDelta(t, obl, dec, 1e-9)

	// Opposite point of the circle.
	ra, dec = EclipticToEquatorial(270, 0, obl)
	assert.InDelta(t, 270, ra, 1e-9)
	assert.InDelta(t, -obl, dec, 1e-9)
}

func TestEquatorialToHorizontal(t *testing.T) {
	// A body on the local meridian with declination equal to the observer's
	// latitude stands at the zenith.
	alt, _ := EquatorialToHorizontal(100, 45, 100, 45)
	assert.InDelta(t, 90, alt, 1e-9)

	// On the meridian south of the zenith the azimuth is 180.
	alt, az := EquatorialToHorizontal(100, 10, 100, 45)
	assert.InDelta(t, 55, alt, 1e-9)
	assert.InDelta(t, 180, az, 1e-9)

	// Six sidereal hours before culmination an equatorial body is rising
	// due east.
	alt, az = EquatorialToHorizontal(90, 0, 0, 45)
	assert.InDelta(t, 0, alt, 1e-9)
	assert.InDelta(t, 90, az, 1e-9)
}

func TestAnalyticEphemerisSunAtEquinox(t *testing.T) {
	eph := NewAnalyticEphemeris()
	pos, err := eph.Positions(time.Date(2000, 3, 20, 7, 35, 0, 0, time.UTC))
	require.NoError(t, err)

	sun, ok := pos[BodySun]
	require.True(t, ok)
	// Apparent solar longitude crosses 0 at the March equinox.
	d := sun.LonDeg
	if d > 180 {
		d -= 360
	}
	assert.InDelta(t, 0, d, 1.0)
	assert.InDelta(t, 0, sun.LatDeg, 0.01)
}

func TestAnalyticEphemerisCoversClassicalBodies(t *testing.T) {
	eph := NewAnalyticEphemeris()
	pos, err := eph.Positions(time.Date(1987, 2, 21, 18, 45, 0, 0, time.UTC))
	require.NoError(t, err)

	for _, body := range []string{BodySun, BodyMoon, BodyMercury, BodyVenus, BodyMars, BodyJupiter, BodySaturn} {
		p, ok := pos[body]
		require.True(t, ok, body)
		assert.GreaterOrEqual(t, p.LonDeg, 0.0, body)
		assert.Less(t, p.LonDeg, 360.0, body)
	}

	// The Moon never strays far from the ecliptic.
	assert.LessOrEqual(t, absf(pos[BodyMoon].LatDeg), 5.5)
}

func TestAnalyticEphemerisDeterministic(t *testing.T) {
	eph := NewAnalyticEphemeris()
	at := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	a, err := eph.Positions(at)
	require.NoError(t, err)
	b, err := eph.Positions(at)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
