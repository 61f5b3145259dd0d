// Package angle provides wrap-aware arithmetic for ecliptic longitudes in
// degrees. Every function is pure and exact for inputs far outside [0,360).
package angle

import "math"

// Normalize360 reduces a longitude to [0,360).
func Normalize360(deg float64) float64 {
	m := math.Mod(deg, 360.0)
	if m < 0 {
		m += 360.0
	}
	// math.Mod can yield -0; fold it into the canonical zero
	if m == 0 {
		return 0
	}
	return m
}

// SignedDelta returns the shortest signed difference b-a in (-180,180].
func SignedDelta(a, b float64) float64 {
	d := math.Mod(b-a+180.0, 360.0)
	if d < 0 {
		d += 360.0
	}
	// b-a is an exact half turn; keep it on the closed end of the interval
	if d == 0 {
		return 180.0
	}
	return d - 180.0
}

// Separation returns the absolute angular distance between a and b in [0,180].
func Separation(a, b float64) float64 {
	return math.Abs(SignedDelta(a, b))
}

// ForwardArc returns the arc length walked forward (counter-clockwise)
// from a to b, in [0,360).
func ForwardArc(a, b float64) float64 {
	return Normalize360(b - a)
}

// UnwrapFrom shifts each value by whole turns so the sequence starting at
// base is strictly increasing. The input slice is not modified.
func UnwrapFrom(base float64, values []float64) []float64 {
	out := make([]float64, len(values))
	prev := base
	for i, v := range values {
		for v < prev {
			v += 360.0
		}
		for v >= prev+360.0 {
			v -= 360.0
		}
		out[i] = v
		prev = v
	}
	return out
}

// WrapInto brings deg into the single turn [base, base+360).
func WrapInto(base, deg float64) float64 {
	v := deg
	for v < base {
		v += 360.0
	}
	for v >= base+360.0 {
		v -= 360.0
	}
	return v
}

// UnwrapPhases shifts each successive longitude by whole turns so consecutive
// values never jump more than 180 degrees, turning a mod-360 series into a
// continuous phase suitable for rate fitting.
func UnwrapPhases(lons []float64) []float64 {
	out := make([]float64, len(lons))
	if len(lons) == 0 {
		return out
	}
	out[0] = lons[0]
	offset := 0.0
	for i := 1; i < len(lons); i++ {
		d := lons[i] - lons[i-1]
		if d > 180.0 {
			offset -= 360.0
		} else if d < -180.0 {
			offset += 360.0
		}
		out[i] = lons[i] + offset
	}
	return out
}
