package models

// ConstellationArc is one half-open interval [LonStartDeg, LonEndDeg) of the
// ecliptic classified under a single IAU constellation. The full arc set
// partitions [0,360) with no gaps or overlaps.
type ConstellationArc struct {
	IAUCode     string  `json:"iau_code"`
	IAUName     string  `json:"iau_name_ru"`
	LonStartDeg float64 `json:"lon_start_deg"`
	LonEndDeg   float64 `json:"lon_end_deg"`
}

// Width returns the forward arc length in degrees.
func (a ConstellationArc) Width() float64 {
	w := a.LonEndDeg - a.LonStartDeg
	for w < 0 {
		w += 360.0
	}
	return w
}

// Midpoint returns the longitude of the arc center in [0,360).
func (a ConstellationArc) Midpoint() float64 {
	m := a.LonStartDeg + a.Width()/2
	for m >= 360.0 {
		m -= 360.0
	}
	return m
}

// Contains reports whether lon (already normalized to [0,360)) falls inside
// the half-open interval, honoring circular wraparound.
func (a ConstellationArc) Contains(lon float64) bool {
	start := a.LonStartDeg
	end := a.LonEndDeg
	if start <= end {
		return lon >= start && lon < end
	}
	return lon >= start || lon < end
}
