// Package houses derives Porphyry house cusps from the Ascendant and MC and
// places longitudes into houses. The house system is fixed; no alternative
// division methods are supported.
package houses

import (
	"github.com/jyotish-back/pkg/angle"
)

// Placement locates a longitude inside the cusp sequence.
type Placement struct {
	House    int     // 1..12
	Progress float64 // 0..1 inside the house interval
	WidthDeg float64 // interval width in degrees
}

// PorphyryCusps returns the unwrapped, strictly increasing 12-cusp sequence
// starting at the Ascendant. Each quadrant bounded by Asc/MC/Desc/IC is
// trisected into equal sub-arcs; the sequence spans exactly 360 degrees.
func PorphyryCusps(ascLonDeg, mcLonDeg float64) [12]float64 {
	a := angle.Normalize360(ascLonDeg)
	m := angle.Normalize360(mcLonDeg)
	d := angle.Normalize360(a + 180.0)
	ic := angle.Normalize360(m + 180.0)

	quadrants := [4]float64{
		angle.ForwardArc(a, m),
		angle.ForwardArc(m, d),
		angle.ForwardArc(d, ic),
		angle.ForwardArc(ic, a),
	}

	var cusps [12]float64
	cumul := a
	i := 0
	for _, q := range quadrants {
		step := q / 3.0
		for k := 0; k < 3; k++ {
			cusps[i] = cumul
			cumul += step
			i++
		}
	}
	return cusps
}

// PlaceInHouse unwraps lonDeg into the cusp cycle and finds the unique
// half-open interval [cusp[i], cusp[i+1]) containing it, with cusp[12]
// defined as cusp[0]+360. It is total: if no interval matches (defensive
// only), house 1 with zero progress is returned.
func PlaceInHouse(lonDeg float64, cusps [12]float64) Placement {
	lam := angle.WrapInto(cusps[0], angle.Normalize360(lonDeg))

	for i := 0; i < 12; i++ {
		a := cusps[i]
		var b float64
		if i < 11 {
			b = cusps[i+1]
		} else {
			b = cusps[0] + 360.0
		}
		if a <= lam && lam < b {
			width := b - a
			p := 0.0
			if width > 0 {
				p = (lam - a) / width
			}
			return Placement{House: i + 1, Progress: p, WidthDeg: width}
		}
	}

	firstWidth := cusps[1] - cusps[0]
	return Placement{House: 1, Progress: 0, WidthDeg: firstWidth}
}
