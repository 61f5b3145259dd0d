package solver

import (
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jyotish-back/internal/astro"
	"github.com/jyotish-back/pkg/angle"
)

// mcAscTolerance bounds how far from quadrature (90 degrees) the solved MC
// may sit relative to the Ascendant before the Asc+90 fallback applies.
const mcAscTolerance = 30.0

// MC solves for the culminating ecliptic longitude: the root of
// signedDelta(RA(lambda), LST). When no root is found, or the best root is
// not roughly a quadrant away from the Ascendant, it falls back to Asc+90.
func (s *Solver) MC(t time.Time, obs astro.Observer, ascLonDeg float64) MCResult {
	lst := s.proj.SiderealTime(t, obs.LonDeg)
	f := func(lonDeg float64) float64 {
		return angle.SignedDelta(lst, s.proj.RightAscension(t, lonDeg))
	}

	brs, _, _ := collectBrackets(f, s.cfg.FineStepDeg)

	var roots []float64
	for _, br := range brs {
		if br.a == br.b {
			roots = append(roots, br.a)
			continue
		}
		roots = append(roots, refineBracket(f, br.a, br.b, s.cfg.RootTolerance, s.cfg.MaxIterations+60))
	}

	if len(roots) == 0 {
		s.logger.Warn("No meridian crossing found, falling back to Ascendant+90")
		return MCResult{LonDeg: angle.Normalize360(ascLonDeg + 90.0), FallbackUsed: true}
	}

	best := roots[0]
	for _, r := range roots[1:] {
		if math.Abs(f(r)) < math.Abs(f(best)) {
			best = r
		}
	}
	best = angle.Normalize360(best)

	// Porphyry quadrants require the MC roughly one forward quadrant from
	// the Ascendant; the check is directional, otherwise the cusp sequence
	// could not span a single turn.
	if math.Abs(angle.ForwardArc(ascLonDeg, best)-90.0) > mcAscTolerance {
		s.logger.WithFields(logrus.Fields{
			"mc":  best,
			"asc": ascLonDeg,
		}).Warn("Solved MC not near quadrature with Ascendant, falling back to Ascendant+90")
		return MCResult{LonDeg: angle.Normalize360(ascLonDeg + 90.0), FallbackUsed: true}
	}

	return MCResult{LonDeg: best, FallbackUsed: false}
}
