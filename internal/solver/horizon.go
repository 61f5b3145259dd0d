// Package solver locates the ecliptic longitudes crossing the observer's
// horizon (Ascendant) and the local meridian (MC) by bracket-and-refine
// root finding over the periodic longitude domain. Every stage degrades to
// a deterministic fallback; the caller always receives a usable longitude.
package solver

import (
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jyotish-back/internal/astro"
	"github.com/jyotish-back/pkg/angle"
	"github.com/jyotish-back/pkg/config"
)

// Ascendant selection stages, recorded in the diagnostic trace.
const (
	StageAzimuthWindow = "azimuth_window"
	StageClosestTo90   = "closest_to_90"
	StageScanFallback  = "scan_fallback"
)

// AscendantResult is the solved rising point.
type AscendantResult struct {
	LonDeg float64
	AzDeg  float64
	Stage  string
}

// MCResult is the solved culminating point.
type MCResult struct {
	LonDeg       float64
	FallbackUsed bool
}

// Solver finds horizon and meridian crossings using a Projector capability.
type Solver struct {
	proj   astro.Projector
	cfg    *config.SolverConfig
	logger *logrus.Entry
}

// New creates a new solver.
func New(proj astro.Projector, cfg *config.SolverConfig, log *logrus.Logger) *Solver {
	return &Solver{
		proj:   proj,
		cfg:    cfg,
		logger: log.WithField("component", "solver"),
	}
}

// bracket is an adjacent-sample interval with a sign change (or exact zero).
type bracket struct {
	a, b float64
}

// collectBrackets scans [0,360] in stepDeg increments and returns the
// intervals where f changes sign, together with the sampled grid for the
// closest-to-zero fallback.
func collectBrackets(f func(float64) float64, stepDeg float64) ([]bracket, []float64, []float64) {
	n := int(math.Round(360.0/stepDeg)) + 1
	lons := make([]float64, n)
	vals := make([]float64, n)
	for i := 0; i < n; i++ {
		lons[i] = math.Min(float64(i)*stepDeg, 360.0)
		vals[i] = f(lons[i])
	}

	var brs []bracket
	for i := 0; i < n-1; i++ {
		a, b := vals[i], vals[i+1]
		switch {
		case a == 0:
			brs = append(brs, bracket{lons[i], lons[i]})
		case a*b < 0:
			brs = append(brs, bracket{lons[i], lons[i+1]})
		}
	}
	return brs, lons, vals
}

// Ascendant solves for the ecliptic longitude rising on the eastern horizon.
func (s *Solver) Ascendant(t time.Time, obs astro.Observer) AscendantResult {
	altCache := make(map[float64]float64)
	altAt := func(lonDeg float64) float64 {
		key := math.Round(angle.Normalize360(lonDeg)*1e6) / 1e6
		if v, ok := altCache[key]; ok {
			return v
		}
		alt, _ := s.proj.Horizontal(t, obs, lonDeg)
		altCache[key] = alt
		return alt
	}
	azAt := func(lonDeg float64) float64 {
		_, az := s.proj.Horizontal(t, obs, lonDeg)
		return az
	}

	brs, lons, alts := collectBrackets(altAt, s.cfg.CoarseStepDeg)
	if len(brs) == 0 {
		// finer retry when the coarse scan missed the crossing
		brs, lons, alts = collectBrackets(altAt, s.cfg.FineStepDeg)
	}

	type rootAz struct {
		lon float64
		az  float64
	}
	var roots []rootAz
	for _, br := range brs {
		var root float64
		if br.a == br.b {
			root = br.a
		} else {
			root = refineBracket(altAt, br.a, br.b, s.cfg.RootTolerance, s.cfg.MaxIterations)
		}
		roots = append(roots, rootAz{
			lon: angle.Normalize360(root),
			az:  angle.Normalize360(azAt(root)),
		})
	}

	// prefer roots rising in the eastern window
	var candidates []rootAz
	for _, r := range roots {
		if r.az >= 60.0 && r.az <= 120.0 {
			candidates = append(candidates, r)
		}
	}
	stage := StageAzimuthWindow

	if len(candidates) == 0 && len(roots) > 0 {
		// fall back to the root with azimuth closest to due east
		best := roots[0]
		for _, r := range roots[1:] {
			if angle.Separation(r.az, 90.0) < angle.Separation(best.az, 90.0) {
				best = r
			}
		}
		candidates = []rootAz{best}
		stage = StageClosestTo90
	}

	if len(candidates) > 0 {
		return AscendantResult{LonDeg: candidates[0].lon, AzDeg: candidates[0].az, Stage: stage}
	}

	// no root at all: take the scan sample with altitude closest to zero
	idx := 0
	for i := range alts {
		if math.Abs(alts[i]) < math.Abs(alts[idx]) {
			idx = i
		}
	}
	lon := angle.Normalize360(lons[idx])
	s.logger.WithField("lon", lon).Warn("No horizon crossing found, using closest-to-zero altitude sample")
	return AscendantResult{LonDeg: lon, AzDeg: angle.Normalize360(azAt(lon)), Stage: StageScanFallback}
}
