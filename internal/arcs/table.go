// Package arcs maintains the constellation arc table: a gap-free, ordered
// partition of the ecliptic circle into named IAU constellation intervals.
// The table is built once per process by sampling a classifier capability
// and is read-only afterwards.
package arcs

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/jyotish-back/internal/astro"
	"github.com/jyotish-back/pkg/angle"
	"github.com/jyotish-back/pkg/models"
)

// Table is the process-lifetime arc partition plus the direct classifier
// used as fallback when a longitude misses every arc.
type Table struct {
	arcs       []models.ConstellationArc
	classifier astro.EclipticClassifier
	epoch      string
	logger     *logrus.Entry
}

// Build samples the ecliptic at stepDeg intervals, collapses runs of equal
// classification into arcs and returns the resulting table. Build never
// fails: if the classifier errors, the table is left empty and Classify
// degrades to calling the classifier directly per point.
func Build(classifier astro.EclipticClassifier, stepDeg float64, epoch string, log *logrus.Logger) *Table {
	t := &Table{
		classifier: classifier,
		epoch:      epoch,
		logger:     log.WithField("component", "arcs"),
	}

	if stepDeg <= 0 {
		stepDeg = 0.1
	}

	built, err := sampleArcs(classifier, stepDeg)
	if err != nil {
		t.logger.WithError(err).Warn("Arc table build failed, classification falls back to direct resolver")
		return t
	}
	if err := Verify(built); err != nil {
		t.logger.WithError(err).Warn("Arc table failed verification, classification falls back to direct resolver")
		return t
	}

	t.arcs = built
	t.logger.WithFields(logrus.Fields{"arcs": len(built), "epoch": epoch}).Info("Constellation arc table ready")
	return t
}

// FromArcs wraps a previously persisted arc set. Invalid input yields an
// empty table with direct-classifier fallback, mirroring Build.
func FromArcs(persisted []models.ConstellationArc, classifier astro.EclipticClassifier, epoch string, log *logrus.Logger) *Table {
	t := &Table{
		classifier: classifier,
		epoch:      epoch,
		logger:     log.WithField("component", "arcs"),
	}

	if err := Verify(persisted); err != nil {
		t.logger.WithError(err).Warn("Persisted arc table rejected")
		return t
	}

	t.arcs = persisted
	return t
}

// sampleArcs walks the circle and collapses consecutive equal
// classifications into half-open arcs.
func sampleArcs(classifier astro.EclipticClassifier, stepDeg float64) ([]models.ConstellationArc, error) {
	if classifier == nil {
		return nil, fmt.Errorf("no classifier available")
	}

	var arcsOut []models.ConstellationArc

	current, err := classifier.Classify(0)
	if err != nil {
		return nil, fmt.Errorf("classify 0: %w", err)
	}
	start := 0.0

	steps := int(360.0 / stepDeg)
	for i := 1; i < steps; i++ {
		lon := float64(i) * stepDeg
		code, err := classifier.Classify(lon)
		if err != nil {
			return nil, fmt.Errorf("classify %.3f: %w", lon, err)
		}
		if code != current {
			arcsOut = append(arcsOut, models.ConstellationArc{
				IAUCode:     current,
				IAUName:     astro.LocalizedName(current),
				LonStartDeg: start,
				LonEndDeg:   lon,
			})
			start = lon
			current = code
		}
	}

	// close the final arc at exactly 360
	arcsOut = append(arcsOut, models.ConstellationArc{
		IAUCode:     current,
		IAUName:     astro.LocalizedName(current),
		LonStartDeg: start,
		LonEndDeg:   360.0,
	})

	return arcsOut, nil
}

// Verify checks that arcs form a contiguous partition of [0,360).
func Verify(arcsIn []models.ConstellationArc) error {
	if len(arcsIn) == 0 {
		return fmt.Errorf("empty arc set")
	}
	if arcsIn[0].LonStartDeg != 0 {
		return fmt.Errorf("first arc starts at %f, want 0", arcsIn[0].LonStartDeg)
	}
	total := 0.0
	for i, a := range arcsIn {
		if a.LonEndDeg <= a.LonStartDeg {
			return fmt.Errorf("arc %d (%s) is not increasing", i, a.IAUCode)
		}
		if i > 0 && a.LonStartDeg != arcsIn[i-1].LonEndDeg {
			return fmt.Errorf("gap before arc %d (%s)", i, a.IAUCode)
		}
		total += a.LonEndDeg - a.LonStartDeg
	}
	if diff := total - 360.0; diff > 1e-9 || diff < -1e-9 {
		return fmt.Errorf("arcs cover %.9f degrees, want 360", total)
	}
	return nil
}

// Arcs returns the partition; empty when the build failed.
func (t *Table) Arcs() []models.ConstellationArc {
	return t.arcs
}

// Epoch returns the reference epoch keying this table.
func (t *Table) Epoch() string {
	return t.epoch
}

// ArcFor returns the arc containing lonDeg. The second result is false when
// the table is empty or (defensively) no arc matches.
func (t *Table) ArcFor(lonDeg float64) (models.ConstellationArc, bool) {
	lon := angle.Normalize360(lonDeg)
	for _, a := range t.arcs {
		if a.Contains(lon) {
			return a, true
		}
	}
	return models.ConstellationArc{}, false
}

// Classify resolves a longitude to an IAU code and localized name. It is
// total: on an arc miss it invokes the direct classifier, and on classifier
// failure it returns empty labels rather than an error.
func (t *Table) Classify(lonDeg float64) (code, name string) {
	if a, ok := t.ArcFor(lonDeg); ok {
		return a.IAUCode, a.IAUName
	}

	if t.classifier == nil {
		return "", ""
	}
	code, err := t.classifier.Classify(angle.Normalize360(lonDeg))
	if err != nil {
		t.logger.WithError(err).WithField("lon", lonDeg).Debug("Direct classification failed")
		return "", ""
	}
	return code, astro.LocalizedName(code)
}
