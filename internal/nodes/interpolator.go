// Package nodes derives lunar node longitudes by interpolating between
// eclipse-anchored reference observations. At each eclipse the Moon sits on
// a node, so the eclipse record pins the node longitude exactly; positions
// between eclipses follow by linear interpolation along the shortest arc.
package nodes

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"

	"github.com/jyotish-back/pkg/angle"
	"github.com/jyotish-back/pkg/models"
)

//go:embed data/eclipse_nodes.json
var eclipseNodesJSON []byte

const (
	// CanonicalNodeRate is the mean regression rate of the lunar node in
	// degrees per day, used when a local fit is unavailable or degenerate.
	CanonicalNodeRate = -0.0529539

	// MethodEclipseInterpolation identifies the computation method in traces.
	MethodEclipseInterpolation = "eclipse_interpolation"

	speedEps = 1e-4
)

// speedOffsetsDays are the sample offsets around the target instant used for
// the local rate fit.
var speedOffsetsDays = []float64{-3, -2, -1, -0.5, 0.5, 1, 2, 3}

// ErrNoObservations is returned when the dataset holds no usable records for
// the requested node.
var ErrNoObservations = errors.New("no eclipse observations available")

// Interpolator answers node longitude queries from a time-sorted eclipse
// observation table. The embedded dataset records the ascending node under
// the Rahu label and the antipodal point under Ketu.
type Interpolator struct {
	byNode map[string][]models.NodeObservation
	logger *logrus.Entry
}

// NewEmbedded builds an Interpolator from the dataset compiled into the
// binary.
func NewEmbedded(logger *logrus.Logger) (*Interpolator, error) {
	return New(eclipseNodesJSON, logger)
}

// New parses a JSON observation array and indexes it per node label.
func New(data []byte, logger *logrus.Logger) (*Interpolator, error) {
	var obs []models.NodeObservation
	if err := json.Unmarshal(data, &obs); err != nil {
		return nil, fmt.Errorf("parse eclipse dataset: %w", err)
	}

	byNode := make(map[string][]models.NodeObservation)
	for i := range obs {
		t, err := time.Parse(time.RFC3339, obs[i].DatetimeISO)
		if err != nil {
			return nil, fmt.Errorf("parse observation time %q: %w", obs[i].DatetimeISO, err)
		}
		obs[i].Time = t.UTC()
		byNode[obs[i].Node] = append(byNode[obs[i].Node], obs[i])
	}
	for node := range byNode {
		series := byNode[node]
		sort.Slice(series, func(i, j int) bool { return series[i].Time.Before(series[j].Time) })
	}

	entry := logger.WithField("component", "nodes")
	entry.WithFields(logrus.Fields{
		"observations": len(obs),
		"node_labels":  len(byNode),
	}).Info("Eclipse node dataset loaded")

	return &Interpolator{byNode: byNode, logger: entry}, nil
}

// Count returns the total number of observations across all node labels.
func (ip *Interpolator) Count() int {
	n := 0
	for _, series := range ip.byNode {
		n += len(series)
	}
	return n
}

// Span returns the covered time range for a node label.
func (ip *Interpolator) Span(node string) (first, last time.Time, ok bool) {
	series := ip.byNode[node]
	if len(series) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return series[0].Time, series[len(series)-1].Time, true
}

// LongitudeAt interpolates the node longitude at t. Instants before the
// first or after the last observation clamp to the boundary record.
func (ip *Interpolator) LongitudeAt(node string, t time.Time) (float64, error) {
	series := ip.byNode[node]
	if len(series) == 0 {
		return 0, fmt.Errorf("node %s: %w", node, ErrNoObservations)
	}

	t = t.UTC()
	if !t.After(series[0].Time) {
		return angle.Normalize360(series[0].NodeLongitude), nil
	}
	last := series[len(series)-1]
	if !t.Before(last.Time) {
		return angle.Normalize360(last.NodeLongitude), nil
	}

	// first record strictly after t; the segment start is the one before
	hi := sort.Search(len(series), func(i int) bool { return series[i].Time.After(t) })
	lo := hi - 1

	a, b := series[lo], series[hi]
	span := b.Time.Sub(a.Time).Seconds()
	if span <= 0 {
		return angle.Normalize360(a.NodeLongitude), nil
	}
	frac := t.Sub(a.Time).Seconds() / span

	// interpolate along the shortest arc so the segment never jumps across
	// the 0/360 seam
	delta := angle.SignedDelta(a.NodeLongitude, b.NodeLongitude)
	return angle.Normalize360(a.NodeLongitude + frac*delta), nil
}

// Pair returns the ascending and descending node longitudes at t. The
// descending node is held exactly antipodal to the ascending one.
func (ip *Interpolator) Pair(t time.Time) (models.NodePair, error) {
	asc, err := ip.LongitudeAt(models.NodeRahu, t)
	if err != nil {
		// some datasets carry only the Ketu series
		desc, kerr := ip.LongitudeAt(models.NodeKetu, t)
		if kerr != nil {
			return models.NodePair{}, err
		}
		asc = angle.Normalize360(desc + 180.0)
	}
	return models.NodePair{
		AscendingLon:  asc,
		DescendingLon: angle.Normalize360(asc + 180.0),
	}, nil
}

// SpeedAt estimates the node's angular rate near t in degrees per day by a
// least-squares fit over interpolated samples at fixed offsets. It returns
// the number of samples used; when fewer than two samples fall inside the
// dataset span, or the fitted rate is indistinguishable from zero, the
// canonical mean rate is used instead.
func (ip *Interpolator) SpeedAt(node string, t time.Time) (rate float64, samples int) {
	series := ip.byNode[node]
	if len(series) == 0 {
		return CanonicalNodeRate, 0
	}
	first := series[0].Time
	last := series[len(series)-1].Time

	var xs, ys []float64
	for _, off := range speedOffsetsDays {
		ts := t.UTC().Add(time.Duration(off * 24 * float64(time.Hour)))
		if ts.Before(first) || ts.After(last) {
			continue
		}
		lon, err := ip.LongitudeAt(node, ts)
		if err != nil {
			continue
		}
		xs = append(xs, off)
		ys = append(ys, lon)
	}
	if len(xs) < 2 {
		ip.logger.WithFields(logrus.Fields{
			"node":    node,
			"samples": len(xs),
		}).Debug("Node rate fit underdetermined, using canonical rate")
		return CanonicalNodeRate, len(xs)
	}

	_, slope := stat.LinearRegression(xs, angle.UnwrapPhases(ys), nil, false)
	if math.Abs(slope) < speedEps {
		return CanonicalNodeRate, len(xs)
	}
	return slope, len(xs)
}
