package nodes

import (
	"fmt"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jyotish-back/pkg/angle"
	"github.com/jyotish-back/pkg/models"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func mustTime(t *testing.T, iso string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, iso)
	require.NoError(t, err)
	return ts.UTC()
}

func buildInterpolator(t *testing.T, records string) *Interpolator {
	t.Helper()
	ip, err := New([]byte(records), testLogger())
	require.NoError(t, err)
	return ip
}

const twoPointTable = `[
  {"datetime_iso": "2024-01-01T00:00:00+00:00", "node": "Rahu", "node_longitude": 100.0},
  {"datetime_iso": "2024-01-11T00:00:00+00:00", "node": "Rahu", "node_longitude": 99.5},
  {"datetime_iso": "2024-01-01T00:00:00+00:00", "node": "Ketu", "node_longitude": 280.0},
  {"datetime_iso": "2024-01-11T00:00:00+00:00", "node": "Ketu", "node_longitude": 279.5}
]`

func TestLongitudeAtTableTimestamps(t *testing.T) {
	ip := buildInterpolator(t, twoPointTable)

	lon, err := ip.LongitudeAt(models.NodeRahu, mustTime(t, "2024-01-01T00:00:00Z"))
	require.NoError(t, err)
	assert.InDelta(t, 100.0, lon, 1e-12)

	lon, err = ip.LongitudeAt(models.NodeRahu, mustTime(t, "2024-01-11T00:00:00Z"))
	require.NoError(t, err)
	assert.InDelta(t, 99.5, lon, 1e-12)
}

func TestLongitudeAtMidpoint(t *testing.T) {
	ip := buildInterpolator(t, twoPointTable)

	lon, err := ip.LongitudeAt(models.NodeRahu, mustTime(t, "2024-01-06T00:00:00Z"))
	require.NoError(t, err)
	assert.InDelta(t, 99.75, lon, 1e-9)
}

func TestLongitudeAtClampsOutsideSpan(t *testing.T) {
	ip := buildInterpolator(t, twoPointTable)

	lon, err := ip.LongitudeAt(models.NodeRahu, mustTime(t, "2020-06-01T00:00:00Z"))
	require.NoError(t, err)
	assert.InDelta(t, 100.0, lon, 1e-12)

	lon, err = ip.LongitudeAt(models.NodeRahu, mustTime(t, "2031-06-01T00:00:00Z"))
	require.NoError(t, err)
	assert.InDelta(t, 99.5, lon, 1e-12)
}

func TestLongitudeAtWrapsThroughZero(t *testing.T) {
	// regressing node passing through the 0/360 seam
	table := `[
	  {"datetime_iso": "2024-01-01T00:00:00+00:00", "node": "Rahu", "node_longitude": 2.0},
	  {"datetime_iso": "2024-01-11T00:00:00+00:00", "node": "Rahu", "node_longitude": 358.0}
	]`
	ip := buildInterpolator(t, table)

	lon, err := ip.LongitudeAt(models.NodeRahu, mustTime(t, "2024-01-06T00:00:00Z"))
	require.NoError(t, err)
	assert.InDelta(t, 0.0, lon, 1e-9)

	lon, err = ip.LongitudeAt(models.NodeRahu, mustTime(t, "2024-01-03T12:00:00Z"))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, lon, 1e-9)
}

func TestLongitudeAtUnknownNode(t *testing.T) {
	ip := buildInterpolator(t, twoPointTable)

	_, err := ip.LongitudeAt("Pluto", mustTime(t, "2024-01-06T00:00:00Z"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoObservations)
}

func TestLongitudeAtEmptyDataset(t *testing.T) {
	ip := buildInterpolator(t, `[]`)

	_, err := ip.LongitudeAt(models.NodeRahu, time.Now())
	assert.ErrorIs(t, err, ErrNoObservations)
}

func TestPairAntipodal(t *testing.T) {
	ip := buildInterpolator(t, twoPointTable)

	pair, err := ip.Pair(mustTime(t, "2024-01-06T00:00:00Z"))
	require.NoError(t, err)
	assert.InDelta(t, 99.75, pair.AscendingLon, 1e-9)
	assert.InDelta(t, 180.0, angle.Separation(pair.AscendingLon, pair.DescendingLon), 1e-9)
}

func TestPairFallsBackToKetuSeries(t *testing.T) {
	table := `[
	  {"datetime_iso": "2024-01-01T00:00:00+00:00", "node": "Ketu", "node_longitude": 280.0},
	  {"datetime_iso": "2024-01-11T00:00:00+00:00", "node": "Ketu", "node_longitude": 279.5}
	]`
	ip := buildInterpolator(t, table)

	pair, err := ip.Pair(mustTime(t, "2024-01-06T00:00:00Z"))
	require.NoError(t, err)
	assert.InDelta(t, 99.75, pair.AscendingLon, 1e-9)
	assert.InDelta(t, 279.75, pair.DescendingLon, 1e-9)
}

func TestSpeedAtFitsSegmentRate(t *testing.T) {
	ip := buildInterpolator(t, twoPointTable)

	// within one linear segment the fit recovers the segment slope exactly
	rate, samples := ip.SpeedAt(models.NodeRahu, mustTime(t, "2024-01-06T00:00:00Z"))
	assert.Equal(t, len(speedOffsetsDays), samples)
	assert.InDelta(t, -0.05, rate, 1e-9)
}

func TestSpeedAtFallsBackWhenStationary(t *testing.T) {
	table := `[
	  {"datetime_iso": "2024-01-01T00:00:00+00:00", "node": "Rahu", "node_longitude": 120.0},
	  {"datetime_iso": "2024-01-11T00:00:00+00:00", "node": "Rahu", "node_longitude": 120.0}
	]`
	ip := buildInterpolator(t, table)

	rate, samples := ip.SpeedAt(models.NodeRahu, mustTime(t, "2024-01-06T00:00:00Z"))
	assert.Equal(t, CanonicalNodeRate, rate)
	assert.Equal(t, len(speedOffsetsDays), samples)
}

func TestSpeedAtFallsBackOutsideSpan(t *testing.T) {
	ip := buildInterpolator(t, twoPointTable)

	rate, samples := ip.SpeedAt(models.NodeRahu, mustTime(t, "2031-06-01T00:00:00Z"))
	assert.Equal(t, CanonicalNodeRate, rate)
	assert.Less(t, samples, 2)
}

func TestSpeedAtWrapsThroughZero(t *testing.T) {
	table := `[
	  {"datetime_iso": "2024-01-01T00:00:00+00:00", "node": "Rahu", "node_longitude": 0.25},
	  {"datetime_iso": "2024-01-11T00:00:00+00:00", "node": "Rahu", "node_longitude": 359.75}
	]`
	ip := buildInterpolator(t, table)

	rate, _ := ip.SpeedAt(models.NodeRahu, mustTime(t, "2024-01-06T00:00:00Z"))
	assert.InDelta(t, -0.05, rate, 1e-9)
}

func TestEmbeddedDataset(t *testing.T) {
	ip, err := NewEmbedded(testLogger())
	require.NoError(t, err)
	assert.Greater(t, ip.Count(), 100)

	first, last, ok := ip.Span(models.NodeRahu)
	require.True(t, ok)
	assert.True(t, first.Before(last))

	mid := first.Add(last.Sub(first) / 2)
	pair, err := ip.Pair(mid)
	require.NoError(t, err)
	assert.InDelta(t, 180.0, angle.Separation(pair.AscendingLon, pair.DescendingLon), 1e-9)

	// nodes regress; the local rate near the span center is negative
	rate, samples := ip.SpeedAt(models.NodeRahu, mid)
	assert.Equal(t, len(speedOffsetsDays), samples)
	assert.Negative(t, rate)
	assert.InDelta(t, CanonicalNodeRate, rate, 0.05, fmt.Sprintf("rate=%v", rate))
}
