package arcs

import (
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jyotish-back/internal/astro"
	"github.com/jyotish-back/pkg/models"
)

// threeArcClassifier partitions the circle into three fixed bands.
type threeArcClassifier struct{}

func (threeArcClassifier) Classify(lonDeg float64) (string, error) {
	switch {
	case lonDeg < 120:
		return "Ari", nil
	case lonDeg < 240:
		return "Leo", nil
	default:
		return "Sgr", nil
	}
}

type failingClassifier struct{}

func (failingClassifier) Classify(lonDeg float64) (string, error) {
	return "", fmt.Errorf("resolver unavailable")
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestBuildThreeArcPartition(t *testing.T) {
	table := Build(threeArcClassifier{}, 0.5, "J2000", testLogger())

	got := table.Arcs()
	require.Len(t, got, 3)
	assert.Equal(t, "Ari", got[0].IAUCode)
	assert.Equal(t, 0.0, got[0].LonStartDeg)
	assert.Equal(t, 120.0, got[0].LonEndDeg)
	assert.Equal(t, "Leo", got[1].IAUCode)
	assert.Equal(t, "Sgr", got[2].IAUCode)
	assert.Equal(t, 360.0, got[2].LonEndDeg)

	require.NoError(t, Verify(got))
}

func TestBuildWithBandClassifier(t *testing.T) {
	table := Build(astro.NewBandClassifier(), 0.1, "J2000", testLogger())

	got := table.Arcs()
	require.NotEmpty(t, got)
	require.NoError(t, Verify(got))

	// the circle crosses 13 constellations, with Pisces split across the seam
	codes := map[string]bool{}
	for _, a := range got {
		codes[a.IAUCode] = true
	}
	assert.Len(t, codes, 13)
	assert.Equal(t, "Psc", got[0].IAUCode)
	assert.Equal(t, "Psc", got[len(got)-1].IAUCode)
}

func TestClassifyIsTotal(t *testing.T) {
	table := Build(threeArcClassifier{}, 1.0, "J2000", testLogger())

	for lon := -720.0; lon < 720.0; lon += 7.3 {
		code, name := table.Classify(lon)
		assert.NotEmpty(t, code, "lon=%v", lon)
		assert.NotEmpty(t, name, "lon=%v", lon)
	}
}

func TestClassifyHalfOpenBoundary(t *testing.T) {
	table := Build(threeArcClassifier{}, 1.0, "J2000", testLogger())

	// exactly at a start boundary: the arc beginning there wins
	code, _ := table.Classify(120.0)
	assert.Equal(t, "Leo", code)
	code, _ = table.Classify(119.9999)
	assert.Equal(t, "Ari", code)

	// seam boundary
	code, _ = table.Classify(0.0)
	assert.Equal(t, "Ari", code)
	code, _ = table.Classify(359.9999)
	assert.Equal(t, "Sgr", code)
}

func TestBuildFailureFallsBackToDirect(t *testing.T) {
	table := Build(failingClassifier{}, 1.0, "J2000", testLogger())
	assert.Empty(t, table.Arcs())

	// direct fallback also fails; Classify still must not panic
	code, name := table.Classify(45)
	assert.Empty(t, code)
	assert.Empty(t, name)
}

func TestRejectedPersistedTableFallsBackToDirect(t *testing.T) {
	bad := []models.ConstellationArc{
		{IAUCode: "Ari", LonStartDeg: 10, LonEndDeg: 200}, // does not start at 0
	}
	table := FromArcs(bad, threeArcClassifier{}, "J2000", testLogger())
	assert.Empty(t, table.Arcs())

	// direct classifier keeps classification total
	code, _ := table.Classify(300)
	assert.Equal(t, "Sgr", code)
}

func TestFromArcsRoundTrip(t *testing.T) {
	built := Build(threeArcClassifier{}, 1.0, "J2000", testLogger())
	restored := FromArcs(built.Arcs(), threeArcClassifier{}, "J2000", testLogger())
	assert.Equal(t, built.Arcs(), restored.Arcs())
}

func TestVerify(t *testing.T) {
	assert.Error(t, Verify(nil))
	assert.Error(t, Verify([]models.ConstellationArc{
		{IAUCode: "Ari", LonStartDeg: 0, LonEndDeg: 100},
		{IAUCode: "Leo", LonStartDeg: 120, LonEndDeg: 360}, // gap
	}))
	assert.NoError(t, Verify([]models.ConstellationArc{
		{IAUCode: "Ari", LonStartDeg: 0, LonEndDeg: 180},
		{IAUCode: "Leo", LonStartDeg: 180, LonEndDeg: 360},
	}))
}
