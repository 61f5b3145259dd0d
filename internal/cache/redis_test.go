package cache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jyotish-back/pkg/models"
)

func TestChartKeyDeterministic(t *testing.T) {
	req := &models.ChartRequest{
		DatetimeISO: "1987-02-21T15:45:00Z",
		Latitude:    55.75,
		Longitude:   37.62,
	}

	assert.Equal(t, ChartKey(req), ChartKey(req))
	assert.NotEmpty(t, ChartKey(req))
}

func TestChartKeyDistinguishesRequests(t *testing.T) {
	base := &models.ChartRequest{
		DatetimeISO: "1987-02-21T15:45:00Z",
		Latitude:    55.75,
		Longitude:   37.62,
	}
	shifted := &models.ChartRequest{
		DatetimeISO: "1987-02-21T15:45:00Z",
		Latitude:    55.75,
		Longitude:   37.63,
	}
	assert.NotEqual(t, ChartKey(base), ChartKey(shifted))

	// the node labeling override is part of the request identity
	desc := true
	overridden := *base
	overridden.RahuIsDescending = &desc
	assert.NotEqual(t, ChartKey(base), ChartKey(&overridden))
}

func TestChartKeyPatternCoversKeys(t *testing.T) {
	key := ChartKey(&models.ChartRequest{
		DatetimeISO: "2024-01-06T12:00:00Z",
		Latitude:    10,
		Longitude:   20,
	})

	matched, err := filepath.Match(ChartKeyPattern, key)
	require.NoError(t, err)
	assert.True(t, matched)

	// the arc table lives outside the chart namespace
	matched, err = filepath.Match(ChartKeyPattern, arcTableKey("J2000"))
	require.NoError(t, err)
	assert.False(t, matched)
}
