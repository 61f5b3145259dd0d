package astro

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBandClassifierKnownLongitudes(t *testing.T) {
	c := NewBandClassifier()

	tests := []struct {
		lon  float64
		want string
	}{
		{0, "Psc"},
		{15, "Psc"},
		{35, "Ari"},
		{60, "Tau"},
		{100, "Gem"},
		{120, "Cnc"},
		{150, "Leo"},
		{200, "Vir"},
		{230, "Lib"},
		{245, "Sco"},
		{250, "Oph"},
		{280, "Sgr"},
		{310, "Cap"},
		{340, "Aqr"},
		{355, "Psc"},
	}
	for _, tt := range tests {
		got, err := c.Classify(tt.lon)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "lon=%v", tt.lon)
	}
}

func TestBandClassifierHalfOpenBoundaries(t *testing.T) {
	c := NewBandClassifier()

	// A longitude exactly at an entry crossing belongs to the entered
	// constellation, not the preceding one.
	got, err := c.Classify(29.09)
	require.NoError(t, err)
	assert.Equal(t, "Ari", got)

	got, err = c.Classify(29.0899)
	require.NoError(t, err)
	assert.Equal(t, "Psc", got)

	got, err = c.Classify(248.06)
	require.NoError(t, err)
	assert.Equal(t, "Oph", got)
}

func TestBandClassifierPeriodic(t *testing.T) {
	c := NewBandClassifier()
	a, err := c.Classify(100)
	require.NoError(t, err)
	b, err := c.Classify(100 + 720)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestLocalizedName(t *testing.T) {
	assert.Equal(t, "Овен", LocalizedName("Ari"))
	assert.Equal(t, "Змееносец", LocalizedName("Oph"))
	assert.Equal(t, "Xyz", LocalizedName("Xyz"))
}
