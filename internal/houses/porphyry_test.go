package houses

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jyotish-back/pkg/angle"
)

func TestPorphyryCuspsQuadrantBoundaries(t *testing.T) {
	asc, mc := 163.3, 253.3
	cusps := PorphyryCusps(asc, mc)

	assert.InDelta(t, asc, cusps[0], 1e-9)
	assert.InDelta(t, mc, angle.Normalize360(cusps[3]), 1e-9)
	assert.InDelta(t, angle.Normalize360(asc+180), angle.Normalize360(cusps[6]), 1e-9)
	assert.InDelta(t, angle.Normalize360(mc+180), angle.Normalize360(cusps[9]), 1e-9)
}

func TestPorphyryCuspsSpanFullCircle(t *testing.T) {
	cases := [][2]float64{
		{163.3, 253.3},
		{0, 90},
		{350, 60},
		{10, 100.5},
		{300, 50},
		{359.99, 89.99},
	}
	for _, c := range cases {
		cusps := PorphyryCusps(c[0], c[1])

		// strictly increasing
		for i := 1; i < 12; i++ {
			assert.Greater(t, cusps[i], cusps[i-1], "asc=%v mc=%v i=%d", c[0], c[1], i)
		}

		// wrapped consecutive differences sum to exactly one turn
		total := 0.0
		for i := 0; i < 12; i++ {
			next := cusps[0] + 360.0
			if i < 11 {
				next = cusps[i+1]
			}
			total += next - cusps[i]
		}
		assert.InDelta(t, 360.0, total, 1e-9, "asc=%v mc=%v", c[0], c[1])
	}
}

func TestPorphyryTrisectionIsEqualWithinQuadrant(t *testing.T) {
	cusps := PorphyryCusps(10, 115)

	q1 := angle.ForwardArc(10, 115)
	assert.InDelta(t, q1/3, cusps[1]-cusps[0], 1e-9)
	assert.InDelta(t, q1/3, cusps[2]-cusps[1], 1e-9)
	assert.InDelta(t, q1/3, cusps[3]-cusps[2], 1e-9)
}

func TestPlaceInHouseIsTotal(t *testing.T) {
	cusps := PorphyryCusps(163.3, 253.3)

	for lon := 0.0; lon < 360.0; lon += 0.37 {
		p := PlaceInHouse(lon, cusps)
		require.GreaterOrEqual(t, p.House, 1, "lon=%v", lon)
		require.LessOrEqual(t, p.House, 12, "lon=%v", lon)
		require.GreaterOrEqual(t, p.Progress, 0.0, "lon=%v", lon)
		require.Less(t, p.Progress, 1.0, "lon=%v", lon)
	}
}

func TestPlaceInHouseCuspBoundaries(t *testing.T) {
	cusps := PorphyryCusps(100, 190)

	// exactly on the first cusp: house 1, progress 0
	p := PlaceInHouse(100, cusps)
	assert.Equal(t, 1, p.House)
	assert.InDelta(t, 0, p.Progress, 1e-12)

	// exactly on the fourth cusp (the MC): house 4 starts there
	p = PlaceInHouse(angle.Normalize360(cusps[3]), cusps)
	assert.Equal(t, 4, p.House)
	assert.InDelta(t, 0, p.Progress, 1e-9)

	// a longitude just before the seam lands in the last house
	p = PlaceInHouse(99.9999, cusps)
	assert.Equal(t, 12, p.House)
}

func TestPlaceInHouseUniqueAssignment(t *testing.T) {
	cusps := PorphyryCusps(350, 80)
	counts := make(map[int]int)
	for lon := 0.0; lon < 360.0; lon += 1.0 {
		counts[PlaceInHouse(lon, cusps).House]++
	}
	// every house receives some longitudes
	for h := 1; h <= 12; h++ {
		assert.Greater(t, counts[h], 0, "house %d", h)
	}
}

func TestPlaceInHouseFarOutOfRangeInput(t *testing.T) {
	cusps := PorphyryCusps(0, 90)
	a := PlaceInHouse(45, cusps)
	b := PlaceInHouse(45+720, cusps)
	c := PlaceInHouse(45-1080, cusps)
	assert.Equal(t, a, b)
	assert.Equal(t, a, c)
}
