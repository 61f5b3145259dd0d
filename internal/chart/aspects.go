package chart

import "github.com/jyotish-back/pkg/models"

// drishtiOffsets lists the house offsets (0-indexed, counted from the
// planet's own house) each body casts aspects to. Rahu and Ketu follow the
// Purushottama school. Bodies not listed cast only the full seventh-house
// aspect.
var drishtiOffsets = map[string][]int{
	AbbrSun:     {6},
	AbbrMoon:    {6},
	AbbrMercury: {6},
	AbbrVenus:   {6},
	AbbrMars:    {3, 6, 7},
	AbbrJupiter: {4, 6, 8},
	AbbrSaturn:  {2, 6, 9},
	AbbrRahu:    {4, 6, 8},
	AbbrKetu:    {6},
}

// defaultOffsets is the seventh-house aspect every body carries.
var defaultOffsets = []int{6}

// buildAspects casts each planet's drishti from its house and records every
// aspect both in the flat list and against its target house.
func buildAspects(planets []*models.Planet) ([]models.AspectLabel, map[int][]models.AspectLabel) {
	var all []models.AspectLabel
	perHouse := make(map[int][]models.AspectLabel, 12)

	for _, p := range planets {
		offsets, ok := drishtiOffsets[p.Name]
		if !ok {
			offsets = defaultOffsets
		}
		for _, offset := range offsets {
			target := ((p.House-1+offset)%12 + 12) % 12
			entry := models.AspectLabel{
				Planet:     p.Name,
				FromHouse:  p.House,
				ToHouse:    target + 1,
				HousesAway: offset + 1,
				Label:      p.Name,
			}
			all = append(all, entry)
			perHouse[entry.ToHouse] = append(perHouse[entry.ToHouse], entry)
		}
	}
	return all, perHouse
}
