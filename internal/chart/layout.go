package chart

import "github.com/jyotish-back/pkg/models"

// northIndianLayout arranges the chart into the 12 diamond boxes of the
// north-Indian scheme, counter-clockwise from the top. Box order follows
// house numbers, bodies are attached by their computed numeric house, and
// each box carries the aspects cast into it.
func northIndianLayout(houseList []models.House, planets []*models.Planet, perHouse map[int][]models.AspectLabel) models.NorthIndianLayout {
	boxes := make([]models.NorthIndianBox, 0, 12)
	for _, h := range houseList {
		var bodies []string
		for _, p := range planets {
			if p.House == h.House {
				bodies = append(bodies, p.Name)
			}
		}
		boxes = append(boxes, models.NorthIndianBox{
			Sign:    h.Sign,
			House:   h.House,
			Bodies:  bodies,
			Aspects: perHouse[h.House],
		})
	}
	return models.NorthIndianLayout{Boxes: boxes}
}
