package astro

import (
	"github.com/jyotish-back/pkg/angle"
)

// eclipticCrossing marks where the J2000 ecliptic enters an IAU
// constellation. Longitudes were obtained by sampling the B1875 boundary
// polygons along the ecliptic at 0.1 degree steps and refining each change
// of classification; the list is circular and ordered.
type eclipticCrossing struct {
	lonDeg float64
	code   string
}

var eclipticCrossings = []eclipticCrossing{
	{29.09, "Ari"},
	{53.47, "Tau"},
	{90.43, "Gem"},
	{118.26, "Cnc"},
	{138.18, "Leo"},
	{174.15, "Vir"},
	{217.80, "Lib"},
	{241.14, "Sco"},
	{248.06, "Oph"},
	{266.30, "Sgr"},
	{299.71, "Cap"},
	{327.88, "Aqr"},
	{351.57, "Psc"},
}

// localizedNames maps IAU codes to the Russian names carried in responses.
var localizedNames = map[string]string{
	"Ari": "Овен",
	"Tau": "Телец",
	"Gem": "Близнецы",
	"Cnc": "Рак",
	"Leo": "Лев",
	"Vir": "Дева",
	"Lib": "Весы",
	"Sco": "Скорпион",
	"Oph": "Змееносец",
	"Sgr": "Стрелец",
	"Cap": "Козерог",
	"Aqr": "Водолей",
	"Psc": "Рыбы",
}

// LocalizedName returns the localized constellation name for an IAU code,
// falling back to the code itself.
func LocalizedName(code string) string {
	if name, ok := localizedNames[code]; ok {
		return name
	}
	return code
}

// BandClassifier resolves ecliptic longitudes to IAU constellation codes
// using the fixed crossing table above. It serves as the default
// EclipticClassifier; a finer spherical-boundary resolver can be plugged in
// through the PointResolver capability.
type BandClassifier struct{}

// NewBandClassifier creates the default ecliptic-band classifier.
func NewBandClassifier() *BandClassifier {
	return &BandClassifier{}
}

// Classify implements EclipticClassifier. It is total: every longitude maps
// to exactly one constellation code.
func (c *BandClassifier) Classify(lonDeg float64) (string, error) {
	lon := angle.Normalize360(lonDeg)

	// Before the first crossing the ecliptic is still in the constellation
	// entered at the last (wrapping) crossing.
	code := eclipticCrossings[len(eclipticCrossings)-1].code
	for _, cr := range eclipticCrossings {
		if lon < cr.lonDeg {
			break
		}
		code = cr.code
	}
	return code, nil
}
