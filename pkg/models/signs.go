package models

// Signs lists the 12 zodiac sign codes in ecliptic order.
var Signs = []string{"Ar", "Ta", "Ge", "Cn", "Le", "Vi", "Li", "Sc", "Sg", "Cp", "Aq", "Pi"}

// iauToSign maps every zodiacal IAU constellation code to its sign code.
// Ophiuchus is the 13th ecliptic constellation and is remapped to Scorpio;
// there is deliberately no lon/30 fallback anywhere in the pipeline.
var iauToSign = map[string]string{
	"Ari": "Ar",
	"Tau": "Ta",
	"Gem": "Ge",
	"Cnc": "Cn",
	"Leo": "Le",
	"Vir": "Vi",
	"Lib": "Li",
	"Sco": "Sc",
	"Oph": "Sc",
	"Sgr": "Sg",
	"Cap": "Cp",
	"Aqr": "Aq",
	"Psc": "Pi",
}

// SignForConstellation resolves an IAU constellation code to a zodiac sign
// code. Unknown codes resolve to the first sign so that no caller ever falls
// back to raw longitude arithmetic.
func SignForConstellation(iauCode string) (string, bool) {
	if s, ok := iauToSign[iauCode]; ok {
		return s, true
	}
	return Signs[0], false
}

// SignIndex returns the 0-based position of a sign code, or 0 if unknown.
func SignIndex(sign string) int {
	for i, s := range Signs {
		if s == sign {
			return i
		}
	}
	return 0
}
