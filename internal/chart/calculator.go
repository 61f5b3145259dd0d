// Package chart assembles the full natal chart response: solved angles,
// Porphyry houses, placed bodies including the lunar nodes, drishti aspects
// and the north-Indian layout, plus a diagnostic trace.
package chart

import (
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jyotish-back/internal/arcs"
	"github.com/jyotish-back/internal/astro"
	"github.com/jyotish-back/internal/houses"
	"github.com/jyotish-back/internal/nodes"
	"github.com/jyotish-back/internal/solver"
	"github.com/jyotish-back/internal/tz"
	"github.com/jyotish-back/pkg/angle"
	"github.com/jyotish-back/pkg/config"
	"github.com/jyotish-back/pkg/models"
)

// Body abbreviations as they appear in chart rows and aspect labels.
const (
	AbbrSun     = "Su"
	AbbrMoon    = "Mo"
	AbbrMercury = "Me"
	AbbrVenus   = "Ve"
	AbbrMars    = "Ma"
	AbbrJupiter = "Ju"
	AbbrSaturn  = "Sa"
	AbbrUranus  = "Ur"
	AbbrNeptune = "Ne"
	AbbrRahu    = "Ra"
	AbbrKetu    = "Ke"
)

// speedSampleHours separates the two ephemeris samples used for the body
// rate estimate.
const speedSampleHours = 1.0

// bodyOrder fixes the row order of the response.
var bodyOrder = []struct {
	body string
	abbr string
}{
	{astro.BodySun, AbbrSun},
	{astro.BodyMoon, AbbrMoon},
	{astro.BodyMercury, AbbrMercury},
	{astro.BodyVenus, AbbrVenus},
	{astro.BodyMars, AbbrMars},
	{astro.BodyJupiter, AbbrJupiter},
	{astro.BodySaturn, AbbrSaturn},
	{astro.BodyUranus, AbbrUranus},
	{astro.BodyNeptune, AbbrNeptune},
}

// Deps are the collaborators a Calculator is wired with. Resolver is
// optional; everything else is required.
type Deps struct {
	Ephemeris astro.EphemerisProvider
	Solver    *solver.Solver
	Table     *arcs.Table
	Nodes     *nodes.Interpolator
	Localizer *tz.Localizer
	// Resolver, when present, relabels each body's constellation from its
	// full sky position. It never changes house placement.
	Resolver astro.PointResolver
}

// Calculator computes chart responses.
type Calculator struct {
	deps   Deps
	cfg    *config.Config
	logger *logrus.Entry
}

// NewCalculator creates a chart calculator.
func NewCalculator(deps Deps, cfg *config.Config, log *logrus.Logger) *Calculator {
	return &Calculator{
		deps:   deps,
		cfg:    cfg,
		logger: log.WithField("component", "chart"),
	}
}

// Compute builds the chart for a request. Solver and node failures degrade
// to documented fallbacks; only an unusable request fails.
func (c *Calculator) Compute(req *models.ChartRequest) (*models.ChartResponse, error) {
	tUTC, det, err := c.deps.Localizer.Localize(req.DatetimeISO, req.Latitude, req.Longitude)
	if err != nil {
		return nil, fmt.Errorf("localize request time: %w", err)
	}

	obs := astro.Observer{
		LatDeg:     req.Latitude,
		LonDeg:     req.Longitude,
		ElevationM: req.ElevationM,
	}

	ascRes := c.deps.Solver.Ascendant(tUTC, obs)
	mcRes := c.deps.Solver.MC(tUTC, obs, ascRes.LonDeg)

	asc := c.anglePoint(ascRes.LonDeg)
	mc := c.anglePoint(mcRes.LonDeg)
	cusps := houses.PorphyryCusps(ascRes.LonDeg, mcRes.LonDeg)

	houseList := housesFromAscendant(asc.Sign)

	trace := &models.ChartTrace{
		DatetimeISO:    req.DatetimeISO,
		DatetimeUTC:    tUTC.Format(time.RFC3339),
		JulianDay:      astro.JulianDay(tUTC),
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		TZDetect:       det,
		AscLonDeg:      ascRes.LonDeg,
		AscIAUCode:     asc.ConstellationIAU,
		AscSign:        asc.Sign,
		AscStage:       ascRes.Stage,
		MCLonDeg:       mcRes.LonDeg,
		MCFallbackUsed: mcRes.FallbackUsed,
		PorphyryCusps:  cusps[:],
	}

	planets, omitted := c.placeBodies(tUTC, cusps)
	nodeRows, nodesOmitted := c.placeNodes(tUTC, cusps, req, trace)
	planets = append(planets, nodeRows...)
	omitted = append(omitted, nodesOmitted...)

	aspects, perHouse := buildAspects(planets)

	resp := &models.ChartResponse{
		Ascendant:         asc,
		MC:                mc,
		Planets:           dereference(planets),
		Houses:            houseList,
		NorthIndianLayout: northIndianLayout(houseList, planets, perHouse),
		Aspects:           aspects,
		ConstellationArcs: c.deps.Table.Arcs(),
		Trace:             trace,
	}
	trace.OmittedBodies = omitted

	c.logger.WithFields(logrus.Fields{
		"asc_lon":   ascRes.LonDeg,
		"asc_stage": ascRes.Stage,
		"mc_lon":    mcRes.LonDeg,
		"planets":   len(resp.Planets),
	}).Info("Chart computed")

	return resp, nil
}

// anglePoint classifies a chart angle longitude into its constellation,
// localized name and mapped sign.
func (c *Calculator) anglePoint(lonDeg float64) models.AscendantMC {
	code, name := c.deps.Table.Classify(lonDeg)
	sign, _ := models.SignForConstellation(code)
	return models.AscendantMC{
		Sign:              sign,
		Degree:            math.Mod(angle.Normalize360(lonDeg), 30.0),
		LonDeg:            angle.Normalize360(lonDeg),
		ConstellationIAU:  code,
		ConstellationName: name,
	}
}

// placeBodies builds the classical body rows. Bodies absent from the
// ephemeris are skipped and reported.
func (c *Calculator) placeBodies(t time.Time, cusps [12]float64) ([]*models.Planet, []string) {
	now, err := c.deps.Ephemeris.Positions(t)
	if err != nil {
		c.logger.WithError(err).Warn("Ephemeris unavailable, chart carries no classical bodies")
		now = map[string]astro.EclipticPosition{}
	}
	later, err := c.deps.Ephemeris.Positions(t.Add(time.Duration(speedSampleHours * float64(time.Hour))))
	if err != nil {
		later = map[string]astro.EclipticPosition{}
	}

	var planets []*models.Planet
	var omitted []string
	for _, entry := range bodyOrder {
		pos, ok := now[entry.body]
		if !ok {
			omitted = append(omitted, entry.body)
			continue
		}
		lam := angle.Normalize360(pos.LonDeg)

		speed := 0.0
		if posLater, ok := later[entry.body]; ok {
			speed = angle.SignedDelta(lam, posLater.LonDeg) / speedSampleHours * 24.0
		}

		code, name := c.deps.Table.Classify(lam)
		// strength is anchored to the arc the body falls in; the resolver
		// below relabels only
		strength := c.arcStrength(lam, code)
		if c.deps.Resolver != nil {
			if override, ok := c.deps.Resolver.ConstellationOf(entry.body, pos); ok && override != "" {
				code = override
				name = astro.LocalizedName(override)
			}
		}
		sign, _ := models.SignForConstellation(code)

		pl := houses.PlaceInHouse(lam, cusps)
		planets = append(planets, &models.Planet{
			Name:             entry.abbr,
			LonDeg:           lam,
			Sign:             sign,
			House:            pl.House,
			IAUConstellation: code,
			IAUName:          name,
			IsRetrograde:     speed < 0,
			SpeedDegPerDay:   speed,
			HouseProgress:    pl.Progress,
			HouseStrength:    strength,
			HouseArcDeg:      pl.WidthDeg,
			DegIntoHouse:     pl.Progress * pl.WidthDeg,
		})
	}
	return planets, omitted
}

// placeNodes builds the Rahu and Ketu rows, resolving the labeling
// convention once per request and recording node diagnostics in the trace.
// When the eclipse table is unusable both rows are omitted.
func (c *Calculator) placeNodes(t time.Time, cusps [12]float64, req *models.ChartRequest, trace *models.ChartTrace) ([]*models.Planet, []string) {
	rahuIsDesc := c.cfg.Nodes.RahuIsDescending
	if req.RahuIsDescending != nil {
		rahuIsDesc = *req.RahuIsDescending
	}
	trace.RahuIsDescending = rahuIsDesc

	pair, err := c.deps.Nodes.Pair(t)
	if err != nil {
		trace.NodesError = err.Error()
		c.logger.WithError(err).Warn("Node positions unavailable")
		return nil, []string{models.NodeRahu, models.NodeKetu}
	}

	rahuLon, ketuLon := pair.AscendingLon, pair.DescendingLon
	if rahuIsDesc {
		rahuLon, ketuLon = ketuLon, rahuLon
	}

	rate, samples := c.deps.Nodes.SpeedAt(models.NodeRahu, t)
	trace.NodesComputed = true
	trace.NodesMethod = nodes.MethodEclipseInterpolation
	trace.NodeSpeedSamples = samples
	trace.Nodes = map[string]float64{
		models.NodeRahu: rahuLon,
		models.NodeKetu: ketuLon,
	}

	rows := make([]*models.Planet, 0, 2)
	for _, node := range []struct {
		abbr string
		lon  float64
	}{{AbbrRahu, rahuLon}, {AbbrKetu, ketuLon}} {
		code, name := c.deps.Table.Classify(node.lon)
		sign, _ := models.SignForConstellation(code)
		pl := houses.PlaceInHouse(node.lon, cusps)
		rows = append(rows, &models.Planet{
			Name:             node.abbr,
			LonDeg:           node.lon,
			Sign:             sign,
			House:            pl.House,
			IAUConstellation: code,
			IAUName:          name,
			IsRetrograde:     rate < 0,
			SpeedDegPerDay:   rate,
			HouseProgress:    pl.Progress,
			HouseStrength:    hannStrength(pl.Progress),
			HouseArcDeg:      pl.WidthDeg,
			DegIntoHouse:     pl.Progress * pl.WidthDeg,
		})
	}
	return rows, nil
}

// arcStrength is the bell-shaped placement strength for classical bodies:
// 1 at the constellation arc's midpoint, falling linearly to 0 at (and
// beyond) its edges. Bodies with no matching arc get zero strength.
func (c *Calculator) arcStrength(lonDeg float64, iauCode string) float64 {
	var mid, width float64
	found := false
	for _, arc := range c.deps.Table.Arcs() {
		if arc.IAUCode == iauCode {
			mid = arc.Midpoint()
			width = arc.Width()
			found = true
			break
		}
	}
	if !found || width <= 0 {
		return 0
	}
	dist := angle.Separation(lonDeg, mid)
	return math.Max(0, 1.0-2.0*dist/width)
}

// hannStrength is the raised-cosine strength used for the shadow bodies,
// driven by in-house progress.
func hannStrength(p float64) float64 {
	return 0.5 * (1.0 - math.Cos(2.0*math.Pi*p))
}

// housesFromAscendant assigns whole signs to houses starting from the
// Ascendant's sign.
func housesFromAscendant(ascSign string) []models.House {
	idx := models.SignIndex(ascSign)
	list := make([]models.House, 12)
	for i := 0; i < 12; i++ {
		list[i] = models.House{House: i + 1, Sign: models.Signs[(idx+i)%12]}
	}
	return list
}

func dereference(planets []*models.Planet) []models.Planet {
	out := make([]models.Planet, len(planets))
	for i, p := range planets {
		out[i] = *p
	}
	return out
}
