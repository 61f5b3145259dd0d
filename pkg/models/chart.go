package models

// ChartRequest is the input for a natal chart computation
type ChartRequest struct {
	DatetimeISO string  `json:"datetime_iso"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	ElevationM  float64 `json:"elevation_m"`
	// RahuIsDescending overrides the node labeling convention for this
	// request. Nil means "use the configured default".
	RahuIsDescending *bool  `json:"rahu_is_descending,omitempty"`
	HouseSystem      string `json:"house_system,omitempty"`
}

// AscendantMC describes the rising point or the upper-meridian point
type AscendantMC struct {
	Sign              string  `json:"sign"`
	Degree            float64 `json:"degree"`
	LonDeg            float64 `json:"lon_deg"`
	ConstellationIAU  string  `json:"constellation_iau"`
	ConstellationName string  `json:"constellation_name_ru"`
}

// Planet represents a placed body including the lunar nodes
type Planet struct {
	Name             string  `json:"name"`
	LonDeg           float64 `json:"lon_deg"`
	Sign             string  `json:"sign"`
	House            int     `json:"house"`
	IAUConstellation string  `json:"iau_constellation"`
	IAUName          string  `json:"iau_name_ru"`
	IsRetrograde     bool    `json:"is_retrograde"`
	SpeedDegPerDay   float64 `json:"speed_deg_per_day"`
	HouseProgress    float64 `json:"house_progress"` // 0..1 inside the house
	HouseStrength    float64 `json:"house_strength"` // 0..1
	HouseArcDeg      float64 `json:"house_arc_deg"`
	DegIntoHouse     float64 `json:"deg_into_house"`
}

// House maps a house number to the sign occupying it
type House struct {
	House int    `json:"house"`
	Sign  string `json:"sign"`
}

// AspectLabel is a single drishti cast from a planet's house
type AspectLabel struct {
	Planet     string `json:"planet"`
	FromHouse  int    `json:"from_house"`
	ToHouse    int    `json:"to_house"`
	HousesAway int    `json:"houses_away"`
	Label      string `json:"label"`
}

// NorthIndianBox is one diamond of the north-Indian chart layout
type NorthIndianBox struct {
	Sign    string        `json:"sign"`
	House   int           `json:"house"`
	Bodies  []string      `json:"bodies"`
	Aspects []AspectLabel `json:"aspects"`
}

// NorthIndianLayout holds the 12 boxes counter-clockwise from the top
type NorthIndianLayout struct {
	Boxes []NorthIndianBox `json:"boxes"`
}

// ChartResponse is the assembled chart record
type ChartResponse struct {
	Ascendant         AscendantMC        `json:"ascendant"`
	MC                AscendantMC        `json:"mc"`
	Planets           []Planet           `json:"planets"`
	Houses            []House            `json:"houses"`
	NorthIndianLayout NorthIndianLayout  `json:"north_indian_layout"`
	Aspects           []AspectLabel      `json:"aspects"`
	ConstellationArcs []ConstellationArc `json:"constellation_arcs"`
	Trace             *ChartTrace        `json:"debug_info,omitempty"`
}

// TZDetection records which localization path resolved a naive input time
type TZDetection struct {
	UsedIANA        bool   `json:"used_iana_tz"`
	IANAName        string `json:"used_iana_name,omitempty"`
	UsedApprox      bool   `json:"used_approx_tz"`
	ApproxOffsetMin int    `json:"used_approx_offset_min"`
}

// ChartTrace is the auxiliary diagnostic record attached to a response
type ChartTrace struct {
	DatetimeISO      string             `json:"datetime_iso"`
	DatetimeUTC      string             `json:"datetime_utc"`
	JulianDay        float64            `json:"jd"`
	Latitude         float64            `json:"latitude"`
	Longitude        float64            `json:"longitude"`
	TZDetect         TZDetection        `json:"tz_detect"`
	AscLonDeg        float64            `json:"asc_lon_deg"`
	AscIAUCode       string             `json:"asc_iau_code"`
	AscSign          string             `json:"asc_mapped_sign"`
	AscStage         string             `json:"asc_stage"`
	MCLonDeg         float64            `json:"mc_lon_deg"`
	MCFallbackUsed   bool               `json:"mc_fallback_used"`
	PorphyryCusps    []float64          `json:"porphyry_cusps"`
	NodesComputed    bool               `json:"nodes_computed"`
	NodesError       string             `json:"nodes_error,omitempty"`
	NodesMethod      string             `json:"nodes_method_used"`
	NodeSpeedSamples int                `json:"node_speed_samples"`
	RahuIsDescending bool               `json:"rahu_is_desc_used"`
	Nodes            map[string]float64 `json:"nodes,omitempty"`
	OmittedBodies    []string           `json:"omitted_bodies,omitempty"`
}
