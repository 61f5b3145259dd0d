package models

import "time"

// Node labels as they appear in the eclipse reference dataset.
const (
	NodeRahu = "Rahu"
	NodeKetu = "Ketu"
)

// NodeObservation is one eclipse-derived node position record
type NodeObservation struct {
	DatetimeISO   string    `json:"datetime_iso"`
	Node          string    `json:"node"`
	NodeLongitude float64   `json:"node_longitude"`
	Time          time.Time `json:"-"`
}

// NodePair holds the two antipodal lunar node longitudes
type NodePair struct {
	AscendingLon  float64 `json:"ascending_lon"`
	DescendingLon float64 `json:"descending_lon"`
}
