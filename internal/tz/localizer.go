// Package tz turns a possibly-naive birth time into a UTC instant. Times
// carrying an explicit offset are taken as-is; naive times walk a resolver
// chain and record which path localized them.
package tz

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jyotish-back/pkg/models"
)

// ZoneResolver maps geographic coordinates to an IANA zone name. It is an
// optional capability; without one the localizer falls back to a whole-hour
// offset derived from the longitude.
type ZoneResolver interface {
	Zone(latDeg, lonDeg float64) (name string, ok bool)
}

// awareLayouts match inputs that already carry an offset.
var awareLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04Z07:00",
	"2006-01-02 15:04:05Z07:00",
}

// naiveLayouts match inputs without an offset; these need localization.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// Localizer resolves naive timestamps into UTC instants.
type Localizer struct {
	resolver ZoneResolver
	logger   *logrus.Entry
}

// New builds a Localizer. resolver may be nil.
func New(resolver ZoneResolver, logger *logrus.Logger) *Localizer {
	return &Localizer{
		resolver: resolver,
		logger:   logger.WithField("component", "tz"),
	}
}

// Localize parses iso and returns the corresponding UTC instant together
// with a record of which localization path was used.
func (l *Localizer) Localize(iso string, latDeg, lonDeg float64) (time.Time, models.TZDetection, error) {
	var det models.TZDetection
	s := strings.TrimSpace(iso)

	for _, layout := range awareLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), det, nil
		}
	}

	naive, ok := parseNaive(s)
	if !ok {
		return time.Time{}, det, fmt.Errorf("unparseable datetime %q", iso)
	}

	if l.resolver != nil {
		if name, found := l.resolver.Zone(latDeg, lonDeg); found {
			loc, err := time.LoadLocation(name)
			if err == nil {
				det.UsedIANA = true
				det.IANAName = name
				t := time.Date(naive.Year(), naive.Month(), naive.Day(),
					naive.Hour(), naive.Minute(), naive.Second(), naive.Nanosecond(), loc)
				return t.UTC(), det, nil
			}
			l.logger.WithFields(logrus.Fields{
				"zone":  name,
				"error": err.Error(),
			}).Warn("IANA zone unavailable, falling back to longitude offset")
		}
	}

	det.UsedApprox = true
	det.ApproxOffsetMin = ApproxOffsetMinutes(lonDeg)
	loc := time.FixedZone("approx", det.ApproxOffsetMin*60)
	t := time.Date(naive.Year(), naive.Month(), naive.Day(),
		naive.Hour(), naive.Minute(), naive.Second(), naive.Nanosecond(), loc)
	return t.UTC(), det, nil
}

// ApproxOffsetMinutes rounds the longitude to the nearest whole-hour zone.
func ApproxOffsetMinutes(lonDeg float64) int {
	return int(math.Round(lonDeg/15.0)) * 60
}

func parseNaive(s string) (time.Time, bool) {
	for _, layout := range naiveLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
