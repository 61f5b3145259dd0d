package tz

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

type staticResolver struct {
	name string
	ok   bool
}

func (r staticResolver) Zone(latDeg, lonDeg float64) (string, bool) { return r.name, r.ok }

func TestLocalizeAwareInputBypassesDetection(t *testing.T) {
	l := New(staticResolver{name: "Europe/Moscow", ok: true}, testLogger())

	got, det, err := l.Localize("1987-02-21T18:45:00+03:00", 55.75, 37.62)
	require.NoError(t, err)
	assert.Equal(t, time.Date(1987, 2, 21, 15, 45, 0, 0, time.UTC), got)
	assert.False(t, det.UsedIANA)
	assert.False(t, det.UsedApprox)
}

func TestLocalizeAwareZulu(t *testing.T) {
	l := New(nil, testLogger())

	got, det, err := l.Localize("2024-06-01T12:00:00Z", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC), got)
	assert.False(t, det.UsedApprox)
}

func TestLocalizeNaiveViaIANA(t *testing.T) {
	l := New(staticResolver{name: "Europe/Moscow", ok: true}, testLogger())

	got, det, err := l.Localize("2024-01-15T12:00:00", 55.75, 37.62)
	require.NoError(t, err)
	assert.True(t, det.UsedIANA)
	assert.Equal(t, "Europe/Moscow", det.IANAName)
	assert.False(t, det.UsedApprox)
	// Moscow holds UTC+3 year-round since 2014
	assert.Equal(t, time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC), got)
}

func TestLocalizeNaiveViaLongitudeOffset(t *testing.T) {
	l := New(nil, testLogger())

	got, det, err := l.Localize("2024-01-15T12:00:00", 55.75, 37.62)
	require.NoError(t, err)
	assert.False(t, det.UsedIANA)
	assert.True(t, det.UsedApprox)
	// 37.62/15 rounds to +3h
	assert.Equal(t, 180, det.ApproxOffsetMin)
	assert.Equal(t, time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC), got)
}

func TestLocalizeNaiveWesternLongitude(t *testing.T) {
	l := New(staticResolver{}, testLogger())

	got, det, err := l.Localize("2024-01-15 12:00", 40.7, -74.0)
	require.NoError(t, err)
	assert.True(t, det.UsedApprox)
	assert.Equal(t, -300, det.ApproxOffsetMin)
	assert.Equal(t, time.Date(2024, 1, 15, 17, 0, 0, 0, time.UTC), got)
}

func TestLocalizeBadZoneFallsThrough(t *testing.T) {
	l := New(staticResolver{name: "Mars/Olympus", ok: true}, testLogger())

	_, det, err := l.Localize("2024-01-15T12:00:00", 10, 0)
	require.NoError(t, err)
	assert.False(t, det.UsedIANA)
	assert.True(t, det.UsedApprox)
	assert.Equal(t, 0, det.ApproxOffsetMin)
}

func TestLocalizeUnparseable(t *testing.T) {
	l := New(nil, testLogger())

	_, _, err := l.Localize("yesterday at noon", 0, 0)
	assert.Error(t, err)
}

func TestApproxOffsetMinutes(t *testing.T) {
	assert.Equal(t, 0, ApproxOffsetMinutes(0))
	assert.Equal(t, 60, ApproxOffsetMinutes(15))
	assert.Equal(t, 120, ApproxOffsetMinutes(29.9))
	assert.Equal(t, -480, ApproxOffsetMinutes(-122.4))
	assert.Equal(t, 720, ApproxOffsetMinutes(179.9))
}