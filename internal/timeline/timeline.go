// Package timeline converts between the three coordinate systems of the
// incident timeline: wall-clock time within a day, video playback time, and
// the normalized 0-100 scrubber percentage.
package timeline

import (
	"fmt"
	"math"
	"time"

	"github.com/StrungPattern-coder/SecureSight/pkg/models"
)

// SeekThreshold is the minimum delta, in seconds, between current video
// time and a scrubber target before the target is applied. Reading video
// time writes the scrubber, which re-derives a near-identical video time;
// without the threshold that loop would seek on every tick.
const SeekThreshold = 0.5

const hoursPerDay = 24

func clampPercent(pct float64) float64 {
	return math.Max(0, math.Min(100, pct))
}

// PercentageFromVideoTime maps a playback position to a scrubber
// percentage. A zero or negative duration yields 0.
func PercentageFromVideoTime(currentTime, duration float64) float64 {
	if duration <= 0 {
		return 0
	}
	return clampPercent(currentTime / duration * 100)
}

// VideoTimeFromPercentage maps a scrubber percentage back to playback time.
func VideoTimeFromPercentage(pct, duration float64) float64 {
	if duration <= 0 {
		return 0
	}
	return clampPercent(pct) / 100 * duration
}

// PercentageFromWallClock positions a timestamp within the 24h day starting
// at dayStart. Timestamps outside the day clamp to the edges.
func PercentageFromWallClock(timestamp, dayStart time.Time) float64 {
	elapsed := timestamp.Sub(dayStart).Hours()
	return clampPercent(elapsed / hoursPerDay * 100)
}

// DayStart returns midnight of the day containing t, in t's location.
func DayStart(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// Marker is an incident placed on the timeline axis.
type Marker struct {
	Incident models.Incident
	Percent  float64
}

// IncidentPositions places incidents along the wall-clock axis of the day
// starting at dayStart. Placement uses the incident's real-world timestamp,
// independent of which video segment is loaded.
func IncidentPositions(incidents []models.Incident, dayStart time.Time) []Marker {
	markers := make([]Marker, 0, len(incidents))
	for _, inc := range incidents {
		markers = append(markers, Marker{
			Incident: inc,
			Percent:  PercentageFromWallClock(inc.Timestamp, dayStart),
		})
	}
	return markers
}

// ReconcileSeek decides whether a scrubber position should be applied back
// to video playback. It returns the target playback time and true only when
// the delta exceeds SeekThreshold.
func ReconcileSeek(videoTime, duration, targetPct float64) (float64, bool) {
	target := VideoTimeFromPercentage(targetPct, duration)
	if math.Abs(videoTime-target) > SeekThreshold {
		return target, true
	}
	return videoTime, false
}

// FormatClock renders seconds of playback as MM:SS, or HH:MM:SS past an
// hour.
func FormatClock(seconds float64) string {
	if math.IsNaN(seconds) || seconds < 0 {
		return "00:00"
	}
	total := int(seconds)
	h := total / 3600
	m := total % 3600 / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
