package models

import (
	"strings"
	"time"
)

// Incident severities, lowest to highest
const (
	SeverityLow      = "LOW"
	SeverityMedium   = "MEDIUM"
	SeverityHigh     = "HIGH"
	SeverityCritical = "CRITICAL"
)

// Incident represents a single detection on a camera. The API embeds the
// owning camera, but Camera may be nil for records arriving over the
// notification channel; consumers must tolerate the missing lookup.
type Incident struct {
	ID           int64     `json:"id"`
	CameraID     int64     `json:"cameraId"`
	Type         string    `json:"type"` // e.g. "INTRUSION", "THEFT", "GUN_THREAT"
	Description  string    `json:"description"`
	Severity     string    `json:"severity"`
	Resolved     bool      `json:"resolved"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	Timestamp    time.Time `json:"timestamp"` // event time, not record-creation time
	CreatedAt    time.Time `json:"createdAt"`
	Camera       *Camera   `json:"camera,omitempty"`
}

// CameraName returns the embedded camera's name, or a placeholder when the
// incident references a camera we do not know about.
func (i Incident) CameraName() string {
	if i.Camera == nil {
		return "[Unknown Camera]"
	}
	return i.Camera.Name
}

// SeverityRank orders severities for sorting: LOW=0 .. CRITICAL=3.
// Unknown severities rank below LOW.
func SeverityRank(severity string) int {
	switch strings.ToUpper(severity) {
	case SeverityLow:
		return 0
	case SeverityMedium:
		return 1
	case SeverityHigh:
		return 2
	case SeverityCritical:
		return 3
	default:
		return -1
	}
}
