package models

import "time"

// Camera status values as reported by the dashboard API
const (
	CameraActive   = "active"
	CameraInactive = "inactive"
)

// Camera represents a single monitored camera
type Camera struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Location     string    `json:"location"`
	Status       string    `json:"status"` // "active" or "inactive"
	ThumbnailURL string    `json:"thumbnailUrl"`
	StreamURL    string    `json:"streamUrl"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Active reports whether the camera is currently online.
func (c Camera) Active() bool {
	return c.Status == CameraActive
}
