package models

// Collections carried on the change-notification channel
const (
	CollectionCameras   = "cameras"
	CollectionIncidents = "incidents"
)

// Change kinds delivered by the realtime endpoint
const (
	ChangeInsert = "insert"
	ChangeUpdate = "update"
	ChangeDelete = "delete"
)

// ChangeEvent is one push notification from the realtime endpoint.
// For incident changes New carries the record after the change (insert,
// update) and Old the record before it (delete). Camera changes carry no
// payload worth merging; subscribers re-fetch the full collection instead.
type ChangeEvent struct {
	Collection string    `json:"collection"`
	Kind       string    `json:"kind"`
	New        *Incident `json:"new,omitempty"`
	Old        *Incident `json:"old,omitempty"`
}
