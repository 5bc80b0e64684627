package store

import (
	"sync"

	"github.com/StrungPattern-coder/SecureSight/internal/client"
	"github.com/StrungPattern-coder/SecureSight/pkg/models"
)

// API is the remote surface the store fetches from and mutates through.
// *client.SecureSightClient satisfies it; tests inject fakes.
type API interface {
	GetCameras() ([]models.Camera, error)
	GetIncidents(filter client.ResolvedFilter) ([]models.Incident, error)
	ResolveIncident(id int64) (*models.Incident, error)
}

// Store is the single in-process owner of the camera and incident
// collections plus the dashboard selection state. All mutation goes through
// its methods; asynchronous callers (fetches, poll ticker, notification
// dispatcher) serialize on the internal mutex, so each operation observes a
// consistent snapshot the way handlers on a single event loop would.
type Store struct {
	api API

	mu               sync.Mutex
	cameras          []models.Camera
	incidents        []models.Incident
	selectedCamera   *models.Camera
	selectedIncident *models.Incident
	timelinePosition float64
	loading          bool

	inflight  map[int64]int  // resolve calls currently on the wire, per incident
	confirmed map[int64]bool // incidents the remote has acknowledged as resolved

	changed chan struct{}
}

func New(api API) *Store {
	return &Store{
		api:       api,
		inflight:  make(map[int64]int),
		confirmed: make(map[int64]bool),
		changed:   make(chan struct{}, 1),
	}
}

// Changes returns a coalesced signal channel: at least one receive is
// possible after any state mutation. Consumers re-read snapshots rather
// than diffing events.
func (s *Store) Changes() <-chan struct{} {
	return s.changed
}

// notifyLocked signals a state change without blocking. Callers hold s.mu.
func (s *Store) notifyLocked() {
	select {
	case s.changed <- struct{}{}:
	default:
	}
}

// FetchCameras replaces the camera collection from the remote API.
// On failure the previous collection stays in place; the loading flag is
// cleared either way.
func (s *Store) FetchCameras() error {
	s.setLoading(true)

	cameras, err := s.api.GetCameras()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.notifyLocked()
		return err
	}
	s.cameras = cameras
	s.notifyLocked()
	return nil
}

// FetchIncidents replaces the incident collection, optionally filtered by
// resolution state. Same replace-on-success semantics as FetchCameras.
func (s *Store) FetchIncidents(filter client.ResolvedFilter) error {
	s.setLoading(true)

	incidents, err := s.api.GetIncidents(filter)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.notifyLocked()
		return err
	}
	s.incidents = incidents
	s.notifyLocked()
	return nil
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.notifyLocked()
	s.mu.Unlock()
}

func (s *Store) SetSelectedCamera(c *models.Camera) {
	s.mu.Lock()
	s.selectedCamera = c
	s.notifyLocked()
	s.mu.Unlock()
}

func (s *Store) SetSelectedIncident(i *models.Incident) {
	s.mu.Lock()
	s.selectedIncident = i
	s.notifyLocked()
	s.mu.Unlock()
}

// SetTimelinePosition stores the scrubber position, clamped to 0..100.
func (s *Store) SetTimelinePosition(pct float64) {
	if pct < 0 {
		pct = 0
	} else if pct > 100 {
		pct = 100
	}
	s.mu.Lock()
	s.timelinePosition = pct
	s.notifyLocked()
	s.mu.Unlock()
}

// AddIncident prepends a new incident (newest-first ordering). A redelivered
// insert for an id already present merges into the existing record instead
// of duplicating it, so duplicate channel delivery converges.
func (s *Store) AddIncident(inc models.Incident) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.incidents {
		if s.incidents[i].ID == inc.ID {
			s.mergeLocked(i, inc)
			s.notifyLocked()
			return
		}
	}

	s.incidents = append([]models.Incident{inc}, s.incidents...)
	s.notifyLocked()
}

// UpdateIncident merges an updated record into the matching incident by id.
// No-op when the id is not present.
func (s *Store) UpdateIncident(id int64, upd models.Incident) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.incidents {
		if s.incidents[i].ID == id {
			s.mergeLocked(i, upd)
			s.notifyLocked()
			return
		}
	}
}

// mergeLocked replaces the record at index i, keeping the embedded camera
// when the incoming record lacks one (notification payloads carry the bare
// row without the joined camera).
func (s *Store) mergeLocked(i int, upd models.Incident) {
	if upd.Camera == nil {
		upd.Camera = s.incidents[i].Camera
	}
	upd.ID = s.incidents[i].ID
	s.incidents[i] = upd
}

// RemoveIncident deletes the matching incident by id. No-op when absent.
func (s *Store) RemoveIncident(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.incidents {
		if s.incidents[i].ID == id {
			s.incidents = append(s.incidents[:i], s.incidents[i+1:]...)
			delete(s.confirmed, id)
			s.notifyLocked()
			return
		}
	}
}

// Snapshot accessors return copies so callers never hold references into
// the store's own slices.

func (s *Store) Cameras() []models.Camera {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Camera, len(s.cameras))
	copy(out, s.cameras)
	return out
}

func (s *Store) Incidents() []models.Incident {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Incident, len(s.incidents))
	copy(out, s.incidents)
	return out
}

// Incident returns a copy of the incident with the given id, if present.
func (s *Store) Incident(id int64) (models.Incident, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.incidents {
		if s.incidents[i].ID == id {
			return s.incidents[i], true
		}
	}
	return models.Incident{}, false
}

func (s *Store) SelectedCamera() *models.Camera {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedCamera
}

func (s *Store) SelectedIncident() *models.Incident {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedIncident
}

func (s *Store) TimelinePosition() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timelinePosition
}

func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}
