// Package realtime keeps a Store eventually consistent with the dashboard
// API: websocket change notifications per collection, with a fixed-interval
// poll of unresolved incidents as a fallback. Both run concurrently; losing
// the notification channel only widens the staleness window, it never
// surfaces as an error.
package realtime

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/StrungPattern-coder/SecureSight/internal/client"
	"github.com/StrungPattern-coder/SecureSight/internal/store"
	"github.com/StrungPattern-coder/SecureSight/pkg/models"
)

// DefaultPollInterval bounds staleness when the notification channel is
// unavailable or silently drops messages.
const DefaultPollInterval = 30 * time.Second

type Syncer struct {
	store *store.Store
	api   *client.SecureSightClient

	events       chan models.ChangeEvent
	conns        []*websocket.Conn
	stop         chan struct{}
	stopOnce     sync.Once
	wg           sync.WaitGroup
	pollInterval time.Duration
}

func New(st *store.Store, api *client.SecureSightClient) *Syncer {
	return &Syncer{
		store:        st,
		api:          api,
		events:       make(chan models.ChangeEvent, 64),
		stop:         make(chan struct{}),
		pollInterval: DefaultPollInterval,
	}
}

// SetPollInterval overrides the fallback interval. Call before Start.
func (s *Syncer) SetPollInterval(d time.Duration) {
	if d > 0 {
		s.pollInterval = d
	}
}

// Start subscribes to the cameras and incidents channels and starts the
// dispatcher and the polling fallback. A failed subscription degrades to
// poll-only; Start never returns an error for it.
func (s *Syncer) Start() {
	for _, collection := range []string{models.CollectionCameras, models.CollectionIncidents} {
		url, err := s.api.RealtimeURL(collection)
		if err != nil {
			log.Printf("realtime: %s subscription unavailable, polling only: %v", collection, err)
			continue
		}

		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		if err != nil {
			log.Printf("realtime: %s subscription unavailable, polling only: %v", collection, err)
			continue
		}

		s.conns = append(s.conns, conn)
		s.wg.Add(1)
		go s.read(conn, collection)
	}

	s.wg.Add(2)
	go s.dispatch()
	go s.poll()
}

// read pumps one subscription into the shared event channel.
func (s *Syncer) read(conn *websocket.Conn, collection string) {
	defer s.wg.Done()

	for {
		var ev models.ChangeEvent
		if err := conn.ReadJSON(&ev); err != nil {
			select {
			case <-s.stop:
			default:
				log.Printf("realtime: %s subscription closed: %v", collection, err)
			}
			return
		}

		if ev.Collection == "" {
			ev.Collection = collection
		}

		select {
		case s.events <- ev:
		case <-s.stop:
			return
		}
	}
}

// dispatch is the single consumer of the event channel; store mutation
// stays decoupled from whichever transport produced the event.
func (s *Syncer) dispatch() {
	defer s.wg.Done()

	for {
		select {
		case ev := <-s.events:
			s.apply(ev)
		case <-s.stop:
			return
		}
	}
}

func (s *Syncer) apply(ev models.ChangeEvent) {
	switch ev.Collection {
	case models.CollectionCameras:
		// No incremental merge for cameras; any change re-fetches the
		// full collection.
		if err := s.store.FetchCameras(); err != nil {
			log.Printf("realtime: refresh cameras: %v", err)
		}
	case models.CollectionIncidents:
		switch ev.Kind {
		case models.ChangeInsert:
			if ev.New != nil {
				s.store.AddIncident(*ev.New)
			}
		case models.ChangeUpdate:
			if ev.New != nil {
				s.store.UpdateIncident(ev.New.ID, *ev.New)
			}
		case models.ChangeDelete:
			if ev.Old != nil {
				s.store.RemoveIncident(ev.Old.ID)
			}
		}
	}
}

func (s *Syncer) poll() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.store.FetchIncidents(client.FilterUnresolved); err != nil {
				log.Printf("realtime: poll incidents: %v", err)
			}
		case <-s.stop:
			return
		}
	}
}

// Cleanup unsubscribes both channels and stops the poller. Safe to call
// more than once; blocks until all goroutines have exited.
func (s *Syncer) Cleanup() {
	s.stopOnce.Do(func() {
		close(s.stop)
		for _, conn := range s.conns {
			conn.Close()
		}
		s.wg.Wait()
	})
}
