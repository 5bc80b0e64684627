package store

import (
	"errors"
	"testing"

	"github.com/StrungPattern-coder/SecureSight/pkg/models"
)

func TestResolveIncident_Confirmed(t *testing.T) {
	api := &fakeAPI{incidents: []models.Incident{incident(1, false), incident(2, false)}}
	st := New(api)
	st.AddIncident(incident(2, false))
	st.AddIncident(incident(1, false))

	result, err := st.ResolveIncident(1)
	if err != nil {
		t.Fatalf("ResolveIncident: %v", err)
	}
	if result != ResolveConfirmed {
		t.Fatalf("expected ResolveConfirmed, got %v", result)
	}

	got, ok := st.Incident(1)
	if !ok || !got.Resolved {
		t.Fatalf("incident 1 should be resolved locally, got %+v", got)
	}

	// A later re-fetch of the same remote state must be idempotent.
	confirmed := incident(1, true)
	st.UpdateIncident(1, confirmed)
	got, _ = st.Incident(1)
	if !got.Resolved {
		t.Error("resolved state lost after confirming update")
	}
}

func TestResolveIncident_RollbackOnFailure(t *testing.T) {
	api := &fakeAPI{
		resolveFn: func(id int64) (*models.Incident, error) {
			return nil, errors.New("503 service unavailable")
		},
	}
	st := New(api)
	st.AddIncident(incident(2, false))
	st.AddIncident(incident(1, false))

	result, err := st.ResolveIncident(1)
	if err == nil {
		t.Fatal("expected resolve error")
	}
	if result != ResolveRolledBack {
		t.Fatalf("expected ResolveRolledBack, got %v", result)
	}

	got, _ := st.Incident(1)
	if got.Resolved {
		t.Error("incident 1 should be rolled back to unresolved")
	}
	other, _ := st.Incident(2)
	if other.Resolved || other.Severity != models.SeverityHigh {
		t.Errorf("unrelated incident altered by rollback: %+v", other)
	}
}

func TestResolveIncident_OptimisticApplyVisibleBeforeRemote(t *testing.T) {
	applied := make(chan bool, 1)
	release := make(chan struct{})

	st := New(nil)
	api := &fakeAPI{
		resolveFn: func(id int64) (*models.Incident, error) {
			// The local flag must already be set while the remote call
			// is still in flight.
			got, _ := st.Incident(id)
			applied <- got.Resolved
			<-release
			return nil, nil
		},
	}
	st.api = api
	st.AddIncident(incident(1, false))

	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := st.ResolveIncident(1); err != nil {
			t.Errorf("ResolveIncident: %v", err)
		}
	}()

	if !<-applied {
		t.Error("optimistic apply not visible before remote completion")
	}
	close(release)
	<-done
}

func TestResolveIncident_AlreadyResolvedIsNoop(t *testing.T) {
	api := &fakeAPI{
		resolveFn: func(id int64) (*models.Incident, error) {
			return nil, errors.New("network down")
		},
	}
	st := New(api)
	st.AddIncident(incident(1, true))

	// The failed call captured a prior value of true, so the rollback must
	// restore true, not blindly clear the flag.
	if _, err := st.ResolveIncident(1); err == nil {
		t.Fatal("expected resolve error")
	}

	got, _ := st.Incident(1)
	if !got.Resolved {
		t.Error("rollback clobbered an already-resolved incident")
	}
}

func TestResolveIncident_StaleRollbackDoesNotClobberConcurrentSuccess(t *testing.T) {
	st := New(nil)

	firstEntered := make(chan struct{})
	releaseFirst := make(chan struct{})
	calls := 0

	api := &fakeAPI{}
	api.resolveFn = func(id int64) (*models.Incident, error) {
		api.mu.Lock()
		calls++
		n := calls
		api.mu.Unlock()
		if n == 1 {
			close(firstEntered)
			<-releaseFirst
			return nil, errors.New("504 gateway timeout")
		}
		inc := incident(id, true)
		return &inc, nil
	}
	st.api = api
	st.AddIncident(incident(1, false))

	firstDone := make(chan struct{})
	go func() {
		defer close(firstDone)
		st.ResolveIncident(1)
	}()
	<-firstEntered

	// A second resolve for the same id succeeds while the first is stuck.
	result, err := st.ResolveIncident(1)
	if err != nil || result != ResolveConfirmed {
		t.Fatalf("second resolve should confirm, got %v, %v", result, err)
	}

	// Now the first call fails. Its rollback is stale and must not undo
	// the confirmed success.
	close(releaseFirst)
	<-firstDone

	got, _ := st.Incident(1)
	if !got.Resolved {
		t.Error("stale rollback clobbered a confirmed concurrent resolve")
	}
}
