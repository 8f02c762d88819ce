package app

import (
	"errors"
	"testing"

	"github.com/inkglass/corepad/internal/plugin"
)

func newTestScheduler(t *testing.T, queueCap int) (*Scheduler, *Session, *Diagnostics) {
	t.Helper()
	session := NewSession()
	session.OpenScratch("hello")
	api := plugin.NewDocumentAPI(session.Document, plugin.NewCommandRegistry())
	diag := NewDiagnostics(16)
	return NewScheduler(session, api, diag, nil, queueCap), session, diag
}

func TestSchedulerTickRunsQueuedCommands(t *testing.T) {
	sched, _, _ := newTestScheduler(t, 8)
	ran := false
	sched.Enqueue(func(*Session, *plugin.DocumentAPI) error {
		ran = true
		return nil
	})
	if n := sched.Tick(); n != 1 {
		t.Fatalf("want 1 command run, got %d", n)
	}
	if !ran {
		t.Fatal("want command to have executed")
	}
}

func TestSchedulerTickRecordsCommandErrors(t *testing.T) {
	sched, _, diag := newTestScheduler(t, 8)
	sched.Enqueue(func(*Session, *plugin.DocumentAPI) error {
		return errors.New("boom")
	})
	sched.Tick()
	if diag.Len() != 1 {
		t.Fatalf("want 1 diagnostic entry, got %d", diag.Len())
	}
}

func TestSchedulerDropsOnFullQueue(t *testing.T) {
	sched, _, diag := newTestScheduler(t, 1)
	sched.Enqueue(func(*Session, *plugin.DocumentAPI) error { return nil })
	sched.Enqueue(func(*Session, *plugin.DocumentAPI) error { return nil })
	if sched.Pending() != 1 {
		t.Fatalf("want queue capped at 1, got %d", sched.Pending())
	}
	if diag.Len() != 1 {
		t.Fatalf("want dropped enqueue recorded, got %d entries", diag.Len())
	}
}

func TestSchedulerTickDrainsEntireQueue(t *testing.T) {
	sched, _, _ := newTestScheduler(t, 8)
	count := 0
	for i := 0; i < 5; i++ {
		sched.Enqueue(func(*Session, *plugin.DocumentAPI) error {
			count++
			return nil
		})
	}
	if n := sched.Tick(); n != 5 {
		t.Fatalf("want 5 commands run, got %d", n)
	}
	if count != 5 {
		t.Fatalf("want all 5 commands to have executed, got %d", count)
	}
}
