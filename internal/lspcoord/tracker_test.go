package lspcoord_test

import (
	"testing"

	"github.com/inkglass/corepad/internal/lspcoord"
)

func TestTrackerAcceptsMatchingRevision(t *testing.T) {
	tr := lspcoord.NewTracker()
	id := tr.Begin(3)
	if !tr.Accept(id, 3) {
		t.Fatal("expected a response for the still-current revision to be accepted")
	}
}

func TestTrackerDropsResponseAfterDocumentChanged(t *testing.T) {
	tr := lspcoord.NewTracker()
	id := tr.Begin(3)
	if tr.Accept(id, 4) {
		t.Fatal("expected a response issued against a stale revision to be dropped")
	}
}

func TestTrackerDropsCancelledRequest(t *testing.T) {
	tr := lspcoord.NewTracker()
	id := tr.Begin(1)
	tr.Cancel(id)
	if tr.Accept(id, 1) {
		t.Fatal("expected a cancelled request's response to be dropped")
	}
}

func TestTrackerCancelAllDropsEveryPendingRequest(t *testing.T) {
	tr := lspcoord.NewTracker()
	a := tr.Begin(1)
	b := tr.Begin(1)
	tr.CancelAll()
	if tr.Accept(a, 1) || tr.Accept(b, 1) {
		t.Fatal("expected CancelAll to drop every pending request")
	}
	if got := tr.Pending(); got != 0 {
		t.Fatalf("Pending() = %d, want 0", got)
	}
}

func TestTrackerAcceptConsumesID(t *testing.T) {
	tr := lspcoord.NewTracker()
	id := tr.Begin(1)
	if !tr.Accept(id, 1) {
		t.Fatal("first Accept should succeed")
	}
	if tr.Accept(id, 1) {
		t.Fatal("a second Accept for the same id should be dropped as already consumed")
	}
}
