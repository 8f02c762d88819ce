package app

import (
	"fmt"
	"time"

	"github.com/inkglass/corepad/internal/plugin"
)

// Command is one message queued for the main task: a plugin mutation, an
// LSP reply, or any other cross-thread request that must run to
// completion on the single-threaded scheduler.
type Command func(*Session, *plugin.DocumentAPI) error

// Scheduler is the cooperative main task: it owns the Session and the
// DocumentAPI plugins and LSP collaborators mutate through, and drains its
// inbound command queue with non-blocking reads once per tick, never
// blocking mid-tick on an outbound response. A queue at capacity drops the
// command being enqueued (the newest) and records it to Diagnostics rather than
// blocking the collaborator thread that sent it — collaborators are
// expected to be resilient to a dropped, superseded message (see
// internal/lspcoord.Tracker for the request-ID/revision staleness half of
// that contract).
type Scheduler struct {
	session     *Session
	api         *plugin.DocumentAPI
	diagnostics *Diagnostics
	logger      *Logger

	commands chan Command
}

// NewScheduler returns a Scheduler with a queue of the given capacity.
func NewScheduler(session *Session, api *plugin.DocumentAPI, diagnostics *Diagnostics, logger *Logger, queueCapacity int) *Scheduler {
	if queueCapacity <= 0 {
		queueCapacity = 256
	}
	return &Scheduler{
		session:     session,
		api:         api,
		diagnostics: diagnostics,
		logger:      logger,
		commands:    make(chan Command, queueCapacity),
	}
}

// Enqueue submits cmd for execution on the next tick. It never blocks: if
// the queue is full, cmd is dropped and recorded as an
// external-collaborator trace.
func (s *Scheduler) Enqueue(cmd Command) {
	select {
	case s.commands <- cmd:
	default:
		if s.diagnostics != nil {
			s.diagnostics.Record(TraceExternalCollaborator, "command queue full, message dropped")
		}
		if s.logger != nil {
			s.logger.Warn("scheduler: command queue full, dropping message")
		}
	}
}

// Tick drains every command currently queued, running each to completion
// in arrival order, and returns how many ran. A command's error is
// recorded to Diagnostics rather than propagated, so malformed or stale
// external-collaborator input never crashes the core.
func (s *Scheduler) Tick() int {
	ran := 0
	for {
		select {
		case cmd := <-s.commands:
			if err := cmd(s.session, s.api); err != nil {
				if s.diagnostics != nil {
					s.diagnostics.Record(TraceExternalCollaborator, fmt.Sprintf("command failed: %v", err))
				}
				if s.logger != nil {
					s.logger.Warn("scheduler: command error: %v", err)
				}
			}
			ran++
		default:
			return ran
		}
	}
}

// Run ticks at the given interval until stop is closed.
func (s *Scheduler) Run(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.Tick()
		}
	}
}

// Pending returns the number of commands currently queued.
func (s *Scheduler) Pending() int {
	return len(s.commands)
}
