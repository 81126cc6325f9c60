package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventTraceGenerated EventType = "trace_generated"
	EventCommit         EventType = "commit"
	EventAbort          EventType = "abort"
	EventPlayback       EventType = "playback"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id,omitempty"`
}

// TraceEvent is emitted when a trace has been generated (or discarded).
type TraceEvent struct {
	EventBase
	Family  string  `json:"family"`
	Kind    Kind    `json:"kind"`
	Steps   int     `json:"steps"`
	Outcome Outcome `json:"outcome"`
}

// CommitEvent is emitted after the committer has run for a resolved trace.
type CommitEvent struct {
	EventBase
	Family  string  `json:"family"`
	Kind    Kind    `json:"kind"`
	Outcome Outcome `json:"outcome"`
	Mutated bool    `json:"mutated"`
}

// PlaybackEvent is emitted on every controller transition.
type PlaybackEvent struct {
	EventBase
	From  PlaybackStatus `json:"from"`
	To    PlaybackStatus `json:"to"`
	Index int            `json:"index"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnTraceGenerated func(context.Context, *TraceEvent)
	OnAbort          func(context.Context, *TraceEvent)
	OnCommit         func(context.Context, *CommitEvent)
	OnPlayback       func(context.Context, *PlaybackEvent)
}
