package domain

import "time"

// PlaybackStatus is the state of the playback controller.
type PlaybackStatus string

const (
	StatusIdle     PlaybackStatus = "idle"     // No trace loaded
	StatusReady    PlaybackStatus = "ready"    // Trace loaded, cursor before the first step
	StatusStepping PlaybackStatus = "stepping" // Cursor inside the trace, not auto-advancing
	StatusPlaying  PlaybackStatus = "playing"  // Auto-advancing on a timer
	StatusFinished PlaybackStatus = "finished" // Cursor on the last step
)

// PlaybackState represents the cursor over the current trace.
type PlaybackState struct {
	// Index is the current step, -1 before the first step.
	Index int `json:"index"`

	// Len is the length of the loaded trace (0 when idle).
	Len int `json:"len"`

	Status  PlaybackStatus `json:"status"`
	Playing bool           `json:"playing"`

	// Speed is the delay between automatic steps.
	Speed time.Duration `json:"speed"`
}
