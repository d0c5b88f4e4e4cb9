// Package telemetry carries pipeline observability events, decoupled from
// where they end up (logs, database, test recorders).
package telemetry

import (
	"sync"
	"time"
)

type Stage string

const (
	StageStart             Stage = "start"
	StagePromptFailed      Stage = "prompt_failed"
	StagePrompted          Stage = "prompted"
	StageAwaitingResponse  Stage = "awaiting_response"
	StageInferenceRequest  Stage = "inference_request"
	StageInferenceResponse Stage = "inference_response"
	StageInferenceError    Stage = "inference_error"
	StageTransportFailed   Stage = "transport_failed"
	StageParsed            Stage = "parsed"
	StageParseFailed       Stage = "parse_failed"
	StageValidated         Stage = "validated"
	StageValidationFailed  Stage = "validation_failed"
	StageResult            Stage = "result"
)

// Failed reports whether the stage is one of the recovered failure branches.
func (s Stage) Failed() bool {
	return s == StagePromptFailed || s == StageTransportFailed || s == StageParseFailed || s == StageValidationFailed
}

type Event struct {
	InvocationID string
	Stage        Stage
	At           time.Time
	Fields       map[string]any
	Err          error
}

// Observer receives pipeline events. Implementations must not block the caller
// for long and must never panic on malformed fields.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a plain function.
type ObserverFunc func(Event)

func (f ObserverFunc) Observe(e Event) { f(e) }

// Multi fans an event out to every non-nil observer in order.
type Multi []Observer

func (m Multi) Observe(e Event) {
	for _, o := range m {
		if o != nil {
			o.Observe(e)
		}
	}
}

// Nop discards events.
var Nop Observer = ObserverFunc(func(Event) {})

// Recorder keeps events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Observe(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

func (r *Recorder) Stages() []Stage {
	events := r.Events()
	out := make([]Stage, len(events))
	for i, e := range events {
		out[i] = e.Stage
	}
	return out
}

// Last returns the most recent event with the given stage.
func (r *Recorder) Last(stage Stage) (Event, bool) {
	events := r.Events()
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Stage == stage {
			return events[i], true
		}
	}
	return Event{}, false
}
