package ai

import (
	"context"
	"fmt"
)

// AI is the external text generator. It knows nothing about vehicles:
// it takes a prompt and returns the raw completion text.
type AI interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// InferenceFailure is any failure to obtain a completion: transport errors,
// non-2xx responses, timeouts, and envelopes without choices[0].message.content.
type InferenceFailure struct {
	Status int // HTTP status, 0 when no response was received
	Reason string
	Err    error
}

func (e *InferenceFailure) Error() string {
	msg := "inference failure: " + e.Reason
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *InferenceFailure) Unwrap() error { return e.Err }
