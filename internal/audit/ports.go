package audit

import (
	"context"
	"time"
)

// Record is one persisted pipeline event.
type Record struct {
	ID           int64          `json:"id"`
	InvocationID string         `json:"invocation_id"`
	Stage        string         `json:"stage"`
	Fields       map[string]any `json:"fields,omitempty"`
	Error        string         `json:"error,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// Repo persists pipeline events.
type Repo interface {
	SaveEvent(ctx context.Context, rec Record) error
	GetInvocation(ctx context.Context, invocationID string) ([]Record, error)
}
