package mission

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Vovarama1992/auv-mission-bridge/internal/ai"
	"github.com/Vovarama1992/auv-mission-bridge/internal/prompt"
	"github.com/Vovarama1992/auv-mission-bridge/internal/telemetry"
	"github.com/Vovarama1992/auv-mission-bridge/internal/vehicle"
)

const (
	SourceGenerated = "generated"
	SourceDefault   = "default"
)

type Service struct {
	ai       ai.AI
	defaults Defaults
	observer telemetry.Observer
	timeout  time.Duration
	newID    func() string
}

type Option func(*Service)

// WithTimeout bounds the inference call. Zero leaves only the caller's deadline.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

func WithObserver(o telemetry.Observer) Option {
	return func(s *Service) {
		if o != nil {
			s.observer = o
		}
	}
}

func NewService(aiClient ai.AI, defaults Defaults, opts ...Option) *Service {
	s := &Service{
		ai:       aiClient,
		defaults: defaults,
		observer: telemetry.Nop,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate runs one single-shot pipeline invocation:
// prompt -> inference -> parse -> validate. Every failure branch returns the
// active default document; the caller never sees an error.
func (s *Service) Generate(ctx context.Context, sensors map[string]any, command string) vehicle.Config {
	id := s.newID()
	ctx = telemetry.WithInvocation(ctx, id)

	s.emit(id, telemetry.StageStart, map[string]any{"command": command}, nil)

	payload, err := prompt.Build(sensors, command)
	if err != nil {
		return s.fallback(id, telemetry.StagePromptFailed, nil, err)
	}
	s.emit(id, telemetry.StagePrompted, map[string]any{"prompt": payload, "prompt_len": len(payload)}, nil)

	s.emit(id, telemetry.StageAwaitingResponse, nil, nil)
	raw, err := s.infer(ctx, payload)
	if err != nil {
		fields := map[string]any{}
		var f *ai.InferenceFailure
		if errors.As(err, &f) {
			fields["status"] = f.Status
			fields["reason"] = f.Reason
		}
		return s.fallback(id, telemetry.StageTransportFailed, fields, err)
	}

	doc, err := Decode(raw)
	if err != nil {
		fields := map[string]any{"raw": short(raw)}
		var pf *ParseFailure
		if errors.As(err, &pf) {
			fields["reason"] = pf.Reason
		}
		return s.fallback(id, telemetry.StageParseFailed, fields, err)
	}
	s.emit(id, telemetry.StageParsed, nil, nil)

	cfg, err := vehicle.ParseConfig(doc)
	if err != nil {
		fields := map[string]any{}
		var sv *vehicle.SchemaViolation
		if errors.As(err, &sv) {
			fields["field"] = sv.Field
			fields["value"] = sv.Value
			fields["constraint"] = sv.Constraint
		}
		return s.fallback(id, telemetry.StageValidationFailed, fields, err)
	}
	s.emit(id, telemetry.StageValidated, nil, nil)

	s.emit(id, telemetry.StageResult, resultFields(SourceGenerated, cfg), nil)
	return cfg
}

func (s *Service) infer(ctx context.Context, payload string) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	raw, err := s.ai.Complete(ctx, payload)
	if err == nil {
		return raw, nil
	}

	var f *ai.InferenceFailure
	if errors.As(err, &f) {
		return "", err
	}
	reason := "transport error"
	if errors.Is(err, context.DeadlineExceeded) {
		reason = "timeout"
	}
	return "", &ai.InferenceFailure{Reason: reason, Err: err}
}

func (s *Service) fallback(id string, stage telemetry.Stage, fields map[string]any, err error) vehicle.Config {
	s.emit(id, stage, fields, err)
	cfg := s.defaults.Current()
	s.emit(id, telemetry.StageResult, resultFields(SourceDefault, cfg), nil)
	return cfg
}

func (s *Service) emit(id string, stage telemetry.Stage, fields map[string]any, err error) {
	s.observer.Observe(telemetry.Event{
		InvocationID: id,
		Stage:        stage,
		At:           time.Now(),
		Fields:       fields,
		Err:          err,
	})
}

func resultFields(source string, cfg vehicle.Config) map[string]any {
	return map[string]any{
		"source":         source,
		"targets":        len(cfg.TargetSequence),
		"operation_mode": string(cfg.OperationMode),
		"transit_speed":  cfg.TransitSpeed,
	}
}
