package telemetry

import (
	"github.com/sirupsen/logrus"
)

// LogObserver writes events to a logrus logger. Failure stages go out at warn,
// the final result at info, everything else at debug.
type LogObserver struct {
	log *logrus.Logger
}

func NewLogObserver(log *logrus.Logger) *LogObserver {
	return &LogObserver{log: log}
}

func (o *LogObserver) Observe(e Event) {
	fields := logrus.Fields{
		"invocation": e.InvocationID,
		"stage":      string(e.Stage),
	}
	for k, v := range e.Fields {
		fields[k] = v
	}

	entry := o.log.WithFields(fields)
	if e.Err != nil {
		entry = entry.WithError(e.Err)
	}

	switch {
	case e.Stage.Failed():
		entry.Warn("Falling back to default configuration")
	case e.Stage == StageInferenceError:
		entry.Warn("Inference request failed")
	case e.Stage == StageResult:
		entry.Info("Mission configuration ready")
	default:
		entry.Debug("Pipeline stage reached")
	}
}
