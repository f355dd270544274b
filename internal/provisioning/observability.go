package provisioning

import (
	"fmt"
	"log"
	"maps"
	"slices"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
)

// Observer receives structured events while a pod is provisioned.
type Observer interface {
	// Event emits a structured event.
	Event(event Event)

	// Warn reports a recoverable problem. Polling continues afterwards.
	Warn(message string, err error)

	// WithFields returns a new Observer with additional context fields.
	WithFields(fields map[string]string) Observer
}

// Event represents a structured provisioning event.
type Event struct {
	Type      EventType         // Type of event
	Phase     string            // Phase name (e.g., "create", "await")
	Message   string            // Human-readable message
	Resource  string            // Pod id or name if applicable
	Timestamp time.Time         // When the event occurred
	Fields    map[string]string // Additional contextual fields
}

// EventType represents the type of provisioning event.
type EventType string

const (
	// EventPhaseStarted indicates a provisioning phase has started.
	EventPhaseStarted EventType = "phase.started"
	// EventPhaseCompleted indicates a provisioning phase completed successfully.
	EventPhaseCompleted EventType = "phase.completed"
	// EventPhaseFailed indicates a provisioning phase failed.
	EventPhaseFailed EventType = "phase.failed"

	// EventPodCreating indicates a deploy request is being submitted.
	EventPodCreating EventType = "pod.creating"
	// EventPodCreated indicates the provider accepted the deploy request.
	EventPodCreated EventType = "pod.created"
	// EventPodPolled indicates a status snapshot was fetched.
	EventPodPolled EventType = "pod.polled"
	// EventPodReady indicates the pod passed the readiness rule.
	EventPodReady EventType = "pod.ready"
)

// Phases reported by the orchestrator.
const (
	PhaseCreate = "create"
	PhaseAwait  = "await"
)

// LogObserver implements Observer on top of a logr.Logger.
// Poll snapshots are logged at V(1) so they only show with --verbose.
type LogObserver struct {
	logger        logr.Logger
	contextFields map[string]string
}

// NewLogObserver creates an observer that writes to logger.
func NewLogObserver(logger logr.Logger) *LogObserver {
	return &LogObserver{
		logger:        logger,
		contextFields: make(map[string]string),
	}
}

// NewNoopObserver returns an observer that discards everything.
func NewNoopObserver() *LogObserver {
	return NewLogObserver(logr.Discard())
}

// NewConsoleLogger returns a logr.Logger that prints through the standard
// log package. Higher verbosity shows more detail.
func NewConsoleLogger(verbosity int) logr.Logger {
	return funcr.New(func(prefix, args string) {
		if prefix != "" {
			log.Printf("%s: %s", prefix, args)
			return
		}
		log.Print(args)
	}, funcr.Options{Verbosity: verbosity})
}

// Event implements Observer.
func (o *LogObserver) Event(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	kv := []any{"event", string(event.Type)}
	if event.Phase != "" {
		kv = append(kv, "phase", event.Phase)
	}
	if event.Resource != "" {
		kv = append(kv, "resource", event.Resource)
	}
	kv = append(kv, o.fieldValues(event.Fields)...)

	logger := o.logger
	if event.Type == EventPodPolled {
		logger = logger.V(1)
	}
	logger.Info(event.Message, kv...)
}

// Warn implements Observer.
func (o *LogObserver) Warn(message string, err error) {
	kv := append([]any{"severity", "warning"}, o.fieldValues(nil)...)
	if err != nil {
		kv = append(kv, "error", err.Error())
	}
	o.logger.Info(message, kv...)
}

// WithFields implements Observer.
func (o *LogObserver) WithFields(fields map[string]string) Observer {
	merged := make(map[string]string, len(o.contextFields)+len(fields))
	maps.Copy(merged, o.contextFields)
	maps.Copy(merged, fields)
	return &LogObserver{
		logger:        o.logger,
		contextFields: merged,
	}
}

// fieldValues flattens context and event fields into sorted key/value pairs.
// Event fields win over context fields with the same key.
func (o *LogObserver) fieldValues(fields map[string]string) []any {
	merged := make(map[string]string, len(o.contextFields)+len(fields))
	maps.Copy(merged, o.contextFields)
	maps.Copy(merged, fields)

	kv := make([]any, 0, 2*len(merged))
	for _, k := range slices.Sorted(maps.Keys(merged)) {
		kv = append(kv, k, merged[k])
	}
	return kv
}

// LogPhaseStart logs a phase start event.
func LogPhaseStart(observer Observer, phase string) {
	observer.Event(Event{
		Type:    EventPhaseStarted,
		Phase:   phase,
		Message: "starting",
	})
}

// LogPhaseComplete logs a phase completion event.
func LogPhaseComplete(observer Observer, phase string, duration time.Duration) {
	observer.Event(Event{
		Type:    EventPhaseCompleted,
		Phase:   phase,
		Message: fmt.Sprintf("completed in %v", duration.Round(time.Millisecond)),
	})
}

// LogPhaseFailed logs a phase failure event.
func LogPhaseFailed(observer Observer, phase string, err error) {
	observer.Event(Event{
		Type:    EventPhaseFailed,
		Phase:   phase,
		Message: fmt.Sprintf("failed: %v", err),
	})
}
