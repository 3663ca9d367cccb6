package audit

import (
	"context"
	"sync"
	"time"

	"github.com/Aleph-Alpha/catalog-ingest/v1/logger"
)

// Action names an auditable outcome of an upload.
type Action string

const (
	ActionUploadRejected   Action = "catalog.upload.rejected"
	ActionVersionFailed    Action = "catalog.version.failed"
	ActionVersionActivated Action = "catalog.version.activated"
)

// Common metadata keys.
const (
	KeyProviderID = "providerId"
	KeyVersionID  = "catalogVersionId"
	KeyFileRef    = "fileRef"
	KeyActor      = "actor"
	KeyReason     = "reason"
)

// Event is what publishers receive.
type Event struct {
	Action     Action            `json:"action"`
	Metadata   map[string]string `json:"metadata"`
	OccurredAt time.Time         `json:"occurredAt"`
	// Trace carries propagation fields of the span that recorded the event.
	Trace map[string]string `json:"-"`
}

//go:generate mockgen -source=audit.go -destination=mock_publisher.go -package=audit

// Publisher delivers one event to an external channel.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Recorder is the narrow interface the pipeline depends on.
type Recorder interface {
	Record(ctx context.Context, action Action, metadata map[string]string)
}

// Sink queues events and publishes them from a background worker. Record
// never blocks or panics: when the buffer is full, or the sink is already
// closed, the event is dropped with a warning. Publisher errors are logged
// and otherwise ignored.
type Sink struct {
	publisher Publisher
	log       logger.Logger
	queue     chan Event
	carrier   func(ctx context.Context) map[string]string
	now       func() time.Time

	publishTimeout time.Duration
	done           chan struct{}

	// mu guards closed; Record holds it shared while sending so Close
	// cannot close the queue underneath it.
	mu     sync.RWMutex
	closed bool
}

type Option func(*Sink)

// WithCarrier stamps each event with trace propagation fields taken from
// the recording context.
func WithCarrier(fn func(ctx context.Context) map[string]string) Option {
	return func(s *Sink) { s.carrier = fn }
}

// WithClock overrides the event timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Sink) { s.now = now }
}

// NewSink starts the worker. Call Close to drain and stop it.
func NewSink(publisher Publisher, log logger.Logger, buffer int, opts ...Option) *Sink {
	if buffer <= 0 {
		buffer = 256
	}
	s := &Sink{
		publisher:      publisher,
		log:            log,
		queue:          make(chan Event, buffer),
		now:            time.Now,
		publishTimeout: 10 * time.Second,
		done:           make(chan struct{}),
	}
	for _, o := range opts {
		o(s)
	}
	go s.run()
	return s
}

// Record enqueues an event.
func (s *Sink) Record(ctx context.Context, action Action, metadata map[string]string) {
	ev := Event{Action: action, Metadata: copyMetadata(metadata), OccurredAt: s.now().UTC()}
	if s.carrier != nil {
		ev.Trace = s.carrier(ctx)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		s.log.WarnWithContext(ctx, "audit sink closed, dropping event", nil, map[string]interface{}{
			"action":   string(action),
			"metadata": metadata,
		})
		return
	}

	select {
	case s.queue <- ev:
	default:
		s.log.WarnWithContext(ctx, "audit buffer full, dropping event", nil, map[string]interface{}{
			"action":   string(action),
			"metadata": metadata,
		})
	}
}

// Close stops accepting events, publishes what is queued and waits for the
// worker to exit or ctx to expire.
func (s *Sink) Close(ctx context.Context) error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.queue)
	}
	s.mu.Unlock()

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Sink) run() {
	defer close(s.done)
	for ev := range s.queue {
		ctx, cancel := context.WithTimeout(context.Background(), s.publishTimeout)
		err := s.publisher.Publish(ctx, ev)
		cancel()
		if err != nil {
			s.log.Error("failed to publish audit event", err, map[string]interface{}{
				"action":   string(ev.Action),
				"metadata": ev.Metadata,
			})
		}
	}
}

func copyMetadata(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
