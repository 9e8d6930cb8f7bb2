package dispatch

import (
	"reflect"
	"sync"

	"github.com/rs/zerolog"
)

// EventType returns the dispatch key for E. It exists so call sites
// can register handlers without spelling out reflect.TypeOf themselves:
//
//	reg.Register(dispatch.EventType[domain.RateUpdated](), onRateUpdated)
func EventType[E any]() reflect.Type {
	return reflect.TypeOf((*E)(nil)).Elem()
}

// Registry accumulates validated handler descriptors per event type
// during setup. Build seals it; registrations after that are rejected,
// so the dispatch table can be immutable for the process lifetime.
type Registry struct {
	log zerolog.Logger

	mu       sync.Mutex
	sealed   bool
	order    []reflect.Type              // event types in first-registration order
	handlers map[reflect.Type][]*descriptor
}

// NewRegistry creates an empty registry.
func NewRegistry(baseLogger *zerolog.Logger) *Registry {
	return &Registry{
		log:      baseLogger.With().Str("component", "dispatch_registry").Logger(),
		handlers: make(map[reflect.Type][]*descriptor),
	}
}

// Register validates handler against eventType and appends it to the
// ordered handler list for that type. Validation is eager: a handler
// with an unsupported shape fails here, at setup time, never at
// dispatch time.
func (r *Registry) Register(eventType reflect.Type, handler any) error {
	d, err := newDescriptor(eventType, handler)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return &ValidationError{Reason: "registry sealed"}
	}

	if _, seen := r.handlers[eventType]; !seen {
		r.order = append(r.order, eventType)
	}
	r.handlers[eventType] = append(r.handlers[eventType], d)

	r.log.Info().
		Str("event_type", eventType.String()).
		Str("handler", d.name()).
		Int("deps", len(d.deps)).
		Msg("Registered handler")
	return nil
}

// seal marks the registry read-only and returns its contents in
// registration order. Called exactly once, by Build.
func (r *Registry) seal() ([]reflect.Type, map[reflect.Type][]*descriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sealed = true
	return r.order, r.handlers
}
