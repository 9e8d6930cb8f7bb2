package dispatch

import (
	"context"
	"reflect"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"AsaDispatch/internal/core/ports"
)

// Dispatcher is the runtime entry point: one incoming event in, one
// aggregate Result out. Safe for concurrent use; distinct Dispatch
// calls share only the immutable table and the resolver.
type Dispatcher struct {
	log      zerolog.Logger
	table    *Table
	resolver ports.Resolver
}

// NewDispatcher creates a dispatcher over a built table.
func NewDispatcher(table *Table, resolver ports.Resolver, baseLogger *zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		log:      baseLogger.With().Str("component", "dispatcher").Logger(),
		table:    table,
		resolver: resolver,
	}
}

// Dispatch runs every invoker registered for the event's exact type,
// sequentially, in registration order, regardless of prior failures.
// Handler failures (deliberate payloads and recovered panics alike)
// are collected into the Result; Dispatch itself never fails. An
// event with no registered handlers is a success and does not touch
// the resolver.
func (d *Dispatcher) Dispatch(ctx context.Context, event any) Result {
	if ctx == nil {
		ctx = context.Background()
	}
	if event == nil {
		return Result{}
	}

	tag := reflect.TypeOf(event)
	invokers := d.table.invokersFor(tag)
	if len(invokers) == 0 {
		return Result{}
	}

	log := d.log.With().
		Str("dispatch_id", uuid.NewString()).
		Str("event_type", tag.String()).
		Logger()

	var failures []error
	for i, invoke := range invokers {
		outcome := invoke(ctx, event, d.resolver)
		if outcome.IsSuccess() {
			continue
		}
		log.Warn().Err(outcome.Err()).Int("handler_index", i).Msg("Handler failed")
		failures = append(failures, outcome.Err())
	}

	log.Debug().
		Int("handlers", len(invokers)).
		Int("failures", len(failures)).
		Msg("Event dispatched")
	return Result{failures: failures}
}
