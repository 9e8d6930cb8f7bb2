package gateway

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"AsaDispatch/internal/dispatch"
)

// EventSink is what the source needs from the engine: the dispatch
// entry point. *dispatch.Dispatcher satisfies it.
type EventSink interface {
	Dispatch(ctx context.Context, event any) dispatch.Result
}

var ErrSourceClosed = errors.New("gateway: source closed")

// Source is an in-memory stand-in for the real event transport: a
// buffered feed of events pumped one at a time into the sink. It owns
// delivery ordering across distinct events; everything per-event is
// the dispatcher's problem.
type Source struct {
	log    zerolog.Logger
	sink   EventSink
	events chan any
}

// NewSource creates a source with the given buffer size.
func NewSource(sink EventSink, buffer int, baseLogger *zerolog.Logger) *Source {
	if buffer < 0 {
		buffer = 0
	}
	return &Source{
		log:    baseLogger.With().Str("component", "gateway_source").Logger(),
		sink:   sink,
		events: make(chan any, buffer),
	}
}

// Emit queues one event for dispatch. It blocks when the buffer is
// full and gives up if ctx is cancelled first.
func (s *Source) Emit(ctx context.Context, event any) error {
	select {
	case s.events <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the feed. Run drains whatever was already queued and
// then returns.
func (s *Source) Close() {
	close(s.events)
}

// Run pumps queued events into the sink until the source is closed or
// ctx is cancelled. Aggregate failures are logged here; a failing
// handler never stops the pump.
func (s *Source) Run(ctx context.Context) error {
	s.log.Info().Msg("Gateway source running")
	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("Gateway source stopped by context")
			return ctx.Err()
		case event, ok := <-s.events:
			if !ok {
				s.log.Info().Msg("Gateway source drained")
				return nil
			}
			result := s.sink.Dispatch(ctx, event)
			if !result.IsSuccess() {
				s.log.Warn().
					Errs("failures", result.Failures()).
					Msg("Event dispatched with failures")
			}
		}
	}
}
