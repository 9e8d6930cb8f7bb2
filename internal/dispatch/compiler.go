package dispatch

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"AsaDispatch/internal/core/ports"
)

// Invoker is a compiled adapter bound to one registered handler:
// narrow the event, resolve the dependency slots, bind the context,
// call the handler, coerce whatever it returned into an Outcome.
// Invokers are immutable once compiled and safe for concurrent use.
type Invoker func(ctx context.Context, event any, resolver ports.Resolver) Outcome

// coercion turns a handler's raw return values into an Outcome. The
// right coercion is picked once per descriptor, at compile time, from
// the declared signature; nothing is inspected per call.
type coercion func(ctx context.Context, out []reflect.Value) Outcome

// compile synthesizes the invoker for d. It also probes the resolver
// for every dependency slot so a registration that can never work is
// rejected here, at build time, instead of failing on every event.
func compile(d *descriptor, resolver ports.Resolver) (Invoker, error) {
	for _, dep := range d.deps {
		if _, err := resolver.Resolve(dep); err != nil {
			return nil, fmt.Errorf("dependency slot %s: %w", dep, err)
		}
	}

	coerce := coercionFor(d.shape)
	eventType := d.eventType
	deps := d.deps
	wantsCtx := d.wantsCtx
	fn := d.fn

	return func(ctx context.Context, event any, resolver ports.Resolver) (out Outcome) {
		// A panicking handler must never abort the rest of the
		// dispatch sequence; it becomes a failure payload instead.
		defer func() {
			if rec := recover(); rec != nil {
				out = Fail(&HandlerFault{Recovered: rec})
			}
		}()

		ev := reflect.ValueOf(event)
		if !ev.IsValid() || ev.Type() != eventType {
			// The table lookup already decided applicability, so a
			// narrowing miss is a no-op, not a failure.
			return OK()
		}

		args := make([]reflect.Value, 0, len(deps)+2)
		args = append(args, ev)
		for _, dep := range deps {
			val, err := resolver.Resolve(dep)
			if err != nil {
				// Unreachable under a stable resolver: Build probed
				// this slot. Degrade to a failure payload rather than
				// take the whole dispatch down.
				return Fail(fmt.Errorf("resolve %s: %w", dep, err))
			}
			rv := reflect.ValueOf(val)
			if !rv.IsValid() {
				rv = reflect.Zero(dep)
			} else if !rv.Type().AssignableTo(dep) {
				return Fail(fmt.Errorf("resolver returned %T for dependency slot %s", val, dep))
			}
			args = append(args, rv)
		}
		if wantsCtx {
			args = append(args, reflect.ValueOf(ctx))
		}

		return coerce(ctx, fn.Call(args))
	}, nil
}

// coercionFor maps a return shape to its coercion, per the contract
// handler authors rely on: no return value and a nil error both mean
// success, an Outcome passes through unchanged, a (value, error) pair
// drops the value, and channel shapes are awaited first.
func coercionFor(shape returnShape) coercion {
	switch shape {
	case shapeNone:
		return func(context.Context, []reflect.Value) Outcome {
			return OK()
		}
	case shapeError:
		return func(_ context.Context, out []reflect.Value) Outcome {
			return FromError(errOf(out[0]))
		}
	case shapeOutcome:
		return func(_ context.Context, out []reflect.Value) Outcome {
			return out[0].Interface().(Outcome)
		}
	case shapeValueError:
		return func(_ context.Context, out []reflect.Value) Outcome {
			return FromError(errOf(out[1]))
		}
	case shapeErrorChan:
		return func(ctx context.Context, out []reflect.Value) Outcome {
			v, ok, err := await(ctx, out[0])
			if err != nil {
				return Fail(err)
			}
			if !ok {
				return OK() // closed without a value: handler is done
			}
			return FromError(errOf(v))
		}
	case shapeOutcomeChan:
		return func(ctx context.Context, out []reflect.Value) Outcome {
			v, ok, err := await(ctx, out[0])
			if err != nil {
				return Fail(err)
			}
			if !ok {
				return OK()
			}
			return v.Interface().(Outcome)
		}
	default:
		// Registration validated the shape; this cannot happen.
		panic(fmt.Sprintf("dispatch: unknown return shape %d", shape))
	}
}

// errOf unwraps a reflected error return value.
func errOf(v reflect.Value) error {
	if v.IsNil() {
		return nil
	}
	return v.Interface().(error)
}

// await receives one value from ch. A value that is already available
// wins even when the context is cancelled; otherwise a cancelled
// context abandons the wait so an unresponsive handler cannot wedge
// the dispatch call.
func await(ctx context.Context, ch reflect.Value) (reflect.Value, bool, error) {
	if ch.IsNil() {
		return reflect.Value{}, false, errors.New("handler returned a nil channel")
	}

	// TryRecv distinguishes "nothing yet" (invalid value) from
	// "closed" (valid zero value, ok false).
	if v, ok := ch.TryRecv(); ok || v.IsValid() {
		return v, ok, nil
	}

	chosen, v, ok := reflect.Select([]reflect.SelectCase{
		{Dir: reflect.SelectRecv, Chan: ch},
		{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(ctx.Done())},
	})
	if chosen == 1 {
		return reflect.Value{}, false, fmt.Errorf("handler result abandoned: %w", ctx.Err())
	}
	return v, ok, nil
}
