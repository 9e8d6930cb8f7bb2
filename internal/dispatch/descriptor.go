package dispatch

import (
	"context"
	"reflect"
	"runtime"
)

// returnShape is the closed set of handler return signatures the
// engine accepts. The shape is decided once, at registration time,
// from the declared signature; invokers never inspect return values
// to figure out what they are.
type returnShape int

const (
	shapeNone        returnShape = iota // func(E, ...)
	shapeError                          // func(E, ...) error
	shapeOutcome                        // func(E, ...) Outcome
	shapeValueError                     // func(E, ...) (T, error), T discarded
	shapeErrorChan                      // func(E, ...) <-chan error
	shapeOutcomeChan                    // func(E, ...) <-chan Outcome
)

var (
	ctxType     = reflect.TypeOf((*context.Context)(nil)).Elem()
	errType     = reflect.TypeOf((*error)(nil)).Elem()
	outcomeType = reflect.TypeOf(Outcome{})
)

// descriptor is the validated metadata for one registered handler.
// Immutable after newDescriptor succeeds.
type descriptor struct {
	eventType reflect.Type
	fn        reflect.Value
	deps      []reflect.Type // dependency slots, in parameter order
	wantsCtx  bool           // last parameter is context.Context
	shape     returnShape
}

// name returns the handler's function name for error messages.
func (d *descriptor) name() string {
	if f := runtime.FuncForPC(d.fn.Pointer()); f != nil {
		return f.Name()
	}
	return d.fn.Type().String()
}

// newDescriptor validates handler against eventType per the
// registration rules:
//  1. handler must be a non-nil function with at least one parameter;
//  2. the first parameter's type must exactly match eventType;
//  3. the return signature must be one of the supported shapes;
//  4. an optional context.Context must be the last parameter; every
//     parameter strictly between the event and the context is a
//     dependency slot.
func newDescriptor(eventType reflect.Type, handler any) (*descriptor, error) {
	if eventType == nil {
		return nil, validationErrorf("event type is nil")
	}
	if handler == nil {
		return nil, validationErrorf("handler is nil")
	}

	fn := reflect.ValueOf(handler)
	ft := fn.Type()
	if ft.Kind() != reflect.Func {
		return nil, validationErrorf("handler must be a function, got %s", ft)
	}
	if ft.IsVariadic() {
		return nil, validationErrorf("variadic handlers are not supported")
	}
	if ft.NumIn() < 1 {
		return nil, validationErrorf("handler must accept the event as its first parameter")
	}
	if ft.In(0) != eventType {
		return nil, validationErrorf("first parameter is %s, want event type %s", ft.In(0), eventType)
	}

	shape, err := returnShapeOf(ft)
	if err != nil {
		return nil, err
	}

	d := &descriptor{
		eventType: eventType,
		fn:        fn,
		shape:     shape,
	}

	// Everything after the event parameter is a dependency slot,
	// except a trailing context.Context which is the cancellation
	// slot. A context anywhere else is a mistake we reject eagerly.
	last := ft.NumIn() - 1
	if last >= 1 && ft.In(last) == ctxType {
		d.wantsCtx = true
		last--
	}
	for i := 1; i <= last; i++ {
		if ft.In(i) == ctxType {
			return nil, validationErrorf("context.Context must be the last parameter")
		}
		d.deps = append(d.deps, ft.In(i))
	}

	return d, nil
}

// returnShapeOf classifies the declared return signature, or rejects it.
func returnShapeOf(ft reflect.Type) (returnShape, error) {
	switch ft.NumOut() {
	case 0:
		return shapeNone, nil
	case 1:
		out := ft.Out(0)
		switch {
		case out == errType:
			return shapeError, nil
		case out == outcomeType:
			return shapeOutcome, nil
		case isRecvChanOf(out, errType):
			return shapeErrorChan, nil
		case isRecvChanOf(out, outcomeType):
			return shapeOutcomeChan, nil
		}
		return 0, validationErrorf("unsupported return shape %s", out)
	case 2:
		if ft.Out(1) != errType {
			return 0, validationErrorf("unsupported return shape (%s, %s): second value must be error", ft.Out(0), ft.Out(1))
		}
		return shapeValueError, nil
	default:
		return 0, validationErrorf("unsupported return shape: %d return values", ft.NumOut())
	}
}

// isRecvChanOf reports whether t is a channel carrying elem that the
// invoker can receive from.
func isRecvChanOf(t reflect.Type, elem reflect.Type) bool {
	return t.Kind() == reflect.Chan && t.ChanDir()&reflect.RecvDir != 0 && t.Elem() == elem
}
