package dispatch

import "fmt"

// ValidationError reports an unsupported handler shape (or a
// registration attempted after the registry was sealed). It is
// returned synchronously by Register and is fatal to that
// registration only.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "dispatch: invalid handler: " + e.Reason
}

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// BuildError reports that a validated descriptor could not be
// compiled into the dispatch table, typically because a dependency
// slot's type has no provider. It aborts the whole build; the host
// must treat it as fatal to startup.
type BuildError struct {
	EventType string
	Handler   string
	Err       error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("dispatch: cannot build invoker for %s (handler %s): %v", e.EventType, e.Handler, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// HandlerFault is the failure payload produced when a handler panics.
// It is recovered at the invoker boundary so one handler's panic never
// aborts the remaining handlers or the Dispatch call itself.
type HandlerFault struct {
	Recovered any
}

func (e *HandlerFault) Error() string {
	return fmt.Sprintf("dispatch: handler panicked: %v", e.Recovered)
}
