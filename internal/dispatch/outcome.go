package dispatch

import "errors"

// Outcome is the uniform result every handler's return value is
// coerced into before it crosses the invoker boundary. The failure
// payload is a plain error.
type Outcome struct {
	ok  bool
	err error
}

// OK returns a successful Outcome.
func OK() Outcome {
	return Outcome{ok: true}
}

// Fail returns a failed Outcome carrying err as its payload.
// A nil err is normalized so a failure never loses its payload.
func Fail(err error) Outcome {
	if err == nil {
		err = errors.New("handler failed")
	}
	return Outcome{err: err}
}

// FromError maps the most common handler return shape: nil means
// success, anything else is a failure payload.
func FromError(err error) Outcome {
	if err != nil {
		return Fail(err)
	}
	return OK()
}

// IsSuccess reports whether the handler succeeded.
func (o Outcome) IsSuccess() bool {
	return o.ok
}

// Err returns the failure payload, or nil on success.
func (o Outcome) Err() error {
	if o.ok {
		return nil
	}
	return o.err
}

// Result is the aggregate outcome of one Dispatch call: every failure
// payload produced by the matched invokers, in registration order.
type Result struct {
	failures []error
}

// IsSuccess reports whether every matched handler succeeded.
// Zero matched handlers count as success.
func (r Result) IsSuccess() bool {
	return len(r.failures) == 0
}

// Failures returns the failure payloads in registration order.
func (r Result) Failures() []error {
	return r.failures
}
