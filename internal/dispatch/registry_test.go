package dispatch

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AsaDispatch/internal/core/ports"
)

// --- Test fixtures ---

type pingEvent struct{ N int }
type otherEvent struct{ S string }

type fakeRepo struct{ hits int }

// stubResolver resolves from a fixed set of instances, keyed by their
// concrete type, and counts every Resolve call.
type stubResolver struct {
	values map[reflect.Type]any
	calls  int
}

func resolverWith(values ...any) *stubResolver {
	s := &stubResolver{values: make(map[reflect.Type]any)}
	for _, v := range values {
		s.values[reflect.TypeOf(v)] = v
	}
	return s
}

func (s *stubResolver) Resolve(t reflect.Type) (any, error) {
	s.calls++
	if v, ok := s.values[t]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("%s: %w", t, ports.ErrNotResolvable)
}

func newTestRegistry() *Registry {
	nopLogger := zerolog.Nop()
	return NewRegistry(&nopLogger)
}

// --- Tests ---

func TestRegistry_Register_SupportedShapes(t *testing.T) {
	reg := newTestRegistry()
	ping := EventType[pingEvent]()

	handlers := []any{
		func(pingEvent) {},
		func(pingEvent) error { return nil },
		func(pingEvent) Outcome { return OK() },
		func(pingEvent) (string, error) { return "ignored", nil },
		func(pingEvent) <-chan error { return nil },
		func(pingEvent) <-chan Outcome { return nil },
		func(pingEvent, *fakeRepo) error { return nil },
		func(pingEvent, *fakeRepo, context.Context) error { return nil },
		func(pingEvent, context.Context) {},
	}
	for i, h := range handlers {
		require.NoError(t, reg.Register(ping, h), "handler %d should be accepted", i)
	}
}

func TestRegistry_Register_RejectsInvalidHandlers(t *testing.T) {
	reg := newTestRegistry()
	ping := EventType[pingEvent]()

	cases := []struct {
		name    string
		event   reflect.Type
		handler any
	}{
		{"nil handler", ping, nil},
		{"not a function", ping, "definitely not a function"},
		{"no parameters", ping, func() {}},
		{"wrong event type", ping, func(otherEvent) {}},
		{"unsupported return shape", ping, func(pingEvent) string { return "" }},
		{"unsupported pair shape", ping, func(pingEvent) (int, string) { return 0, "" }},
		{"three return values", ping, func(pingEvent) (int, int, error) { return 0, 0, nil }},
		{"context not last", ping, func(pingEvent, context.Context, *fakeRepo) error { return nil }},
		{"variadic", ping, func(pingEvent, ...int) {}},
		{"send-only channel", ping, func(pingEvent) chan<- error { return nil }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := reg.Register(tc.event, tc.handler)
			require.Error(t, err)

			var verr *ValidationError
			assert.True(t, errors.As(err, &verr), "want *ValidationError, got %T", err)
		})
	}
}

func TestRegistry_Register_AfterSealFails(t *testing.T) {
	reg := newTestRegistry()
	ping := EventType[pingEvent]()
	require.NoError(t, reg.Register(ping, func(pingEvent) {}))

	nopLogger := zerolog.Nop()
	_, err := Build(reg, resolverWith(), &nopLogger)
	require.NoError(t, err)

	err = reg.Register(ping, func(pingEvent) {})
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "registry sealed", verr.Reason)
}

func TestRegistry_DependencySlots(t *testing.T) {
	// The dependency slots are the parameters strictly between the
	// event and the trailing context.
	d, err := newDescriptor(EventType[pingEvent](), func(pingEvent, *fakeRepo, *stubResolver, context.Context) error {
		return nil
	})
	require.NoError(t, err)

	require.Len(t, d.deps, 2)
	assert.Equal(t, reflect.TypeOf(&fakeRepo{}), d.deps[0])
	assert.True(t, d.wantsCtx)
	assert.Equal(t, shapeError, d.shape)
}
