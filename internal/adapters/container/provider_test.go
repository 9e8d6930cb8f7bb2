package container

import (
	"reflect"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AsaDispatch/internal/core/ports"
)

type greeter interface {
	Greet() string
}

type stubGreeter struct{ msg string }

func (g *stubGreeter) Greet() string { return g.msg }

func newTestProvider() *Provider {
	nopLogger := zerolog.Nop()
	return New(&nopLogger)
}

func TestProvider_ResolveInstanceByConcreteType(t *testing.T) {
	p := newTestProvider()
	g := &stubGreeter{msg: "hi"}
	p.RegisterInstance(g)

	got, err := p.Resolve(reflect.TypeOf(&stubGreeter{}))
	require.NoError(t, err)
	assert.Same(t, g, got)
}

func TestProvider_ResolveByInterfaceType(t *testing.T) {
	p := newTestProvider()
	As[greeter](p, &stubGreeter{msg: "hello"})

	got, err := p.Resolve(reflect.TypeOf((*greeter)(nil)).Elem())
	require.NoError(t, err)
	assert.Equal(t, "hello", got.(greeter).Greet())
}

func TestProvider_FactoryRunsFreshPerResolve(t *testing.T) {
	p := newTestProvider()
	built := 0
	Factory(p, func() (*stubGreeter, error) {
		built++
		return &stubGreeter{msg: "fresh"}, nil
	})

	target := reflect.TypeOf(&stubGreeter{})
	first, err := p.Resolve(target)
	require.NoError(t, err)
	second, err := p.Resolve(target)
	require.NoError(t, err)

	assert.Equal(t, 2, built)
	assert.NotSame(t, first, second)
}

func TestProvider_UnknownTypeNotResolvable(t *testing.T) {
	p := newTestProvider()

	_, err := p.Resolve(reflect.TypeOf((*greeter)(nil)).Elem())
	require.Error(t, err)
	assert.ErrorIs(t, err, ports.ErrNotResolvable)
}
