package container

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/dig"

	"AsaDispatch/internal/core/ports"
)

func TestFromDig_ResolvesProvidedTypes(t *testing.T) {
	c := dig.New()
	require.NoError(t, c.Provide(func() *stubGreeter { return &stubGreeter{msg: "from dig"} }))
	require.NoError(t, c.Provide(func(g *stubGreeter) greeter { return g }))

	resolver := FromDig(c)

	got, err := resolver.Resolve(reflect.TypeOf(&stubGreeter{}))
	require.NoError(t, err)
	assert.Equal(t, "from dig", got.(*stubGreeter).msg)

	asIface, err := resolver.Resolve(reflect.TypeOf((*greeter)(nil)).Elem())
	require.NoError(t, err)
	assert.Equal(t, "from dig", asIface.(greeter).Greet())
}

func TestFromDig_MissingTypeNotResolvable(t *testing.T) {
	resolver := FromDig(dig.New())

	_, err := resolver.Resolve(reflect.TypeOf(&stubGreeter{}))
	require.Error(t, err)
	assert.ErrorIs(t, err, ports.ErrNotResolvable)
}
