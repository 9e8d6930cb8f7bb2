package container

import (
	"fmt"
	"reflect"

	"go.uber.org/dig"

	"AsaDispatch/internal/core/ports"
)

// digResolver adapts a *dig.Container into ports.Resolver. dig has no
// resolve-by-type call of its own, so we build a one-parameter probe
// function for the requested type with reflect.MakeFunc and hand it
// to Container.Invoke, which fills the parameter from the graph.
type digResolver struct {
	c *dig.Container
}

// FromDig wraps an already-populated dig container so it can serve
// the engine's dependency slots.
func FromDig(c *dig.Container) ports.Resolver {
	return &digResolver{c: c}
}

// Resolve implements ports.Resolver.
func (r *digResolver) Resolve(t reflect.Type) (any, error) {
	var captured any

	probeType := reflect.FuncOf([]reflect.Type{t}, nil, false)
	probe := reflect.MakeFunc(probeType, func(args []reflect.Value) []reflect.Value {
		captured = args[0].Interface()
		return nil
	})

	if err := r.c.Invoke(probe.Interface()); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", t, ports.ErrNotResolvable, err)
	}
	return captured, nil
}
