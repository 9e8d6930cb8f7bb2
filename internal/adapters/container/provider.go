package container

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/rs/zerolog"

	"AsaDispatch/internal/core/ports"
)

// Provider is a small map-backed dependency container implementing
// ports.Resolver. Instances are returned as-is (singleton scope);
// factories run fresh on every Resolve call, so per-call scoping
// stays in the provider's hands, as the engine requires.
type Provider struct {
	log zerolog.Logger

	mu        sync.RWMutex
	instances map[reflect.Type]any
	factories map[reflect.Type]func() (any, error)
}

// New creates an empty provider.
func New(baseLogger *zerolog.Logger) *Provider {
	return &Provider{
		log:       baseLogger.With().Str("component", "provider").Logger(),
		instances: make(map[reflect.Type]any),
		factories: make(map[reflect.Type]func() (any, error)),
	}
}

// RegisterInstance registers value under its own concrete type.
func (p *Provider) RegisterInstance(value any) {
	p.register(reflect.TypeOf(value), value)
}

// As registers value under type T, which is how an implementation is
// offered to handlers that declare an interface dependency slot:
//
//	container.As[ports.RateStore](provider, store)
func As[T any](p *Provider, value T) {
	p.register(reflect.TypeOf((*T)(nil)).Elem(), value)
}

// Factory registers a constructor for T, invoked fresh on every
// resolution.
func Factory[T any](p *Provider, fn func() (T, error)) {
	t := reflect.TypeOf((*T)(nil)).Elem()

	p.mu.Lock()
	p.factories[t] = func() (any, error) { return fn() }
	p.mu.Unlock()

	p.log.Info().Str("type", t.String()).Msg("Registered factory")
}

func (p *Provider) register(t reflect.Type, value any) {
	if t == nil {
		return
	}
	p.mu.Lock()
	p.instances[t] = value
	p.mu.Unlock()

	p.log.Info().Str("type", t.String()).Msg("Registered instance")
}

// Resolve implements ports.Resolver.
func (p *Provider) Resolve(t reflect.Type) (any, error) {
	p.mu.RLock()
	value, haveInstance := p.instances[t]
	factory, haveFactory := p.factories[t]
	p.mu.RUnlock()

	if haveInstance {
		return value, nil
	}
	if haveFactory {
		return factory()
	}
	return nil, fmt.Errorf("%s: %w", t, ports.ErrNotResolvable)
}
