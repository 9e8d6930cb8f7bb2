package ports

import (
	"errors"
	"reflect"
)

// ErrNotResolvable is returned by a Resolver when no provider exists
// for the requested type.
var ErrNotResolvable = errors.New("no provider registered for requested type")

// Resolver is the narrow capability the dispatch engine requires from
// whatever dependency container hosts it. It is queried once per
// dependency slot per invoker call; the engine never caches the
// returned instances, so whatever scoping the container enforces
// (singleton, fresh-per-call, ...) is preserved.
type Resolver interface {
	// Resolve returns an instance assignable to t, or an error
	// wrapping ErrNotResolvable if the container has no provider
	// for that type.
	Resolve(t reflect.Type) (any, error)
}
