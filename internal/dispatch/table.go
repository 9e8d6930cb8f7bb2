package dispatch

import (
	"reflect"

	"github.com/rs/zerolog"

	"AsaDispatch/internal/core/ports"
)

// Table is the sealed dispatch table: event type to ordered invoker
// list, registration order preserved. Built exactly once by Build and
// read-only afterwards, so concurrent Dispatch calls can read it
// without synchronization.
type Table struct {
	invokers map[reflect.Type][]Invoker
}

// Build seals the registry, runs every descriptor through the
// compiler exactly once, and groups the invokers by event type. Any
// compile failure (including an unresolvable dependency slot) aborts
// the whole build: a misconfigured handler must stop the process from
// starting, never silently skip itself or fail per-event later.
func Build(reg *Registry, resolver ports.Resolver, baseLogger *zerolog.Logger) (*Table, error) {
	log := baseLogger.With().Str("component", "dispatch_table").Logger()

	order, handlers := reg.seal()

	table := &Table{invokers: make(map[reflect.Type][]Invoker, len(order))}
	total := 0
	for _, eventType := range order {
		for _, d := range handlers[eventType] {
			inv, err := compile(d, resolver)
			if err != nil {
				return nil, &BuildError{
					EventType: eventType.String(),
					Handler:   d.name(),
					Err:       err,
				}
			}
			table.invokers[eventType] = append(table.invokers[eventType], inv)
			total++
		}
	}

	log.Info().
		Int("event_types", len(order)).
		Int("invokers", total).
		Msg("Dispatch table built")
	return table, nil
}

// invokersFor returns the ordered invoker list for tag, or nil.
func (t *Table) invokersFor(tag reflect.Type) []Invoker {
	return t.invokers[tag]
}

// Size returns the total number of compiled invokers.
func (t *Table) Size() int {
	n := 0
	for _, invs := range t.invokers {
		n += len(invs)
	}
	return n
}
