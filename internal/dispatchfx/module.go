package dispatchfx

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"AsaDispatch/internal/core/ports"
	"AsaDispatch/internal/dispatch"
)

// Registration hooks handlers into the registry before the table is
// built. Contribute them with Handlers; they run in an fx-decided
// order, so handler ordering guarantees only hold within one
// Registration.
type Registration func(*dispatch.Registry) error

// Handlers contributes a registration to the module. Use one per
// feature package:
//
//	app := fx.New(
//	    dispatchfx.Module,
//	    dispatchfx.Handlers(func(r *dispatch.Registry) error {
//	        return r.Register(dispatch.EventType[RateUpdated](), onRateUpdated)
//	    }),
//	    ...
//	)
func Handlers(fn Registration) fx.Option {
	return fx.Provide(fx.Annotate(
		func() Registration { return fn },
		fx.ResultTags(`group:"dispatch_registrations"`),
	))
}

// Module wires the dispatch engine into an fx host. The host must
// provide a *zerolog.Logger and a ports.Resolver (for example
// container.New or container.FromDig). The table is built while the
// graph resolves, so a BuildError fails fx.New before the app starts
// taking events.
var Module = fx.Options(
	fx.Provide(provideRegistry),
	fx.Provide(fx.Annotate(
		provideTable,
		fx.ParamTags(``, ``, ``, `group:"dispatch_registrations"`),
	)),
	fx.Provide(dispatch.NewDispatcher),
)

func provideRegistry(baseLogger *zerolog.Logger) *dispatch.Registry {
	return dispatch.NewRegistry(baseLogger)
}

func provideTable(
	reg *dispatch.Registry,
	resolver ports.Resolver,
	baseLogger *zerolog.Logger,
	registrations []Registration,
) (*dispatch.Table, error) {
	for _, register := range registrations {
		if err := register(reg); err != nil {
			return nil, err
		}
	}
	return dispatch.Build(reg, resolver, baseLogger)
}
