package main

import (
	"context"
	"fmt"
	"os"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"AsaDispatch/internal/adapters/container"
	"AsaDispatch/internal/adapters/gateway"
	"AsaDispatch/internal/core/domain"
	"AsaDispatch/internal/dispatch"
	"AsaDispatch/internal/shared/config"
	"AsaDispatch/internal/shared/logger"
)

// rateCache is a demo dependency resolved into handlers at call time.
type rateCache struct {
	rates map[string]float64
}

func (c *rateCache) Put(pair string, rate float64) {
	c.rates[pair] = rate
}

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize Logger
	isDevMode := cfg.AppEnv == "dev"
	baseLogger := logger.New(isDevMode, cfg.LogLevel)
	baseLogger.Info().
		Str("app_env", cfg.AppEnv).
		Int("gateway_buffer", cfg.GatewayBuffer).
		Msg("Configuration loaded")

	// 3. Populate the dependency provider
	provider := container.New(&baseLogger)
	cache := &rateCache{rates: make(map[string]float64)}
	provider.RegisterInstance(cache)

	// 4. Register handlers. Several return shapes on purpose: the
	// engine exists so these can all live side by side.
	registry := dispatch.NewRegistry(&baseLogger)

	handlerLog := baseLogger.With().Str("component", "demo_handlers").Logger()

	// No return value: success once it completes.
	mustRegister(&baseLogger, registry, dispatch.EventType[domain.RateUpdated](),
		func(e domain.RateUpdated) {
			handlerLog.Info().Str("pair", e.Pair).Float64("rate", e.Rate).Msg("Rate observed")
		})

	// Dependency slot + cancellation slot, returns error.
	mustRegister(&baseLogger, registry, dispatch.EventType[domain.RateUpdated](),
		func(e domain.RateUpdated, cache *rateCache, ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			cache.Put(e.Pair, e.Rate)
			return nil
		})

	// Asynchronous handler: the invoker awaits the channel.
	mustRegister(&baseLogger, registry, dispatch.EventType[domain.TradeExecuted](),
		func(e domain.TradeExecuted) <-chan error {
			done := make(chan error, 1)
			go func() {
				handlerLog.Info().Str("trade_id", e.TradeID.String()).Msg("Trade settled")
				done <- nil
			}()
			return done
		})

	// 5. Build the dispatch table. A misconfigured handler stops the
	// process right here, before any event is accepted.
	table, err := dispatch.Build(registry, provider, &baseLogger)
	if err != nil {
		baseLogger.Fatal().Err(err).Msg("Failed to build dispatch table")
	}
	baseLogger.Info().Int("invokers", table.Size()).Msg("Dispatch table ready")

	// 6. Dispatcher + in-memory gateway source
	dispatcher := dispatch.NewDispatcher(table, provider, &baseLogger)
	source := gateway.NewSource(dispatcher, cfg.GatewayBuffer, &baseLogger)

	// 7. Start the pump, feed some demo events, then drain.
	ctx := context.Background()
	runDone := make(chan error, 1)
	go func() { runDone <- source.Run(ctx) }()

	events := []any{
		domain.RateUpdated{Pair: "USD/IRR", Rate: 612300, UpdatedAt: time.Now()},
		domain.RateUpdated{Pair: "EUR/IRR", Rate: 664800, UpdatedAt: time.Now()},
		domain.TradeExecuted{TradeID: uuid.New(), Pair: "USD/IRR", Amount: 250, Executed: time.Now()},
	}
	for _, event := range events {
		if err := source.Emit(ctx, event); err != nil {
			baseLogger.Error().Err(err).Msg("Failed to emit demo event")
		}
	}
	source.Close()

	if err := <-runDone; err != nil {
		baseLogger.Error().Err(err).Msg("Gateway source stopped with error")
	}

	baseLogger.Info().
		Int("cached_pairs", len(cache.rates)).
		Msg("Demo dispatch complete")
}

func mustRegister(log *zerolog.Logger, registry *dispatch.Registry, eventType reflect.Type, handler any) {
	if err := registry.Register(eventType, handler); err != nil {
		log.Fatal().Err(err).Str("event_type", eventType.String()).Msg("Failed to register handler")
	}
}
