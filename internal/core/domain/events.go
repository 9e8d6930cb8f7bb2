package domain

import (
	"time"

	"github.com/google/uuid"
)

// Demo events used by cmd/server and the gateway tests.
// Real deployments register their own event types; the engine
// itself has no opinion about event shape.

// RateUpdated is emitted whenever a currency pair gets a new rate.
type RateUpdated struct {
	Pair      string
	Rate      float64
	UpdatedAt time.Time
}

// TradeExecuted is emitted after a trade settles.
type TradeExecuted struct {
	TradeID  uuid.UUID
	Pair     string
	Amount   float64
	Executed time.Time
}
