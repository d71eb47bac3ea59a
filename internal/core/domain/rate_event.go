package domain

import "time"

// RateEventType names a change to the monthly rate store.
type RateEventType string

const (
	RateEventManualSaved      RateEventType = "monthly_rate.manual_saved"
	RateEventCalculatedStored RateEventType = "monthly_rate.calculated_stored"
	RateEventMarketCached     RateEventType = "monthly_rate.market_cached"
)

// RateEvent is published after a monthly rate row is written.
type RateEvent struct {
	Type       RateEventType       `json:"type"`
	Rate       MonthlyExchangeRate `json:"rate"`
	OccurredAt time.Time           `json:"occurredAt"`
}
