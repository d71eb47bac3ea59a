package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ResolutionSource tells the caller which path produced a rate.
type ResolutionSource string

const (
	ResolutionIdentity         ResolutionSource = "identity"
	ResolutionFixed            ResolutionSource = "fixed"
	ResolutionManual           ResolutionSource = "manual"
	ResolutionManualCalculated ResolutionSource = "manual_calculated"
	ResolutionAPI              ResolutionSource = "api"
	// ResolutionError marks a degraded batch entry; its rate is a placeholder of 1.
	ResolutionError ResolutionSource = "error"
)

// ResolvedRate is the result of resolving one currency pair.
type ResolvedRate struct {
	FromCurrency string           `json:"fromCurrency"`
	ToCurrency   string           `json:"toCurrency"`
	Rate         decimal.Decimal  `json:"rate"`
	Source       ResolutionSource `json:"source"`
	Timestamp    time.Time        `json:"timestamp"`
	YearMonth    YearMonth        `json:"yearMonth"`
	RuleID       *string          `json:"ruleID,omitempty"` // rule that produced a fixed rate
}

// BatchEntry is one currency's outcome inside a batch.
type BatchEntry struct {
	Rate   decimal.Decimal  `json:"rate"`
	Source ResolutionSource `json:"source"`
}

// BatchResult maps each source currency to its rate into Target.
type BatchResult struct {
	Target     string                `json:"target"`
	YearMonth  YearMonth             `json:"yearMonth"`
	Rates      map[string]BatchEntry `json:"rates"`
	ResolvedAt time.Time             `json:"resolvedAt"`
}
