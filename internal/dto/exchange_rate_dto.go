package dto

import (
	"time"

	"github.com/SscSPs/expense_fx_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ResolvedRateResponse is the API form of a single resolved pair.
type ResolvedRateResponse struct {
	FromCurrency string          `json:"fromCurrency"`
	ToCurrency   string          `json:"toCurrency"`
	Rate         decimal.Decimal `json:"rate"`
	Source       string          `json:"source"`
	Timestamp    time.Time       `json:"timestamp"`
	YearMonth    string          `json:"yearMonth"`
	RuleID       *string         `json:"ruleId,omitempty"`
}

// ToResolvedRateResponse converts a domain.ResolvedRate to ResolvedRateResponse DTO
func ToResolvedRateResponse(rate *domain.ResolvedRate) ResolvedRateResponse {
	return ResolvedRateResponse{
		FromCurrency: rate.FromCurrency,
		ToCurrency:   rate.ToCurrency,
		Rate:         rate.Rate,
		Source:       string(rate.Source),
		Timestamp:    rate.Timestamp,
		YearMonth:    rate.YearMonth.String(),
		RuleID:       rate.RuleID,
	}
}

// BatchEntryResponse is one currency in a batch result.
type BatchEntryResponse struct {
	Rate   decimal.Decimal `json:"rate"`
	Source string          `json:"source"`
}

// BatchRatesResponse maps every resolved currency to its rate into Target.
type BatchRatesResponse struct {
	Target     string                        `json:"target"`
	YearMonth  string                        `json:"yearMonth"`
	Rates      map[string]BatchEntryResponse `json:"rates"`
	ResolvedAt time.Time                     `json:"resolvedAt"`
}

// ToBatchRatesResponse converts a domain.BatchResult to BatchRatesResponse DTO
func ToBatchRatesResponse(result *domain.BatchResult) BatchRatesResponse {
	rates := make(map[string]BatchEntryResponse, len(result.Rates))
	for code, entry := range result.Rates {
		rates[code] = BatchEntryResponse{Rate: entry.Rate, Source: string(entry.Source)}
	}
	return BatchRatesResponse{
		Target:     result.Target,
		YearMonth:  result.YearMonth.String(),
		Rates:      rates,
		ResolvedAt: result.ResolvedAt,
	}
}
