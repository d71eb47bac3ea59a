package dto

import (
	"time"

	"github.com/SscSPs/expense_fx_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SaveManualRateRequest defines the structure for recording a tenant's manual rate for a month.
type SaveManualRateRequest struct {
	FromCurrency string          `json:"fromCurrency" validate:"required"`
	ToCurrency   string          `json:"toCurrency" validate:"required"`
	YearMonth    string          `json:"yearMonth" validate:"required,datetime=2006-01"`
	Rate         decimal.Decimal `json:"rate"`
}

// MonthlyRateResponse defines the structure for API responses containing a cached monthly rate.
type MonthlyRateResponse struct {
	TenantID      string          `json:"tenantId,omitempty"`
	FromCurrency  string          `json:"fromCurrency"`
	ToCurrency    string          `json:"toCurrency"`
	YearMonth     string          `json:"yearMonth"`
	Source        string          `json:"source"`
	Rate          decimal.Decimal `json:"rate"`
	CreatedAt     time.Time       `json:"createdAt"`
	CreatedBy     string          `json:"createdBy"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
	LastUpdatedBy string          `json:"lastUpdatedBy"`
}

// ToMonthlyRateResponse converts a domain.MonthlyExchangeRate to MonthlyRateResponse DTO
func ToMonthlyRateResponse(rate *domain.MonthlyExchangeRate) MonthlyRateResponse {
	return MonthlyRateResponse{
		TenantID:      rate.TenantID,
		FromCurrency:  rate.FromCurrency,
		ToCurrency:    rate.ToCurrency,
		YearMonth:     rate.YearMonth.String(),
		Source:        string(rate.Source),
		Rate:          rate.Rate,
		CreatedAt:     rate.CreatedAt,
		CreatedBy:     rate.CreatedBy,
		LastUpdatedAt: rate.LastUpdatedAt,
		LastUpdatedBy: rate.LastUpdatedBy,
	}
}

// ToListMonthlyRateResponse converts a slice of domain.MonthlyExchangeRate to response DTOs.
func ToListMonthlyRateResponse(rates []domain.MonthlyExchangeRate) []MonthlyRateResponse {
	responses := make([]MonthlyRateResponse, len(rates))
	for i := range rates {
		responses[i] = ToMonthlyRateResponse(&rates[i])
	}
	return responses
}
