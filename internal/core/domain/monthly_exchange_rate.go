package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateSource identifies where a cached monthly rate came from.
type RateSource string

const (
	RateSourceManual           RateSource = "manual"
	RateSourceAPI              RateSource = "api"
	RateSourceManualCalculated RateSource = "manual_calculated"
)

// MonthlyRateKey is the unique key of a MonthlyExchangeRate row.
// TenantID is empty for api rows, which hold market data shared by every tenant.
type MonthlyRateKey struct {
	TenantID     string
	FromCurrency string
	ToCurrency   string
	YearMonth    YearMonth
	Source       RateSource
}

// MonthlyExchangeRate is a cached or manually entered rate for one calendar month.
// Rate is 1 unit of FromCurrency expressed in ToCurrency.
type MonthlyExchangeRate struct {
	TenantID     string          `json:"tenantID"`
	FromCurrency string          `json:"fromCurrency"`
	ToCurrency   string          `json:"toCurrency"`
	YearMonth    YearMonth       `json:"yearMonth"`
	Source       RateSource      `json:"source"`
	Rate         decimal.Decimal `json:"rate"`
	AuditFields
}

// Key returns the row's unique key.
func (m *MonthlyExchangeRate) Key() MonthlyRateKey {
	return MonthlyRateKey{
		TenantID:     m.TenantID,
		FromCurrency: m.FromCurrency,
		ToCurrency:   m.ToCurrency,
		YearMonth:    m.YearMonth,
		Source:       m.Source,
	}
}

// NewMonthlyExchangeRate builds a row stamped with the given time and actor.
func NewMonthlyExchangeRate(key MonthlyRateKey, rate decimal.Decimal, actor string, now time.Time) MonthlyExchangeRate {
	return MonthlyExchangeRate{
		TenantID:     key.TenantID,
		FromCurrency: key.FromCurrency,
		ToCurrency:   key.ToCurrency,
		YearMonth:    key.YearMonth,
		Source:       key.Source,
		Rate:         rate,
		AuditFields:  NewAuditFields(actor, now),
	}
}
