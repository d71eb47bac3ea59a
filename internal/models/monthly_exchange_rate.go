package models

import "github.com/shopspring/decimal"

// MonthlyExchangeRate is a row of monthly_exchange_rates.
// TenantID is empty for api rows.
type MonthlyExchangeRate struct {
	TenantID     string          `json:"tenantID"`
	FromCurrency string          `json:"fromCurrency"`
	ToCurrency   string          `json:"toCurrency"`
	YearMonth    string          `json:"yearMonth"` // "YYYY-MM"
	Source       string          `json:"source"`
	Rate         decimal.Decimal `json:"rate"` // NUMERIC(30,12)
	AuditFields
}
