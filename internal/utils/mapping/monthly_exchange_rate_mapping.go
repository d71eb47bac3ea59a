package mapping

import (
	"github.com/SscSPs/expense_fx_engine/internal/core/domain"
	"github.com/SscSPs/expense_fx_engine/internal/models"
)

// ToModelMonthlyExchangeRate converts a domain MonthlyExchangeRate to a model MonthlyExchangeRate
func ToModelMonthlyExchangeRate(d domain.MonthlyExchangeRate) models.MonthlyExchangeRate {
	return models.MonthlyExchangeRate{
		TenantID:     d.TenantID,
		FromCurrency: d.FromCurrency,
		ToCurrency:   d.ToCurrency,
		YearMonth:    d.YearMonth.String(),
		Source:       string(d.Source),
		Rate:         d.Rate,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainMonthlyExchangeRate converts a model MonthlyExchangeRate to a domain MonthlyExchangeRate
func ToDomainMonthlyExchangeRate(m models.MonthlyExchangeRate) domain.MonthlyExchangeRate {
	return domain.MonthlyExchangeRate{
		TenantID:     m.TenantID,
		FromCurrency: m.FromCurrency,
		ToCurrency:   m.ToCurrency,
		YearMonth:    domain.YearMonth(m.YearMonth),
		Source:       domain.RateSource(m.Source),
		Rate:         m.Rate,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}
