package mapping

import (
	"github.com/SscSPs/expense_fx_engine/internal/core/domain"
	"github.com/SscSPs/expense_fx_engine/internal/models"
)

// ToModelExchangeRateRule converts a domain ExchangeRateRule to a model ExchangeRateRule
func ToModelExchangeRateRule(d domain.ExchangeRateRule) models.ExchangeRateRule {
	tenantID := d.TenantID
	if d.IsGlobal() {
		tenantID = nil
	}
	return models.ExchangeRateRule{
		RuleID:         d.RuleID,
		TenantID:       tenantID,
		Description:    d.Description,
		Source:         string(d.Source),
		Currencies:     d.Currencies,
		FixedRates:     d.FixedRates,
		EffectiveFrom:  d.EffectiveFrom,
		EffectiveTo:    d.EffectiveTo,
		FallbackRuleID: d.FallbackRuleID,
		Status:         string(d.Status),
		Priority:       d.Priority,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainExchangeRateRule converts a model ExchangeRateRule to a domain ExchangeRateRule
func ToDomainExchangeRateRule(m models.ExchangeRateRule) domain.ExchangeRateRule {
	return domain.ExchangeRateRule{
		RuleID:         m.RuleID,
		TenantID:       m.TenantID,
		Description:    m.Description,
		Source:         domain.RuleSource(m.Source),
		Currencies:     m.Currencies,
		FixedRates:     m.FixedRates,
		EffectiveFrom:  m.EffectiveFrom,
		EffectiveTo:    m.EffectiveTo,
		FallbackRuleID: m.FallbackRuleID,
		Status:         domain.RuleStatus(m.Status),
		Priority:       m.Priority,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainExchangeRateRules converts model rules to domain rules
func ToDomainExchangeRateRules(ms []models.ExchangeRateRule) []domain.ExchangeRateRule {
	out := make([]domain.ExchangeRateRule, len(ms))
	for i, m := range ms {
		out[i] = ToDomainExchangeRateRule(m)
	}
	return out
}
