package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRateRule is a row of exchange_rate_rules.
type ExchangeRateRule struct {
	RuleID         string                     `json:"ruleID"`   // Primary Key (UUID)
	TenantID       *string                    `json:"tenantID"` // NULL for global rules
	Description    string                     `json:"description"`
	Source         string                     `json:"source"`
	Currencies     []string                   `json:"currencies"`     // TEXT[]
	FixedRates     map[string]decimal.Decimal `json:"fixedRates"`     // JSONB
	EffectiveFrom  time.Time                  `json:"effectiveFrom"`  // DATE
	EffectiveTo    *time.Time                 `json:"effectiveTo"`    // DATE, nullable
	FallbackRuleID *string                    `json:"fallbackRuleID"` // FK -> exchange_rate_rules.rule_id
	Status         string                     `json:"status"`
	Priority       int                        `json:"priority"`
	AuditFields
}
