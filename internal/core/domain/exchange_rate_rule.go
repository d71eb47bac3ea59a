package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RuleSource describes how a rule obtains its rate.
type RuleSource string

const (
	RuleSourceFixed  RuleSource = "fixed"
	RuleSourceManual RuleSource = "manual"
	RuleSourceAPI    RuleSource = "api"
)

// IsValid reports whether the source is one of the known values.
func (s RuleSource) IsValid() bool {
	switch s {
	case RuleSourceFixed, RuleSourceManual, RuleSourceAPI:
		return true
	}
	return false
}

// RuleStatus is the lifecycle state of a rule. Only active rules take part in resolution.
type RuleStatus string

const (
	RuleStatusDraft    RuleStatus = "draft"
	RuleStatusActive   RuleStatus = "active"
	RuleStatusArchived RuleStatus = "archived"
)

// IsValid reports whether the status is one of the known values.
func (s RuleStatus) IsValid() bool {
	switch s {
	case RuleStatusDraft, RuleStatusActive, RuleStatusArchived:
		return true
	}
	return false
}

// PairKey is the key used in ExchangeRateRule.FixedRates, e.g. "USD/CNY".
func PairKey(from, to string) string {
	return from + "/" + to
}

// ExchangeRateRule is a configured policy for obtaining rates over a time window.
type ExchangeRateRule struct {
	RuleID         string                     `json:"ruleID"`         // Primary Key (UUID)
	TenantID       *string                    `json:"tenantID"`       // nil = global rule
	Description    string                     `json:"description"`    // Not Null
	Source         RuleSource                 `json:"source"`         // fixed | manual | api
	Currencies     []string                   `json:"currencies"`     // codes governed by the rule
	FixedRates     map[string]decimal.Decimal `json:"fixedRates"`     // PairKey -> rate, fixed rules only
	EffectiveFrom  time.Time                  `json:"effectiveFrom"`  // inclusive
	EffectiveTo    *time.Time                 `json:"effectiveTo"`    // inclusive, nil = open-ended
	FallbackRuleID *string                    `json:"fallbackRuleID"` // consulted when this rule yields nothing
	Status         RuleStatus                 `json:"status"`
	Priority       int                        `json:"priority"` // lower value = higher precedence
	AuditFields
}

// IsGlobal reports whether the rule has no owning tenant.
func (r *ExchangeRateRule) IsGlobal() bool {
	return r.TenantID == nil || *r.TenantID == ""
}

// VisibleTo reports whether a tenant may use the rule.
func (r *ExchangeRateRule) VisibleTo(tenantID string) bool {
	return r.IsGlobal() || *r.TenantID == tenantID
}

// Governs reports whether the rule lists the currency code.
func (r *ExchangeRateRule) Governs(code string) bool {
	for _, c := range r.Currencies {
		if c == code {
			return true
		}
	}
	return false
}

// EffectiveOn reports whether date falls inside [EffectiveFrom, EffectiveTo].
// Comparison is by calendar day in UTC.
func (r *ExchangeRateRule) EffectiveOn(date time.Time) bool {
	day := truncateDay(date)
	if day.Before(truncateDay(r.EffectiveFrom)) {
		return false
	}
	if r.EffectiveTo != nil && day.After(truncateDay(*r.EffectiveTo)) {
		return false
	}
	return true
}

// Applies reports whether the rule is a resolution candidate for the tenant, date and pair.
func (r *ExchangeRateRule) Applies(tenantID, from, to string, date time.Time) bool {
	return r.Status == RuleStatusActive &&
		r.VisibleTo(tenantID) &&
		(r.Governs(from) || r.Governs(to)) &&
		r.EffectiveOn(date)
}

// FixedRate returns the configured rate for the exact pair of a fixed rule.
func (r *ExchangeRateRule) FixedRate(from, to string) (decimal.Decimal, bool) {
	if r.Source != RuleSourceFixed || r.FixedRates == nil {
		return decimal.Zero, false
	}
	rate, ok := r.FixedRates[PairKey(from, to)]
	if !ok || !rate.IsPositive() {
		return decimal.Zero, false
	}
	return rate, true
}

func truncateDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
