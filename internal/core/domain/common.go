package domain

import "time"

// AuditFields records who wrote an entity and when.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// NewAuditFields stamps a freshly created entity.
func NewAuditFields(actor string, at time.Time) AuditFields {
	return AuditFields{
		CreatedAt:     at,
		CreatedBy:     actor,
		LastUpdatedAt: at,
		LastUpdatedBy: actor,
	}
}

// Touch records a later modification.
func (a *AuditFields) Touch(actor string, at time.Time) {
	a.LastUpdatedAt = at
	a.LastUpdatedBy = actor
}
