package services

import (
	"github.com/SscSPs/expense_fx_engine/internal/core/domain"
)

// CurrencySvcFacade exposes the static registry of system currencies.
type CurrencySvcFacade interface {
	// List returns every system currency ordered by code.
	List() []domain.CurrencyInfo

	// IsSystemCurrency reports whether the code belongs to the system set.
	IsSystemCurrency(code string) bool

	// Lookup returns the registry entry for a code.
	Lookup(code string) (domain.CurrencyInfo, bool)

	// NormalizeCode trims and upper-cases a code, rejecting anything that is not three letters.
	NormalizeCode(code string) (string, error)
}
