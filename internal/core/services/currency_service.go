package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/SscSPs/expense_fx_engine/internal/apperrors"
	"github.com/SscSPs/expense_fx_engine/internal/core/domain"
	portssvc "github.com/SscSPs/expense_fx_engine/internal/core/ports/services"
)

// CurrencyRegistry serves the static set of system currencies.
type CurrencyRegistry struct {
	ordered []domain.CurrencyInfo
	byCode  map[string]domain.CurrencyInfo
}

var _ portssvc.CurrencySvcFacade = (*CurrencyRegistry)(nil)

// NewCurrencyRegistry builds a registry over currencies. Duplicate codes keep the first entry.
func NewCurrencyRegistry(currencies []domain.CurrencyInfo) *CurrencyRegistry {
	r := &CurrencyRegistry{byCode: make(map[string]domain.CurrencyInfo, len(currencies))}
	for _, c := range currencies {
		if _, dup := r.byCode[c.CurrencyCode]; dup {
			continue
		}
		r.byCode[c.CurrencyCode] = c
		r.ordered = append(r.ordered, c)
	}
	sort.Slice(r.ordered, func(i, j int) bool {
		return r.ordered[i].CurrencyCode < r.ordered[j].CurrencyCode
	})
	return r
}

// NewSystemCurrencyRegistry builds a registry over domain.SystemCurrencies.
func NewSystemCurrencyRegistry() *CurrencyRegistry {
	return NewCurrencyRegistry(domain.SystemCurrencies)
}

func (r *CurrencyRegistry) List() []domain.CurrencyInfo {
	out := make([]domain.CurrencyInfo, len(r.ordered))
	copy(out, r.ordered)
	return out
}

func (r *CurrencyRegistry) IsSystemCurrency(code string) bool {
	_, ok := r.byCode[code]
	return ok
}

func (r *CurrencyRegistry) Lookup(code string) (domain.CurrencyInfo, bool) {
	c, ok := r.byCode[code]
	return c, ok
}

// NormalizeCode accepts system and custom codes alike.
func (r *CurrencyRegistry) NormalizeCode(code string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if len(normalized) != 3 {
		return "", fmt.Errorf("%w: %q must be 3 letters", apperrors.ErrInvalidCurrencyCode, code)
	}
	for i := 0; i < len(normalized); i++ {
		if normalized[i] < 'A' || normalized[i] > 'Z' {
			return "", fmt.Errorf("%w: %q must be 3 letters", apperrors.ErrInvalidCurrencyCode, code)
		}
	}
	return normalized, nil
}
