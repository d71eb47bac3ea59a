package dto

import (
	"github.com/SscSPs/expense_fx_engine/internal/core/domain"
)

// CurrencyResponse defines the data returned for a currency.
type CurrencyResponse struct {
	CurrencyCode     string `json:"currencyCode"`
	Symbol           string `json:"symbol"`
	Name             string `json:"name"`
	DecimalPrecision int    `json:"decimalPrecision"`
}

// ToCurrencyResponse converts a domain.CurrencyInfo to CurrencyResponse DTO
func ToCurrencyResponse(curr domain.CurrencyInfo) CurrencyResponse {
	return CurrencyResponse{
		CurrencyCode:     curr.CurrencyCode,
		Symbol:           curr.Symbol,
		Name:             curr.Name,
		DecimalPrecision: curr.DecimalPrecision,
	}
}

// ToListCurrencyResponse converts a slice of domain.CurrencyInfo to a slice of CurrencyResponse DTOs
func ToListCurrencyResponse(currencies []domain.CurrencyInfo) []CurrencyResponse {
	res := make([]CurrencyResponse, len(currencies))
	for i, curr := range currencies {
		res[i] = ToCurrencyResponse(curr)
	}
	return res
}
