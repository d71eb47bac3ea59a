package domain

// CurrencyInfo describes a currency known to the registry.
type CurrencyInfo struct {
	CurrencyCode     string `json:"currencyCode"`     // ISO 4217 code, e.g. "USD"
	Symbol           string `json:"symbol"`           // e.g. "$"
	Name             string `json:"name"`             // e.g. "US Dollar"
	DecimalPrecision int    `json:"decimalPrecision"` // minor units used for display
}

// SystemCurrencies is the static set of currencies eligible for market-provider lookups.
// Any other well-formed 3-letter code is a custom currency.
var SystemCurrencies = []CurrencyInfo{
	{CurrencyCode: "AUD", Symbol: "A$", Name: "Australian Dollar", DecimalPrecision: 2},
	{CurrencyCode: "CAD", Symbol: "C$", Name: "Canadian Dollar", DecimalPrecision: 2},
	{CurrencyCode: "CHF", Symbol: "Fr", Name: "Swiss Franc", DecimalPrecision: 2},
	{CurrencyCode: "CNY", Symbol: "¥", Name: "Chinese Yuan", DecimalPrecision: 2},
	{CurrencyCode: "EUR", Symbol: "€", Name: "Euro", DecimalPrecision: 2},
	{CurrencyCode: "GBP", Symbol: "£", Name: "British Pound", DecimalPrecision: 2},
	{CurrencyCode: "HKD", Symbol: "HK$", Name: "Hong Kong Dollar", DecimalPrecision: 2},
	{CurrencyCode: "INR", Symbol: "₹", Name: "Indian Rupee", DecimalPrecision: 2},
	{CurrencyCode: "JPY", Symbol: "¥", Name: "Japanese Yen", DecimalPrecision: 0},
	{CurrencyCode: "KRW", Symbol: "₩", Name: "South Korean Won", DecimalPrecision: 0},
	{CurrencyCode: "MYR", Symbol: "RM", Name: "Malaysian Ringgit", DecimalPrecision: 2},
	{CurrencyCode: "NZD", Symbol: "NZ$", Name: "New Zealand Dollar", DecimalPrecision: 2},
	{CurrencyCode: "SEK", Symbol: "kr", Name: "Swedish Krona", DecimalPrecision: 2},
	{CurrencyCode: "SGD", Symbol: "S$", Name: "Singapore Dollar", DecimalPrecision: 2},
	{CurrencyCode: "THB", Symbol: "฿", Name: "Thai Baht", DecimalPrecision: 2},
	{CurrencyCode: "USD", Symbol: "$", Name: "US Dollar", DecimalPrecision: 2},
}
