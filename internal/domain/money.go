package domain

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultCurrencySymbol is returned for any country or currency the tables
// do not cover.
const DefaultCurrencySymbol = "$"

// defaultLocale drives grouping and decimal separators for unmapped currencies.
var defaultLocale = language.MustParse("en-US")

// countrySymbols maps ISO 3166-1 alpha-2 country codes to the currency
// symbol shown for addresses in that country.
var countrySymbols = map[string]string{
	"US": "$", "CA": "C$", "MX": "Mex$", "BR": "R$", "AR": "$",
	"GB": "£", "IE": "€", "FR": "€", "DE": "€", "ES": "€",
	"IT": "€", "PT": "€", "NL": "€", "BE": "€", "AT": "€",
	"FI": "€", "GR": "€", "CH": "CHF", "SE": "kr", "NO": "kr",
	"DK": "kr", "PL": "zł", "CZ": "Kč", "HU": "Ft", "RU": "₽",
	"TR": "₺", "UA": "₴", "IN": "₹", "PK": "₨", "BD": "৳",
	"LK": "Rs", "NP": "रू", "CN": "¥", "JP": "¥", "KR": "₩",
	"TW": "NT$", "HK": "HK$", "SG": "S$", "MY": "RM", "TH": "฿",
	"ID": "Rp", "PH": "₱", "VN": "₫", "AU": "A$", "NZ": "NZ$",
	"AE": "د.إ", "SA": "﷼", "IL": "₪", "EG": "E£", "ZA": "R",
	"NG": "₦", "KE": "KSh", "GH": "GH₵",
}

// currencySymbols maps ISO 4217 currency codes to their canonical symbol.
var currencySymbols = map[string]string{
	"USD": "$", "CAD": "C$", "MXN": "Mex$", "BRL": "R$", "ARS": "$",
	"GBP": "£", "EUR": "€", "CHF": "CHF", "SEK": "kr", "NOK": "kr",
	"DKK": "kr", "PLN": "zł", "CZK": "Kč", "HUF": "Ft", "RUB": "₽",
	"TRY": "₺", "UAH": "₴", "INR": "₹", "PKR": "₨", "BDT": "৳",
	"LKR": "Rs", "NPR": "रू", "CNY": "¥", "JPY": "¥", "KRW": "₩",
	"TWD": "NT$", "HKD": "HK$", "SGD": "S$", "MYR": "RM", "THB": "฿",
	"IDR": "Rp", "PHP": "₱", "VND": "₫", "AUD": "A$", "NZD": "NZ$",
	"AED": "د.إ", "SAR": "﷼", "ILS": "₪", "EGP": "E£", "ZAR": "R",
	"NGN": "₦", "KES": "KSh", "GHS": "GH₵",
}

// currencyLocales maps currency codes to the locale whose grouping
// conventions we format with. Rupee-family currencies deliberately use
// Indian digit grouping (lakh/crore) rather than their native locales.
var currencyLocales = map[string]language.Tag{
	"INR": language.MustParse("en-IN"),
	"PKR": language.MustParse("en-IN"),
	"BDT": language.MustParse("en-IN"),
	"LKR": language.MustParse("en-IN"),
	"NPR": language.MustParse("en-IN"),
	"EUR": language.MustParse("de-DE"),
	"BRL": language.MustParse("pt-BR"),
	"RUB": language.MustParse("ru-RU"),
	"TRY": language.MustParse("tr-TR"),
	"VND": language.MustParse("vi-VN"),
	"IDR": language.MustParse("id-ID"),
}

// zeroDecimalCurrencies have no minor unit; everything else formats with
// two fraction digits.
var zeroDecimalCurrencies = map[string]bool{
	"JPY": true, "KRW": true, "VND": true,
}

// SymbolForCountry resolves a country code to a display currency symbol.
// Unknown or empty codes resolve to the dollar sign; this function is
// total and never fails.
func SymbolForCountry(countryCode string) string {
	code := strings.ToUpper(strings.TrimSpace(countryCode))
	if sym, ok := countrySymbols[code]; ok {
		return sym
	}
	return DefaultCurrencySymbol
}

// SymbolForCurrency resolves a currency code to its canonical symbol,
// falling back to the dollar sign for unknown codes.
func SymbolForCurrency(currencyCode string) string {
	code := strings.ToUpper(strings.TrimSpace(currencyCode))
	if sym, ok := currencySymbols[code]; ok {
		return sym
	}
	return DefaultCurrencySymbol
}

// LocaleForCurrency resolves the locale tag used to format amounts in the
// given currency. Case-insensitive and total.
func LocaleForCurrency(currencyCode string) language.Tag {
	code := strings.ToUpper(strings.TrimSpace(currencyCode))
	if tag, ok := currencyLocales[code]; ok {
		return tag
	}
	return defaultLocale
}

// FormatAmount renders an amount as a localized money string: currency
// symbol, locale-aware grouping, and the currency's standard fraction
// digits. Zero renders fully decorated ("₹0.00"). Unknown currency codes
// degrade to dollar-sign formatting; this function never fails.
func FormatAmount(amount decimal.Decimal, currencyCode string) string {
	code := strings.ToUpper(strings.TrimSpace(currencyCode))
	symbol := SymbolForCurrency(code)
	printer := message.NewPrinter(LocaleForCurrency(code))

	digits := 2
	if zeroDecimalCurrencies[code] {
		digits = 0
	}

	negative := amount.IsNegative()
	value, _ := amount.Abs().Round(int32(digits)).Float64()

	formatted := printer.Sprintf("%v", number.Decimal(value,
		number.MinFractionDigits(digits),
		number.MaxFractionDigits(digits),
	))

	if negative {
		return "-" + symbol + formatted
	}
	return symbol + formatted
}
