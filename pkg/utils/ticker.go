package utils

import (
	"strings"
)

// Company-name aliases commonly typed instead of the listed symbol.
var tickerAliases = map[string]string{
	"ADOBE":      "ADBE",
	"APPLE":      "AAPL",
	"MICROSOFT":  "MSFT",
	"GOOGLE":     "GOOGL",
	"ALPHABET":   "GOOGL",
	"AMAZON":     "AMZN",
	"NVIDIA":     "NVDA",
	"FACEBOOK":   "META",
	"TESLA":      "TSLA",
	"NETFLIX":    "NFLX",
	"ORACLE":     "ORCL",
	"SALESFORCE": "CRM",
	"INTEL":      "INTC",
}

// NormalizeTicker normalizes a user-input ticker to its canonical symbol.
// It handles aliases, uppercasing, whitespace and a leading "$".
func NormalizeTicker(ticker string) string {
	ticker = strings.TrimSpace(strings.ToUpper(ticker))

	// Remove $ prefix if present (cashtag)
	ticker = strings.TrimPrefix(ticker, "$")

	if canonical, ok := tickerAliases[ticker]; ok {
		return canonical
	}
	return ticker
}

// Yahoo exchange suffixes that are a single letter; any other one-letter
// suffix is a share class.
var singleLetterExchanges = map[string]bool{
	"L": true, // London
	"V": true, // TSX Venture
	"F": true, // Frankfurt
	"T": true, // Tokyo
}

// ToYFinanceTicker converts a symbol to Yahoo Finance format.
// Share classes use a dash on Yahoo ("BRK.B" → "BRK-B"); exchange
// suffixes (".NS", ".L", ".TO") are kept.
func ToYFinanceTicker(ticker string) string {
	ticker = NormalizeTicker(ticker)
	if strings.HasPrefix(ticker, "^") {
		return ticker
	}
	i := strings.LastIndex(ticker, ".")
	if i <= 0 || len(ticker)-i-1 != 1 {
		return ticker
	}
	if suffix := ticker[i+1:]; !singleLetterExchanges[suffix] {
		return ticker[:i] + "-" + suffix
	}
	return ticker
}

// ReportFileName returns the default output file for a ticker,
// e.g. "ADBE" → "adbe_valuation_output.xlsx".
func ReportFileName(ticker string) string {
	name := strings.ToLower(NormalizeTicker(ticker))
	name = strings.NewReplacer(".", "_", "-", "_", "^", "", "/", "_").Replace(name)
	if name == "" {
		name = "company"
	}
	return name + "_valuation_output.xlsx"
}
