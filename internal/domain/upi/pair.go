package upi

import "strings"

// SplitCurrencyPair splits "EUR/USD" (or "EUR / USD") into its two legs.
// Anything without exactly one "/" yields two empty strings.
func SplitCurrencyPair(pair string) (string, string) {
	if !strings.Contains(pair, "/") {
		return "", ""
	}
	parts := strings.Split(pair, "/")
	if len(parts) != 2 {
		return "", ""
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
}

// NormalizeCurrencyCode upper-cases a code and returns "" unless the result
// is exactly three ASCII letters.
func NormalizeCurrencyCode(code string) string {
	code = Fold(code)
	if len(code) != 3 {
		return ""
	}
	for i := 0; i < len(code); i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return ""
		}
	}
	return code
}
