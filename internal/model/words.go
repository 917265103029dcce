package model

import "strings"

// WordPair is the content of one word-imposter round
type WordPair struct {
	ID       string `json:"id,omitempty"`
	Normal   string `json:"normal"`
	Imposter string `json:"imposter"`
}

// WordUsage is the per-pair rating reported back to the word supplier
type WordUsage struct {
	PairID string  `json:"pairId"`
	Rating float64 `json:"rating"`
}

// Supported locales for word lists and preferences
var Locales = []string{"en", "tr", "it", "de", "fr", "es", "sq"}

// DefaultLocale is used when nothing else is configured
const DefaultLocale = "en"

// NormalizeLocale trims and lowercases a locale code
func NormalizeLocale(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// IsSupportedLocale reports whether the locale code is known
func IsSupportedLocale(code string) bool {
	for _, l := range Locales {
		if l == code {
			return true
		}
	}
	return false
}
