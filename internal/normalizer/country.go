package normalizer

import (
	"strings"

	"github.com/biter777/countries"
)

// countryAliases lists colloquial country forms the ISO registry does not
// carry. Matching is exact after lowercasing, never fuzzy.
var countryAliases = map[string]bool{
	"uk":               true,
	"u.k.":             true,
	"usa":              true,
	"u.s.":             true,
	"u.s.a.":           true,
	"america":          true,
	"england":          true,
	"scotland":         true,
	"wales":            true,
	"northern ireland": true,
	"south korea":      true,
	"the netherlands":  true,
}

// IsCountry reports whether the string names a country. The check is an
// exact lookup against the ISO registry plus a short alias table; it is
// case- and form-tolerant but not fuzzy.
func IsCountry(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	if countryAliases[strings.ToLower(s)] {
		return true
	}
	return countries.ByName(s) != countries.Unknown
}
