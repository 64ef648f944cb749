package normalizer

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	// partRe splits on semicolons and the standalone word "and".
	partRe = regexp.MustCompile(`[;]|\band\b`)

	// commaRe splits on ASCII and fullwidth commas. The fullwidth form
	// appears in affiliations typed with CJK input methods.
	commaRe = regexp.MustCompile(`[,，]`)

	// stripRe removes anything up to and including the first standalone
	// "at" or "@".
	stripRe = regexp.MustCompile(`(?i).*?\bat\b|.*?@`)

	// identityRe matches personal/role-identity markers as whole words.
	// A unit matching it describes a person, not an institution, and is
	// dropped entirely.
	identityRe = regexp.MustCompile(`(?i)\b(director|manager|chair|engineer|programmer|scientist|professor|lecturer|phd|ph\.d|postdoc|doctor|student|department of)\b`)
)

// Normalize cleans one raw affiliation string into institution-name
// candidates. The result may be empty. Output order carries no meaning;
// downstream stages deduplicate with set semantics.
func Normalize(raw string) []string {
	// NFKC folds compatibility forms (fullwidth punctuation, ligatures)
	// so the split and marker regexes see canonical text.
	raw = norm.NFKC.String(raw)

	var out []string
	for _, part := range partRe.Split(raw, -1) {
		for _, unit := range countryAwareCommaSplit(strings.TrimSpace(part)) {
			// The marker check runs on the unit before stripping:
			// "Director at Acme University" names a person's role,
			// so the whole unit goes, not just the prefix.
			if identityRe.MatchString(unit) {
				continue
			}
			cleaned := strings.TrimSpace(stripRe.ReplaceAllString(unit, ""))
			if cleaned != "" {
				out = append(out, cleaned)
			}
		}
	}
	return out
}

// countryAwareCommaSplit splits a part on commas, re-joining a component
// with the following one when that following component is a country name:
// "Cambridge, UK" survives as a single unit. Components are consumed in
// pairs; a leading country name on its own is skipped.
func countryAwareCommaSplit(part string) []string {
	subParts := commaRe.Split(part, -1)
	for i := range subParts {
		subParts[i] = strings.TrimSpace(subParts[i])
	}

	var units []string
	for i := 0; i < len(subParts); {
		sub := subParts[i]
		if IsCountry(sub) {
			i++
			continue
		}

		var next string
		if i+1 < len(subParts) {
			next = subParts[i+1]
		}

		if IsCountry(next) {
			units = append(units, sub+", "+next)
		} else {
			units = append(units, sub)
			if next != "" {
				units = append(units, next)
			}
		}
		i += 2
	}
	return units
}
