package usecase

import (
	"regexp"
	"sort"
	"strings"
)

// Package-level compiled regex patterns for performance
var (
	// Anything that is not a letter, digit, whitespace, hyphen, or dot
	// becomes a space. Hyphens and dots survive here so weight tokens
	// like "3.5g" and strain spellings like "do-si-dos" stay intact.
	punctuationRegex = regexp.MustCompile(`[^a-z0-9\s.\-]`)

	multipleSpacesRegex = regexp.MustCompile(`\s+`)
)

// NormalizeName produces the canonical lowercase form of a product name:
// boilerplate prefix stripped, punctuation removed except internal
// hyphens/decimals, whitespace collapsed. Pure function, safe for
// concurrent use.
func NormalizeName(raw string) string {
	name := strings.TrimSpace(raw)
	if name == "" {
		return ""
	}

	name = stripBoilerplate(name)
	name = strings.ToLower(name)
	name = punctuationRegex.ReplaceAllString(name, " ")

	// Trim hyphens/dots that are no longer internal after cleanup
	words := strings.Fields(name)
	for i, w := range words {
		words[i] = strings.Trim(w, "-.")
	}
	name = strings.Join(words, " ")

	name = multipleSpacesRegex.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}

// NormalizeVendor normalizes a vendor name the same way as product names
// so case/whitespace variance across sources collapses to one key.
func NormalizeVendor(raw string) string {
	return NormalizeName(raw)
}

// stripBoilerplate removes a known compliance phrase from the front of a
// name, case-insensitively. Unmatched input passes through unchanged.
func stripBoilerplate(name string) string {
	lower := strings.ToLower(name)
	for _, prefix := range boilerplatePrefixes {
		if strings.HasPrefix(lower, prefix) {
			return strings.TrimSpace(name[len(prefix):])
		}
	}
	return name
}

// Tokenize splits a normalized name into matching tokens. Stop words,
// single characters, and pure numbers are dropped; they stay visible in
// the normalized name itself.
func Tokenize(normalized string) []string {
	words := strings.Fields(normalized)

	var tokens []string
	seen := make(map[string]bool, len(words))
	for _, word := range words {
		word = strings.Trim(word, "-.")
		if len(word) <= 1 {
			continue
		}
		if matchStopWords[word] {
			continue
		}
		if isNumeric(word) {
			continue
		}
		if seen[word] {
			continue
		}
		tokens = append(tokens, word)
		seen[word] = true
	}

	return tokens
}

// isNumeric checks if a string contains only digits and dots
func isNumeric(s string) bool {
	for _, c := range s {
		if (c < '0' || c > '9') && c != '.' {
			return false
		}
	}
	return len(s) > 0
}

// ExtractTypeTokens returns the subset of tokens found in the product-type
// vocabulary, in their original order. Empty when nothing matches.
func ExtractTypeTokens(tokens []string) []string {
	return extractVocab(tokens, productTypeTerms)
}

// ExtractStrainTokens returns the subset of tokens found in the strain
// vocabulary, in their original order. Empty when nothing matches.
func ExtractStrainTokens(tokens []string) []string {
	return extractVocab(tokens, strainTerms)
}

func extractVocab(tokens []string, vocab map[string]bool) []string {
	var out []string
	for _, t := range tokens {
		if vocab[t] {
			out = append(out, t)
		}
	}
	return out
}

// sameTokenSet reports whether two token subsets contain exactly the same
// tokens, order-insensitively. Two empty subsets are not considered equal
// matches for bonus purposes; callers check non-emptiness first.
func sameTokenSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}
