package usecase

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/ceylonhoney/storefront/internal/domain"
)

var punctuationRegex = regexp.MustCompile(`[^\p{L}\p{N}\s]`)

// Only words at least this long are candidates for correction
const minCorrectableLen = 4

// Suggest proposes a corrected query when query matched nothing: every query
// word that does not occur in the catalog's searchable text is replaced by
// the closest catalog word within a small edit distance. The suggestion is
// returned only if it matches at least one product under the same filters.
func Suggest(catalog []domain.Product, query string, filters domain.FilterState) string {
	words := tokenize(query)
	if len(words) == 0 {
		return ""
	}

	vocab := vocabulary(catalog)
	changed := false
	for i, w := range words {
		if _, known := vocab[w]; known || utf8.RuneCountInString(w) < minCorrectableLen {
			continue
		}
		if best, ok := closestWord(w, vocab); ok {
			words[i] = best
			changed = true
		}
	}
	if !changed {
		return ""
	}

	suggestion := strings.Join(words, " ")
	if len(FilterProducts(catalog, suggestion, filters)) == 0 {
		return ""
	}
	return suggestion
}

// vocabulary collects the distinct words of every searchable field
func vocabulary(catalog []domain.Product) map[string]struct{} {
	vocab := make(map[string]struct{})
	for i := range catalog {
		p := &catalog[i]
		for _, field := range []string{p.Name, p.Description, p.Type} {
			for _, w := range tokenize(field) {
				vocab[w] = struct{}{}
			}
		}
	}
	return vocab
}

// closestWord returns the vocabulary word nearest to w, ties broken
// alphabetically
func closestWord(w string, vocab map[string]struct{}) (string, bool) {
	threshold := editThreshold(w)

	var candidates []string
	bestDist := threshold + 1
	for v := range vocab {
		if !fuzzyTokenMatch(w, v, threshold) {
			continue
		}
		d := levenshteinDistance(w, v)
		switch {
		case d < bestDist:
			bestDist = d
			candidates = []string{v}
		case d == bestDist:
			candidates = append(candidates, v)
		}
	}
	if len(candidates) == 0 {
		return "", false
	}
	sort.Strings(candidates)
	return candidates[0], true
}

// editThreshold allows one typo in short words and two in long ones
func editThreshold(w string) int {
	if utf8.RuneCountInString(w) >= 8 {
		return 2
	}
	return 1
}

// tokenize splits a string into lowercase words with punctuation removed
func tokenize(s string) []string {
	cleaned := punctuationRegex.ReplaceAllString(strings.ToLower(s), " ")
	return strings.Fields(cleaned)
}

// fuzzyTokenMatch checks if two tokens are similar within the edit distance threshold
func fuzzyTokenMatch(token1, token2 string, threshold int) bool {
	if token1 == token2 {
		return true
	}

	// Short tokens produce too many false positives
	len1, len2 := utf8.RuneCountInString(token1), utf8.RuneCountInString(token2)
	if len1 < minCorrectableLen || len2 < minCorrectableLen {
		return false
	}

	// Quick length check - if lengths differ by more than threshold, can't match
	lenDiff := len1 - len2
	if lenDiff < 0 {
		lenDiff = -lenDiff
	}
	if lenDiff > threshold {
		return false
	}

	return levenshteinDistance(token1, token2) <= threshold
}

// levenshteinDistance calculates the edit distance between two strings
func levenshteinDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)
	m := len(r1)
	n := len(r2)
	if m == 0 {
		return n
	}
	if n == 0 {
		return m
	}

	// Two rows instead of the full matrix
	prev := make([]int, n+1)
	curr := make([]int, n+1)
	for j := 0; j <= n; j++ {
		prev[j] = j
	}

	for i := 1; i <= m; i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[n]
}
