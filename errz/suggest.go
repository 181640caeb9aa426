package errz

import (
	"sort"
	"strings"
)

// MaxSuggestions is the maximum number of suggestions returned by
// SuggestSimilar.
const MaxSuggestions = 3

// SuggestSimilar returns up to MaxSuggestions candidates that are a small
// edit distance from target, closest first.
func SuggestSimilar(target string, candidates []string) []string {
	if target == "" {
		return nil
	}
	threshold := 3
	switch {
	case len(target) <= 3:
		threshold = 1
	case len(target) <= 5:
		threshold = 2
	}
	type scored struct {
		value    string
		distance int
	}
	var found []scored
	seen := map[string]bool{}
	for _, c := range candidates {
		if c == "" || c == target || seen[c] {
			continue
		}
		seen[c] = true
		if d := levenshtein(strings.ToLower(target), strings.ToLower(c)); d <= threshold {
			found = append(found, scored{c, d})
		}
	}
	sort.Slice(found, func(i, j int) bool {
		if found[i].distance != found[j].distance {
			return found[i].distance < found[j].distance
		}
		return found[i].value < found[j].value
	})
	if len(found) > MaxSuggestions {
		found = found[:MaxSuggestions]
	}
	out := make([]string, len(found))
	for i, s := range found {
		out[i] = s.value
	}
	return out
}

// FormatSuggestions renders suggestions as a hint, or "" if there are none.
func FormatSuggestions(suggestions []string) string {
	switch len(suggestions) {
	case 0:
		return ""
	case 1:
		return "did you mean '" + suggestions[0] + "'?"
	}
	return "did you mean one of: '" + strings.Join(suggestions, "', '") + "'?"
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}
	prev := make([]int, len(ra)+1)
	curr := make([]int, len(ra)+1)
	for i := range prev {
		prev[i] = i
	}
	for j := 1; j <= len(rb); j++ {
		curr[0] = j
		for i := 1; i <= len(ra); i++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[i] = min(prev[i]+1, curr[i-1]+1, prev[i-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(ra)]
}
