package lexer

import (
	"cmp"
	"slices"
)

// FrequencyMap maps a token to the number of times it was seen.
type FrequencyMap map[string]int

type TokenCount struct {
	Token string `json:"token"`
	Count int    `json:"count"`
}

// Fold counts tokens into a new map.
func Fold(tokens []string) FrequencyMap {
	frequencies := make(FrequencyMap, len(tokens))
	for _, token := range tokens {
		frequencies[token]++
	}

	return frequencies
}

// Merge sums maps into a new map. The inputs are left untouched.
func Merge(maps ...FrequencyMap) FrequencyMap {
	merged := make(FrequencyMap)
	for _, m := range maps {
		for token, count := range m {
			merged[token] += count
		}
	}

	return merged
}

func (f FrequencyMap) Total() int {
	total := 0
	for _, count := range f {
		total += count
	}

	return total
}

// Top ranks tokens by count, ties broken alphabetically. n <= 0 returns all.
func (f FrequencyMap) Top(n int) []TokenCount {
	ranked := make([]TokenCount, 0, len(f))
	for token, count := range f {
		ranked = append(ranked, TokenCount{Token: token, Count: count})
	}

	slices.SortFunc(ranked, func(a, b TokenCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Token, b.Token)
	})

	if n > 0 && n < len(ranked) {
		ranked = ranked[:n]
	}

	return ranked
}
