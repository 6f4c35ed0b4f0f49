package lexer

import (
	"fmt"
	"regexp"
	"strings"
)

type FilterPolicy int

const (
	// Strict drops empty tokens, hex-looking tokens, numbers and single characters
	Strict FilterPolicy = iota
	// Unfiltered only drops empty tokens
	Unfiltered
)

var (
	nonWordRegex = regexp.MustCompile(`\W+`)
	digitsRegex  = regexp.MustCompile(`^[0-9]+$`)
)

func (p FilterPolicy) String() string {
	switch p {
	case Strict:
		return "strict"
	case Unfiltered:
		return "unfiltered"
	default:
		return fmt.Sprintf("FilterPolicy(%d)", int(p))
	}
}

func ParseFilterPolicy(name string) (FilterPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "strict":
		return Strict, nil
	case "unfiltered":
		return Unfiltered, nil
	default:
		return Strict, fmt.Errorf("unknown filter policy %q", name)
	}
}

// Tokenize splits text into word tokens, filters them with policy and counts
// the survivors.
func Tokenize(text string, policy FilterPolicy) FrequencyMap {
	return Fold(Tokens(text, policy))
}

// Tokens returns the tokens of text that survive policy, in order.
func Tokens(text string, policy FilterPolicy) []string {
	var tokens []string
	for _, word := range nonWordRegex.Split(text, -1) {
		if policy.admits(word) {
			tokens = append(tokens, word)
		}
	}

	return tokens
}

func (p FilterPolicy) admits(word string) bool {
	if word == "" {
		return false
	}
	if p == Unfiltered {
		return true
	}

	return !strings.Contains(word, "0x") && !digitsRegex.MatchString(word) && len(word) > 1
}
