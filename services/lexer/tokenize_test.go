package lexer

import (
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var tokenizeTestCases = []struct {
	name     string
	text     string
	policy   FilterPolicy
	expected FrequencyMap
}{
	{
		name:     "StrictDropsNoise",
		text:     "0x1A foo 5 a bar",
		policy:   Strict,
		expected: FrequencyMap{"foo": 1, "bar": 1},
	},
	{
		name:     "UnfilteredKeepsEverything",
		text:     "a a b",
		policy:   Unfiltered,
		expected: FrequencyMap{"a": 2, "b": 1},
	},
	{
		name:     "StrictEmpty",
		text:     "",
		policy:   Strict,
		expected: FrequencyMap{},
	},
	{
		name:     "UnfilteredEmpty",
		text:     "",
		policy:   Unfiltered,
		expected: FrequencyMap{},
	},
	{
		name:     "OnlySeparators",
		text:     " ;(){}\n\t",
		policy:   Unfiltered,
		expected: FrequencyMap{},
	},
	{
		name:     "CaseSensitive",
		text:     "Foo foo FOO foo",
		policy:   Strict,
		expected: FrequencyMap{"Foo": 1, "foo": 2, "FOO": 1},
	},
	{
		name:     "UnderscoreIsWordCharacter",
		text:     "my_var=other_var+my_var;",
		policy:   Strict,
		expected: FrequencyMap{"my_var": 2, "other_var": 1},
	},
	{
		name:     "StrictKeepsMixedAlphanumerics",
		text:     "int32 x 42 buf2 0xff ab0x1",
		policy:   Strict,
		expected: FrequencyMap{"int32": 1, "buf2": 1},
	},
	{
		name:     "UnfilteredKeepsNumbers",
		text:     "x[0] = 0x10;",
		policy:   Unfiltered,
		expected: FrequencyMap{"x": 1, "0": 1, "0x10": 1},
	},
	{
		name:     "NonASCIISplits",
		text:     "café naïve",
		policy:   Unfiltered,
		expected: FrequencyMap{"caf": 1, "na": 1, "ve": 1},
	},
}

func TestTokenize(t *testing.T) {
	for _, testCase := range tokenizeTestCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert := require.New(t)
			assert.Equal(testCase.expected, Tokenize(testCase.text, testCase.policy))
		})
	}
}

func TestParseFilterPolicy(t *testing.T) {
	assert := require.New(t)

	policy, err := ParseFilterPolicy("strict")
	assert.NoError(err)
	assert.Equal(Strict, policy)

	policy, err = ParseFilterPolicy(" Unfiltered ")
	assert.NoError(err)
	assert.Equal(Unfiltered, policy)

	_, err = ParseFilterPolicy("lenient")
	assert.Error(err)

	assert.Equal("strict", Strict.String())
	assert.Equal("unfiltered", Unfiltered.String())
}

func isWordRune(r rune) bool {
	return r == '_' || (r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)))
}

func admittedIndependently(word string, policy FilterPolicy) bool {
	if word == "" {
		return false
	}
	if policy == Unfiltered {
		return true
	}
	if len(word) <= 1 || strings.Contains(word, "0x") {
		return false
	}
	for _, r := range word {
		if r < '0' || r > '9' {
			return true
		}
	}
	return false
}

func TestTokenizeProperties(t *testing.T) {
	policyGen := rapid.SampledFrom([]FilterPolicy{Strict, Unfiltered})
	textGen := rapid.StringMatching(`[a-cx0-9_ ;.(){}\n]{0,60}`)

	t.Run("CountsSumToSurvivingTokens", func(t *testing.T) {
		rapid.Check(t, func(rt *rapid.T) {
			text := textGen.Draw(rt, "text")
			policy := policyGen.Draw(rt, "policy")

			expected := 0
			for _, word := range strings.FieldsFunc(text, func(r rune) bool { return !isWordRune(r) }) {
				if admittedIndependently(word, policy) {
					expected++
				}
			}

			frequencies := Tokenize(text, policy)
			if frequencies.Total() != expected {
				rt.Fatalf("total %d, want %d", frequencies.Total(), expected)
			}
			for token, count := range frequencies {
				if count <= 0 {
					rt.Fatalf("token %q has non-positive count %d", token, count)
				}
			}
		})
	})

	t.Run("StrictIsIdempotent", func(t *testing.T) {
		rapid.Check(t, func(rt *rapid.T) {
			text := textGen.Draw(rt, "text")

			first := Tokenize(text, Strict)
			second := Tokenize(strings.Join(Tokens(text, Strict), " "), Strict)
			require.Equal(rt, first, second)
		})
	})
}
