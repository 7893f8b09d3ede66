package textmatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	type testConfig struct {
		name   string
		input  string
		expect []string
	}
	for _, tc := range []testConfig{
		{
			name:   "empty input",
			input:  "",
			expect: nil,
		},
		{
			name:   "punctuation only",
			input:  "--- ... !!!",
			expect: nil,
		},
		{
			name:   "lowercases and splits on punctuation",
			input:  "Bachelor of Science, Computer-Science (2021)",
			expect: []string{"bachelor", "of", "science", "computer", "science", "2021"},
		},
		{
			name:   "keeps digits",
			input:  "GPA 3.85",
			expect: []string{"gpa", "3", "85"},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, Tokenize(tc.input))
		})
	}
}

func TestSimilarity(t *testing.T) {
	type testConfig struct {
		name   string
		a      string
		b      string
		expect float64
	}
	for _, tc := range []testConfig{
		{
			name:   "both empty are fully similar",
			a:      "",
			b:      "",
			expect: 100,
		},
		{
			name:   "identical text",
			a:      "Jane Doe Bachelor of Science",
			b:      "Jane Doe Bachelor of Science",
			expect: 100,
		},
		{
			name:   "case and punctuation insensitive",
			a:      "JANE DOE, bachelor-of-science",
			b:      "jane doe bachelor of science",
			expect: 100,
		},
		{
			name:   "no overlap",
			a:      "alpha beta",
			b:      "gamma delta",
			expect: 0,
		},
		{
			name:   "half overlap",
			a:      "alpha beta",
			b:      "alpha gamma",
			expect: 100.0 / 3.0,
		},
		{
			name:   "one side empty",
			a:      "alpha",
			b:      "",
			expect: 0,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.expect, Similarity(tc.a, tc.b), 0.001)
		})
	}
}

func TestDiff(t *testing.T) {
	added, removed := Diff("jane doe bachelor science", "john doe bachelor science")
	assert.Equal(t, []string{"john"}, added)
	assert.Equal(t, []string{"jane"}, removed)

	added, removed = Diff("same text", "same text")
	assert.Empty(t, added)
	assert.Empty(t, removed)
}

func TestModifiedPct(t *testing.T) {
	assert.InDelta(t, 0.0, ModifiedPct("a b c", "a b c"), 0.001)
	assert.InDelta(t, 100.0, ModifiedPct("a b", "c d"), 0.001)
	assert.InDelta(t, 50.0, ModifiedPct("a b c", "a b d"), 0.001)
}
