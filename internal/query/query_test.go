package query

import "testing"

func TestMatchesAnd(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		query    string
		expected bool
	}{
		{
			name:     "all words present",
			text:     "hello world example",
			query:    "hello example",
			expected: true,
		},
		{
			name:     "one word missing",
			text:     "hello world",
			query:    "hello missing",
			expected: false,
		},
		{
			name:     "substring containment without word boundaries",
			text:     "category theory",
			query:    "cat",
			expected: true,
		},
		{
			name:     "case insensitive",
			text:     "Hello World",
			query:    "hello WORLD",
			expected: true,
		},
		{
			name:     "empty query never matches",
			text:     "anything",
			query:    "",
			expected: false,
		},
		{
			name:     "whitespace-only query never matches",
			text:     "anything",
			query:    "   ",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Matches(tt.text, tt.query); got != tt.expected {
				t.Errorf("Matches(%q, %q) = %v, want %v", tt.text, tt.query, got, tt.expected)
			}
		})
	}
}

func TestMatchesOr(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		query    string
		expected bool
	}{
		{
			name:     "second alternative matches",
			text:     "cat",
			query:    "dog or cat",
			expected: true,
		},
		{
			name:     "no alternative matches",
			text:     "fish",
			query:    "dog or cat",
			expected: false,
		},
		{
			name:     "and within group, or across groups",
			text:     "big cat sleeping",
			query:    "big cat or small dog",
			expected: true,
		},
		{
			name:     "group only partially satisfied",
			text:     "big dog",
			query:    "big cat or small dog",
			expected: false,
		},
		{
			name:     "operator is case insensitive",
			text:     "cat",
			query:    "dog OR cat",
			expected: true,
		},
		{
			name:     "lone operator matches nothing",
			text:     "or",
			query:    "or",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Matches(tt.text, tt.query); got != tt.expected {
				t.Errorf("Matches(%q, %q) = %v, want %v", tt.text, tt.query, got, tt.expected)
			}
		})
	}
}

func TestMatchesPhrases(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		query    string
		expected bool
	}{
		{
			name:     "phrase present verbatim",
			text:     "the quick brown fox",
			query:    `"quick brown"`,
			expected: true,
		},
		{
			name:     "phrase words present but split",
			text:     "quick and brown",
			query:    `"quick brown"`,
			expected: false,
		},
		{
			name:     "phrase mixed with words",
			text:     "the quick brown fox jumps",
			query:    `fox "quick brown"`,
			expected: true,
		},
		{
			name:     "quoted or is a literal",
			text:     "this or that",
			query:    `"or"`,
			expected: true,
		},
		{
			name:     "unterminated quote degrades to word",
			text:     "quick brown fox",
			query:    `"quick`,
			expected: true,
		},
		{
			name:     "quote mid-word stays part of the word",
			text:     `say "hi"`,
			query:    `say`,
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Matches(tt.text, tt.query); got != tt.expected {
				t.Errorf("Matches(%q, %q) = %v, want %v", tt.text, tt.query, got, tt.expected)
			}
		})
	}
}

func TestParseTokenKinds(t *testing.T) {
	tokens := Parse(`alpha "beta gamma" or delta`)

	want := []Token{
		{Kind: TokenWord, Value: "alpha"},
		{Kind: TokenPhrase, Value: "beta gamma"},
		{Kind: TokenOr},
		{Kind: TokenWord, Value: "delta"},
	}

	if len(tokens) != len(want) {
		t.Fatalf("Parse returned %d tokens, want %d: %+v", len(tokens), len(want), tokens)
	}
	for i, tok := range tokens {
		if tok != want[i] {
			t.Errorf("token %d = %+v, want %+v", i, tok, want[i])
		}
	}
}
