// Package query implements the boolean text matcher shared by conversation
// search and post search. Queries are ordered tokens of bare words,
// double-quoted phrases, and the unquoted operator "or": words and phrases
// combine with AND, "or" splits the token stream into alternative groups.
package query

import "strings"

// TokenKind discriminates parsed query tokens.
type TokenKind int

const (
	// TokenWord is a bare word matched by substring containment.
	TokenWord TokenKind = iota
	// TokenPhrase is a double-quoted phrase; spaces are preserved and the
	// phrase must appear verbatim (case-insensitive).
	TokenPhrase
	// TokenOr is the group separator.
	TokenOr
)

// Token is one parsed element of a query.
type Token struct {
	Kind  TokenKind
	Value string
}

// Parse tokenizes a raw query. A quote only opens a phrase at the start of
// the input or after a space; an unterminated phrase falls back to a word.
func Parse(raw string) []Token {
	var tokens []Token
	var current strings.Builder

	flush := func() {
		word := strings.TrimSpace(current.String())
		current.Reset()
		if word == "" {
			return
		}
		if strings.EqualFold(word, "or") {
			tokens = append(tokens, Token{Kind: TokenOr})
			return
		}
		tokens = append(tokens, Token{Kind: TokenWord, Value: word})
	}

	runes := []rune(raw)
	for i := 0; i < len(runes); {
		c := runes[i]
		switch {
		case c == '"' && (i == 0 || runes[i-1] == ' '):
			flush()
			i++
			start := i
			for i < len(runes) && runes[i] != '"' {
				i++
			}
			phrase := strings.TrimSpace(string(runes[start:i]))
			if i < len(runes) {
				// Closing quote found.
				i++
				if phrase != "" {
					tokens = append(tokens, Token{Kind: TokenPhrase, Value: phrase})
				}
			} else if phrase != "" {
				// No closing quote; treat the remainder as a word.
				tokens = append(tokens, Token{Kind: TokenWord, Value: phrase})
			}
		case c == ' ':
			flush()
			i++
		default:
			current.WriteRune(c)
			i++
		}
	}
	flush()

	return tokens
}

// Matches reports whether text satisfies the query. Matching is
// case-insensitive substring containment with no word-boundary enforcement,
// so "cat" also matches inside "category". An empty or whitespace-only
// query never matches; callers treat that as "no filter".
func Matches(text, raw string) bool {
	tokens := Parse(raw)
	if len(tokens) == 0 {
		return false
	}

	lower := strings.ToLower(text)

	hasOr := false
	for _, tok := range tokens {
		if tok.Kind == TokenOr {
			hasOr = true
			break
		}
	}
	if !hasOr {
		return groupMatches(lower, tokens)
	}

	// AND within each group, OR across groups.
	var group []Token
	for _, tok := range tokens {
		if tok.Kind == TokenOr {
			if len(group) > 0 {
				if groupMatches(lower, group) {
					return true
				}
				group = group[:0]
			}
			continue
		}
		group = append(group, tok)
	}
	return len(group) > 0 && groupMatches(lower, group)
}

func groupMatches(lowerText string, group []Token) bool {
	for _, tok := range group {
		if tok.Kind == TokenOr {
			continue
		}
		if !strings.Contains(lowerText, strings.ToLower(tok.Value)) {
			return false
		}
	}
	return true
}
