package domain

import (
	"strings"
	"unicode"
)

// Token is a maximal run of word characters in normalized message text
type Token struct {
	Text  string
	Start int // byte offset into the normalized text
	End   int
}

// Message is a channel post normalized for matching.
// Normalization (lowercasing + tokenization) happens exactly once per post,
// no matter how many keyword entries are evaluated against it.
type Message struct {
	Text   string // lowercased original text
	Tokens []Token
}

// NormalizeMessage lowercases the text and extracts its tokens
func NormalizeMessage(text string) *Message {
	lower := strings.ToLower(text)
	msg := &Message{Text: lower}

	start := -1
	for i, r := range lower {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			msg.Tokens = append(msg.Tokens, Token{Text: lower[start:i], Start: start, End: i})
			start = -1
		}
	}
	if start >= 0 {
		msg.Tokens = append(msg.Tokens, Token{Text: lower[start:], Start: start, End: len(lower)})
	}

	return msg
}

// HasToken reports whether some token equals word exactly
func (m *Message) HasToken(word string) bool {
	for _, t := range m.Tokens {
		if t.Text == word {
			return true
		}
	}
	return false
}

// HasTokenPrefix reports whether some token starts with prefix
func (m *Message) HasTokenPrefix(prefix string) bool {
	for _, t := range m.Tokens {
		if strings.HasPrefix(t.Text, prefix) {
			return true
		}
	}
	return false
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
