package domain

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ParseErrorKind classifies a keyword syntax error
type ParseErrorKind string

const (
	ErrUnbalancedBracket        ParseErrorKind = "UNBALANCED_BRACKET"
	ErrUnbalancedQuote          ParseErrorKind = "UNBALANCED_QUOTE"
	ErrNestedBracket            ParseErrorKind = "NESTED_BRACKET"
	ErrEmptyPattern             ParseErrorKind = "EMPTY_PATTERN"
	ErrEmptyOrBranch            ParseErrorKind = "EMPTY_OR_BRANCH"
	ErrInvalidWildcardPlacement ParseErrorKind = "INVALID_WILDCARD_PLACEMENT"
)

// ParseError reports a malformed keyword entry. It carries the raw input as
// the user typed it and the byte offset of the problem, so callers can show
// the offending spot.
type ParseError struct {
	Kind   ParseErrorKind
	Input  string
	Offset int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at offset %d in %q", e.Kind, e.Offset, e.Input)
}

// Is matches parse errors by kind
func (e *ParseError) Is(target error) bool {
	var pe *ParseError
	if errors.As(target, &pe) {
		return e.Kind == pe.Kind
	}
	return false
}

// IsParseErrorKind reports whether err is a ParseError of the given kind
func IsParseErrorKind(err error, kind ParseErrorKind) bool {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Kind == kind
	}
	return false
}

func parseErr(kind ParseErrorKind, input string, offset int) *ParseError {
	return &ParseError{Kind: kind, Input: input, Offset: offset}
}

// ParseKeyword parses one raw keyword entry into its AST. The caller splits
// comma-separated submissions before calling; this parses a single entry.
//
// Grammar, left to right over the trimmed string:
//
//	[...]          required entry (brackets may not nest)
//	a|b|c          OR group, any alternative suffices
//	a+b            AND group, every term must match somewhere
//	"exact words"  phrase, contiguous ordered token alignment
//	word*          trailing wildcard, token-prefix match
//	word           literal, whole-token match
//
// Parsing is deterministic and total: one entry yields exactly one AST or
// one typed ParseError, never a partial result.
func ParseKeyword(raw string) (*KeywordEntry, error) {
	body, base := trimWithOffset(raw, 0)
	if body == "" {
		return nil, parseErr(ErrEmptyPattern, raw, 0)
	}

	required := false
	if strings.HasPrefix(body, "[") {
		if len(body) < 2 || !strings.HasSuffix(body, "]") {
			return nil, parseErr(ErrUnbalancedBracket, raw, base)
		}
		required = true
		body, base = trimWithOffset(body[1:len(body)-1], base+1)
		if body == "" {
			return nil, parseErr(ErrEmptyPattern, raw, base)
		}
	}

	// Brackets are only legal as the outermost wrapper
	if i := strings.IndexAny(body, "[]"); i >= 0 {
		kind := ErrUnbalancedBracket
		if required && body[i] == '[' {
			kind = ErrNestedBracket
		}
		return nil, parseErr(kind, raw, base+i)
	}

	pattern, err := parseDisjunction(raw, body, base)
	if err != nil {
		return nil, err
	}

	return &KeywordEntry{Raw: raw, Pattern: pattern, Required: required}, nil
}

// parseDisjunction splits on top-level | into an OrGroup
func parseDisjunction(raw, s string, base int) (Pattern, error) {
	segs := splitTopLevel(s, '|')
	if len(segs) == 1 {
		return parseConjunction(raw, s, base)
	}

	children := make([]Pattern, 0, len(segs))
	for _, seg := range segs {
		branch, off := trimWithOffset(seg.text, base+seg.off)
		if branch == "" {
			return nil, parseErr(ErrEmptyOrBranch, raw, base+seg.off)
		}
		child, err := parseConjunction(raw, branch, off)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return &OrGroup{Children: children}, nil
}

// parseConjunction splits on top-level + into an AndGroup.
// + binds tighter than |, so a|b+c reads as a OR (b AND c).
func parseConjunction(raw, s string, base int) (Pattern, error) {
	segs := splitTopLevel(s, '+')
	if len(segs) == 1 {
		return parseTerm(raw, s, base)
	}

	children := make([]Pattern, 0, len(segs))
	for _, seg := range segs {
		term, off := trimWithOffset(seg.text, base+seg.off)
		if term == "" {
			return nil, parseErr(ErrEmptyPattern, raw, base+seg.off)
		}
		child, err := parseTerm(raw, term, off)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return &AndGroup{Children: children}, nil
}

// parseTerm parses one trimmed, non-empty term: a quoted or unquoted phrase,
// a wildcard, or a literal
func parseTerm(raw, s string, base int) (Pattern, error) {
	if s[0] == '"' {
		if len(s) < 2 || s[len(s)-1] != '"' {
			return nil, parseErr(ErrUnbalancedQuote, raw, base)
		}
		interior := s[1 : len(s)-1]
		if i := strings.IndexByte(interior, '"'); i >= 0 {
			return nil, parseErr(ErrUnbalancedQuote, raw, base+1+i)
		}
		phrase, off := trimWithOffset(interior, base+1)
		if phrase == "" {
			return nil, parseErr(ErrEmptyPattern, raw, base)
		}
		return parsePhrase(raw, phrase, off)
	}

	// Quotes must wrap an entire term
	if i := strings.IndexByte(s, '"'); i >= 0 {
		return nil, parseErr(ErrUnbalancedQuote, raw, base+i)
	}

	// An unquoted multi-word term is a phrase as well
	if strings.IndexFunc(s, unicode.IsSpace) >= 0 {
		return parsePhrase(raw, s, base)
	}

	word, err := parseWord(raw, s, base)
	if err != nil {
		return nil, err
	}
	if word.Wildcard {
		return &Wildcard{Prefix: word.Text}, nil
	}
	return &Literal{Word: word.Text}, nil
}

// parsePhrase splits on whitespace into ordered phrase words
func parsePhrase(raw, s string, base int) (Pattern, error) {
	var words []PhraseWord
	i := 0
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if unicode.IsSpace(r) {
			i += size
			continue
		}
		j := i
		for j < len(s) {
			r, size := utf8.DecodeRuneInString(s[j:])
			if unicode.IsSpace(r) {
				break
			}
			j += size
		}
		word, err := parseWord(raw, s[i:j], base+i)
		if err != nil {
			return nil, err
		}
		words = append(words, word)
		i = j
	}
	return &ExactPhrase{Words: words}, nil
}

// parseWord validates wildcard placement and lowercases the word.
// * is only legal as the final character and the prefix may not be empty.
func parseWord(raw, s string, base int) (PhraseWord, error) {
	star := strings.IndexByte(s, '*')
	if star < 0 {
		return PhraseWord{Text: strings.ToLower(s)}, nil
	}
	if star != len(s)-1 {
		return PhraseWord{}, parseErr(ErrInvalidWildcardPlacement, raw, base+star)
	}
	prefix := s[:len(s)-1]
	if prefix == "" {
		return PhraseWord{}, parseErr(ErrInvalidWildcardPlacement, raw, base+star)
	}
	return PhraseWord{Text: strings.ToLower(prefix), Wildcard: true}, nil
}

type segment struct {
	text string
	off  int
}

// splitTopLevel splits s on sep, ignoring separators inside quotes
func splitTopLevel(s string, sep byte) []segment {
	var segs []segment
	start := 0
	inQuote := false
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			inQuote = !inQuote
		case sep:
			if !inQuote {
				segs = append(segs, segment{text: s[start:i], off: start})
				start = i + 1
			}
		}
	}
	return append(segs, segment{text: s[start:], off: start})
}

// trimWithOffset trims surrounding whitespace and returns the new base offset
func trimWithOffset(s string, base int) (string, int) {
	trimmed := strings.TrimLeftFunc(s, unicode.IsSpace)
	base += len(s) - len(trimmed)
	return strings.TrimRightFunc(trimmed, unicode.IsSpace), base
}
