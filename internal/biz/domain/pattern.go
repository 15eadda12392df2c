package domain

import "strings"

// Pattern is a parsed keyword pattern. The variant set is closed: Literal,
// Wildcard, ExactPhrase, AndGroup and OrGroup. Patterns are immutable after
// parsing and safe to share across goroutines.
type Pattern interface {
	// Matches evaluates the pattern against a normalized message.
	// Pure, never fails, no allocation after the one-time tokenization.
	Matches(msg *Message) bool

	// String renders the canonical keyword syntax for the pattern.
	// Re-parsing the canonical form yields a structurally equal pattern.
	String() string

	isPattern()
}

// Literal matches when some token equals the word exactly.
// Word-boundary semantics: "java" never matches inside "javascript".
type Literal struct {
	Word string
}

func (p *Literal) Matches(msg *Message) bool { return msg.HasToken(p.Word) }
func (p *Literal) String() string            { return p.Word }
func (p *Literal) isPattern()                {}

// Wildcard matches when some token starts with the prefix.
// The prefix anchors at the token start, so "develop*" matches "developer"
// but not "redevelop".
type Wildcard struct {
	Prefix string
}

func (p *Wildcard) Matches(msg *Message) bool { return msg.HasTokenPrefix(p.Prefix) }
func (p *Wildcard) String() string            { return p.Prefix + "*" }
func (p *Wildcard) isPattern()                {}

// PhraseWord is one element of an exact phrase: a literal word or a
// wildcard prefix.
type PhraseWord struct {
	Text     string
	Wildcard bool
}

func (w PhraseWord) matches(tok string) bool {
	if w.Wildcard {
		return strings.HasPrefix(tok, w.Text)
	}
	return tok == w.Text
}

// ExactPhrase matches when a contiguous run of tokens aligns with every
// phrase word in order
type ExactPhrase struct {
	Words []PhraseWord
}

func (p *ExactPhrase) Matches(msg *Message) bool {
	if len(p.Words) == 0 {
		return false
	}
	for i := 0; i+len(p.Words) <= len(msg.Tokens); i++ {
		aligned := true
		for j, w := range p.Words {
			if !w.matches(msg.Tokens[i+j].Text) {
				aligned = false
				break
			}
		}
		if aligned {
			return true
		}
	}
	return false
}

func (p *ExactPhrase) String() string {
	var sb strings.Builder
	sb.WriteByte('"')
	for i, w := range p.Words {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(w.Text)
		if w.Wildcard {
			sb.WriteByte('*')
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

func (p *ExactPhrase) isPattern() {}

// AndGroup matches when every child matches somewhere in the message.
// Children are evaluated independently against the full token set; order
// and adjacency do not matter.
type AndGroup struct {
	Children []Pattern
}

func (p *AndGroup) Matches(msg *Message) bool {
	for _, c := range p.Children {
		if !c.Matches(msg) {
			return false
		}
	}
	return true
}

func (p *AndGroup) String() string { return joinPatterns(p.Children, "+") }
func (p *AndGroup) isPattern()     {}

// OrGroup matches when at least one child matches, short-circuiting on the
// first hit
type OrGroup struct {
	Children []Pattern
}

func (p *OrGroup) Matches(msg *Message) bool {
	for _, c := range p.Children {
		if c.Matches(msg) {
			return true
		}
	}
	return false
}

func (p *OrGroup) String() string { return joinPatterns(p.Children, "|") }
func (p *OrGroup) isPattern()     {}

func joinPatterns(patterns []Pattern, sep string) string {
	parts := make([]string, len(patterns))
	for i, p := range patterns {
		parts[i] = p.String()
	}
	return strings.Join(parts, sep)
}
