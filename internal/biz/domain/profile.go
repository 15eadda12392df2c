package domain

// KeywordEntry is one parsed keyword as the user typed it. Required entries
// come wrapped in [...]; a bracketed OR group is required as a unit, meaning
// the whole disjunction must hold, not each branch.
type KeywordEntry struct {
	Raw      string
	Pattern  Pattern
	Required bool
}

// Matches evaluates the entry against a normalized message
func (e *KeywordEntry) Matches(msg *Message) bool {
	return e.Pattern.Matches(msg)
}

// Canonical renders the normalized keyword syntax for the entry
func (e *KeywordEntry) Canonical() string {
	if e.Required {
		return "[" + e.Pattern.String() + "]"
	}
	return e.Pattern.String()
}

// KeywordProfile holds one user's parsed keyword sets. Immutable for the
// duration of an evaluation; the caller rebuilds it whenever the user edits
// their keywords.
type KeywordProfile struct {
	Required []*KeywordEntry
	Optional []*KeywordEntry
	Ignore   []*KeywordEntry
}

// NewKeywordProfile splits the match entries into required and optional by
// their bracket flag and attaches the ignore entries
func NewKeywordProfile(keywords, ignore []*KeywordEntry) *KeywordProfile {
	p := &KeywordProfile{Ignore: ignore}
	for _, e := range keywords {
		if e.Required {
			p.Required = append(p.Required, e)
		} else {
			p.Optional = append(p.Optional, e)
		}
	}
	return p
}

// IsEmpty reports whether the profile has no entries at all
func (p *KeywordProfile) IsEmpty() bool {
	return len(p.Required) == 0 && len(p.Optional) == 0 && len(p.Ignore) == 0
}

// Evaluate decides whether a message should be forwarded to this profile's
// owner:
//
//	required_ok AND optional_ok AND NOT ignore_hit
//
// An empty required or optional list is vacuously satisfied; an empty ignore
// list never vetoes. Pure function, no failure mode.
func (p *KeywordProfile) Evaluate(msg *Message) bool {
	// Ignore entries veto everything else, so check them first
	for _, e := range p.Ignore {
		if e.Matches(msg) {
			return false
		}
	}

	for _, e := range p.Required {
		if !e.Matches(msg) {
			return false
		}
	}

	if len(p.Optional) == 0 {
		return true
	}
	for _, e := range p.Optional {
		if e.Matches(msg) {
			return true
		}
	}
	return false
}

// EvaluateText normalizes the text and evaluates it. Callers matching one
// message against many profiles should normalize once with NormalizeMessage
// and call Evaluate directly.
func (p *KeywordProfile) EvaluateText(text string) bool {
	return p.Evaluate(NormalizeMessage(text))
}
