package domain

import "testing"

func mustParse(t *testing.T, raw string) *KeywordEntry {
	t.Helper()
	entry, err := ParseKeyword(raw)
	if err != nil {
		t.Fatalf("ParseKeyword(%q) error: %v", raw, err)
	}
	return entry
}

func TestLiteral_WordBoundary(t *testing.T) {
	tests := []struct {
		keyword string
		message string
		want    bool
	}{
		{"java", "Senior Java developer wanted", true},
		{"java", "javascript developer wanted", false},
		{"java", "We use Java, Kotlin and Go", true},
		{"go", "Going south", false},
		{"go", "Go developer (remote)", true},
	}

	for _, tt := range tests {
		entry := mustParse(t, tt.keyword)
		got := entry.Matches(NormalizeMessage(tt.message))
		if got != tt.want {
			t.Errorf("%q against %q = %v, want %v", tt.keyword, tt.message, got, tt.want)
		}
	}
}

func TestWildcard_PrefixAnchorsAtTokenStart(t *testing.T) {
	entry := mustParse(t, "develop*")

	for _, msg := range []string{"a developer", "web development", "developing apps"} {
		if !entry.Matches(NormalizeMessage(msg)) {
			t.Errorf("develop* should match %q", msg)
		}
	}
	if entry.Matches(NormalizeMessage("urban redevelopment plan")) {
		t.Error("develop* must not match inside redevelopment")
	}
}

func TestExactPhrase_OrderAndAdjacency(t *testing.T) {
	entry := mustParse(t, `"support* engineer*"`)

	if !entry.Matches(NormalizeMessage("Senior Support Engineer role")) {
		t.Error("Expected match on adjacent support/engineer tokens")
	}
	if entry.Matches(NormalizeMessage("Engineer for Support team")) {
		t.Error("Must not match tokens in the wrong order")
	}
	if entry.Matches(NormalizeMessage("Support our lead engineer")) {
		t.Error("Must not match non-adjacent tokens")
	}
}

func TestExactPhrase_PunctuationBetweenTokens(t *testing.T) {
	entry := mustParse(t, `"remote work"`)

	// Punctuation does not produce tokens, so these stay adjacent
	if !entry.Matches(NormalizeMessage("Remote, work from anywhere")) {
		t.Error("Expected match across punctuation")
	}
}

func TestAndGroup_OrderIndependent(t *testing.T) {
	entry := mustParse(t, "python+remote")

	tests := []struct {
		message string
		want    bool
	}{
		{"Remote Python developer wanted", true},
		{"Python needed, remote only", true},
		{"Python developer in office", false},
		{"Remote Go developer", false},
	}

	for _, tt := range tests {
		got := entry.Matches(NormalizeMessage(tt.message))
		if got != tt.want {
			t.Errorf("python+remote against %q = %v, want %v", tt.message, got, tt.want)
		}
	}
}

func TestOrGroup_AnyBranch(t *testing.T) {
	entry := mustParse(t, "[remote|online]")

	if !entry.Matches(NormalizeMessage("Online interview this week")) {
		t.Error("Expected online branch to match")
	}
	if !entry.Matches(NormalizeMessage("Fully remote position")) {
		t.Error("Expected remote branch to match")
	}
	if entry.Matches(NormalizeMessage("Office position in Berlin")) {
		t.Error("No branch should match")
	}
}

func TestPattern_CanonicalStrings(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Remote", "remote"},
		{"[ a | b ]", "[a|b]"},
		{"python + django*", "python+django*"},
		{`" Senior  Engineer "`, `"senior engineer"`},
		{"machine learning", `"machine learning"`},
	}

	for _, tt := range tests {
		entry := mustParse(t, tt.input)
		if got := entry.Canonical(); got != tt.want {
			t.Errorf("Canonical(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
