package domain

import "testing"

func TestNormalizeMessage_Tokens(t *testing.T) {
	msg := NormalizeMessage("Senior C++ Developer, remote-friendly!")

	want := []string{"senior", "c", "developer", "remote", "friendly"}
	if len(msg.Tokens) != len(want) {
		t.Fatalf("Got %d tokens %v, want %d", len(msg.Tokens), msg.Tokens, len(want))
	}
	for i, w := range want {
		if msg.Tokens[i].Text != w {
			t.Errorf("Token %d = %q, want %q", i, msg.Tokens[i].Text, w)
		}
	}
}

func TestNormalizeMessage_Offsets(t *testing.T) {
	msg := NormalizeMessage("go, rust")

	if len(msg.Tokens) != 2 {
		t.Fatalf("Got %d tokens, want 2", len(msg.Tokens))
	}
	first := msg.Tokens[0]
	if first.Start != 0 || first.End != 2 {
		t.Errorf("First token span = [%d,%d), want [0,2)", first.Start, first.End)
	}
	second := msg.Tokens[1]
	if msg.Text[second.Start:second.End] != "rust" {
		t.Errorf("Second token span does not cover 'rust': %q", msg.Text[second.Start:second.End])
	}
}

func TestNormalizeMessage_UnderscoreAndDigits(t *testing.T) {
	msg := NormalizeMessage("python_3 and web3")

	if !msg.HasToken("python_3") {
		t.Error("Underscore should stay inside a token")
	}
	if !msg.HasToken("web3") {
		t.Error("Digits should stay inside a token")
	}
}

func TestNormalizeMessage_Empty(t *testing.T) {
	msg := NormalizeMessage("  ... !!! ")
	if len(msg.Tokens) != 0 {
		t.Errorf("Expected no tokens, got %v", msg.Tokens)
	}
}

func TestNormalizeMessage_Unicode(t *testing.T) {
	msg := NormalizeMessage("Требуется Python разработчик")

	if !msg.HasToken("python") {
		t.Error("Expected lowercased python token")
	}
	if !msg.HasToken("разработчик") {
		t.Error("Expected cyrillic token")
	}
	if !msg.HasTokenPrefix("разработ") {
		t.Error("Expected cyrillic prefix match")
	}
}
