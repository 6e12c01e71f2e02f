package fall

import "testing"

const (
	tokA NodeType = iota + 3
	tokAB
	tokDigits
)

func TestTokenizeLongestMatchWins(t *testing.T) {
	rules := []LexRule{
		NewLexRule(tokA, `a`, nil),
		NewLexRule(tokAB, `ab`, nil),
	}
	toks := Tokenize("ab", rules)
	if len(toks) != 1 || toks[0].Type != tokAB {
		t.Fatalf("got %+v, want a single tokAB token", toks)
	}
}

func TestTokenizeEarliestRuleWinsOnTie(t *testing.T) {
	first := NodeType(10)
	second := NodeType(11)
	rules := []LexRule{
		NewLexRule(first, `\w+`, nil),
		NewLexRule(second, `[a-z]+`, nil),
	}
	toks := Tokenize("abc", rules)
	if len(toks) != 1 || toks[0].Type != first {
		t.Fatalf("got %+v, want the earliest-declared rule on a length tie", toks)
	}
}

func TestTokenizeTilesInputExactly(t *testing.T) {
	rules := []LexRule{
		NewLexRule(WHITESPACE, `\s+`, nil),
		NewLexRule(tokDigits, `\d+`, nil),
	}
	text := "12 34"
	toks := Tokenize(text, rules)
	var covered uint32
	for i, tok := range toks {
		if tok.Range.Start != covered {
			t.Fatalf("token %d leaves a gap: range %v, expected start %d", i, tok.Range, covered)
		}
		covered = tok.Range.End
	}
	if int(covered) != len(text) {
		t.Fatalf("tokens cover %d bytes, want %d", covered, len(text))
	}
}

func TestTokenizeUnmatchedByteBecomesError(t *testing.T) {
	rules := []LexRule{NewLexRule(tokDigits, `\d+`, nil)}
	toks := Tokenize("1@2", rules)
	if len(toks) != 3 {
		t.Fatalf("got %+v", toks)
	}
	if toks[1].Type != ERROR || toks[1].Range.Len() != 1 {
		t.Fatalf("expected a single-byte ERROR token for '@', got %+v", toks[1])
	}
}

func TestTokenizeCustomMatcher(t *testing.T) {
	raw := func(rest string) (int, bool) {
		if len(rest) >= 2 && rest[:2] == "r\"" {
			for i := 2; i < len(rest); i++ {
				if rest[i] == '"' {
					return i + 1, true
				}
			}
		}
		return 0, false
	}
	rules := []LexRule{NewLexRule(tokA, `r"[^"]*"`, raw)}
	toks := Tokenize(`r"hi"`, rules)
	if len(toks) != 1 || toks[0].Type != tokA || toks[0].Range.Len() != 5 {
		t.Fatalf("got %+v", toks)
	}
}

func TestTokenizeCustomMatcherRejectionFallsBackToError(t *testing.T) {
	rejectAll := func(rest string) (int, bool) { return 0, false }
	rules := []LexRule{NewLexRule(tokA, `a`, rejectAll)}
	toks := Tokenize("a", rules)
	if len(toks) != 1 || toks[0].Type != ERROR {
		t.Fatalf("got %+v, want a fallback ERROR token", toks)
	}
}

func TestNewLexRulePanicsOnInvalidPattern(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for an invalid regex")
		}
	}()
	NewLexRule(tokA, `(`, nil)
}
