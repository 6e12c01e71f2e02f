package fall

import (
	"fmt"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

// CustomMatcher recognizes a token whose shape isn't a regular language
// (e.g. a raw string with a variable hash count). It receives the text
// remaining from the match position onward and returns the byte length of
// the token it recognizes, or ok=false to reject (falling back to the
// single-codepoint ERROR path). It must not retain references to rest.
type CustomMatcher func(rest string) (length int, ok bool)

// LexRule is one entry in a lexer's ordered rule table. Pattern is matched
// anchored at the current position; when multiple rules match, the one with
// the longest match wins, and ties are broken by earliest declaration order.
type LexRule struct {
	Type    NodeType
	Pattern *regexp2.Regexp
	Custom  CustomMatcher
}

// NewLexRule compiles pattern (a regular expression, without a leading
// anchor) into a LexRule for ty. It panics if pattern fails to compile: a
// malformed language table is a programmer error, not a runtime failure.
func NewLexRule(ty NodeType, pattern string, custom CustomMatcher) LexRule {
	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		panic(fmt.Sprintf("fall: invalid lex rule pattern %q: %v", pattern, err))
	}
	re.MatchTimeout = 0
	return LexRule{Type: ty, Pattern: re, Custom: custom}
}

// Tokenize lexes text against rules using longest-match, earliest-rule-wins
// semantics and returns the resulting token stream. Tokens tile the input
// exactly: concatenating their ranges reconstructs text with no gaps or
// overlaps. Lexical errors never stop tokenization: an unmatched byte
// position emits a single-codepoint ERROR token instead.
func Tokenize(text string, rules []LexRule) []Token {
	var tokens []Token
	pos := 0
	for pos < len(text) {
		ruleIdx, length, ok := longestMatch(text, pos, rules)
		if !ok {
			_, size := utf8.DecodeRuneInString(text[pos:])
			tokens = append(tokens, Token{Type: ERROR, Range: RangeFromTo(uint32(pos), uint32(pos+size))})
			pos += size
			continue
		}

		rule := rules[ruleIdx]
		if rule.Custom != nil {
			n, custOK := rule.Custom(text[pos:])
			if !custOK {
				_, size := utf8.DecodeRuneInString(text[pos:])
				tokens = append(tokens, Token{Type: ERROR, Range: RangeFromTo(uint32(pos), uint32(pos+size))})
				pos += size
				continue
			}
			if n <= 0 {
				panic("fall: custom matcher returned non-positive length")
			}
			length = n
		}

		if length <= 0 {
			panic("fall: lex rule produced an empty token")
		}

		tokens = append(tokens, Token{Type: rule.Type, Range: RangeFromTo(uint32(pos), uint32(pos+length))})
		pos += length
	}
	return tokens
}

// longestMatch attempts every rule anchored at pos and returns the index of
// the rule with the longest match, breaking ties by earliest declaration
// order. ok is false if no rule matches at pos.
func longestMatch(text string, pos int, rules []LexRule) (ruleIdx int, length int, ok bool) {
	best := -1
	bestLen := -1
	for i, rule := range rules {
		n, matched := matchAt(rule.Pattern, text, pos)
		if !matched {
			continue
		}
		if n > bestLen {
			best = i
			bestLen = n
		}
	}
	if best < 0 {
		return 0, 0, false
	}
	return best, bestLen, true
}

// matchAt reports whether re matches text starting exactly at pos, and if
// so, the byte length of that match. regexp2's Match.Index and Match.Length
// are rune offsets, not byte offsets, so matching against the full text at
// a byte position pos would desync on any non-ASCII prefix. Instead the
// match runs against the suffix text[pos:] (so the expected start is always
// rune index 0 of that suffix, never pos itself) and the byte length is
// recovered from the matched substring itself, mirroring
// original_source/src/builder.rs's byte-offset regex matching against
// &text[offset..].
func matchAt(re *regexp2.Regexp, text string, pos int) (int, bool) {
	m, err := re.FindStringMatchStartingAt(text[pos:], 0)
	if err != nil || m == nil {
		return 0, false
	}
	if m.Index != 0 {
		return 0, false
	}
	return len(m.String()), true
}
