package testlang

import (
	"strings"

	"github.com/odvcencio/fall/fall"
)

// "Weird" grammar NodeType indices, exercising Layer, SkipUntil, And's
// commit-point recovery, and a custom (non-regular) token matcher side by
// side. Grounded on original_source/fall_test/src/weird.rs's raw-string
// custom matcher; the Layer/SkipUntil grammar itself is original to this
// engine's tests since weird.rs's own grammar predates those IR variants.
const (
	WNUMBER fall.NodeType = iota + 2
	WPLUS
	WLPAREN
	WRPAREN
	WSEMI
	WRAW_STRING
	WFILE
	WPAREN_EXPR
	WNUMBER_EXPR
	WRAW_STRING_EXPR
)

const (
	weirdRuleFile = iota
	weirdRuleStmt
	weirdRuleParenExpr
	weirdRuleSum
	weirdRuleRawStringExpr
)

// WeirdTypes names every NodeType the weird grammar uses.
var WeirdTypes = fall.NodeTypeTable{
	fall.ERROR:       {Name: "ERROR"},
	fall.WHITESPACE:  {Name: "WHITESPACE"},
	WNUMBER:          {Name: "NUMBER"},
	WPLUS:            {Name: "PLUS"},
	WLPAREN:          {Name: "LPAREN"},
	WRPAREN:          {Name: "RPAREN"},
	WSEMI:            {Name: "SEMI"},
	WRAW_STRING:      {Name: "RAW_STRING"},
	WFILE:            {Name: "FILE"},
	WPAREN_EXPR:      {Name: "PAREN_EXPR"},
	WNUMBER_EXPR:     {Name: "NUMBER_EXPR"},
	WRAW_STRING_EXPR: {Name: "RAW_STRING_EXPR"},
}

// parseRawString recognizes Rust-style raw strings with a variable hash
// count (r"...", r#"..."#, r##"..."##, ...), a token shape no regular
// expression can match, since the closing delimiter's hash count must
// equal the opening one. Ported from weird.rs's parse_raw_string.
func parseRawString(rest string) (int, bool) {
	quoteStart := strings.IndexByte(rest, '"')
	if quoteStart < 1 {
		return 0, false
	}
	hashes := quoteStart - 1
	closing := "\"" + strings.Repeat("#", hashes)
	body := rest[quoteStart+1:]
	i := strings.Index(body, closing)
	if i < 0 {
		return 0, false
	}
	return quoteStart + 1 + i + len(closing), true
}

// WeirdLexRules tokenizes the weird grammar's source.
var WeirdLexRules = []fall.LexRule{
	fall.NewLexRule(fall.WHITESPACE, `\s+`, nil),
	fall.NewLexRule(WRAW_STRING, `r#*"`, parseRawString),
	fall.NewLexRule(WNUMBER, `\d+`, nil),
	fall.NewLexRule(WPLUS, `\+`, nil),
	fall.NewLexRule(WLPAREN, `\(`, nil),
	fall.NewLexRule(WRPAREN, `\)`, nil),
	fall.NewLexRule(WSEMI, `;`, nil),
}

func wty(t fall.NodeType) int { return int(t) }
func wintp(n int) *int        { return &n }

// WeirdRules demonstrates three recovery mechanisms together:
//   - weirdRuleSum commits after seeing "NUMBER +", so a missing
//     right-hand operand becomes an ERROR placeholder instead of failing
//     the whole expression.
//   - weirdRuleParenExpr wraps a Layer: the middle span between a pair of
//     parens (everything up to the next ")") is re-parsed as weirdRuleSum
//     in isolation, so an error inside never reaches past the ")".
//   - weirdRuleStmt falls back to SkipUntil for any statement that isn't
//     a paren expression or a raw string, recovering at the next "(" or
//     raw string start and sweeping any stray ";" up with the error.
var WeirdRules = fall.RuleTable{
	weirdRuleFile: {Ty: wintp(wty(WFILE)), Body: fall.ExprRep{
		Body: fall.ExprRule{Index: weirdRuleStmt},
	}},
	// Each real alternative eats its own optional trailing ";"; the
	// recovery alternative skips to the next token that could plausibly
	// start a statement, carrying any stray ";" along with it.
	weirdRuleStmt: {Ty: nil, Body: fall.ExprOr{Alts: []fall.Expr{
		fall.ExprAnd{Parts: []fall.Expr{
			fall.ExprRule{Index: weirdRuleParenExpr},
			fall.ExprOpt{Body: fall.ExprToken{Type: wty(WSEMI)}},
		}},
		fall.ExprAnd{Parts: []fall.Expr{
			fall.ExprRule{Index: weirdRuleRawStringExpr},
			fall.ExprOpt{Body: fall.ExprToken{Type: wty(WSEMI)}},
		}},
		fall.ExprSkipUntil{Types: []int{wty(WLPAREN), wty(WRAW_STRING)}},
	}}},
	weirdRuleParenExpr: {Ty: wintp(wty(WPAREN_EXPR)), Body: fall.ExprAnd{
		Parts: []fall.Expr{
			fall.ExprToken{Type: wty(WLPAREN)},
			fall.ExprLayer{
				Outer: fall.ExprRep{Body: fall.ExprNot{Types: []int{wty(WRPAREN)}}},
				Inner: fall.ExprRule{Index: weirdRuleSum},
			},
			fall.ExprToken{Type: wty(WRPAREN)},
		},
		Commit: nil,
	}},
	weirdRuleSum: {Ty: wintp(wty(WNUMBER_EXPR)), Body: fall.ExprAnd{
		Parts: []fall.Expr{
			fall.ExprToken{Type: wty(WNUMBER)},
			fall.ExprToken{Type: wty(WPLUS)},
			fall.ExprToken{Type: wty(WNUMBER)},
		},
		Commit: wintp(2),
	}},
	weirdRuleRawStringExpr: {Ty: wintp(wty(WRAW_STRING_EXPR)), Body: fall.ExprToken{Type: wty(WRAW_STRING)}},
}

// ParseWeird tokenizes and parses text against the weird grammar.
func ParseWeird(text string) (*fall.File, fall.ParseStats) {
	return fall.Parse(text, WeirdLexRules, WeirdRules, WeirdTypes)
}
