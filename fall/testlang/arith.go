// Package testlang holds small, hand-built grammars used to exercise the
// engine's own tests: an arithmetic expression language and a "weird"
// grammar covering Layer, SkipUntil, and a custom raw-string token.
// Grounded on original_source/fall_test/src/arith.rs and
// fall_test/src/weird.rs, reworked from their Pratt-operator-precedence
// encoding onto the plain Or/And/Rule grammar IR this engine interprets
// (the IR has no Pratt variant; see DESIGN.md).
package testlang

import "github.com/odvcencio/fall/fall"

// Arithmetic NodeType indices. 0-1 are fall's reserved ERROR/WHITESPACE.
const (
	NUMBER fall.NodeType = iota + 2
	PLUS
	MINUS
	STAR
	SLASH
	LPAREN
	RPAREN
	FILE
	SUM_EXPR
	PRODUCT_EXPR
	CONSTANT_EXPR
	PAREN_EXPR
)

// Rule indices into ArithRules, referenced by ArithRules' own ExprRule
// entries.
const (
	ruleFile = iota
	ruleSum
	ruleSumExpr
	ruleProduct
	ruleProductExpr
	ruleAtom
	ruleConstantExpr
	ruleParenExpr
)

// ArithTypes names every arithmetic NodeType, in index order starting from
// fall.ERROR.
var ArithTypes = fall.NodeTypeTable{
	fall.ERROR:      {Name: "ERROR"},
	fall.WHITESPACE: {Name: "WHITESPACE"},
	NUMBER:          {Name: "NUMBER"},
	PLUS:            {Name: "PLUS"},
	MINUS:           {Name: "MINUS"},
	STAR:            {Name: "STAR"},
	SLASH:           {Name: "SLASH"},
	LPAREN:          {Name: "LPAREN"},
	RPAREN:          {Name: "RPAREN"},
	FILE:            {Name: "FILE"},
	SUM_EXPR:        {Name: "SUM_EXPR"},
	PRODUCT_EXPR:    {Name: "PRODUCT_EXPR"},
	CONSTANT_EXPR:   {Name: "CONSTANT_EXPR"},
	PAREN_EXPR:      {Name: "PAREN_EXPR"},
}

// ArithLexRules tokenizes arithmetic source. Token types are matched
// against NodeType values directly (Parse's facade builds the identity
// mapping from grammar-local type index to NodeType automatically).
var ArithLexRules = []fall.LexRule{
	fall.NewLexRule(fall.WHITESPACE, `\s+`, nil),
	fall.NewLexRule(NUMBER, `\d+`, nil),
	fall.NewLexRule(PLUS, `\+`, nil),
	fall.NewLexRule(MINUS, `-`, nil),
	fall.NewLexRule(STAR, `\*`, nil),
	fall.NewLexRule(SLASH, `/`, nil),
	fall.NewLexRule(LPAREN, `\(`, nil),
	fall.NewLexRule(RPAREN, `\)`, nil),
}

func ty(t fall.NodeType) int { return int(t) }

// ArithRules is precedence-climbing written directly in the grammar: sum
// and product each have an anonymous dispatcher rule (Ty == nil, so the
// tree builder flattens it away) that tries the operator-requiring rule
// first and falls back to the next tighter level with no wrapper node at
// all when no operator is present. This reproduces the Pratt parser's
// single-operand elision (e.g. "1" parses as a bare CONSTANT_EXPR, not
// PRODUCT_EXPR{CONSTANT_EXPR}) without a Pratt primitive in the IR.
var ArithRules = fall.RuleTable{
	ruleFile: {Ty: intp(ty(FILE)), Body: fall.ExprAnd{
		Parts:  []fall.Expr{fall.ExprRule{Index: ruleSum}, fall.ExprEof{}},
		Commit: nil,
	}},
	ruleSum: {Ty: nil, Body: fall.ExprOr{Alts: []fall.Expr{
		fall.ExprRule{Index: ruleSumExpr},
		fall.ExprRule{Index: ruleProduct},
	}}},
	ruleSumExpr: {Ty: intp(ty(SUM_EXPR)), Body: fall.ExprAnd{
		Parts: []fall.Expr{
			fall.ExprRule{Index: ruleProduct},
			fall.ExprOr{Alts: []fall.Expr{
				fall.ExprToken{Type: ty(PLUS)},
				fall.ExprToken{Type: ty(MINUS)},
			}},
			fall.ExprRule{Index: ruleSum},
		},
		Commit: nil,
	}},
	ruleProduct: {Ty: nil, Body: fall.ExprOr{Alts: []fall.Expr{
		fall.ExprRule{Index: ruleProductExpr},
		fall.ExprRule{Index: ruleAtom},
	}}},
	ruleProductExpr: {Ty: intp(ty(PRODUCT_EXPR)), Body: fall.ExprAnd{
		Parts: []fall.Expr{
			fall.ExprRule{Index: ruleAtom},
			fall.ExprOr{Alts: []fall.Expr{
				fall.ExprToken{Type: ty(STAR)},
				fall.ExprToken{Type: ty(SLASH)},
			}},
			fall.ExprRule{Index: ruleProduct},
		},
		Commit: nil,
	}},
	ruleAtom: {Ty: nil, Body: fall.ExprOr{Alts: []fall.Expr{
		fall.ExprRule{Index: ruleConstantExpr},
		fall.ExprRule{Index: ruleParenExpr},
	}}},
	ruleConstantExpr: {Ty: intp(ty(CONSTANT_EXPR)), Body: fall.ExprToken{Type: ty(NUMBER)}},
	ruleParenExpr: {Ty: intp(ty(PAREN_EXPR)), Body: fall.ExprAnd{
		Parts: []fall.Expr{
			fall.ExprToken{Type: ty(LPAREN)},
			fall.ExprRule{Index: ruleSum},
			fall.ExprToken{Type: ty(RPAREN)},
		},
		Commit: nil,
	}},
}

func intp(n int) *int { return &n }

// ParseArith tokenizes and parses text as an arithmetic expression.
func ParseArith(text string) (*fall.File, fall.ParseStats) {
	return fall.Parse(text, ArithLexRules, ArithRules, ArithTypes)
}
