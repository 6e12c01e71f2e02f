package fall

import (
	"testing"

	"github.com/google/uuid"
)

// Local NodeType indices for these unit tests, disjoint from the reserved
// ERROR/WHITESPACE sentinels.
const (
	iROOT NodeType = iota + 2
	iNUM
	iPLUS
	iLPAREN
	iRPAREN
	iMISSING // never produced by any token stream in these tests
	iPAREN
	iSUMEXPR
)

// identityTypes builds the nodeTypes slice Interpreter expects: grammar-local
// index i maps to NodeType(i), which is all these hand-written grammars need.
func identityTypes(n int) []NodeType {
	out := make([]NodeType, n)
	for i := range out {
		out[i] = NodeType(i)
	}
	return out
}

func runInterp(t *testing.T, rules RuleTable, tokens []Token) *File {
	t.Helper()
	interp := NewInterpreter(identityTypes(16), rules)
	return interp.Parse("", tokens, make(NodeTypeTable, 16), uuid.Nil, ParseStats{})
}

func tok(ty NodeType) Token { return Token{Type: ty, Range: EmptyAt(0)} }

func intp(n int) *int { return &n }

func TestInterpOrTriesAlternativesInOrder(t *testing.T) {
	rules := RuleTable{
		{Ty: intp(int(iROOT)), Body: ExprOr{Alts: []Expr{
			ExprToken{Type: int(iNUM)},
			ExprToken{Type: int(iPLUS)},
		}}},
	}
	f := runInterp(t, rules, []Token{tok(iPLUS)})
	if f.Root().ChildCount() != 1 || f.Root().Child(0).Type() != iPLUS {
		t.Fatalf("expected the second alternative to match, got %d children", f.Root().ChildCount())
	}
}

func TestInterpAndCommitInsertsErrorPlaceholder(t *testing.T) {
	rules := RuleTable{
		{Ty: intp(int(iROOT)), Body: ExprAnd{
			Parts: []Expr{
				ExprToken{Type: int(iNUM)},
				ExprToken{Type: int(iPLUS)},
				ExprToken{Type: int(iNUM)},
			},
			Commit: intp(2),
		}},
	}
	f := runInterp(t, rules, []Token{tok(iNUM), tok(iPLUS)})
	root := f.Root()
	if root.ChildCount() != 3 {
		t.Fatalf("got %d children, want NUM, PLUS, ERROR", root.ChildCount())
	}
	if root.Child(2).Type() != ERROR {
		t.Fatalf("last child = %v, want ERROR", root.Child(2).Type())
	}
}

func TestInterpAndWithoutCommitFailsWhole(t *testing.T) {
	rules := RuleTable{
		{Ty: intp(int(iROOT)), Body: ExprAnd{
			Parts: []Expr{
				ExprToken{Type: int(iNUM)},
				ExprToken{Type: int(iPLUS)},
				ExprToken{Type: int(iNUM)},
			},
			Commit: nil,
		}},
	}
	f := runInterp(t, rules, []Token{tok(iNUM), tok(iPLUS)})
	root := f.Root()
	// The And fails outright and rolls back; the top-level sweep then wraps
	// the two leftover tokens in one trailing ERROR under the root.
	if root.ChildCount() != 1 || root.Child(0).Type() != ERROR {
		t.Fatalf("got %d children", root.ChildCount())
	}
	if root.Child(0).ChildCount() != 2 {
		t.Fatalf("got %d leftover tokens swept into ERROR", root.Child(0).ChildCount())
	}
}

func TestInterpOptNeverFailsAndDoesNotConsumeOnMismatch(t *testing.T) {
	rules := RuleTable{
		{Ty: intp(int(iROOT)), Body: ExprAnd{
			Parts: []Expr{
				ExprOpt{Body: ExprToken{Type: int(iMISSING)}},
				ExprToken{Type: int(iNUM)},
			},
			Commit: nil,
		}},
	}
	f := runInterp(t, rules, []Token{tok(iNUM)})
	if f.Root().ChildCount() != 1 || f.Root().Child(0).Type() != iNUM {
		t.Fatalf("got %d children", f.Root().ChildCount())
	}
}

func TestInterpRepStopsOnZeroProgress(t *testing.T) {
	rules := RuleTable{
		{Ty: intp(int(iROOT)), Body: ExprRep{
			Body: ExprOpt{Body: ExprToken{Type: int(iMISSING)}},
		}},
	}
	f := runInterp(t, rules, nil)
	if f.Root().ChildCount() != 0 {
		t.Fatalf("a zero-progress Rep body must not loop forever or add children, got %d", f.Root().ChildCount())
	}
}

func TestInterpNotConsumesNonMatchingToken(t *testing.T) {
	rules := RuleTable{
		{Ty: intp(int(iROOT)), Body: ExprNot{Types: []int{int(iRPAREN)}}},
	}
	f := runInterp(t, rules, []Token{tok(iNUM)})
	if f.Root().ChildCount() != 1 || f.Root().Child(0).Type() != iNUM {
		t.Fatalf("Not should consume the non-matching token, got %d children", f.Root().ChildCount())
	}
}

func TestInterpNotFailsOnMatchingTypeOrEmptyStream(t *testing.T) {
	rules := RuleTable{
		{Ty: intp(int(iROOT)), Body: ExprNot{Types: []int{int(iRPAREN)}}},
	}
	f := runInterp(t, rules, []Token{tok(iRPAREN)})
	// Not fails, so the token is left for the top-level leftover sweep
	// instead of being consumed by Not itself.
	if f.Root().ChildCount() != 1 || f.Root().Child(0).Type() != ERROR {
		t.Fatalf("got %d children", f.Root().ChildCount())
	}

	f2 := runInterp(t, rules, nil)
	if f2.Root().ChildCount() != 0 {
		t.Fatalf("Not on an empty stream should fail without producing anything")
	}
}

func TestInterpAheadDoesNotConsume(t *testing.T) {
	rules := RuleTable{
		{Ty: intp(int(iROOT)), Body: ExprAnd{
			Parts: []Expr{
				ExprAhead{Types: []int{int(iNUM)}},
				ExprToken{Type: int(iNUM)},
			},
			Commit: nil,
		}},
	}
	f := runInterp(t, rules, []Token{tok(iNUM)})
	if f.Root().ChildCount() != 1 || f.Root().Child(0).Type() != iNUM {
		t.Fatalf("Ahead must not consume the token it inspects, got %d children", f.Root().ChildCount())
	}
}

func TestInterpEof(t *testing.T) {
	rules := RuleTable{
		{Ty: intp(int(iROOT)), Body: ExprEof{}},
	}
	if f := runInterp(t, rules, nil); f.Root().ChildCount() != 0 {
		t.Fatalf("Eof on an empty stream should succeed trivially")
	}
	f := runInterp(t, rules, []Token{tok(iNUM)})
	if f.Root().ChildCount() != 1 || f.Root().Child(0).Type() != ERROR {
		t.Fatalf("Eof must fail with input remaining, leaving it for the leftover sweep")
	}
}

func TestInterpSkipUntilWrapsLeftoverInError(t *testing.T) {
	rules := RuleTable{
		{Ty: intp(int(iROOT)), Body: ExprSkipUntil{Types: []int{int(iNUM)}}},
	}
	f := runInterp(t, rules, []Token{tok(iPLUS), tok(iPLUS), tok(iNUM)})
	root := f.Root()
	if root.ChildCount() != 2 {
		t.Fatalf("got %d children, want [ERROR{PLUS,PLUS}, ERROR{NUM}]", root.ChildCount())
	}
	if root.Child(0).Type() != ERROR || root.Child(0).ChildCount() != 2 {
		t.Fatalf("first child = %v with %d children", root.Child(0).Type(), root.Child(0).ChildCount())
	}
	// SkipUntil itself stops right before the NUM; the top-level sweep wraps
	// that remaining token in its own trailing ERROR.
	if root.Child(1).Type() != ERROR || root.Child(1).ChildCount() != 1 {
		t.Fatalf("second child = %v with %d children", root.Child(1).Type(), root.Child(1).ChildCount())
	}
}

func TestInterpLayerLocalityKeepsErrorsInsideTheSpan(t *testing.T) {
	// PAREN := "(" Layer(Rep(Not(")")), SUM_EXPR) ")"
	// SUM_EXPR := NUM PLUS NUM, committing after "NUM PLUS" so a missing
	// right-hand operand becomes an ERROR placeholder rather than failing.
	const ruleParen = 0
	const ruleSum = 1
	rules := RuleTable{
		ruleParen: {Ty: intp(int(iPAREN)), Body: ExprAnd{
			Parts: []Expr{
				ExprToken{Type: int(iLPAREN)},
				ExprLayer{
					Outer: ExprRep{Body: ExprNot{Types: []int{int(iRPAREN)}}},
					Inner: ExprRule{Index: ruleSum},
				},
				ExprToken{Type: int(iRPAREN)},
			},
			Commit: nil,
		}},
		ruleSum: {Ty: intp(int(iSUMEXPR)), Body: ExprAnd{
			Parts: []Expr{
				ExprToken{Type: int(iNUM)},
				ExprToken{Type: int(iPLUS)},
				ExprToken{Type: int(iNUM)},
			},
			Commit: intp(2),
		}},
	}

	interp := NewInterpreter(identityTypes(16), rules)
	tokens := []Token{tok(iLPAREN), tok(iNUM), tok(iPLUS), tok(iRPAREN)}
	f := interp.Parse("", tokens, make(NodeTypeTable, 16), uuid.Nil, ParseStats{})

	root := f.Root()
	if root.Type() != iPAREN || root.ChildCount() != 3 {
		t.Fatalf("got type %v with %d children", root.Type(), root.ChildCount())
	}
	if root.Child(0).Type() != iLPAREN || root.Child(2).Type() != iRPAREN {
		t.Fatalf("the delimiters must stay outside the layered sub-parse")
	}
	sum := root.Child(1)
	if sum.Type() != iSUMEXPR || sum.ChildCount() != 3 {
		t.Fatalf("got %v with %d children", sum.Type(), sum.ChildCount())
	}
	if sum.Child(2).Type() != ERROR {
		t.Fatalf("missing right-hand operand should surface as an ERROR inside the layer, got %v", sum.Child(2).Type())
	}
}
