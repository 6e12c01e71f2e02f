package fall

// Expr is a node in the Grammar IR: a closed sum type of parsing
// expressions. It is implemented only by the concrete types in this file,
// the idiomatic Go substitute for a Rust closed enum. The interpreter in
// interp.go dispatches on a single type switch over Expr, not per-variant
// virtual methods (see DESIGN.md).
type Expr interface {
	expr()
}

// ExprToken matches a single token whose type is NodeTypes[Type], where
// NodeTypes is the table supplied to NewInterpreter. This indirection (a small
// dense index rather than the NodeType itself) is what keeps the wire
// format in wire.go stable across renumbering of a language's NodeTypes.
type ExprToken struct {
	Type int
}

// ExprRule invokes rule Index, wrapping its body's result in a composite of
// the rule's declared type (or leaving it anonymous if the rule has none).
type ExprRule struct {
	Index int
}

// ExprOr tries alternatives in order; the first success wins. A partially
// consumed-then-failed alternative must leave the cursor unchanged for the
// next alternative to retry from the same position.
type ExprOr struct {
	Alts []Expr
}

// ExprAnd evaluates Parts in sequence. Commit is the index up to which
// failure propagates (backtracking the whole And); from Commit onward a
// failing part is replaced with an ERROR placeholder and the And still
// succeeds. Commit == nil means "len(Parts)" (no error recovery).
type ExprAnd struct {
	Parts  []Expr
	Commit *int
}

// ExprOpt tries Body; on failure it succeeds with an empty composite and an
// unchanged cursor.
type ExprOpt struct {
	Body Expr
}

// ExprRep greedily applies Body until it fails, collecting successes. An
// iteration that succeeds without consuming any input stops repetition
// rather than looping forever.
type ExprRep struct {
	Body Expr
}

// ExprNot is an assertion-and-consume: it succeeds by consuming the current
// token iff that token's type (via NodeTypes) is not in Types (and the
// stream is non-empty). It is not a pure negative lookahead.
type ExprNot struct {
	Types []int
}

// ExprAhead is a pure, non-consuming lookahead: it succeeds (without
// consuming) iff the current token's type (via NodeTypes) is in Types.
type ExprAhead struct {
	Types []int
}

// ExprEof succeeds, without consuming, iff the token stream is empty.
type ExprEof struct{}

// ExprLayer parses Outer against the current cursor, then re-parses Inner
// against exactly the tokens Outer's subtree covered. This enables two-phase
// parses (e.g. a balanced-delimiter scan followed by a content parse) with
// recovery local to the inner parse.
type ExprLayer struct {
	Outer Expr
	Inner Expr
}

// ExprSkipUntil consumes tokens until one with a type in Types is next,
// wrapping what was consumed in an ERROR composite. If nothing was skipped
// it returns an empty anonymous composite instead of a spurious error.
type ExprSkipUntil struct {
	Types []int
}

func (ExprToken) expr()     {}
func (ExprRule) expr()      {}
func (ExprOr) expr()        {}
func (ExprAnd) expr()       {}
func (ExprOpt) expr()       {}
func (ExprRep) expr()       {}
func (ExprNot) expr()       {}
func (ExprAhead) expr()     {}
func (ExprEof) expr()       {}
func (ExprLayer) expr()     {}
func (ExprSkipUntil) expr() {}

// SynRule is one entry in a grammar's rule table. Ty is the NodeType index
// the rule's result is wrapped in; nil means the rule produces an anonymous
// composite that the tree builder flattens into its parent. Rule index 0 is
// the entry rule and MUST have a Ty.
type SynRule struct {
	Ty   *int
	Body Expr
}

// RuleTable is an ordered sequence of grammar rules, indexed by ExprRule.Index.
type RuleTable []SynRule
