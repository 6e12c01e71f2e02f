package fall

import (
	"fmt"

	"github.com/google/uuid"
)

// preNode is an intermediate, still-mutable tree node produced while
// building, before it is frozen into the arena. Grounded directly on
// original_source/src/builder.rs's PreNode.
type preNode struct {
	ty       NodeType
	rng      TextRange
	children []preNode
}

// frame is an in-progress composite on the TreeBuilder's stack. Grounded on
// builder.rs's Frame. ty is nil for an anonymous frame (the grammar
// interpreter's Or/And/Rep/Opt combinators, and any SynRule with Ty ==
// nil): such a frame never becomes a node of its own, so it needs no
// NodeType, unlike builder.rs's Frame which always carries one.
type frame struct {
	ty         *NodeType
	children   []preNode
	startToken int
}

// TreeBuilder assembles a CST from a flat token stream by following a
// sequence of start/finish/rollback/tryEat calls driven by the Grammar IR
// interpreter. It owns trivia (skip-set) handling so the interpreter never
// has to think about whitespace: do_skip runs automatically after every
// successful token consumption, and finish trims any trivia that ended up
// trailing inside a composite back out to the parent. Grounded directly on
// original_source/src/builder.rs.
type TreeBuilder struct {
	text         string
	skip         map[NodeType]bool
	tokens       []Token
	pending      []frame
	currentToken int
}

// NewTreeBuilder starts a builder over tokens with a single root frame of
// type fileType. The default skip set is {WHITESPACE}; callers needing a
// different trivia set can extend Skip before driving the builder.
func NewTreeBuilder(text string, fileType NodeType, tokens []Token) *TreeBuilder {
	root := fileType
	b := &TreeBuilder{
		text:    text,
		skip:    map[NodeType]bool{WHITESPACE: true},
		tokens:  tokens,
		pending: []frame{{ty: &root, startToken: 0}},
	}
	b.doSkip()
	return b
}

// Skip adds ty to the set of token types treated as trivia.
func (b *TreeBuilder) Skip(ty NodeType) {
	b.skip[ty] = true
}

func (b *TreeBuilder) top() *frame {
	return &b.pending[len(b.pending)-1]
}

func (b *TreeBuilder) isSkip(ty NodeType) bool {
	return b.skip[ty]
}

func (b *TreeBuilder) current() (Token, bool) {
	if b.currentToken < len(b.tokens) {
		return b.tokens[b.currentToken], true
	}
	return Token{}, false
}

func (b *TreeBuilder) bump() {
	t, ok := b.current()
	if !ok {
		panic("fall: bump with no current token")
	}
	b.currentToken++
	b.top().children = append(b.top().children, preNode{ty: t.Type, rng: t.Range})
}

func (b *TreeBuilder) doSkip() {
	for {
		t, ok := b.current()
		if !ok || !b.isSkip(t.Type) {
			return
		}
		b.bump()
	}
}

// Start pushes a new composite frame of type ty.
func (b *TreeBuilder) Start(ty NodeType) {
	b.pending = append(b.pending, frame{ty: &ty, startToken: b.currentToken})
}

// StartAnon pushes a new anonymous composite frame: one of the grammar
// interpreter's own Or/And/Rep/Opt combinators, or a SynRule declared with
// Ty == nil. Pair with FinishAnon or RollbackAnon, never Finish/Rollback.
func (b *TreeBuilder) StartAnon() {
	b.pending = append(b.pending, frame{ty: nil, startToken: b.currentToken})
}

// Finish pops the top frame, which must be named with type ty, trims any
// trailing trivia back out of it (rewinding the cursor so the parent can
// still see that trivia before its own next token), and attaches the
// result as a node on the new top frame. It then runs the default
// post-token skip.
func (b *TreeBuilder) Finish(ty NodeType) {
	top := b.popFrame()
	if top.ty == nil || *top.ty != ty {
		panic(fmt.Sprintf("fall: TreeBuilder.Finish: expected %v, got %s", ty, frameTypeString(top.ty)))
	}
	top.children = b.trimTrailingTrivia(top.children)

	node := b.toPreNode(top, ty)

	if len(node.children) > 0 {
		if b.isSkip(node.children[0].ty) {
			panic("fall: TreeBuilder.Finish: leading trivia in composite")
		}
		if b.isSkip(node.children[len(node.children)-1].ty) {
			panic("fall: TreeBuilder.Finish: trailing trivia in composite")
		}
	}

	b.top().children = append(b.top().children, node)
	b.doSkip()
}

// FinishAnon pops the top frame, which must be anonymous (opened by
// StartAnon), trims its trailing trivia the same way Finish does, and
// splices its children directly into the parent instead of wrapping them
// in a node of their own. Combinator structure never shows up in a dumped
// tree this way; only named rules do.
func (b *TreeBuilder) FinishAnon() {
	top := b.popFrame()
	if top.ty != nil {
		panic(fmt.Sprintf("fall: TreeBuilder.FinishAnon: frame is named %v", *top.ty))
	}
	top.children = b.trimTrailingTrivia(top.children)
	b.top().children = append(b.top().children, top.children...)
	b.doSkip()
}

func (b *TreeBuilder) popFrame() frame {
	top := b.pending[len(b.pending)-1]
	b.pending = b.pending[:len(b.pending)-1]
	return top
}

func (b *TreeBuilder) trimTrailingTrivia(children []preNode) []preNode {
	for len(children) > 0 && b.isSkip(children[len(children)-1].ty) {
		children = children[:len(children)-1]
		b.currentToken--
	}
	return children
}

func frameTypeString(ty *NodeType) string {
	if ty == nil {
		return "anonymous"
	}
	return fmt.Sprintf("%v", *ty)
}

func (b *TreeBuilder) toPreNode(f frame, ty NodeType) preNode {
	var rng TextRange
	if len(f.children) == 0 {
		start := uint32(len(b.text))
		if f.startToken < len(b.tokens) {
			start = b.tokens[f.startToken].Range.Start
		}
		rng = RangeFromTo(start, start)
	} else {
		first := f.children[0]
		last := f.children[len(f.children)-1]
		rng = RangeFromTo(first.rng.Start, last.rng.End)
	}
	return preNode{ty: ty, rng: rng, children: f.children}
}

// Rollback pops the top frame, which must be named with type ty,
// discarding its children and rewinding the cursor to where Start was
// called. Used by the interpreter to backtrack a failed alternative.
func (b *TreeBuilder) Rollback(ty NodeType) {
	top := b.pending[len(b.pending)-1]
	if top.ty == nil || *top.ty != ty {
		panic(fmt.Sprintf("fall: TreeBuilder.Rollback: expected %v, got %s", ty, frameTypeString(top.ty)))
	}
	b.pending = b.pending[:len(b.pending)-1]
	b.currentToken = top.startToken
}

// RollbackAnon pops the top frame, which must be anonymous (opened by
// StartAnon), discarding its children and rewinding the cursor to where
// StartAnon was called.
func (b *TreeBuilder) RollbackAnon() {
	top := b.pending[len(b.pending)-1]
	if top.ty != nil {
		panic(fmt.Sprintf("fall: TreeBuilder.RollbackAnon: frame is named %v", *top.ty))
	}
	b.pending = b.pending[:len(b.pending)-1]
	b.currentToken = top.startToken
}

// TryEat consumes the current token if it has type ty, running the default
// skip afterward, and reports whether it did.
func (b *TreeBuilder) TryEat(ty NodeType) bool {
	t, ok := b.current()
	if !ok || t.Type != ty {
		return false
	}
	b.bump()
	b.doSkip()
	return true
}

// peek skips trivia and returns the current token, if any.
func (b *TreeBuilder) peek() (Token, bool) {
	b.doSkip()
	return b.current()
}

// newSubBuilder drives a nested parse over a token slice independent from
// the outer stream, used by ExprLayer to re-parse exactly the tokens an
// outer expression's node covered. It shares the outer skip set since a
// layer's trivia rules never differ from its surrounding grammar.
func newSubBuilder(text string, tokens []Token, skip map[NodeType]bool) *TreeBuilder {
	b := &TreeBuilder{
		text:    text,
		skip:    skip,
		tokens:  tokens,
		pending: []frame{{ty: nil, startToken: 0}},
	}
	b.doSkip()
	return b
}

// NextIs reports whether, after skipping trivia, the current token has type ty.
func (b *TreeBuilder) NextIs(ty NodeType) bool {
	b.doSkip()
	t, ok := b.current()
	return ok && t.Type == ty
}

// AtEof reports whether, after skipping trivia, the token stream is exhausted.
func (b *TreeBuilder) AtEof() bool {
	b.doSkip()
	_, ok := b.current()
	return !ok
}

// SkipUntil consumes tokens until one with a type in tys is next (or the
// stream ends), wrapping what was consumed in an ERROR composite. If
// nothing beyond trivia was consumed, no ERROR node is emitted at all.
func (b *TreeBuilder) SkipUntil(tys []NodeType) {
	b.doSkip()
	b.Start(ERROR)
	skipped := false
	for {
		t, ok := b.current()
		if !ok {
			break
		}
		if containsType(tys, t.Type) {
			break
		}
		if !b.isSkip(t.Type) {
			skipped = true
		}
		b.bump()
	}
	if skipped {
		b.Finish(ERROR)
	} else {
		b.Rollback(ERROR)
	}
}

func containsType(tys []NodeType, ty NodeType) bool {
	for _, t := range tys {
		if t == ty {
			return true
		}
	}
	return false
}

// ParseMany calls f repeatedly until it returns false. It exists so callers
// driving repetition (ExprRep's interpretation) don't duplicate the loop.
func (b *TreeBuilder) ParseMany(f func(*TreeBuilder) bool) {
	for f(b) {
	}
}

// IntoFile consumes any remaining tokens (including trailing trivia) into
// the root frame, freezes the accumulated PreNode tree into an arena, and
// returns the resulting File. The builder must not be used afterward.
func (b *TreeBuilder) IntoFile(types NodeTypeTable, id uuid.UUID, stats ParseStats) *File {
	for {
		if _, ok := b.current(); !ok {
			break
		}
		b.bump()
	}
	if len(b.pending) != 1 {
		panic("fall: TreeBuilder.IntoFile: unbalanced frames")
	}
	top := b.pending[0]
	if top.ty == nil {
		panic("fall: TreeBuilder.IntoFile: root frame is anonymous")
	}
	b.pending = nil
	root := b.toPreNode(top, *top.ty)

	a := newArena(countNodes(root))
	var place func(parent NodeID, n preNode) NodeID
	place = func(parent NodeID, n preNode) NodeID {
		id := a.alloc(parent, n.ty, n.rng)
		for _, c := range n.children {
			place(id, c)
		}
		return id
	}
	rootID := place(noParent, root)

	return &File{
		text:  b.text,
		arena: a,
		root:  rootID,
		id:    id,
		stats: stats,
		types: types,
	}
}

func countNodes(n preNode) int {
	total := 1
	for _, c := range n.children {
		total += countNodes(c)
	}
	return total
}
