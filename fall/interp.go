package fall

import (
	"fmt"

	"github.com/google/uuid"
)

// Interpreter walks a Grammar IR rule table against a token stream,
// producing an error-tolerant CST. Its case-by-case semantics are grounded
// on original_source/fall_parse/src/syn.rs's Parser.parse_exp, adapted from
// that code's TokenSequence/NodeFactory-based recursive backtracking onto
// TreeBuilder's frame-stack mechanism (tree_builder.rs, which syn.rs
// imports NodeFactory and TokenSequence from, is not itself part of the
// retrieved sources, so this engine builds the Start/Finish/Rollback
// contract instead, grounded in src/builder.rs, and reconstructs the
// combinator semantics from syn.rs's usage).
type Interpreter struct {
	nodeTypes []NodeType
	rules     RuleTable
	trace     func(TraceEvent)
}

// NewInterpreter builds an Interpreter over rules. nodeTypes maps a
// grammar-local type index, as referenced by ExprToken.Type,
// ExprNot/ExprAhead.Types, and SynRule.Ty, to an actual NodeType.
func NewInterpreter(nodeTypes []NodeType, rules RuleTable) *Interpreter {
	return &Interpreter{nodeTypes: nodeTypes, rules: rules}
}

func (p *Interpreter) ty(idx int) NodeType {
	return p.nodeTypes[idx]
}

func (p *Interpreter) typesOf(idxs []int) []NodeType {
	if len(idxs) == 0 {
		return nil
	}
	out := make([]NodeType, len(idxs))
	for i, idx := range idxs {
		out[i] = p.ty(idx)
	}
	return out
}

func (p *Interpreter) tySet(idxs []int) map[NodeType]bool {
	if len(idxs) == 0 {
		return nil
	}
	s := make(map[NodeType]bool, len(idxs))
	for _, idx := range idxs {
		s[p.ty(idx)] = true
	}
	return s
}

// Parse interprets rule 0 (which must be declared with a type) against the
// token stream, sweeps any tokens rule 0 left unconsumed into a trailing
// ERROR node, and freezes the result into a File.
func (p *Interpreter) Parse(text string, tokens []Token, types NodeTypeTable, id uuid.UUID, stats ParseStats) *File {
	if len(p.rules) == 0 || p.rules[0].Ty == nil {
		panic("fall: rule 0 must be declared and have a type")
	}
	rootTy := p.ty(*p.rules[0].Ty)
	b := NewTreeBuilder(text, rootTy, tokens)

	p.interp(b, p.rules[0].Body)
	b.SkipUntil(nil)

	return b.IntoFile(types, id, stats)
}

// interp tries to match e against b's current position, mutating b's
// in-progress tree on success and leaving b exactly as it found it on
// failure (every branch that opens a frame closes it, via either Finish or
// Rollback, before returning).
func (p *Interpreter) interp(b *TreeBuilder, e Expr) bool {
	switch x := e.(type) {
	case ExprOr:
		for _, alt := range x.Alts {
			if p.interp(b, alt) {
				return true
			}
		}
		return false

	case ExprAnd:
		commit := len(x.Parts)
		if x.Commit != nil {
			commit = *x.Commit
		}
		b.StartAnon()
		for i, part := range x.Parts {
			if p.interp(b, part) {
				continue
			}
			if i < commit {
				b.RollbackAnon()
				return false
			}
			b.Start(ERROR)
			b.Finish(ERROR)
			break
		}
		b.FinishAnon()
		return true

	case ExprRule:
		rule := p.rules[x.Index]
		if p.trace != nil {
			tok, _ := b.peek()
			p.trace(TraceEvent{RuleIndex: x.Index, Position: b.currentToken, Token: tok.Type})
		}
		if rule.Ty == nil {
			b.StartAnon()
			if p.interp(b, rule.Body) {
				b.FinishAnon()
				return true
			}
			b.RollbackAnon()
			return false
		}
		ty := p.ty(*rule.Ty)
		b.Start(ty)
		if p.interp(b, rule.Body) {
			b.Finish(ty)
			return true
		}
		b.Rollback(ty)
		return false

	case ExprToken:
		return b.TryEat(p.ty(x.Type))

	case ExprOpt:
		// Either shape succeeds; an unmatched Opt body contributes nothing
		// and leaves the cursor untouched.
		p.interp(b, x.Body)
		return true

	case ExprRep:
		b.StartAnon()
		b.ParseMany(func(b *TreeBuilder) bool {
			before := b.currentToken
			if !p.interp(b, x.Body) {
				return false
			}
			// A Rep body that can match without consuming input would
			// otherwise repeat forever; stop after the first such match.
			return b.currentToken != before
		})
		b.FinishAnon()
		return true

	case ExprNot:
		t, ok := b.peek()
		if !ok {
			return false
		}
		if p.tySet(x.Types)[t.Type] {
			return false
		}
		b.bump()
		b.doSkip()
		return true

	case ExprAhead:
		t, ok := b.peek()
		if !ok {
			return false
		}
		return p.tySet(x.Types)[t.Type]

	case ExprEof:
		_, ok := b.peek()
		return !ok

	case ExprLayer:
		return p.interpLayer(b, x)

	case ExprSkipUntil:
		b.SkipUntil(p.typesOf(x.Types))
		return true

	default:
		panic(fmt.Sprintf("fall: unknown grammar expression %T", e))
	}
}

// interpLayer parses Outer, discovers exactly the token span its node
// covered, discards Outer's own structure, and re-parses Inner as an
// independent token stream restricted to that span. Any of Inner's
// leftover tokens (within the span) become a trailing ERROR node; tokens
// after the span are untouched and continue the outer parse normally.
func (p *Interpreter) interpLayer(b *TreeBuilder, x ExprLayer) bool {
	b.StartAnon()
	if !p.interp(b, x.Outer) {
		b.RollbackAnon()
		return false
	}

	scratch := b.pending[len(b.pending)-1]
	end := b.currentToken
	children := scratch.children
	for len(children) > 0 && b.isSkip(children[len(children)-1].ty) {
		children = children[:len(children)-1]
		end--
	}
	start := scratch.startToken
	b.pending = b.pending[:len(b.pending)-1] // discard the scratch frame; only the span mattered
	b.currentToken = end

	// The sub-builder sees the text only up to the end of the span, so an
	// empty node it opens past its last token is pinned inside the span.
	spanEnd := len(b.text)
	if end < len(b.tokens) {
		spanEnd = int(b.tokens[end].Range.Start)
	}
	sub := newSubBuilder(b.text[:spanEnd], b.tokens[start:end], b.skip)
	p.interp(sub, x.Inner)
	sub.SkipUntil(nil)
	b.top().children = append(b.top().children, sub.pending[0].children...)
	b.doSkip()
	return true
}
