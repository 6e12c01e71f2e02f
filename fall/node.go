package fall

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// File owns a parsed source text, its arena of Nodes, and the root node id.
// A File is built once by Parse and is immutable thereafter; Node handles
// borrow from it and are only valid for the File's lifetime (conceptually:
// Go's GC keeps the arena alive as long as any Node referencing it is
// reachable, so there is no explicit invalidation step to worry about).
type File struct {
	text   string
	arena  *arena
	root   NodeID
	id     uuid.UUID
	stats  ParseStats
	types  NodeTypeTable
}

// Text returns the full source text the File was parsed from.
func (f *File) Text() string { return f.text }

// Root returns the File's root Node.
func (f *File) Root() Node { return f.node(f.root) }

// ParseID returns a unique identifier for this parse, stable for the
// lifetime of the File, useful for correlating dumps and traces across
// repeated parses of similar input.
func (f *File) ParseID() uuid.UUID { return f.id }

// Stats returns the lexing and parsing wall-clock durations recorded while
// building this File.
func (f *File) Stats() ParseStats { return f.stats }

// Types returns the NodeTypeTable this File was parsed with.
func (f *File) Types() NodeTypeTable { return f.types }

func (f *File) node(id NodeID) Node {
	return Node{file: f, id: id}
}

// Node is a handle to a single CST node, borrowing from a File.
type Node struct {
	file *File
	id   NodeID
}

// IsValid reports whether n refers to an actual node (the zero Node is not
// valid).
func (n Node) IsValid() bool { return n.file != nil }

func (n Node) raw() *rawNode { return n.file.arena.get(n.id) }

// Type returns the node's NodeType.
func (n Node) Type() NodeType { return n.raw().ty }

// TypeName returns the node's human-readable type name, via the File's
// NodeTypeTable.
func (n Node) TypeName() string { return n.file.types.Name(n.raw().ty) }

// Range returns the node's TextRange.
func (n Node) Range() TextRange { return n.raw().rng }

// Text returns the slice of the source text covered by this node.
func (n Node) Text() string {
	r := n.Range()
	return n.file.text[r.Start:r.End]
}

// IsLeaf reports whether the node has no children.
func (n Node) IsLeaf() bool { return len(n.raw().children) == 0 }

// Parent returns the node's parent and true, or a zero Node and false if n
// is the root.
func (n Node) Parent() (Node, bool) {
	p := n.raw().parent
	if p == noParent {
		return Node{}, false
	}
	return n.file.node(p), true
}

// ChildCount returns the number of children.
func (n Node) ChildCount() int { return len(n.raw().children) }

// Child returns the i-th child. It panics if i is out of range.
func (n Node) Child(i int) Node {
	return n.file.node(n.raw().children[i])
}

// Children returns all children, in source order.
func (n Node) Children() []Node {
	ids := n.raw().children
	out := make([]Node, len(ids))
	for i, id := range ids {
		out[i] = n.file.node(id)
	}
	return out
}

// NodeContainingRange descends from the root, at each level picking the
// child whose range is a superset of r, and returns the deepest such node.
// Ties at zero-width boundaries resolve to the first matching child.
func (f *File) NodeContainingRange(r TextRange) Node {
	cur := f.Root()
	for {
		next, ok := cur.childContaining(r)
		if !ok {
			return cur
		}
		cur = next
	}
}

func (n Node) childContaining(r TextRange) (Node, bool) {
	for _, id := range n.raw().children {
		c := n.file.node(id)
		if r.IsSubrangeOf(c.Range()) {
			return c, true
		}
	}
	return Node{}, false
}

// Dump renders the File as a stable, deterministic pretty-print: leaves
// print `<TYPE_NAME> "<source slice>"` on one line, composites print
// `<TYPE_NAME>` and indent children by two spaces. This is the engine's
// golden-test format, grounded directly on original_source's
// src/node/mod.rs File::dump.
func (f *File) Dump() string {
	var b strings.Builder
	dumpNode(&b, f.Root(), 0)
	return b.String()
}

func dumpNode(b *strings.Builder, n Node, level int) {
	b.WriteString(strings.Repeat("  ", level))
	if n.IsLeaf() {
		b.WriteString(n.TypeName())
		b.WriteByte(' ')
		b.WriteString(strconv.Quote(n.Text()))
		b.WriteByte('\n')
		return
	}
	b.WriteString(n.TypeName())
	b.WriteByte('\n')
	for _, c := range n.Children() {
		dumpNode(b, c, level+1)
	}
}

func (n Node) String() string {
	return fmt.Sprintf("%s%s", n.TypeName(), n.Range())
}
