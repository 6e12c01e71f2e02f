package fall

// NodeType identifies the grammar symbol of a Token or Node. Index 0 and 1
// are reserved sentinels shared by every language; every other index,
// including 2, is language-defined. The grammar interpreter's anonymous
// composites (Or/And/Rep/Opt and similar combinators, and any SynRule
// declared with Ty == nil) never get a NodeType at all: TreeBuilder tracks
// them as untyped frames and splices their children directly into the
// parent, so no reserved index is needed to keep them out of a dumped tree.
type NodeType uint32

const (
	// ERROR marks a lexical or structural error node.
	ERROR NodeType = 0
	// WHITESPACE marks trivia produced by the default skip set.
	WHITESPACE NodeType = 1
)

// NodeTypeInfo carries display metadata for a NodeType, looked up through a
// language-provided NodeTypeTable.
type NodeTypeInfo struct {
	Name string
}

// NodeTypeTable maps a NodeType index to its metadata. Languages build this
// alongside their lex and grammar rule tables.
type NodeTypeTable []NodeTypeInfo

// Name returns the human-readable name for ty, or a placeholder if ty is
// outside the table.
func (t NodeTypeTable) Name(ty NodeType) string {
	if int(ty) < len(t) {
		return t[ty].Name
	}
	return "<unknown>"
}

// Token is a single lexed unit: a NodeType paired with its source range.
type Token struct {
	Type  NodeType
	Range TextRange
}
