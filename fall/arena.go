package fall

// NodeID is an index into a File's node arena. Using integer ids rather
// than pointers avoids cyclic parent/child ownership and keeps nodes
// cache-local in one slice (see DESIGN.md).
type NodeID uint32

const noParent = ^NodeID(0)

// rawNode is the arena-stored representation of a CST node.
type rawNode struct {
	ty       NodeType
	rng      TextRange
	parent   NodeID
	children []NodeID
}

// arena is a flat, growable store of rawNodes, analogous to
// gotreesitter/arena.go's slab allocator but index-addressed instead of
// pointer-addressed, and with a single lifetime (build then freeze) since
// this engine has no incremental-reparse mode to pool slabs across.
type arena struct {
	nodes []rawNode
}

func newArena(capacityHint int) *arena {
	return &arena{nodes: make([]rawNode, 0, capacityHint)}
}

// alloc appends a new node with the given parent (noParent for the root)
// and returns its NodeID.
func (a *arena) alloc(parent NodeID, ty NodeType, rng TextRange) NodeID {
	id := NodeID(len(a.nodes))
	a.nodes = append(a.nodes, rawNode{ty: ty, rng: rng, parent: parent})
	if parent != noParent {
		a.nodes[parent].children = append(a.nodes[parent].children, id)
	}
	return id
}

func (a *arena) get(id NodeID) *rawNode {
	return &a.nodes[id]
}
