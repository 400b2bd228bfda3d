package dag

// Index is an opaque handle into a Store's slot table. It is stable for as
// long as the slot is live. Indices below a Store's leaf count are
// reserved, self-looping leaves.
type Index uint32

// Node is an immutable record of four child indices. Equality and hash are
// structural over the tuple — Go's comparable arrays make this free: a
// Node is usable directly as a map key, so the content-addressed lookup
// the DAG is built around needs no hashing of its own.
type Node struct {
	Children [4]Index
}

// ExternalPointer names an entire subtree from outside the store: the root
// slot plus how many subdivision levels lie below it. A height-0 pointer
// is itself a leaf.
type ExternalPointer struct {
	Root   Index
	Height uint32
}

// CellData is a located subtree: the external pointer found at some path,
// plus the absolute cell coordinate of that subtree at its own height.
type CellData struct {
	Pointer ExternalPointer
	Cell    [2]uint32
}

func cell(x, y uint32) [2]uint32 { return [2]uint32{x, y} }

// isSelfLoop reports whether n is a leaf: a node whose four children all
// point back to idx (the sentinel self-loop convention reserved leaves use
// so that descent can continue uniformly at any depth).
func isSelfLoop(idx Index, n Node) bool {
	return n.Children[0] == idx && n.Children[1] == idx && n.Children[2] == idx && n.Children[3] == idx
}
