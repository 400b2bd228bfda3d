package dag

// RaiseRoot grows root by one subdivision level: a new root is built with
// root's old content placed at quadrant anchor and emptyLeaf filling the
// other three. This is the store-level half of growing a body's bounding
// box; original_source/src/sddag.rs sketched the same operation
// (raise_root_by_one) but left it disabled — it is promoted here because
// SPEC_FULL's bodies need to grow their domain at runtime rather than
// being created at a fixed, final size.
func (s *Store) RaiseRoot(root ExternalPointer, anchor uint32, emptyLeaf Index) (ExternalPointer, error) {
	if anchor > 3 {
		panic("dag: anchor must be 0-3")
	}
	if _, err := s.node(root.Root); err != nil {
		return ExternalPointer{}, err
	}
	if _, err := s.node(emptyLeaf); err != nil {
		return ExternalPointer{}, err
	}

	n := Node{}
	for i := range n.Children {
		n.Children[i] = emptyLeaf
	}
	n.Children[anchor] = root.Root

	newRootIdx := s.addNode(n)
	s.incRef(newRootIdx)
	// root.Root already gained an owner via addNode's fan-out above; no
	// separate decrement here since root.Root is still directly reachable
	// (it did not stop being root's old subtree, it became a child of it).
	return ExternalPointer{Root: newRootIdx, Height: root.Height + 1}, nil
}

// LowerRoot shrinks root by one subdivision level, discarding everything
// outside quadrant anchor: the new root becomes root's child at anchor.
// The three discarded quadrants are released, cascading collection for any
// subtree that was not otherwise shared.
func (s *Store) LowerRoot(root ExternalPointer, anchor uint32) (ExternalPointer, error) {
	if anchor > 3 {
		panic("dag: anchor must be 0-3")
	}
	if root.Height == 0 {
		return ExternalPointer{}, ErrPathOutOfRange
	}
	n, err := s.node(root.Root)
	if err != nil {
		return ExternalPointer{}, err
	}
	if isSelfLoop(root.Root, n) {
		return ExternalPointer{Root: root.Root, Height: root.Height - 1}, nil
	}

	newRoot := n.Children[anchor]
	s.incRef(newRoot)
	s.decRefCascade(root.Root)
	return ExternalPointer{Root: newRoot, Height: root.Height - 1}, nil
}
