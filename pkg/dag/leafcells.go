package dag

import "github.com/duskgrid/duskgrid/pkg/zorder"

// LeafCell is one leaf (self-looping) node reached during a DFS descent,
// located by its absolute cell coordinate and the zorder.Path that reached
// it (depth equals root.Height - Pointer.Height).
type LeafCell struct {
	Pointer ExternalPointer
	Cell    zorder.Cell
	Path    zorder.Path
}

// DFSLeafCells depth-first-descends root and returns every leaf reached,
// each tagged with its absolute cell coordinate and path. It is the
// traversal the corner cache uses to enumerate solid
// geometry under a body's root without walking past self-loops.
func (s *Store) DFSLeafCells(root ExternalPointer) ([]LeafCell, error) {
	var out []LeafCell
	var walk func(idx Index, height uint32, path zorder.Path) error
	walk = func(idx Index, height uint32, path zorder.Path) error {
		n, err := s.node(idx)
		if err != nil {
			return err
		}
		if isSelfLoop(idx, n) {
			out = append(out, LeafCell{
				Pointer: ExternalPointer{Root: idx, Height: height},
				Cell:    path.ToCell(),
				Path:    path,
			})
			return nil
		}
		for dir := uint32(0); dir < 4; dir++ {
			if err := walk(n.Children[dir], height-1, path.StepDown(dir)); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(root.Root, root.Height, zorder.Root()); err != nil {
		return nil, err
	}
	return out, nil
}

// CellAt locates the leaf covering absolute cell c at a given depth below
// root, returning its external pointer and the cell coordinate of whatever
// subtree is actually found (which may be coarser than depth if a leaf is
// reached first).
func (s *Store) CellAt(root ExternalPointer, c zorder.Cell, depth uint32) (CellData, error) {
	path := zorder.FromCell(c, depth)
	ptr, err := s.Read(root, path)
	if err != nil {
		return CellData{}, err
	}
	resolvedDepth := root.Height - ptr.Height
	resolved := path.WithDepth(resolvedDepth).ToCell()
	return CellData{Pointer: ptr, Cell: cell(resolved.X, resolved.Y)}, nil
}
