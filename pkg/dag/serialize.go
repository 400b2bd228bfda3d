package dag

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"lukechampine.com/blake3"
)

// saveMagic tags the blob format so Load can reject foreign input before
// touching the store.
var saveMagic = [8]byte{'D', 'U', 'S', 'K', 'D', 'A', 'G', '1'}

const checksumSize = 32

// topoOrder returns every node reachable from root, each child emitted
// before any of its parents (a DAG, not just a tree, so this is a true
// topological sort via post-order DFS rather than a reversed BFS level
// order, which a shared subtree reachable by paths of different lengths
// would violate).
func (s *Store) topoOrder(root Index) ([]Index, error) {
	var order []Index
	visited := make(map[Index]bool)
	var visit func(idx Index) error
	visit = func(idx Index) error {
		if visited[idx] {
			return nil
		}
		visited[idx] = true
		n, err := s.node(idx)
		if err != nil {
			return err
		}
		if !isSelfLoop(idx, n) {
			for _, c := range n.Children {
				if err := visit(c); err != nil {
					return err
				}
			}
		}
		order = append(order, idx)
		return nil
	}
	if err := visit(root); err != nil {
		return nil, err
	}
	return order, nil
}

// Save exports root's reachable subtree as a self-contained blob: a
// header, then one record per node (reserved leaves as a bare leaf index,
// internal nodes as four child references), topologically ordered so Load
// can rebuild bottom-up with a single pass. A blake3 checksum over the
// payload is appended so a truncated or bit-flipped blob is rejected
// rather than partially loaded.
func (s *Store) Save(root ExternalPointer) ([]byte, error) {
	order, err := s.topoOrder(root.Root)
	if err != nil {
		return nil, err
	}
	position := make(map[Index]uint32, len(order))
	for i, idx := range order {
		position[idx] = uint32(i)
	}

	var payload bytes.Buffer
	payload.Write(saveMagic[:])
	_ = binary.Write(&payload, binary.LittleEndian, uint32(s.leafCount))
	_ = binary.Write(&payload, binary.LittleEndian, root.Height)
	_ = binary.Write(&payload, binary.LittleEndian, uint32(len(order)))

	for _, idx := range order {
		n, err := s.node(idx)
		if err != nil {
			return nil, err
		}
		if isSelfLoop(idx, n) {
			_ = binary.Write(&payload, binary.LittleEndian, uint32(1)) // tag: leaf
			_ = binary.Write(&payload, binary.LittleEndian, uint32(idx))
			continue
		}
		_ = binary.Write(&payload, binary.LittleEndian, uint32(0)) // tag: internal
		for _, c := range n.Children {
			ref, err := s.encodeRef(c, position)
			if err != nil {
				return nil, err
			}
			_ = binary.Write(&payload, binary.LittleEndian, ref)
		}
	}

	sum := blake3.Sum256(payload.Bytes())

	var out bytes.Buffer
	out.Write(payload.Bytes())
	out.Write(sum[:])
	return out.Bytes(), nil
}

// encodeRef resolves a child index to its position in the topological
// order being emitted. Every child of every non-leaf node visited by
// topoOrder is, by construction, itself present in that same order (leaves
// included, at their own position) — so a lookup miss here means the
// store's internal bookkeeping is broken, not a caller error.
func (s *Store) encodeRef(c Index, position map[Index]uint32) (uint32, error) {
	pos, ok := position[c]
	if !ok {
		return 0, fmt.Errorf("dag: child index %d missing from topological order", c)
	}
	return pos, nil
}

// Load rebuilds an ExternalPointer's subtree into s from a Save blob. s
// must already be constructed with the same leaf count the blob was saved
// with — leaf indices are assumed shared across stores, not remapped.
// Every node introduced by Load is hash-consed against s's existing
// content, so loading a blob that largely overlaps what s already holds
// reuses the existing slots instead of duplicating them.
func (s *Store) Load(data []byte) (ExternalPointer, error) {
	if len(data) < len(saveMagic)+4+4+4+checksumSize {
		return ExternalPointer{}, fmt.Errorf("%w: truncated header", ErrSaveParseFailure)
	}
	payload := data[:len(data)-checksumSize]
	wantSum := data[len(data)-checksumSize:]
	gotSum := blake3.Sum256(payload)
	if !bytes.Equal(gotSum[:], wantSum) {
		return ExternalPointer{}, fmt.Errorf("%w: checksum mismatch", ErrSaveParseFailure)
	}

	r := bytes.NewReader(payload)
	var magic [8]byte
	if _, err := r.Read(magic[:]); err != nil || magic != saveMagic {
		return ExternalPointer{}, fmt.Errorf("%w: bad magic", ErrSaveParseFailure)
	}
	var leafCount, rootHeight, count uint32
	if err := binary.Read(r, binary.LittleEndian, &leafCount); err != nil {
		return ExternalPointer{}, fmt.Errorf("%w: %v", ErrSaveParseFailure, err)
	}
	if err := binary.Read(r, binary.LittleEndian, &rootHeight); err != nil {
		return ExternalPointer{}, fmt.Errorf("%w: %v", ErrSaveParseFailure, err)
	}
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return ExternalPointer{}, fmt.Errorf("%w: %v", ErrSaveParseFailure, err)
	}
	if int(leafCount) != s.leafCount {
		return ExternalPointer{}, fmt.Errorf("%w: leaf count %d does not match store's %d", ErrSaveParseFailure, leafCount, s.leafCount)
	}

	resolved := make([]Index, count)
	for i := uint32(0); i < count; i++ {
		var tag uint32
		if err := binary.Read(r, binary.LittleEndian, &tag); err != nil {
			return ExternalPointer{}, fmt.Errorf("%w: %v", ErrSaveParseFailure, err)
		}
		switch tag {
		case 1:
			var leafIdx uint32
			if err := binary.Read(r, binary.LittleEndian, &leafIdx); err != nil {
				return ExternalPointer{}, fmt.Errorf("%w: %v", ErrSaveParseFailure, err)
			}
			if leafIdx >= leafCount {
				return ExternalPointer{}, fmt.Errorf("%w: leaf index %d out of range", ErrSaveParseFailure, leafIdx)
			}
			resolved[i] = Index(leafIdx)
		case 0:
			var n Node
			for k := 0; k < 4; k++ {
				var ref uint32
				if err := binary.Read(r, binary.LittleEndian, &ref); err != nil {
					return ExternalPointer{}, fmt.Errorf("%w: %v", ErrSaveParseFailure, err)
				}
				if ref >= i {
					return ExternalPointer{}, fmt.Errorf("%w: forward reference at node %d", ErrSaveParseFailure, i)
				}
				n.Children[k] = resolved[ref]
			}
			resolved[i] = s.addNode(n)
		default:
			return ExternalPointer{}, fmt.Errorf("%w: unknown node tag %d", ErrSaveParseFailure, tag)
		}
	}

	if count == 0 {
		return ExternalPointer{}, fmt.Errorf("%w: empty node list", ErrSaveParseFailure)
	}
	newRoot := resolved[count-1]
	s.incRef(newRoot)
	return ExternalPointer{Root: newRoot, Height: rootHeight}, nil
}
