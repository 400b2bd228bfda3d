// Package zorder implements the interleaved-bit quadtree addressing scheme:
// a Path names a cell by 2 selector bits per subdivision layer, y above x,
// most-significant layer first. It is grounded directly on the ZorderPath
// type of the prototype this engine generalizes, down to the bit order.
package zorder

// MaxDepth bounds Path.Depth so that Code (a uint32, 2 bits/layer) never
// overflows: 2*15 = 30 bits used, matching spec's "Depth ≤ 15".
const MaxDepth = 15

// Cell is an absolute (x, y) cell coordinate at some depth.
type Cell struct {
	X, Y uint32
}

// Path is a Z-order-interleaved path through a quadtree: Code packs 2 bits
// per layer (y-bit above x-bit), Depth layers deep, MSB-first.
type Path struct {
	Code  uint32
	Depth uint32
}

// Root is the zero-depth path — the whole tree, no selector bits.
func Root() Path { return Path{} }

// ToCell decodes the path into an absolute cell coordinate.
func (p Path) ToCell() Cell {
	var c Cell
	for layer := uint32(0); layer < p.Depth; layer++ {
		c.X |= ((p.Code >> (2 * layer)) & 0b1) << layer
		c.Y |= ((p.Code >> (2*layer + 1)) & 0b1) << layer
	}
	return c
}

// FromCell encodes a cell coordinate at depth into a Path.
func FromCell(c Cell, depth uint32) Path {
	var code uint32
	for layer := int(depth) - 1; layer >= 0; layer-- {
		step := (((c.Y >> uint(layer)) & 0b1) << 1) | ((c.X >> uint(layer)) & 0b1)
		code = (code << 2) | step
	}
	return Path{Code: code, Depth: depth}
}

// WithDepth rescales the path to a different depth by shifting Code left or
// right by 2 bits per layer of difference. Rescaling down truncates the
// finest selector bits (moving to an ancestor); rescaling up appends zero
// bits (moving to the path's top-left-most descendant at that depth).
func (p Path) WithDepth(depth uint32) Path {
	code := p.Code
	if p.Depth < depth {
		code <<= 2 * (depth - p.Depth)
	} else {
		code >>= 2 * (p.Depth - depth)
	}
	return Path{Code: code, Depth: depth}
}

// ReadStep returns the 2-bit child selector the path takes at the given
// layer counting down from the root (layer 1 is the first step below root).
func (p Path) ReadStep(layer uint32) uint32 {
	return p.WithDepth(layer).Code & 0b11
}

// Steps decomposes the path into its per-layer 2-bit selectors, root-first,
// the form DAG traversal consumes directly.
func (p Path) Steps() []uint32 {
	steps := make([]uint32, 0, p.Depth)
	for layer := uint32(1); layer <= p.Depth; layer++ {
		steps = append(steps, p.ReadStep(layer))
	}
	return steps
}

// StepDown appends one more selector (0-3) below the path, descending one
// layer deeper.
func (p Path) StepDown(direction uint32) Path {
	return Path{Code: (p.Code << 2) | (direction & 0b11), Depth: p.Depth + 1}
}

// MoveCartesianly steps the path by dx,dy in cell space at its current
// depth. It reports false (the zero Path) if the destination would leave
// the [0, 2^depth) box on either axis — callers on the spec's documented
// "outside the root box" path must treat that as "no such neighbor", not
// an error.
func (p Path) MoveCartesianly(dx, dy int32) (Path, bool) {
	cell := p.ToCell()
	ex := int64(cell.X) + int64(dx)
	ey := int64(cell.Y) + int64(dy)
	bound := int64(uint32(1) << p.Depth)
	if ex < 0 || ey < 0 || ex >= bound || ey >= bound {
		return Path{}, false
	}
	return FromCell(Cell{X: uint32(ex), Y: uint32(ey)}, p.Depth), true
}

// SharedParent finds the deepest common ancestor path of a and b: their
// depths are first equalized to the shallower of the two (an ancestor can
// never be deeper than either node), then the code is truncated layer by
// layer until both paths agree.
func (p Path) SharedParent(o Path) Path {
	depth := p.Depth
	if o.Depth < depth {
		depth = o.Depth
	}
	a := p.WithDepth(depth)
	b := o.WithDepth(depth)
	for layer := depth; ; layer-- {
		if a.WithDepth(layer) == b.WithDepth(layer) {
			return a.WithDepth(layer)
		}
		if layer == 0 {
			break
		}
	}
	return Root()
}
