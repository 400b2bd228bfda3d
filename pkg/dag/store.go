// Package dag implements the hash-consed quadtree DAG store: a
// content-addressed slot table where identical subtrees are shared,
// reference-counted, and path-addressed for read/write. It is grounded on
// original_source/src/graph.rs's SparseDirectedGraph, translated from
// Rust's borrow-checked ownership into an explicit slot table plus
// lookup map, the way gaissmai/bart keeps a node table addressed by plain
// indices instead of pointers.
package dag

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/gammazero/deque"
	uuid "github.com/hashicorp/go-uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/duskgrid/duskgrid/pkg/zorder"
)

// slot holds one node's content plus its reference count and generation.
// A slot's refs baseline is 1 for as long as it is present in the store's
// lookup map; real structural parents and root ownership add to that
// baseline, so a node becomes collectible the instant its count returns
// to 1 (unlike the prototype's raw zero-baseline scheme). gen counts how many times this slot index
// has been freed and reallocated to unrelated content; it survives across
// reuse (allocateSlot never resets it) specifically so readKey can fold
// it in and keep a slot index's identity unique over the store's life.
type slot struct {
	node Node
	refs uint32
	gen  uint32
}

// readKey is the LRU memoization key for Store.Read: a (root, path) pair
// plus root's generation at the time of the read. The structure reachable
// from a given live root is immutable, so a read result never goes stale
// while that root's slot keeps its generation — but a freed slot index is
// eventually reallocated to unrelated content, and without the generation
// a cache entry keyed on the bare index could be served for that new,
// structurally unrelated node instead of falling through to a fresh walk
// (which would correctly surface ErrUseAfterFree for a genuinely freed
// root, or correct data for a reused one).
type readKey struct {
	root   Index
	gen    uint32
	height uint32
	code   uint32
	depth  uint32
}

// Store is a single hash-consed quadtree DAG. It is not safe for
// concurrent use: per spec, the collision scheduler and the editing driver
// serialize all access to it.
type Store struct {
	leafCount int

	slots  []slot
	lookup map[Node]Index
	live   *bitset.BitSet
	free   []Index

	readCache *lru.Cache[readKey, ExternalPointer]

	instanceID string
	log        zerolog.Logger
}

// Option configures a Store at construction time.
type Option func(*Store)

// WithLogger overrides the store's zerolog logger (defaults to the global
// logger with a "dag" subcomponent tag).
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithReadCacheSize bounds the (root,path)->pointer memoization cache.
// Zero disables the cache entirely.
func WithReadCacheSize(n int) Option {
	return func(s *Store) {
		if n <= 0 {
			s.readCache = nil
			return
		}
		c, err := lru.New[readKey, ExternalPointer](n)
		if err != nil {
			panic(err)
		}
		s.readCache = c
	}
}

const defaultReadCacheSize = 4096

// NewStore builds a Store with leafCount reserved, self-looping leaves
// (slots 0..leafCount). leafCount must match the material.Palette the
// caller intends to classify leaves with.
func NewStore(leafCount int, opts ...Option) *Store {
	if leafCount <= 0 {
		panic("dag: leafCount must be positive")
	}

	id, err := uuid.GenerateUUID()
	if err != nil {
		id = "unavailable"
	}

	s := &Store{
		leafCount:  leafCount,
		lookup:     make(map[Node]Index, leafCount*4),
		live:       bitset.New(uint(leafCount)),
		instanceID: id,
		log:        log.With().Str("subcomponent", "dag").Str("store", id[:8]).Logger(),
	}

	cache, err := lru.New[readKey, ExternalPointer](defaultReadCacheSize)
	if err == nil {
		s.readCache = cache
	}

	for i := 0; i < leafCount; i++ {
		idx := Index(i)
		n := Node{Children: [4]Index{idx, idx, idx, idx}}
		s.slots = append(s.slots, slot{node: n, refs: 1})
		s.lookup[n] = idx
		s.live.Set(uint(i))
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// InstanceID identifies this store instance: a random tag minted once in
// NewStore. Save does not write it into exported blobs and Load does not
// compare it; cross-store identity was never structural (spec.md §4.1).
func (s *Store) InstanceID() string { return s.instanceID }

// LeafCount returns N, the store's reserved-leaf count.
func (s *Store) LeafCount() int { return s.leafCount }

// IsLeaf reports whether idx names one of the store's reserved,
// self-looping leaves.
func (s *Store) IsLeaf(idx Index) bool { return int(idx) < s.leafCount }

func (s *Store) node(idx Index) (Node, error) {
	if int(idx) >= len(s.slots) || !s.live.Test(uint(idx)) {
		return Node{}, fmt.Errorf("%w: index %d", ErrUseAfterFree, idx)
	}
	return s.slots[idx].node, nil
}

func (s *Store) refCount(idx Index) uint32 {
	return s.slots[idx].refs
}

// allocateSlot reuses a freed slot if one exists, else appends a new one.
// A reused slot keeps the generation freeSlot left it at.
func (s *Store) allocateSlot(n Node) Index {
	if k := len(s.free); k > 0 {
		idx := s.free[k-1]
		s.free = s.free[:k-1]
		s.slots[idx] = slot{node: n, refs: 1, gen: s.slots[idx].gen}
		s.live.Set(uint(idx))
		return idx
	}
	idx := Index(len(s.slots))
	s.slots = append(s.slots, slot{node: n, refs: 1})
	s.live.Set(uint(idx))
	return idx
}

func (s *Store) freeSlot(idx Index) {
	s.live.Clear(uint(idx))
	s.slots[idx] = slot{gen: s.slots[idx].gen + 1}
	s.free = append(s.free, idx)
}

// generation reports idx's current slot generation, or 0 for an
// out-of-range index (the caller's subsequent node() call will surface
// the real error; this is only ever used to shape a cache key).
func (s *Store) generation(idx Index) uint32 {
	if int(idx) >= len(s.slots) {
		return 0
	}
	return s.slots[idx].gen
}

// addNode hash-conses n: returns the existing index if an equal node is
// already live, otherwise allocates a new slot and gives every one of n's
// non-leaf, non-self children one additional owner — n is a brand new
// parent of each of them. Reserved leaves are exempt: they are permanent,
// self-looping infrastructure that is never collected, so their refcount
// is never touched at all. Apart from SetNode's reuse-in-place branch,
// which increments the new child it writes into the mutated node, this is
// the only place child refcounts are incremented; reused nodes returned from the lookup hit are left
// untouched here because any new reference to them is accounted for by
// whichever caller attaches them (the next layer up, or the final root
// swap in SetNode).
func (s *Store) addNode(n Node) Index {
	if idx, ok := s.lookup[n]; ok {
		return idx
	}
	idx := s.allocateSlot(n)
	s.lookup[n] = idx
	for _, c := range n.Children {
		if c != idx && !s.IsLeaf(c) {
			s.slots[c].refs++
		}
	}
	return idx
}

// getTrail walks from root along the full length of steps, collecting
// every visited index. A self-loop (leaf) reached before the steps are
// exhausted simply keeps re-visiting itself for the remaining steps — a
// leaf is self-similar at every depth below it, so its implicit
// expansion is "all four children are this same leaf" at any depth,
// which falls out of the self-loop property with no special case. This
// keeps the trail always path.Depth+1 long, which SetNode's upward
// reconstruction relies on to correctly synthesize the untouched sibling
// quadrants around an edit made deep inside a previously-uniform region.
func (s *Store) getTrail(root Index, steps []uint32) ([]Index, error) {
	trail := make([]Index, 1, len(steps)+1)
	trail[0] = root
	cur := root
	for _, dir := range steps {
		n, err := s.node(cur)
		if err != nil {
			return nil, err
		}
		cur = n.Children[dir]
		trail = append(trail, cur)
	}
	return trail, nil
}

// leafDepth returns the shallowest depth in trail at which a self-loop
// (leaf) is already reached — the coarsest accurate height for a subtree
// that full-length getTrail would otherwise report as the full requested
// depth purely by repetition.
func (s *Store) leafDepth(trail []Index) (uint32, error) {
	for i, idx := range trail {
		n, err := s.node(idx)
		if err != nil {
			return 0, err
		}
		if isSelfLoop(idx, n) {
			return uint32(i), nil
		}
	}
	return uint32(len(trail) - 1), nil
}

// Read walks root along path and returns the external pointer of whatever
// subtree is found there. If a self-loop (leaf) is reached before path is
// exhausted, the leaf is returned with its residual height — path steps
// beyond a leaf are meaningless (a leaf is self-similar at every depth
// below it), so the reported Height reflects the coarsest subtree that
// actually exists, not the requested depth.
func (s *Store) Read(root ExternalPointer, path zorder.Path) (ExternalPointer, error) {
	if path.Depth > root.Height {
		return ExternalPointer{}, fmt.Errorf("%w: depth %d exceeds height %d", ErrPathOutOfRange, path.Depth, root.Height)
	}

	key := readKey{root: root.Root, gen: s.generation(root.Root), height: root.Height, code: path.Code, depth: path.Depth}
	if s.readCache != nil {
		if v, ok := s.readCache.Get(key); ok {
			return v, nil
		}
	}

	steps := path.Steps()
	trail, err := s.getTrail(root.Root, steps)
	if err != nil {
		return ExternalPointer{}, err
	}
	depthReached, err := s.leafDepth(trail)
	if err != nil {
		return ExternalPointer{}, err
	}
	result := ExternalPointer{Root: trail[depthReached], Height: root.Height - depthReached}

	if s.readCache != nil {
		s.readCache.Add(key, result)
	}
	return result, nil
}

// canReuseInPlace reports whether idx may be mutated in place instead of
// cloned: its only owners are the lookup map and the single path currently
// rewriting through it (refs == 2, per DESIGN NOTES in spec.md), and it is
// not a reserved leaf.
func (s *Store) canReuseInPlace(idx Index) bool {
	return !s.IsLeaf(idx) && s.refCount(idx) == 2
}

// SetNode returns the external pointer of a tree identical to root except
// that the subtree located by path is replaced by newChild. If the
// existing subtree at path already equals newChild, root is returned
// unchanged (same Index, same Height) with no allocation.
func (s *Store) SetNode(root ExternalPointer, path zorder.Path, newChild Index) (ExternalPointer, error) {
	if path.Depth > root.Height {
		return ExternalPointer{}, fmt.Errorf("%w: depth %d exceeds height %d", ErrPathOutOfRange, path.Depth, root.Height)
	}
	if path.Depth == 0 {
		if newChild == root.Root {
			return root, nil
		}
		return s.swapRoot(root, newChild)
	}

	steps := path.Steps()
	trail, err := s.getTrail(root.Root, steps)
	if err != nil {
		return ExternalPointer{}, err
	}

	// Early exit: unchanged value, per spec.md's idempotence requirement.
	if trail[len(trail)-1] == newChild {
		return root, nil
	}

	cur := newChild
	reusedInPlace := false

	// Walk the trail upward (deepest edited node first). trail[i] is the
	// index that was visited after i steps; the node at trail[i] is the
	// parent whose child at steps[i] needs to become `cur`.
	for i := len(trail) - 2; i >= 0; i-- {
		parentIdx := trail[i]
		direction := steps[i]
		parentNode, err := s.node(parentIdx)
		if err != nil {
			return ExternalPointer{}, err
		}

		if s.canReuseInPlace(parentIdx) {
			oldChild := parentNode.Children[direction]
			delete(s.lookup, parentNode)
			parentNode.Children[direction] = cur
			s.slots[parentIdx].node = parentNode
			s.lookup[parentNode] = parentIdx
			if oldChild != cur {
				s.incRef(cur)
				s.decRefCascade(oldChild)
			}
			cur = parentIdx
			reusedInPlace = true
			break
		}

		newNode := parentNode
		newNode.Children[direction] = cur
		cur = s.addNode(newNode)
	}

	if reusedInPlace {
		// The mutated node kept its slot index, so nothing above it in
		// the tree needs updating — the root is unchanged.
		return root, nil
	}

	return s.swapRoot(root, cur)
}

// swapRoot gives newRoot one more owner (the caller, e.g. a Body, about to
// hold it) and releases root's old owner, cascading any resulting
// collection. It is the only place a root-level (rather than
// child-of-a-node) reference is tracked.
func (s *Store) swapRoot(root ExternalPointer, newRoot Index) (ExternalPointer, error) {
	if newRoot == root.Root {
		return root, nil
	}
	if _, err := s.node(newRoot); err != nil {
		return ExternalPointer{}, err
	}
	s.incRef(newRoot)
	s.decRefCascade(root.Root)
	return ExternalPointer{Root: newRoot, Height: root.Height}, nil
}

// incRef gives idx one more real owner. Reserved leaves are permanent
// infrastructure and never participate in ref counting.
func (s *Store) incRef(idx Index) {
	if s.IsLeaf(idx) {
		return
	}
	s.slots[idx].refs++
}

// Retain gives p's root one additional owner — used when a Body is first
// handed an ExternalPointer it didn't construct itself (e.g. cloning a
// template root for many bodies).
func (s *Store) Retain(p ExternalPointer) { s.incRef(p.Root) }

// Release drops one owner of p's root, cascading collection if it falls to
// the lookup-map-only baseline. Used when a Body is destroyed.
func (s *Store) Release(p ExternalPointer) { s.decRefCascade(p.Root) }

// decRefCascade removes one owner from idx. If that drops its count to 1
// (solely the lookup map's reference) and it is not a reserved leaf, it is
// erased from the slot table and the lookup map, and the same release is
// cascaded to each of its own children — mirroring dec_owners in
// original_source/src/graph.rs. The cascade naturally stops at any node
// that survives (still has another real owner), which keeps this O(depth)
// in the common case of mostly-shared trees.
func (s *Store) decRefCascade(idx Index) {
	var q deque.Deque[Index]
	q.PushBack(idx)
	for q.Len() > 0 {
		cur := q.PopFront()
		if s.IsLeaf(cur) {
			// Permanent infrastructure: never decremented, never freed.
			continue
		}
		if s.slots[cur].refs == 0 {
			// Already freed via another path in this same cascade.
			continue
		}
		s.slots[cur].refs--
		if s.slots[cur].refs != 1 {
			continue
		}
		n := s.slots[cur].node
		delete(s.lookup, n)
		s.freeSlot(cur)
		for _, c := range n.Children {
			if c != cur {
				q.PushBack(c)
			}
		}
	}
}
