package collision

import "github.com/duskgrid/duskgrid/pkg/body"

// event is a single resolved corner-vs-wall contact: one exposed corner
// of owner striking target at the given number of ticks into the current
// sub-tick window. eventQueue orders these so the scheduler always
// resolves the earliest contact across every ordered body pair first.
type event struct {
	owner, target body.ID
	ticks         float32
	hitX, hitY    bool
}

// eventQueue implements container/heap.Interface as a min-heap on ticks —
// there's no priority-queue type in the dependency corpus (the raymarching
// prototype leans on a per-pair BinaryHeap<Reverse<Particle>> for the same
// job), so this is a direct, minimal heap.Interface implementation.
type eventQueue []*event

func (q eventQueue) Len() int            { return len(q) }
func (q eventQueue) Less(i, j int) bool  { return q[i].ticks < q[j].ticks }
func (q eventQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *eventQueue) Push(x interface{}) { *q = append(*q, x.(*event)) }
func (q *eventQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
