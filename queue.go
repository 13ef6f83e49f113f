package primemover

import (
	"container/heap"
	"sync/atomic"
)

// eventQueue is a binary min-heap over Event, keyed by (time, seq) per
// §4.1. It mirrors the teacher's timerHeap (container/heap.Interface
// keyed on a single time.Time) but is keyed on the composite (T, Q) this
// spec requires, and carries a heapIndex per element so remove(handle)
// runs in O(log n) via heap.Fix/heap.Remove instead of a linear scan.
//
// The heap slice itself (items, index) is only ever touched by whichever
// goroutine holds the implicit turn token: the loop goroutine, or the
// event body it is currently waiting on. count is the one field
// read from other goroutines (Kernel.Snapshot, §5), so it is kept as an
// atomic word rather than relying on readers taking a lock around the
// whole heap.
type eventQueue struct {
	items []*Event
	index map[EventHandle]*Event
	count atomic.Int64
}

func newEventQueue() *eventQueue {
	return &eventQueue{index: make(map[EventHandle]*Event)}
}

// heap.Interface implementation. Not called directly; use the insert/
// extractMin/remove wrappers below, which keep q.index consistent.

func (q *eventQueue) Len() int { return len(q.items) }

func (q *eventQueue) Less(i, j int) bool {
	a, b := q.items[i], q.items[j]
	if a.time != b.time {
		return a.time < b.time
	}
	return a.seq < b.seq
}

func (q *eventQueue) Swap(i, j int) {
	q.items[i], q.items[j] = q.items[j], q.items[i]
	q.items[i].heapIndex = i
	q.items[j].heapIndex = j
}

func (q *eventQueue) Push(x any) {
	e := x.(*Event)
	e.heapIndex = len(q.items)
	q.items = append(q.items, e)
}

func (q *eventQueue) Pop() any {
	old := q.items
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.heapIndex = -1
	q.items = old[:n-1]
	return e
}

// insert adds e to the queue, keyed by its current (time, seq).
func (q *eventQueue) insert(e *Event) {
	q.index[e.handle] = e
	heap.Push(q, e)
	q.count.Add(1)
}

// extractMin removes and returns the lowest (time, seq) event, or nil if
// the queue is empty. §4.1: "extract_min on empty returns 'no more
// events' (not an error)".
func (q *eventQueue) extractMin() *Event {
	if len(q.items) == 0 {
		return nil
	}
	e := heap.Pop(q).(*Event)
	delete(q.index, e.handle)
	q.count.Add(-1)
	return e
}

// peekMin returns the lowest (time, seq) event without removing it, or
// nil if the queue is empty.
func (q *eventQueue) peekMin() *Event {
	if len(q.items) == 0 {
		return nil
	}
	return q.items[0]
}

// remove removes a specific scheduled event by handle, returning it (or
// nil if the handle is not currently queued — already dispatched, or
// never posted). O(log n) via the index side-table.
func (q *eventQueue) remove(h EventHandle) *Event {
	e, ok := q.index[h]
	if !ok {
		return nil
	}
	heap.Remove(q, e.heapIndex)
	delete(q.index, h)
	q.count.Add(-1)
	return e
}

// size returns the number of queued events. Unlike the other eventQueue
// methods, it is safe to call concurrently with the loop goroutine
// mutating the heap (Kernel.Snapshot's use case, §5).
func (q *eventQueue) size() int { return int(q.count.Load()) }

func (q *eventQueue) clear() {
	q.items = nil
	q.index = make(map[EventHandle]*Event)
	q.count.Store(0)
}
