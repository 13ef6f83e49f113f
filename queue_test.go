package primemover

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventQueue_OrdersByTimeThenSeq(t *testing.T) {
	q := newEventQueue()
	q.insert(&Event{handle: 1, time: 5, seq: 2})
	q.insert(&Event{handle: 2, time: 5, seq: 1})
	q.insert(&Event{handle: 3, time: 1, seq: 9})
	q.insert(&Event{handle: 4, time: 5, seq: 3})

	var order []EventHandle
	for q.size() > 0 {
		order = append(order, q.extractMin().handle)
	}
	assert.Equal(t, []EventHandle{3, 2, 1, 4}, order)
}

func TestEventQueue_ExtractMinOnEmptyReturnsNil(t *testing.T) {
	q := newEventQueue()
	assert.Nil(t, q.extractMin())
	assert.Nil(t, q.peekMin())
}

func TestEventQueue_PeekMinDoesNotRemove(t *testing.T) {
	q := newEventQueue()
	q.insert(&Event{handle: 1, time: 10, seq: 1})
	peeked := q.peekMin()
	require.NotNil(t, peeked)
	assert.Equal(t, EventHandle(1), peeked.handle)
	assert.Equal(t, 1, q.size())
}

func TestEventQueue_RemoveByHandle(t *testing.T) {
	q := newEventQueue()
	q.insert(&Event{handle: 1, time: 10, seq: 1})
	q.insert(&Event{handle: 2, time: 5, seq: 1})
	q.insert(&Event{handle: 3, time: 20, seq: 1})

	removed := q.remove(2)
	require.NotNil(t, removed)
	assert.Equal(t, EventHandle(2), removed.handle)
	assert.Equal(t, 2, q.size())

	assert.Nil(t, q.remove(2), "removing again must miss: already gone")
	assert.Nil(t, q.remove(404), "removing an unknown handle must miss")

	first := q.extractMin()
	assert.Equal(t, EventHandle(1), first.handle)
}

func TestEventQueue_Clear(t *testing.T) {
	q := newEventQueue()
	q.insert(&Event{handle: 1, time: 1, seq: 1})
	q.insert(&Event{handle: 2, time: 2, seq: 1})
	q.clear()
	assert.Equal(t, 0, q.size())
	assert.Nil(t, q.extractMin())
}
