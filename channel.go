package primemover

import "sync"

// Channel is the bounded, zero-capacity synchronous rendezvous of §4.7:
// no value is ever stored inside the channel between a Put and a Take,
// the transfer happens atomically on match, and whichever side arrives
// second, if any, never blocks at all — it completes the rendezvous
// inline and hands control to the kernel to wake its counterpart at the
// current logical time, consuming zero simulated time.
//
// Structurally this mirrors the Continuation Primitive's park/complete
// contract, applied independently to each direction of the rendezvous.
type Channel[V any] struct {
	k *Kernel

	mu        sync.Mutex
	producers []*waiter[V]
	consumers []*waiter[V]
}

type waiter[V any] struct {
	cont  *Continuation
	value V
}

// NewChannel creates a channel bound to k (§6 "create_channel<T>()").
func NewChannel[V any](k *Kernel) *Channel[V] {
	return &Channel[V]{k: k}
}

// Put delivers v. If a consumer is already waiting, the longest-waiting
// one is woken with v at the current time and Put returns immediately
// without parking. Otherwise Put parks the caller until a Take arrives.
func (c *Channel[V]) Put(v V) error {
	c.mu.Lock()
	if len(c.consumers) > 0 {
		w := c.consumers[0]
		c.consumers = c.consumers[1:]
		c.mu.Unlock()
		c.k.wakeNow(w.cont, v, nil)
		return nil
	}

	cont := newContinuation("channel.put")
	c.k.trackContinuation(cont)
	c.producers = append(c.producers, &waiter[V]{cont: cont, value: v})
	c.mu.Unlock()

	_, err := c.k.park(cont)
	return err
}

// Take returns the next value. If a producer is already waiting, the
// longest-waiting one is woken at the current time and Take returns its
// value immediately without parking. Otherwise Take parks the caller
// until a Put arrives.
func (c *Channel[V]) Take() (V, error) {
	c.mu.Lock()
	if len(c.producers) > 0 {
		w := c.producers[0]
		c.producers = c.producers[1:]
		c.mu.Unlock()
		c.k.wakeNow(w.cont, nil, nil)
		return w.value, nil
	}

	var zero V
	cont := newContinuation("channel.take")
	c.k.trackContinuation(cont)
	c.consumers = append(c.consumers, &waiter[V]{cont: cont})
	c.mu.Unlock()

	v, err := c.k.park(cont)
	if err != nil {
		return zero, err
	}
	return v.(V), nil
}

// wakeNow schedules cont to resume at the current kernel time,
// delivering value/err, without blocking the caller of wakeNow itself
// (§4.7 "Timing": the resuming party is re-posted at the current kernel
// time, not inline, so a match consumes zero simulated time but still
// respects the same turn-by-turn protocol as post_continuing).
func (k *Kernel) wakeNow(cont *Continuation, value Value, err error) {
	resumeEvt := &Event{
		handle: k.nextEventHandle(),
		time:   k.Now(),
		seq:    k.nextSeq(),
		resume: &resumeSignal{cont: cont, value: value, err: err},
	}
	k.queue.insert(resumeEvt)
}
