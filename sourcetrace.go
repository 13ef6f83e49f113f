package primemover

import "sync"

// sourceLog backs §4.5's weak caller back-links: a completed event's
// entry is evicted as soon as its dispatch finishes, so a later lookup
// of a stale handle yields Absent without the callee's back-link having
// kept the caller event (or its args) alive past its own completion.
// Grounded on the caller/callee relation described in spec.md §9 ("a
// tagged variant CallerLink = { Absent, Present(id) } plus a side-table
// from id to event... entries may be evicted once the event completes").
type sourceLog struct {
	mu      sync.Mutex
	entries map[EventHandle]sourceLogEntry
}

type sourceLogEntry struct {
	signature string
	time      T
	caller    EventHandle
}

func newSourceLog() *sourceLog {
	return &sourceLog{entries: make(map[EventHandle]sourceLogEntry)}
}

func (s *sourceLog) record(h EventHandle, signature string, time T, caller EventHandle) {
	s.mu.Lock()
	s.entries[h] = sourceLogEntry{signature: signature, time: time, caller: caller}
	s.mu.Unlock()
}

func (s *sourceLog) evict(h EventHandle) {
	s.mu.Lock()
	delete(s.entries, h)
	s.mu.Unlock()
}

func (s *sourceLog) lookup(h EventHandle) (sourceLogEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[h]
	return e, ok
}

// Trace walks e's caller chain as far as the weak back-links remain
// resolvable, emitting an Absent entry where the chain has gone stale
// (§4.5 "print_trace... emits '…' where gaps exist").
func (k *Kernel) Trace(e *Event) []TraceEntry {
	if !k.cfg.trackEventSources {
		return nil
	}
	var out []TraceEntry
	h := e.caller
	for h != 0 {
		entry, ok := k.sources.lookup(h)
		if !ok {
			out = append(out, TraceEntry{Absent: true, Handle: h})
			return out
		}
		out = append(out, TraceEntry{Handle: h, Signature: entry.signature, Time: entry.time})
		h = entry.caller
	}
	return out
}
