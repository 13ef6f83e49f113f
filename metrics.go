package primemover

import (
	"sync"
	"sync/atomic"
)

// Snapshot is the copy-on-read statistics surface of §5 ("state that is
// read by non-event threads... must be accessed through an explicit
// snapshot operation") and §9 ("an atomic counter for total_events and a
// copy-on-read snapshot for the spectrum map"). Grounded on
// eventloop.Metrics()'s "returns a copy, safe for concurrent reads".
type Snapshot struct {
	CurrentTime T
	TotalEvents uint64
	QueueDepth  int
	SimStart    T
	SimEnd      *T
	Spectrum    map[string]uint64
}

// stats holds the kernel's live statistics. totalEvents is atomic so it
// can be read from Snapshot while the loop is running; spectrum is
// guarded by mu since it is a map, not a single machine word.
type stats struct {
	totalEvents atomic.Uint64
	mu          sync.Mutex
	spectrum    map[string]uint64
}

func newStats() *stats {
	return &stats{spectrum: make(map[string]uint64)}
}

func (s *stats) recordDispatch(signature string) {
	s.totalEvents.Add(1)
	if signature == "" {
		return
	}
	s.mu.Lock()
	s.spectrum[signature]++
	s.mu.Unlock()
}

func (s *stats) snapshotSpectrum() map[string]uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]uint64, len(s.spectrum))
	for k, v := range s.spectrum {
		out[k] = v
	}
	return out
}
