package primemover

// DebugInfo captures the posting site of an event when debug mode is
// enabled (§4.6). Captured by inspecting the calling frame just above
// the entity's dispatch wrapper; costly (a stack walk per post), so it
// is off unless [WithDebugEvents] is set.
type DebugInfo struct {
	SiteClass  string
	SiteMethod string
	SiteLine   int
}

// EventHandle identifies a posted [Event] for later removal (§4.1) or
// event-source tracing (§4.5). It is a kernel-private sequence number;
// zero is never a valid handle.
type EventHandle uint64

// resumeSignal marks an Event as a pure "resume" turn: dispatching it
// does not call an Invoker at all, it delivers a value/error into a
// parked continuation and waits for that goroutine to run further (see
// Kernel.runTurn and Kernel.resumeAndWait). This is how post_continuing and sleep/blocking_sleep
// wake a parked caller without ever resuming it inline with the event
// that completed it (§4.4 step 5).
type resumeSignal struct {
	cont  *Continuation
	value Value
	err   error
}

// Event is the scheduled-invocation record of §3. Exactly one of target
// (a fresh dispatch) or resume (waking a parked continuation) is set.
type Event struct {
	handle EventHandle
	time   T
	seq    Q

	target  Invoker
	ordinal uint32
	args    []Value

	resume *resumeSignal

	// caller is a weak back-link: it does not keep the caller Event
	// alive past its own completion. See sourceLog and Kernel.Trace /
	// §4.5.
	caller EventHandle

	// continuation is set iff this event's own completion must wake a
	// parked caller, i.e. this event was itself posted via
	// PostContinuing. Sleep/BlockingSleep wakes do not use it; they are
	// resume turns that carry the sleeper's continuation in resume.
	continuation *Continuation

	debug *DebugInfo

	heapIndex int // maintained by the queue; set to -1 when popped or removed
}

// TraceEntry is one hop of an event-source trace (§4.5, print_trace).
// Absent is true when the chain has gone stale: the caller event it
// would have pointed to has already completed and been reclaimed.
type TraceEntry struct {
	Absent    bool
	Handle    EventHandle
	Signature string
	Time      T
}
