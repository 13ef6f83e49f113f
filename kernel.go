package primemover

import (
	"sync"
	"sync/atomic"
)

// Kernel is the single authoritative event processor of §4.4: it owns
// the queue, the current time, the "current event" slot, statistics,
// and the serialization discipline that guarantees at most one event
// body executes at a time.
//
// Grounded on eventloop.Loop's dispatch-loop structure, realized per
// the simplicity-favoring design note in spec.md §9: each event body
// runs in its own goroutine purely so that a park deep in a call stack
// suspends correctly, while a single shared turnResult channel acts as
// the admission gate — only the goroutine holding the implicit "current
// turn" token ever sends on it, so RunLoop never has two event bodies
// live at once.
type Kernel struct {
	cfg *config

	queue *eventQueue
	seq   uint64 // next Q to assign, monotonic

	// currentTime is written by the loop goroutine (once per turn,
	// loop.go) and by Advance, which runs outside event execution, but
	// read by Snapshot from any goroutine (§5: "state read
	// by non-event threads... must be accessed through an explicit
	// snapshot operation"), so it is an atomic word rather than a bare
	// T, mirroring stats.totalEvents below.
	currentTime atomic.Int64
	currentEvt  atomic.Pointer[Event] // non-nil only while a body executes

	nextHandle uint64

	stats   *stats
	sources *sourceLog

	// simStart is written at RunLoop start; simEnd is set by New (when
	// WithEndTime is given), overwritten by each EndAt call, and filled
	// in with the current time at shutdown if still unset. Both are read
	// by Snapshot from any goroutine, so both are guarded by liveMu
	// rather than left as bare fields.
	simStart T
	simEnd   *T

	endRequested atomic.Bool
	shutdownOnce sync.Once

	// turnResult is the channel an active event-body goroutine uses to
	// report back to RunLoop: either it finished (value/err) or it
	// parked (on a Continuation). Unbuffered: the send only succeeds
	// once RunLoop is waiting for it, which by construction is always
	// (RunLoop never moves on until it has received exactly one
	// message per turn it started).
	turnResult chan turnOutcome

	// liveContinuations tracks every Continuation currently parked, so
	// shutdown can release them all with SimulationEnded (§5: "the
	// kernel must ensure every parked task is released").
	liveMu            sync.Mutex
	liveContinuations map[*Continuation]struct{}
}

type turnOutcomeKind int

const (
	turnFinished turnOutcomeKind = iota
	turnParked
)

// turnOutcome is what an event-body goroutine reports back to RunLoop
// at the end of one turn. cont is meaningful only when kind ==
// turnParked (the continuation the goroutine just parked on). owner is
// meaningful only when kind == turnFinished: the continuation, if any,
// that must be completed with value/err now that the whole invocation
// has returned. owner is fixed at the moment the goroutine was first
// spawned (by invokeAndWait) and flows unchanged through however many
// intermediate parks/resumes that goroutine passes through before it
// finally returns — it is NOT the continuation of whichever "resume"
// Event happened to be dispatched last, which is why it cannot be read
// back off the dispatched Event at completion time.
type turnOutcome struct {
	kind  turnOutcomeKind
	value Value
	err   error
	cont  *Continuation
	owner *Continuation
}

// New constructs a Kernel. See Option for the configuration surface
// (§6).
func New(opts ...Option) (*Kernel, error) {
	cfg, err := resolveConfig(opts)
	if err != nil {
		return nil, err
	}
	k := &Kernel{
		cfg:               cfg,
		queue:             newEventQueue(),
		stats:             newStats(),
		sources:           newSourceLog(),
		turnResult:        make(chan turnOutcome),
		liveContinuations: make(map[*Continuation]struct{}),
	}
	if cfg.endTime != nil {
		t := *cfg.endTime
		k.simEnd = &t
	}
	return k, nil
}

func (k *Kernel) nextSeq() Q {
	return Q(atomic.AddUint64(&k.seq, 1))
}

func (k *Kernel) nextEventHandle() EventHandle {
	return EventHandle(atomic.AddUint64(&k.nextHandle, 1))
}

// Now returns the current logical time. Valid to call at any time,
// including outside of event execution (it simply returns the last
// value set by extraction or Advance).
func (k *Kernel) Now() T { return T(k.currentTime.Load()) }

// setNow stores a new current-time value. Only RunLoop's own goroutine
// calls this, once per turn, as it extracts the next event.
func (k *Kernel) setNow(t T) { k.currentTime.Store(int64(t)) }

// currentEvent returns the event presently in the "current event" slot,
// or nil if no event body is executing (§3 invariant: "non-null exactly
// while an event body is executing").
func (k *Kernel) currentEvent() *Event { return k.currentEvt.Load() }

// PostEvent schedules target.Invoke(ordinal, args) to run at the
// current logical time, fire-and-forget (§4.4, §4.3 kind 1: "void
// non-blocking"). Returns a handle usable with Cancel.
func (k *Kernel) PostEvent(target Invoker, ordinal uint32, args []Value) (EventHandle, error) {
	return k.postAt(k.Now(), target, ordinal, args)
}

// PostEventAt schedules target.Invoke(ordinal, args) to run at time,
// which must be >= Now(). §4.4: "rejects if time < currentTime".
func (k *Kernel) PostEventAt(time T, target Invoker, ordinal uint32, args []Value) (EventHandle, error) {
	now := k.Now()
	if time < now {
		return 0, newArgumentError("kernel", "post_event_at", now, errPastSchedule)
	}
	return k.postAt(time, target, ordinal, args)
}

func (k *Kernel) postAt(time T, target Invoker, ordinal uint32, args []Value) (EventHandle, error) {
	if k.endRequested.Load() {
		return 0, newInvariantError("kernel", "post_event", k.Now(), errPostShutdown)
	}
	e := &Event{
		handle:  k.nextEventHandle(),
		time:    time,
		seq:     k.nextSeq(),
		target:  target,
		ordinal: ordinal,
		args:    args,
	}
	if k.cfg.trackEventSources {
		if cur := k.currentEvent(); cur != nil {
			e.caller = cur.handle
		}
	}
	if k.cfg.debugEvents {
		e.debug = captureDebugInfo()
	}
	k.queue.insert(e)
	if k.cfg.trackEventSources {
		k.sources.record(e.handle, target.Signature(ordinal), time, e.caller)
	}
	return e.handle, nil
}

// RunStatic schedules fn as a one-shot event at the current time,
// wrapping it in an Invoker adapter (§6: "run_static(site, args)").
func (k *Kernel) RunStatic(site string, fn func([]Value) (Value, error), args []Value) (EventHandle, error) {
	return k.PostEvent(&funcEntity{site: site, fn: fn}, 0, args)
}

// RunStaticAt is RunStatic scheduled at a specific future time (§6:
// "run_static_at(t, site, args)").
func (k *Kernel) RunStaticAt(time T, site string, fn func([]Value) (Value, error), args []Value) (EventHandle, error) {
	return k.PostEventAt(time, &funcEntity{site: site, fn: fn}, 0, args)
}

// Cancel removes a specific scheduled event by handle. If the event had
// an attached continuation (it was itself a post_continuing callee) or
// was a resume turn (such as a sleep wake), the continuation it would
// have completed or resumed is woken with Cancelled on a freshly
// scheduled resume turn — never completed inline from inside Cancel's
// own caller, which would let the cancelled goroutine run concurrently
// with whatever turn is still executing (§5, §4.4 step 5's "never
// inline" discipline applies here too).
func (k *Kernel) Cancel(h EventHandle) bool {
	e := k.queue.remove(h)
	if e == nil {
		return false
	}
	if e.continuation != nil {
		k.wakeNow(e.continuation, nil, Cancelled)
	} else if e.resume != nil {
		k.wakeNow(e.resume.cont, nil, Cancelled)
	}
	return true
}

// PostContinuing schedules target.Invoke(ordinal, args) and blocks the
// calling goroutine until it completes, returning its value or
// re-raising its error in the caller's own frame (§4.3 kinds 2/3, §4.4
// "post_continuing protocol"). Must be called from inside an event
// body (from a goroutine the kernel itself spawned for some event).
func (k *Kernel) PostContinuing(target Invoker, ordinal uint32, args []Value) (Value, error) {
	caller := k.currentEvent()
	if caller == nil {
		return nil, newInvariantError("kernel", "post_continuing", k.Now(), errNoCurrentEvent)
	}

	sig := target.Signature(ordinal)
	cont := newContinuation(sig)
	k.trackContinuation(cont)

	callee := &Event{
		handle:       k.nextEventHandle(),
		time:         k.Now(),
		seq:          k.nextSeq(),
		target:       target,
		ordinal:      ordinal,
		args:         args,
		continuation: cont,
	}
	if k.cfg.trackEventSources {
		callee.caller = caller.handle
		k.sources.record(callee.handle, sig, callee.time, callee.caller)
	}
	k.queue.insert(callee)

	return k.park(cont)
}

// Sleep re-posts the current event at currentTime+dt and, in this
// implementation, parks the calling goroutine until that wake turn is
// dispatched (§4.4 "sleep(dt)"; see DESIGN.md's Open Question
// resolution for why Sleep and BlockingSleep share one mechanism here).
// dt must be >= 0; dt == 0 still yields the tail of the current instant's
// FIFO order via a freshly assigned seq.
func (k *Kernel) Sleep(dt T) error {
	return k.parkFor(dt)
}

// BlockingSleep is semantically equivalent to PostContinuing against a
// no-op callee scheduled at currentTime+dt (§4.4 "blocking_sleep(dt)").
func (k *Kernel) BlockingSleep(dt T) error {
	return k.parkFor(dt)
}

func (k *Kernel) parkFor(dt T) error {
	now := k.Now()
	if dt < 0 {
		return newArgumentError("kernel", "sleep", now, errNegativeDelay)
	}
	if k.currentEvent() == nil {
		return newInvariantError("kernel", "sleep", now, errNoCurrentEvent)
	}
	cont := newContinuation("sleep")
	k.trackContinuation(cont)
	wake := &Event{
		handle: k.nextEventHandle(),
		time:   now + dt,
		seq:    k.nextSeq(),
		resume: &resumeSignal{cont: cont},
	}
	k.queue.insert(wake)
	_, err := k.park(cont)
	return err
}

// Advance sets currentTime += dt without draining any events. May only
// be called outside of event execution (§4.4).
func (k *Kernel) Advance(dt T) error {
	now := k.Now()
	if dt < 0 {
		return newArgumentError("kernel", "advance", now, errNegativeDelay)
	}
	if k.currentEvent() != nil {
		return newInvariantError("kernel", "advance", now, errDuringEvent)
	}
	k.currentTime.Add(int64(dt))
	return nil
}

// EndSimulation requests cooperative shutdown at the next loop
// iteration (§4.4, §6).
func (k *Kernel) EndSimulation() {
	k.endRequested.Store(true)
}

// EndAt sets a terminal clock value; RunLoop exits once the next
// event's time would exceed it (§6 "end_time").
func (k *Kernel) EndAt(t T) {
	k.liveMu.Lock()
	k.simEnd = &t
	k.liveMu.Unlock()
}

// park hands control back to RunLoop (by sending turnParked on
// turnResult) and then blocks on the continuation until some later turn
// completes it. Callers must already be running on a goroutine RunLoop
// spawned for the current turn.
func (k *Kernel) park(cont *Continuation) (Value, error) {
	k.turnResult <- turnOutcome{kind: turnParked, cont: cont}
	v, err := cont.park()
	k.forgetContinuation(cont)
	return v, err
}

func (k *Kernel) trackContinuation(c *Continuation) {
	k.liveMu.Lock()
	k.liveContinuations[c] = struct{}{}
	k.liveMu.Unlock()
}

func (k *Kernel) forgetContinuation(c *Continuation) {
	k.liveMu.Lock()
	delete(k.liveContinuations, c)
	k.liveMu.Unlock()
}

// releaseAllParked completes every still-parked continuation with
// SimulationEnded, guaranteeing no parked task is leaked across
// shutdown (§5).
func (k *Kernel) releaseAllParked() {
	k.liveMu.Lock()
	live := make([]*Continuation, 0, len(k.liveContinuations))
	for c := range k.liveContinuations {
		live = append(live, c)
	}
	k.liveContinuations = make(map[*Continuation]struct{})
	k.liveMu.Unlock()
	for _, c := range live {
		_ = c.completeError(SimulationEnded)
	}
}

// Snapshot returns a copy-on-read statistics snapshot (§5, §9), safe to
// call from any goroutine including while RunLoop is active.
func (k *Kernel) Snapshot() Snapshot {
	s := Snapshot{
		CurrentTime: k.Now(),
		TotalEvents: k.stats.totalEvents.Load(),
		QueueDepth:  k.queue.size(),
		Spectrum:    k.stats.snapshotSpectrum(),
	}
	k.liveMu.Lock()
	s.SimStart = k.simStart
	if k.simEnd != nil {
		end := *k.simEnd
		s.SimEnd = &end
	}
	k.liveMu.Unlock()
	return s
}
