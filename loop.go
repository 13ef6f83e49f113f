package primemover

// RunLoop drains the queue in strict (time, seq) order until it empties,
// the next event's time would exceed the configured end time, or
// EndSimulation/EndAt requests shutdown (§4.4 "event-loop algorithm").
// It returns the first fatal error raised by an event with no
// continuation to absorb it (§7 kind 2); SimulationEnded is never
// returned this way, since it is only ever delivered into continuations
// during shutdown, not into top-level events.
//
// RunLoop must be called from the goroutine that will own the kernel's
// ambient binding for its own duration; it binds and unbinds that
// goroutine via SetController so top-level code (run_static callers,
// test harnesses) can reach GetController() around the call.
func (k *Kernel) RunLoop(endTime ...T) error {
	if len(endTime) > 0 {
		k.EndAt(endTime[0])
	}
	SetController(k)
	defer SetController(nil)

	k.liveMu.Lock()
	k.simStart = k.Now()
	k.liveMu.Unlock()

	for {
		if k.loopShouldExit() {
			break
		}

		e := k.queue.extractMin()
		if e == nil {
			break
		}

		k.setNow(e.time)
		k.currentEvt.Store(e)

		outcome := k.runTurn(e)

		k.currentEvt.Store(nil)

		if outcome.kind == turnFinished {
			if k.cfg.trackEventSources {
				k.sources.evict(e.handle)
			}
			if err := k.completeTurn(e, outcome); err != nil {
				k.finishShutdown()
				return err
			}
		}
		// turnParked: nothing further this iteration; the parked
		// goroutine will be resumed by whatever wake/callee event was
		// scheduled when it parked.
	}

	k.finishShutdown()
	return nil
}

// loopShouldExit implements step 1 of §4.4's algorithm.
func (k *Kernel) loopShouldExit() bool {
	if k.endRequested.Load() {
		return true
	}
	k.liveMu.Lock()
	end := k.simEnd
	k.liveMu.Unlock()
	if end == nil {
		return false
	}
	peek := k.queue.peekMin()
	if peek == nil {
		return false
	}
	return peek.time > *end
}

func (k *Kernel) finishShutdown() {
	k.shutdownOnce.Do(func() {
		k.endRequested.Store(true)
		k.liveMu.Lock()
		if k.simEnd == nil {
			end := k.Now()
			k.simEnd = &end
		}
		k.liveMu.Unlock()

		// Every continuation releaseAllParked wakes belongs to a
		// goroutine that will, after observing SimulationEnded (and
		// failing fast on any further kernel call, since endRequested
		// is now set and the current-event slot stays nil), return
		// from its original Invoke and report exactly one more
		// turnFinished on turnResult. RunLoop itself has already
		// stopped reading that channel, so something must drain these
		// or every such goroutine leaks forever blocked on the send.
		go func() {
			for range k.turnResult {
			}
		}()

		k.releaseAllParked()

		k.liveMu.Lock()
		simEnd := *k.simEnd
		k.liveMu.Unlock()
		k.logSimEnd(k.stats.totalEvents.Load(), simEnd)
	})
}

// runTurn dispatches one turn of the loop: either a fresh Invoke call
// (e.target != nil) or the resumption of a previously parked
// continuation (e.resume != nil). Exactly one of these is set per §3.
// It blocks until the goroutine running this turn either finishes or
// parks again, guaranteeing only one event body is ever live at a time.
func (k *Kernel) runTurn(e *Event) turnOutcome {
	// total_events/spectrum count entity invocations (§4.4 step 2), not
	// the "resume" turns this implementation uses internally to wake a
	// parked continuation — those carry no target and are bookkeeping,
	// not a dispatch of any entity method.
	if e.target != nil {
		if k.cfg.trackSpectrum {
			k.stats.recordDispatch(e.target.Signature(e.ordinal))
		} else {
			k.stats.totalEvents.Add(1)
		}
	}
	k.logDispatch(e)

	if e.resume != nil {
		// The parked goroutine already carries the ambient binding it
		// was given when first dispatched via invokeAndWait; resuming
		// it is just a channel send, no new goroutine needed.
		return k.resumeAndWait(e.resume.cont, e.resume.value, e.resume.err)
	}

	return k.invokeAndWait(e.target, e.ordinal, e.args, e.continuation)
}

// invokeAndWait spawns a fresh goroutine to run target.Invoke and waits
// for it to either finish or park. owner is the continuation (if any)
// to complete once this goroutine's Invoke call ultimately returns, no
// matter how many further parks/resumes it passes through first; see
// turnOutcome's doc comment.
func (k *Kernel) invokeAndWait(target Invoker, ordinal uint32, args []Value, owner *Continuation) turnOutcome {
	go func() {
		SetController(k)
		defer SetController(nil)
		v, err := safeInvoke(target, ordinal, args)
		k.turnResult <- turnOutcome{kind: turnFinished, value: v, err: err, owner: owner}
	}()
	return <-k.turnResult
}

// resumeAndWait delivers (value, err) into a parked continuation,
// unblocking the goroutine that called Continuation.park, and waits for
// it to either finish its invocation or park again. Goes through
// Continuation's own complete/completeError so the Fresh/Parked/
// Completed state machine sees every completion uniformly, whether it
// came from a normal wake, Cancel, or shutdown.
func (k *Kernel) resumeAndWait(cont *Continuation, value Value, err error) turnOutcome {
	if err != nil {
		_ = cont.completeError(err)
	} else {
		_ = cont.complete(value)
	}
	return <-k.turnResult
}

// completeTurn handles the outcome of a finished turn. outcome.owner is
// the continuation whose original caller must be woken, set when the
// goroutine now finishing was first spawned (it was itself a
// post_continuing callee) — not
// necessarily the continuation attached to e, the Event that happened
// to be dispatched in this particular loop iteration (e may be a
// "resume" event several hops downstream of the original dispatch; see
// turnOutcome's doc comment). If owner is nil this is a top-level,
// fire-and-forget invocation: a non-nil error becomes a fatal
// simulation error (§7 kind 2) returned to RunLoop's caller. Otherwise
// the wake is deferred to a freshly re-posted "resume" event at the
// current time rather than delivered inline, preserving FIFO with any
// events posted at this instant (§4.4 step 5).
func (k *Kernel) completeTurn(e *Event, outcome turnOutcome) error {
	if outcome.owner == nil {
		if outcome.err != nil {
			sig := ""
			if e.target != nil {
				sig = e.target.Signature(e.ordinal)
			}
			return newUserError("kernel", "invoke", k.Now(), sig, outcome.err)
		}
		return nil
	}

	sig := outcome.owner.signature
	if outcome.err != nil {
		k.logContinuationError(sig, outcome.err)
	}

	resumeEvt := &Event{
		handle: k.nextEventHandle(),
		time:   k.Now(),
		seq:    k.nextSeq(),
		resume: &resumeSignal{cont: outcome.owner, value: outcome.value, err: outcome.err},
	}
	k.queue.insert(resumeEvt)
	return nil
}

// safeInvoke recovers a panicking Invoke into a KindPlatform error
// rather than crashing the whole loop goroutine (§7 kind 5, "platform
// error... propagate; no recovery policy at this layer" — recovery here
// is limited to turning a panic into a propagatable error rather than
// silently swallowing it).
func safeInvoke(target Invoker, ordinal uint32, args []Value) (v Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = &KernelError{Kind: KindPlatform, Component: "entity", Action: "invoke", Cause: e}
			} else {
				err = &KernelError{Kind: KindPlatform, Component: "entity", Action: "invoke", Cause: newPanicError(r)}
			}
		}
	}()
	return target.Invoke(ordinal, args)
}
