package primemover

// logDispatch emits one debug-level line per extracted event, grounded
// on the logiface chain-builder idiom (logger.Debug().Str(...).Log(...))
// used throughout the stumpy/logiface-testsuite examples. A nil logger
// is a no-op: logging is opt-in and never required for correctness.
func (k *Kernel) logDispatch(e *Event) {
	if k.cfg.logger == nil {
		return
	}
	sig := "-"
	if e.target != nil {
		sig = e.target.Signature(e.ordinal)
	} else if e.resume != nil {
		sig = "resume:" + e.resume.cont.signature
	}
	k.cfg.logger.Debug().
		Str("signature", sig).
		Int64("time", int64(e.time)).
		Uint64("seq", uint64(e.seq)).
		Log("dispatch")
}

// logContinuationError emits an error-level line when a continuation is
// completed with an error (§7 kind 2: the error is about to be
// re-raised in the blocked caller's own frame).
func (k *Kernel) logContinuationError(signature string, err error) {
	if k.cfg.logger == nil {
		return
	}
	k.cfg.logger.Err().
		Err(err).
		Str("signature", signature).
		Log("continuation completed with error")
}

// logSimEnd emits an info-level line when the loop exits, carrying the
// final tallies (§5, §9: state a non-event thread would otherwise need
// Snapshot for) so a log consumer doesn't have to correlate a separate
// Snapshot call with the shutdown line.
func (k *Kernel) logSimEnd(totalEvents uint64, simEnd T) {
	if k.cfg.logger == nil {
		return
	}
	k.cfg.logger.Info().
		Str("signature", "-").
		Uint64("total_events", totalEvents).
		Int64("sim_end", int64(simEnd)).
		Log("simulation ended")
}
