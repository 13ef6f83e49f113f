// Package primemover implements a discrete-event simulation kernel: an
// event queue, a scheduler, a blocking-continuation protocol, and an
// entity-dispatch contract that together make plain imperative Go code
// behave as a time-ordered event simulation.
//
// # Architecture
//
// A [Kernel] owns the event queue, the current logical time, and the
// "current event" slot. User code marks objects as entities by
// implementing [Invoker]; calls against an entity's ordinals become
// [Event] records scheduled in logical time via [Kernel.PostEvent],
// [Kernel.PostEventAt], and [Kernel.PostContinuing]. [Kernel.RunLoop]
// drains the queue in strict (time, sequence) order until it empties,
// an end time is reached, or [Kernel.EndSimulation] is called.
//
// Blocking calls ([Kernel.PostContinuing], [Kernel.Sleep],
// [Kernel.BlockingSleep], [Channel.Put], [Channel.Take]) suspend the
// calling goroutine on a [Continuation] — a one-shot rendezvous — and
// are resumed by a later turn of the same loop, never inline with the
// event that wakes them, so simulated-time ordering is preserved even
// though suspension is implemented with ordinary goroutines rather than
// a bytecode-rewritten continuation-passing transform.
//
// # Concurrency
//
// Exactly one event body executes at a time; this is a hard invariant
// enforced by the loop's single admission discipline, not by a lock
// that user code must acquire. Each event runs in its own goroutine
// solely so that a suspension deep in a call stack parks correctly;
// see [Kernel.RunLoop] for the turn-by-turn protocol.
//
// # Ambient kernel
//
// [SetController] and [GetController] bind the active [Kernel] to the
// calling goroutine; [Kernel.RunLoop] establishes this binding for each
// spawned event-body goroutine automatically, so entity code can reach
// the running kernel without threading it as an argument.
package primemover
