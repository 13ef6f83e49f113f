package primemover

import (
	"errors"
	"fmt"
)

// SimulationEnded is the control-flow termination error (§7 kind 1):
// it is raised into any continuation still parked when the loop shuts
// down, so that every parked task is released rather than leaked. It is
// never wrapped further and the loop treats it as non-fatal when it
// originates from shutdown.
var SimulationEnded = errors.New("primemover: simulation ended")

// Cancelled is raised into a continuation whose scheduled event was
// removed from the queue before it ran (§5 per-event cancellation).
var Cancelled = errors.New("primemover: event cancelled")

// Kind classifies a [KernelError] per the taxonomy in §7.
type Kind int

const (
	// KindUser wraps an error raised by an entity's Invoke method.
	KindUser Kind = iota
	// KindInvariant marks a kernel invariant violation: a programming
	// bug such as calling BlockingSleep outside of an event, or
	// completing a continuation twice.
	KindInvariant
	// KindArgument marks an argument-validation failure: negative
	// delays, scheduling in the past, unknown ordinals.
	KindArgument
	// KindPlatform marks a platform-level failure with no recovery
	// policy at the kernel layer.
	KindPlatform
)

func (k Kind) String() string {
	switch k {
	case KindUser:
		return "user"
	case KindInvariant:
		return "invariant"
	case KindArgument:
		return "argument"
	case KindPlatform:
		return "platform"
	default:
		return "unknown"
	}
}

// KernelError is the typed error the kernel raises for everything except
// [SimulationEnded] and [Cancelled]. It carries enough context to satisfy
// §7's required format: "[component] action failed at time T for
// signature S: cause".
type KernelError struct {
	Kind      Kind
	Component string
	Action    string
	Time      T
	Signature string
	Cause     error
}

func (e *KernelError) Error() string {
	sig := e.Signature
	if sig == "" {
		sig = "-"
	}
	return fmt.Sprintf("[%s] %s failed at time %d for signature %s: %v",
		e.Component, e.Action, int64(e.Time), sig, e.Cause)
}

func (e *KernelError) Unwrap() error { return e.Cause }

func newInvariantError(component, action string, now T, cause error) error {
	return &KernelError{Kind: KindInvariant, Component: component, Action: action, Time: now, Cause: cause}
}

func newArgumentError(component, action string, now T, cause error) error {
	return &KernelError{Kind: KindArgument, Component: component, Action: action, Time: now, Cause: cause}
}

func newUserError(component, action string, now T, signature string, cause error) error {
	return &KernelError{Kind: KindUser, Component: component, Action: action, Time: now, Signature: signature, Cause: cause}
}

// panicError wraps a non-error panic value so a recovered panic still
// carries a cause through KernelError.Unwrap, mirroring eventloop's
// PanicError.Unwrap handling of non-error panic values.
type panicError struct{ value any }

func newPanicError(v any) error { return &panicError{value: v} }

func (e *panicError) Error() string { return fmt.Sprintf("panic: %v", e.value) }

// Causes wrapped by the constructors above into a KernelError (§7 kinds
// 3/4): these are never returned bare, always via newInvariantError /
// newArgumentError, so that callers see consistent [component] action
// failed at time T for signature S: cause formatting.
var (
	errPastSchedule    = errors.New("scheduled time precedes current time")
	errPostShutdown    = errors.New("scheduling rejected: simulation has ended")
	errNoCurrentEvent  = errors.New("no current event: must be called from within an event body")
	errNegativeDelay   = errors.New("delay must be >= 0")
	errDuringEvent     = errors.New("advance may only be called outside of event execution")
	errNegativeEndTime = errors.New("end time must be >= 0")
)

// AggregateError collects every error produced while applying a batch of
// independent operations (here, the [Option] values passed to [New]) so
// a caller sees all validation failures at once rather than only the
// first, grounded on eventloop's AggregateError (itself modeled on
// ES2022's AggregateError). Unwrap exposes the full slice for Go 1.20+
// multi-error matching via [errors.Is]/[errors.As].
type AggregateError struct {
	Message string
	Errors  []error
}

func (e *AggregateError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "multiple errors occurred"
	}
	return fmt.Sprintf("%s: %v", msg, e.Errors)
}

// AggregateErrorCause returns the first error in Errors, if any, for
// callers that only want a single representative cause.
func (e *AggregateError) AggregateErrorCause() error {
	if len(e.Errors) > 0 {
		return e.Errors[0]
	}
	return nil
}

// Unwrap returns the wrapped errors for Go 1.20+ multi-error unwrapping,
// so errors.Is/errors.As see every error in the aggregate.
func (e *AggregateError) Unwrap() []error { return e.Errors }

// Is reports whether target is itself an *AggregateError, so
// errors.Is(err, new(AggregateError)) style probes succeed regardless
// of contents; per-error matching is handled by Unwrap.
func (e *AggregateError) Is(target error) bool {
	var other *AggregateError
	return errors.As(target, &other)
}
