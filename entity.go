package primemover

// Invoker is the entity dispatch contract of §4.3: every entity class
// is augmented, outside the kernel, to satisfy this interface. The
// kernel depends on nothing more than this — it does not interpret the
// bytecode or source of entity methods, and ordinal assignment is
// entirely the caller's concern (hand-written in this implementation,
// per Design Note (iii), since the bytecode/source rewriter that would
// generate it is explicitly out of scope, §1).
type Invoker interface {
	// Invoke executes the body of the method at ordinal with args,
	// returning its result or an error to be propagated per §7.
	Invoke(ordinal uint32, args []Value) (Value, error)

	// Signature returns a human-readable method signature for logs,
	// tracing, and the spectrum map. Stable for a given ordinal.
	Signature(ordinal uint32) string
}

// funcEntity adapts a bare function into an Invoker so that
// Kernel.RunStatic / Kernel.RunStaticAt (§6) can schedule free functions
// as events without requiring every caller to hand-write a dispatch
// table for a single call site. Ordinal is always 0: a funcEntity wraps
// exactly one callable.
type funcEntity struct {
	site string
	fn   func([]Value) (Value, error)
}

func (f *funcEntity) Invoke(ordinal uint32, args []Value) (Value, error) {
	return f.fn(args)
}

func (f *funcEntity) Signature(ordinal uint32) string {
	return f.site
}
