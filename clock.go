package primemover

// T is logical simulation time: a 64-bit signed integer, monotonically
// non-decreasing over the life of a run. Units are user-defined. Negative
// values are never valid scheduling targets.
type T int64

// Q is the tie-break sequence number assigned to an event at post time.
// It is monotonically increasing for the life of a run and never reused.
type Q uint64

// Value is a boxed argument or result value passed across the entity
// dispatch contract. It carries no constraints of its own; entities are
// free to assert it to whatever concrete type their ordinal expects.
type Value = any
