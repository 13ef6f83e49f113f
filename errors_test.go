package primemover

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKernelError_FormatsPerSpec(t *testing.T) {
	cause := errors.New("boom")
	e := &KernelError{Kind: KindUser, Component: "kernel", Action: "invoke", Time: 7, Signature: "Bank.deposit", Cause: cause}
	assert.Equal(t, "[kernel] invoke failed at time 7 for signature Bank.deposit: boom", e.Error())
}

func TestKernelError_MissingSignatureUsesPlaceholder(t *testing.T) {
	e := &KernelError{Kind: KindArgument, Component: "kernel", Action: "sleep", Time: 0, Cause: errNegativeDelay}
	assert.Contains(t, e.Error(), "for signature -:")
}

func TestKernelError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	e := &KernelError{Cause: cause}
	assert.ErrorIs(t, e, cause)
	assert.Same(t, cause, errors.Unwrap(e))
}

func TestKind_String(t *testing.T) {
	cases := map[Kind]string{
		KindUser:      "user",
		KindInvariant: "invariant",
		KindArgument:  "argument",
		KindPlatform:  "platform",
		Kind(99):      "unknown",
	}
	for k, want := range cases {
		assert.Equal(t, want, k.String())
	}
}

func TestPanicError_WrapsNonErrorPanicValue(t *testing.T) {
	err := newPanicError("ouch")
	assert.EqualError(t, err, "panic: ouch")
}

func TestSentinels_AreDistinctAndStable(t *testing.T) {
	assert.NotErrorIs(t, SimulationEnded, Cancelled)
	assert.NotErrorIs(t, Cancelled, SimulationEnded)
}

func TestAggregateError_UnwrapExposesAllErrors(t *testing.T) {
	e1 := errors.New("first")
	e2 := errors.New("second")
	agg := &AggregateError{Message: "bad options", Errors: []error{e1, e2}}

	assert.ErrorIs(t, agg, e1)
	assert.ErrorIs(t, agg, e2)
	assert.Equal(t, e1, agg.AggregateErrorCause())
	assert.Contains(t, agg.Error(), "bad options")
}

func TestAggregateError_IsMatchesAggregateErrorType(t *testing.T) {
	agg := &AggregateError{Errors: []error{errNegativeDelay}}
	assert.True(t, agg.Is(&AggregateError{}))
	assert.False(t, agg.Is(errNegativeDelay))
}
