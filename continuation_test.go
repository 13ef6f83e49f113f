package primemover

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContinuation_CompleteDeliversValue(t *testing.T) {
	c := newContinuation("test")
	done := make(chan struct{})
	var v Value
	var err error
	go func() {
		v, err = c.park()
		close(done)
	}()

	require.NoError(t, c.complete(42))
	<-done
	assert.Equal(t, 42, v)
	assert.NoError(t, err)
}

func TestContinuation_CompleteErrorDeliversError(t *testing.T) {
	c := newContinuation("test")
	done := make(chan struct{})
	var err error
	go func() {
		_, err = c.park()
		close(done)
	}()

	want := Cancelled
	require.NoError(t, c.completeError(want))
	<-done
	assert.ErrorIs(t, err, want)
}

func TestContinuation_DoubleCompleteIsInvariantViolation(t *testing.T) {
	c := newContinuation("test")
	require.NoError(t, c.complete(1))
	err := c.complete(2)
	require.Error(t, err)
	var kerr *KernelError
	require.ErrorAs(t, err, &kerr)
	assert.Equal(t, KindInvariant, kerr.Kind)
}
