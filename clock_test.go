package primemover

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestT_Ordering(t *testing.T) {
	assert.True(t, T(1) < T(2))
	assert.True(t, T(-1) < T(0))
}

func TestQ_MonotonicAssignment(t *testing.T) {
	k, err := New()
	assert.NoError(t, err)

	var seqs []Q
	for i := 0; i < 5; i++ {
		seqs = append(seqs, k.nextSeq())
	}
	for i := 1; i < len(seqs); i++ {
		assert.Less(t, seqs[i-1], seqs[i])
	}
}
