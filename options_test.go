package primemover

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveConfig_AppliesEachOptionInOrder(t *testing.T) {
	c, err := resolveConfig([]Option{
		WithTrackSpectrum(false),
		WithTrackEventSources(true),
		WithDebugEvents(true),
		WithEndTime(100),
	})
	require.NoError(t, err)
	assert.False(t, c.trackSpectrum)
	assert.True(t, c.trackEventSources)
	assert.True(t, c.debugEvents)
	require.NotNil(t, c.endTime)
	assert.Equal(t, T(100), *c.endTime)
}

func TestResolveConfig_NegativeEndTimeIsRejected(t *testing.T) {
	_, err := resolveConfig([]Option{WithEndTime(-1)})
	require.Error(t, err)
	var kerr *KernelError
	require.ErrorAs(t, err, &kerr)
	assert.Equal(t, KindArgument, kerr.Kind)
}

// TestResolveConfig_AggregatesAllOptionErrors exercises the AggregateError
// path: two independently-failing options both show up in Errors, not just
// the first one encountered.
func TestResolveConfig_AggregatesAllOptionErrors(t *testing.T) {
	badOption := optionFunc(func(*config) error { return errors.New("bad option") })

	_, err := resolveConfig([]Option{
		WithEndTime(-5),
		badOption,
	})
	require.Error(t, err)

	var agg *AggregateError
	require.ErrorAs(t, err, &agg)
	require.Len(t, agg.Errors, 2)

	var kerr *KernelError
	assert.ErrorAs(t, agg.Errors[0], &kerr)
	assert.EqualError(t, agg.Errors[1], "bad option")
}

func TestNew_PropagatesAggregateErrorFromBadOptions(t *testing.T) {
	_, err := New(WithEndTime(-1), WithEndTime(-2))
	require.Error(t, err)
	var agg *AggregateError
	require.ErrorAs(t, err, &agg)
	assert.Len(t, agg.Errors, 2)
}
