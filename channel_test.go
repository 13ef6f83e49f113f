package primemover

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// channelConsumer blockingly takes one value from ch and records it,
// along with the current time observed at the moment Take returns.
type channelConsumer struct {
	ch     *Channel[string]
	result chan string
	times  chan T
}

func (c *channelConsumer) Signature(uint32) string { return "consumer.take" }

func (c *channelConsumer) Invoke(uint32, []Value) (Value, error) {
	k := GetController()
	v, err := c.ch.Take()
	if err != nil {
		return nil, err
	}
	c.result <- v
	c.times <- k.Now()
	return nil, nil
}

// channelProducer sleeps dt then puts v on ch.
type channelProducer struct {
	ch *Channel[string]
	dt T
	v  string
}

func (p *channelProducer) Signature(uint32) string { return "producer.put" }

func (p *channelProducer) Invoke(uint32, []Value) (Value, error) {
	k := GetController()
	if err := k.Sleep(p.dt); err != nil {
		return nil, err
	}
	return nil, p.ch.Put(p.v)
}

// TestChannel_RendezvousRecordsProducerArrivalTime is scenario 4: the
// consumer's take() parks at time 0 until the producer arrives at time
// 50, and observes current_time() == 50 at the moment it resumes.
func TestChannel_RendezvousRecordsProducerArrivalTime(t *testing.T) {
	k, err := New()
	require.NoError(t, err)

	ch := NewChannel[string](k)
	consumer := &channelConsumer{ch: ch, result: make(chan string, 1), times: make(chan T, 1)}
	producer := &channelProducer{ch: ch, dt: 50, v: "x"}

	_, err = k.PostEvent(consumer, 0, nil)
	require.NoError(t, err)
	_, err = k.PostEvent(producer, 0, nil)
	require.NoError(t, err)

	require.NoError(t, k.RunLoop())

	assert.Equal(t, "x", <-consumer.result)
	assert.Equal(t, T(50), <-consumer.times)
}

// TestChannel_PutThenTakeMatchesOnArrival verifies the second arrival
// at a rendezvous never parks: it completes the match inline and lets
// the kernel wake the other side on a freshly scheduled turn.
func TestChannel_PutThenTakeMatchesOnArrival(t *testing.T) {
	k, err := New()
	require.NoError(t, err)
	ch := NewChannel[string](k)

	// Producer arrives first this time, with nobody waiting.
	producer := &channelProducer{ch: ch, dt: 0, v: "early"}
	consumer := &channelConsumer{ch: ch, result: make(chan string, 1), times: make(chan T, 1)}

	_, err = k.PostEvent(producer, 0, nil)
	require.NoError(t, err)
	_, err = k.PostEventAt(5, consumer, 0, nil)
	require.NoError(t, err)

	require.NoError(t, k.RunLoop())

	assert.Equal(t, "early", <-consumer.result)
	assert.Equal(t, T(5), <-consumer.times)
}
