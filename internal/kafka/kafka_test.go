package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	msgs chan kafka.Message

	mu        sync.Mutex
	committed []int64
	closed    bool
}

func newFakeReader(msgs ...kafka.Message) *fakeReader {
	r := &fakeReader{msgs: make(chan kafka.Message, len(msgs))}
	for _, m := range msgs {
		r.msgs <- m
	}
	return r
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case m := <-r.msgs:
		return m, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *fakeReader) commits() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.committed...)
}

func testConsumer(r reader) *Consumer {
	return &Consumer{
		r:       r,
		workers: 4,
		backoff: func() backoff.BackOff { return backoff.NewConstantBackOff(time.Millisecond) },
	}
}

func run(ctx context.Context, c *Consumer, h Handler) <-chan error {
	done := make(chan error, 1)
	go func() { done <- c.Start(ctx, h) }()
	return done
}

func TestConsumerRetriesBeforeCommitting(t *testing.T) {
	r := newFakeReader(
		kafka.Message{Topic: "aesthetx.order.placed", Partition: 0, Offset: 10},
		kafka.Message{Topic: "aesthetx.order.placed", Partition: 0, Offset: 11},
	)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	attempts := map[int64]int{}
	var handled []int64
	done := run(ctx, testConsumer(r), func(_ context.Context, m kafka.Message) error {
		mu.Lock()
		defer mu.Unlock()
		attempts[m.Offset]++
		if m.Offset == 10 && attempts[m.Offset] < 3 {
			return errors.New("email service returned 503")
		}
		handled = append(handled, m.Offset)
		return nil
	})

	require.Eventually(t, func() bool { return len(r.commits()) == 2 }, time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	assert.Equal(t, []int64{10, 11}, r.commits())
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 3, attempts[10])
	assert.Equal(t, []int64{10, 11}, handled, "a partition is handled in offset order")
	assert.True(t, r.closed)
}

func TestConsumerLeavesFailingMessageUncommittedOnShutdown(t *testing.T) {
	r := newFakeReader(
		kafka.Message{Topic: "aesthetx.user.signed_up", Partition: 1, Offset: 3},
		kafka.Message{Topic: "aesthetx.user.signed_up", Partition: 1, Offset: 4},
	)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	calls := map[int64]int{}
	done := run(ctx, testConsumer(r), func(_ context.Context, m kafka.Message) error {
		mu.Lock()
		defer mu.Unlock()
		calls[m.Offset]++
		if m.Offset == 3 {
			if calls[m.Offset] == 5 {
				cancel()
			}
			return errors.New("email service unreachable")
		}
		return nil
	})

	require.NoError(t, <-done)
	assert.Empty(t, r.commits())
	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, calls[4], "later offsets wait for the failing one")
}

func TestConsumerLanesFollowPartitions(t *testing.T) {
	c := testConsumer(nil)
	m := kafka.Message{Topic: "aesthetx.order.placed", Partition: 2}
	assert.Equal(t, c.lane(m), c.lane(kafka.Message{Topic: "aesthetx.order.placed", Partition: 2, Offset: 99}))
	for p := 0; p < 16; p++ {
		lane := c.lane(kafka.Message{Topic: "aesthetx.order.placed", Partition: p})
		assert.GreaterOrEqual(t, lane, 0)
		assert.Less(t, lane, 4)
	}
}

type fakeWriter struct {
	mu      sync.Mutex
	written []string
	closed  bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, m := range msgs {
		w.written = append(w.written, string(m.Key))
	}
	return nil
}

func (w *fakeWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func TestProducerCloseFlushesQueue(t *testing.T) {
	w := &fakeWriter{}
	p := &Producer{w: w, inbox: make(chan kafka.Message, 8), closeCh: make(chan struct{})}
	p.Start()

	ctx := context.Background()
	for _, key := range []string{"a", "b", "c"} {
		require.NoError(t, p.Publish(ctx, "aesthetx.order.placed", []byte(key), []byte(`{}`)))
	}
	p.Close()

	assert.Equal(t, []string{"a", "b", "c"}, w.written)
	assert.True(t, w.closed)
	assert.ErrorIs(t, p.Publish(ctx, "aesthetx.order.placed", []byte("d"), nil), ErrProducerClosed)
}

func TestMarshalAndUnwrapPayload(t *testing.T) {
	b, err := Marshal(map[string]int{"quantity": 2})
	require.NoError(t, err)

	got, err := UnwrapPayload[struct {
		Quantity int `json:"quantity"`
	}](b)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Quantity)

	_, err = UnwrapPayload[int](b)
	assert.Error(t, err)
}
