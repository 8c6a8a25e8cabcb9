package kafka

import (
	"context"
	"hash/fnv"
	"log"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/segmentio/kafka-go"
)

// Handler must return nil only when the message was processed and its
// offset may be committed.
type Handler func(ctx context.Context, m kafka.Message) error

// reader is the part of *kafka.Reader the consumer uses.
type reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Consumer struct {
	r       reader
	workers int
	backoff func() backoff.BackOff
}

func NewConsumer(brokers []string, group string, topics []string, workers int) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		GroupID:        group,
		GroupTopics:    topics,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: 0, // manual commit
	})
	if workers <= 0 {
		workers = 1
	}
	return &Consumer{r: r, workers: workers, backoff: retryBackOff}
}

// retryBackOff never gives up; only shutdown stops a retry loop.
func retryBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = 30 * time.Second
	b.MaxElapsedTime = 0
	return b
}

// Start fetches messages until ctx is cancelled. Every partition is bound to
// one worker, which handles its messages in offset order and retries a
// failing message until it succeeds, so a commit never moves past an
// unprocessed message.
func (c *Consumer) Start(ctx context.Context, h Handler) error {
	defer c.r.Close()

	lanes := make([]chan kafka.Message, c.workers)
	var wg sync.WaitGroup
	for i := range lanes {
		lanes[i] = make(chan kafka.Message, 64)
		wg.Add(1)
		go func(in <-chan kafka.Message) {
			defer wg.Done()
			for m := range in {
				if ctx.Err() != nil {
					continue
				}
				c.process(ctx, h, m)
			}
		}(lanes[i])
	}
	defer func() {
		for _, lane := range lanes {
			close(lane)
		}
		wg.Wait()
	}()

	for {
		m, err := c.r.FetchMessage(ctx)
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return err
			}
		}
		select {
		case lanes[c.lane(m)] <- m:
		case <-ctx.Done():
			return nil
		}
	}
}

// process handles m, retrying with backoff, and commits it once handled.
// A message interrupted by shutdown stays uncommitted.
func (c *Consumer) process(ctx context.Context, h Handler, m kafka.Message) {
	op := func() error { return h(ctx, m) }
	notify := func(err error, wait time.Duration) {
		log.Printf("⚠️ %s/%d@%d failed, retrying in %s: %v", m.Topic, m.Partition, m.Offset, wait, err)
	}
	if err := backoff.RetryNotify(op, backoff.WithContext(c.backoff(), ctx), notify); err != nil {
		log.Printf("%s/%d@%d left uncommitted: %v", m.Topic, m.Partition, m.Offset, err)
		return
	}
	if err := c.r.CommitMessages(ctx, m); err != nil {
		log.Printf("commit %s/%d@%d: %v", m.Topic, m.Partition, m.Offset, err)
	}
}

func (c *Consumer) lane(m kafka.Message) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(m.Topic))
	return int((h.Sum32() + uint32(m.Partition)) % uint32(c.workers))
}
