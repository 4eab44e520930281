package kafka

import (
	"context"
	"sync"
	"time"
)

// Controller is a token bucket that paces consumption. Every tick refills
// the bucket to capacity. A nil *Controller never blocks.
type Controller struct {
	capacity int64

	mu     sync.Mutex
	tokens int64
	cond   *sync.Cond
	closed bool
	stop   chan struct{}
}

// NewController returns nil when rate is not positive.
func NewController(rate int64, tick time.Duration) *Controller {
	if rate <= 0 {
		return nil
	}
	c := &Controller{capacity: rate, tokens: rate, stop: make(chan struct{})}
	c.cond = sync.NewCond(&c.mu)

	go func() {
		t := time.NewTicker(tick)
		defer t.Stop()
		for {
			select {
			case <-c.stop:
				return
			case <-t.C:
				c.mu.Lock()
				c.tokens = c.capacity
				c.mu.Unlock()
				c.cond.Broadcast()
			}
		}
	}()
	return c
}

// Acquire takes one token, waiting for a refill if the bucket is empty.
func (c *Controller) Acquire(ctx context.Context) error {
	if c == nil {
		return nil
	}
	stop := context.AfterFunc(ctx, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.cond.Broadcast()
	})
	defer stop()

	c.mu.Lock()
	defer c.mu.Unlock()
	for c.tokens == 0 && !c.closed && ctx.Err() == nil {
		c.cond.Wait()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.closed {
		return context.Canceled
	}
	c.tokens--
	return nil
}

func (c *Controller) Close() {
	if c == nil {
		return
	}
	c.mu.Lock()
	if !c.closed {
		c.closed = true
		close(c.stop)
	}
	c.mu.Unlock()
	c.cond.Broadcast()
}
