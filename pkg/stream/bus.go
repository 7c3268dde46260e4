package stream

import (
	"context"
	"errors"
	"sync"
)

// subscriptionBuffer is how many frames a slow subscriber may lag
// before new frames are dropped for it
const subscriptionBuffer = 100

// ErrBusClosed is returned by Subscribe after Shutdown
var ErrBusClosed = errors.New("stream: bus closed")

// Bus fans frames out to in-process subscribers. Publish never blocks:
// a subscriber that cannot keep up loses frames, not the publisher.
type Bus struct {
	subscribers map[*Subscription]bool
	mu          sync.RWMutex
	shutdown    chan struct{}
	shutdownMu  sync.Mutex
	isShutdown  bool
	dropped     uint64
}

// Subscription is one receiver attached to the bus
type Subscription struct {
	channel   chan Frame
	bus       *Bus
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once // Ensures channel is only closed once
}

// NewBus creates an empty frame bus
func NewBus() *Bus {
	return &Bus{
		subscribers: make(map[*Subscription]bool),
		shutdown:    make(chan struct{}),
	}
}

// Subscribe attaches a new receiver. The subscription ends when the
// context is cancelled, Unsubscribe is called, or the bus shuts down.
func (b *Bus) Subscribe(ctx context.Context) (*Subscription, error) {
	b.shutdownMu.Lock()
	if b.isShutdown {
		b.shutdownMu.Unlock()
		return nil, ErrBusClosed
	}
	b.shutdownMu.Unlock()

	subCtx, cancel := context.WithCancel(ctx)
	sub := &Subscription{
		channel: make(chan Frame, subscriptionBuffer),
		bus:     b,
		ctx:     subCtx,
		cancel:  cancel,
	}

	b.mu.Lock()
	b.subscribers[sub] = true
	b.mu.Unlock()

	// Monitor context cancellation
	go func() {
		select {
		case <-subCtx.Done():
			sub.Unsubscribe()
		case <-b.shutdown:
			sub.close()
		}
	}()

	return sub, nil
}

// Publish sends a frame to all subscribers. Takes a snapshot copy of
// the subscriber set so sends happen outside the lock, and skips full
// channels instead of blocking.
func (b *Bus) Publish(f Frame) {
	b.shutdownMu.Lock()
	if b.isShutdown {
		b.shutdownMu.Unlock()
		return
	}
	b.shutdownMu.Unlock()

	b.mu.RLock()
	if len(b.subscribers) == 0 {
		b.mu.RUnlock()
		return
	}
	subs := make([]*Subscription, 0, len(b.subscribers))
	for sub := range b.subscribers {
		subs = append(subs, sub)
	}
	b.mu.RUnlock()

	var dropped uint64
	for _, sub := range subs {
		select {
		case sub.channel <- f:
			// Frame sent
		default:
			dropped++
		}
	}

	if dropped > 0 {
		b.mu.Lock()
		b.dropped += dropped
		b.mu.Unlock()
	}
}

// SubscriberCount returns the number of attached subscribers
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Dropped returns how many frames were skipped for full subscribers
func (b *Bus) Dropped() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.dropped
}

// Shutdown closes all subscriptions and rejects new ones
func (b *Bus) Shutdown() {
	b.shutdownMu.Lock()
	if b.isShutdown {
		b.shutdownMu.Unlock()
		return
	}
	b.isShutdown = true
	b.shutdownMu.Unlock()

	close(b.shutdown)

	b.mu.Lock()
	for sub := range b.subscribers {
		sub.close()
		delete(b.subscribers, sub)
	}
	b.mu.Unlock()
}

// Frames returns the subscription's receive channel
func (s *Subscription) Frames() <-chan Frame {
	return s.channel
}

// Unsubscribe detaches the subscription and closes its channel
func (s *Subscription) Unsubscribe() {
	s.cancel()

	s.bus.mu.Lock()
	delete(s.bus.subscribers, s)
	s.bus.mu.Unlock()

	s.close()
}

// close closes the subscription channel safely (idempotent)
func (s *Subscription) close() {
	s.closeOnce.Do(func() {
		close(s.channel)
	})
}
