package stream

import (
	"sync/atomic"

	"github.com/dd0wney/keygraph/pkg/layout"
	"github.com/dd0wney/keygraph/pkg/logging"
	"github.com/dd0wney/keygraph/pkg/metrics"
)

// Broadcaster turns layout snapshots into numbered frames and delivers
// them to the in-process bus and the socket publisher
type Broadcaster struct {
	codec *Codec
	bus   *Bus
	pub   Publisher
	log   logging.Logger
	met   *metrics.Registry
	seq   atomic.Uint64
}

// BroadcasterOption configures a broadcaster
type BroadcasterOption func(*Broadcaster)

// WithLogger replaces the default logger
func WithLogger(l logging.Logger) BroadcasterOption {
	return func(b *Broadcaster) {
		if l != nil {
			b.log = l
		}
	}
}

// WithMetrics attaches a metrics registry
func WithMetrics(m *metrics.Registry) BroadcasterOption {
	return func(b *Broadcaster) { b.met = m }
}

// NewBroadcaster wires a bus and a publisher behind one entry point.
// Either may be nil when that delivery path is unused.
func NewBroadcaster(bus *Bus, pub Publisher, opts ...BroadcasterOption) *Broadcaster {
	b := &Broadcaster{
		codec: NewCodec(),
		bus:   bus,
		pub:   pub,
		log:   logging.DefaultLogger(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Broadcast publishes one snapshot: the bus gets the decoded frame,
// the socket publisher gets the encoded envelope
func (b *Broadcaster) Broadcast(sessionID string, snap layout.Snapshot) error {
	frame := FromSnapshot(sessionID, b.seq.Add(1), snap)

	if b.bus != nil {
		b.bus.Publish(frame)
		if b.met != nil {
			b.met.StreamSubscribers.Set(float64(b.bus.SubscriberCount()))
		}
	}

	if b.pub == nil {
		return nil
	}
	if _, isNop := b.pub.(NopPublisher); isNop && b.bus != nil {
		// Nothing downstream wants the encoded form
		return nil
	}

	encoded, err := b.codec.Encode(frame)
	if err != nil {
		b.log.Error("Frame encoding failed", logging.Error(err))
		return err
	}
	if err := b.pub.Publish(encoded.Data); err != nil {
		b.log.Error("Frame publish failed",
			logging.String("transport", b.pub.Name()),
			logging.Error(err),
		)
		return err
	}
	if b.met != nil {
		b.met.RecordFrame(b.pub.Name(), encoded.RawSize, len(encoded.Data))
	}
	return nil
}

// Sequence returns the last assigned frame sequence number
func (b *Broadcaster) Sequence() uint64 {
	return b.seq.Load()
}

// CodecStats exposes the envelope compression statistics
func (b *Broadcaster) CodecStats() CodecStats {
	return b.codec.Stats()
}
