package stream

import (
	"fmt"
	"strings"
)

// Publisher pushes encoded frame envelopes to remote subscribers.
// Implementations abstract the underlying socket library (NNG or ZMQ,
// selected by build tag).
type Publisher interface {
	// Name identifies the transport in logs and metrics
	Name() string
	// Publish sends one encoded envelope; lossy transports may drop
	Publish(data []byte) error
	Close() error
}

// NewPublisher selects a transport by address scheme: "nng://host:port"
// binds an NNG PUB socket, "zmq://host:port" a ZMQ PUB socket, and an
// empty address means no socket transport at all.
func NewPublisher(addr string) (Publisher, error) {
	if addr == "" {
		return NopPublisher{}, nil
	}

	scheme, rest, ok := strings.Cut(addr, "://")
	if !ok {
		return nil, fmt.Errorf("stream: publisher address %q has no scheme", addr)
	}

	switch scheme {
	case "nng":
		return newNNGPublisher("tcp://" + rest)
	case "zmq":
		return newZMQPublisher("tcp://" + rest)
	default:
		return nil, fmt.Errorf("stream: unknown publisher scheme %q", scheme)
	}
}

// NopPublisher is the transport used when no address is configured
type NopPublisher struct{}

func (NopPublisher) Name() string              { return "nop" }
func (NopPublisher) Publish(data []byte) error { return nil }
func (NopPublisher) Close() error              { return nil }
