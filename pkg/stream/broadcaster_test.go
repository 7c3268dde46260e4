package stream

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dd0wney/keygraph/pkg/layout"
	"github.com/dd0wney/keygraph/pkg/logging"
)

// capturePublisher records published envelopes for inspection
type capturePublisher struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (c *capturePublisher) Name() string { return "capture" }

func (c *capturePublisher) Publish(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	c.payloads = append(c.payloads, buf)
	return nil
}

func (c *capturePublisher) Close() error { return nil }

func (c *capturePublisher) published() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.payloads
}

func testSnapshot(tick int) layout.Snapshot {
	return layout.Snapshot{
		Phase:   "running",
		Alpha:   0.5,
		Tick:    tick,
		Variant: "standard",
		Width:   800,
		Height:  600,
		Nodes: []layout.NodeSnapshot{
			{ID: "graph", Count: 12, Community: 0, X: 100, Y: 200, Radius: 25},
			{ID: "layout", Count: 4, Community: 1, X: 300, Y: 150, Radius: 9, Pinned: true},
		},
	}
}

func TestBroadcastDeliversToBus(t *testing.T) {
	bus := NewBus()
	defer bus.Shutdown()
	bc := NewBroadcaster(bus, NopPublisher{}, WithLogger(logging.NewNopLogger()))

	sub, err := bus.Subscribe(context.Background())
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	defer sub.Unsubscribe()

	for tick := 1; tick <= 3; tick++ {
		if err := bc.Broadcast("session-1", testSnapshot(tick)); err != nil {
			t.Fatalf("Broadcast %d failed: %v", tick, err)
		}
	}

	for want := uint64(1); want <= 3; want++ {
		select {
		case f := <-sub.Frames():
			if f.SessionID != "session-1" {
				t.Errorf("Frame session = %q, want session-1", f.SessionID)
			}
			if f.Sequence != want {
				t.Errorf("Frame sequence = %d, want %d", f.Sequence, want)
			}
			if len(f.Nodes) != 2 {
				t.Fatalf("Frame has %d nodes, want 2", len(f.Nodes))
			}
			if f.Nodes[1].ID != "layout" || !f.Nodes[1].Pinned {
				t.Errorf("Node snapshot not carried over: %+v", f.Nodes[1])
			}
		case <-time.After(1 * time.Second):
			t.Fatalf("Timed out waiting for frame %d", want)
		}
	}

	if seq := bc.Sequence(); seq != 3 {
		t.Errorf("Sequence = %d, want 3", seq)
	}
}

func TestBroadcastSkipsEncodingWithoutTransport(t *testing.T) {
	bus := NewBus()
	defer bus.Shutdown()
	bc := NewBroadcaster(bus, NopPublisher{}, WithLogger(logging.NewNopLogger()))

	if err := bc.Broadcast("session-1", testSnapshot(1)); err != nil {
		t.Fatalf("Broadcast failed: %v", err)
	}

	if stats := bc.CodecStats(); stats.FramesEncoded != 0 {
		t.Errorf("FramesEncoded = %d, want 0 when only the in-process bus listens",
			stats.FramesEncoded)
	}
}

func TestBroadcastEncodesForSocketTransport(t *testing.T) {
	capture := &capturePublisher{}
	bc := NewBroadcaster(NewBus(), capture, WithLogger(logging.NewNopLogger()))

	if err := bc.Broadcast("session-2", testSnapshot(5)); err != nil {
		t.Fatalf("Broadcast failed: %v", err)
	}

	payloads := capture.published()
	if len(payloads) != 1 {
		t.Fatalf("Published %d envelopes, want 1", len(payloads))
	}

	frame, err := NewCodec().Decode(payloads[0])
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if frame.SessionID != "session-2" || frame.Sequence != 1 || frame.Tick != 5 {
		t.Errorf("Decoded frame = %+v", frame)
	}

	if stats := bc.CodecStats(); stats.FramesEncoded != 1 {
		t.Errorf("FramesEncoded = %d, want 1", stats.FramesEncoded)
	}
}

func TestBroadcastWithoutBus(t *testing.T) {
	capture := &capturePublisher{}
	bc := NewBroadcaster(nil, capture, WithLogger(logging.NewNopLogger()))

	if err := bc.Broadcast("session-3", testSnapshot(1)); err != nil {
		t.Fatalf("Broadcast failed: %v", err)
	}
	if len(capture.published()) != 1 {
		t.Error("Socket transport should still receive frames without a bus")
	}
}
