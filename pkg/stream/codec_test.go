package stream

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
)

func sampleFrame(nodes int) Frame {
	f := Frame{
		SessionID: "9f1c9a2e-0000-4e5f-bd3a-demo",
		Sequence:  42,
		Phase:     "running",
		Alpha:     0.73,
		Tick:      18,
		Variant:   "cluster",
	}
	for i := 0; i < nodes; i++ {
		f.Nodes = append(f.Nodes, FrameNode{
			ID:        fmt.Sprintf("keyword-%d", i),
			X:         float64(i) * 10.5,
			Y:         float64(i) * -3.25,
			Community: i % 4,
			Radius:    5 + float64(i%20),
		})
	}
	return f
}

func TestCodecRoundTrip(t *testing.T) {
	c := NewCodec()
	original := sampleFrame(25)

	encoded, err := c.Encode(original)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	decoded, err := c.Decode(encoded.Data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if !reflect.DeepEqual(original, decoded) {
		t.Errorf("Round trip changed the frame:\n got %+v\nwant %+v", decoded, original)
	}
}

func TestCodecCompressesRepetitivePayloads(t *testing.T) {
	c := NewCodec()

	encoded, err := c.Encode(sampleFrame(200))
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	if !encoded.Compressed {
		t.Error("Large frame should be stored compressed")
	}
	if len(encoded.Data) >= encoded.RawSize {
		t.Errorf("Envelope (%d bytes) not smaller than raw payload (%d bytes)",
			len(encoded.Data), encoded.RawSize)
	}
}

func TestCodecEmptyFrame(t *testing.T) {
	c := NewCodec()

	encoded, err := c.Encode(Frame{})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	decoded, err := c.Decode(encoded.Data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if decoded.Sequence != 0 || len(decoded.Nodes) != 0 {
		t.Errorf("Empty frame round trip = %+v", decoded)
	}
}

func TestCodecRejectsBadMagic(t *testing.T) {
	c := NewCodec()
	encoded, _ := c.Encode(sampleFrame(3))

	encoded.Data[0] = 'X'
	if _, err := c.Decode(encoded.Data); !errors.Is(err, ErrBadMagic) {
		t.Errorf("Decode error = %v, want ErrBadMagic", err)
	}
}

func TestCodecRejectsCorruptedPayload(t *testing.T) {
	c := NewCodec()
	encoded, _ := c.Encode(sampleFrame(10))

	// Flip a payload byte; the checksum must catch it
	encoded.Data[envelopeHeaderLen] ^= 0xFF
	if _, err := c.Decode(encoded.Data); !errors.Is(err, ErrChecksum) {
		t.Errorf("Decode error = %v, want ErrChecksum", err)
	}
}

func TestCodecRejectsTruncated(t *testing.T) {
	c := NewCodec()
	encoded, _ := c.Encode(sampleFrame(10))

	if _, err := c.Decode(encoded.Data[:5]); !errors.Is(err, ErrTruncated) {
		t.Errorf("Short buffer error = %v, want ErrTruncated", err)
	}
	if _, err := c.Decode(encoded.Data[:len(encoded.Data)-3]); !errors.Is(err, ErrTruncated) {
		t.Errorf("Cut-off buffer error = %v, want ErrTruncated", err)
	}
}

func TestCodecStats(t *testing.T) {
	c := NewCodec()

	if s := c.Stats(); s.FramesEncoded != 0 || s.CompressionRatio != 0 {
		t.Errorf("Fresh codec stats = %+v", s)
	}

	for i := 0; i < 5; i++ {
		if _, err := c.Encode(sampleFrame(100)); err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
	}

	s := c.Stats()
	if s.FramesEncoded != 5 {
		t.Errorf("FramesEncoded = %d, want 5", s.FramesEncoded)
	}
	if s.BytesRaw == 0 || s.BytesEncoded == 0 {
		t.Error("Byte counters should accumulate")
	}
	if s.BytesEncoded >= s.BytesRaw {
		t.Errorf("Encoded bytes %d not below raw %d", s.BytesEncoded, s.BytesRaw)
	}
	if s.CompressionRatio <= 0 || s.CompressionRatio >= 1 {
		t.Errorf("CompressionRatio = %f, want in (0, 1)", s.CompressionRatio)
	}
}
