package stream

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"hash/crc32"
	"sync"

	"github.com/golang/snappy"
)

// Envelope format: [Magic:2][Flags:1][DataLen:4][Data:N][Checksum:4]
// The checksum covers the stored (possibly compressed) payload.

var frameMagic = [2]byte{'K', 'G'}

const (
	flagSnappy byte = 1 << 0

	envelopeHeaderLen  = 2 + 1 + 4
	envelopeTrailerLen = 4
)

var (
	ErrBadMagic  = errors.New("stream: bad frame magic")
	ErrTruncated = errors.New("stream: truncated frame")
	ErrChecksum  = errors.New("stream: frame checksum mismatch")
)

// Encoded is one wire-ready frame with its size accounting
type Encoded struct {
	Data       []byte
	RawSize    int
	Compressed bool
}

// CodecStats holds compression statistics
type CodecStats struct {
	FramesEncoded    uint64
	BytesRaw         uint64
	BytesEncoded     uint64
	CompressionRatio float64 // e.g., 0.75 = 75% compression
}

// Codec encodes frames into snappy-compressed envelopes and back.
// Safe for concurrent use.
type Codec struct {
	mu sync.Mutex

	framesEncoded uint64
	bytesRaw      uint64
	bytesEncoded  uint64
}

// NewCodec creates a frame codec
func NewCodec() *Codec {
	return &Codec{}
}

// Encode marshals the frame and wraps it in an envelope. Small frames
// that snappy would inflate are stored uncompressed.
func (c *Codec) Encode(f Frame) (Encoded, error) {
	raw, err := json.Marshal(f)
	if err != nil {
		return Encoded{}, fmt.Errorf("stream: failed to marshal frame: %w", err)
	}

	payload := snappy.Encode(nil, raw)
	flags := flagSnappy
	if len(payload) >= len(raw) {
		payload = raw
		flags = 0
	}

	buf := bytes.NewBuffer(make([]byte, 0, envelopeHeaderLen+len(payload)+envelopeTrailerLen))
	buf.Write(frameMagic[:])
	buf.WriteByte(flags)
	if err := binary.Write(buf, binary.BigEndian, uint32(len(payload))); err != nil {
		return Encoded{}, err
	}
	buf.Write(payload)
	if err := binary.Write(buf, binary.BigEndian, crc32.ChecksumIEEE(payload)); err != nil {
		return Encoded{}, err
	}

	c.mu.Lock()
	c.framesEncoded++
	c.bytesRaw += uint64(len(raw))
	c.bytesEncoded += uint64(len(payload))
	c.mu.Unlock()

	return Encoded{
		Data:       buf.Bytes(),
		RawSize:    len(raw),
		Compressed: flags&flagSnappy != 0,
	}, nil
}

// Decode unwraps an envelope back into a frame
func (c *Codec) Decode(data []byte) (Frame, error) {
	var frame Frame

	if len(data) < envelopeHeaderLen+envelopeTrailerLen {
		return frame, ErrTruncated
	}
	if data[0] != frameMagic[0] || data[1] != frameMagic[1] {
		return frame, ErrBadMagic
	}
	flags := data[2]

	dataLen := binary.BigEndian.Uint32(data[3:7])
	if len(data) != envelopeHeaderLen+int(dataLen)+envelopeTrailerLen {
		return frame, ErrTruncated
	}

	payload := data[envelopeHeaderLen : envelopeHeaderLen+dataLen]
	checksum := binary.BigEndian.Uint32(data[len(data)-envelopeTrailerLen:])
	if crc32.ChecksumIEEE(payload) != checksum {
		return frame, ErrChecksum
	}

	raw := payload
	if flags&flagSnappy != 0 {
		decoded, err := snappy.Decode(nil, payload)
		if err != nil {
			return frame, fmt.Errorf("stream: failed to decompress frame: %w", err)
		}
		raw = decoded
	}

	if err := json.Unmarshal(raw, &frame); err != nil {
		return frame, fmt.Errorf("stream: failed to unmarshal frame: %w", err)
	}
	return frame, nil
}

// Stats returns accumulated compression statistics
func (c *Codec) Stats() CodecStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	ratio := 0.0
	if c.bytesRaw > 0 {
		ratio = 1.0 - (float64(c.bytesEncoded) / float64(c.bytesRaw))
	}

	return CodecStats{
		FramesEncoded:    c.framesEncoded,
		BytesRaw:         c.bytesRaw,
		BytesEncoded:     c.bytesEncoded,
		CompressionRatio: ratio,
	}
}
