package interactive

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/vybium/vybium-fsr/internal/vybium-fsr/codec"
	"github.com/vybium/vybium-fsr/internal/vybium-fsr/errs"
)

// TagChallenge marks a challenge frame.
const TagChallenge byte = 1

// Frame is a labeled challenge on the wire:
// tag:u8 | label_len:u16 | label | payload_len:u16 | payload.
type Frame struct {
	Label   string
	Payload []byte
}

// EncodeFrame serializes f. Labels and payloads are limited to 65535 bytes.
func EncodeFrame(f Frame) ([]byte, error) {
	if len(f.Label) > math.MaxUint16 {
		return nil, fmt.Errorf("frame label of %d bytes exceeds %d", len(f.Label), math.MaxUint16)
	}
	if len(f.Payload) > math.MaxUint16 {
		return nil, fmt.Errorf("frame payload of %d bytes exceeds %d", len(f.Payload), math.MaxUint16)
	}
	out := make([]byte, 0, 5+len(f.Label)+len(f.Payload))
	out = append(out, TagChallenge)
	out = codec.AppendUint16(out, uint16(len(f.Label)))
	out = append(out, f.Label...)
	out = codec.AppendUint16(out, uint16(len(f.Payload)))
	return append(out, f.Payload...), nil
}

// DecodeFrame parses a frame. The label must be valid UTF-8 and the frame
// must end where the payload does.
func DecodeFrame(b []byte) (Frame, error) {
	c := codec.NewCursor(b)
	tag, ok := c.Uint8()
	if !ok {
		return Frame{}, errs.Malformed("empty frame")
	}
	if tag != TagChallenge {
		return Frame{}, errs.Malformedf("unknown frame tag %d", tag)
	}
	label, ok := readU16Bytes(c)
	if !ok {
		return Frame{}, errs.Malformed("truncated frame label")
	}
	if !utf8.Valid(label) {
		return Frame{}, errs.Malformed("frame label is not utf-8")
	}
	payload, ok := readU16Bytes(c)
	if !ok {
		return Frame{}, errs.Malformed("truncated frame payload")
	}
	if !c.Empty() {
		return Frame{}, errs.Malformedf("%d trailing bytes after frame", c.Len())
	}
	return Frame{Label: string(label), Payload: payload}, nil
}

func readU16Bytes(c *codec.Cursor) ([]byte, bool) {
	mark := c.Mark()
	n, ok := c.Uint16()
	if !ok {
		return nil, false
	}
	b, ok := c.Bytes(int(n))
	if !ok {
		c.Reset(mark)
		return nil, false
	}
	return b, true
}
