package record

import (
	"bytes"
	"fmt"

	"github.com/spacemeshos/go-scale"
)

const (
	// MaxEvents bounds a decoded timeline.
	MaxEvents = 1 << 16
	// MaxLabelLen bounds a decoded label.
	MaxLabelLen = 256
	// MaxEventBytes bounds the payload of one decoded event.
	MaxEventBytes = 1 << 20
)

// EncodeScale implements scale.Encodable.
func (e *Event) EncodeScale(enc *scale.Encoder) (total int, err error) {
	{
		n, err := scale.EncodeCompact8(enc, uint8(e.Kind))
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := scale.EncodeByteSliceWithLimit(enc, []byte(e.Label), MaxLabelLen)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := scale.EncodeByteSliceWithLimit(enc, e.Bytes, MaxEventBytes)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// DecodeScale implements scale.Decodable.
func (e *Event) DecodeScale(dec *scale.Decoder) (total int, err error) {
	{
		field, n, err := scale.DecodeCompact8(dec)
		if err != nil {
			return total, err
		}
		total += n
		if Kind(field) > KindChallenge {
			return total, fmt.Errorf("unknown event kind %d", field)
		}
		e.Kind = Kind(field)
	}
	{
		field, n, err := scale.DecodeByteSliceWithLimit(dec, MaxLabelLen)
		if err != nil {
			return total, err
		}
		total += n
		e.Label = string(field)
	}
	{
		field, n, err := scale.DecodeByteSliceWithLimit(dec, MaxEventBytes)
		if err != nil {
			return total, err
		}
		total += n
		e.Bytes = field
	}
	return total, nil
}

// EncodeLog serializes a timeline so it can be compiled into a proof
// somewhere else.
func EncodeLog(events []Event) ([]byte, error) {
	var b bytes.Buffer
	enc := scale.NewEncoder(&b, scale.WithEncodeMaxElements(MaxEvents))
	if _, err := scale.EncodeStructSlice(enc, events); err != nil {
		return nil, fmt.Errorf("encode event log: %w", err)
	}
	return b.Bytes(), nil
}

// DecodeLog parses a timeline written by EncodeLog. Trailing bytes are
// rejected.
func DecodeLog(buf []byte) ([]Event, error) {
	dec := scale.NewDecoder(bytes.NewReader(buf), scale.WithDecodeMaxElements(MaxEvents))
	events, n, err := scale.DecodeStructSlice[Event](dec)
	if err != nil {
		return nil, fmt.Errorf("decode event log: %w", err)
	}
	if n != len(buf) {
		return nil, fmt.Errorf("decode event log: %d trailing bytes", len(buf)-n)
	}
	return events, nil
}
