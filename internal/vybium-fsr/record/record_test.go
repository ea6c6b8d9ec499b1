package record

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/vybium/vybium-fsr/internal/vybium-fsr/codec"
	"github.com/vybium/vybium-fsr/internal/vybium-fsr/oracle"
)

// TestRecordingIsTransparent tests that recording never changes oracle output
func TestRecordingIsTransparent(t *testing.T) {
	plain := oracle.NewHashOracle([]byte("dom"), nil)
	rec := New(oracle.NewHashOracle([]byte("dom"), nil))

	for _, o := range []oracle.Oracle{plain, rec} {
		o.AbsorbBytes("a", []byte{1, 2})
		o.AbsorbBytes("b", nil)
	}
	var c1, c2 oracle.U64Challenge
	require.NoError(t, plain.Challenge("c", &c1))
	require.NoError(t, rec.Challenge("c", &c2))
	require.Equal(t, c1, c2)

	want := []Event{
		{Kind: KindAbsorb, Label: "a", Bytes: []byte{1, 2}},
		{Kind: KindAbsorb, Label: "b", Bytes: []byte{}},
		{Kind: KindChallenge, Label: "c", Bytes: codec.Marshal(c1)},
	}
	require.Equal(t, want, rec.Events())
}

// TestRecordCopiesAbsorbedBytes tests that later caller mutations do not leak into the log
func TestRecordCopiesAbsorbedBytes(t *testing.T) {
	rec := New(oracle.NewHashOracle(nil, nil))
	data := []byte{7}
	rec.AbsorbBytes("a", data)
	data[0] = 8
	got, ok := rec.FindAbsorb("a")
	require.True(t, ok)
	require.Equal(t, []byte{7}, got)
}

type failing struct{}

func (failing) Encode(out []byte) []byte             { return out }
func (failing) FromOracleBytes(string, []byte) error { return errors.New("out of domain") }

// TestFailedChallengeNotRecorded tests that errors leave the timeline unchanged
func TestFailedChallengeNotRecorded(t *testing.T) {
	rec := New(oracle.NewHashOracle(nil, nil))
	require.Error(t, rec.Challenge("c", failing{}))
	require.Empty(t, rec.Events())
}

// TestFindLatest tests that lookups return the most recent match
func TestFindLatest(t *testing.T) {
	rec := New(oracle.NewHashOracle(nil, nil))
	rec.AbsorbBytes("m", []byte{1})
	rec.AbsorbBytes("m", []byte{2})
	var c oracle.U64Challenge
	require.NoError(t, rec.Challenge("m", &c))

	got, ok := rec.FindAbsorb("m")
	require.True(t, ok)
	require.Equal(t, []byte{2}, got)

	got, ok = rec.FindChallenge("m")
	require.True(t, ok)
	require.Equal(t, codec.Marshal(c), got)

	_, ok = rec.FindChallenge("missing")
	require.False(t, ok)

	inner, events := rec.IntoParts()
	require.Len(t, events, 3)
	require.Same(t, rec.Inner(), inner)
	require.Empty(t, rec.Events())
}

// TestCursorForwardScan tests in-order consumption of repeated labels
func TestCursorForwardScan(t *testing.T) {
	events := []Event{
		{Kind: KindAbsorb, Label: "m", Bytes: []byte{1}},
		{Kind: KindChallenge, Label: "e", Bytes: []byte{9}},
		{Kind: KindAbsorb, Label: "m", Bytes: []byte{2}},
		{Kind: KindAbsorb, Label: "z", Bytes: []byte{3}},
	}
	c := NewCursor(events)

	got, ok := c.NextAbsorb("m")
	require.True(t, ok)
	require.Equal(t, []byte{1}, got)

	got, ok = c.NextAbsorb("z")
	require.True(t, ok)
	require.Equal(t, []byte{3}, got)
	require.Equal(t, 4, c.Pos())

	// everything before z was skipped
	_, ok = c.NextAbsorb("m")
	require.False(t, ok)
	_, ok = c.NextChallenge("e")
	require.False(t, ok)

	c = NewCursor(events)
	got, ok = c.Next(KindChallenge, "e")
	require.True(t, ok)
	require.Equal(t, []byte{9}, got)
	got, ok = c.NextAbsorb("m")
	require.True(t, ok)
	require.Equal(t, []byte{2}, got)
}

// TestLogRoundTrip tests the SCALE encoding of a timeline
func TestLogRoundTrip(t *testing.T) {
	events := []Event{
		{Kind: KindAbsorb, Label: "schnorr.commit.t", Bytes: []byte{1, 2, 3}},
		{Kind: KindAbsorb, Label: "schnorr.commit", Bytes: nil},
		{Kind: KindChallenge, Label: "e", Bytes: make([]byte, 8)},
	}
	raw, err := EncodeLog(events)
	require.NoError(t, err)

	got, err := DecodeLog(raw)
	require.NoError(t, err)
	if diff := cmp.Diff(events, got, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("log mismatch (-want +got):\n%s", diff)
	}

	_, err = DecodeLog(append(raw, 0))
	require.Error(t, err)
	_, err = DecodeLog(raw[:len(raw)-1])
	require.Error(t, err)
}

// TestLogRejectsUnknownKind tests kind validation on decode
func TestLogRejectsUnknownKind(t *testing.T) {
	raw, err := EncodeLog([]Event{{Kind: Kind(7), Label: "x"}})
	require.NoError(t, err)
	_, err = DecodeLog(raw)
	require.Error(t, err)
	require.Equal(t, "unknown", Kind(7).String())
}
