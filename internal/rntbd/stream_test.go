package rntbd

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/coderudit/cosmosrntbd/internal/testutil/testlog"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	testlog.Start(t)
	s := NewHeaderStream()
	mustSet(t, s, IDPayloadPresent, boolValue(true))
	mustSet(t, s, IDDatabaseName, stringValue(WireString, "mydb"))
	mustSet(t, s, IDPageSize, uLongValue(100))
	mustSet(t, s, IDResourceId, bytesValue(WireBytes, []byte{1, 2, 3, 4}))

	buf, err := s.EncodeBytes()
	if err != nil {
		t.Fatal(err)
	}

	out, err := DecodeHeaderStream(bytes.NewReader(buf))
	if err != nil {
		t.Fatal(err)
	}

	for _, id := range []HeaderID{IDPayloadPresent, IDDatabaseName, IDPageSize, IDResourceId} {
		want, _ := s.Get(id)
		got, _ := out.Get(id)
		if got.Present != want.Present || !valuesEqual(got.Value, want.Value) {
			t.Fatalf("id %d mismatch: got %+v want %+v", id, got, want)
		}
	}
}

// valuesEqual compares two Values field-by-field for the arm selected by
// Type. Value is not comparable with == since its Bytes field is a slice.
func valuesEqual(a, b Value) bool {
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case WireBytes, WireGuid:
		return bytes.Equal(a.Bytes, b.Bytes)
	case WireByte:
		return a.Byte == b.Byte
	case WireSmallString, WireString, WireULongString:
		return a.Str == b.Str
	case WireLong:
		return a.Long == b.Long
	case WireULong:
		return a.ULong == b.ULong
	case WireLongLong:
		return a.LLong == b.LLong
	case WireDouble:
		return a.Double == b.Double
	default:
		return false
	}
}

func TestDecodeIsOrderIndependent(t *testing.T) {
	testlog.Start(t)
	a := NewHeaderStream()
	mustSet(t, a, IDDatabaseName, stringValue(WireString, "db1"))
	mustSet(t, a, IDCollectionName, stringValue(WireString, "coll1"))
	bufAsc, err := a.EncodeBytes()
	if err != nil {
		t.Fatal(err)
	}

	// Manually reorder by decoding and re-encoding tokens out of order: swap
	// the two present tokens' wire position by encoding collection first.
	var swapped bytes.Buffer
	tokens := a.Present()
	if len(tokens) != 2 {
		t.Fatalf("expected 2 present tokens, got %d", len(tokens))
	}
	if err := encodeToken(&swapped, tokens[1]); err != nil {
		t.Fatal(err)
	}
	if err := encodeToken(&swapped, tokens[0]); err != nil {
		t.Fatal(err)
	}

	decAsc, err := DecodeHeaderStream(bytes.NewReader(bufAsc))
	if err != nil {
		t.Fatal(err)
	}
	decSwapped, err := DecodeHeaderStream(bytes.NewReader(swapped.Bytes()))
	if err != nil {
		t.Fatal(err)
	}

	gotA, _ := decAsc.Get(IDDatabaseName)
	gotB, _ := decSwapped.Get(IDDatabaseName)
	if gotA.Value.Str != gotB.Value.Str {
		t.Fatalf("order should not affect decoded value: %q vs %q", gotA.Value.Str, gotB.Value.Str)
	}
}

func TestDecodeSkipsUnknownIDButConsumesPayload(t *testing.T) {
	testlog.Start(t)
	var buf bytes.Buffer

	// Unknown id 60000, SmallString payload "xx".
	var head [3]byte
	binary.LittleEndian.PutUint16(head[0:2], 60000)
	head[2] = byte(WireSmallString)
	buf.Write(head[:])
	buf.Write([]byte{2, 'x', 'x'})

	// Followed by a known header.
	s := NewHeaderStream()
	mustSet(t, s, IDDatabaseName, stringValue(WireString, "after-unknown"))
	known, err := s.EncodeBytes()
	if err != nil {
		t.Fatal(err)
	}
	buf.Write(known)

	out, err := DecodeHeaderStream(&buf)
	if err != nil {
		t.Fatal(err)
	}
	tok, ok := out.Get(IDDatabaseName)
	if !ok || !tok.Present || tok.Value.Str != "after-unknown" {
		t.Fatalf("expected known header to survive decode after skipping unknown id: %+v", tok)
	}
}

func TestDecodeTruncatedStreamFails(t *testing.T) {
	testlog.Start(t)
	_, err := DecodeHeaderStream(bytes.NewReader([]byte{1, 0}))
	if err == nil {
		t.Fatal("expected truncated stream to fail")
	}
}

func TestDecodeTypeMismatchFails(t *testing.T) {
	testlog.Start(t)
	var buf bytes.Buffer
	var head [3]byte
	binary.LittleEndian.PutUint16(head[0:2], uint16(IDPageSize))
	head[2] = byte(WireString) // PageSize is actually WireULong
	buf.Write(head[:])
	buf.Write([]byte{2, 0, '1', '0'})

	_, err := DecodeHeaderStream(&buf)
	if err == nil {
		t.Fatal("expected type mismatch error")
	}
}

func mustSet(t *testing.T, s *HeaderStream, id HeaderID, v Value) {
	t.Helper()
	if err := s.Set(id, v); err != nil {
		t.Fatalf("Set(%d) failed: %v", id, err)
	}
}
