package rntbd

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/rs/zerolog/log"
)

// HeaderStream is an ordered, id-keyed collection of tokens -- the unit of
// encode/decode (§4.3). Each Request gets its own stream; streams are never
// shared across goroutines (§5).
type HeaderStream struct {
	tokens []Token // parallel to Registry(), same ascending-id order
}

// NewHeaderStream returns an empty stream with one absent token per
// registry entry.
func NewHeaderStream() *HeaderStream {
	entries := Registry()
	tokens := make([]Token, len(entries))
	for i, e := range entries {
		tokens[i] = newToken(e)
	}
	return &HeaderStream{tokens: tokens}
}

func (s *HeaderStream) indexOf(id HeaderID) (int, bool) {
	idx, ok := registryByID[id]
	return idx, ok
}

// Set stores v under id, flipping that token present. It fails with
// DomainViolation if v's shape doesn't match id's declared wire type, or if
// id is not in the registry at all.
func (s *HeaderStream) Set(id HeaderID, v Value) error {
	idx, ok := s.indexOf(id)
	if !ok {
		return errDomainViolation(uint16(id), "unknown registry id")
	}
	return s.tokens[idx].Set(v)
}

// Get returns the token bound to id and whether id is registered at all
// (not whether it is present -- callers check Token.Present for that).
func (s *HeaderStream) Get(id HeaderID) (Token, bool) {
	idx, ok := s.indexOf(id)
	if !ok {
		return Token{}, false
	}
	return s.tokens[idx], true
}

// Present returns every token currently set, in ascending id order.
func (s *HeaderStream) Present() []Token {
	out := make([]Token, 0, len(s.tokens))
	for _, t := range s.tokens {
		if t.Present {
			out = append(out, t)
		}
	}
	return out
}

// Encode writes every present token to w in ascending id order: each as
// id(u16 LE) | type_byte | payload. Absent tokens are omitted entirely
// (§4.3, §6). Encoding is deterministic and idempotent for a fixed set of
// present tokens and values.
func (s *HeaderStream) Encode(w io.Writer) error {
	for _, t := range s.tokens {
		if !t.Present {
			continue
		}
		if err := encodeToken(w, t); err != nil {
			return err
		}
	}
	return nil
}

// EncodeBytes is a convenience wrapper around Encode for callers that want
// a single buffer rather than an io.Writer.
func (s *HeaderStream) EncodeBytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := s.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeToken(w io.Writer, t Token) error {
	payload, err := encodePayload(headerErrorName(t.Entry), t.Value)
	if err != nil {
		return err
	}
	var idBuf [2]byte
	binary.LittleEndian.PutUint16(idBuf[:], uint16(t.Entry.ID))
	if _, err := w.Write(idBuf[:]); err != nil {
		return err
	}
	if _, err := w.Write([]byte{byte(t.Entry.WireType)}); err != nil {
		return err
	}
	_, err = w.Write(payload)
	return err
}

// headerErrorName picks the identifier an encode error should name for
// entry: its wire header text when the Projector reads it out of a header
// map, falling back to the Go-identifier registry name for framing-derived
// and positional fields that carry no HeaderName at all (§7).
func headerErrorName(entry HeaderEntry) string {
	if entry.HeaderName != "" {
		return entry.HeaderName
	}
	return entry.Name
}

func encodePayload(name string, v Value) ([]byte, error) {
	switch v.Type {
	case WireByte:
		return []byte{v.Byte}, nil
	case WireBytes:
		if int64(len(v.Bytes)) > v.Type.maxLength() {
			return nil, errValueTooLong(name, len(v.Bytes), int(v.Type.maxLength()))
		}
		buf := make([]byte, 1+len(v.Bytes))
		buf[0] = byte(len(v.Bytes))
		copy(buf[1:], v.Bytes)
		return buf, nil
	case WireSmallString:
		raw := []byte(v.Str)
		if int64(len(raw)) > v.Type.maxLength() {
			return nil, errValueTooLong(name, len(raw), int(v.Type.maxLength()))
		}
		buf := make([]byte, 1+len(raw))
		buf[0] = byte(len(raw))
		copy(buf[1:], raw)
		return buf, nil
	case WireString:
		raw := []byte(v.Str)
		if len(raw) > int(v.Type.maxLength()) {
			return nil, errValueTooLong(name, len(raw), int(v.Type.maxLength()))
		}
		buf := make([]byte, 2+len(raw))
		binary.LittleEndian.PutUint16(buf[0:2], uint16(len(raw)))
		copy(buf[2:], raw)
		return buf, nil
	case WireULongString:
		raw := []byte(v.Str)
		if int64(len(raw)) > v.Type.maxLength() {
			return nil, errValueTooLong(name, len(raw), int(v.Type.maxLength()))
		}
		buf := make([]byte, 4+len(raw))
		binary.LittleEndian.PutUint32(buf[0:4], uint32(len(raw)))
		copy(buf[4:], raw)
		return buf, nil
	case WireGuid:
		buf := make([]byte, 16)
		copy(buf, v.Bytes)
		return buf, nil
	case WireLong:
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, uint32(v.Long))
		return buf, nil
	case WireULong:
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, v.ULong)
		return buf, nil
	case WireLongLong:
		buf := make([]byte, 8)
		binary.LittleEndian.PutUint64(buf, uint64(v.LLong))
		return buf, nil
	case WireDouble:
		buf := make([]byte, 8)
		binary.LittleEndian.PutUint64(buf, doubleBits(v.Double))
		return buf, nil
	default:
		return nil, errDomainViolation(0, v.Type.String())
	}
}

// DecodeHeaderStream reads id/type/payload triples from r until EOF,
// populating a fresh stream (§4.3). Unknown ids still consume their
// correctly-sized payload (recoverable from the type byte alone) and are
// silently dropped, preserving forward compatibility (§8). Decode accepts
// any wire order.
func DecodeHeaderStream(r io.Reader) (*HeaderStream, error) {
	s := NewHeaderStream()
	for {
		var head [3]byte
		n, err := io.ReadFull(r, head[:])
		if err == io.EOF && n == 0 {
			return s, nil
		}
		if err != nil {
			return nil, ErrTruncated
		}

		id := HeaderID(binary.LittleEndian.Uint16(head[0:2]))
		typeByte := head[2]

		wt, ok := knownWireType(typeByte)
		if !ok {
			return nil, errUnknownType(typeByte)
		}

		n2, err := readPayloadLen(r, wt)
		if err != nil {
			return nil, err
		}
		payload := make([]byte, n2)
		if n2 > 0 {
			if _, err := io.ReadFull(r, payload); err != nil {
				return nil, ErrTruncated
			}
		}

		entry, known := LookupByID(id)
		if !known {
			log.Debug().Uint16("id", uint16(id)).Msg("rntbd: skipping unknown header id during decode")
			continue
		}
		if entry.WireType != wt {
			return nil, errTypeMismatch(uint16(id), entry.WireType, wt)
		}

		v := decodePayload(wt, payload)
		if err := s.Set(id, v); err != nil {
			return nil, err
		}
	}
}

func decodePayload(t WireType, payload []byte) Value {
	switch t {
	case WireByte:
		return Value{Type: t, Byte: payload[0]}
	case WireBytes:
		return bytesValue(t, payload)
	case WireSmallString, WireString, WireULongString:
		return Value{Type: t, Str: string(payload)}
	case WireGuid:
		return bytesValue(t, payload)
	case WireLong:
		return Value{Type: t, Long: int32(binary.LittleEndian.Uint32(payload))}
	case WireULong:
		return Value{Type: t, ULong: binary.LittleEndian.Uint32(payload)}
	case WireLongLong:
		return Value{Type: t, LLong: int64(binary.LittleEndian.Uint64(payload))}
	case WireDouble:
		return Value{Type: t, Double: doubleFromBits(binary.LittleEndian.Uint64(payload))}
	default:
		return Value{Type: t}
	}
}
