package rntbd

import (
	"encoding/binary"
	"fmt"
	"io"
)

// WireType is the closed set of on-the-wire payload encodings a token can
// carry. Values are the stable byte tags defined by the wire protocol; gaps
// (0x03, 0x0B) are reserved by the protocol and intentionally unused here.
type WireType uint8

const (
	WireByte         WireType = 0x01
	WireBytes        WireType = 0x02
	WireSmallString  WireType = 0x04
	WireString       WireType = 0x05
	WireULongString  WireType = 0x06
	WireGuid         WireType = 0x07
	WireLong         WireType = 0x08
	WireULong        WireType = 0x09
	WireLongLong     WireType = 0x0A
	WireDouble       WireType = 0x0C
)

func (t WireType) String() string {
	switch t {
	case WireByte:
		return "Byte"
	case WireBytes:
		return "Bytes"
	case WireSmallString:
		return "SmallString"
	case WireString:
		return "String"
	case WireULongString:
		return "ULongString"
	case WireGuid:
		return "Guid"
	case WireLong:
		return "Long"
	case WireULong:
		return "ULong"
	case WireLongLong:
		return "LongLong"
	case WireDouble:
		return "Double"
	default:
		return fmt.Sprintf("WireType(0x%02X)", uint8(t))
	}
}

// knownWireType reports whether b is one of the declared wire-type bytes.
func knownWireType(b uint8) (WireType, bool) {
	switch WireType(b) {
	case WireByte, WireBytes, WireSmallString, WireString, WireULongString,
		WireGuid, WireLong, WireULong, WireLongLong, WireDouble:
		return WireType(b), true
	default:
		return 0, false
	}
}

// fixedSize returns the payload length for wire types whose length never
// varies, and ok=false for the length-prefixed families.
func (t WireType) fixedSize() (int, bool) {
	switch t {
	case WireByte:
		return 1, true
	case WireGuid:
		return 16, true
	case WireLong, WireULong:
		return 4, true
	case WireLongLong, WireDouble:
		return 8, true
	default:
		return 0, false
	}
}

// readPayloadLen determines, from the type byte alone, how many payload
// bytes follow on the wire -- consuming any length prefix from r in the
// process. This is what lets decode skip an unknown id's payload without
// understanding its contents (§4.3, §6).
func readPayloadLen(r io.Reader, t WireType) (int, error) {
	if n, ok := t.fixedSize(); ok {
		return n, nil
	}
	switch t {
	case WireBytes, WireSmallString:
		var b [1]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, ErrTruncated
		}
		return int(b[0]), nil
	case WireString:
		var b [2]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, ErrTruncated
		}
		return int(binary.LittleEndian.Uint16(b[:])), nil
	case WireULongString:
		var b [4]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, ErrTruncated
		}
		return int(binary.LittleEndian.Uint32(b[:])), nil
	default:
		return 0, fmt.Errorf("rntbd: %s has no payload length rule", t)
	}
}

// lengthPrefixWidth returns the width in bytes of t's length prefix, or 0
// for fixed-size types.
func (t WireType) lengthPrefixWidth() int {
	switch t {
	case WireBytes, WireSmallString:
		return 1
	case WireString:
		return 2
	case WireULongString:
		return 4
	default:
		return 0
	}
}

// maxLength is the largest payload this wire type's length prefix can
// express (§3).
func (t WireType) maxLength() int64 {
	switch t {
	case WireBytes, WireSmallString:
		return 0xFF
	case WireString:
		return 0xFFFF
	case WireULongString:
		return 0xFFFFFFFF
	default:
		return 0
	}
}
