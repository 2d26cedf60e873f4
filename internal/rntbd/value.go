package rntbd

// Value is a tagged variant over the wire-type domains (§3). Exactly one
// field is meaningful, selected by Type; a Token's Value.Type always
// matches its HeaderEntry.WireType.
type Value struct {
	Type WireType

	Byte   byte
	Str    string
	Long   int32
	ULong  uint32
	LLong  int64
	Double float64
	Bytes  []byte
}

func byteValue(t WireType, v byte) Value    { return Value{Type: t, Byte: v} }
func stringValue(t WireType, v string) Value { return Value{Type: t, Str: v} }
func longValue(v int32) Value               { return Value{Type: WireLong, Long: v} }
func uLongValue(v uint32) Value             { return Value{Type: WireULong, ULong: v} }
func longLongValue(v int64) Value           { return Value{Type: WireLongLong, LLong: v} }
func doubleValue(v float64) Value           { return Value{Type: WireDouble, Double: v} }
func bytesValue(t WireType, v []byte) Value {
	cp := make([]byte, len(v))
	copy(cp, v)
	return Value{Type: t, Bytes: cp}
}

// boolValue encodes a boolean as the Byte wire type (0/1), matching the
// registry's treatment of small enums and booleans alike (§3).
func boolValue(v bool) Value {
	var b byte
	if v {
		b = 1
	}
	return Value{Type: WireByte, Byte: b}
}

func (v Value) asBool() bool { return v.Byte != 0 }
