package rntbd

// Token is a typed cell bound to one registry entry: presence plus value
// (§3). A Token's Value.Type always matches its Entry.WireType; Set
// validates that invariant before flipping Present to true.
type Token struct {
	Entry   HeaderEntry
	Present bool
	Value   Value
}

// newToken constructs an absent token carrying entry's wire-type zero
// value.
func newToken(entry HeaderEntry) Token {
	return Token{Entry: entry, Value: Value{Type: entry.WireType}}
}

// Set validates that v matches the token's declared wire type and, if so,
// stores it and marks the token present. A caller that sets a value of the
// wrong shape has made a programming error, not a data error (§4.2).
func (t *Token) Set(v Value) error {
	if v.Type != t.Entry.WireType {
		return errDomainViolation(uint16(t.Entry.ID), t.Entry.Name)
	}
	t.Value = v
	t.Present = true
	return nil
}
