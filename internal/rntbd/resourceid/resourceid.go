// Package resourceid decodes the compact binary resource-id string carried
// in the ResourceId header into its raw byte layout (§"SUPPLEMENTED
// FEATURES" in the expanded specification). Cosmos-style resource ids are
// base64url, no padding, and their decoded length alone determines which
// fixed-width record they hold -- there is no embedded type tag.
package resourceid

import (
	"encoding/base64"
	"fmt"
)

// Kind identifies the resource a decoded id belongs to, which constrains
// the byte layout Parse accepts.
type Kind int

const (
	KindDatabase Kind = iota
	KindCollection
	KindDocument
	KindStoredProcedure
	KindTrigger
	KindUserDefinedFunction
	KindConflict
	KindPartitionKeyRange
)

// Layout lengths in bytes, as laid out by the name-based-to-id resolver:
// a database id is a single 4-byte local segment, a collection id appends
// a 4-byte local segment to its database's, and leaf resources (documents,
// sprocs, triggers, udfs, conflicts) append an 8-byte local segment to
// their collection's 8-byte prefix for a 16-byte total. Partition key range
// ids reuse the 16-byte shape.
const (
	databaseLen = 4
	collectionLen = 8
	leafLen = 16
)

var validLengths = map[Kind][]int{
	KindDatabase:            {databaseLen},
	KindCollection:          {collectionLen},
	KindDocument:            {leafLen},
	KindStoredProcedure:     {leafLen},
	KindTrigger:             {leafLen},
	KindUserDefinedFunction: {leafLen},
	KindConflict:            {leafLen},
	KindPartitionKeyRange:   {leafLen},
}

// DecodeError reports a resource id that failed to decode or whose decoded
// length doesn't match what its Kind requires.
type DecodeError struct {
	Kind    Kind
	ID      string
	Reason  string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("resourceid: %s (kind=%d id=%q)", e.Reason, e.Kind, e.ID)
}

// Parse decodes id as base64url-without-padding and validates its length
// against kind's expected byte layout, returning the raw decoded bytes.
func Parse(kind Kind, id string) ([]byte, error) {
	if id == "" {
		return nil, &DecodeError{Kind: kind, ID: id, Reason: "empty resource id"}
	}
	raw, err := base64.RawURLEncoding.DecodeString(id)
	if err != nil {
		return nil, &DecodeError{Kind: kind, ID: id, Reason: "invalid base64url: " + err.Error()}
	}

	lens, ok := validLengths[kind]
	if !ok {
		return nil, &DecodeError{Kind: kind, ID: id, Reason: "unrecognized resource kind"}
	}
	for _, want := range lens {
		if len(raw) == want {
			return raw, nil
		}
	}
	return nil, &DecodeError{Kind: kind, ID: id, Reason: fmt.Sprintf("decoded length %d does not match expected layout for kind", len(raw))}
}

// DatabaseSegment returns the 4-byte database-local segment that opens
// every resource id, regardless of kind.
func DatabaseSegment(raw []byte) ([]byte, error) {
	if len(raw) < databaseLen {
		return nil, fmt.Errorf("resourceid: too short for a database segment: %d bytes", len(raw))
	}
	return raw[:databaseLen], nil
}
