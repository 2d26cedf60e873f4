package rntbd

import "strings"

// pathSegment names one resource-kind keyword recognized at a pair position
// and the entry-name token its paired value maps to in the stream.
type pathSegment struct {
	keyword string
	idName  string
}

// pairTable lists, for each fragment-pair index (0-3), the segment keywords
// recognized at that position and the stream entry each feeds. Position 0
// must match one of its table's keywords or the address is rejected;
// positions 1-3 silently drop any keyword they don't recognize, leaving the
// corresponding id/name headers unset (Open Question, decided in favor of
// forward compatibility with path shapes this codec doesn't yet know).
var pairTable = [4][]pathSegment{
	0: {
		{"dbs", "DatabaseName"},
	},
	1: {
		{"colls", "CollectionName"},
		{"users", "UserName"},
		{"udts", "UserDefinedTypeName"},
	},
	2: {
		{"docs", "DocumentName"},
		{"sprocs", "StoredProcedureName"},
		{"permissions", "PermissionName"},
		{"udfs", "UserDefinedFunctionName"},
		{"triggers", "TriggerName"},
		{"conflicts", "ConflictName"},
		{"pkranges", "PartitionKeyRangeName"},
		{"schemas", "SchemaName"},
	},
	3: {
		{"attachments", "AttachmentName"},
	},
}

// pathFragment is one recognized (keyword, name) pair found while walking a
// resource address.
type pathFragment struct {
	entryName string
	value     string
}

// parseResourceAddress splits a name-based resource address into the
// segment-name headers the Request Projector writes into the stream (§4.4.1
// "name-based addressing"). It mirrors the original direct-connectivity
// client's fragment walk: split on runs of '/', discard the leading empty
// fragment, then consume the path two fragments (keyword, value) at a time,
// advancing through pairTable by position. The first pair must resolve to a
// known keyword; every later pair silently contributes nothing if its
// keyword isn't recognized, and the walk still advances past it.
func parseResourceAddress(address string) ([]pathFragment, error) {
	// UrlTrim in the original client splits on runs of '/', not a single
	// separator, so a doubled slash doesn't shift fragment pairing.
	fragments := strings.FieldsFunc(address, func(r rune) bool { return r == '/' })

	var out []pathFragment
	pairIndex := 0
	for i := 0; i+1 < len(fragments) && pairIndex < len(pairTable); i += 2 {
		keyword := fragments[i]
		value := fragments[i+1]

		segs := pairTable[pairIndex]
		var matched *pathSegment
		for j := range segs {
			if segs[j].keyword == keyword {
				matched = &segs[j]
				break
			}
		}

		if matched == nil {
			if pairIndex == 0 {
				return nil, errInvalidResourceAddress(address)
			}
			pairIndex++
			continue
		}

		out = append(out, pathFragment{entryName: matched.idName, value: value})
		pairIndex++
	}

	// Fewer than two fragments means position 0 was never reached; the
	// original only validates position 0 once it has a pair to look at, and
	// silently yields nothing otherwise.
	return out, nil
}
