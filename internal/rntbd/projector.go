package rntbd

import (
	"encoding/base64"
	"math"
	"strconv"
	"strings"

	"github.com/coderudit/cosmosrntbd/internal/rntbd/resourceid"
)

// directCoercionFrom is the first registry id handled by the generic
// direct-coercion dispatch (§"SUPPLEMENTED FEATURES", direct-coercion
// table): every entry from here through the end of the catalog has no
// behavior beyond "parse the header string into this wire type", mirroring
// the original direct-connectivity client's fillTokenFromHeader default
// case.
const directCoercionFrom = IDCollectionRemoteStorageSecurityIdentifier

var booleanHeaderNames = []string{
	"AllowScanOnQuery", "EnableScanInQuery", "CanCharge", "CanOfferReplaceComplete",
	"CanThrottle", "DisableRUPerMinuteUsage", "EmitVerboseTracesInQuery",
	"EnableLogging", "EnableLowPrecisionOrderBy", "ExcludeSystemProperties",
	"IsAutoScaleRequest", "IsFanout", "IsReadOnlyScript", "IsUserRequest",
	"PopulateCollectionThroughputInfo", "PopulatePartitionStatistics",
	"PopulateQueryMetrics", "PopulateQuotaInfo", "ProfileRequest",
	"ForceQueryScan", "ShareThroughput", "SupportSpatialLegacyCoordinates",
	"UsePolygonsSmallerThanAHemisphere",
}

var binaryHeaderIDs = []HeaderID{IDBinaryId, IDStartId, IDEndId, IDStartEpk, IDEndEpk}

var enumHeaders = []struct {
	id   HeaderID
	name string
}{
	{IDConsistencyLevel, "ConsistencyLevel"},
	{IDContentSerializationFormat, "ContentSerializationFormat"},
	{IDEnumerationDirection, "EnumerationDirection"},
	{IDFanoutOperationState, "FanoutOperationState"},
	{IDIndexingDirective, "IndexingDirective"},
	{IDMigrateCollectionDirective, "MigrateCollectionDirective"},
	{IDRemoteStorageType, "RemoteStorageType"},
	{IDReadFeedKeyType, "ReadFeedKeyType"},
}

// Project runs every phase of the Request Projector (§4.4) over req,
// producing a fully populated HeaderStream ready for HeaderStream.Encode.
// It never mutates req.
func Project(req *Request) (*HeaderStream, error) {
	s := NewHeaderStream()

	if err := projectFraming(s, req); err != nil {
		return nil, err
	}
	if err := projectResourceAddress(s, req); err != nil {
		return nil, err
	}
	if err := projectResourceID(s, req); err != nil {
		return nil, err
	}
	if err := projectEnums(s, req); err != nil {
		return nil, err
	}
	if err := projectBinaryHeaders(s, req); err != nil {
		return nil, err
	}
	if err := projectDateHeader(s, req); err != nil {
		return nil, err
	}
	if err := projectMatchHeader(s, req); err != nil {
		return nil, err
	}
	if err := projectPageSize(s, req); err != nil {
		return nil, err
	}
	if err := projectTokenLimit(s, req); err != nil {
		return nil, err
	}
	if err := projectContinuationToken(s, req); err != nil {
		return nil, err
	}
	if err := projectBooleanHeaders(s, req); err != nil {
		return nil, err
	}
	if err := projectDirectCoercion(s, req); err != nil {
		return nil, err
	}
	return s, nil
}

// projectFraming derives the two headers that come from the framing layer
// rather than from req.Headers (§4.4.1): whether a payload follows the
// token block, and which replica served the request.
func projectFraming(s *HeaderStream, req *Request) error {
	if err := s.Set(IDPayloadPresent, boolValue(len(req.Content) > 0)); err != nil {
		return err
	}
	return s.Set(IDReplicaPath, stringValue(WireSmallString, req.ReplicaPath))
}

// projectResourceAddress walks req.ResourceAddress for name-based requests,
// filling in every segment-name header the walk recognizes (§4.4.1).
// Id-based requests carry no segment-name headers and are left to
// projectResourceID instead.
func projectResourceAddress(s *HeaderStream, req *Request) error {
	if !req.IsNameBased {
		return nil
	}
	if req.ResourceAddress == "" {
		return nil
	}
	fragments, err := parseResourceAddress(req.ResourceAddress)
	if err != nil {
		return err
	}
	for _, f := range fragments {
		id, ok := LookupByName(f.entryName)
		if !ok {
			continue
		}
		if err := s.Set(id, stringValue(WireString, f.value)); err != nil {
			return err
		}
	}
	return nil
}

var resourceKindByType = map[ResourceType]resourceid.Kind{
	ResourceDatabase:            resourceid.KindDatabase,
	ResourceDocumentCollection:  resourceid.KindCollection,
	ResourceDocument:            resourceid.KindDocument,
	ResourceStoredProcedure:     resourceid.KindStoredProcedure,
	ResourceTrigger:             resourceid.KindTrigger,
	ResourceUserDefinedFunction: resourceid.KindUserDefinedFunction,
	ResourceConflict:            resourceid.KindConflict,
	ResourcePartitionKeyRange:   resourceid.KindPartitionKeyRange,
}

// projectResourceID fills the ResourceId header whenever req.ResourceID is
// non-empty, decoding its compact binary layout by req.ResourceType
// (§"SUPPLEMENTED FEATURES"). This runs regardless of IsNameBased --
// addResourceIdOrPathHeaders sets it whenever the id is present and the
// name-based path walk in projectResourceAddress is additive, not an
// alternative (§4.4.2, §8 scenario 1). A ResourceType with no entry in
// resourceKindByType is not decoded: the id text's bytes are stored as-is.
func projectResourceID(s *HeaderStream, req *Request) error {
	if req.ResourceID == "" {
		return nil
	}
	kind, ok := resourceKindByType[req.ResourceType]
	if !ok {
		return s.Set(IDResourceId, bytesValue(WireBytes, []byte(req.ResourceID)))
	}
	raw, err := resourceid.Parse(kind, req.ResourceID)
	if err != nil {
		return errInvalidResourceAddress(req.ResourceID)
	}
	return s.Set(IDResourceId, bytesValue(WireBytes, raw))
}

// projectEnums maps the eight recognized textual header values to their
// wire-stable small integers (§4.4.2). A value present but unrecognized is
// an encode error; a header simply absent is left unset. Each header is read
// under its registry header_name (e.g. "x-ms-consistency-level", per the
// §8 worked scenarios), not the Go-identifier dispatch name used internally
// to pick the right enum table.
func projectEnums(s *HeaderStream, req *Request) error {
	for _, h := range enumHeaders {
		entry, ok := LookupByID(h.id)
		if !ok {
			continue
		}
		raw, ok := req.Headers[entry.HeaderName]
		if !ok || raw == "" {
			continue
		}
		wireByte, err := mapEnumHeader(h.name, entry.HeaderName, raw)
		if err != nil {
			return err
		}
		if err := s.Set(h.id, byteValue(WireByte, wireByte)); err != nil {
			return err
		}
	}
	return nil
}

// mapEnumHeader dispatches on dispatchName (the internal, Go-identifier
// label distinguishing the eight enum tables) but reports failures under
// headerName, the wire text the caller actually saw on the request.
func mapEnumHeader(dispatchName, headerName, raw string) (byte, error) {
	key := normalizeEnumText(raw)
	switch dispatchName {
	case "ConsistencyLevel":
		pub, ok := consistencyLevelText[key]
		if !ok {
			return 0, errInvalidHeaderValue(headerName, raw)
		}
		return byte(consistencyLevelWire[pub]), nil
	case "ContentSerializationFormat":
		pub, ok := serializationFormatText[key]
		if !ok {
			return 0, errInvalidHeaderValue(headerName, raw)
		}
		return byte(serializationFormatWire[pub]), nil
	case "EnumerationDirection":
		pub, ok := enumerationDirectionText[key]
		if !ok {
			return 0, errInvalidHeaderValue(headerName, raw)
		}
		return byte(enumerationDirectionWire[pub]), nil
	case "FanoutOperationState":
		pub, ok := fanoutOperationStateText[key]
		if !ok {
			return 0, errInvalidHeaderValue(headerName, raw)
		}
		return byte(fanoutOperationStateWire[pub]), nil
	case "IndexingDirective":
		pub, ok := indexingDirectiveText[key]
		if !ok {
			return 0, errInvalidHeaderValue(headerName, raw)
		}
		return byte(indexingDirectiveWire[pub]), nil
	case "MigrateCollectionDirective":
		pub, ok := migrateCollectionDirectiveText[key]
		if !ok {
			return 0, errInvalidHeaderValue(headerName, raw)
		}
		return byte(migrateCollectionDirectiveWire[pub]), nil
	case "RemoteStorageType":
		pub, ok := remoteStorageTypeText[key]
		if !ok {
			return 0, errInvalidHeaderValue(headerName, raw)
		}
		return byte(remoteStorageTypeWire[pub]), nil
	case "ReadFeedKeyType":
		pub, ok := readFeedKeyTypeText[key]
		if !ok {
			return 0, errInvalidHeaderValue(headerName, raw)
		}
		return byte(readFeedKeyTypeWire[pub]), nil
	default:
		return 0, errInvalidHeaderValue(headerName, raw)
	}
}

// projectBinaryHeaders decodes the five base64-carried binary headers
// (§4.4.2), read under their registry header_name (e.g. "x-ms-binary-id").
func projectBinaryHeaders(s *HeaderStream, req *Request) error {
	for _, id := range binaryHeaderIDs {
		entry, _ := LookupByID(id)
		raw, ok := req.Headers[entry.HeaderName]
		if !ok || raw == "" {
			continue
		}
		decoded, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			return errInvalidBase64(entry.HeaderName)
		}
		if err := s.Set(id, bytesValue(WireBytes, decoded)); err != nil {
			return err
		}
	}
	return nil
}

// projectDateHeader prefers x-date over date, matching the HTTP layer's own
// precedence (§4.4.2).
func projectDateHeader(s *HeaderStream, req *Request) error {
	raw, ok := req.Headers["x-date"]
	if !ok || raw == "" {
		raw, ok = req.Headers["date"]
	}
	if !ok || raw == "" {
		return nil
	}
	return s.Set(IDDate, stringValue(WireSmallString, raw))
}

// projectMatchHeader picks If-None-Match for read-style operations and
// If-Match for everything else, mirroring the original client's
// addMatchHeader (§4.4.2).
func projectMatchHeader(s *HeaderStream, req *Request) error {
	var raw string
	var ok bool
	switch req.OperationType {
	case OpRead, OpReadFeed:
		raw, ok = req.Headers["If-None-Match"]
	default:
		raw, ok = req.Headers["If-Match"]
	}
	if !ok || raw == "" {
		return nil
	}
	return s.Set(IDMatch, stringValue(WireString, raw))
}

// projectPageSize encodes the page-size header (wire text
// "x-ms-max-item-count", per the §8 worked scenarios) as an unsigned 32-bit
// wire value, remapping the public sentinel -1 ("no limit") to 0xFFFFFFFF
// (§4.4.2). The accepted domain is [-1, 2^32-1]; out-of-range is an
// InvalidHeaderValue, not a DomainViolation -- the latter is reserved for
// the programmer-error case of Token.Set being called with the wrong value
// shape (§7), not a data-validation failure on attacker/caller-supplied
// text.
func projectPageSize(s *HeaderStream, req *Request) error {
	entry, _ := LookupByID(IDPageSize)
	raw, ok := req.Headers[entry.HeaderName]
	if !ok || raw == "" {
		return nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return errInvalidHeaderValue(entry.HeaderName, raw)
	}
	if n < -1 || n > 0xFFFFFFFF {
		return errInvalidHeaderValue(entry.HeaderName, raw)
	}
	var wire uint32
	if n == -1 {
		wire = 0xFFFFFFFF
	} else {
		wire = uint32(n)
	}
	return s.Set(IDPageSize, uLongValue(wire))
}

// projectTokenLimit encodes the response-continuation-token-limit header,
// whose domain is the full unsigned 32-bit range (§4.4.2); out-of-range is
// an InvalidHeaderValue, matching projectPageSize's reasoning above.
func projectTokenLimit(s *HeaderStream, req *Request) error {
	entry, _ := LookupByID(IDResponseContinuationTokenLimitInKb)
	raw, ok := req.Headers[entry.HeaderName]
	if !ok || raw == "" {
		return nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return errInvalidHeaderValue(entry.HeaderName, raw)
	}
	if n < 0 || n > 0xFFFFFFFF {
		return errInvalidHeaderValue(entry.HeaderName, raw)
	}
	return s.Set(IDResponseContinuationTokenLimitInKb, uLongValue(uint32(n)))
}

// projectContinuationToken reads from req.Continuation rather than
// req.Headers: the continuation token travels on the abstract Request
// itself, not through the generic header bag (§3).
func projectContinuationToken(s *HeaderStream, req *Request) error {
	if req.Continuation == "" {
		return nil
	}
	return s.Set(IDContinuationToken, stringValue(WireString, req.Continuation))
}

// projectBooleanHeaders applies lenient boolean coercion -- any value that
// isn't a case-insensitive match for "true" becomes false -- matching
// Boolean.parseBoolean's behavior in the original client (§4.4.2). Each
// entry is looked up under its registry header_name (the actual wire text,
// e.g. "x-ms-enable-logging"), not its Go-identifier registry name.
func projectBooleanHeaders(s *HeaderStream, req *Request) error {
	for _, name := range booleanHeaderNames {
		id, ok := LookupByName(name)
		if !ok {
			continue
		}
		entry, ok := LookupByID(id)
		if !ok {
			continue
		}
		raw, ok := req.Headers[entry.HeaderName]
		if !ok {
			continue
		}
		if err := s.Set(id, boolValue(strings.EqualFold(raw, "true"))); err != nil {
			return err
		}
	}
	return nil
}

// projectDirectCoercion dispatches every header from directCoercionFrom
// through the end of the catalog purely by declared wire type, with no
// further special-casing (§"SUPPLEMENTED FEATURES"). Each entry is read
// under its registry header_name, the literal wire text, not the
// Go-identifier registry name.
func projectDirectCoercion(s *HeaderStream, req *Request) error {
	for _, entry := range Registry() {
		if entry.ID < directCoercionFrom || entry.HeaderName == "" {
			continue
		}
		raw, ok := req.Headers[entry.HeaderName]
		if !ok || raw == "" {
			continue
		}
		v, err := coerceByWireType(entry, raw)
		if err != nil {
			return err
		}
		if err := s.Set(entry.ID, v); err != nil {
			return err
		}
	}
	return nil
}

func coerceByWireType(entry HeaderEntry, raw string) (Value, error) {
	switch entry.WireType {
	case WireByte:
		return boolValue(strings.EqualFold(raw, "true")), nil
	case WireSmallString:
		return stringValue(WireSmallString, raw), nil
	case WireString:
		return stringValue(WireString, raw), nil
	case WireULongString:
		return stringValue(WireULongString, raw), nil
	case WireLong:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < int64(minInt32) || n > int64(maxInt32) {
			return Value{}, errInvalidHeaderValue(entry.HeaderName, raw)
		}
		return longValue(int32(n)), nil
	case WireULong:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 || n > 0xFFFFFFFF {
			return Value{}, errInvalidHeaderValue(entry.HeaderName, raw)
		}
		return uLongValue(uint32(n)), nil
	case WireLongLong:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Value{}, errInvalidHeaderValue(entry.HeaderName, raw)
		}
		return longLongValue(n), nil
	case WireDouble:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return Value{}, errInvalidHeaderValue(entry.HeaderName, raw)
		}
		return doubleValue(f), nil
	default:
		return Value{}, errDomainViolation(uint16(entry.ID), entry.HeaderName)
	}
}

const (
	minInt32 = -2147483648
	maxInt32 = 2147483647
)
