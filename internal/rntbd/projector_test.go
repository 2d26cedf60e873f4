package rntbd

import (
	"encoding/base64"
	"testing"

	"github.com/coderudit/cosmosrntbd/internal/testutil/testlog"
)

func TestProjectNameBasedDocumentRead(t *testing.T) {
	testlog.Start(t)
	req := &Request{
		OperationType:   OpRead,
		ResourceType:    ResourceDocument,
		IsNameBased:     true,
		ResourceAddress: "dbs/mydb/colls/mycoll/docs/mydoc",
		ReplicaPath:     "/replica/1/",
		Headers: map[string]string{
			"If-None-Match": "\"etag-1\"",
		},
	}

	s, err := Project(req)
	if err != nil {
		t.Fatal(err)
	}

	assertString(t, s, IDDatabaseName, "mydb")
	assertString(t, s, IDCollectionName, "mycoll")
	assertString(t, s, IDDocumentName, "mydoc")
	assertString(t, s, IDMatch, "\"etag-1\"")

	tok, _ := s.Get(IDPayloadPresent)
	if !tok.Present || tok.Value.asBool() {
		t.Fatalf("expected PayloadPresent=false for an empty-bodied read, got %+v", tok)
	}
}

// TestProjectNameBasedDocumentReadWithResourceID is spec §8 scenario 1: a
// name-based read still carries a parsed ResourceId alongside the
// path-derived segment names -- addResourceIdOrPathHeaders in the original
// client sets both unconditionally rather than choosing one or the other.
func TestProjectNameBasedDocumentReadWithResourceID(t *testing.T) {
	testlog.Start(t)
	raw := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	req := &Request{
		OperationType:   OpRead,
		ResourceType:    ResourceDocument,
		IsNameBased:     true,
		ResourceID:      base64.RawURLEncoding.EncodeToString(raw),
		ResourceAddress: "dbs/mydb/colls/mycoll/docs/mydoc",
		ReplicaPath:     "/replica/1/",
		Headers: map[string]string{
			"If-None-Match": "\"etag-1\"",
		},
	}

	s, err := Project(req)
	if err != nil {
		t.Fatal(err)
	}

	assertString(t, s, IDDatabaseName, "mydb")
	assertString(t, s, IDCollectionName, "mycoll")
	assertString(t, s, IDDocumentName, "mydoc")

	tok, ok := s.Get(IDResourceId)
	if !ok || !tok.Present {
		t.Fatal("expected ResourceId token present for a name-based request with a non-empty ResourceID")
	}
	if string(tok.Value.Bytes) != string(raw) {
		t.Fatalf("ResourceId bytes = %v, want %v", tok.Value.Bytes, raw)
	}
}

func TestProjectIDBasedCreateSetsPayloadPresentAndResourceID(t *testing.T) {
	testlog.Start(t)
	raw := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	req := &Request{
		OperationType: OpCreate,
		ResourceType:  ResourceDocument,
		IsNameBased:   false,
		ResourceID:    base64.RawURLEncoding.EncodeToString(raw),
		ReplicaPath:   "/replica/1/",
		Content:       []byte(`{"id":"x"}`),
		Headers: map[string]string{
			"If-Match": "\"etag-2\"",
		},
	}

	s, err := Project(req)
	if err != nil {
		t.Fatal(err)
	}

	tok, ok := s.Get(IDResourceId)
	if !ok || !tok.Present {
		t.Fatal("expected ResourceId to be present")
	}
	if string(tok.Value.Bytes) != string(raw) {
		t.Fatalf("resource id bytes mismatch: got %v want %v", tok.Value.Bytes, raw)
	}

	payloadTok, _ := s.Get(IDPayloadPresent)
	if !payloadTok.Present || !payloadTok.Value.asBool() {
		t.Fatal("expected PayloadPresent=true when Content is non-empty")
	}

	assertString(t, s, IDMatch, "\"etag-2\"")
}

func TestProjectEnumAndBinaryHeaders(t *testing.T) {
	testlog.Start(t)
	req := &Request{
		OperationType:   OpQuery,
		IsNameBased:     true,
		ResourceAddress: "dbs/mydb/colls/mycoll/docs",
		Headers: map[string]string{
			"x-ms-consistency-level": "Session",
			"x-ms-binary-id":         base64.StdEncoding.EncodeToString([]byte{0xDE, 0xAD, 0xBE, 0xEF}),
		},
	}

	s, err := Project(req)
	if err != nil {
		t.Fatal(err)
	}

	tok, _ := s.Get(IDConsistencyLevel)
	if !tok.Present || tok.Value.Byte != byte(WireConsistencySession) {
		t.Fatalf("expected consistency level Session (wire=%d), got %+v", WireConsistencySession, tok)
	}

	binTok, _ := s.Get(IDBinaryId)
	if !binTok.Present {
		t.Fatal("expected BinaryId to be present")
	}
	want := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	if len(binTok.Value.Bytes) != len(want) {
		t.Fatalf("binary id mismatch: got %v want %v", binTok.Value.Bytes, want)
	}
}

func TestProjectPageSizeSentinel(t *testing.T) {
	testlog.Start(t)
	req := &Request{
		OperationType:   OpReadFeed,
		IsNameBased:     true,
		ResourceAddress: "dbs/mydb/colls/mycoll/docs",
		Headers: map[string]string{
			"x-ms-max-item-count": "-1",
		},
	}
	s, err := Project(req)
	if err != nil {
		t.Fatal(err)
	}
	tok, _ := s.Get(IDPageSize)
	if !tok.Present || tok.Value.ULong != 0xFFFFFFFF {
		t.Fatalf("expected page size sentinel 0xFFFFFFFF, got %+v", tok)
	}
}

func TestProjectPageSizeOutOfDomainFails(t *testing.T) {
	testlog.Start(t)
	req := &Request{
		OperationType:   OpReadFeed,
		IsNameBased:     true,
		ResourceAddress: "dbs/mydb/colls/mycoll/docs",
		Headers: map[string]string{
			"x-ms-max-item-count": "-2",
		},
	}
	if _, err := Project(req); err == nil {
		t.Fatal("expected page size -2 to violate the accepted domain")
	}
}

func TestProjectContinuationTokenComesFromRequestNotHeaders(t *testing.T) {
	testlog.Start(t)
	req := &Request{
		OperationType:   OpReadFeed,
		IsNameBased:     true,
		ResourceAddress: "dbs/mydb/colls/mycoll/docs",
		Continuation:    "cont-token-abc",
		Headers: map[string]string{
			"ContinuationToken": "should-be-ignored",
		},
	}
	s, err := Project(req)
	if err != nil {
		t.Fatal(err)
	}
	tok, _ := s.Get(IDContinuationToken)
	if !tok.Present || tok.Value.Str != "cont-token-abc" {
		t.Fatalf("expected continuation token from Request.Continuation, got %+v", tok)
	}
}

func TestProjectBooleanHeadersLenientParse(t *testing.T) {
	testlog.Start(t)
	req := &Request{
		OperationType:   OpQuery,
		IsNameBased:     true,
		ResourceAddress: "dbs/mydb/colls/mycoll/docs",
		Headers: map[string]string{
			"x-ms-enable-logging":      "TRUE",
			"x-ms-populate-quota-info": "not-a-boolean",
		},
	}
	s, err := Project(req)
	if err != nil {
		t.Fatal(err)
	}
	enableLogging, _ := s.Get(IDEnableLogging)
	if !enableLogging.Present || !enableLogging.Value.asBool() {
		t.Fatal("expected EnableLogging=true for case-insensitive TRUE")
	}
	quota, _ := s.Get(IDPopulateQuotaInfo)
	if !quota.Present || quota.Value.asBool() {
		t.Fatal("expected PopulateQuotaInfo=false for an unrecognized boolean string")
	}
}

func TestProjectDirectCoercionNumericHeader(t *testing.T) {
	testlog.Start(t)
	req := &Request{
		OperationType:   OpQuery,
		IsNameBased:     true,
		ResourceAddress: "dbs/mydb/colls/mycoll/docs",
		Headers: map[string]string{
			"x-ms-time-to-live-in-seconds": "3600",
			"x-ms-target-lsn":              "123456789012",
		},
	}
	s, err := Project(req)
	if err != nil {
		t.Fatal(err)
	}
	ttl, _ := s.Get(IDTimeToLiveInSeconds)
	if !ttl.Present || ttl.Value.Long != 3600 {
		t.Fatalf("unexpected TimeToLiveInSeconds: %+v", ttl)
	}
	lsn, _ := s.Get(IDTargetLsn)
	if !lsn.Present || lsn.Value.LLong != 123456789012 {
		t.Fatalf("unexpected TargetLsn: %+v", lsn)
	}
}

func TestProjectUnrecognizedEnumValueFails(t *testing.T) {
	testlog.Start(t)
	req := &Request{
		OperationType:   OpQuery,
		IsNameBased:     true,
		ResourceAddress: "dbs/mydb/colls/mycoll/docs",
		Headers: map[string]string{
			"x-ms-indexing-directive": "Bogus",
		},
	}
	if _, err := Project(req); err == nil {
		t.Fatal("expected an error for an unrecognized IndexingDirective value")
	}
}

func TestCoerceByWireTypeRejectsNonFiniteDouble(t *testing.T) {
	testlog.Start(t)
	entry := HeaderEntry{ID: HeaderID(9999), HeaderName: "x-ms-test-double", WireType: WireDouble}
	for _, raw := range []string{"NaN", "Inf", "+Inf", "-Inf", "Infinity"} {
		if _, err := coerceByWireType(entry, raw); err == nil {
			t.Fatalf("expected %q to be rejected as a non-finite double", raw)
		}
	}
	v, err := coerceByWireType(entry, "3.25")
	if err != nil {
		t.Fatalf("unexpected error coercing a finite double: %v", err)
	}
	if v.Double != 3.25 {
		t.Fatalf("expected double 3.25, got %+v", v)
	}
}

func assertString(t *testing.T, s *HeaderStream, id HeaderID, want string) {
	t.Helper()
	tok, ok := s.Get(id)
	if !ok || !tok.Present {
		t.Fatalf("id %d expected to be present", id)
	}
	if tok.Value.Str != want {
		t.Fatalf("id %d: got %q want %q", id, tok.Value.Str, want)
	}
}
