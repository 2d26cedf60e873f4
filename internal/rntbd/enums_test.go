package rntbd

import (
	"testing"

	"github.com/coderudit/cosmosrntbd/internal/testutil/testlog"
)

func TestMapEnumHeaderValidValues(t *testing.T) {
	testlog.Start(t)
	cases := []struct {
		name string
		raw  string
		want byte
	}{
		{"ConsistencyLevel", "Strong", byte(WireConsistencyStrong)},
		{"ConsistencyLevel", "eventual", byte(WireConsistencyEventual)},
		{"ContentSerializationFormat", "CosmosBinary", byte(WireSerializationCosmosBinary)},
		{"EnumerationDirection", "Reverse", byte(WireEnumerationReverse)},
		{"FanoutOperationState", "Completed", byte(WireFanoutCompleted)},
		{"IndexingDirective", "Exclude", byte(WireIndexingExclude)},
		{"MigrateCollectionDirective", "Thaw", byte(WireMigrateThaw)},
		{"RemoteStorageType", "Premium", byte(WireRemoteStoragePremium)},
		{"ReadFeedKeyType", "EffectivePartitionKey", byte(WireReadFeedKeyEffectivePartitionKey)},
	}
	for _, c := range cases {
		got, err := mapEnumHeader(c.name, c.name, c.raw)
		if err != nil {
			t.Fatalf("%s=%q: unexpected error %v", c.name, c.raw, err)
		}
		if got != c.want {
			t.Fatalf("%s=%q: got %d want %d", c.name, c.raw, got, c.want)
		}
	}
}

func TestMapEnumHeaderRejectsUnrecognizedValue(t *testing.T) {
	testlog.Start(t)
	if _, err := mapEnumHeader("ConsistencyLevel", "ConsistencyLevel", "Nonsense"); err == nil {
		t.Fatal("expected an error for an unrecognized enum value")
	}
}

func TestMapEnumHeaderIsCaseInsensitive(t *testing.T) {
	testlog.Start(t)
	got, err := mapEnumHeader("ConsistencyLevel", "ConsistencyLevel", "STRONG")
	if err != nil {
		t.Fatal(err)
	}
	if got != byte(WireConsistencyStrong) {
		t.Fatalf("got %d, want %d", got, WireConsistencyStrong)
	}
}
