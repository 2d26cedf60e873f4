package rntbd

import "strings"

// The eight recognized enum-mapped headers (§4.4.2) are modeled as two
// distinct enum types apiece: a public enum (the SDK-facing, textual
// vocabulary) and a wire enum (the protocol-facing, small-integer
// vocabulary). They are kept separate on purpose (§9 design note) even
// though every mapping here happens to be a pure relabeling -- a future
// wire revision can renumber the wire side without touching the public
// one.

// ConsistencyLevel is the public enum for the consistency-level header.
type ConsistencyLevel int

const (
	ConsistencyStrong ConsistencyLevel = iota
	ConsistencyBounded
	ConsistencySession
	ConsistencyEventual
	ConsistencyConsistentPrefix
)

// RntbdConsistencyLevel is the protocol-stable wire enum.
type RntbdConsistencyLevel byte

const (
	WireConsistencyStrong           RntbdConsistencyLevel = 0
	WireConsistencyBounded           RntbdConsistencyLevel = 1
	WireConsistencySession            RntbdConsistencyLevel = 2
	WireConsistencyEventual           RntbdConsistencyLevel = 3
	WireConsistencyConsistentPrefix  RntbdConsistencyLevel = 4
)

var consistencyLevelText = map[string]ConsistencyLevel{
	"strong":           ConsistencyStrong,
	"bounded":           ConsistencyBounded,
	"boundedstaleness":  ConsistencyBounded,
	"session":           ConsistencySession,
	"eventual":          ConsistencyEventual,
	"consistentprefix":  ConsistencyConsistentPrefix,
}

var consistencyLevelWire = map[ConsistencyLevel]RntbdConsistencyLevel{
	ConsistencyStrong:           WireConsistencyStrong,
	ConsistencyBounded:           WireConsistencyBounded,
	ConsistencySession:           WireConsistencySession,
	ConsistencyEventual:          WireConsistencyEventual,
	ConsistencyConsistentPrefix:  WireConsistencyConsistentPrefix,
}

// ContentSerializationFormat is the public enum for the
// content-serialization-format header.
type ContentSerializationFormat int

const (
	SerializationJSONText ContentSerializationFormat = iota
	SerializationCosmosBinary
)

type RntbdContentSerializationFormat byte

const (
	WireSerializationJSONText     RntbdContentSerializationFormat = 0
	WireSerializationCosmosBinary RntbdContentSerializationFormat = 1
)

var serializationFormatText = map[string]ContentSerializationFormat{
	"jsontext":      SerializationJSONText,
	"cosmosbinary":  SerializationCosmosBinary,
}

var serializationFormatWire = map[ContentSerializationFormat]RntbdContentSerializationFormat{
	SerializationJSONText:     WireSerializationJSONText,
	SerializationCosmosBinary: WireSerializationCosmosBinary,
}

// EnumerationDirection is the public enum for the enumeration-direction
// header.
type EnumerationDirection int

const (
	EnumerationForward EnumerationDirection = iota
	EnumerationReverse
)

type RntbdEnumerationDirection byte

const (
	WireEnumerationForward RntbdEnumerationDirection = 1
	WireEnumerationReverse RntbdEnumerationDirection = 2
)

var enumerationDirectionText = map[string]EnumerationDirection{
	"forward": EnumerationForward,
	"reverse": EnumerationReverse,
}

var enumerationDirectionWire = map[EnumerationDirection]RntbdEnumerationDirection{
	EnumerationForward: WireEnumerationForward,
	EnumerationReverse: WireEnumerationReverse,
}

// FanoutOperationState is the public enum for the fanout-operation-state
// header.
type FanoutOperationState int

const (
	FanoutStarted FanoutOperationState = iota
	FanoutCompleted
)

type RntbdFanoutOperationState byte

const (
	WireFanoutStarted   RntbdFanoutOperationState = 1
	WireFanoutCompleted RntbdFanoutOperationState = 2
)

var fanoutOperationStateText = map[string]FanoutOperationState{
	"started":   FanoutStarted,
	"completed": FanoutCompleted,
}

var fanoutOperationStateWire = map[FanoutOperationState]RntbdFanoutOperationState{
	FanoutStarted:   WireFanoutStarted,
	FanoutCompleted: WireFanoutCompleted,
}

// IndexingDirective is the public enum for the indexing-directive header.
type IndexingDirective int

const (
	IndexingDefault IndexingDirective = iota
	IndexingExclude
	IndexingInclude
)

type RntbdIndexingDirective byte

const (
	WireIndexingDefault RntbdIndexingDirective = 0
	WireIndexingExclude RntbdIndexingDirective = 1
	WireIndexingInclude RntbdIndexingDirective = 2
)

var indexingDirectiveText = map[string]IndexingDirective{
	"default": IndexingDefault,
	"exclude": IndexingExclude,
	"include": IndexingInclude,
}

var indexingDirectiveWire = map[IndexingDirective]RntbdIndexingDirective{
	IndexingDefault: WireIndexingDefault,
	IndexingExclude: WireIndexingExclude,
	IndexingInclude: WireIndexingInclude,
}

// MigrateCollectionDirective is the public enum for the
// migrate-collection-directive header.
type MigrateCollectionDirective int

const (
	MigrateFreeze MigrateCollectionDirective = iota
	MigrateThaw
)

type RntbdMigrateCollectionDirective byte

const (
	WireMigrateFreeze RntbdMigrateCollectionDirective = 0
	WireMigrateThaw   RntbdMigrateCollectionDirective = 1
)

var migrateCollectionDirectiveText = map[string]MigrateCollectionDirective{
	"freeze": MigrateFreeze,
	"thaw":   MigrateThaw,
}

var migrateCollectionDirectiveWire = map[MigrateCollectionDirective]RntbdMigrateCollectionDirective{
	MigrateFreeze: WireMigrateFreeze,
	MigrateThaw:   WireMigrateThaw,
}

// RemoteStorageType is the public enum for the remote-storage-type header.
type RemoteStorageType int

const (
	RemoteStorageStandard RemoteStorageType = iota
	RemoteStoragePremium
)

type RntbdRemoteStorageType byte

const (
	WireRemoteStorageStandard RntbdRemoteStorageType = 1
	WireRemoteStoragePremium  RntbdRemoteStorageType = 2
)

var remoteStorageTypeText = map[string]RemoteStorageType{
	"standard": RemoteStorageStandard,
	"premium":  RemoteStoragePremium,
}

var remoteStorageTypeWire = map[RemoteStorageType]RntbdRemoteStorageType{
	RemoteStorageStandard: WireRemoteStorageStandard,
	RemoteStoragePremium:  WireRemoteStoragePremium,
}

// ReadFeedKeyType is the public enum for the read-feed-key-type header.
type ReadFeedKeyType int

const (
	ReadFeedKeyResourceId ReadFeedKeyType = iota
	ReadFeedKeyEffectivePartitionKey
)

type RntbdReadFeedKeyType byte

const (
	WireReadFeedKeyResourceId             RntbdReadFeedKeyType = 0
	WireReadFeedKeyEffectivePartitionKey RntbdReadFeedKeyType = 1
)

var readFeedKeyTypeText = map[string]ReadFeedKeyType{
	"resourceid":             ReadFeedKeyResourceId,
	"effectivepartitionkey":  ReadFeedKeyEffectivePartitionKey,
}

var readFeedKeyTypeWire = map[ReadFeedKeyType]RntbdReadFeedKeyType{
	ReadFeedKeyResourceId:            WireReadFeedKeyResourceId,
	ReadFeedKeyEffectivePartitionKey: WireReadFeedKeyEffectivePartitionKey,
}

// normalizeEnumText applies the case-insensitive fold used for every
// enum-mapped header value (§4.4.2 step a).
func normalizeEnumText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
