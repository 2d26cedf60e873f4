package rntbd

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"github.com/BurntSushi/toml"
)

// HeaderID names every registry entry with the stable wire identifier
// carried in registry_data.toml. Declared here, the teacher's way
// (internal/protocol/schema.go's named Field ID constants), so projector
// code reads as "DatabaseName" rather than a bare integer; registry init
// cross-checks every one of these against the parsed catalog and panics on
// drift, so the two can never silently disagree.
type HeaderID uint16

const (
	IDPayloadPresent                         HeaderID = 1
	IDReplicaPath                            HeaderID = 2
	IDDatabaseName                           HeaderID = 3
	IDCollectionName                         HeaderID = 4
	IDUserName                               HeaderID = 5
	IDUserDefinedTypeName                    HeaderID = 6
	IDDocumentName                           HeaderID = 7
	IDStoredProcedureName                    HeaderID = 8
	IDPermissionName                         HeaderID = 9
	IDUserDefinedFunctionName                HeaderID = 10
	IDTriggerName                            HeaderID = 11
	IDConflictName                           HeaderID = 12
	IDPartitionKeyRangeName                  HeaderID = 13
	IDSchemaName                             HeaderID = 14
	IDAttachmentName                         HeaderID = 15
	IDResourceId                             HeaderID = 16
	IDConsistencyLevel                       HeaderID = 17
	IDContentSerializationFormat             HeaderID = 18
	IDEnumerationDirection                   HeaderID = 19
	IDFanoutOperationState                   HeaderID = 20
	IDIndexingDirective                      HeaderID = 21
	IDMigrateCollectionDirective              HeaderID = 22
	IDRemoteStorageType                      HeaderID = 23
	IDReadFeedKeyType                        HeaderID = 24
	IDBinaryId                               HeaderID = 25
	IDStartId                                HeaderID = 26
	IDEndId                                  HeaderID = 27
	IDStartEpk                               HeaderID = 28
	IDEndEpk                                 HeaderID = 29
	IDDate                                   HeaderID = 30
	IDMatch                                  HeaderID = 31
	IDPageSize                               HeaderID = 32
	IDResponseContinuationTokenLimitInKb     HeaderID = 33
	IDContinuationToken                      HeaderID = 34
	IDAllowScanOnQuery                       HeaderID = 35
	IDEnableScanInQuery                      HeaderID = 36
	IDCanCharge                              HeaderID = 37
	IDCanOfferReplaceComplete                HeaderID = 38
	IDCanThrottle                            HeaderID = 39
	IDDisableRUPerMinuteUsage                HeaderID = 40
	IDEmitVerboseTracesInQuery               HeaderID = 41
	IDEnableLogging                          HeaderID = 42
	IDEnableLowPrecisionOrderBy              HeaderID = 43
	IDExcludeSystemProperties                HeaderID = 44
	IDIsAutoScaleRequest                     HeaderID = 45
	IDIsFanout                               HeaderID = 46
	IDIsReadOnlyScript                       HeaderID = 47
	IDIsUserRequest                          HeaderID = 48
	IDPopulateCollectionThroughputInfo       HeaderID = 49
	IDPopulatePartitionStatistics            HeaderID = 50
	IDPopulateQueryMetrics                   HeaderID = 51
	IDPopulateQuotaInfo                      HeaderID = 52
	IDProfileRequest                         HeaderID = 53
	IDForceQueryScan                         HeaderID = 54
	IDShareThroughput                        HeaderID = 55
	IDSupportSpatialLegacyCoordinates        HeaderID = 56
	IDUsePolygonsSmallerThanAHemisphere      HeaderID = 57
	IDCollectionRemoteStorageSecurityIdentifier HeaderID = 58
	IDEntityId                               HeaderID = 59
	IDIfModifiedSince                        HeaderID = 60
	IDAIM                                    HeaderID = 61
	IDAllowTentativeWrites                   HeaderID = 62
	IDAuthorizationToken                     HeaderID = 63
	IDBinaryPassthroughRequest                HeaderID = 64
	IDBindReplicaDirective                   HeaderID = 65
	IDClientRetryAttemptCount                HeaderID = 66
	IDCollectionPartitionIndex               HeaderID = 67
	IDCollectionRid                          HeaderID = 68
	IDCollectionServiceIndex                 HeaderID = 69
	IDEffectivePartitionKey                  HeaderID = 70
	IDEnableDynamicRidRangeAllocation         HeaderID = 71
	IDFilterBySchemaRid                      HeaderID = 72
	IDGatewaySignature                       HeaderID = 73
	IDPartitionCount                         HeaderID = 74
	IDPartitionKey                           HeaderID = 75
	IDPartitionKeyRangeId                    HeaderID = 76
	IDPartitionResourceFilter                HeaderID = 77
	IDPostTriggerExclude                     HeaderID = 78
	IDPostTriggerInclude                     HeaderID = 79
	IDPreTriggerExclude                      HeaderID = 80
	IDPreTriggerInclude                      HeaderID = 81
	IDPrimaryMasterKey                       HeaderID = 82
	IDPrimaryReadonlyKey                     HeaderID = 83
	IDRemainingTimeInMsOnClientRequest        HeaderID = 84
	IDResourceSchemaName                     HeaderID = 85
	IDResourceTokenExpiry                    HeaderID = 86
	IDRestoreMetadataFilter                  HeaderID = 87
	IDRestoreParams                          HeaderID = 88
	IDSecondaryMasterKey                     HeaderID = 89
	IDSecondaryReadonlyKey                   HeaderID = 90
	IDSessionToken                           HeaderID = 91
	IDSharedOfferThroughput                  HeaderID = 92
	IDTargetGlobalCommittedLsn               HeaderID = 93
	IDTargetLsn                              HeaderID = 94
	IDTimeToLiveInSeconds                    HeaderID = 95
	IDTransportRequestID                     HeaderID = 96
	IDClientVersion                          HeaderID = 97
)

// HeaderEntry is one Header Registry entry (§3): a stable id, its
// programmer-facing name, the literal wire header text the Projector reads
// out of a Request's header map (empty when the field isn't headers-sourced
// at all -- framing-derived fields and the positional path-segment names),
// wire type, and required flag. Entries carry no default value; a token
// starts out absent with its wire type's zero value.
type HeaderEntry struct {
	ID         HeaderID
	Name       string
	HeaderName string
	WireType   WireType
	Required   bool
}

//go:embed registry_data.toml
var registryTOML []byte

type rawCatalog struct {
	Header []rawEntry `toml:"header"`
}

type rawEntry struct {
	ID         uint16 `toml:"id"`
	Name       string `toml:"name"`
	HeaderName string `toml:"header_name"`
	WireType   string `toml:"wire_type"`
	Required   bool   `toml:"required"`
}

var (
	registryOnce         sync.Once
	registryEntries      []HeaderEntry
	registryByID         map[HeaderID]int
	registryByName       map[string]HeaderID
	registryByHeaderName map[string]HeaderID
)

// Registry returns the process-wide Header Registry entries in ascending
// id order. It is parsed from the embedded declarative source exactly once
// (§4.1, §5): safe for unsynchronized concurrent reads thereafter.
func Registry() []HeaderEntry {
	initRegistry()
	return registryEntries
}

// LookupByID returns the registry entry for id, if known (§4.1).
func LookupByID(id HeaderID) (HeaderEntry, bool) {
	initRegistry()
	idx, ok := registryByID[id]
	if !ok {
		return HeaderEntry{}, false
	}
	return registryEntries[idx], true
}

// LookupByName returns the registry id for a programmer-facing entry name.
func LookupByName(name string) (HeaderID, bool) {
	initRegistry()
	id, ok := registryByName[name]
	return id, ok
}

// LookupByHeaderName returns the registry id whose wire header text
// (case-exact, §6) is name.
func LookupByHeaderName(name string) (HeaderID, bool) {
	initRegistry()
	id, ok := registryByHeaderName[name]
	return id, ok
}

func initRegistry() {
	registryOnce.Do(func() {
		var cat rawCatalog
		if err := toml.Unmarshal(registryTOML, &cat); err != nil {
			panic(fmt.Errorf("rntbd: malformed registry source: %w", err))
		}

		entries := make([]HeaderEntry, 0, len(cat.Header))
		seen := make(map[HeaderID]bool, len(cat.Header))
		for _, raw := range cat.Header {
			wt, ok := wireTypeFromTOML(raw.WireType)
			if !ok {
				panic(fmt.Errorf("rntbd: registry entry %q has unknown wire_type %q", raw.Name, raw.WireType))
			}
			id := HeaderID(raw.ID)
			if seen[id] {
				panic(fmt.Errorf("rntbd: registry id %d declared twice", id))
			}
			seen[id] = true
			entries = append(entries, HeaderEntry{
				ID:         id,
				Name:       raw.Name,
				HeaderName: raw.HeaderName,
				WireType:   wt,
				Required:   raw.Required,
			})
		}

		sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })

		byID := make(map[HeaderID]int, len(entries))
		byName := make(map[string]HeaderID, len(entries))
		byHeaderName := make(map[string]HeaderID, len(entries))
		for i, e := range entries {
			byID[e.ID] = i
			byName[e.Name] = e.ID
			if e.HeaderName != "" {
				byHeaderName[e.HeaderName] = e.ID
			}
		}

		registryEntries = entries
		registryByID = byID
		registryByName = byName
		registryByHeaderName = byHeaderName

		checkNamedConstants()
	})
}

func wireTypeFromTOML(s string) (WireType, bool) {
	switch s {
	case "byte":
		return WireByte, true
	case "bytes":
		return WireBytes, true
	case "small_string":
		return WireSmallString, true
	case "string":
		return WireString, true
	case "ulong_string":
		return WireULongString, true
	case "guid":
		return WireGuid, true
	case "long":
		return WireLong, true
	case "ulong":
		return WireULong, true
	case "long_long":
		return WireLongLong, true
	case "double":
		return WireDouble, true
	default:
		return 0, false
	}
}

// checkNamedConstants guards against the Go-level HeaderID constants above
// drifting from registry_data.toml, the actual source of truth.
func checkNamedConstants() {
	want := map[HeaderID]string{
		IDPayloadPresent: "PayloadPresent", IDReplicaPath: "ReplicaPath",
		IDDatabaseName: "DatabaseName", IDCollectionName: "CollectionName",
		IDUserName: "UserName", IDUserDefinedTypeName: "UserDefinedTypeName",
		IDDocumentName: "DocumentName", IDStoredProcedureName: "StoredProcedureName",
		IDPermissionName: "PermissionName", IDUserDefinedFunctionName: "UserDefinedFunctionName",
		IDTriggerName: "TriggerName", IDConflictName: "ConflictName",
		IDPartitionKeyRangeName: "PartitionKeyRangeName", IDSchemaName: "SchemaName",
		IDAttachmentName: "AttachmentName", IDResourceId: "ResourceId",
		IDConsistencyLevel: "ConsistencyLevel", IDContentSerializationFormat: "ContentSerializationFormat",
		IDEnumerationDirection: "EnumerationDirection", IDFanoutOperationState: "FanoutOperationState",
		IDIndexingDirective: "IndexingDirective", IDMigrateCollectionDirective: "MigrateCollectionDirective",
		IDRemoteStorageType: "RemoteStorageType", IDReadFeedKeyType: "ReadFeedKeyType",
		IDBinaryId: "BinaryId", IDStartId: "StartId", IDEndId: "EndId",
		IDStartEpk: "StartEpk", IDEndEpk: "EndEpk", IDDate: "Date", IDMatch: "Match",
		IDPageSize: "PageSize", IDResponseContinuationTokenLimitInKb: "ResponseContinuationTokenLimitInKb",
		IDContinuationToken: "ContinuationToken", IDAllowScanOnQuery: "AllowScanOnQuery",
		IDEnableScanInQuery: "EnableScanInQuery", IDCanCharge: "CanCharge",
		IDCanOfferReplaceComplete: "CanOfferReplaceComplete", IDCanThrottle: "CanThrottle",
		IDDisableRUPerMinuteUsage: "DisableRUPerMinuteUsage", IDEmitVerboseTracesInQuery: "EmitVerboseTracesInQuery",
		IDEnableLogging: "EnableLogging", IDEnableLowPrecisionOrderBy: "EnableLowPrecisionOrderBy",
		IDExcludeSystemProperties: "ExcludeSystemProperties", IDIsAutoScaleRequest: "IsAutoScaleRequest",
		IDIsFanout: "IsFanout", IDIsReadOnlyScript: "IsReadOnlyScript", IDIsUserRequest: "IsUserRequest",
		IDPopulateCollectionThroughputInfo: "PopulateCollectionThroughputInfo",
		IDPopulatePartitionStatistics: "PopulatePartitionStatistics", IDPopulateQueryMetrics: "PopulateQueryMetrics",
		IDPopulateQuotaInfo: "PopulateQuotaInfo", IDProfileRequest: "ProfileRequest",
		IDForceQueryScan: "ForceQueryScan", IDShareThroughput: "ShareThroughput",
		IDSupportSpatialLegacyCoordinates: "SupportSpatialLegacyCoordinates",
		IDUsePolygonsSmallerThanAHemisphere: "UsePolygonsSmallerThanAHemisphere",
		IDCollectionRemoteStorageSecurityIdentifier: "CollectionRemoteStorageSecurityIdentifier",
		IDEntityId: "EntityId", IDIfModifiedSince: "IfModifiedSince", IDAIM: "AIM",
		IDAllowTentativeWrites: "AllowTentativeWrites", IDAuthorizationToken: "AuthorizationToken",
		IDBinaryPassthroughRequest: "BinaryPassthroughRequest", IDBindReplicaDirective: "BindReplicaDirective",
		IDClientRetryAttemptCount: "ClientRetryAttemptCount", IDCollectionPartitionIndex: "CollectionPartitionIndex",
		IDCollectionRid: "CollectionRid", IDCollectionServiceIndex: "CollectionServiceIndex",
		IDEffectivePartitionKey: "EffectivePartitionKey", IDEnableDynamicRidRangeAllocation: "EnableDynamicRidRangeAllocation",
		IDFilterBySchemaRid: "FilterBySchemaRid", IDGatewaySignature: "GatewaySignature",
		IDPartitionCount: "PartitionCount", IDPartitionKey: "PartitionKey",
		IDPartitionKeyRangeId: "PartitionKeyRangeId", IDPartitionResourceFilter: "PartitionResourceFilter",
		IDPostTriggerExclude: "PostTriggerExclude", IDPostTriggerInclude: "PostTriggerInclude",
		IDPreTriggerExclude: "PreTriggerExclude", IDPreTriggerInclude: "PreTriggerInclude",
		IDPrimaryMasterKey: "PrimaryMasterKey", IDPrimaryReadonlyKey: "PrimaryReadonlyKey",
		IDRemainingTimeInMsOnClientRequest: "RemainingTimeInMsOnClientRequest",
		IDResourceSchemaName: "ResourceSchemaName", IDResourceTokenExpiry: "ResourceTokenExpiry",
		IDRestoreMetadataFilter: "RestoreMetadataFilter", IDRestoreParams: "RestoreParams",
		IDSecondaryMasterKey: "SecondaryMasterKey", IDSecondaryReadonlyKey: "SecondaryReadonlyKey",
		IDSessionToken: "SessionToken", IDSharedOfferThroughput: "SharedOfferThroughput",
		IDTargetGlobalCommittedLsn: "TargetGlobalCommittedLsn", IDTargetLsn: "TargetLsn",
		IDTimeToLiveInSeconds: "TimeToLiveInSeconds", IDTransportRequestID: "TransportRequestID",
		IDClientVersion: "ClientVersion",
	}
	for id, name := range want {
		entry, ok := registryByID[id]
		if !ok {
			panic(fmt.Errorf("rntbd: named constant %s=%d missing from registry source", name, id))
		}
		if got := registryEntries[entry].Name; got != name {
			panic(fmt.Errorf("rntbd: named constant %s=%d does not match registry source name %q", name, id, got))
		}
	}
	if len(want) != len(registryEntries) {
		panic(fmt.Errorf("rntbd: registry source declares %d entries but %d named constants exist", len(registryEntries), len(want)))
	}
}
