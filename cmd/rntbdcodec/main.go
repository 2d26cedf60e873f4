// Command rntbdcodec round-trips a JSON-described request through the
// RNTBD header codec and prints the resulting token stream, for manual
// inspection and wire-level debugging.
package main

import (
	"encoding/base64"
	"encoding/json"
	"flag"
	"os"

	"github.com/coderudit/cosmosrntbd/internal/logging"
	"github.com/coderudit/cosmosrntbd/internal/rntbd"
	"github.com/rs/zerolog/log"
)

type requestDoc struct {
	OperationType   string            `json:"operationType"`
	ResourceType    string            `json:"resourceType"`
	ResourceID      string            `json:"resourceId"`
	ResourceAddress string            `json:"resourceAddress"`
	IsNameBased     bool              `json:"isNameBased"`
	ReplicaPath     string            `json:"replicaPath"`
	Content         string            `json:"content"`
	Continuation    string            `json:"continuation"`
	Headers         map[string]string `json:"headers"`
}

var opTypes = map[string]rntbd.OpType{
	"read": rntbd.OpRead, "readfeed": rntbd.OpReadFeed, "create": rntbd.OpCreate,
	"replace": rntbd.OpReplace, "delete": rntbd.OpDelete, "upsert": rntbd.OpUpsert,
	"query": rntbd.OpQuery, "sqlquery": rntbd.OpSQLQuery, "executejavascript": rntbd.OpExecuteJavaScript,
}

var resourceTypes = map[string]rntbd.ResourceType{
	"database": rntbd.ResourceDatabase, "documentcollection": rntbd.ResourceDocumentCollection,
	"document": rntbd.ResourceDocument, "user": rntbd.ResourceUser,
	"permission": rntbd.ResourcePermission, "storedprocedure": rntbd.ResourceStoredProcedure,
	"userdefinedfunction": rntbd.ResourceUserDefinedFunction, "trigger": rntbd.ResourceTrigger,
	"conflict": rntbd.ResourceConflict, "attachment": rntbd.ResourceAttachment,
	"schema": rntbd.ResourceSchema, "partitionkeyrange": rntbd.ResourcePartitionKeyRange,
	"offer": rntbd.ResourceOffer, "userdefinedtype": rntbd.ResourceUserDefinedType,
}

func main() {
	logging.ConfigureRuntime()

	inputPath := flag.String("in", "", "path to a JSON request document (default: stdin)")
	flag.Parse()

	var src *os.File
	if *inputPath == "" {
		src = os.Stdin
	} else {
		f, err := os.Open(*inputPath)
		if err != nil {
			log.Fatal().Err(err).Msg("rntbdcodec: cannot open input")
		}
		defer f.Close()
		src = f
	}

	var doc requestDoc
	if err := json.NewDecoder(src).Decode(&doc); err != nil {
		log.Fatal().Err(err).Msg("rntbdcodec: cannot parse request document")
	}

	req, err := toRequest(doc)
	if err != nil {
		log.Fatal().Err(err).Msg("rntbdcodec: invalid request document")
	}
	warnUnregisteredHeaders(req)

	stream, err := rntbd.Project(req)
	if err != nil {
		log.Fatal().Err(err).Msg("rntbdcodec: projection failed")
	}

	buf, err := stream.EncodeBytes()
	if err != nil {
		log.Fatal().Err(err).Msg("rntbdcodec: encode failed")
	}

	log.Info().Int("present_headers", len(stream.Present())).Int("bytes", len(buf)).Msg("projected request")
	os.Stdout.WriteString(base64.StdEncoding.EncodeToString(buf) + "\n")
}

func toRequest(doc requestDoc) (*rntbd.Request, error) {
	opType, ok := opTypes[lower(doc.OperationType)]
	if !ok {
		return nil, errUnknown("operationType", doc.OperationType)
	}
	resType, ok := resourceTypes[lower(doc.ResourceType)]
	if !ok {
		return nil, errUnknown("resourceType", doc.ResourceType)
	}
	return &rntbd.Request{
		OperationType:   opType,
		ResourceType:    resType,
		ResourceID:      doc.ResourceID,
		ResourceAddress: doc.ResourceAddress,
		IsNameBased:     doc.IsNameBased,
		ReplicaPath:     doc.ReplicaPath,
		Content:         []byte(doc.Content),
		Continuation:    doc.Continuation,
		Headers:         doc.Headers,
	}, nil
}

// warnUnregisteredHeaders logs, at debug level, every header name on req
// with no Header Registry entry -- these are silently ignored by the
// Projector (§4.4.4) but worth surfacing for a wire-level debugging tool.
func warnUnregisteredHeaders(req *rntbd.Request) {
	for name := range req.Headers {
		if _, ok := rntbd.LookupByHeaderName(name); !ok {
			log.Debug().Str("header", name).Msg("rntbdcodec: header has no registry entry, will be ignored by the projector")
		}
	}
}

func lower(s string) string {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out[i] = c
	}
	return string(out)
}

type unknownFieldError struct {
	field string
	value string
}

func (e *unknownFieldError) Error() string {
	return "rntbdcodec: unrecognized " + e.field + ": " + e.value
}

func errUnknown(field, value string) error {
	return &unknownFieldError{field: field, value: value}
}
