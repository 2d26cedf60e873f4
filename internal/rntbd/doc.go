// Package rntbd implements the RNTBD request-header codec: the translation
// between a generic, string-keyed request (path, operation type, payload,
// textual headers) and the compact typed token stream carried on a direct
// TCP channel to a partition replica.
//
// Ownership boundary:
//   - registry.go / registry_data.toml: the static header catalog
//   - token.go / value.go: typed, present/absent wire cells
//   - stream.go: the ordered, id-keyed token collection and its wire codec
//   - projector.go (+ path.go, enums.go, resourceid): populating a stream
//     from a Request
//
// Transport, framing outside the token block, and all I/O live elsewhere;
// this package only ever sees an io.Writer/io.Reader for the token block
// itself.
package rntbd
