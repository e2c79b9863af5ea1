// Package api is the wire contract between the hunt server and the scanner
// client: plain Go message structs carried over gRPC with a JSON codec, a
// hand-maintained service descriptor and a typed client stub.
package api
