// Package hunt holds the hunt progress controller: the linear waypoint state
// machine, scan payload validation, the view guard shared by all waypoint
// pages, and the scan session that keeps decoding and persistence mutually
// exclusive.
//
// The package has no transport or storage of its own. The server plugs a
// Postgres-backed ProgressStore into the Controller; the CLI plugs a gRPC
// one.
package hunt
