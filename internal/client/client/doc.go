// Package client contains the client-side building blocks of the scanner CLI.
//
// # Overview
//
//  1. Client, the contract the CLI services use to talk to the hunt backend.
//     It embeds hunt.ProgressStore so progress writes from a local
//     hunt.Controller go through the server's compare-and-set RPC.
//  2. GRPCClient, the gRPC implementation. It attaches the access token to
//     every call, transparently refreshes an expired token once, and maps
//     status codes to sentinel errors.
//  3. InitDatabase and RunMigrations, which open the local SQLite file and
//     apply the embedded goose migrations.
//
// # Error Handling
//
// Transport conditions surface as ErrUnavailable, ErrUnauthorized and
// ErrNotLoggedIn. Domain conditions keep the shared sentinels from
// internal/common (ErrVersionConflict, ErrorNotFound, ErrorValidation, ...),
// so callers match both with errors.Is.
package client
