// Package cli is the interactive scanner client for the hunt.
//
// It wires configuration, the local SQLite session store, the gRPC client
// and a REPL. On start it restores a stored session, then accepts commands
// until the user exits. The camera command runs a hunt.ScanSession over
// frames that a capture tool writes into a directory; scan and paste cover
// single images and copied payloads.
package cli
