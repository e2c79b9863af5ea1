// Package config loads runtime configuration for the scanner CLI.
//
// Sources, in increasing precedence:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags.
//
// Supported flags
//
//	-a string   address:port of the hunt gRPC endpoint
//	-d string   path of the local SQLite database
//	-f string   directory the camera capture tool writes frames to
//	-i int      online status check interval (seconds)
//	-r int      frame decode interval (milliseconds)
//
// # JSON schema
//
// Intervals accept strings like "250ms" or integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "online_check_interval": "5s",
//	  "frames_dir": "/tmp/frames",
//	  "frame_interval": "250ms",
//	  "database_path": "schnitzeljagd.db",
//	  "log_level": "info"
//	}
package config
