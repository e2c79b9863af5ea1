// Package cache holds the short-lived shared state of the hunt server: login
// rate limiting and per-user scan locks. Both come in a Redis flavour for
// multi-instance deployments and an in-process flavour used when no Redis
// address is configured.
package cache
