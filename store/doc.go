// Package store provides the volatile in-memory implementation of
// core.Store. It is safe for concurrent access and best suited for tests or
// ephemeral demo processes; durable deployments use store/sqlite.
package store
