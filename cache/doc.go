// Package cache provides the TTL store for drug safety profiles.
//
// It exposes a Store interface with an in-memory implementation, drug-name
// key normalization, and a TTL policy with clamping. Entries expire lazily:
// expiry is checked on read and stale entries are removed there, so no
// background sweeper runs.
package cache
