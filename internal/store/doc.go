// Package store provides the SQLite-backed describe cache.
//
// Remote object descriptions are expensive to fetch, so the field list of
// each object is kept in a single table:
//
//	object_fields(object TEXT PRIMARY KEY, name TEXT, fields BLOB, revision INTEGER)
//
// The key is the case-folded object name (naming.Fold). Field lists are
// encoded with msgpack. The revision counts how often an object has been
// re-described.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//
// Schema changes are tracked with PRAGMA user_version.
package store
