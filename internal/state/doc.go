// Package state provides the durable key-value blob store that projdash
// persists its recent list in.
//
// The store is deliberately dumb: values are opaque bytes, there are no
// transactions across Get and Set, and several projdash processes may share
// one store at the same time. Callers that need to notice writes by other
// processes compare a fingerprint stored inside the value.
//
// Backends:
//   - FileStore: one JSON file per key, written with temp file + rename
//   - BoltStore: a bbolt database with a single bucket
//   - MemStore: in-memory, for tests
package state
