// Package store provides SQLite-backed storage for tagged documents.
//
// Every row keeps the wire tag next to the encoded payload, so old documents
// stay readable after their chain gains versions and can be analyzed or
// upgraded in bulk without decoding them first.
//
//   - documents: one row per value (id, kind, tag, payload)
//   - upgrades: one row per in-place upgrade (document_id, from_tag, to_tag)
//
// # Ordering
//
// All listings use ORDER BY seq ASC, id ASC COLLATE BINARY. seq is the
// insertion order assigned by SQLite, never a timestamp.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait on lock contention
//   - foreign_keys=ON: upgrades must reference an existing document
//   - One open connection: SQLite allows a single writer
package store
