// Package store provides SQLite-backed storage for value graphs and
// finished routines.
//
// Values are content addressed: a node is stored once under its structural
// hash, whatever pool or position it came from. Reading a value back
// rebuilds it in a caller-supplied pool with structural sharing, and checks
// every rebuilt node against the hash it was stored under.
//
// Routines are grouped by compilation unit. Unit IDs are UUIDv7, so they
// sort by creation time. Within a unit routines come back in the order
// they were stored.
//
// # Records
//
// Node and routine records are canonical CBOR. Quoted values inside a
// routine are stored as nodes and referenced by hash.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
