// Package store provides the SQLite-backed compilation archive.
//
// Each archived compilation records the program source and hash, the table
// hash and the ordered rows. The archive is append-only:
//
//   - (program_hash, table_hash) is UNIQUE, so rewriting is a no-op
//   - ordering uses seq INTEGER (logical clock), never timestamps
//   - queries order by seq ASC, id ASC COLLATE BINARY
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Hashes are computed by internal/ir (canonical JSON, SHA-256 with domain
// separation). The store never recomputes them.
package store
