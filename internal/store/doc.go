// Package store is the SQLite-backed compile cache.
//
// A compilation is stored under a content key: SHA-256 over the effective
// options fingerprint and the exact source bytes, with domain separation.
// Compilation is deterministic, so a key always maps to the same output and
// writes are idempotent.
//
// Every CLI invocation that uses the cache is recorded as a run with its hit,
// miss and failure counts. Runs and compilations are ordered by seq, a
// logical counter, never by wall-clock time.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: compilations are removed with their run
//   - temp_store=MEMORY: sort scratch space stays off disk
//
// Each pragma is read back after it is set; a cache whose filesystem cannot
// honor one fails to open. A cache written by a newer schema version is
// rejected with ErrNewerSchema and left untouched.
package store
