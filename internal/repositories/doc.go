// Package repositories implements SQLite persistence for the pass history.
//
// Key Implementations:
//   - [PassRepository] : Pass records with channel and status queries
//   - [DownloadRepository] : Per-(item, variant) outcome records
//
// Sequence numbers provide stable, human-readable ordering (e.g., pass #42)
// independent of UUIDs and creation timestamps. The [NextSequence] function
// atomically increments per-table sequence counters in dedicated sequence tables.
//
// The history database is a reporting supplement: skip decisions are always
// driven by the per-playlist text ledger, never by these tables, so a lost or
// disabled database changes nothing about what gets downloaded.
package repositories
