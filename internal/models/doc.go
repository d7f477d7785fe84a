// Package models defines domain entities and persistence interfaces for the playlist mirror service.
//
// The package contains the persistent entities backing the pass history:
//   - [Pass] : One full traversal of all channel playlists with aggregated item counts
//   - [Download] : The recorded outcome of a single (item, variant) fetch within a pass
//
// Both implement the Model interface providing ID generation, timestamps and validation.
// The Repository[T] interface defines standard CRUD operations for database access.
//
// The durable dedup ledger (downloaded_videos.txt per playlist directory) is NOT
// modelled here; it lives in the ledger package and remains the source of truth
// for skip decisions. These entities are reporting-only.
package models
