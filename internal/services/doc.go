// Package services defines the [Service] interface for the video platform
// collaborator and implements it for YouTube via yt-dlp.
//
// # Service Interface
//
// The mirror core consumes exactly four platform operations: channel ID
// resolution, channel playlist listing, playlist item listing, and per-item
// downloads. Everything else (stream selection, fragment retries, muxing,
// audio transcoding) stays inside the implementation.
//
// # YouTube Implementation
//
// [YouTubeService] drives the yt-dlp binary through go-ytdlp. Metadata
// queries use flat extraction so no media bytes move during discovery;
// downloads are configured per call from a [DownloadProfile].
//
// # Error Handling
//
// Implementations classify failures with typed errors from the shared
// package so callers can branch with [errors.Is]:
//   - [shared.ErrChannelNotFound] : channel URL did not resolve (fatal at startup)
//   - [shared.ErrPlaylistListing] : listing call failed (pass-level, non-fatal)
//   - [shared.ErrItemUnavailable] : item permanently gone (skipped, no retry)
//   - [shared.ErrDownloadFailed] : any other download failure (retried next pass)
package services
