// package services defines interface Service for the video platform collaborator
package services

import "context"

// Service defines the platform operations the mirror core consumes: channel
// and playlist metadata discovery plus per-item media downloads.
//
// Implementations own all transport, retry, and transcoding concerns; the
// orchestration layer only classifies their errors.
type Service interface {
	// ResolveChannelID resolves a channel URL to the platform's internal channel ID.
	// Returns [shared.ErrChannelNotFound] if the URL does not identify a channel.
	ResolveChannelID(ctx context.Context, channelURL string) (string, error)

	// ListPlaylists returns all playlists published under the channel.
	// A channel with no playlists yields an empty slice, not an error.
	ListPlaylists(ctx context.Context, channelID string) ([]Playlist, error)

	// ListPlaylistItems returns the downloadable items of one playlist.
	ListPlaylistItems(ctx context.Context, playlistURL string) ([]Item, error)

	// Download fetches one item according to the profile.
	// Permanently unavailable items are reported as [shared.ErrItemUnavailable];
	// any other failure is final for this attempt (transient errors are retried
	// internally up to the profile's retry budget).
	Download(ctx context.Context, itemURL string, profile DownloadProfile) error

	// Name returns the name of the platform (e.g., "YouTube")
	Name() string
}

// Playlist represents one playlist discovered under a channel.
type Playlist struct {
	ID    string
	Title string
	URL   string
}

// Item represents one downloadable video entry within a playlist.
type Item struct {
	ID          string
	Title       string
	OriginalURL string
}

// DownloadProfile describes how a single item should be fetched and stored.
type DownloadProfile struct {
	OutputTemplate           string // output path template, e.g. "{dir}/%(title)s.%(ext)s"
	Format                   string // format selector passed to the extractor
	ConcurrentFragments      int
	Retries                  int
	FragmentRetries          int
	SkipUnavailableFragments bool

	// Audio extraction. When ExtractAudio is set the downloaded stream is
	// transcoded to AudioFormat at AudioQuality.
	ExtractAudio bool
	AudioFormat  string
	AudioQuality string
}
