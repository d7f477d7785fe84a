// YouTube [Service] implementation backed by yt-dlp.
//
// Metadata discovery uses flat extraction (--flat-playlist --skip-download
// --dump-single-json) and parses the returned document into typed records,
// rejecting malformed entries at the boundary. Downloads delegate retrying
// of transient network and fragment failures to yt-dlp itself.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/ytmirror/internal/shared"
	"github.com/lrstanley/go-ytdlp"
)

const playlistsURLTemplate = "https://www.youtube.com/%s/playlists"
const watchURLTemplate = "https://www.youtube.com/watch?v=%s"

// entryTypeURL marks link entries in flat-extracted listings. Channel tabs
// mix shelves and other record shapes into the same entries array.
const entryTypeURL = "url"

// flatEntry is one entry of a flat-extracted listing.
type flatEntry struct {
	Type  string `json:"_type"`
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// flatInfo is the top-level document of a flat extraction.
type flatInfo struct {
	Type    string      `json:"_type"`
	ID      string      `json:"id"`
	Title   string      `json:"title"`
	Entries []flatEntry `json:"entries"`
}

// YouTubeService implements the Service interface using the yt-dlp binary.
type YouTubeService struct{}

// NewYouTubeService creates a new YouTube service instance.
func NewYouTubeService() *YouTubeService {
	return &YouTubeService{}
}

// Name returns the platform name.
func (y *YouTubeService) Name() string {
	return "YouTube"
}

// extractFlat runs a metadata-only flat extraction against the given URL.
func (y *YouTubeService) extractFlat(ctx context.Context, url string) (*flatInfo, error) {
	cmd := ytdlp.New().
		FlatPlaylist().
		SkipDownload().
		DumpSingleJSON()

	result, err := cmd.Run(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("metadata extraction failed: %w", err)
	}

	var info flatInfo
	if err := json.Unmarshal([]byte(result.Stdout), &info); err != nil {
		return nil, fmt.Errorf("failed to parse metadata: %w", err)
	}

	return &info, nil
}

// ResolveChannelID resolves a channel URL to its internal channel ID.
func (y *YouTubeService) ResolveChannelID(ctx context.Context, channelURL string) (string, error) {
	info, err := y.extractFlat(ctx, channelURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrChannelNotFound, err)
	}

	if info.ID == "" {
		return "", fmt.Errorf("%w: no id in channel metadata for %s", shared.ErrChannelNotFound, channelURL)
	}

	return info.ID, nil
}

// ListPlaylists returns the playlists published under the channel's playlists tab.
func (y *YouTubeService) ListPlaylists(ctx context.Context, channelID string) ([]Playlist, error) {
	info, err := y.extractFlat(ctx, fmt.Sprintf(playlistsURLTemplate, channelID))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrPlaylistListing, err)
	}

	return playlistsFromEntries(info.Entries), nil
}

// ListPlaylistItems returns the items of one playlist.
func (y *YouTubeService) ListPlaylistItems(ctx context.Context, playlistURL string) ([]Item, error) {
	info, err := y.extractFlat(ctx, playlistURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrPlaylistListing, err)
	}

	return itemsFromEntries(info.Entries), nil
}

// Download fetches one item with yt-dlp configured from the profile.
func (y *YouTubeService) Download(ctx context.Context, itemURL string, profile DownloadProfile) error {
	cmd := ytdlp.New().
		Output(profile.OutputTemplate)

	if profile.Format != "" {
		cmd.Format(profile.Format)
	}
	if profile.ConcurrentFragments > 0 {
		cmd.ConcurrentFragments(profile.ConcurrentFragments)
	}
	if profile.Retries > 0 {
		cmd.Retries(strconv.Itoa(profile.Retries))
	}
	if profile.FragmentRetries > 0 {
		cmd.FragmentRetries(strconv.Itoa(profile.FragmentRetries))
	}
	if profile.SkipUnavailableFragments {
		cmd.SkipUnavailableFragments()
	}
	if profile.ExtractAudio {
		cmd.ExtractAudio()
		if profile.AudioFormat != "" {
			cmd.AudioFormat(profile.AudioFormat)
		}
		if profile.AudioQuality != "" {
			cmd.AudioQuality(profile.AudioQuality)
		}
	}

	result, err := cmd.Run(ctx, itemURL)
	if err != nil {
		if isUnavailable(err, result) {
			return fmt.Errorf("%w: %v", shared.ErrItemUnavailable, err)
		}
		return fmt.Errorf("%w: %v", shared.ErrDownloadFailed, err)
	}

	return nil
}

// playlistsFromEntries keeps only well-formed playlist link entries.
func playlistsFromEntries(entries []flatEntry) []Playlist {
	playlists := make([]Playlist, 0, len(entries))
	for _, entry := range entries {
		if entry.Type != entryTypeURL || entry.ID == "" || entry.URL == "" {
			continue
		}
		playlists = append(playlists, Playlist{
			ID:    entry.ID,
			Title: entry.Title,
			URL:   entry.URL,
		})
	}
	return playlists
}

// itemsFromEntries converts flat playlist entries into items, skipping
// malformed records. Entries without a URL fall back to the canonical
// watch URL derived from the video ID.
func itemsFromEntries(entries []flatEntry) []Item {
	items := make([]Item, 0, len(entries))
	for _, entry := range entries {
		if entry.ID == "" {
			continue
		}
		url := entry.URL
		if url == "" {
			url = fmt.Sprintf(watchURLTemplate, entry.ID)
		}
		items = append(items, Item{
			ID:          entry.ID,
			Title:       entry.Title,
			OriginalURL: url,
		})
	}
	return items
}

// unavailableMarkers are yt-dlp diagnostics that identify an item as
// permanently gone rather than transiently failing.
var unavailableMarkers = []string{
	"video unavailable",
	"private video",
	"this video has been removed",
	"account associated with this video has been terminated",
	"video is no longer available",
}

func isUnavailable(err error, result *ytdlp.Result) bool {
	if err == nil {
		return false
	}
	detail := strings.ToLower(err.Error())
	if result != nil {
		detail += "\n" + strings.ToLower(result.Stderr)
	}
	for _, marker := range unavailableMarkers {
		if strings.Contains(detail, marker) {
			return true
		}
	}
	return false
}
