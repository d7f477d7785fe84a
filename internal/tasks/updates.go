package tasks

import (
	"fmt"

	"github.com/desertthunder/ytmirror/internal/services"
)

// ProgressUpdate represents a progress event during a mirroring pass.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	EnumeratePlaylists Phase = iota
	ProcessPlaylist
	FetchItems
	PassComplete
)

func (p Phase) String() string {
	switch p {
	case EnumeratePlaylists:
		return "enumerate_playlists"
	case ProcessPlaylist:
		return "process_playlist"
	case FetchItems:
		return "fetch_items"
	case PassComplete:
		return "pass_complete"
	default:
		return ""
	}
}

func enumeratePlaylistsUpdate(channelID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   EnumeratePlaylists,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching playlists for channel %s...", channelID),
	}
}

func processPlaylistUpdate(step, total int, pl services.Playlist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ProcessPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Processing playlist: %s", pl.Title),
		Data:    pl,
	}
}

func fetchItemsUpdate(step, total int, pl services.Playlist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchItems,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Downloading %d items from %s...", total, pl.Title),
	}
}

func passCompleteUpdate(sequence int64, summary string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PassComplete,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Pass %d complete: %s", sequence, summary),
	}
}
