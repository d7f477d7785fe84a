package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
)

func TestPlaylistsFromEntries(t *testing.T) {
	tc := []struct {
		name    string
		entries []flatEntry
		want    int
	}{
		{
			name: "playlist links kept",
			entries: []flatEntry{
				{Type: "url", ID: "PL1", Title: "First", URL: "https://www.youtube.com/playlist?list=PL1"},
				{Type: "url", ID: "PL2", Title: "Second", URL: "https://www.youtube.com/playlist?list=PL2"},
			},
			want: 2,
		},
		{
			name: "non-url entries filtered",
			entries: []flatEntry{
				{Type: "url", ID: "PL1", Title: "First", URL: "https://www.youtube.com/playlist?list=PL1"},
				{Type: "playlist", ID: "shelf", Title: "A shelf"},
				{Type: "", ID: "PL3", URL: "https://example.com"},
			},
			want: 1,
		},
		{
			name: "entries missing id or url filtered",
			entries: []flatEntry{
				{Type: "url", ID: "", URL: "https://www.youtube.com/playlist?list=PL1"},
				{Type: "url", ID: "PL2", URL: ""},
			},
			want: 0,
		},
		{
			name:    "empty listing",
			entries: nil,
			want:    0,
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := playlistsFromEntries(tt.entries)
			if len(got) != tt.want {
				t.Errorf("playlistsFromEntries() returned %d playlists, want %d", len(got), tt.want)
			}
		})
	}
}

func TestItemsFromEntries(t *testing.T) {
	t.Run("url fallback from video id", func(t *testing.T) {
		items := itemsFromEntries([]flatEntry{
			{ID: "abc123", Title: "No URL Entry"},
		})

		if len(items) != 1 {
			t.Fatalf("expected 1 item, got %d", len(items))
		}
		want := "https://www.youtube.com/watch?v=abc123"
		if items[0].OriginalURL != want {
			t.Errorf("expected fallback URL %q, got %q", want, items[0].OriginalURL)
		}
	})

	t.Run("entries without id skipped", func(t *testing.T) {
		items := itemsFromEntries([]flatEntry{
			{ID: "", Title: "Deleted video"},
			{ID: "keep", Title: "Kept", URL: "https://www.youtube.com/watch?v=keep"},
		})

		if len(items) != 1 {
			t.Fatalf("expected 1 item, got %d", len(items))
		}
		if items[0].ID != "keep" {
			t.Errorf("expected item 'keep', got %q", items[0].ID)
		}
	})
}

func TestFlatInfoParsing(t *testing.T) {
	doc := `{
		"_type": "playlist",
		"id": "UCchannel",
		"title": "Some Channel - Playlists",
		"entries": [
			{"_type": "url", "id": "PL1", "title": "Uploads", "url": "https://www.youtube.com/playlist?list=PL1"},
			{"_type": "video", "id": "v1", "title": "Stray video"}
		]
	}`

	var info flatInfo
	if err := json.Unmarshal([]byte(doc), &info); err != nil {
		t.Fatalf("failed to parse flat info: %v", err)
	}

	if info.ID != "UCchannel" {
		t.Errorf("expected channel id UCchannel, got %q", info.ID)
	}
	if len(info.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(info.Entries))
	}
	if got := playlistsFromEntries(info.Entries); len(got) != 1 {
		t.Errorf("expected 1 playlist after filtering, got %d", len(got))
	}
}

func TestIsUnavailable(t *testing.T) {
	tc := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
		{
			name: "unavailable marker",
			err:  errors.New("ERROR: [youtube] dQw4w9WgXcQ: Video unavailable"),
			want: true,
		},
		{
			name: "private video marker",
			err:  errors.New("ERROR: [youtube] abc: Private video. Sign in if you've been granted access"),
			want: true,
		},
		{
			name: "network failure",
			err:  fmt.Errorf("unable to download webpage: connection reset"),
			want: false,
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := isUnavailable(tt.err, nil); got != tt.want {
				t.Errorf("isUnavailable() = %v, want %v", got, tt.want)
			}
		})
	}
}
