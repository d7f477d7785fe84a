package tasks

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/desertthunder/ytmirror/internal/services"
	"github.com/desertthunder/ytmirror/internal/shared"
	tu "github.com/desertthunder/ytmirror/internal/testing"
)

func TestSchedule(t *testing.T) {
	t.Run("rejects a non-positive period", func(t *testing.T) {
		engine := newTestEngine(t, &tu.MockService{}, t.TempDir())
		if err := engine.Schedule(context.Background(), 0, nil); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})

	t.Run("stops when the context is cancelled", func(t *testing.T) {
		var passes atomic.Int32
		svc := &tu.MockService{
			ListPlaylistsFunc: func(ctx context.Context, channelID string) ([]services.Playlist, error) {
				passes.Add(1)
				return []services.Playlist{}, nil
			},
		}
		engine := newTestEngine(t, svc, t.TempDir())

		ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
		defer cancel()

		err := engine.Schedule(ctx, 10*time.Millisecond, nil)
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected DeadlineExceeded, got %v", err)
		}
		if got := passes.Load(); got < 2 {
			t.Errorf("expected repeated passes before cancellation, got %d", got)
		}
	})

	t.Run("passes never overlap when the period is overrun", func(t *testing.T) {
		var active, maxActive atomic.Int32
		svc := &tu.MockService{
			ListPlaylistsFunc: func(ctx context.Context, channelID string) ([]services.Playlist, error) {
				return []services.Playlist{
					{ID: "PL1", Title: "Focus Music", URL: "https://www.youtube.com/playlist?list=PL1"},
				}, nil
			},
			ListPlaylistItemsFunc: func(ctx context.Context, playlistURL string) ([]services.Item, error) {
				return []services.Item{
					{ID: "vid1", Title: "First", OriginalURL: "https://www.youtube.com/watch?v=vid1"},
				}, nil
			},
			DownloadFunc: func(ctx context.Context, itemURL string, profile services.DownloadProfile) error {
				current := active.Add(1)
				defer active.Add(-1)
				for {
					prev := maxActive.Load()
					if current <= prev || maxActive.CompareAndSwap(prev, current) {
						break
					}
				}
				// Each pass takes several periods so overdue passes queue up.
				time.Sleep(25 * time.Millisecond)
				return nil
			},
		}
		engine := newTestEngine(t, svc, t.TempDir())

		ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
		defer cancel()

		if err := engine.Schedule(ctx, 5*time.Millisecond, nil); !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected DeadlineExceeded, got %v", err)
		}
		if maxActive.Load() > 2 {
			t.Errorf("expected at most maxWorkers concurrent downloads, got %d", maxActive.Load())
		}
	})
}

func TestNextDue(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	period := time.Hour

	tc := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "pass finished within the period",
			now:  base.Add(30 * time.Minute),
			want: base.Add(period),
		},
		{
			name: "pass finished exactly on the deadline",
			now:  base.Add(period),
			want: base.Add(period),
		},
		{
			name: "overrun defers a single pass instead of a burst",
			now:  base.Add(3*period + 20*time.Minute),
			want: base.Add(3*period + 20*time.Minute),
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := nextDue(base, period, tt.now); !got.Equal(tt.want) {
				t.Errorf("nextDue() = %v, want %v", got, tt.want)
			}
		})
	}
}
