package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/ytmirror/internal/models"
	"github.com/desertthunder/ytmirror/internal/shared"
)

// RunOnce performs a single mirroring pass over every playlist of the channel.
//
// Only one pass may run at a time; a call made while another pass is in
// flight returns shared.ErrPassInProgress without doing any work. Playlist
// failures are absorbed inside the pass, so a non-nil error means the pass
// never started or was cancelled, not that some items failed.
func (e *MirrorEngine) RunOnce(ctx context.Context, progress chan<- ProgressUpdate) (models.PassCounts, error) {
	var counts models.PassCounts

	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return counts, shared.ErrPassInProgress
	}
	e.running = true
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
	}()

	started := time.Now()
	pass := e.history.BeginPass(e.channelID)

	e.logger.Info("starting mirroring pass", "channel", e.channelID)
	e.sendProgress(progress, enumeratePlaylistsUpdate(e.channelID))

	if err := e.limiter.Wait(ctx); err != nil {
		e.history.CompletePass(pass, counts)
		return counts, err
	}

	playlists, err := e.service.ListPlaylists(ctx, e.channelID)
	if err != nil {
		e.logger.Error("failed to list channel playlists", "error", err)
		e.history.CompletePass(pass, counts)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return counts, err
		}
		return counts, nil
	}
	if len(playlists) == 0 {
		e.logger.Info("no playlists found in the channel")
	}

	counts.PlaylistsTotal = len(playlists)
	for i, pl := range playlists {
		if ctx.Err() != nil {
			break
		}
		e.sendProgress(progress, processPlaylistUpdate(i+1, len(playlists), pl))
		counts.Add(e.processPlaylist(ctx, pass, pl, progress))
	}

	e.history.CompletePass(pass, counts)

	summary := fmt.Sprintf("%d playlists, %d downloaded, %d skipped, %d unavailable, %d failed",
		counts.PlaylistsTotal, counts.ItemsDownloaded, counts.ItemsSkipped,
		counts.ItemsUnavailable, counts.ItemsFailed)
	e.logger.Info("mirroring pass finished", "duration", time.Since(started).Round(time.Second), "summary", summary)

	var sequence int64
	if pass != nil {
		sequence = int64(pass.Sequence())
	}
	e.sendProgress(progress, passCompleteUpdate(sequence, summary))

	return counts, ctx.Err()
}

// Schedule runs passes on a fixed cadence until the context is cancelled.
//
// Deadlines are computed by advancing the previous deadline, never from the
// completion time, so the cadence does not drift when passes take long. A
// pass that overruns its period is followed immediately by one deferred
// pass; periods missed during the overrun are not replayed. Overlapping
// passes are impossible because the loop only starts a pass after the
// previous call returns.
func (e *MirrorEngine) Schedule(ctx context.Context, period time.Duration, progress chan<- ProgressUpdate) error {
	if period <= 0 {
		return fmt.Errorf("%w: period must be positive, got %s", shared.ErrInvalidFlag, period)
	}

	due := time.Now()
	for {
		if wait := time.Until(due); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		} else if ctx.Err() != nil {
			return ctx.Err()
		}

		if _, err := e.RunOnce(ctx, progress); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			e.logger.Error("mirroring pass failed", "error", err)
		}

		due = nextDue(due, period, time.Now())
		e.logger.Info("next pass scheduled", "at", due.Format(time.RFC3339))
	}
}

// nextDue advances the schedule one period past the previous deadline.
// When the pass overran the deadline the next pass is due immediately,
// but the missed periods are not queued up behind it.
func nextDue(due time.Time, period time.Duration, now time.Time) time.Time {
	due = due.Add(period)
	if due.Before(now) {
		return now
	}
	return due
}
