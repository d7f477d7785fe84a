package tasks

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/desertthunder/ytmirror/internal/models"
	"github.com/desertthunder/ytmirror/internal/services"
)

// workUnit is one variant of one item queued for the worker pool.
type workUnit struct {
	item    services.Item
	variant Variant
}

// processPlaylist mirrors a single playlist and returns its outcome counts.
//
// Every failure here is contained: listing errors, directory errors, and
// individual download failures are logged and counted, never propagated,
// so one broken playlist cannot abort the rest of the pass.
func (e *MirrorEngine) processPlaylist(ctx context.Context, pass *models.Pass, pl services.Playlist, progress chan<- ProgressUpdate) models.PassCounts {
	var counts models.PassCounts

	logger := e.logger.With("playlist", pl.Title)
	dir := e.playlistDir(pl)

	for _, variant := range []Variant{VariantVideo, VariantAudio} {
		if err := os.MkdirAll(filepath.Join(dir, variant.String()), 0755); err != nil {
			logger.Error("failed to create playlist directory", "error", err)
			return counts
		}
	}

	done, err := e.ledger.Load(dir)
	if err != nil {
		logger.Error("failed to load completion ledger", "error", err)
		return counts
	}

	if err := e.limiter.Wait(ctx); err != nil {
		logger.Warn("playlist processing interrupted", "error", err)
		return counts
	}

	items, err := e.service.ListPlaylistItems(ctx, pl.URL)
	if err != nil {
		logger.Error("failed to list playlist items", "error", err)
		return counts
	}
	if len(items) == 0 {
		logger.Info("no videos found in playlist")
		return counts
	}

	units := make([]workUnit, 0, 2*len(items))
	for _, item := range items {
		units = append(units,
			workUnit{item: item, variant: VariantVideo},
			workUnit{item: item, variant: VariantAudio},
		)
	}

	e.sendProgress(progress, fetchItemsUpdate(0, len(items), pl))

	jobs := make(chan workUnit)
	results := make(chan DownloadResult, len(units))

	var wg sync.WaitGroup
	for i := 0; i < e.maxWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for unit := range jobs {
				results <- e.fetch(ctx, unit, dir, done, logger)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, unit := range units {
			select {
			case <-ctx.Done():
				return
			case jobs <- unit:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	// An item counts once per variant; the same item can succeed as video
	// and fail as audio within the same pass.
	for res := range results {
		switch res.Outcome {
		case Success:
			counts.ItemsDownloaded++
		case SkippedAlreadyDone:
			counts.ItemsSkipped++
		case SkippedUnavailable:
			counts.ItemsUnavailable++
		case Failed:
			counts.ItemsFailed++
		}
		e.history.RecordDownload(pass, pl, res)
	}

	logger.Info("playlist processed",
		"downloaded", counts.ItemsDownloaded,
		"skipped", counts.ItemsSkipped,
		"unavailable", counts.ItemsUnavailable,
		"failed", counts.ItemsFailed,
	)
	return counts
}
