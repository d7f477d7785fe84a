package tasks

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytmirror/internal/shared"
)

// fetch downloads one variant of one item into the playlist directory.
//
// Items already present in the ledger snapshot are skipped without touching
// the network, which makes re-running a pass over a partially mirrored
// playlist idempotent. A successful download is appended to the ledger
// before the result is reported; if the append fails the attempt counts as
// failed so a later pass retries the item.
func (e *MirrorEngine) fetch(ctx context.Context, unit workUnit, dir string, done map[string]struct{}, logger *log.Logger) DownloadResult {
	res := DownloadResult{Item: unit.item, Variant: unit.variant}

	if _, ok := done[unit.item.ID]; ok {
		res.Outcome = SkippedAlreadyDone
		return res
	}

	logger.Info("attempting download", "title", unit.item.Title, "variant", unit.variant.String())

	err := e.service.Download(ctx, unit.item.OriginalURL, variantProfile(unit.variant, dir))
	switch {
	case err == nil:
		if recordErr := e.ledger.RecordDone(dir, unit.item.ID); recordErr != nil {
			logger.Error("downloaded but failed to record completion", "title", unit.item.Title, "error", recordErr)
			res.Outcome = Failed
			res.Error = recordErr
			return res
		}
		logger.Info("download completed", "title", unit.item.Title, "variant", unit.variant.String())
		res.Outcome = Success
	case errors.Is(err, shared.ErrItemUnavailable):
		logger.Warn("video is unavailable, skipping", "title", unit.item.Title)
		res.Outcome = SkippedUnavailable
		res.Error = err
	default:
		logger.Error("error occurred while downloading", "title", unit.item.Title, "variant", unit.variant.String(), "error", err)
		res.Outcome = Failed
		res.Error = err
	}
	return res
}
