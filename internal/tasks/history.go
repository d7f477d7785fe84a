package tasks

import (
	"database/sql"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytmirror/internal/models"
	"github.com/desertthunder/ytmirror/internal/repositories"
	"github.com/desertthunder/ytmirror/internal/services"
)

// History records passes and per-item outcomes in the database.
//
// The per-playlist ledger file remains the source of truth for completion;
// history exists for inspection only, so every method tolerates a nil
// receiver and logs persistence failures instead of propagating them.
type History struct {
	passes    *repositories.PassRepository
	downloads *repositories.DownloadRepository
	logger    *log.Logger
}

// NewHistory creates a History backed by the provided database.
func NewHistory(db *sql.DB, logger *log.Logger) *History {
	return &History{
		passes:    repositories.NewPassRepository(db),
		downloads: repositories.NewDownloadRepository(db),
		logger:    logger,
	}
}

// Passes exposes the underlying pass repository for read queries.
func (h *History) Passes() *repositories.PassRepository {
	if h == nil {
		return nil
	}
	return h.passes
}

// Downloads exposes the underlying download repository for read queries.
func (h *History) Downloads() *repositories.DownloadRepository {
	if h == nil {
		return nil
	}
	return h.downloads
}

// BeginPass opens a running pass record and returns it.
// Returns nil when history is disabled or the insert fails.
func (h *History) BeginPass(channelID string) *models.Pass {
	if h == nil {
		return nil
	}

	pass := models.NewPass(0, channelID)
	if err := h.passes.Create(pass); err != nil {
		h.logger.Error("failed to record pass start", "error", err)
		return nil
	}
	return pass
}

// RecordDownload persists the outcome of a single download attempt.
func (h *History) RecordDownload(pass *models.Pass, pl services.Playlist, res DownloadResult) {
	if h == nil || pass == nil {
		return
	}

	message := ""
	if res.Error != nil {
		message = res.Error.Error()
	}

	download := models.NewDownload(
		pass.ID(),
		pl.ID,
		pl.Title,
		res.Item.ID,
		res.Item.Title,
		res.Variant.String(),
		res.Outcome.String(),
		message,
	)
	if err := h.downloads.Create(download); err != nil {
		h.logger.Error("failed to record download outcome", "item", res.Item.ID, "error", err)
	}
}

// CompletePass marks the pass finished with the aggregated counts.
func (h *History) CompletePass(pass *models.Pass, counts models.PassCounts) {
	if h == nil || pass == nil {
		return
	}

	pass.Complete(counts)
	if err := h.passes.Update(pass); err != nil {
		h.logger.Error("failed to record pass completion", "pass", pass.ID(), "error", err)
	}
}
