package models

import (
	"fmt"
	"time"
)

// Download is the recorded outcome of one (item, variant) fetch within a pass.
type Download struct {
	id            string
	passID        string
	playlistID    string
	playlistTitle string
	itemID        string
	itemTitle     string
	variant       string
	outcome       string
	errorMessage  string
	createdAt     time.Time
	updatedAt     time.Time
}

// NewDownload creates a download record for the given pass.
func NewDownload(passID, playlistID, playlistTitle, itemID, itemTitle, variant, outcome, errorMessage string) *Download {
	now := time.Now()
	return &Download{
		passID:        passID,
		playlistID:    playlistID,
		playlistTitle: playlistTitle,
		itemID:        itemID,
		itemTitle:     itemTitle,
		variant:       variant,
		outcome:       outcome,
		errorMessage:  errorMessage,
		createdAt:     now,
		updatedAt:     now,
	}
}

// RestoreDownload rebuilds a download record from persisted state.
func RestoreDownload(id, passID, playlistID, playlistTitle, itemID, itemTitle, variant, outcome, errorMessage string, createdAt, updatedAt time.Time) *Download {
	return &Download{
		id:            id,
		passID:        passID,
		playlistID:    playlistID,
		playlistTitle: playlistTitle,
		itemID:        itemID,
		itemTitle:     itemTitle,
		variant:       variant,
		outcome:       outcome,
		errorMessage:  errorMessage,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

func (d *Download) ID() string { return d.id }
func (d *Download) PassID() string { return d.passID }
func (d *Download) PlaylistID() string { return d.playlistID }
func (d *Download) PlaylistTitle() string { return d.playlistTitle }
func (d *Download) ItemID() string { return d.itemID }
func (d *Download) ItemTitle() string { return d.itemTitle }
func (d *Download) Variant() string { return d.variant }
func (d *Download) Outcome() string { return d.outcome }
func (d *Download) ErrorMessage() string { return d.errorMessage }
func (d *Download) CreatedAt() time.Time { return d.createdAt }
func (d *Download) UpdatedAt() time.Time { return d.updatedAt }

func (d *Download) SetID(id string) { d.id = id }

// Validate checks the download record invariants before persistence.
func (d *Download) Validate() error {
	if d.passID == "" {
		return fmt.Errorf("download requires a pass id")
	}
	if d.itemID == "" {
		return fmt.Errorf("download requires an item id")
	}
	if d.variant == "" {
		return fmt.Errorf("download requires a variant")
	}
	if d.outcome == "" {
		return fmt.Errorf("download requires an outcome")
	}
	return nil
}
