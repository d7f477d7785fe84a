package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/ytmirror/internal/models"
	"github.com/desertthunder/ytmirror/internal/shared"
)

// DownloadRepository persists per-(item, variant) outcomes for pass history.
type DownloadRepository struct {
	db *sql.DB
}

// NewDownloadRepository creates a new DownloadRepository with the given database connection
func NewDownloadRepository(db *sql.DB) *DownloadRepository {
	return &DownloadRepository{db: db}
}

// Create inserts a new download record with a generated ID
func (r *DownloadRepository) Create(download *models.Download) error {
	id := shared.GenerateID()
	download.SetID(id)

	if err := download.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO downloads (
			id, pass_id, playlist_id, playlist_title, item_id, item_title,
			variant, outcome, error_message, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var errorMessage any = download.ErrorMessage()
	if errorMessage == "" {
		errorMessage = nil
	}

	_, err := r.db.Exec(query,
		id,
		download.PassID(),
		download.PlaylistID(),
		download.PlaylistTitle(),
		download.ItemID(),
		download.ItemTitle(),
		download.Variant(),
		download.Outcome(),
		errorMessage,
		download.CreatedAt(),
		download.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert download: %w", err)
	}

	return nil
}

// ListByPass retrieves all download records for one pass in insertion order
func (r *DownloadRepository) ListByPass(passID string) ([]*models.Download, error) {
	return r.list("SELECT id, pass_id, playlist_id, playlist_title, item_id, item_title, variant, outcome, error_message, created_at, updated_at FROM downloads WHERE pass_id = ? ORDER BY created_at ASC", passID)
}

// ListFailures retrieves the failed download records for one pass
func (r *DownloadRepository) ListFailures(passID string) ([]*models.Download, error) {
	return r.list("SELECT id, pass_id, playlist_id, playlist_title, item_id, item_title, variant, outcome, error_message, created_at, updated_at FROM downloads WHERE pass_id = ? AND outcome = 'failed' ORDER BY created_at ASC", passID)
}

func (r *DownloadRepository) list(query string, args ...any) ([]*models.Download, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query downloads: %w", err)
	}
	defer rows.Close()

	var downloads []*models.Download
	for rows.Next() {
		var (
			id            string
			passID        string
			playlistID    string
			playlistTitle string
			itemID        string
			itemTitle     string
			variant       string
			outcome       string
			errorMessage  sql.NullString
			createdAt     time.Time
			updatedAt     time.Time
		)

		err := rows.Scan(&id, &passID, &playlistID, &playlistTitle, &itemID,
			&itemTitle, &variant, &outcome, &errorMessage, &createdAt, &updatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan download: %w", err)
		}

		downloads = append(downloads, models.RestoreDownload(id, passID, playlistID,
			playlistTitle, itemID, itemTitle, variant, outcome, errorMessage.String,
			createdAt, updatedAt))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return downloads, nil
}
