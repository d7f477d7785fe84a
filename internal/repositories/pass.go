package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/ytmirror/internal/models"
	"github.com/desertthunder/ytmirror/internal/shared"
)

// PassRepository implements models.Repository[*models.Pass] for pass history.
type PassRepository struct {
	db *sql.DB
}

// NewPassRepository creates a new PassRepository with the given database connection
func NewPassRepository(db *sql.DB) *PassRepository {
	return &PassRepository{db: db}
}

// Create inserts a new pass into the database with generated ID and sequence
func (r *PassRepository) Create(pass *models.Pass) error {
	sequence, err := NextSequence(r.db, "passes")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	pass.SetID(id)
	pass.SetSequence(sequence)

	if err := pass.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	counts := pass.Counts()

	query := `
		INSERT INTO passes (
			id, sequence, channel_id, status, playlists_total,
			items_downloaded, items_skipped, items_unavailable, items_failed,
			started_at, finished_at, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var finishedAt any
	if !pass.FinishedAt().IsZero() {
		finishedAt = pass.FinishedAt()
	}

	_, err = r.db.Exec(query,
		id,
		sequence,
		pass.ChannelID(),
		pass.Status(),
		counts.PlaylistsTotal,
		counts.ItemsDownloaded,
		counts.ItemsSkipped,
		counts.ItemsUnavailable,
		counts.ItemsFailed,
		pass.StartedAt(),
		finishedAt,
		pass.CreatedAt(),
		pass.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert pass: %w", err)
	}

	return nil
}

// Get retrieves a pass by ID
func (r *PassRepository) Get(id string) (*models.Pass, error) {
	query := `
		SELECT id, sequence, channel_id, status, playlists_total,
			items_downloaded, items_skipped, items_unavailable, items_failed,
			started_at, finished_at, created_at, updated_at
		FROM passes
		WHERE id = ?
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// Update persists the pass's mutable fields (status, counts, finish time)
func (r *PassRepository) Update(pass *models.Pass) error {
	if err := pass.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	pass.SetUpdatedAt(now)

	counts := pass.Counts()

	var finishedAt any
	if !pass.FinishedAt().IsZero() {
		finishedAt = pass.FinishedAt()
	}

	query := `
		UPDATE passes
		SET status = ?, playlists_total = ?, items_downloaded = ?,
			items_skipped = ?, items_unavailable = ?, items_failed = ?,
			finished_at = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query,
		pass.Status(),
		counts.PlaylistsTotal,
		counts.ItemsDownloaded,
		counts.ItemsSkipped,
		counts.ItemsUnavailable,
		counts.ItemsFailed,
		finishedAt,
		now,
		pass.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update pass: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("pass not found: %s", pass.ID())
	}

	return nil
}

// Delete removes a pass and its download records
func (r *PassRepository) Delete(id string) error {
	if _, err := r.db.Exec("DELETE FROM downloads WHERE pass_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete pass downloads: %w", err)
	}

	result, err := r.db.Exec("DELETE FROM passes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete pass: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("pass not found: %s", id)
	}

	return nil
}

// List retrieves passes matching the given criteria, most recent first
func (r *PassRepository) List(criteria map[string]any) ([]*models.Pass, error) {
	query := `
		SELECT id, sequence, channel_id, status, playlists_total,
			items_downloaded, items_skipped, items_unavailable, items_failed,
			started_at, finished_at, created_at, updated_at
		FROM passes
		WHERE 1 = 1
	`

	args := []any{}

	if channelID, ok := criteria["channel_id"].(string); ok && channelID != "" {
		query += " AND channel_id = ?"
		args = append(args, channelID)
	}

	if status, ok := criteria["status"].(string); ok && status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}

	query += " ORDER BY sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query passes: %w", err)
	}
	defer rows.Close()

	var passes []*models.Pass
	for rows.Next() {
		pass, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		passes = append(passes, pass)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return passes, nil
}

type passScanner interface {
	Scan(dest ...any) error
}

func scanPass(s passScanner) (*models.Pass, error) {
	var (
		id         string
		sequence   int
		channelID  string
		status     string
		counts     models.PassCounts
		startedAt  time.Time
		finishedAt sql.NullTime
		createdAt  time.Time
		updatedAt  time.Time
	)

	err := s.Scan(&id, &sequence, &channelID, &status,
		&counts.PlaylistsTotal, &counts.ItemsDownloaded, &counts.ItemsSkipped,
		&counts.ItemsUnavailable, &counts.ItemsFailed,
		&startedAt, &finishedAt, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("pass not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan pass: %w", err)
	}

	return models.RestorePass(id, sequence, channelID, status, counts,
		startedAt, finishedAt.Time, createdAt, updatedAt), nil
}

func (r *PassRepository) scanOne(row *sql.Row) (*models.Pass, error) {
	return scanPass(row)
}

func (r *PassRepository) scanRow(rows *sql.Rows) (*models.Pass, error) {
	return scanPass(rows)
}
