package repositories

import (
	"database/sql"
	"testing"

	"github.com/desertthunder/ytmirror/internal/models"
	"github.com/desertthunder/ytmirror/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func TestPassRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewPassRepository(db)
		pass := models.NewPass(0, "UCchannel")

		if err := repo.Create(pass); err != nil {
			t.Fatalf("failed to create pass: %v", err)
		}

		if pass.ID() == "" {
			t.Error("pass ID should be set after creation")
		}
	})

	t.Run("Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewPassRepository(db)
		pass := models.NewPass(0, "UCchannel")

		if err := repo.Create(pass); err != nil {
			t.Fatalf("failed to create pass: %v", err)
		}

		retrieved, err := repo.Get(pass.ID())
		if err != nil {
			t.Fatalf("failed to get pass: %v", err)
		}

		if retrieved.ID() != pass.ID() {
			t.Errorf("expected ID %s, got %s", pass.ID(), retrieved.ID())
		}
		if retrieved.ChannelID() != "UCchannel" {
			t.Errorf("expected channel UCchannel, got %s", retrieved.ChannelID())
		}
		if retrieved.Status() != models.PassStatusRunning {
			t.Errorf("expected running status, got %s", retrieved.Status())
		}
	})

	t.Run("Update completes pass with counts", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewPassRepository(db)
		pass := models.NewPass(0, "UCchannel")

		if err := repo.Create(pass); err != nil {
			t.Fatalf("failed to create pass: %v", err)
		}

		pass.Complete(models.PassCounts{
			PlaylistsTotal:   2,
			ItemsDownloaded:  4,
			ItemsSkipped:     1,
			ItemsUnavailable: 1,
			ItemsFailed:      2,
		})

		if err := repo.Update(pass); err != nil {
			t.Fatalf("failed to update pass: %v", err)
		}

		retrieved, err := repo.Get(pass.ID())
		if err != nil {
			t.Fatalf("failed to get pass: %v", err)
		}

		if retrieved.Status() != models.PassStatusCompleted {
			t.Errorf("expected completed status, got %s", retrieved.Status())
		}
		if retrieved.Counts().ItemsDownloaded != 4 {
			t.Errorf("expected 4 downloaded, got %d", retrieved.Counts().ItemsDownloaded)
		}
		if retrieved.FinishedAt().IsZero() {
			t.Error("expected finished_at to be set")
		}
	})

	t.Run("List orders recent first with limit", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewPassRepository(db)

		var last *models.Pass
		for i := 0; i < 3; i++ {
			last = models.NewPass(0, "UCchannel")
			if err := repo.Create(last); err != nil {
				t.Fatalf("failed to create pass: %v", err)
			}
		}

		passes, err := repo.List(map[string]any{"channel_id": "UCchannel", "limit": 2})
		if err != nil {
			t.Fatalf("failed to list passes: %v", err)
		}

		if len(passes) != 2 {
			t.Fatalf("expected 2 passes, got %d", len(passes))
		}
		if passes[0].ID() != last.ID() {
			t.Error("expected most recent pass first")
		}
		if passes[0].Sequence() <= passes[1].Sequence() {
			t.Error("expected descending sequence order")
		}
	})

	t.Run("Delete removes pass and downloads", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		passRepo := NewPassRepository(db)
		dlRepo := NewDownloadRepository(db)

		pass := models.NewPass(0, "UCchannel")
		if err := passRepo.Create(pass); err != nil {
			t.Fatalf("failed to create pass: %v", err)
		}

		dl := models.NewDownload(pass.ID(), "PL1", "Mix", "vid1", "A Video", "video", "success", "")
		if err := dlRepo.Create(dl); err != nil {
			t.Fatalf("failed to create download: %v", err)
		}

		if err := passRepo.Delete(pass.ID()); err != nil {
			t.Fatalf("failed to delete pass: %v", err)
		}

		if _, err := passRepo.Get(pass.ID()); err == nil {
			t.Error("expected error getting deleted pass")
		}

		downloads, err := dlRepo.ListByPass(pass.ID())
		if err != nil {
			t.Fatalf("failed to list downloads: %v", err)
		}
		if len(downloads) != 0 {
			t.Errorf("expected no downloads after delete, got %d", len(downloads))
		}
	})
}

func TestDownloadRepository(t *testing.T) {
	seed := func(t *testing.T, db *sql.DB) (*PassRepository, *DownloadRepository, *models.Pass) {
		t.Helper()
		passRepo := NewPassRepository(db)
		dlRepo := NewDownloadRepository(db)
		pass := models.NewPass(0, "UCchannel")
		if err := passRepo.Create(pass); err != nil {
			t.Fatalf("failed to create pass: %v", err)
		}
		return passRepo, dlRepo, pass
	}

	t.Run("Create and ListByPass", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		_, dlRepo, pass := seed(t, db)

		records := []*models.Download{
			models.NewDownload(pass.ID(), "PL1", "Mix", "vid1", "First", "video", "success", ""),
			models.NewDownload(pass.ID(), "PL1", "Mix", "vid1", "First", "audio", "success", ""),
			models.NewDownload(pass.ID(), "PL1", "Mix", "vid2", "Second", "video", "failed", "network timeout"),
		}
		for _, rec := range records {
			if err := dlRepo.Create(rec); err != nil {
				t.Fatalf("failed to create download: %v", err)
			}
		}

		downloads, err := dlRepo.ListByPass(pass.ID())
		if err != nil {
			t.Fatalf("failed to list downloads: %v", err)
		}
		if len(downloads) != 3 {
			t.Fatalf("expected 3 downloads, got %d", len(downloads))
		}
	})

	t.Run("ListFailures", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		_, dlRepo, pass := seed(t, db)

		ok := models.NewDownload(pass.ID(), "PL1", "Mix", "vid1", "First", "video", "success", "")
		bad := models.NewDownload(pass.ID(), "PL1", "Mix", "vid2", "Second", "audio", "failed", "transcode error")
		for _, rec := range []*models.Download{ok, bad} {
			if err := dlRepo.Create(rec); err != nil {
				t.Fatalf("failed to create download: %v", err)
			}
		}

		failures, err := dlRepo.ListFailures(pass.ID())
		if err != nil {
			t.Fatalf("failed to list failures: %v", err)
		}
		if len(failures) != 1 {
			t.Fatalf("expected 1 failure, got %d", len(failures))
		}
		if failures[0].ItemID() != "vid2" {
			t.Errorf("expected failure for vid2, got %s", failures[0].ItemID())
		}
		if failures[0].ErrorMessage() != "transcode error" {
			t.Errorf("unexpected error message: %q", failures[0].ErrorMessage())
		}
	})

	t.Run("Create validates required fields", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		_, dlRepo, pass := seed(t, db)

		invalid := models.NewDownload(pass.ID(), "PL1", "Mix", "", "Untitled", "video", "failed", "")
		if err := dlRepo.Create(invalid); err == nil {
			t.Error("expected validation error for missing item id")
		}
	})
}
