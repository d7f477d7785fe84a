package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/desertthunder/ytmirror/internal/shared"
	"github.com/desertthunder/ytmirror/internal/tasks"
	"github.com/urfave/cli/v3"
)

// mirrorOptions are the effective settings for a mirroring command after
// merging flag values over the configuration file.
type mirrorOptions struct {
	channelURL   string
	downloadPath string
	maxWorkers   int
	period       time.Duration
}

// loadConfig reloads configuration from the --config flag path, falling back
// to the config the runner was constructed with.
func (r *Runner) loadConfig(cmd *cli.Command) *shared.Config {
	path := cmd.String("config")
	if _, err := os.Stat(path); err == nil {
		if config, err := shared.LoadConfig(path); err == nil {
			return config
		}
		r.logger.Warn("failed to load config, using defaults", "path", path)
	}
	return r.config
}

// mirrorOptionsFrom merges command flags over config values. Flags win.
func mirrorOptionsFrom(cmd *cli.Command, config *shared.Config) (mirrorOptions, error) {
	opts := mirrorOptions{
		channelURL:   config.Channel.URL,
		downloadPath: config.Mirror.DownloadPath,
		maxWorkers:   config.Mirror.MaxWorkers,
		period:       time.Duration(config.Mirror.PeriodHours) * time.Hour,
	}

	if v := cmd.String("channel_url"); v != "" {
		opts.channelURL = v
	}
	if v := cmd.String("download_path"); v != "" {
		opts.downloadPath = v
	}
	if v := cmd.Int("max_workers"); v > 0 {
		opts.maxWorkers = v
	}
	if cmd.Name == "run" {
		if v := cmd.Int("period"); v > 0 {
			opts.period = time.Duration(v) * time.Hour
		}
	}

	if opts.channelURL == "" {
		return opts, fmt.Errorf("%w: channel_url must be set via flag or config", shared.ErrMissingConfig)
	}
	if opts.period <= 0 {
		opts.period = 24 * time.Hour
	}
	return opts, nil
}

// openHistory opens the pass-history database. History is best effort: when
// the database cannot be opened or migrated the mirror runs without it.
func (r *Runner) openHistory(config *shared.Config) (*tasks.History, func()) {
	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		r.logger.Warn("history database unavailable, continuing without history", "error", err)
		return nil, func() {}
	}

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		r.logger.Warn("history migrations failed, continuing without history", "error", err)
		db.Close()
		return nil, func() {}
	}

	return tasks.NewHistory(db, r.logger), func() { db.Close() }
}

// buildEngine resolves options and constructs the mirror engine.
// Channel resolution failure is returned to the caller and exits the
// process before any directories are created.
func (r *Runner) buildEngine(ctx context.Context, cmd *cli.Command) (*tasks.MirrorEngine, mirrorOptions, func(), error) {
	config := r.loadConfig(cmd)

	opts, err := mirrorOptionsFrom(cmd, config)
	if err != nil {
		return nil, opts, nil, err
	}

	engine, err := tasks.NewMirrorEngine(ctx, tasks.EngineOpts{
		Service:      r.service,
		Ledger:       r.ledger,
		Logger:       r.logger,
		ChannelURL:   opts.channelURL,
		DownloadRoot: opts.downloadPath,
		MaxWorkers:   opts.maxWorkers,
	})
	if err != nil {
		return nil, opts, nil, err
	}

	// History is opened only after channel resolution succeeds so a fatal
	// startup error leaves nothing behind on disk.
	history, closeHistory := r.openHistory(config)
	engine.AttachHistory(history)

	return engine, opts, closeHistory, nil
}

// watchProgress prints progress updates until the channel is closed, then
// closes done so callers can wait for the output to drain.
func (r *Runner) watchProgress(progressCh <-chan tasks.ProgressUpdate, done chan<- struct{}) {
	defer close(done)
	for update := range progressCh {
		switch update.Phase {
		case tasks.EnumeratePlaylists:
			r.writePlain("📥 %s\n", update.Message)
		case tasks.ProcessPlaylist:
			r.writePlain("\n🎵 [%d/%d] %s\n", update.Step, update.Total, update.Message)
		case tasks.FetchItems:
			r.writePlain("   %s\n", update.Message)
		case tasks.PassComplete:
			r.writePlain("\n✅ %s\n", update.Message)
		}
	}
}

// MirrorOnce performs a single mirroring pass and exits.
func (r *Runner) MirrorOnce(ctx context.Context, cmd *cli.Command) error {
	engine, _, cleanup, err := r.buildEngine(ctx, cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go r.watchProgress(progressCh, done)

	counts, err := engine.RunOnce(ctx, progressCh)
	close(progressCh)
	<-done
	if err != nil {
		return err
	}

	r.writePlainHeader("Mirroring Pass Complete")
	r.writePlain("Playlists: %d\n", counts.PlaylistsTotal)
	r.writePlain("Downloaded: %d\n", counts.ItemsDownloaded)
	r.writePlain("Skipped: %d\n", counts.ItemsSkipped)
	r.writePlain("Unavailable: %d\n", counts.ItemsUnavailable)
	r.writePlain("Failed: %d\n", counts.ItemsFailed)
	return nil
}

// MirrorRun mirrors the channel on a recurring schedule until interrupted.
func (r *Runner) MirrorRun(ctx context.Context, cmd *cli.Command) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine, opts, cleanup, err := r.buildEngine(ctx, cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go r.watchProgress(progressCh, done)
	defer func() {
		close(progressCh)
		<-done
	}()

	r.logger.Info("starting mirror daemon", "channel", engine.ChannelID(), "period", opts.period)

	if err := engine.Schedule(ctx, opts.period, progressCh); err != nil {
		if errors.Is(err, context.Canceled) {
			r.logger.Info("mirror daemon stopped")
			return nil
		}
		return err
	}
	return nil
}
