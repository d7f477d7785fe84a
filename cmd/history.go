package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/ytmirror/internal/formatter"
	"github.com/desertthunder/ytmirror/internal/models"
	"github.com/desertthunder/ytmirror/internal/shared"
	"github.com/desertthunder/ytmirror/internal/tasks"
	"github.com/urfave/cli/v3"
)

// History lists recorded passes or, with --pass, per-item outcomes.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd)

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := shared.RunMigrations(db); err != nil {
		return err
	}

	history := tasks.NewHistory(db, r.logger)

	if passID := cmd.String("pass"); passID != "" {
		return r.historyDownloads(history, passID, cmd)
	}
	return r.historyPasses(history, cmd)
}

func (r *Runner) historyPasses(history *tasks.History, cmd *cli.Command) error {
	criteria := map[string]any{"limit": cmd.Int("limit")}
	passes, err := history.Passes().List(criteria)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		summaries := make([]formatter.PassSummary, 0, len(passes))
		for _, pass := range passes {
			summaries = append(summaries, formatter.NewPassSummary(pass))
		}
		return r.writeJSON(summaries, cmd.Bool("pretty"))
	}

	if len(passes) == 0 {
		r.writePlain("No passes recorded yet. Run 'ytmirror once' to start.\n")
		return nil
	}

	r.writePlainHeader("Mirroring Passes")
	for _, pass := range passes {
		counts := pass.Counts()
		r.writePlain("#%d %s  %s\n", pass.Sequence(), pass.StartedAt().Format(time.RFC3339), pass.Status())
		r.writePlain("   id: %s\n", pass.ID())
		r.writePlain("   playlists: %d, downloaded: %d, skipped: %d, unavailable: %d, failed: %d\n",
			counts.PlaylistsTotal, counts.ItemsDownloaded, counts.ItemsSkipped,
			counts.ItemsUnavailable, counts.ItemsFailed)
	}
	return nil
}

func (r *Runner) historyDownloads(history *tasks.History, passID string, cmd *cli.Command) error {
	pass, err := history.Passes().Get(passID)
	if err != nil {
		return err
	}

	var downloads []*models.Download
	if cmd.Bool("failures") {
		downloads, err = history.Downloads().ListFailures(passID)
	} else {
		downloads, err = history.Downloads().ListByPass(passID)
	}
	if err != nil {
		return err
	}

	if format := cmd.String("export"); format != "" {
		return r.exportReport(&formatter.PassReport{Pass: pass, Downloads: downloads}, format, cmd.String("output"))
	}

	if cmd.Bool("json") {
		rows := make([]formatter.DownloadRow, 0, len(downloads))
		for _, d := range downloads {
			rows = append(rows, formatter.NewDownloadRow(d))
		}
		return r.writeJSON(rows, cmd.Bool("pretty"))
	}

	if len(downloads) == 0 {
		r.writePlain("No downloads recorded for pass %s\n", passID)
		return nil
	}

	r.writePlainHeader("Downloads for pass " + passID)
	for _, d := range downloads {
		r.writePlain("[%s] %s (%s) - %s\n", d.Outcome(), d.ItemTitle(), d.Variant(), d.PlaylistTitle())
		if d.ErrorMessage() != "" {
			r.writePlain("   error: %s\n", d.ErrorMessage())
		}
	}
	return nil
}

// exportReport writes a pass report in the requested format.
func (r *Runner) exportReport(report *formatter.PassReport, format, output string) error {
	switch format {
	case "csv":
		result, err := formatter.WriteCSVExport(report, output)
		if err != nil {
			return err
		}
		r.writePlain("Exported %s and %s\n", result.DownloadsFile, result.SummaryFile)
	case "markdown", "md":
		mdFile, err := formatter.WriteMarkdownExport(report, output)
		if err != nil {
			return err
		}
		r.writePlain("Exported %s\n", mdFile)
	case "txt", "text":
		path, err := formatter.WriteTextExport(report, output)
		if err != nil {
			return err
		}
		r.writePlain("Exported %s\n", path)
	default:
		return fmt.Errorf("%w: unsupported export format %q", shared.ErrInvalidFlag, format)
	}
	return nil
}
