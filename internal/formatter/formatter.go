// package formatter provides functions to export pass reports to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/desertthunder/ytmirror/internal/models"
)

// PassReport bundles a recorded pass with its download attempts.
type PassReport struct {
	Pass      *models.Pass
	Downloads []*models.Download
}

// PassSummary is the serializable projection of a recorded pass.
type PassSummary struct {
	ID               string `json:"id"`
	Sequence         int    `json:"sequence"`
	ChannelID        string `json:"channel_id"`
	Status           string `json:"status"`
	PlaylistsTotal   int    `json:"playlists_total"`
	ItemsDownloaded  int    `json:"items_downloaded"`
	ItemsSkipped     int    `json:"items_skipped"`
	ItemsUnavailable int    `json:"items_unavailable"`
	ItemsFailed      int    `json:"items_failed"`
	StartedAt        string `json:"started_at"`
	FinishedAt       string `json:"finished_at,omitempty"`
}

// DownloadRow is the serializable projection of one download attempt.
type DownloadRow struct {
	PlaylistID    string `json:"playlist_id"`
	PlaylistTitle string `json:"playlist_title"`
	ItemID        string `json:"item_id"`
	ItemTitle     string `json:"item_title"`
	Variant       string `json:"variant"`
	Outcome       string `json:"outcome"`
	Error         string `json:"error,omitempty"`
}

// NewPassSummary builds the serializable view of a pass.
func NewPassSummary(pass *models.Pass) PassSummary {
	counts := pass.Counts()
	summary := PassSummary{
		ID:               pass.ID(),
		Sequence:         pass.Sequence(),
		ChannelID:        pass.ChannelID(),
		Status:           pass.Status(),
		PlaylistsTotal:   counts.PlaylistsTotal,
		ItemsDownloaded:  counts.ItemsDownloaded,
		ItemsSkipped:     counts.ItemsSkipped,
		ItemsUnavailable: counts.ItemsUnavailable,
		ItemsFailed:      counts.ItemsFailed,
		StartedAt:        pass.StartedAt().Format(time.RFC3339),
	}
	if !pass.FinishedAt().IsZero() {
		summary.FinishedAt = pass.FinishedAt().Format(time.RFC3339)
	}
	return summary
}

// NewDownloadRow builds the serializable view of a download attempt.
func NewDownloadRow(d *models.Download) DownloadRow {
	return DownloadRow{
		PlaylistID:    d.PlaylistID(),
		PlaylistTitle: d.PlaylistTitle(),
		ItemID:        d.ItemID(),
		ItemTitle:     d.ItemTitle(),
		Variant:       d.Variant(),
		Outcome:       d.Outcome(),
		Error:         d.ErrorMessage(),
	}
}

// ExportToCSV converts a PassReport to CSV format with columns: Playlist, Item ID, Title, Variant, Outcome, Error
func ExportToCSV(report *PassReport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Playlist", "Item ID", "Title", "Variant", "Outcome", "Error"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, d := range report.Downloads {
		record := []string{
			d.PlaylistTitle(),
			d.ItemID(),
			d.ItemTitle(),
			d.Variant(),
			d.Outcome(),
			d.ErrorMessage(),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a PassReport to Markdown format
func ExportToMarkdown(report *PassReport) ([]byte, error) {
	var buf bytes.Buffer

	pass := report.Pass
	counts := pass.Counts()

	buf.WriteString(fmt.Sprintf("# Mirroring Pass %d\n\n", pass.Sequence()))
	buf.WriteString(fmt.Sprintf("**Channel**: %s\n", pass.ChannelID()))
	buf.WriteString(fmt.Sprintf("**Status**: %s\n", pass.Status()))
	buf.WriteString(fmt.Sprintf("**Started**: %s\n", pass.StartedAt().Format(time.RFC3339)))
	if !pass.FinishedAt().IsZero() {
		buf.WriteString(fmt.Sprintf("**Finished**: %s\n", pass.FinishedAt().Format(time.RFC3339)))
	}
	buf.WriteString(fmt.Sprintf("\n**Playlists**: %d, **Downloaded**: %d, **Skipped**: %d, **Unavailable**: %d, **Failed**: %d\n",
		counts.PlaylistsTotal, counts.ItemsDownloaded, counts.ItemsSkipped,
		counts.ItemsUnavailable, counts.ItemsFailed))

	buf.WriteString("\n## Downloads\n\n")
	for i, d := range report.Downloads {
		errorPart := ""
		if d.ErrorMessage() != "" {
			errorPart = fmt.Sprintf(" - %s", d.ErrorMessage())
		}
		buf.WriteString(fmt.Sprintf("%d. [%s] %s (%s) in %s%s\n",
			i+1, d.Outcome(), d.ItemTitle(), d.Variant(), d.PlaylistTitle(), errorPart))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a PassReport to plain text format
func ExportToText(report *PassReport) ([]byte, error) {
	var buf bytes.Buffer

	pass := report.Pass
	counts := pass.Counts()

	buf.WriteString(fmt.Sprintf("Pass: %d (%s)\n", pass.Sequence(), pass.Status()))
	buf.WriteString(fmt.Sprintf("Channel: %s\n", pass.ChannelID()))
	buf.WriteString(fmt.Sprintf("Downloaded: %d, Skipped: %d, Unavailable: %d, Failed: %d\n\n",
		counts.ItemsDownloaded, counts.ItemsSkipped, counts.ItemsUnavailable, counts.ItemsFailed))

	for i, d := range report.Downloads {
		buf.WriteString(fmt.Sprintf("%d. [%s] %s (%s)\n", i+1, d.Outcome(), d.ItemTitle(), d.Variant()))
	}

	return buf.Bytes(), nil
}

// ToSummaryJSON generates a JSON representation of pass metadata (without downloads)
func ToSummaryJSON(pass *models.Pass) ([]byte, error) {
	return json.MarshalIndent(NewPassSummary(pass), "", "  ")
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	DownloadsFile string
	SummaryFile   string
}

// WriteCSVExport exports a pass report to CSV format with an accompanying summary JSON file.
//
// Defaults to the pass ID as the base filename & creates {base}_downloads.csv and {base}_summary.json
func WriteCSVExport(report *PassReport, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = report.Pass.ID()
	}

	csvData, err := ExportToCSV(report)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	downloadsFile := baseFilepath + "_downloads.csv"
	if err := os.WriteFile(downloadsFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	summaryJSON, err := ToSummaryJSON(report.Pass)
	if err != nil {
		return nil, fmt.Errorf("failed to generate summary JSON: %w", err)
	}

	summaryFile := baseFilepath + "_summary.json"
	if err := os.WriteFile(summaryFile, summaryJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write summary file: %w", err)
	}

	return &CSVExportResult{
		DownloadsFile: downloadsFile,
		SummaryFile:   summaryFile,
	}, nil
}

// WriteMarkdownExport exports a pass report to Markdown in a dedicated directory.
//
// Directory name defaults to the pass ID. Creates {dir}/README.md.
func WriteMarkdownExport(report *PassReport, outputDir string) (string, error) {
	if outputDir == "" {
		outputDir = report.Pass.ID()
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	mdData, err := ExportToMarkdown(report)
	if err != nil {
		return "", fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := fmt.Sprintf("%s/README.md", outputDir)
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}

	return mdFile, nil
}

// WriteTextExport exports a pass report to plain text format.
//
// Defaults to {pass.ID}_downloads.txt as the filename.
func WriteTextExport(report *PassReport, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s_downloads.txt", report.Pass.ID())
	}

	textData, err := ExportToText(report)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}
