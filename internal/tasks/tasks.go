// package tasks implements the channel mirroring engine.
//
// The core abstraction is MirrorEngine, which walks every playlist of a
// channel, fans item downloads out to a bounded worker pool, and records
// completed items in per-playlist ledgers so later passes skip them.
// Operations emit progress updates via channels for non-blocking status
// reporting to the CLI layer.
package tasks

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytmirror/internal/ledger"
	"github.com/desertthunder/ytmirror/internal/services"
	"github.com/desertthunder/ytmirror/internal/shared"
	"golang.org/x/time/rate"
)

// Variant identifies which rendition of an item a download produces.
type Variant int

const (
	VariantVideo Variant = iota
	VariantAudio
)

func (v Variant) String() string {
	switch v {
	case VariantVideo:
		return "video"
	case VariantAudio:
		return "audio"
	default:
		return ""
	}
}

// Outcome classifies the result of a single item download attempt.
type Outcome int

const (
	Success Outcome = iota
	SkippedAlreadyDone
	SkippedUnavailable
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case SkippedAlreadyDone:
		return "skipped"
	case SkippedUnavailable:
		return "unavailable"
	case Failed:
		return "failed"
	default:
		return ""
	}
}

// DownloadResult represents the result of fetching one variant of one item.
type DownloadResult struct {
	Item    services.Item // Item the attempt was made for
	Variant Variant       // Rendition that was fetched
	Outcome Outcome       // Classification of the attempt
	Error   error         // Error if the attempt failed or the item was unavailable
}

// MirrorEngine orchestrates mirroring passes for a single channel.
//
// Playlists are processed sequentially; items within a playlist are
// downloaded concurrently by a bounded worker pool. A failed playlist
// never aborts the pass.
type MirrorEngine struct {
	service      services.Service
	ledger       *ledger.Ledger
	history      *History
	logger       *log.Logger
	limiter      *rate.Limiter
	downloadRoot string
	maxWorkers   int
	channelURL   string
	channelID    string

	mu      sync.Mutex
	running bool
}

// EngineOpts contains configuration for a MirrorEngine.
type EngineOpts struct {
	Service      services.Service // Media collaborator (required)
	Ledger       *ledger.Ledger   // Completion ledger (required)
	History      *History         // Pass history recorder (optional)
	Logger       *log.Logger      // Structured logger (optional)
	ChannelURL   string           // Channel to mirror (required)
	DownloadRoot string           // Base directory for playlist directories
	MaxWorkers   int              // Concurrent downloads per playlist (default: 4)
	MetadataRate float64          // Listing requests per second (default: 1)
}

// NewMirrorEngine creates a MirrorEngine and resolves the channel identifier.
//
// Resolution failure is fatal: a mirror that cannot identify its channel
// must not create any directories or start any passes.
func NewMirrorEngine(ctx context.Context, opts EngineOpts) (*MirrorEngine, error) {
	if opts.Service == nil {
		return nil, fmt.Errorf("%w: media service not initialized", shared.ErrServiceUnavailable)
	}
	if opts.Ledger == nil {
		return nil, fmt.Errorf("%w: ledger not initialized", shared.ErrServiceUnavailable)
	}
	if opts.ChannelURL == "" {
		return nil, fmt.Errorf("%w: channel URL is required", shared.ErrInvalidFlag)
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.DownloadRoot == "" {
		opts.DownloadRoot = "playlists"
	}
	if opts.MaxWorkers <= 0 {
		opts.MaxWorkers = 4
	}
	if opts.MetadataRate <= 0 {
		opts.MetadataRate = 1.0
	}

	channelID, err := opts.Service.ResolveChannelID(ctx, opts.ChannelURL)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve channel: %w", err)
	}

	return &MirrorEngine{
		service:      opts.Service,
		ledger:       opts.Ledger,
		history:      opts.History,
		logger:       opts.Logger,
		limiter:      rate.NewLimiter(rate.Limit(opts.MetadataRate), 1),
		downloadRoot: opts.DownloadRoot,
		maxWorkers:   opts.MaxWorkers,
		channelURL:   opts.ChannelURL,
		channelID:    channelID,
	}, nil
}

// ChannelID returns the resolved identifier of the mirrored channel.
func (e *MirrorEngine) ChannelID() string { return e.channelID }

// AttachHistory sets the pass-history recorder. Must be called before the
// first pass starts.
func (e *MirrorEngine) AttachHistory(h *History) { e.history = h }

// playlistDir returns the directory a playlist's renditions are stored in.
func (e *MirrorEngine) playlistDir(pl services.Playlist) string {
	return filepath.Join(e.downloadRoot, shared.SanitizeTitle(pl.Title, pl.ID))
}

// variantProfile builds the download profile for one rendition of a playlist.
func variantProfile(v Variant, playlistDir string) services.DownloadProfile {
	profile := services.DownloadProfile{
		OutputTemplate:           filepath.Join(playlistDir, v.String(), "%(title)s.%(ext)s"),
		ConcurrentFragments:      5,
		Retries:                  10,
		FragmentRetries:          10,
		SkipUnavailableFragments: true,
	}
	switch v {
	case VariantAudio:
		profile.Format = "bestaudio/best"
		profile.ExtractAudio = true
		profile.AudioFormat = "mp3"
		profile.AudioQuality = "192K"
	default:
		profile.Format = "bestvideo[ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best"
	}
	return profile
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *MirrorEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}
