// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/ytmirror/internal/services"
)

// MockService is a configurable test double for [services.Service].
//
// Behavior is injected through function fields; unset fields return empty
// values. Download calls are recorded so tests can assert which items and
// variants were attempted. The recorder is safe for concurrent use because
// downloads are dispatched from a worker pool.
type MockService struct {
	ResolveChannelIDFunc  func(ctx context.Context, channelURL string) (string, error)
	ListPlaylistsFunc     func(ctx context.Context, channelID string) ([]services.Playlist, error)
	ListPlaylistItemsFunc func(ctx context.Context, playlistURL string) ([]services.Item, error)
	DownloadFunc          func(ctx context.Context, itemURL string, profile services.DownloadProfile) error

	mu        sync.Mutex
	downloads []DownloadCall
}

// DownloadCall records one invocation of Download.
type DownloadCall struct {
	ItemURL string
	Profile services.DownloadProfile
}

func (m *MockService) ResolveChannelID(ctx context.Context, channelURL string) (string, error) {
	if m.ResolveChannelIDFunc != nil {
		return m.ResolveChannelIDFunc(ctx, channelURL)
	}
	return "UC_mock", nil
}

func (m *MockService) ListPlaylists(ctx context.Context, channelID string) ([]services.Playlist, error) {
	if m.ListPlaylistsFunc != nil {
		return m.ListPlaylistsFunc(ctx, channelID)
	}
	return []services.Playlist{}, nil
}

func (m *MockService) ListPlaylistItems(ctx context.Context, playlistURL string) ([]services.Item, error) {
	if m.ListPlaylistItemsFunc != nil {
		return m.ListPlaylistItemsFunc(ctx, playlistURL)
	}
	return []services.Item{}, nil
}

func (m *MockService) Download(ctx context.Context, itemURL string, profile services.DownloadProfile) error {
	m.mu.Lock()
	m.downloads = append(m.downloads, DownloadCall{ItemURL: itemURL, Profile: profile})
	m.mu.Unlock()

	if m.DownloadFunc != nil {
		return m.DownloadFunc(ctx, itemURL, profile)
	}
	return nil
}

func (m *MockService) Name() string { return "mock" }

// DownloadCalls returns a copy of the recorded Download invocations.
func (m *MockService) DownloadCalls() []DownloadCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]DownloadCall, len(m.downloads))
	copy(calls, m.downloads)
	return calls
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
