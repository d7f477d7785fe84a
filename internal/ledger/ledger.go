// package ledger persists per-playlist completion records for resumable mirroring.
package ledger

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/desertthunder/ytmirror/internal/shared"
)

// FileName is the completion record kept inside each playlist directory:
// newline-delimited item IDs, UTF-8, append-only, duplicates tolerated.
const FileName = "downloaded_videos.txt"

// Ledger records completed item IDs, one file per playlist directory.
//
// Appends are serialized per directory so concurrent workers finishing items
// of the same playlist can never interleave or truncate each other's lines.
// Reads are expected to happen once per playlist pass, before any writes of
// that pass.
type Ledger struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates an empty Ledger.
func New() *Ledger {
	return &Ledger{locks: make(map[string]*sync.Mutex)}
}

// dirLock returns the mutex serializing appends for one playlist directory.
func (l *Ledger) dirLock(dir string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	if lock, ok := l.locks[dir]; ok {
		return lock
	}
	lock := &sync.Mutex{}
	l.locks[dir] = lock
	return lock
}

// Load reads the completion set for a playlist directory.
//
// A missing ledger file is not an error and yields an empty set; only an
// unreadable file is reported, wrapped as [shared.ErrStorage]. Duplicate
// and blank lines are tolerated.
func (l *Ledger) Load(dir string) (map[string]struct{}, error) {
	done := make(map[string]struct{})

	f, err := os.Open(filepath.Join(dir, FileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return done, nil
		}
		return nil, fmt.Errorf("%w: failed to open ledger: %v", shared.ErrStorage, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		id := strings.TrimSpace(scanner.Text())
		if id == "" {
			continue
		}
		done[id] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to read ledger: %v", shared.ErrStorage, err)
	}

	return done, nil
}

// RecordDone appends an item ID to the playlist's ledger file.
//
// The write is opened in append mode and flushed before the per-directory
// lock is released. No dedup is performed; Load has set semantics.
func (l *Ledger) RecordDone(dir, itemID string) error {
	lock := l.dirLock(dir)
	lock.Lock()
	defer lock.Unlock()

	f, err := os.OpenFile(filepath.Join(dir, FileName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("%w: failed to open ledger for append: %v", shared.ErrStorage, err)
	}

	if _, err := fmt.Fprintf(f, "%s\n", itemID); err != nil {
		f.Close()
		return fmt.Errorf("%w: failed to append to ledger: %v", shared.ErrStorage, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: failed to flush ledger: %v", shared.ErrStorage, err)
	}

	return nil
}
