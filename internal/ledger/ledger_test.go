package ledger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestLedgerLoad(t *testing.T) {
	t.Run("missing file yields empty set", func(t *testing.T) {
		l := New()

		done, err := l.Load(t.TempDir())
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if len(done) != 0 {
			t.Errorf("expected empty set, got %d entries", len(done))
		}
	})

	t.Run("duplicates and blank lines tolerated", func(t *testing.T) {
		dir := t.TempDir()
		content := "vid1\nvid2\n\nvid1\n  vid3  \n"
		if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644); err != nil {
			t.Fatalf("failed to seed ledger: %v", err)
		}

		l := New()
		done, err := l.Load(dir)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		if len(done) != 3 {
			t.Errorf("expected 3 unique entries, got %d", len(done))
		}
		for _, id := range []string{"vid1", "vid2", "vid3"} {
			if _, ok := done[id]; !ok {
				t.Errorf("expected %s in completion set", id)
			}
		}
	})
}

func TestLedgerRoundTrip(t *testing.T) {
	dir := t.TempDir()
	l := New()

	recorded := []string{"a", "b", "a", "c", "b"}
	for _, id := range recorded {
		if err := l.RecordDone(dir, id); err != nil {
			t.Fatalf("RecordDone(%s) error = %v", id, err)
		}
	}

	done, err := l.Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(done) != 3 {
		t.Errorf("expected deduplicated set of 3, got %d", len(done))
	}
	for _, id := range []string{"a", "b", "c"} {
		if _, ok := done[id]; !ok {
			t.Errorf("expected %s in completion set", id)
		}
	}
}

func TestLedgerConcurrentAppends(t *testing.T) {
	dir := t.TempDir()
	l := New()

	const workers = 32

	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			errs <- l.RecordDone(dir, fmt.Sprintf("video-%03d", n))
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("RecordDone() error = %v", err)
		}
	}

	raw, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatalf("failed to read ledger file: %v", err)
	}

	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	if len(lines) != workers {
		t.Fatalf("expected %d well-formed lines, got %d", workers, len(lines))
	}

	seen := make(map[string]struct{}, workers)
	for _, line := range lines {
		if !strings.HasPrefix(line, "video-") || len(line) != len("video-000") {
			t.Errorf("malformed ledger line: %q", line)
		}
		seen[line] = struct{}{}
	}
	if len(seen) != workers {
		t.Errorf("expected %d distinct IDs, got %d", workers, len(seen))
	}
}

func TestLedgerIsolationBetweenDirectories(t *testing.T) {
	l := New()
	dirA := t.TempDir()
	dirB := t.TempDir()

	if err := l.RecordDone(dirA, "only-in-a"); err != nil {
		t.Fatalf("RecordDone() error = %v", err)
	}

	doneB, err := l.Load(dirB)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(doneB) != 0 {
		t.Errorf("expected empty set for untouched directory, got %d entries", len(doneB))
	}
}
