package palette

import (
	"sort"
	"time"
)

// DefaultImportQuiet is how long the import directory must stay quiet before
// the collected files are uploaded.
const DefaultImportQuiet = 300 * time.Millisecond

// ImportBatch collects files reported by a directory watcher so a burst of
// copies becomes one upload instead of one palette per file.
type ImportBatch struct {
	Quiet time.Duration

	pending map[string]bool
	last    time.Time
}

func NewImportBatch(quiet time.Duration) *ImportBatch {
	if quiet <= 0 {
		quiet = DefaultImportQuiet
	}
	return &ImportBatch{Quiet: quiet, pending: make(map[string]bool)}
}

// Add records path as seen at now.
func (b *ImportBatch) Add(path string, now time.Time) {
	b.pending[path] = true
	b.last = now
}

func (b *ImportBatch) Len() int {
	return len(b.pending)
}

// Ready returns the collected paths, sorted, once nothing was added for the
// quiet period. The batch is empty afterwards.
func (b *ImportBatch) Ready(now time.Time) []string {
	if len(b.pending) == 0 || now.Sub(b.last) < b.Quiet {
		return nil
	}
	paths := make([]string, 0, len(b.pending))
	for p := range b.pending {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	clear(b.pending)
	return paths
}
