// Package photos manages the local photo pool that illustrates published
// articles. Selection is usage-weighted: the least used photos go out first,
// so the pool wears evenly instead of repeating the same lead image.
package photos

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/osari-hq/seobot/internal/storage"
)

var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
	".gif":  {},
}

// Library is a directory of photos with persistent usage counters.
type Library struct {
	dir   string
	store storage.Store
}

// NewLibrary builds a Library over dir, tracking usage in store.
func NewLibrary(dir string, store storage.Store) *Library {
	return &Library{dir: dir, store: store}
}

// Scan lists the image files in the library directory, sorted by name. A
// missing directory is an empty library, not an error.
func (l *Library) Scan() ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read photos dir: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if _, ok := imageExtensions[ext]; ok {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Pick selects up to n of the least used photos, bumps their usage counters
// and returns absolute paths. Ties break by file name so selection stays
// deterministic.
func (l *Library) Pick(n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}

	names, err := l.Scan()
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, nil
	}

	usage, err := l.store.PhotoUsage()
	if err != nil {
		return nil, fmt.Errorf("load photo usage: %w", err)
	}

	sort.SliceStable(names, func(i, j int) bool {
		ui, uj := usage[names[i]], usage[names[j]]
		if ui != uj {
			return ui < uj
		}
		return names[i] < names[j]
	})

	if n > len(names) {
		n = len(names)
	}

	paths := make([]string, 0, n)
	for _, name := range names[:n] {
		if err := l.store.IncrementPhoto(name); err != nil {
			return nil, fmt.Errorf("bump usage for %s: %w", name, err)
		}
		paths = append(paths, filepath.Join(l.dir, name))
	}
	return paths, nil
}

// Reset clears all usage counters, restoring a fresh rotation.
func (l *Library) Reset() error {
	if err := l.store.ResetPhotoUsage(); err != nil {
		return fmt.Errorf("reset photo usage: %w", err)
	}
	return nil
}
