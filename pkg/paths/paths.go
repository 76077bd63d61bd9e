package paths

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charlievieth/fastwalk"

	"github.com/syzomnia-el/osu-searcher/pkg/logger"
)

/* Structs */

type Path struct {
	Path         string
	FileName     string
	IsDir        bool
	Size         int64
	ModifiedTime time.Time
}

/* Vars */

var (
	log = logger.GetLogger("pathutils")
)

/* Public */

// ByFolder walks root with a parallel walker and returns the direct
// children of every first-level folder, keyed by folder path. Nested
// directories appear as listing entries but are never descended into.
// Unreadable entries become warnings, never a failed walk.
func ByFolder(root string) (map[string][]Path, []string, error) {
	root = filepath.Clean(root)

	var (
		mu       sync.Mutex
		listings = make(map[string][]Path)
		warnings []string
	)

	conf := fastwalk.Config{Follow: false}

	err := fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, err error) error {
		if path == root {
			if err != nil {
				return err
			}
			return nil
		}

		if err != nil {
			mu.Lock()
			warnings = append(warnings, fmt.Sprintf("unreadable entry %q: %v", path, err))
			mu.Unlock()
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}

		switch depth := strings.Count(rel, string(filepath.Separator)); {
		case depth == 0 && d.IsDir():
			// first-level folder, candidate beatmapset
			mu.Lock()
			if _, ok := listings[path]; !ok {
				listings[path] = nil
			}
			mu.Unlock()
			return nil

		case depth == 0:
			log.Tracef("Skipping stray file under root: %s", path)
			return nil

		case depth == 1:
			info, infoErr := d.Info()
			if infoErr != nil {
				mu.Lock()
				warnings = append(warnings, fmt.Sprintf("stat failed for %q: %v", path, infoErr))
				mu.Unlock()
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			mu.Lock()
			folder := filepath.Dir(path)
			listings[folder] = append(listings[folder], Path{
				Path:         path,
				FileName:     d.Name(),
				IsDir:        d.IsDir(),
				Size:         info.Size(),
				ModifiedTime: info.ModTime(),
			})
			mu.Unlock()

			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil

		default:
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
	})
	if err != nil {
		return nil, warnings, err
	}

	return listings, warnings, nil
}

// IsIgnored reports whether the folder name matches any of the glob
// patterns. Matching is case-insensitive.
func IsIgnored(path string, patterns []string) bool {
	name := strings.ToLower(filepath.Base(path))

	for _, pattern := range patterns {
		if ok, err := filepath.Match(strings.ToLower(pattern), name); err == nil && ok {
			log.Tracef("Path %q matches ignore pattern %q", path, pattern)
			return true
		}
	}

	return false
}
