package beatmap

import (
	"sort"
	"sync"
)

// Index holds every indexed Set keyed by folder path, plus a derived
// set-id view over the same Sets. The id view is rebuilt lazily whenever
// the primary map changes; it is never persisted.
type Index struct {
	sets map[string]*Set
	// byID maps a nonzero set id to the folder paths carrying it
	byID map[int][]string
	// viewDirty tracks whether byID needs rebuilding
	viewDirty bool
	mu        sync.RWMutex
}

func NewIndex() *Index {
	return &Index{
		sets: make(map[string]*Set),
		byID: make(map[int][]string),
	}
}

// Put inserts or replaces the Set stored under its folder path.
func (i *Index) Put(s *Set) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.sets[s.Path] = s
	i.viewDirty = true
}

// Remove drops the Set stored under path, if any.
func (i *Index) Remove(path string) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if _, exists := i.sets[path]; !exists {
		return
	}

	delete(i.sets, path)
	i.viewDirty = true
}

// Get returns the Set stored under path.
func (i *Index) Get(path string) (*Set, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	s, ok := i.sets[path]
	return s, ok
}

// PathsForID returns the folder paths of every set carrying the given
// nonzero set id, sorted ascending.
func (i *Index) PathsForID(id int) []string {
	if id == 0 {
		return nil
	}

	i.mu.Lock()
	i.rebuildView()
	paths := make([]string, len(i.byID[id]))
	copy(paths, i.byID[id])
	i.mu.Unlock()

	return paths
}

// Sets returns a snapshot of every indexed set, sorted by folder path
// ascending. The slice is the caller's to keep; the Sets are shared.
func (i *Index) Sets() []*Set {
	i.mu.RLock()
	defer i.mu.RUnlock()

	out := make([]*Set, 0, len(i.sets))
	for _, s := range i.sets {
		out = append(out, s)
	}

	sort.Slice(out, func(a, b int) bool {
		return out[a].Path < out[b].Path
	})

	return out
}

// Len returns the number of indexed sets.
func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.sets)
}

// ChartCount returns the number of charts across all indexed sets.
func (i *Index) ChartCount() int {
	i.mu.RLock()
	defer i.mu.RUnlock()

	n := 0
	for _, s := range i.sets {
		n += len(s.Charts)
	}
	return n
}

// rebuildView recomputes the id view. Callers must hold the write lock.
func (i *Index) rebuildView() {
	if !i.viewDirty {
		return
	}

	i.byID = make(map[int][]string)
	for path, s := range i.sets {
		if s.SetID == 0 {
			continue
		}
		i.byID[s.SetID] = append(i.byID[s.SetID], path)
	}

	for id := range i.byID {
		sort.Strings(i.byID[id])
	}

	i.viewDirty = false
}
