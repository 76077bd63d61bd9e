package scanner

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/scylladb/go-set/strset"
	"golang.org/x/sync/errgroup"

	"github.com/syzomnia-el/osu-searcher/pkg/beatmap"
	"github.com/syzomnia-el/osu-searcher/pkg/logger"
	"github.com/syzomnia-el/osu-searcher/pkg/osufile"
	"github.com/syzomnia-el/osu-searcher/pkg/paths"
)

var log = logger.GetLogger("scanner")

// ErrBadRoot means the songs root does not exist or is not a directory.
var ErrBadRoot = errors.New("songs root is not a usable directory")

type Options struct {
	// Extensions are the chart file extensions, ".osu" when empty.
	Extensions []string
	// Ignore holds folder name globs that are skipped entirely.
	Ignore []string
	// Workers bounds the parallel folder workers, NumCPU when <= 0.
	Workers int
}

type Scanner struct {
	extensions *strset.Set
	ignore     []string
	workers    int

	// parse is swappable so tests can count parse calls
	parse func(name string, data []byte) (*beatmap.Chart, error)
}

func New(opts Options) *Scanner {
	extensions := strset.New()
	for _, ext := range opts.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		extensions.Add(ext)
	}
	if extensions.IsEmpty() {
		extensions.Add(".osu")
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	return &Scanner{
		extensions: extensions,
		ignore:     opts.Ignore,
		workers:    workers,
		parse:      osufile.Parse,
	}
}

// Report describes what a single scan did.
type Report struct {
	Folders      int
	Sets         int
	Charts       int
	ChartsParsed int
	Reused       int
	Skipped      int
	Warnings     []string
	Duration     time.Duration
}

// Scan walks root and builds a fresh index, one set per subfolder that
// holds at least one parseable chart file. Folders whose fingerprint is
// unchanged against prev are reused without touching their chart files.
// Folder and chart trouble is reported as warnings; a scan only fails
// for an unusable root or a cancelled context.
func (s *Scanner) Scan(ctx context.Context, root string, prev *beatmap.Index) (*beatmap.Index, *Report, error) {
	start := time.Now()

	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, nil, errors.Wrapf(ErrBadRoot, "%q", root)
	}

	listings, walkWarnings, err := paths.ByFolder(root)
	if err != nil {
		return nil, nil, errors.Wrapf(ErrBadRoot, "walk %q: %v", root, err)
	}

	var (
		mu       sync.Mutex
		sets     []*beatmap.Set
		warnings = walkWarnings

		parsed  atomic.Uint32
		reused  atomic.Uint32
		skipped atomic.Uint32
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for folder, files := range listings {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			set, stats := s.scanFolder(folder, files, prev)

			parsed.Add(uint32(stats.parsed))
			if stats.reused {
				reused.Add(1)
			}
			if set == nil {
				skipped.Add(1)
			}

			mu.Lock()
			warnings = append(warnings, stats.warnings...)
			if set != nil {
				sets = append(sets, set)
			}
			mu.Unlock()

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	// single-threaded merge in a deterministic order
	sort.Slice(sets, func(i, j int) bool {
		return sets[i].Path < sets[j].Path
	})

	idx := beatmap.NewIndex()
	for _, set := range sets {
		idx.Put(set)
	}

	report := &Report{
		Folders:      len(listings),
		Sets:         idx.Len(),
		Charts:       idx.ChartCount(),
		ChartsParsed: int(parsed.Load()),
		Reused:       int(reused.Load()),
		Skipped:      int(skipped.Load()),
		Warnings:     warnings,
		Duration:     time.Since(start),
	}

	log.Debugf("Scanned %s folders in %s: %s sets, %s charts (%d parsed, %d reused, %d skipped)",
		humanize.Comma(int64(report.Folders)), report.Duration.Round(time.Millisecond),
		humanize.Comma(int64(report.Sets)), humanize.Comma(int64(report.Charts)),
		report.ChartsParsed, report.Reused, report.Skipped)

	return idx, report, nil
}

type folderStats struct {
	parsed   int
	reused   bool
	warnings []string
}

// scanFolder turns one subfolder listing into a Set, or nil when the
// folder has nothing to index.
func (s *Scanner) scanFolder(folder string, files []paths.Path, prev *beatmap.Index) (*beatmap.Set, folderStats) {
	var stats folderStats

	if paths.IsIgnored(folder, s.ignore) {
		log.Tracef("Skipping ignored folder: %s", folder)
		return nil, stats
	}

	var chartFiles []paths.Path
	for _, f := range files {
		if f.IsDir {
			continue
		}
		if s.extensions.Has(strings.ToLower(filepath.Ext(f.FileName))) {
			chartFiles = append(chartFiles, f)
		}
	}

	if len(chartFiles) == 0 {
		return nil, stats
	}

	fp := fingerprint(folder, files)

	if prev != nil {
		if old, ok := prev.Get(folder); ok && old.Fingerprint == fp {
			log.Tracef("Fingerprint unchanged, reusing: %s", folder)
			stats.reused = true
			return old, stats
		}
	}

	var charts []beatmap.Chart
	for _, f := range chartFiles {
		data, err := os.ReadFile(f.Path)
		if err != nil {
			stats.warnings = append(stats.warnings, fmt.Sprintf("skipped chart %q: %v", f.Path, err))
			continue
		}

		stats.parsed++
		chart, err := s.parse(f.FileName, data)
		if err != nil {
			stats.warnings = append(stats.warnings, fmt.Sprintf("skipped chart %q: %v", f.Path, err))
			continue
		}

		charts = append(charts, *chart)
	}

	if len(charts) == 0 {
		return nil, stats
	}

	set := &beatmap.Set{
		Path:        folder,
		Charts:      charts,
		Fingerprint: fp,
	}
	set.SortCharts()

	// reconcile the set id: first nonzero wins, in canonical chart order
	for _, c := range set.Charts {
		if c.SetID != 0 {
			set.SetID = c.SetID
			break
		}
	}

	return set, stats
}

// fingerprint covers the folder path and its file listing with sizes and
// modification times. Any file added, removed, renamed, resized, or
// touched changes it.
func fingerprint(folder string, files []paths.Path) string {
	sorted := make([]paths.Path, len(files))
	copy(sorted, files)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].FileName < sorted[j].FileName
	})

	h := sha1.New()
	io.WriteString(h, folder)
	for _, f := range sorted {
		fmt.Fprintf(h, "|%s:%d:%d", f.FileName, f.Size, f.ModifiedTime.UnixNano())
	}

	return hex.EncodeToString(h.Sum(nil))
}
