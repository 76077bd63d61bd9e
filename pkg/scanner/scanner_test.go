package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syzomnia-el/osu-searcher/pkg/beatmap"
)

func chartData(title, artist, version string, setID, id int) string {
	return fmt.Sprintf(`osu file format v14

[General]
AudioFilename: audio.mp3

[Metadata]
Title:%s
Artist:%s
Creator:mapper
Version:%s
BeatmapID:%d
BeatmapSetID:%d
`, title, artist, version, id, setID)
}

func writeChartFile(t *testing.T, folder, name, data string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(folder, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(folder, name), []byte(data), 0644))
}

// buildCollection lays out two indexable sets, an empty folder, and a
// folder holding no chart files.
func buildCollection(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	a := filepath.Join(root, "100 artist - song")
	writeChartFile(t, a, "easy.osu", chartData("song", "artist", "Easy", 100, 1))
	writeChartFile(t, a, "hard.osu", chartData("song", "artist", "Hard", 100, 2))

	b := filepath.Join(root, "200 other - tune")
	writeChartFile(t, b, "normal.osu", chartData("tune", "other", "Normal", 200, 3))

	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty"), 0755))

	notes := filepath.Join(root, "notes")
	writeChartFile(t, notes, "readme.txt", "not a chart")

	return root
}

func TestScan(t *testing.T) {
	root := buildCollection(t)

	s := New(Options{})
	idx, report, err := s.Scan(context.Background(), root, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Sets)
	assert.Equal(t, 3, report.Charts)
	assert.Equal(t, 3, report.ChartsParsed)
	assert.Equal(t, 0, report.Reused)
	assert.Equal(t, 4, report.Folders)
	assert.Equal(t, 2, report.Skipped, "empty and chartless folders are skipped")
	assert.Empty(t, report.Warnings, "folders without charts are omitted silently")

	sets := idx.Sets()
	require.Len(t, sets, 2)

	assert.Equal(t, 100, sets[0].SetID)
	assert.Equal(t, "song", sets[0].Title())
	assert.Equal(t, []string{"Easy", "Hard"}, sets[0].Difficulties())
	assert.NotEmpty(t, sets[0].Fingerprint)

	assert.Equal(t, 200, sets[1].SetID)
	assert.Equal(t, "tune", sets[1].Title())
	assert.Equal(t, "other", sets[1].Artist())
}

func TestScanCacheReuse(t *testing.T) {
	root := buildCollection(t)

	s := New(Options{})
	first, report, err := s.Scan(context.Background(), root, nil)
	require.NoError(t, err)
	require.Equal(t, 3, report.ChartsParsed)

	// unchanged folders must not be parsed again
	var calls atomic.Int32
	s2 := New(Options{})
	inner := s2.parse
	s2.parse = func(name string, data []byte) (*beatmap.Chart, error) {
		calls.Add(1)
		return inner(name, data)
	}

	second, report, err := s2.Scan(context.Background(), root, first)
	require.NoError(t, err)
	assert.Equal(t, 0, report.ChartsParsed)
	assert.Equal(t, int32(0), calls.Load())
	assert.Equal(t, 2, report.Reused)
	assert.Equal(t, 2, second.Len())

	// touching one folder re-parses only that folder
	changed := filepath.Join(root, "100 artist - song")
	require.NoError(t, os.WriteFile(filepath.Join(changed, "background.png"), []byte("img"), 0644))

	third, report, err := s2.Scan(context.Background(), root, second)
	require.NoError(t, err)
	assert.Equal(t, 2, report.ChartsParsed, "only the changed folder is re-parsed")
	assert.Equal(t, 1, report.Reused)
	assert.Equal(t, 2, third.Len())

	reusedSet, ok := third.Get(filepath.Join(root, "200 other - tune"))
	require.True(t, ok)
	prevSet, _ := second.Get(filepath.Join(root, "200 other - tune"))
	assert.Same(t, prevSet, reusedSet)
}

func TestScanParseFailures(t *testing.T) {
	root := t.TempDir()

	mixed := filepath.Join(root, "300 mixed - set")
	writeChartFile(t, mixed, "good.osu", chartData("keep", "me", "Insane", 300, 9))
	writeChartFile(t, mixed, "broken.osu", "\x00\x01\x02 not text")

	hopeless := filepath.Join(root, "401 broken - set")
	writeChartFile(t, hopeless, "only.osu", "\x00\x00\x00")

	s := New(Options{})
	idx, report, err := s.Scan(context.Background(), root, nil)
	require.NoError(t, err, "parse failures never abort a scan")

	assert.Equal(t, 1, report.Sets)
	assert.Len(t, report.Warnings, 2)

	set, ok := idx.Get(mixed)
	require.True(t, ok)
	assert.Equal(t, 1, set.ChartCount())
	assert.Equal(t, "keep", set.Title())

	_, ok = idx.Get(hopeless)
	assert.False(t, ok, "a folder with nothing parseable is omitted")
}

func TestScanBadRoot(t *testing.T) {
	s := New(Options{})

	_, _, err := s.Scan(context.Background(), filepath.Join(t.TempDir(), "missing"), nil)
	assert.ErrorIs(t, err, ErrBadRoot)

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
	_, _, err = s.Scan(context.Background(), file, nil)
	assert.ErrorIs(t, err, ErrBadRoot)
}

func TestScanIgnoredFolders(t *testing.T) {
	root := t.TempDir()

	keep := filepath.Join(root, "500 keep - me")
	writeChartFile(t, keep, "a.osu", chartData("keep", "me", "Easy", 500, 1))

	skip := filepath.Join(root, "failed downloads")
	writeChartFile(t, skip, "b.osu", chartData("skip", "me", "Easy", 501, 2))

	s := New(Options{Ignore: []string{"failed*"}})
	idx, report, err := s.Scan(context.Background(), root, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Sets)
	_, ok := idx.Get(keep)
	assert.True(t, ok)
	_, ok = idx.Get(skip)
	assert.False(t, ok)
}

func TestScanSetIDReconciled(t *testing.T) {
	root := t.TempDir()

	folder := filepath.Join(root, "mixed ids")
	writeChartFile(t, folder, "a.osu", chartData("t", "a", "AAA", 0, 0))
	writeChartFile(t, folder, "b.osu", chartData("t", "a", "BBB", 300, 4))

	unsubmitted := filepath.Join(root, "unsubmitted")
	writeChartFile(t, unsubmitted, "c.osu", chartData("draft", "me", "WIP", 0, 0))

	s := New(Options{})
	idx, _, err := s.Scan(context.Background(), root, nil)
	require.NoError(t, err)

	set, ok := idx.Get(folder)
	require.True(t, ok)
	assert.Equal(t, 300, set.SetID, "first nonzero chart id wins")

	set, ok = idx.Get(unsubmitted)
	require.True(t, ok)
	assert.Equal(t, 0, set.SetID)
}

func TestScanCancelled(t *testing.T) {
	root := buildCollection(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New(Options{})
	_, _, err := s.Scan(ctx, root, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
