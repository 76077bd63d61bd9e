package dupe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syzomnia-el/osu-searcher/pkg/beatmap"
)

func testSet(path string, id int, title string, artist string, creator string, difficulties ...string) *beatmap.Set {
	charts := make([]beatmap.Chart, 0, len(difficulties))
	for _, d := range difficulties {
		charts = append(charts, beatmap.Chart{
			SetID:      id,
			Title:      title,
			Artist:     artist,
			Creator:    creator,
			Difficulty: d,
		})
	}

	return &beatmap.Set{
		SetID:  id,
		Path:   path,
		Charts: charts,
	}
}

func indexOf(sets ...*beatmap.Set) *beatmap.Index {
	idx := beatmap.NewIndex()
	for _, s := range sets {
		idx.Put(s)
	}

	return idx
}

func groupPaths(g Group) []string {
	paths := make([]string, 0, len(g.Sets))
	for _, s := range g.Sets {
		paths = append(paths, s.Path)
	}

	return paths
}

func TestFindByID(t *testing.T) {
	idx := indexOf(
		testSet("/beatmaps/100 artist - song", 100, "song", "artist", "mapper", "Easy", "Hard"),
		testSet("/beatmaps/100 artist - song (copy)", 100, "song", "artist", "mapper", "Easy", "Hard"),
		testSet("/beatmaps/200 other - tune", 200, "tune", "other", "mapper", "Insane"),
	)

	groups := Find(idx)
	require.Len(t, groups, 1)

	assert.Equal(t, 100, groups[0].SetID)
	assert.Equal(t, []string{
		"/beatmaps/100 artist - song",
		"/beatmaps/100 artist - song (copy)",
	}, groupPaths(groups[0]))
}

func TestFindRenamedFoldersStillMatch(t *testing.T) {
	// folder names carry no weight, only the embedded set id does
	idx := indexOf(
		testSet("/beatmaps/completely renamed", 42, "a", "b", "c", "Easy"),
		testSet("/beatmaps/zz something else", 42, "x", "y", "z", "Hard"),
	)

	groups := Find(idx)
	require.Len(t, groups, 1)
	assert.Equal(t, 42, groups[0].SetID)
	assert.Len(t, groups[0].Sets, 2)
}

func TestFindBySignature(t *testing.T) {
	tests := []struct {
		name   string
		a      *beatmap.Set
		b      *beatmap.Set
		groups int
	}{
		{
			name:   "identical unsubmitted sets",
			a:      testSet("/s/draft", 0, "wip song", "me", "me", "Easy", "Hard"),
			b:      testSet("/s/draft (2)", 0, "wip song", "me", "me", "Easy", "Hard"),
			groups: 1,
		},
		{
			name:   "case and spacing are ignored",
			a:      testSet("/s/draft", 0, "WIP  Song", "Me", "ME", "Easy"),
			b:      testSet("/s/draft (2)", 0, "wip song", "me", "me", "Easy"),
			groups: 1,
		},
		{
			name:   "different chart counts are different snapshots",
			a:      testSet("/s/draft", 0, "wip song", "me", "me", "Easy"),
			b:      testSet("/s/draft (2)", 0, "wip song", "me", "me", "Easy", "Hard"),
			groups: 0,
		},
		{
			name:   "different creators are different sets",
			a:      testSet("/s/draft", 0, "wip song", "me", "me", "Easy"),
			b:      testSet("/s/draft (2)", 0, "wip song", "me", "someone else", "Easy"),
			groups: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groups := Find(indexOf(tt.a, tt.b))
			assert.Len(t, groups, tt.groups)
		})
	}
}

func TestFindZeroIDNeverJoinsSubmitted(t *testing.T) {
	// same metadata, but one carries a ranked id and one does not
	idx := indexOf(
		testSet("/s/ranked", 300, "song", "artist", "mapper", "Easy"),
		testSet("/s/local copy", 0, "song", "artist", "mapper", "Easy"),
	)

	assert.Empty(t, Find(idx))
}

func TestFindSingletonsAreNotGroups(t *testing.T) {
	idx := indexOf(
		testSet("/s/one", 100, "a", "b", "c", "Easy"),
		testSet("/s/two", 200, "d", "e", "f", "Easy"),
		testSet("/s/three", 0, "g", "h", "i", "Easy"),
	)

	assert.Empty(t, Find(idx))
}

func TestFindOrdering(t *testing.T) {
	idx := indexOf(
		testSet("/s/b1", 100, "a", "b", "c", "Easy"),
		testSet("/s/b2", 100, "a", "b", "c", "Easy"),
		testSet("/s/a1", 200, "d", "e", "f", "Easy"),
		testSet("/s/a2", 200, "d", "e", "f", "Easy"),
		testSet("/s/c1", 300, "g", "h", "i", "Easy"),
		testSet("/s/c2", 300, "g", "h", "i", "Easy"),
		testSet("/s/c3", 300, "g", "h", "i", "Easy"),
	)

	groups := Find(idx)
	require.Len(t, groups, 3)

	// largest group first, then by first member path
	assert.Equal(t, 300, groups[0].SetID)
	assert.Equal(t, 200, groups[1].SetID)
	assert.Equal(t, 100, groups[2].SetID)
}

func TestCopies(t *testing.T) {
	idx := indexOf(
		testSet("/s/a1", 100, "a", "b", "c", "Easy"),
		testSet("/s/a2", 100, "a", "b", "c", "Easy"),
		testSet("/s/a3", 100, "a", "b", "c", "Easy"),
		testSet("/s/b1", 200, "d", "e", "f", "Easy"),
		testSet("/s/b2", 200, "d", "e", "f", "Easy"),
	)

	assert.Equal(t, 3, Copies(Find(idx)))
	assert.Equal(t, 0, Copies(nil))
}
