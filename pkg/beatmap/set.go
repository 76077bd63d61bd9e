package beatmap

import (
	"sort"
	"strconv"
	"strings"
)

// Set is one beatmapset: a folder under the songs root and the charts
// parsed out of it.
type Set struct {
	// SetID is the submitted beatmapset id, 0 for unsubmitted sets.
	SetID int `json:"SetId"`

	// Path is the absolute folder path; it identifies the set.
	Path string `json:"Path"`

	// Charts is ordered by difficulty name, then beatmap id.
	Charts []Chart `json:"Charts"`

	// Fingerprint covers the folder path and its file listing with
	// modification metadata; an unchanged fingerprint means the folder
	// does not need re-parsing.
	Fingerprint string `json:"Fingerprint"`
}

// SortCharts establishes the canonical chart order.
func (s *Set) SortCharts() {
	sort.Slice(s.Charts, func(i, j int) bool {
		if s.Charts[i].Difficulty != s.Charts[j].Difficulty {
			return s.Charts[i].Difficulty < s.Charts[j].Difficulty
		}
		return s.Charts[i].ID < s.Charts[j].ID
	})
}

func (s *Set) ChartCount() int {
	return len(s.Charts)
}

// Title returns the set-level title, taken from the first chart.
func (s *Set) Title() string {
	if len(s.Charts) == 0 {
		return ""
	}
	return s.Charts[0].Title
}

// Artist returns the set-level artist, taken from the first chart.
func (s *Set) Artist() string {
	if len(s.Charts) == 0 {
		return ""
	}
	return s.Charts[0].Artist
}

// Creator returns the set-level creator, taken from the first chart.
func (s *Set) Creator() string {
	if len(s.Charts) == 0 {
		return ""
	}
	return s.Charts[0].Creator
}

// Difficulties returns the difficulty names in canonical order.
func (s *Set) Difficulties() []string {
	names := make([]string, 0, len(s.Charts))
	for _, c := range s.Charts {
		names = append(names, c.Difficulty)
	}
	return names
}

// Signature is the identity used for duplicate detection of unsubmitted
// sets: the normalized title/artist/creator tuple plus the chart count.
// Two folders holding the same release produce the same signature even
// when casing or spacing differ.
func (s *Set) Signature() string {
	var b strings.Builder
	b.WriteString(Normalize(s.Title()))
	b.WriteByte('|')
	b.WriteString(Normalize(s.Artist()))
	b.WriteByte('|')
	b.WriteString(Normalize(s.Creator()))
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(s.ChartCount()))
	return b.String()
}
