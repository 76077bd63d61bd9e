// Package dupe finds beatmap sets that exist more than once in a collection.
//
// Submitted sets share a ranked set id, so equal nonzero ids are the same
// release regardless of what the folders were renamed to. Unsubmitted sets
// carry id 0 and are grouped by their normalized metadata signature instead.
package dupe

import (
	"sort"

	"github.com/syzomnia-el/osu-searcher/pkg/beatmap"
)

/* Structs */

type Group struct {
	// SetID is the shared ranked id, 0 for signature groups.
	SetID     int            `json:"SetID"`
	Signature string         `json:"Signature"`
	Sets      []*beatmap.Set `json:"Sets"`
}

/* Public */

// Find returns every group of two or more sets that are copies of each
// other. Group members are ordered by path, groups by size with the
// largest first and ties broken by the first member's path.
func Find(idx *beatmap.Index) []Group {
	byID := make(map[int][]*beatmap.Set)
	bySignature := make(map[string][]*beatmap.Set)

	// idx.Sets() is path ordered, so members inherit that order
	for _, set := range idx.Sets() {
		if set.ChartCount() == 0 {
			continue
		}

		if set.SetID != 0 {
			byID[set.SetID] = append(byID[set.SetID], set)
			continue
		}

		sig := set.Signature()
		bySignature[sig] = append(bySignature[sig], set)
	}

	groups := make([]Group, 0)
	for id, sets := range byID {
		if len(sets) < 2 {
			continue
		}

		groups = append(groups, Group{
			SetID:     id,
			Signature: sets[0].Signature(),
			Sets:      sets,
		})
	}

	for sig, sets := range bySignature {
		if len(sets) < 2 {
			continue
		}

		groups = append(groups, Group{
			Signature: sig,
			Sets:      sets,
		})
	}

	sort.Slice(groups, func(i, j int) bool {
		if len(groups[i].Sets) != len(groups[j].Sets) {
			return len(groups[i].Sets) > len(groups[j].Sets)
		}
		return groups[i].Sets[0].Path < groups[j].Sets[0].Path
	})

	return groups
}

// Copies is the number of redundant folders across all groups, the
// amount a cleanup would remove while keeping one copy of each.
func Copies(groups []Group) int {
	count := 0
	for _, g := range groups {
		count += len(g.Sets) - 1
	}

	return count
}
