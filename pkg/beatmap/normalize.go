package beatmap

import (
	"strings"
	"sync"
)

// normCache memoizes normalization results. The same titles and artists
// come up repeatedly during duplicate detection and query matching.
var normCache sync.Map

// Normalize lower-cases s and collapses every run of whitespace into a
// single space, trimming the ends.
func Normalize(s string) string {
	if v, ok := normCache.Load(s); ok {
		return v.(string)
	}

	n := strings.Join(strings.Fields(strings.ToLower(s)), " ")
	normCache.Store(s, n)

	return n
}
