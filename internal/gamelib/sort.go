package gamelib

import (
	"sort"
	"strings"

	"github.com/xxxsen/retrocoll/internal/sortkey"
)

// SortType is one entry of the sort table. Less always orders ascending;
// descending types reverse the ascending result.
type SortType struct {
	ID          int
	Description string
	Ascending   bool
	less        func(a, b FileNode) bool
}

var sortTypes = buildSortTypes()

func buildSortTypes() []SortType {
	rules := []struct {
		name string
		less func(a, b FileNode) bool
	}{
		{"filename", compareName},
		{"rating", compareRating},
		{"times played", compareTimesPlayed},
		{"last played", compareLastPlayed},
		{"number players", comparePlayers},
		{"release date", compareReleaseDate},
		{"genre", compareMetaString(MetaGenre)},
		{"developer", compareMetaString(MetaDeveloper)},
		{"system", compareSystem},
	}
	out := make([]SortType, 0, len(rules)*2)
	for _, rule := range rules {
		for _, asc := range []bool{true, false} {
			dir := "ascending"
			if !asc {
				dir = "descending"
			}
			out = append(out, SortType{
				ID:          len(out),
				Description: rule.name + ", " + dir,
				Ascending:   asc,
				less:        rule.less,
			})
		}
	}
	return out
}

// SortTypes returns the sort table in id order.
func SortTypes() []SortType {
	out := make([]SortType, len(sortTypes))
	copy(out, sortTypes)
	return out
}

// SortTypeFromString looks a sort type up by description, e.g.
// "last played, descending".
func SortTypeFromString(desc string) (SortType, bool) {
	desc = strings.ToLower(strings.TrimSpace(desc))
	for _, st := range sortTypes {
		if st.Description == desc {
			return st, true
		}
	}
	return sortTypes[0], false
}

// Less reports whether a sorts before b in ascending order.
func (st SortType) Less(a, b FileNode) bool { return st.less(a, b) }

func sortNodes(nodes []FileNode, st SortType) {
	sort.SliceStable(nodes, func(i, j int) bool { return st.less(nodes[i], nodes[j]) })
	if !st.Ascending {
		reverseNodes(nodes)
	}
}

func sortName(node FileNode) string {
	if v := node.Metadata().Get(MetaSortName); v != "" {
		return v
	}
	return node.Name()
}

func compareName(a, b FileNode) bool {
	return sortkey.Less(sortName(a), sortName(b))
}

func compareRating(a, b FileNode) bool {
	return a.Metadata().Float(MetaRating) < b.Metadata().Float(MetaRating)
}

func compareTimesPlayed(a, b FileNode) bool {
	return a.Metadata().Int(MetaPlayCount) < b.Metadata().Int(MetaPlayCount)
}

func compareLastPlayed(a, b FileNode) bool {
	return a.Metadata().Time(MetaLastPlayed).Before(b.Metadata().Time(MetaLastPlayed))
}

func comparePlayers(a, b FileNode) bool {
	return leadingInt(a.Metadata().Get(MetaPlayers)) < leadingInt(b.Metadata().Get(MetaPlayers))
}

func compareReleaseDate(a, b FileNode) bool {
	return a.Metadata().Get(MetaReleaseDate) < b.Metadata().Get(MetaReleaseDate)
}

func compareMetaString(key string) func(a, b FileNode) bool {
	return func(a, b FileNode) bool {
		return strings.ToLower(a.Metadata().Get(key)) < strings.ToLower(b.Metadata().Get(key))
	}
}

func compareSystem(a, b FileNode) bool {
	return sourceSystemName(a) < sourceSystemName(b)
}

func sourceSystemName(node FileNode) string {
	if src := node.Source(); src != nil && src.System() != nil {
		return src.System().Name()
	}
	if node.System() != nil {
		return node.System().Name()
	}
	return ""
}

func leadingInt(s string) int {
	n := 0
	for _, r := range strings.TrimSpace(s) {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
	}
	return n
}
