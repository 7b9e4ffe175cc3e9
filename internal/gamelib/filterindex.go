package gamelib

import (
	"sort"
	"strings"
)

// FilterType names one filterable dimension of the index.
type FilterType int

const (
	FilterGenre FilterType = iota
	FilterPlayers
	FilterDeveloper
	FilterFavorites
	FilterKidGame
	FilterVendor
)

const unknownValue = "UNKNOWN"

var filterTypes = []FilterType{FilterGenre, FilterPlayers, FilterDeveloper, FilterFavorites, FilterKidGame, FilterVendor}

func (t FilterType) String() string {
	switch t {
	case FilterGenre:
		return "genre"
	case FilterPlayers:
		return "players"
	case FilterDeveloper:
		return "developer"
	case FilterFavorites:
		return "favorites"
	case FilterKidGame:
		return "kidgame"
	case FilterVendor:
		return "vendor"
	}
	return "unknown"
}

// ParseFilterType maps a filter name back to its type.
func ParseFilterType(name string) (FilterType, bool) {
	for _, t := range filterTypes {
		if strings.EqualFold(t.String(), name) {
			return t, true
		}
	}
	return 0, false
}

func filterValue(t FilterType, md *Metadata) string {
	var v string
	switch t {
	case FilterGenre:
		v = md.Get(MetaGenre)
		if i := strings.IndexAny(v, "/,"); i >= 0 {
			v = v[:i]
		}
	case FilterPlayers:
		v = md.Get(MetaPlayers)
	case FilterDeveloper:
		v = md.Get(MetaDeveloper)
	case FilterFavorites:
		return strings.ToUpper(boolString(md.Bool(MetaFavorite)))
	case FilterKidGame:
		return strings.ToUpper(boolString(md.Bool(MetaKidGame)))
	case FilterVendor:
		v = md.Get(MetaArcadeSystemName)
	}
	v = strings.ToUpper(strings.TrimSpace(v))
	if v == "" {
		return unknownValue
	}
	return v
}

func boolString(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

// FilterValue is one distinct indexed value with the number of games
// carrying it.
type FilterValue struct {
	Value string
	Count int
}

// FileFilterIndex counts indexed values per filter type and answers whether a
// node passes the active filters. The values a node was indexed with are
// kept so removal stays correct after its metadata changed.
type FileFilterIndex struct {
	counts  map[FilterType]map[string]int
	indexed map[FileNode][]string
	active  map[FilterType]map[string]struct{}
	text    string
}

func NewFileFilterIndex() *FileFilterIndex {
	idx := &FileFilterIndex{}
	idx.Reset()
	return idx
}

// Reset drops every indexed entry and active filter.
func (idx *FileFilterIndex) Reset() {
	idx.counts = make(map[FilterType]map[string]int, len(filterTypes))
	for _, t := range filterTypes {
		idx.counts[t] = make(map[string]int)
	}
	idx.indexed = make(map[FileNode][]string)
	idx.active = make(map[FilterType]map[string]struct{})
	idx.text = ""
}

// AddToIndex records node's current values. Re-adding a node refreshes it.
func (idx *FileFilterIndex) AddToIndex(node FileNode) {
	if node.Type() != TypeGame {
		return
	}
	if _, ok := idx.indexed[node]; ok {
		idx.RemoveFromIndex(node)
	}
	md := node.Metadata()
	values := make([]string, len(filterTypes))
	for i, t := range filterTypes {
		v := filterValue(t, md)
		values[i] = v
		idx.counts[t][v]++
	}
	idx.indexed[node] = values
}

// RemoveFromIndex forgets node using the values it was indexed with.
func (idx *FileFilterIndex) RemoveFromIndex(node FileNode) {
	values, ok := idx.indexed[node]
	if !ok {
		return
	}
	for i, t := range filterTypes {
		v := values[i]
		idx.counts[t][v]--
		if idx.counts[t][v] <= 0 {
			delete(idx.counts[t], v)
		}
	}
	delete(idx.indexed, node)
}

// ImportIndex merges every entry of other into idx.
func (idx *FileFilterIndex) ImportIndex(other *FileFilterIndex) {
	if other == nil || other == idx {
		return
	}
	for node, values := range other.indexed {
		if _, ok := idx.indexed[node]; ok {
			continue
		}
		cp := make([]string, len(values))
		copy(cp, values)
		for i, t := range filterTypes {
			idx.counts[t][cp[i]]++
		}
		idx.indexed[node] = cp
	}
}

// Contains reports whether node is indexed.
func (idx *FileFilterIndex) Contains(node FileNode) bool {
	_, ok := idx.indexed[node]
	return ok
}

func (idx *FileFilterIndex) Len() int { return len(idx.indexed) }

// Values lists the distinct values of t sorted by value.
func (idx *FileFilterIndex) Values(t FilterType) []FilterValue {
	out := make([]FilterValue, 0, len(idx.counts[t]))
	for v, n := range idx.counts[t] {
		out = append(out, FilterValue{Value: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out
}

// SetFilter restricts t to values; an empty list clears that filter.
func (idx *FileFilterIndex) SetFilter(t FilterType, values []string) {
	if len(values) == 0 {
		delete(idx.active, t)
		return
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[strings.ToUpper(strings.TrimSpace(v))] = struct{}{}
	}
	idx.active[t] = set
}

// SetTextFilter keeps games whose name contains text, case-insensitively.
func (idx *FileFilterIndex) SetTextFilter(text string) {
	idx.text = strings.ToLower(strings.TrimSpace(text))
}

func (idx *FileFilterIndex) ClearAllFilters() {
	idx.active = make(map[FilterType]map[string]struct{})
	idx.text = ""
}

// IsFiltered reports whether any filter is active.
func (idx *FileFilterIndex) IsFiltered() bool {
	return len(idx.active) > 0 || idx.text != ""
}

// ShowFile reports whether node passes the active filters. A folder shows
// when any game below it does.
func (idx *FileFilterIndex) ShowFile(node FileNode) bool {
	if folder, ok := node.(*FolderData); ok {
		for _, child := range folder.children {
			if idx.ShowFile(child) {
				return true
			}
		}
		return false
	}
	if node.Type() != TypeGame {
		return !idx.IsFiltered()
	}
	if idx.text != "" && !strings.Contains(strings.ToLower(node.Name()), idx.text) {
		return false
	}
	md := node.Metadata()
	for t, allowed := range idx.active {
		if _, ok := allowed[filterValue(t, md)]; !ok {
			return false
		}
	}
	return true
}
