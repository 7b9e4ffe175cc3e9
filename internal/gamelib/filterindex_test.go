package gamelib

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterIndexCountsAndRemoval(t *testing.T) {
	sys := newTestSystem("snes")
	a := addGame(sys.Root(), "a.zip", "A")
	b := addGame(sys.Root(), "b.zip", "B")
	a.Metadata().Set(MetaGenre, "Shooter/Vertical")
	b.Metadata().Set(MetaGenre, "Shooter")

	idx := NewFileFilterIndex()
	idx.AddToIndex(a)
	idx.AddToIndex(b)
	idx.AddToIndex(sys.Root())
	assert.Equal(t, 2, idx.Len())
	assert.Equal(t, []FilterValue{{Value: "SHOOTER", Count: 2}}, idx.Values(FilterGenre))

	// the stored values are used for removal even after an edit
	a.Metadata().Set(MetaGenre, "Puzzle")
	idx.RemoveFromIndex(a)
	assert.Equal(t, []FilterValue{{Value: "SHOOTER", Count: 1}}, idx.Values(FilterGenre))
	assert.False(t, idx.Contains(a))

	idx.AddToIndex(b)
	assert.Equal(t, 1, idx.Len())
}

func TestFilterIndexShowFile(t *testing.T) {
	sys := newTestSystem("snes")
	sub := addFolder(sys.Root(), "sub")
	fav := addGame(sub, "sub/fav.zip", "Favourite One")
	fav.Metadata().SetBool(MetaFavorite, true)
	plain := addGame(sys.Root(), "plain.zip", "Plain")

	idx := NewFileFilterIndex()
	assert.False(t, idx.IsFiltered())
	assert.True(t, idx.ShowFile(plain))

	idx.SetFilter(FilterFavorites, []string{"true"})
	assert.True(t, idx.IsFiltered())
	assert.True(t, idx.ShowFile(fav))
	assert.False(t, idx.ShowFile(plain))
	assert.True(t, idx.ShowFile(sub))

	idx.ClearAllFilters()
	idx.SetTextFilter("PLA")
	assert.True(t, idx.ShowFile(plain))
	assert.False(t, idx.ShowFile(fav))
	assert.False(t, idx.ShowFile(sub))

	idx.SetTextFilter("")
	assert.False(t, idx.IsFiltered())
}

func TestFilterIndexImport(t *testing.T) {
	sys := newTestSystem("snes")
	a := addGame(sys.Root(), "a.zip", "A")
	b := addGame(sys.Root(), "b.zip", "B")

	left := NewFileFilterIndex()
	left.AddToIndex(a)
	right := NewFileFilterIndex()
	right.AddToIndex(a)
	right.AddToIndex(b)

	left.ImportIndex(right)
	assert.Equal(t, 2, left.Len())
	assert.Equal(t, []FilterValue{{Value: "UNKNOWN", Count: 2}}, left.Values(FilterDeveloper))

	left.Reset()
	assert.Equal(t, 0, left.Len())
}

func TestParseFilterType(t *testing.T) {
	ft, ok := ParseFilterType("Genre")
	assert.True(t, ok)
	assert.Equal(t, FilterGenre, ft)
	_, ok = ParseFilterType("colour")
	assert.False(t, ok)
}
