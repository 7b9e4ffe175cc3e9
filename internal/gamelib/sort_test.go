package gamelib

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortTypeTable(t *testing.T) {
	types := SortTypes()
	require.Len(t, types, 18)
	for i, st := range types {
		assert.Equal(t, i, st.ID)
	}
	assert.Equal(t, "filename, ascending", types[0].Description)

	st, ok := SortTypeFromString("Last Played, Descending")
	assert.True(t, ok)
	assert.Equal(t, 7, st.ID)
	assert.False(t, st.Ascending)

	st, ok = SortTypeFromString("bogus")
	assert.False(t, ok)
	assert.Equal(t, 0, st.ID)
}

func TestFolderSortRecursive(t *testing.T) {
	sys := newTestSystem("snes")
	sub := addFolder(sys.Root(), "zz")
	addGame(sub, "zz/b.zip", "B")
	addGame(sub, "zz/a.zip", "A")
	old := addGame(sys.Root(), "old.zip", "Old")
	recent := addGame(sys.Root(), "recent.zip", "Recent")
	old.Metadata().SetTime(MetaLastPlayed, time.Date(2020, 1, 1, 0, 0, 0, 0, time.Local))
	recent.Metadata().SetTime(MetaLastPlayed, time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local))

	byName, _ := SortTypeFromString("filename, ascending")
	sys.Root().Sort(byName)
	assert.Equal(t, []string{"Old", "Recent", "zz"}, names(sys.Root().Children()))
	assert.Equal(t, []string{"A", "B"}, names(sub.Children()))

	lastPlayed, _ := SortTypeFromString("last played, descending")
	sys.Root().Sort(lastPlayed)
	assert.Equal(t, "Recent", sys.Root().Children()[0].Name())
	assert.Equal(t, "Old", sys.Root().Children()[1].Name())
}

func TestPlayersSortUsesLeadingNumber(t *testing.T) {
	sys := newTestSystem("arcade")
	four := addGame(sys.Root(), "four.zip", "Four")
	four.Metadata().Set(MetaPlayers, "3-4")
	one := addGame(sys.Root(), "one.zip", "One")
	one.Metadata().Set(MetaPlayers, "1")

	st, _ := SortTypeFromString("number players, ascending")
	assert.True(t, st.Less(one, four))
	assert.False(t, st.Less(four, one))
}
