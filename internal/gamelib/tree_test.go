package gamelib

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSystem(name string) *SystemData {
	env := &SystemEnvironment{
		StartPath:  filepath.Join(string(filepath.Separator), "roms", name),
		Extensions: []string{".zip"},
	}
	return NewSystem(name, name+" full", env, "", SystemFlags{GameSystem: true})
}

func newTestCollection(name string) *SystemData {
	return NewSystem(name, name, nil, "", SystemFlags{Collection: true, GameSystem: true})
}

func addGame(folder *FolderData, rel, name string) *FileData {
	sys := folder.System()
	game := NewFileData(TypeGame, filepath.Join(sys.Environment().StartPath, filepath.FromSlash(rel)), sys)
	if name != "" {
		game.Metadata().Set(MetaName, name)
	}
	folder.AddChild(game)
	return game
}

func addFolder(parent *FolderData, rel string) *FolderData {
	sys := parent.System()
	folder := NewFolderData(filepath.Join(sys.Environment().StartPath, filepath.FromSlash(rel)), sys)
	parent.AddChild(folder)
	return folder
}

func names(nodes []FileNode) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Name())
	}
	return out
}

func TestAddChildSetsParentAndRejectsSecondOwner(t *testing.T) {
	sys := newTestSystem("snes")
	game := addGame(sys.Root(), "a.zip", "")
	assert.Equal(t, sys.Root(), game.Parent())

	other := newTestSystem("nes")
	assert.Panics(t, func() { other.Root().AddChild(game) })
	assert.Equal(t, sys.Root(), game.Parent())
}

func TestRemoveChildFromWrongFolderPanics(t *testing.T) {
	sys := newTestSystem("snes")
	sub := addFolder(sys.Root(), "sub")
	game := addGame(sys.Root(), "a.zip", "")

	assert.Panics(t, func() { sub.RemoveChild(game) })

	sys.Root().RemoveChild(game)
	assert.Nil(t, game.Parent())
	assert.False(t, game.Deleted())
	assert.Equal(t, 1, sys.Root().ChildCount())
}

func TestKeyIsRelativeToSystemRoot(t *testing.T) {
	sys := newTestSystem("snes")
	sub := addFolder(sys.Root(), "rpg")
	game := addGame(sub, "rpg/chrono.zip", "")
	assert.Equal(t, "rpg/chrono.zip", game.Key())
	assert.Equal(t, "chrono", game.Name())
}

func TestFolderDeleteCascades(t *testing.T) {
	sys := newTestSystem("snes")
	sub := addFolder(sys.Root(), "sub")
	a := addGame(sub, "sub/a.zip", "")
	b := addGame(sub, "sub/b.zip", "")

	sub.Delete()
	assert.True(t, a.Deleted())
	assert.True(t, b.Deleted())
	assert.Nil(t, a.Parent())
	assert.Equal(t, 0, sys.Root().ChildCount())
}

func TestAliasDoesNotOwnSource(t *testing.T) {
	sys := newTestSystem("snes")
	game := addGame(sys.Root(), "a.zip", "Alpha")
	game.Metadata().SetBool(MetaFavorite, true)

	coll := newTestCollection("favorites")
	alias := NewCollectionFileData(game, coll)
	coll.Root().AddChild(alias)

	assert.Equal(t, "Alpha", alias.Name())
	assert.Same(t, game, alias.Source())
	assert.True(t, alias.Metadata().Bool(MetaFavorite))

	alias.Delete()
	assert.Equal(t, 0, coll.Root().ChildCount())
	assert.False(t, game.Deleted())
	assert.Equal(t, sys.Root(), game.Parent())
	assert.Equal(t, "Alpha", game.Name())
}

func TestDeletedSourceMakesAliasUnresolvable(t *testing.T) {
	sys := newTestSystem("snes")
	game := addGame(sys.Root(), "a.zip", "Alpha")
	coll := newTestCollection("all")
	alias := NewCollectionFileData(game, coll)
	coll.Root().AddChild(alias)

	game.Delete()
	assert.Nil(t, alias.Source())
	assert.Empty(t, alias.Metadata().Keys())
	assert.Equal(t, "a", alias.Name())
	assert.Equal(t, game.Path(), alias.Key())
}

func TestAliasKeysMatchAcrossCollections(t *testing.T) {
	sys := newTestSystem("snes")
	game := addGame(sys.Root(), "a.zip", "")
	c1 := NewCollectionFileData(game, newTestCollection("all"))
	c2 := NewCollectionFileData(game, newTestCollection("favorites"))

	assert.Equal(t, c1.Key(), c2.Key())
	assert.True(t, filepath.IsAbs(c1.Key()))
	assert.NotEqual(t, game.Key(), c1.Key())
}

func TestAliasNameShowsSourceSystem(t *testing.T) {
	sys := newTestSystem("snes")
	game := addGame(sys.Root(), "a.zip", "Alpha")
	coll := newTestCollection("all")
	alias := NewCollectionFileData(game, coll)

	assert.Equal(t, "Alpha", alias.Name())
	coll.SetShowSourceSystem(true)
	assert.Equal(t, "Alpha [SNES]", alias.Name())
}

func TestChildrenByFilenameMapIsRecursive(t *testing.T) {
	sys := newTestSystem("snes")
	sub := addFolder(sys.Root(), "sub")
	a := addGame(sys.Root(), "a.zip", "")
	b := addGame(sub, "sub/b.zip", "")

	m := make(map[string]FileNode)
	sys.Root().CreateChildrenByFilenameMap(m)
	require.Len(t, m, 2)
	assert.Same(t, a, m["a.zip"])
	assert.Same(t, b, m["sub/b.zip"])

	direct := sys.Root().ChildrenByFilename()
	assert.Len(t, direct, 2)
	assert.Contains(t, direct, "sub")
}

func TestFindByPathAndUniqueGame(t *testing.T) {
	sys := newTestSystem("snes")
	sub := addFolder(sys.Root(), "sub")
	b := addGame(sub, "sub/b.zip", "")

	assert.Same(t, b, sys.Root().FindByPath(b.Path()))
	assert.Nil(t, sys.Root().FindByPath("/nowhere/x.zip"))
	assert.Same(t, b, sub.FindUniqueGame())

	addGame(sub, "sub/c.zip", "")
	assert.Nil(t, sub.FindUniqueGame())
}

func TestFilesRecursiveHonoursMask(t *testing.T) {
	sys := newTestSystem("snes")
	sub := addFolder(sys.Root(), "sub")
	addGame(sys.Root(), "a.zip", "A")
	addGame(sub, "sub/b.zip", "B")

	assert.Equal(t, []string{"B", "A"}, names(sys.Root().FilesRecursive(TypeGame, false, nil)))
	assert.Len(t, sys.Root().FilesRecursive(TypeFolder, false, nil), 1)
	assert.Len(t, sys.Root().FilesRecursive(TypeGame|TypeFolder, false, nil), 3)
}

func TestFilesRecursiveDisplayedOnlyUsesIndex(t *testing.T) {
	sys := newTestSystem("snes")
	a := addGame(sys.Root(), "a.zip", "A")
	b := addGame(sys.Root(), "b.zip", "B")
	a.Metadata().Set(MetaGenre, "Shooter")
	b.Metadata().Set(MetaGenre, "Puzzle")
	sys.AddToIndex(a)
	sys.AddToIndex(b)

	sys.Index().SetFilter(FilterGenre, []string{"shooter"})
	assert.Equal(t, []string{"A"}, names(sys.Root().FilesRecursive(TypeGame, true, nil)))
	assert.Len(t, sys.Root().FilesRecursive(TypeGame, false, nil), 2)
}

func TestChildrenListToDisplay(t *testing.T) {
	sys := newTestSystem("snes")
	addGame(sys.Root(), "a.zip", "Beta")
	addGame(sys.Root(), "b.zip", "Alpha")
	hidden := addGame(sys.Root(), "c.zip", "Gamma")
	hidden.Metadata().SetBool(MetaHidden, true)

	assert.Equal(t, []string{"Alpha", "Beta"}, names(sys.Root().ChildrenListToDisplay(DisplayOptions{})))
	assert.Equal(t, []string{"Alpha", "Beta", "Gamma"}, names(sys.Root().ChildrenListToDisplay(DisplayOptions{ShowHidden: true})))

	sys.SetSortID(1)
	assert.Equal(t, []string{"Beta", "Alpha"}, names(sys.Root().ChildrenListToDisplay(DisplayOptions{})))
}

func TestChildrenListToDisplayKidMode(t *testing.T) {
	sys := newTestSystem("snes")
	kid := addGame(sys.Root(), "a.zip", "Kid")
	kid.Metadata().SetBool(MetaKidGame, true)
	addGame(sys.Root(), "b.zip", "Adult")

	assert.Equal(t, []string{"Kid"}, names(sys.Root().ChildrenListToDisplay(DisplayOptions{ShowHidden: true, KidMode: true})))
}

func TestChildrenListToDisplayCollapsesSingleGameFolders(t *testing.T) {
	sys := newTestSystem("psx")
	single := addFolder(sys.Root(), "ff7")
	single.Metadata().Set(MetaName, "ff7 folder")
	game := addGame(single, "ff7/disc.zip", "Final Fantasy VII")
	multi := addFolder(sys.Root(), "multi")
	multi.Metadata().Set(MetaName, "Multi")
	addGame(multi, "multi/a.zip", "")
	addGame(multi, "multi/b.zip", "")

	plain := sys.Root().ChildrenListToDisplay(DisplayOptions{ShowHidden: true})
	assert.Equal(t, []string{"ff7 folder", "Multi"}, names(plain))

	collapsed := sys.Root().ChildrenListToDisplay(DisplayOptions{ShowHidden: true, CollapseSingleGameFolders: true})
	require.Len(t, collapsed, 2)
	assert.Same(t, game, collapsed[0])
	assert.Same(t, multi, collapsed[1])
}

func TestViewSystemFollowsBundle(t *testing.T) {
	bundle := NewSystem("collections", "Collections", nil, "", SystemFlags{Collection: true, GroupedCustomCollection: true, GameSystem: true})
	custom := newTestCollection("beatemups")
	assert.Same(t, custom, custom.ViewSystem())

	bundle.Root().AddChild(custom.Root())
	assert.Same(t, bundle, custom.ViewSystem())
}

func TestSystemListSortRealSystemsKeepsCollectionSlots(t *testing.T) {
	snes := newTestSystem("snes")
	nes := newTestSystem("nes")
	all := newTestCollection("all")
	gba := newTestSystem("gba")
	list := NewSystemList(snes, all, nes, gba, snes)
	require.Equal(t, 4, list.Len())

	list.SortRealSystems(func(a, b *SystemData) bool { return a.Name() < b.Name() })
	got := list.All()
	assert.Equal(t, []string{"gba", "all", "nes", "snes"}, []string{got[0].Name(), got[1].Name(), got[2].Name(), got[3].Name()})
	assert.Same(t, nes, list.Find("NES"))
	assert.True(t, list.Remove(all))
	assert.False(t, list.Contains(all))
}
