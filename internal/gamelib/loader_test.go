package gamelib

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xxxsen/retrocoll/internal/metadata"
)

const sampleGamelist = `<?xml version="1.0"?>
<gameList>
  <folder>
    <path>./sub</path>
    <name>Sub Folder</name>
  </folder>
  <game>
    <path>./a.zip</path>
    <name>Alpha</name>
    <favorite>true</favorite>
    <playcount>3</playcount>
  </game>
  <game>
    <path>./sub/c.zip</path>
    <name>Charlie</name>
    <players>2</players>
  </game>
  <game>
    <path>./missing.zip</path>
    <name>Ghost</name>
  </game>
</gameList>
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadSystemWalksDirAndAppliesGamelist(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.zip"), "a")
	writeFile(t, filepath.Join(root, "b.zip"), "b")
	writeFile(t, filepath.Join(root, "readme.txt"), "r")
	writeFile(t, filepath.Join(root, ".hidden.zip"), "h")
	writeFile(t, filepath.Join(root, "sub", "c.zip"), "c")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty"), 0o755))
	writeFile(t, filepath.Join(root, metadata.GamelistFileName), sampleGamelist)

	env := &SystemEnvironment{StartPath: root, Extensions: []string{".zip"}}
	sys, err := LoadSystem(context.Background(), "snes", "Super Nintendo", env, "", SystemFlags{GameSystem: true})
	require.NoError(t, err)

	assert.Equal(t, 3, sys.GameCount())
	assert.Equal(t, 3, sys.Index().Len())
	assert.Nil(t, sys.Root().FindByPath(filepath.Join(root, "empty")))
	assert.Nil(t, sys.Root().FindByPath(filepath.Join(root, "readme.txt")))

	a := sys.Root().FindByPath(filepath.Join(root, "a.zip"))
	require.NotNil(t, a)
	assert.Equal(t, "Alpha", a.Name())
	assert.True(t, a.Metadata().Bool(MetaFavorite))
	assert.Equal(t, 3, a.Metadata().Int(MetaPlayCount))
	assert.False(t, a.Metadata().Changed())

	sub := sys.Root().FindByPath(filepath.Join(root, "sub"))
	require.NotNil(t, sub)
	assert.Equal(t, "Sub Folder", sub.Name())
	assert.False(t, HasUnsavedMetadata(sys))
}

func TestLoadSystemWithoutGamelist(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.zip"), "a")

	env := &SystemEnvironment{StartPath: root, Extensions: []string{".ZIP"}}
	sys, err := LoadSystem(context.Background(), "nes", "NES", env, "", SystemFlags{GameSystem: true})
	require.NoError(t, err)
	assert.Equal(t, 1, sys.GameCount())
	assert.Equal(t, "a", sys.Root().Children()[0].Name())
}

func TestLoadSystemMissingDir(t *testing.T) {
	env := &SystemEnvironment{StartPath: filepath.Join(t.TempDir(), "nope")}
	_, err := LoadSystem(context.Background(), "nes", "NES", env, "", SystemFlags{})
	assert.Error(t, err)
}

func TestSaveGamelistWritesChangedMetadata(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.zip"), "a")
	writeFile(t, filepath.Join(root, "b.zip"), "b")
	env := &SystemEnvironment{StartPath: root, Extensions: []string{".zip"}}
	sys, err := LoadSystem(context.Background(), "snes", "SNES", env, "", SystemFlags{GameSystem: true})
	require.NoError(t, err)

	saved, err := SaveGamelist(context.Background(), sys)
	require.NoError(t, err)
	assert.False(t, saved)

	a := sys.Root().FindByPath(filepath.Join(root, "a.zip"))
	a.Metadata().SetBool(MetaFavorite, true)
	a.Metadata().Set(MetaPlayCount, "1")

	saved, err = SaveGamelist(context.Background(), sys)
	require.NoError(t, err)
	assert.True(t, saved)
	assert.False(t, HasUnsavedMetadata(sys))

	doc, err := metadata.ParseGamelistFile(filepath.Join(root, metadata.GamelistFileName))
	require.NoError(t, err)
	require.Len(t, doc.Games, 1)
	assert.Equal(t, "./a.zip", doc.Games[0].Path)
	assert.True(t, doc.Games[0].Favorite)
	assert.Equal(t, "1", doc.Games[0].PlayCount)
}
