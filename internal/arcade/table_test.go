package arcade

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xxxsen/retrocoll/internal/dat"
	"github.com/xxxsen/retrocoll/internal/gamelib"
)

const mameDat = `<?xml version="1.0"?>
<datafile>
  <machine name="1942" sourcefile="capcom/1942.cpp">
    <manufacturer>Capcom</manufacturer>
    <display rotate="270"/>
  </machine>
  <machine name="ffight" sourcefile="capcom/cps1.cpp">
    <manufacturer>Capcom</manufacturer>
    <display rotate="0"/>
  </machine>
  <machine name="tmnt" sourcefile="konami/tmnt.cpp">
    <manufacturer>Konami</manufacturer>
  </machine>
  <machine name="ddragon" sourcefile="misc/ddragon.cpp">
    <manufacturer>Technos Japan (Taito license)</manufacturer>
  </machine>
  <machine name="neogeo" sourcefile="neogeo/neogeo.cpp" isbios="yes"/>
</datafile>`

const fbneoDat = `<?xml version="1.0"?>
<datafile>
  <game name="dimahoo" sourcefile="cps2/d_cps2.cpp">
    <video orientation="vertical"/>
  </game>
  <game name="mslug" sourcefile="neogeo/d_neogeo.cpp">
    <video orientation="horizontal"/>
  </game>
</datafile>`

func newTestTable(t *testing.T) *Table {
	t.Helper()
	mame, err := dat.ParseMame(strings.NewReader(mameDat))
	require.NoError(t, err)
	fbneo, err := dat.ParseFBNeo(strings.NewReader(fbneoDat))
	require.NoError(t, err)
	table := NewTable()
	table.AddMame(mame)
	table.AddFBNeo(fbneo)
	return table
}

func TestTableVerticalAndVendor(t *testing.T) {
	table := newTestTable(t)

	assert.True(t, table.IsVertical("1942"))
	assert.True(t, table.IsVertical("DIMAHOO"))
	assert.False(t, table.IsVertical("ffight"))
	assert.False(t, table.IsVertical("unknown"))

	assert.Equal(t, "capcom", table.Vendor("1942"))
	assert.Equal(t, "cps1", table.Vendor("ffight"))
	assert.Equal(t, "konami", table.Vendor("tmnt"))
	assert.Equal(t, "technos", table.Vendor("ddragon"))
	assert.Equal(t, "cps2", table.Vendor("dimahoo"))
	assert.Equal(t, "neogeo", table.Vendor("mslug"))
	assert.Equal(t, "", table.Vendor("neogeo"))
	assert.Equal(t, 6, table.Len())
}

func TestLoadFromFiles(t *testing.T) {
	dir := t.TempDir()
	mamePath := filepath.Join(dir, "mame.dat")
	require.NoError(t, os.WriteFile(mamePath, []byte(mameDat), 0o644))

	table, err := Load(context.Background(), mamePath, "")
	require.NoError(t, err)
	assert.True(t, table.IsVertical("1942"))

	_, err = Load(context.Background(), "", filepath.Join(dir, "missing.dat"))
	assert.Error(t, err)
}

func TestEnrichFillsArcadeSystemName(t *testing.T) {
	table := newTestTable(t)
	env := &gamelib.SystemEnvironment{StartPath: "/roms/mame", PlatformIDs: []string{gamelib.PlatformArcade}}
	sys := gamelib.NewSystem("mame", "MAME", env, "", gamelib.SystemFlags{GameSystem: true})
	ffight := gamelib.NewFileData(gamelib.TypeGame, "/roms/mame/ffight.zip", sys)
	tmnt := gamelib.NewFileData(gamelib.TypeGame, "/roms/mame/tmnt.zip", sys)
	tmnt.Metadata().Set(gamelib.MetaArcadeSystemName, "custom")
	tmnt.Metadata().ResetChanged()
	sys.Root().AddChild(ffight)
	sys.Root().AddChild(tmnt)

	assert.Equal(t, 1, table.Enrich(context.Background(), sys))
	assert.Equal(t, "cps1", ffight.Metadata().Get(gamelib.MetaArcadeSystemName))
	assert.False(t, ffight.Metadata().Changed())
	assert.Equal(t, "custom", tmnt.Metadata().Get(gamelib.MetaArcadeSystemName))
	assert.Equal(t, []gamelib.FilterValue{{Value: "CPS1", Count: 1}}, sys.Index().Values(gamelib.FilterVendor))

	snes := gamelib.NewSystem("snes", "SNES", &gamelib.SystemEnvironment{StartPath: "/roms/snes"}, "", gamelib.SystemFlags{GameSystem: true})
	assert.Equal(t, 0, table.Enrich(context.Background(), snes))
}

func TestApplyMarksRecordsChanged(t *testing.T) {
	table := newTestTable(t)
	env := &gamelib.SystemEnvironment{StartPath: "/roms/fbneo", PlatformIDs: []string{gamelib.PlatformArcade}}
	sys := gamelib.NewSystem("fbneo", "FBNeo", env, "", gamelib.SystemFlags{GameSystem: true})
	mslug := gamelib.NewFileData(gamelib.TypeGame, "/roms/fbneo/mslug.zip", sys)
	sys.Root().AddChild(mslug)

	assert.Equal(t, 1, table.Apply(context.Background(), sys))
	assert.Equal(t, "neogeo", mslug.Metadata().Get(gamelib.MetaArcadeSystemName))
	assert.True(t, mslug.Metadata().Changed())
	assert.True(t, gamelib.HasUnsavedMetadata(sys))
}
