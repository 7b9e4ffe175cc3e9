package pathutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateRelative(t *testing.T) {
	base := filepath.Join("/", "roms")
	assert.Equal(t, "./snes/mario.sfc", CreateRelative(filepath.Join(base, "snes", "mario.sfc"), base))
	assert.Equal(t, "/other/game.zip", CreateRelative(filepath.Join("/", "other", "game.zip"), base))
	assert.Equal(t, "/roms", CreateRelative(base, base))
	assert.Equal(t, "/roms/a.zip", CreateRelative(filepath.Join(base, "a.zip"), ""))
}

func TestResolveRelative(t *testing.T) {
	base := filepath.Join("/", "roms")
	assert.Equal(t, filepath.Join(base, "snes", "mario.sfc"), ResolveRelative("./snes/mario.sfc", base))
	assert.Equal(t, filepath.Join("/", "other", "game.zip"), ResolveRelative("/other/game.zip", base))
	assert.Equal(t, "", ResolveRelative("   ", base))
}

func TestRelativeRoundTrip(t *testing.T) {
	base := filepath.Join("/", "data", "roms")
	full := filepath.Join(base, "arcade", "sf2.zip")
	assert.Equal(t, full, ResolveRelative(CreateRelative(full, base), base))
}

func TestStem(t *testing.T) {
	assert.Equal(t, "sf2", Stem("/roms/arcade/sf2.zip"))
	assert.Equal(t, "noext", Stem("noext"))
}
