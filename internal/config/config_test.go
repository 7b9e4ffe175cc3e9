package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `{
  "roms_root": "/roms",
  "non_game_systems": ["retropie"],
  "systems": [
    {"name": "snes", "full_name": "Super Nintendo", "extensions": ["zip", ".SFC"], "platforms": ["snes"]},
    {"name": "retropie", "extensions": [".sh"]}
  ],
  "s3": {"host": "s3.local", "bucket": "backup", "prefix": "collections"}
}`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("/roms", ".collections"), cfg.CollectionsDir)
	assert.Equal(t, filepath.Join("/roms", ".collections", "settings.db"), cfg.SettingsDB)
	require.Len(t, cfg.Systems, 2)
	assert.Equal(t, []string{".zip", ".sfc"}, cfg.Systems[0].Extensions)
	assert.Equal(t, filepath.Join("/roms", "snes"), cfg.Systems[0].Path)
	assert.Equal(t, "retropie", cfg.Systems[1].FullName)
	assert.False(t, cfg.IsGameSystem("RetroPie"))
	assert.True(t, cfg.IsGameSystem("snes"))
	assert.True(t, cfg.S3.Enabled())
}

func TestLoadFirstSkipsMissing(t *testing.T) {
	path := writeConfig(t, sampleConfig)
	cfg, err := LoadFirst("", filepath.Join(t.TempDir(), "missing.json"), path)
	require.NoError(t, err)
	assert.Equal(t, "/roms", cfg.RomsRoot)

	_, err = LoadFirst(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no roms root", `{"systems":[{"name":"snes","extensions":[".zip"]}]}`},
		{"no systems", `{"roms_root":"/roms"}`},
		{"duplicate", `{"roms_root":"/roms","systems":[{"name":"snes","extensions":[".zip"]},{"name":"SNES","extensions":[".zip"]}]}`},
		{"no extensions", `{"roms_root":"/roms","systems":[{"name":"snes"}]}`},
		{"bucket missing", `{"roms_root":"/roms","systems":[{"name":"snes","extensions":[".zip"]}],"s3":{"host":"x"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}
